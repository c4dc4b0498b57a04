package domain

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// Errores de dominio del libro de stock.
var (
	ErrNotFound          = errors.New("recurso no encontrado")
	ErrInvalidInput      = errors.New("entrada inválida")
	ErrConflict          = errors.New("conflicto con el estado actual")
	ErrInsufficientStock = errors.New("stock insuficiente")
)

// Invalid envuelve ErrInvalidInput con el detalle del campo rechazado.
func Invalid(detail string) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, detail)
}

// NotFound envuelve ErrNotFound indicando qué recurso faltó dentro de la empresa.
func NotFound(what string) error {
	return fmt.Errorf("%w: %s", ErrNotFound, what)
}

// Conflict envuelve ErrConflict.
func Conflict(detail string) error {
	return fmt.Errorf("%w: %s", ErrConflict, detail)
}

// InsufficientStockError indica que la cantidad disponible no cubre la solicitada.
// errors.Is(err, ErrInsufficientStock) es verdadero.
type InsufficientStockError struct {
	Item      string
	Available decimal.Decimal
	Required  decimal.Decimal
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("stock insuficiente para %s: disponible %s, requerido %s",
		e.Item, e.Available.String(), e.Required.String())
}

// Is permite comparar contra el sentinel ErrInsufficientStock.
func (e *InsufficientStockError) Is(target error) bool {
	return target == ErrInsufficientStock
}

// Shortfall devuelve cuánto falta para cubrir lo requerido.
func (e *InsufficientStockError) Shortfall() decimal.Decimal {
	return e.Required.Sub(e.Available)
}

package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// LotKind distingue lotes de insumos y de productos del menú. También es el tipo de auditoría.
type LotKind string

const (
	LotKindIngredient LotKind = "INGREDIENT"
	LotKindMenuItem   LotKind = "MENU_ITEM"
)

// IsValid indica si el tipo es conocido.
func (k LotKind) IsValid() bool {
	return k == LotKindIngredient || k == LotKindMenuItem
}

// Lot es un lote de recepción de un insumo o producto del menú.
// El ID es secuencial: un ID mayor siempre corresponde a un lote creado después.
type Lot struct {
	ID             int64
	Kind           LotKind
	EntityID       string // ingredient_id o menu_item_id según Kind
	CompanyID      string
	LotNumber      string // único por (entidad, empresa)
	Quantity       decimal.Decimal
	UnitCost       decimal.Decimal
	ExpirationDate *time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Clone devuelve una copia independiente del lote.
func (l *Lot) Clone() *Lot {
	c := *l
	if l.ExpirationDate != nil {
		exp := *l.ExpirationDate
		c.ExpirationDate = &exp
	}
	return &c
}

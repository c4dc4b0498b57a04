package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de movimiento del libro de stock.
const (
	MovementTypeIN         = "IN"         // entrada a un lote
	MovementTypeOUT        = "OUT"        // salida de un lote
	MovementTypeADJUSTMENT = "ADJUSTMENT" // salida por ajuste manual
	MovementTypeWASTE      = "WASTE"      // salida por merma, acompañada de un WasteLog
)

// StockMovement registro inmutable del libro. StockAfter es la cantidad del lote
// inmediatamente después de aplicar el movimiento.
type StockMovement struct {
	ID              string
	CompanyID       string
	Kind            LotKind
	EntityID        string
	LotID           int64
	Type            string
	Quantity        decimal.Decimal // siempre positiva; el tipo define el sentido
	Unit            string
	Reason          string
	RelatedTicketID *string
	AuditID         *string
	PerformedBy     string
	StockAfter      decimal.Decimal
	CreatedAt       time.Time
}

// IsOutbound indica si el movimiento descuenta del lote.
func (m *StockMovement) IsOutbound() bool {
	return m.Type != MovementTypeIN
}

package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// WasteReason motivo de merma.
type WasteReason string

const (
	WasteReasonExpired          WasteReason = "EXPIRED"
	WasteReasonDamaged          WasteReason = "DAMAGED"
	WasteReasonSpoiled          WasteReason = "SPOILED"
	WasteReasonPreparationError WasteReason = "PREPARATION_ERROR"
	WasteReasonOverproduction   WasteReason = "OVERPRODUCTION"
	WasteReasonOther            WasteReason = "OTHER"
)

// IsValid indica si el motivo es uno de los conocidos.
func (r WasteReason) IsValid() bool {
	switch r {
	case WasteReasonExpired, WasteReasonDamaged, WasteReasonSpoiled,
		WasteReasonPreparationError, WasteReasonOverproduction, WasteReasonOther:
		return true
	}
	return false
}

// WasteLog registro de merma sobre un lote. Siempre va acompañado de un movimiento WASTE.
type WasteLog struct {
	ID          string
	CompanyID   string
	Kind        LotKind
	EntityID    string
	LotID       int64
	Quantity    decimal.Decimal
	Unit        string
	Reason      WasteReason
	Notes       string
	LogDate     time.Time
	PerformedBy string
	CreatedAt   time.Time
}

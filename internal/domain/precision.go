package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// QuantityScale decimales que guardan las columnas NUMERIC(14,4) de cantidades y costos.
const QuantityScale = 4

// CheckScale rechaza valores que la base redondearía al guardarlos.
// Los ceros a la derecha no cuentan: 1.50000 es válido.
func CheckScale(field string, v decimal.Decimal) error {
	if !v.Equal(v.Truncate(QuantityScale)) {
		return Invalid(fmt.Sprintf("%s admite máximo %d decimales: %s", field, QuantityScale, v.String()))
	}
	return nil
}

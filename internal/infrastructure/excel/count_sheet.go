package excel

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/jhoicas/Comedor-api/internal/application/inventory"
	"github.com/jhoicas/Comedor-api/internal/domain/entity"
)

const (
	sheetName    = "Conteo"
	columnsCount = 5
)

var header = []interface{}{"entity_id", "nombre", "unidad", "stock_teorico", "conteo_fisico"}

var _ inventory.CountSheetCodec = CountSheetCodec{}

// ErrBadSheet la planilla no tiene el formato de conteo esperado.
var ErrBadSheet = errors.New("planilla de conteo inválida")

// CountSheetCodec lee y escribe planillas .xlsx de conteo físico.
// Una fila por entidad; la columna conteo_fisico vacía significa "no contado".
type CountSheetCodec struct{}

func NewCountSheetCodec() CountSheetCodec { return CountSheetCodec{} }

func (CountSheetCodec) Encode(auditType entity.LotKind, rows []inventory.CountSheetRow) ([]byte, error) {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName(f.GetSheetName(f.GetActiveSheetIndex()), sheetName); err != nil {
		return nil, fmt.Errorf("renombrar hoja: %w", err)
	}
	if err := f.SetSheetRow(sheetName, "A1", &header); err != nil {
		return nil, fmt.Errorf("escribir encabezado: %w", err)
	}
	for i, r := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		values := []interface{}{r.EntityID, r.Name, r.Unit, r.TheoreticalStock.InexactFloat64()}
		if r.PhysicalStock != nil {
			values = append(values, r.PhysicalStock.InexactFloat64())
		}
		if err := f.SetSheetRow(sheetName, cell, &values); err != nil {
			return nil, fmt.Errorf("escribir fila %d: %w", i+2, err)
		}
	}
	if err := f.SetDocProps(&excelize.DocProperties{
		Title:   "Conteo físico",
		Subject: string(auditType),
	}); err != nil {
		return nil, err
	}

	buf := &bytes.Buffer{}
	if err := f.Write(buf); err != nil {
		return nil, fmt.Errorf("escribir planilla: %w", err)
	}
	return buf.Bytes(), nil
}

// Decode devuelve una fila por cada fila de datos de la primera hoja, en orden, para que el
// índice i corresponda a la fila i+2 del archivo. Filas sin entity_id quedan sin conteo.
func (CountSheetCodec) Decode(data []byte) ([]inventory.CountSheetRow, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: no es un .xlsx legible", ErrBadSheet)
	}
	defer func() { _ = f.Close() }()

	rows, err := f.GetRows(f.GetSheetName(f.GetActiveSheetIndex()))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadSheet, err)
	}
	if len(rows) == 0 || len(rows[0]) < columnsCount || strings.TrimSpace(rows[0][0]) != header[0] {
		return nil, fmt.Errorf("%w: se esperan las columnas %v", ErrBadSheet, header)
	}

	out := make([]inventory.CountSheetRow, 0, len(rows)-1)
	for i := 1; i < len(rows); i++ {
		row := rows[i]
		r := inventory.CountSheetRow{EntityID: cellAt(row, 0), Name: cellAt(row, 1), Unit: cellAt(row, 2)}
		if r.EntityID == "" {
			out = append(out, r)
			continue
		}
		if s := cellAt(row, 3); s != "" {
			if r.TheoreticalStock, err = decimal.NewFromString(s); err != nil {
				return nil, fmt.Errorf("%w: fila %d: stock_teorico %q no es numérico", ErrBadSheet, i+1, s)
			}
		}
		if s := cellAt(row, 4); s != "" {
			qty, err := decimal.NewFromString(strings.ReplaceAll(s, ",", "."))
			if err != nil {
				return nil, fmt.Errorf("%w: fila %d: conteo_fisico %q no es numérico", ErrBadSheet, i+1, s)
			}
			r.PhysicalStock = &qty
		}
		out = append(out, r)
	}
	return out, nil
}

func cellAt(row []string, i int) string {
	if i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

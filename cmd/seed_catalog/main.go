// seed_catalog genera un script SQL para poblar insumos y productos del menú de una empresa
// a partir de un CSV exportado desde Excel (separador ';', codificación Windows-1252 por defecto).
//
// Uso: go run ./cmd/seed_catalog -company <uuid> [-utf8] [-out catalogo.sql] catalogo.csv
//
// Columnas: tipo;nombre;unidad;precio. tipo es INSUMO o PRODUCTO; precio solo aplica a productos.
// Los IDs se derivan de empresa+tipo+nombre, así que el script se puede aplicar más de una vez.
package main

import (
	"encoding/csv"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

const (
	kindIngredient = "INSUMO"
	kindMenuItem   = "PRODUCTO"
)

type catalogRow struct {
	kind  string
	name  string
	unit  string
	price decimal.Decimal
}

func main() {
	companyID := flag.String("company", "", "UUID de la empresa")
	utf8 := flag.Bool("utf8", false, "el CSV ya viene en UTF-8")
	outPath := flag.String("out", "", "archivo de salida (por defecto stdout)")
	flag.Parse()

	company, err := uuid.Parse(*companyID)
	if err != nil || flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "uso: seed_catalog -company <uuid> [-utf8] [-out archivo.sql] catalogo.csv")
		os.Exit(2)
	}

	f, err := os.Open(flag.Arg(0))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Abrir CSV: %v\n", err)
		os.Exit(1)
	}
	defer f.Close()

	rows, err := parseCatalog(f, !*utf8)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Leer CSV: %v\n", err)
		os.Exit(1)
	}

	out := os.Stdout
	if *outPath != "" {
		out, err = os.Create(*outPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Crear archivo: %v\n", err)
			os.Exit(1)
		}
		defer out.Close()
	}
	if err := writeSQL(out, company, rows); err != nil {
		fmt.Fprintf(os.Stderr, "Escribir SQL: %v\n", err)
		os.Exit(1)
	}
	fmt.Fprintf(os.Stderr, "Generado: %d filas para la empresa %s\n", len(rows), company)
}

// parseCatalog lee el CSV. Con latin1 decodifica Windows-1252, que es lo que exporta Excel en español.
func parseCatalog(r io.Reader, latin1 bool) ([]catalogRow, error) {
	if latin1 {
		r = transform.NewReader(r, charmap.Windows1252.NewDecoder())
	}
	cr := csv.NewReader(r)
	cr.Comma = ';'
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	records, err := cr.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, errors.New("CSV vacío")
	}

	var rows []catalogRow
	seen := make(map[string]int)
	for i, rec := range records[1:] {
		line := i + 2
		if len(rec) < 3 || strings.TrimSpace(rec[0]) == "" {
			continue
		}
		row := catalogRow{
			kind: strings.ToUpper(strings.TrimSpace(rec[0])),
			name: strings.TrimSpace(rec[1]),
			unit: strings.TrimSpace(rec[2]),
		}
		if row.kind != kindIngredient && row.kind != kindMenuItem {
			return nil, fmt.Errorf("línea %d: tipo %q desconocido", line, rec[0])
		}
		if row.name == "" || row.unit == "" {
			return nil, fmt.Errorf("línea %d: nombre y unidad son obligatorios", line)
		}
		if len(rec) > 3 && strings.TrimSpace(rec[3]) != "" {
			price, err := decimal.NewFromString(strings.ReplaceAll(strings.TrimSpace(rec[3]), ",", "."))
			if err != nil || price.IsNegative() {
				return nil, fmt.Errorf("línea %d: precio inválido %q", line, rec[3])
			}
			row.price = price
		}
		key := row.kind + ":" + strings.ToLower(row.name)
		if prev, ok := seen[key]; ok {
			return nil, fmt.Errorf("línea %d: %s repetido (ya está en la línea %d)", line, row.name, prev)
		}
		seen[key] = line
		rows = append(rows, row)
	}
	return rows, nil
}

// entityID es estable para (empresa, tipo, nombre).
func entityID(company uuid.UUID, row catalogRow) uuid.UUID {
	return uuid.NewSHA1(company, []byte(row.kind+":"+strings.ToLower(row.name)))
}

func writeSQL(w io.Writer, company uuid.UUID, rows []catalogRow) error {
	var b strings.Builder
	b.WriteString("-- Catálogo del comedor generado por seed_catalog\n\n")
	for _, row := range rows {
		id := entityID(company, row)
		switch row.kind {
		case kindIngredient:
			fmt.Fprintf(&b, "INSERT INTO ingredients (id, company_id, name, unit)\nVALUES ('%s', '%s', '%s', '%s')\n",
				id, company, escapeSQL(row.name), escapeSQL(row.unit))
			b.WriteString("ON CONFLICT (company_id, name) DO UPDATE SET unit = EXCLUDED.unit, updated_at = now();\n")
		case kindMenuItem:
			fmt.Fprintf(&b, "INSERT INTO menu_items (id, company_id, name, unit, price)\nVALUES ('%s', '%s', '%s', '%s', %s)\n",
				id, company, escapeSQL(row.name), escapeSQL(row.unit), row.price.String())
			b.WriteString("ON CONFLICT (company_id, name) DO UPDATE SET unit = EXCLUDED.unit, price = EXCLUDED.price, updated_at = now();\n")
		}
	}
	_, err := io.WriteString(w, b.String())
	return err
}

func escapeSQL(s string) string {
	return strings.ReplaceAll(s, "'", "''")
}

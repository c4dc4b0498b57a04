package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/charmap"
)

var company = uuid.MustParse("00000000-0000-0000-0000-000000000002")

func TestParseCatalog_DecodificaWindows1252(t *testing.T) {
	csvText := "tipo;nombre;unidad;precio\nINSUMO;Azúcar;kg;\nproducto;Almuerzo del día;porción;12,50\n"
	encoded, err := charmap.Windows1252.NewEncoder().String(csvText)
	require.NoError(t, err)

	rows, err := parseCatalog(strings.NewReader(encoded), true)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Azúcar", rows[0].name)
	assert.Equal(t, kindMenuItem, rows[1].kind)
	assert.Equal(t, "12.5", rows[1].price.String())
}

func TestParseCatalog_Errores(t *testing.T) {
	_, err := parseCatalog(strings.NewReader("tipo;nombre;unidad\nBEBIDA;Jugo;l\n"), false)
	assert.ErrorContains(t, err, "línea 2")

	_, err = parseCatalog(strings.NewReader("tipo;nombre;unidad\nINSUMO;Sal;kg\nINSUMO;sal;kg\n"), false)
	assert.ErrorContains(t, err, "repetido")

	_, err = parseCatalog(strings.NewReader("tipo;nombre;unidad;precio\nPRODUCTO;Sopa;porción;-1\n"), false)
	assert.ErrorContains(t, err, "precio inválido")
}

func TestWriteSQL_IDsEstablesYEscapados(t *testing.T) {
	rows := []catalogRow{{kind: kindIngredient, name: "Pan d'agua", unit: "und"}}

	var first, second bytes.Buffer
	require.NoError(t, writeSQL(&first, company, rows))
	require.NoError(t, writeSQL(&second, company, rows))

	assert.Equal(t, first.String(), second.String(), "mismo CSV, mismo script")
	assert.Contains(t, first.String(), "'Pan d''agua'")
	assert.Contains(t, first.String(), entityID(company, rows[0]).String())
}

package main

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/charmap"
)

const productA = "11111111-1111-1111-1111-111111111111"

func TestParseLines_Coma(t *testing.T) {
	in := "product_id,volume_liter,price_per_liter\n" +
		productA + ",1.5,1200000\n" +
		"\n" +
		productA + ",0.5,800000\n"
	lines, err := parseLines(strings.NewReader(in), ',')
	require.NoError(t, err)
	require.Len(t, lines, 2)
	assert.Equal(t, productA, lines[0].ProductID)
	assert.Equal(t, "1.5", lines[0].VolumeLiter.String())
	assert.Equal(t, "800000", lines[1].PricePerLiter.String())
}

func TestParseLines_PuntoYComaConComaDecimal(t *testing.T) {
	in := "price_per_liter;product_id;volume_liter\n" +
		"1.200.000,50;" + productA + ";2,25\n"
	lines, err := parseLines(strings.NewReader(in), ';')
	require.NoError(t, err)
	require.Len(t, lines, 1)
	assert.Equal(t, "2.25", lines[0].VolumeLiter.String())
	assert.Equal(t, "1200000.5", lines[0].PricePerLiter.String())
}

func TestParseLines_Errores(t *testing.T) {
	tests := map[string]string{
		"vacío":           "",
		"sin columna":     "product_id,volume_liter\n" + productA + ",1\n",
		"sin líneas":      "product_id,volume_liter,price_per_liter\n",
		"número inválido": "product_id,volume_liter,price_per_liter\n" + productA + ",uno,100\n",
	}
	for name, in := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := parseLines(strings.NewReader(in), ',')
			assert.Error(t, err)
		})
	}
}

func TestDecodeReader_Windows1252(t *testing.T) {
	raw, err := charmap.Windows1252.NewEncoder().String("Año,Maracuyá\n")
	require.NoError(t, err)

	r, err := decodeReader(bytes.NewReader([]byte(raw)), "windows-1252")
	require.NoError(t, err)
	got, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, "Año,Maracuyá\n", string(got))

	_, err = decodeReader(strings.NewReader(""), "ebcdic")
	assert.Error(t, err)
}

package main

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/jhoicas/pos-inventario/internal/application/dto"
	"github.com/shopspring/decimal"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

// Columnas obligatorias del archivo del proveedor (el orden no importa).
const (
	colProduct = "product_id"
	colVolume  = "volume_liter"
	colPrice   = "price_per_liter"
)

// decodeReader envuelve r según la codificación del archivo. Las planillas exportadas
// desde Excel en Windows suelen venir en Windows-1252.
func decodeReader(r io.Reader, encoding string) (io.Reader, error) {
	switch strings.ToLower(strings.TrimSpace(encoding)) {
	case "", "utf8", "utf-8":
		return r, nil
	case "windows-1252", "cp1252":
		return transform.NewReader(r, charmap.Windows1252.NewDecoder()), nil
	case "latin1", "iso-8859-1":
		return transform.NewReader(r, charmap.ISO8859_1.NewDecoder()), nil
	default:
		return nil, fmt.Errorf("codificación no soportada: %s", encoding)
	}
}

// parseLines lee el CSV con encabezado y devuelve una línea de compra por fila.
// Con separador ';' se acepta coma decimal ("1,5").
func parseLines(r io.Reader, sep rune) ([]dto.PurchaseLineRequest, error) {
	cr := csv.NewReader(r)
	cr.Comma = sep
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("archivo vacío")
	}
	if err != nil {
		return nil, fmt.Errorf("leer encabezado: %w", err)
	}
	idx := make(map[string]int, len(header))
	for i, h := range header {
		idx[strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))] = i
	}
	for _, col := range []string{colProduct, colVolume, colPrice} {
		if _, ok := idx[col]; !ok {
			return nil, fmt.Errorf("falta la columna %s", col)
		}
	}

	var lines []dto.PurchaseLineRequest
	for row := 2; ; row++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("fila %d: %w", row, err)
		}
		if blank(rec) {
			continue
		}
		volume, err := parseDecimal(rec[idx[colVolume]], sep)
		if err != nil {
			return nil, fmt.Errorf("fila %d: %s: %w", row, colVolume, err)
		}
		price, err := parseDecimal(rec[idx[colPrice]], sep)
		if err != nil {
			return nil, fmt.Errorf("fila %d: %s: %w", row, colPrice, err)
		}
		lines = append(lines, dto.PurchaseLineRequest{
			ProductID:     strings.TrimSpace(rec[idx[colProduct]]),
			VolumeLiter:   volume,
			PricePerLiter: price,
		})
	}
	if len(lines) == 0 {
		return nil, fmt.Errorf("el archivo no tiene líneas")
	}
	return lines, nil
}

func parseDecimal(raw string, sep rune) (decimal.Decimal, error) {
	s := strings.TrimSpace(raw)
	if sep == ';' {
		s = strings.ReplaceAll(s, ".", "")
		s = strings.ReplaceAll(s, ",", ".")
	}
	return decimal.NewFromString(s)
}

func blank(rec []string) bool {
	for _, f := range rec {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}

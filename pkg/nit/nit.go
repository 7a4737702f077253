// Package nit valida el NIT colombiano de proveedores (módulo 11 de la DIAN).
package nit

import (
	"errors"
	"fmt"
	"unicode"
)

// pesos para el dígito de verificación, aplicados de derecha a izquierda sobre la base.
var weights = [...]int{3, 7, 13, 17, 19, 23, 29, 37, 41, 43, 47, 53, 59, 67, 71}

// ErrInvalid NIT con formato o dígito de verificación incorrecto.
var ErrInvalid = errors.New("nit inválido")

// CheckDigit calcula el dígito de verificación de una base numérica (sin el dígito).
func CheckDigit(base string) (byte, error) {
	if base == "" || len(base) > len(weights) {
		return 0, fmt.Errorf("%w: base de %d dígitos", ErrInvalid, len(base))
	}
	var sum int
	for i := 0; i < len(base); i++ {
		c := base[len(base)-1-i]
		if c < '0' || c > '9' {
			return 0, fmt.Errorf("%w: carácter %q", ErrInvalid, c)
		}
		sum += int(c-'0') * weights[i]
	}
	r := sum % 11
	if r > 1 {
		r = 11 - r
	}
	return byte('0' + r), nil
}

// Normalize acepta "800.197.268-4", "800197268-4" o "8001972684" y devuelve "800197268-4".
// El último dígito siempre se toma como dígito de verificación.
func Normalize(taxID string) (string, error) {
	var digits []byte
	for _, r := range taxID {
		switch {
		case unicode.IsDigit(r):
			digits = append(digits, byte(r))
		case r == '.' || r == '-' || r == ' ':
		default:
			return "", fmt.Errorf("%w: carácter %q", ErrInvalid, r)
		}
	}
	if len(digits) < 6 {
		return "", fmt.Errorf("%w: se esperan al menos 6 dígitos, llegaron %d", ErrInvalid, len(digits))
	}
	base, dv := string(digits[:len(digits)-1]), digits[len(digits)-1]
	expected, err := CheckDigit(base)
	if err != nil {
		return "", err
	}
	if dv != expected {
		return "", fmt.Errorf("%w: dígito de verificación %c, esperado %c", ErrInvalid, dv, expected)
	}
	return base + "-" + string(dv), nil
}

package domain

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/jhoicas/pos-inventario/pkg/pagination"
)

// ValidateID normaliza y valida un identificador UUID. kind se usa solo en el mensaje.
func ValidateID(kind, id string) (string, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return "", fmt.Errorf("%w: %s requerido", ErrInvalidInput, kind)
	}
	parsed, err := uuid.Parse(id)
	if err != nil {
		return "", fmt.Errorf("%w: %s %q no es un UUID", ErrInvalidInput, kind, id)
	}
	return parsed.String(), nil
}

// ValidateIDs valida una lista de ids y elimina duplicados conservando el orden.
func ValidateIDs(kind string, ids []string) ([]string, error) {
	if len(ids) == 0 {
		return nil, fmt.Errorf("%w: al menos un %s requerido", ErrInvalidInput, kind)
	}
	out := make([]string, 0, len(ids))
	seen := make(map[string]struct{}, len(ids))
	for _, raw := range ids {
		id, err := ValidateID(kind, raw)
		if err != nil {
			return nil, err
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out, nil
}

// FetchFailed envuelve un error de lectura como ErrFetch conservando la causa.
func FetchFailed(what string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrFetch, what, err)
}

// ValidateCursor rechaza cursores que no decodifican o cuyo id no es un UUID, antes de que
// lleguen al almacén. El vacío es válido (primera página).
func ValidateCursor(cursor string) error {
	if cursor == "" {
		return nil
	}
	k, err := pagination.DecodeCursor(cursor)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	if _, err := uuid.Parse(k.ID); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidInput, pagination.ErrInvalidCursor)
	}
	return nil
}

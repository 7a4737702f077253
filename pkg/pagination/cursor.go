// Package pagination implementa paginación por cursor sobre colecciones append-only
// ordenadas por (recorded_at DESC, id DESC).
//
// El cursor codifica la posición compuesta de la última fila devuelta; la siguiente página
// empieza estrictamente después de esa posición, así que las inserciones concurrentes no
// duplican ni omiten filas ya visibles.
package pagination

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"strings"
	"time"
)

// ErrInvalidCursor se devuelve cuando el token no puede decodificarse.
var ErrInvalidCursor = errors.New("cursor inválido")

// Key es la posición compuesta de una fila en el orden (RecordedAt DESC, ID DESC).
type Key struct {
	RecordedAt time.Time
	ID         string
}

// Before indica si k va antes que other en el orden de paginación.
func (k Key) Before(other Key) bool {
	if !k.RecordedAt.Equal(other.RecordedAt) {
		return k.RecordedAt.After(other.RecordedAt)
	}
	return k.ID > other.ID
}

type cursorPayload struct {
	T  int64  `json:"t"`
	ID string `json:"id"`
}

// EncodeCursor serializa la clave como token opaco (base64url sin padding).
func EncodeCursor(k Key) string {
	raw, _ := json.Marshal(cursorPayload{T: k.RecordedAt.UnixNano(), ID: k.ID})
	return base64.RawURLEncoding.EncodeToString(raw)
}

// DecodeCursor interpreta un token producido por EncodeCursor.
func DecodeCursor(token string) (Key, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return Key{}, ErrInvalidCursor
	}
	raw, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		return Key{}, ErrInvalidCursor
	}
	var p cursorPayload
	if err := json.Unmarshal(raw, &p); err != nil || p.ID == "" {
		return Key{}, ErrInvalidCursor
	}
	return Key{RecordedAt: time.Unix(0, p.T).UTC(), ID: p.ID}, nil
}

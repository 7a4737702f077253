package postgres

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/jhoicas/pos-inventario/internal/domain"
	"github.com/jhoicas/pos-inventario/internal/domain/repository"
)

// isUniqueViolation verifica si un error es una violación de constraint único (23505).
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505" // unique_violation
	}
	return strings.Contains(err.Error(), "23505")
}

// isForeignKeyViolation 23503: la fila referenciada no existe.
func isForeignKeyViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23503"
}

// keyset agrega el predicado de cursor (created_at, id) < (t, id) y el orden/límite.
// next es el número del siguiente placeholder libre.
func keyset(query string, args []any, next int, timeCol string, q repository.PageQuery) (string, []any) {
	if q.After != nil {
		query += fmt.Sprintf(" AND (%s, id) < ($%d, $%d)", timeCol, next, next+1)
		args = append(args, q.After.RecordedAt, q.After.ID)
		next += 2
	}
	query += fmt.Sprintf(" ORDER BY %s DESC, id DESC LIMIT $%d", timeCol, next)
	args = append(args, q.Limit)
	return query, args
}

// dbTime trunca a microsegundos (precisión de timestamptz) para que el cursor coincida
// con lo que se lee de vuelta.
func dbTime(t time.Time) time.Time {
	return t.UTC().Truncate(time.Microsecond)
}

func duplicate(what string, err error) error {
	return fmt.Errorf("%w: %s: %v", domain.ErrDuplicate, what, err)
}

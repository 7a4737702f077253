// Package sqlite almacén de filas embebido (modernc.org/sqlite, sin cgo) con el mismo
// contrato que el adaptador de PostgreSQL. Pensado para una sola tienda, desarrollo local
// y pruebas de integración.
package sqlite

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"strings"
	"time"

	msqlite "modernc.org/sqlite"
	sqlite3lib "modernc.org/sqlite/lib"

	"github.com/jhoicas/pos-inventario/internal/domain/repository"
)

//go:embed schema.sql
var schemaSQL string

// dbtx lo cumplen *sql.DB y *sql.Tx.
type dbtx interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Store conexión al archivo SQLite.
type Store struct {
	db *sql.DB
}

// Open abre (o crea) la base y aplica el esquema. path ":memory:" crea una base efímera.
// Se usa una sola conexión: SQLite serializa las escrituras y así las transacciones
// "BEGIN IMMEDIATE" cumplen el papel del SELECT ... FOR UPDATE de PostgreSQL.
func Open(ctx context.Context, path string) (*Store, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, fmt.Errorf("sqlite: ruta requerida")
	}
	dsn := "file:" + path + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)&_txlock=immediate"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	db.SetMaxOpenConns(1)
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if _, err := db.ExecContext(ctx, schemaSQL); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("aplicar esquema: %w", err)
	}
	return &Store{db: db}, nil
}

// Close cierra la base.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Ping verifica la conexión (health check).
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Los accesores devuelven repositorios sobre la conexión compartida (fuera de transacción).

// Products repositorio de productos.
func (s *Store) Products() *ProductRepo { return &ProductRepo{q: s.db} }

// Vendors repositorio de proveedores.
func (s *Store) Vendors() *VendorRepo { return &VendorRepo{q: s.db} }

// Variants repositorio de variantes.
func (s *Store) Variants() *VariantRepo { return &VariantRepo{q: s.db} }

// Movements libro de movimientos.
func (s *Store) Movements() *InventoryMovementRepo { return &InventoryMovementRepo{q: s.db} }

// Purchases libro de compras.
func (s *Store) Purchases() *VendorPurchaseRepo { return &VendorPurchaseRepo{q: s.db} }

// StockLevels proyección materializada del stock.
func (s *Store) StockLevels() *StockLevelRepo { return &StockLevelRepo{q: s.db} }

func toNanos(t time.Time) int64 {
	return t.UTC().UnixNano()
}

func fromNanos(n int64) time.Time {
	return time.Unix(0, n).UTC()
}

// keyset agrega el predicado de cursor, el orden y el límite.
func keyset(query string, args []any, timeCol string, q repository.PageQuery) (string, []any) {
	if q.After != nil {
		query += fmt.Sprintf(" AND (%s, id) < (?, ?)", timeCol)
		args = append(args, toNanos(q.After.RecordedAt), q.After.ID)
	}
	query += fmt.Sprintf(" ORDER BY %s DESC, id DESC LIMIT ?", timeCol)
	args = append(args, q.Limit)
	return query, args
}

func sqliteCode(err error) (int, bool) {
	var sqliteErr *msqlite.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.Code(), true
	}
	return 0, false
}

func isUniqueViolation(err error) bool {
	if code, ok := sqliteCode(err); ok {
		return code == sqlite3lib.SQLITE_CONSTRAINT_UNIQUE || code == sqlite3lib.SQLITE_CONSTRAINT_PRIMARYKEY
	}
	return strings.Contains(strings.ToLower(err.Error()), "unique constraint failed")
}

func isForeignKeyViolation(err error) bool {
	if code, ok := sqliteCode(err); ok {
		return code == sqlite3lib.SQLITE_CONSTRAINT_FOREIGNKEY
	}
	return strings.Contains(strings.ToLower(err.Error()), "foreign key constraint failed")
}

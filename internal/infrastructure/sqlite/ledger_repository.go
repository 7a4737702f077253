package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jhoicas/pos-inventario/internal/domain"
	"github.com/jhoicas/pos-inventario/internal/domain/entity"
	"github.com/jhoicas/pos-inventario/internal/domain/repository"
)

var (
	_ repository.InventoryMovementRepository = (*InventoryMovementRepo)(nil)
	_ repository.VendorPurchaseRepository    = (*VendorPurchaseRepo)(nil)
	_ repository.StockLevelRepository        = (*StockLevelRepo)(nil)
)

const movementColumns = `id, variant_id, direction, quantity, reason, COALESCE(reverses_id, ''), created_at`

// InventoryMovementRepo libro de movimientos en SQLite (solo INSERT/SELECT).
type InventoryMovementRepo struct{ q dbtx }

// Create persiste un movimiento. Un segundo reverso del mismo movimiento se devuelve como ErrConflict.
func (r *InventoryMovementRepo) Create(ctx context.Context, m *entity.InventoryMovement) error {
	_, err := r.q.ExecContext(ctx, `
		INSERT INTO inventory_movements (id, variant_id, direction, quantity, reason, reverses_id, created_at)
		VALUES (?, ?, ?, ?, ?, NULLIF(?, ''), ?)`,
		m.ID, m.VariantID, m.Direction, m.Quantity, m.Reason, m.ReversesID, toNanos(m.CreatedAt),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: el movimiento %s ya fue revertido", domain.ErrConflict, m.ReversesID)
		}
		return fmt.Errorf("create inventory movement: %w", err)
	}
	return nil
}

// GetByID obtiene un movimiento. (nil, nil) si no existe.
func (r *InventoryMovementRepo) GetByID(ctx context.Context, id string) (*entity.InventoryMovement, error) {
	return r.getOne(ctx, `SELECT `+movementColumns+` FROM inventory_movements WHERE id = ?`, id)
}

// GetReversalOf devuelve el reverso de movementID si existe.
func (r *InventoryMovementRepo) GetReversalOf(ctx context.Context, movementID string) (*entity.InventoryMovement, error) {
	return r.getOne(ctx, `SELECT `+movementColumns+` FROM inventory_movements WHERE reverses_id = ?`, movementID)
}

func (r *InventoryMovementRepo) getOne(ctx context.Context, query, id string) (*entity.InventoryMovement, error) {
	m, err := scanMovement(r.q.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get movement: %w", err)
	}
	return m, nil
}

// ListByVariant página del libro de una variante (created_at DESC, id DESC).
func (r *InventoryMovementRepo) ListByVariant(ctx context.Context, variantID string, q repository.PageQuery) ([]*entity.InventoryMovement, error) {
	query, args := keyset(`SELECT `+movementColumns+` FROM inventory_movements WHERE variant_id = ?`, []any{variantID}, "created_at", q)
	rows, err := r.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list movements by variant: %w", err)
	}
	defer rows.Close()
	var list []*entity.InventoryMovement
	for rows.Next() {
		m, err := scanMovement(rows)
		if err != nil {
			return nil, fmt.Errorf("scan movement: %w", err)
		}
		list = append(list, m)
	}
	return list, rows.Err()
}

func scanMovement(row rowScanner) (*entity.InventoryMovement, error) {
	var m entity.InventoryMovement
	var created int64
	if err := row.Scan(&m.ID, &m.VariantID, &m.Direction, &m.Quantity, &m.Reason, &m.ReversesID, &created); err != nil {
		return nil, err
	}
	m.CreatedAt = fromNanos(created)
	return &m, nil
}

const purchaseColumns = `id, product_id, vendor_id, batch_id, volume_liter, price_per_liter, purchased_at`

// VendorPurchaseRepo libro de compras en SQLite.
type VendorPurchaseRepo struct{ q dbtx }

// CreateBatch inserta todas las líneas en un solo INSERT multi-fila.
func (r *VendorPurchaseRepo) CreateBatch(ctx context.Context, purchases []*entity.VendorPurchase) error {
	if len(purchases) == 0 {
		return nil
	}
	placeholders := make([]string, 0, len(purchases))
	args := make([]any, 0, len(purchases)*7)
	for _, p := range purchases {
		placeholders = append(placeholders, "(?, ?, ?, ?, ?, ?, ?)")
		args = append(args, p.ID, p.ProductID, p.VendorID, p.BatchID,
			p.VolumeLiter.String(), p.PricePerLiter.String(), toNanos(p.PurchasedAt))
	}
	query := `INSERT INTO vendor_purchases (` + purchaseColumns + `) VALUES ` + strings.Join(placeholders, ", ")
	if _, err := r.q.ExecContext(ctx, query, args...); err != nil {
		if isForeignKeyViolation(err) {
			return fmt.Errorf("%w: producto o proveedor inexistente", domain.ErrNotFound)
		}
		return fmt.Errorf("create purchases: %w", err)
	}
	return nil
}

// ListByProduct página de compras de un producto (purchased_at DESC, id DESC).
func (r *VendorPurchaseRepo) ListByProduct(ctx context.Context, productID string, q repository.PageQuery) ([]*entity.VendorPurchase, error) {
	query, args := keyset(`SELECT `+purchaseColumns+` FROM vendor_purchases WHERE product_id = ?`, []any{productID}, "purchased_at", q)
	return r.list(ctx, query, args...)
}

// ListByVendor página de compras de un proveedor.
func (r *VendorPurchaseRepo) ListByVendor(ctx context.Context, vendorID string, q repository.PageQuery) ([]*entity.VendorPurchase, error) {
	query, args := keyset(`SELECT `+purchaseColumns+` FROM vendor_purchases WHERE vendor_id = ?`, []any{vendorID}, "purchased_at", q)
	return r.list(ctx, query, args...)
}

// List página de todas las compras.
func (r *VendorPurchaseRepo) List(ctx context.Context, q repository.PageQuery) ([]*entity.VendorPurchase, error) {
	query, args := keyset(`SELECT `+purchaseColumns+` FROM vendor_purchases WHERE 1 = 1`, nil, "purchased_at", q)
	return r.list(ctx, query, args...)
}

func (r *VendorPurchaseRepo) list(ctx context.Context, query string, args ...any) ([]*entity.VendorPurchase, error) {
	rows, err := r.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list purchases: %w", err)
	}
	defer rows.Close()
	var list []*entity.VendorPurchase
	for rows.Next() {
		var p entity.VendorPurchase
		var at int64
		if err := rows.Scan(&p.ID, &p.ProductID, &p.VendorID, &p.BatchID, &p.VolumeLiter, &p.PricePerLiter, &at); err != nil {
			return nil, fmt.Errorf("scan purchase: %w", err)
		}
		p.PurchasedAt = fromNanos(at)
		list = append(list, &p)
	}
	return list, rows.Err()
}

// StockLevelRepo proyección materializada en SQLite.
type StockLevelRepo struct{ q dbtx }

// GetMany niveles de las variantes pedidas; las que no tienen fila no aparecen.
func (r *StockLevelRepo) GetMany(ctx context.Context, variantIDs []string) (map[string]*entity.StockLevel, error) {
	out := make(map[string]*entity.StockLevel, len(variantIDs))
	if len(variantIDs) == 0 {
		return out, nil
	}
	args := make([]any, len(variantIDs))
	for i, id := range variantIDs {
		args[i] = id
	}
	query := `SELECT variant_id, quantity, updated_at FROM stock_levels WHERE variant_id IN (?` +
		strings.Repeat(", ?", len(variantIDs)-1) + `)`
	rows, err := r.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("get stock levels: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var l entity.StockLevel
		var at int64
		if err := rows.Scan(&l.VariantID, &l.Quantity, &at); err != nil {
			return nil, fmt.Errorf("scan stock level: %w", err)
		}
		l.UpdatedAt = fromNanos(at)
		out[l.VariantID] = &l
	}
	return out, rows.Err()
}

// Apply suma delta al nivel (upsert).
func (r *StockLevelRepo) Apply(ctx context.Context, variantID string, delta int64) error {
	_, err := r.q.ExecContext(ctx, `
		INSERT INTO stock_levels (variant_id, quantity, updated_at) VALUES (?, ?, ?)
		ON CONFLICT (variant_id) DO UPDATE
		SET quantity = stock_levels.quantity + excluded.quantity, updated_at = excluded.updated_at`,
		variantID, delta, toNanos(time.Now()),
	)
	if err != nil {
		return fmt.Errorf("apply stock level: %w", err)
	}
	return nil
}

// Set fija el nivel (conciliación contra el libro).
func (r *StockLevelRepo) Set(ctx context.Context, variantID string, quantity int64) error {
	_, err := r.q.ExecContext(ctx, `
		INSERT INTO stock_levels (variant_id, quantity, updated_at) VALUES (?, ?, ?)
		ON CONFLICT (variant_id) DO UPDATE
		SET quantity = excluded.quantity, updated_at = excluded.updated_at`,
		variantID, quantity, toNanos(time.Now()),
	)
	if err != nil {
		return fmt.Errorf("set stock level: %w", err)
	}
	return nil
}

package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/pos-inventario/internal/domain"
	"github.com/jhoicas/pos-inventario/internal/domain/entity"
	"github.com/jhoicas/pos-inventario/internal/domain/repository"
)

var (
	_ repository.ProductRepository = (*ProductRepo)(nil)
	_ repository.VendorRepository  = (*VendorRepo)(nil)
	_ repository.VariantRepository = (*VariantRepo)(nil)
)

type rowScanner interface {
	Scan(dest ...any) error
}

// ProductRepo productos en SQLite.
type ProductRepo struct{ q dbtx }

// Create persiste un producto. SKU repetido se devuelve como ErrDuplicate.
func (r *ProductRepo) Create(ctx context.Context, p *entity.Product) error {
	_, err := r.q.ExecContext(ctx,
		`INSERT INTO products (id, name, sku, status, created_at) VALUES (?, ?, NULLIF(?, ''), ?, ?)`,
		p.ID, p.Name, p.SKU, p.Status, toNanos(p.CreatedAt),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: sku %s", domain.ErrDuplicate, p.SKU)
		}
		return fmt.Errorf("create product: %w", err)
	}
	return nil
}

// GetByID obtiene un producto. (nil, nil) si no existe.
func (r *ProductRepo) GetByID(ctx context.Context, id string) (*entity.Product, error) {
	p, err := scanProduct(r.q.QueryRowContext(ctx,
		`SELECT id, name, COALESCE(sku, ''), status, created_at FROM products WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get product: %w", err)
	}
	return p, nil
}

// List página de productos (created_at DESC, id DESC).
func (r *ProductRepo) List(ctx context.Context, q repository.PageQuery) ([]*entity.Product, error) {
	query, args := keyset(`SELECT id, name, COALESCE(sku, ''), status, created_at FROM products WHERE 1 = 1`, nil, "created_at", q)
	rows, err := r.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()
	var list []*entity.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		list = append(list, p)
	}
	return list, rows.Err()
}

func scanProduct(row rowScanner) (*entity.Product, error) {
	var p entity.Product
	var created int64
	if err := row.Scan(&p.ID, &p.Name, &p.SKU, &p.Status, &created); err != nil {
		return nil, err
	}
	p.CreatedAt = fromNanos(created)
	return &p, nil
}

// VendorRepo proveedores en SQLite.
type VendorRepo struct{ q dbtx }

// Create persiste un proveedor. Nombre repetido se devuelve como ErrDuplicate.
func (r *VendorRepo) Create(ctx context.Context, v *entity.Vendor) error {
	_, err := r.q.ExecContext(ctx,
		`INSERT INTO vendors (id, name, tax_id, contact, created_at) VALUES (?, ?, ?, ?, ?)`,
		v.ID, v.Name, v.TaxID, v.Contact, toNanos(v.CreatedAt),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: proveedor %s", domain.ErrDuplicate, v.Name)
		}
		return fmt.Errorf("create vendor: %w", err)
	}
	return nil
}

// GetByID obtiene un proveedor. (nil, nil) si no existe.
func (r *VendorRepo) GetByID(ctx context.Context, id string) (*entity.Vendor, error) {
	v, err := scanVendor(r.q.QueryRowContext(ctx, `SELECT id, name, tax_id, contact, created_at FROM vendors WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get vendor: %w", err)
	}
	return v, nil
}

// List página de proveedores.
func (r *VendorRepo) List(ctx context.Context, q repository.PageQuery) ([]*entity.Vendor, error) {
	query, args := keyset(`SELECT id, name, tax_id, contact, created_at FROM vendors WHERE 1 = 1`, nil, "created_at", q)
	rows, err := r.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list vendors: %w", err)
	}
	defer rows.Close()
	var list []*entity.Vendor
	for rows.Next() {
		v, err := scanVendor(rows)
		if err != nil {
			return nil, fmt.Errorf("scan vendor: %w", err)
		}
		list = append(list, v)
	}
	return list, rows.Err()
}

func scanVendor(row rowScanner) (*entity.Vendor, error) {
	var v entity.Vendor
	var created int64
	if err := row.Scan(&v.ID, &v.Name, &v.TaxID, &v.Contact, &created); err != nil {
		return nil, err
	}
	v.CreatedAt = fromNanos(created)
	return &v, nil
}

const variantColumns = `id, product_id, bottle_size_ml, unit_label, COALESCE(barcode, ''), price, min_stock, cost_per_ml, created_at`

// VariantRepo variantes en SQLite. GetForUpdate no necesita cláusula de bloqueo: la
// transacción ya tomó el lock de escritura al empezar (_txlock=immediate).
type VariantRepo struct{ q dbtx }

// Create persiste una variante. Barcode vacío se guarda como NULL.
func (r *VariantRepo) Create(ctx context.Context, v *entity.Variant) error {
	_, err := r.q.ExecContext(ctx, `
		INSERT INTO variants (id, product_id, bottle_size_ml, unit_label, barcode, price, min_stock, cost_per_ml, created_at)
		VALUES (?, ?, ?, ?, NULLIF(?, ''), ?, ?, ?, ?)`,
		v.ID, v.ProductID, v.BottleSizeML.String(), v.UnitLabel, v.Barcode, v.Price.String(), v.MinStock,
		nullableDecimal(v.CostPerML), toNanos(v.CreatedAt),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: barcode %s", domain.ErrDuplicate, v.Barcode)
		}
		if isForeignKeyViolation(err) {
			return fmt.Errorf("%w: producto %s", domain.ErrNotFound, v.ProductID)
		}
		return fmt.Errorf("create variant: %w", err)
	}
	return nil
}

// GetByID obtiene una variante. (nil, nil) si no existe.
func (r *VariantRepo) GetByID(ctx context.Context, id string) (*entity.Variant, error) {
	v, err := scanVariant(r.q.QueryRowContext(ctx, `SELECT `+variantColumns+` FROM variants WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get variant: %w", err)
	}
	return v, nil
}

// GetForUpdate igual que GetByID; el bloqueo lo da la transacción inmediata.
func (r *VariantRepo) GetForUpdate(ctx context.Context, id string) (*entity.Variant, error) {
	return r.GetByID(ctx, id)
}

// ListByProduct página de variantes de un producto.
func (r *VariantRepo) ListByProduct(ctx context.Context, productID string, q repository.PageQuery) ([]*entity.Variant, error) {
	query, args := keyset(`SELECT `+variantColumns+` FROM variants WHERE product_id = ?`, []any{productID}, "created_at", q)
	return r.list(ctx, query, args...)
}

// List página de todas las variantes.
func (r *VariantRepo) List(ctx context.Context, q repository.PageQuery) ([]*entity.Variant, error) {
	query, args := keyset(`SELECT `+variantColumns+` FROM variants WHERE 1 = 1`, nil, "created_at", q)
	return r.list(ctx, query, args...)
}

func (r *VariantRepo) list(ctx context.Context, query string, args ...any) ([]*entity.Variant, error) {
	rows, err := r.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list variants: %w", err)
	}
	defer rows.Close()
	var list []*entity.Variant
	for rows.Next() {
		v, err := scanVariant(rows)
		if err != nil {
			return nil, fmt.Errorf("scan variant: %w", err)
		}
		list = append(list, v)
	}
	return list, rows.Err()
}

// UpdateCost escribe cost_per_ml (NULL si cost es nil). Idempotente.
func (r *VariantRepo) UpdateCost(ctx context.Context, variantID string, cost *decimal.Decimal) error {
	res, err := r.q.ExecContext(ctx, `UPDATE variants SET cost_per_ml = ? WHERE id = ?`, nullableDecimal(cost), variantID)
	if err != nil {
		return fmt.Errorf("update variant cost: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("%w: variante %s", domain.ErrNotFound, variantID)
	}
	return nil
}

func scanVariant(row rowScanner) (*entity.Variant, error) {
	var v entity.Variant
	var cost decimal.NullDecimal
	var created int64
	if err := row.Scan(&v.ID, &v.ProductID, &v.BottleSizeML, &v.UnitLabel, &v.Barcode, &v.Price, &v.MinStock, &cost, &created); err != nil {
		return nil, err
	}
	if cost.Valid {
		c := cost.Decimal
		v.CostPerML = &c
	}
	v.CreatedAt = fromNanos(created)
	return &v, nil
}

// nullableDecimal TEXT exacto o NULL.
func nullableDecimal(d *decimal.Decimal) sql.NullString {
	if d == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: d.String(), Valid: true}
}

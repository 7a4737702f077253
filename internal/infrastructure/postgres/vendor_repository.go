package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/pos-inventario/internal/domain/entity"
	"github.com/jhoicas/pos-inventario/internal/domain/repository"
)

var _ repository.VendorRepository = (*VendorRepo)(nil)

// VendorRepo implementación de VendorRepository sobre PostgreSQL (usable con pool o tx).
type VendorRepo struct {
	q Querier
}

// NewVendorRepository construye el adaptador.
func NewVendorRepository(q Querier) *VendorRepo {
	return &VendorRepo{q: q}
}

// Create persiste un proveedor; el nombre es único.
func (r *VendorRepo) Create(ctx context.Context, v *entity.Vendor) error {
	v.CreatedAt = dbTime(v.CreatedAt)
	_, err := r.q.Exec(ctx,
		`INSERT INTO vendors (id, name, tax_id, contact, created_at) VALUES ($1, $2, $3, $4, $5)`,
		v.ID, v.Name, v.TaxID, v.Contact, v.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return duplicate("proveedor "+v.Name, err)
		}
		return fmt.Errorf("create vendor: %w", err)
	}
	return nil
}

// GetByID obtiene un proveedor. (nil, nil) si no existe.
func (r *VendorRepo) GetByID(ctx context.Context, id string) (*entity.Vendor, error) {
	v, err := scanVendor(r.q.QueryRow(ctx, `SELECT id, name, tax_id, contact, created_at FROM vendors WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get vendor: %w", err)
	}
	return v, nil
}

// List página de proveedores.
func (r *VendorRepo) List(ctx context.Context, q repository.PageQuery) ([]*entity.Vendor, error) {
	query, args := keyset(`SELECT id, name, tax_id, contact, created_at FROM vendors WHERE TRUE`, nil, 1, "created_at", q)
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list vendors: %w", err)
	}
	defer rows.Close()
	list := make([]*entity.Vendor, 0, q.Limit)
	for rows.Next() {
		v, err := scanVendor(rows)
		if err != nil {
			return nil, fmt.Errorf("scan vendor: %w", err)
		}
		list = append(list, v)
	}
	return list, rows.Err()
}

func scanVendor(row pgx.Row) (*entity.Vendor, error) {
	var v entity.Vendor
	if err := row.Scan(&v.ID, &v.Name, &v.TaxID, &v.Contact, &v.CreatedAt); err != nil {
		return nil, err
	}
	v.CreatedAt = v.CreatedAt.UTC()
	return &v, nil
}

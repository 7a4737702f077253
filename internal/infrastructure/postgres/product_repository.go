package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/pos-inventario/internal/domain/entity"
	"github.com/jhoicas/pos-inventario/internal/domain/repository"
)

var _ repository.ProductRepository = (*ProductRepo)(nil)

// ProductRepo implementación de ProductRepository sobre PostgreSQL.
type ProductRepo struct {
	q Querier
}

// NewProductRepository construye el adaptador de persistencia para productos. Pasar pool o tx (Querier).
func NewProductRepository(q Querier) *ProductRepo {
	return &ProductRepo{q: q}
}

// Create persiste un producto. SKU vacío se guarda como NULL.
func (r *ProductRepo) Create(ctx context.Context, p *entity.Product) error {
	p.CreatedAt = dbTime(p.CreatedAt)
	query := `
		INSERT INTO products (id, name, sku, status, created_at)
		VALUES ($1, $2, NULLIF($3, ''), $4, $5)`
	_, err := r.q.Exec(ctx, query, p.ID, p.Name, p.SKU, p.Status, p.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return duplicate("sku "+p.SKU, err)
		}
		return fmt.Errorf("create product: %w", err)
	}
	return nil
}

// GetByID obtiene un producto por ID. Devuelve (nil, nil) si no existe.
func (r *ProductRepo) GetByID(ctx context.Context, id string) (*entity.Product, error) {
	query := `SELECT id, name, COALESCE(sku, ''), status, created_at FROM products WHERE id = $1`
	p, err := scanProduct(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get product: %w", err)
	}
	return p, nil
}

// List página de productos (created_at DESC, id DESC).
func (r *ProductRepo) List(ctx context.Context, q repository.PageQuery) ([]*entity.Product, error) {
	query, args := keyset(`SELECT id, name, COALESCE(sku, ''), status, created_at FROM products WHERE TRUE`, nil, 1, "created_at", q)
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()
	list := make([]*entity.Product, 0, q.Limit)
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		list = append(list, p)
	}
	return list, rows.Err()
}

func scanProduct(row pgx.Row) (*entity.Product, error) {
	var p entity.Product
	if err := row.Scan(&p.ID, &p.Name, &p.SKU, &p.Status, &p.CreatedAt); err != nil {
		return nil, err
	}
	p.CreatedAt = p.CreatedAt.UTC()
	return &p, nil
}

package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/pos-inventario/internal/domain/entity"
	"github.com/jhoicas/pos-inventario/internal/domain/repository"
)

var _ repository.VendorPurchaseRepository = (*VendorPurchaseRepo)(nil)

const purchaseColumns = `id, product_id, vendor_id, batch_id, volume_liter, price_per_liter, purchased_at`

// VendorPurchaseRepo libro de compras sobre PostgreSQL (usable con pool o tx).
type VendorPurchaseRepo struct {
	q Querier
}

// NewVendorPurchaseRepository construye el adaptador.
func NewVendorPurchaseRepository(q Querier) *VendorPurchaseRepo {
	return &VendorPurchaseRepo{q: q}
}

// CreateBatch inserta las líneas de una entrega en un solo viaje (pgx.Batch).
// La atomicidad la da la transacción del llamador.
func (r *VendorPurchaseRepo) CreateBatch(ctx context.Context, purchases []*entity.VendorPurchase) error {
	if len(purchases) == 0 {
		return nil
	}
	tx, ok := r.q.(pgx.Tx)
	if !ok {
		return r.insertEach(ctx, purchases)
	}
	batch := &pgx.Batch{}
	for _, p := range purchases {
		p.PurchasedAt = dbTime(p.PurchasedAt)
		batch.Queue(insertPurchaseSQL, p.ID, p.ProductID, p.VendorID, p.BatchID, p.VolumeLiter, p.PricePerLiter, p.PurchasedAt)
	}
	results := tx.SendBatch(ctx, batch)
	for i := range purchases {
		if _, err := results.Exec(); err != nil {
			_ = results.Close()
			return fmt.Errorf("create purchase line %d: %w", i+1, err)
		}
	}
	return results.Close()
}

const insertPurchaseSQL = `
	INSERT INTO vendor_purchases (id, product_id, vendor_id, batch_id, volume_liter, price_per_liter, purchased_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7)`

func (r *VendorPurchaseRepo) insertEach(ctx context.Context, purchases []*entity.VendorPurchase) error {
	for i, p := range purchases {
		p.PurchasedAt = dbTime(p.PurchasedAt)
		if _, err := r.q.Exec(ctx, insertPurchaseSQL, p.ID, p.ProductID, p.VendorID, p.BatchID, p.VolumeLiter, p.PricePerLiter, p.PurchasedAt); err != nil {
			return fmt.Errorf("create purchase line %d: %w", i+1, err)
		}
	}
	return nil
}

// ListByProduct página de compras de un producto (purchased_at DESC, id DESC).
func (r *VendorPurchaseRepo) ListByProduct(ctx context.Context, productID string, q repository.PageQuery) ([]*entity.VendorPurchase, error) {
	query, args := keyset(`SELECT `+purchaseColumns+` FROM vendor_purchases WHERE product_id = $1`, []any{productID}, 2, "purchased_at", q)
	return r.list(ctx, query, args...)
}

// ListByVendor página de compras de un proveedor (purchased_at DESC, id DESC).
func (r *VendorPurchaseRepo) ListByVendor(ctx context.Context, vendorID string, q repository.PageQuery) ([]*entity.VendorPurchase, error) {
	query, args := keyset(`SELECT `+purchaseColumns+` FROM vendor_purchases WHERE vendor_id = $1`, []any{vendorID}, 2, "purchased_at", q)
	return r.list(ctx, query, args...)
}

// List página de todas las compras.
func (r *VendorPurchaseRepo) List(ctx context.Context, q repository.PageQuery) ([]*entity.VendorPurchase, error) {
	query, args := keyset(`SELECT `+purchaseColumns+` FROM vendor_purchases WHERE TRUE`, nil, 1, "purchased_at", q)
	return r.list(ctx, query, args...)
}

func (r *VendorPurchaseRepo) list(ctx context.Context, query string, args ...any) ([]*entity.VendorPurchase, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list purchases: %w", err)
	}
	defer rows.Close()
	var list []*entity.VendorPurchase
	for rows.Next() {
		var p entity.VendorPurchase
		if err := rows.Scan(&p.ID, &p.ProductID, &p.VendorID, &p.BatchID, &p.VolumeLiter, &p.PricePerLiter, &p.PurchasedAt); err != nil {
			return nil, fmt.Errorf("scan purchase: %w", err)
		}
		p.PurchasedAt = p.PurchasedAt.UTC()
		list = append(list, &p)
	}
	return list, rows.Err()
}

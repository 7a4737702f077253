package purchasing_test

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/pos-inventario/internal/domain/entity"
	"github.com/jhoicas/pos-inventario/internal/domain/repository"
	"github.com/jhoicas/pos-inventario/pkg/pagination"
)

var errStoreDown = errors.New("almacén caído")

type memStore struct {
	mu        sync.Mutex
	products  map[string]*entity.Product
	vendors   map[string]*entity.Vendor
	variants  map[string]*entity.Variant
	purchases []*entity.VendorPurchase

	listCalls   int
	failList    bool
	failBatch   bool
	costUpdates int
}

func newMemStore() *memStore {
	return &memStore{
		products: map[string]*entity.Product{},
		vendors:  map[string]*entity.Vendor{},
		variants: map[string]*entity.Variant{},
	}
}

func (s *memStore) addProduct() *entity.Product {
	s.mu.Lock()
	defer s.mu.Unlock()
	p := &entity.Product{ID: uuid.NewString(), Name: "Sándalo", Status: entity.ProductStatusActive, CreatedAt: time.Now().UTC()}
	s.products[p.ID] = p
	return p
}

func (s *memStore) addVendor() *entity.Vendor {
	s.mu.Lock()
	defer s.mu.Unlock()
	v := &entity.Vendor{ID: uuid.NewString(), Name: "Esencias del Valle", CreatedAt: time.Now().UTC()}
	s.vendors[v.ID] = v
	return v
}

func (s *memStore) addVariant(productID string, sizeML int64, createdAt time.Time) *entity.Variant {
	s.mu.Lock()
	defer s.mu.Unlock()
	v := &entity.Variant{
		ID:           uuid.NewString(),
		ProductID:    productID,
		BottleSizeML: decimal.NewFromInt(sizeML),
		UnitLabel:    "ml",
		CreatedAt:    createdAt,
	}
	s.variants[v.ID] = v
	return v
}

func (s *memStore) seedPurchase(productID, vendorID, volume, price string, at time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.purchases = append(s.purchases, &entity.VendorPurchase{
		ID:            uuid.NewString(),
		ProductID:     productID,
		VendorID:      vendorID,
		BatchID:       uuid.NewString(),
		VolumeLiter:   decimal.RequireFromString(volume),
		PricePerLiter: decimal.RequireFromString(price),
		PurchasedAt:   at,
	})
}

func (s *memStore) variantCost(id string) *decimal.Decimal {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.variants[id].CostPerML
}

func (s *memStore) purchaseCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.purchases)
}

func page[T any](rows []T, key func(T) pagination.Key, q pagination.Query) []T {
	sort.Slice(rows, func(i, j int) bool { return key(rows[i]).Before(key(rows[j])) })
	out := make([]T, 0, q.Limit)
	for _, r := range rows {
		if q.After != nil && !q.After.Before(key(r)) {
			continue
		}
		out = append(out, r)
		if len(out) == q.Limit {
			break
		}
	}
	return out
}

func purchaseKey(p *entity.VendorPurchase) pagination.Key {
	return pagination.Key{RecordedAt: p.PurchasedAt, ID: p.ID}
}

type purchaseRepo struct{ s *memStore }

func (r purchaseRepo) CreateBatch(_ context.Context, purchases []*entity.VendorPurchase) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.failBatch {
		return errStoreDown
	}
	r.s.purchases = append(r.s.purchases, purchases...)
	return nil
}

func (r purchaseRepo) ListByProduct(_ context.Context, productID string, q pagination.Query) ([]*entity.VendorPurchase, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.listCalls++
	if r.s.failList {
		return nil, errStoreDown
	}
	var rows []*entity.VendorPurchase
	for _, p := range r.s.purchases {
		if p.ProductID == productID {
			rows = append(rows, p)
		}
	}
	return page(rows, purchaseKey, q), nil
}

func (r purchaseRepo) ListByVendor(_ context.Context, vendorID string, q pagination.Query) ([]*entity.VendorPurchase, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.listCalls++
	if r.s.failList {
		return nil, errStoreDown
	}
	var rows []*entity.VendorPurchase
	for _, p := range r.s.purchases {
		if p.VendorID == vendorID {
			rows = append(rows, p)
		}
	}
	return page(rows, purchaseKey, q), nil
}

func (r purchaseRepo) List(_ context.Context, q pagination.Query) ([]*entity.VendorPurchase, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.listCalls++
	if r.s.failList {
		return nil, errStoreDown
	}
	rows := append([]*entity.VendorPurchase(nil), r.s.purchases...)
	return page(rows, purchaseKey, q), nil
}

type productRepo struct{ s *memStore }

func (r productRepo) Create(_ context.Context, p *entity.Product) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.products[p.ID] = p
	return nil
}

func (r productRepo) GetByID(_ context.Context, id string) (*entity.Product, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if p, ok := r.s.products[id]; ok {
		cp := *p
		return &cp, nil
	}
	return nil, nil
}

func (r productRepo) List(context.Context, pagination.Query) ([]*entity.Product, error) {
	return nil, nil
}

type vendorRepo struct{ s *memStore }

func (r vendorRepo) Create(_ context.Context, v *entity.Vendor) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.vendors[v.ID] = v
	return nil
}

func (r vendorRepo) GetByID(_ context.Context, id string) (*entity.Vendor, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if v, ok := r.s.vendors[id]; ok {
		cp := *v
		return &cp, nil
	}
	return nil, nil
}

func (r vendorRepo) List(context.Context, pagination.Query) ([]*entity.Vendor, error) {
	return nil, nil
}

type variantRepo struct{ s *memStore }

func (r variantRepo) Create(_ context.Context, v *entity.Variant) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.variants[v.ID] = v
	return nil
}

func (r variantRepo) GetByID(_ context.Context, id string) (*entity.Variant, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if v, ok := r.s.variants[id]; ok {
		cp := *v
		return &cp, nil
	}
	return nil, nil
}

func (r variantRepo) GetForUpdate(ctx context.Context, id string) (*entity.Variant, error) {
	return r.GetByID(ctx, id)
}

func (r variantRepo) ListByProduct(_ context.Context, productID string, q pagination.Query) ([]*entity.Variant, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var rows []*entity.Variant
	for _, v := range r.s.variants {
		if v.ProductID == productID {
			rows = append(rows, v)
		}
	}
	return page(rows, func(v *entity.Variant) pagination.Key {
		return pagination.Key{RecordedAt: v.CreatedAt, ID: v.ID}
	}, q), nil
}

func (r variantRepo) List(ctx context.Context, q pagination.Query) ([]*entity.Variant, error) {
	return nil, nil
}

func (r variantRepo) UpdateCost(_ context.Context, variantID string, cost *decimal.Decimal) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.costUpdates++
	if v, ok := r.s.variants[variantID]; ok {
		v.CostPerML = cost
	}
	return nil
}

type txRunner struct{ s *memStore }

func (t txRunner) RunPurchases(ctx context.Context, fn func(
	repository.VendorPurchaseRepository,
	repository.ProductRepository,
	repository.VendorRepository,
) error) error {
	t.s.mu.Lock()
	before := append([]*entity.VendorPurchase(nil), t.s.purchases...)
	t.s.mu.Unlock()
	if err := fn(purchaseRepo{t.s}, productRepo{t.s}, vendorRepo{t.s}); err != nil {
		t.s.mu.Lock()
		t.s.purchases = before
		t.s.mu.Unlock()
		return err
	}
	return nil
}

package inventory_test

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/pos-inventario/internal/domain"
	"github.com/jhoicas/pos-inventario/internal/domain/entity"
	"github.com/jhoicas/pos-inventario/internal/domain/repository"
	"github.com/jhoicas/pos-inventario/pkg/pagination"
)

var errStoreDown = errors.New("almacén caído")

// memStore almacén en memoria con las mismas reglas de orden que los repositorios SQL.
type memStore struct {
	mu        sync.Mutex
	products  map[string]*entity.Product
	variants  map[string]*entity.Variant
	movements []*entity.InventoryMovement
	levels    map[string]int64

	listCalls     int
	failListAfter int // > 0: falla la llamada número failListAfter a ListByVariant
}

func newMemStore() *memStore {
	return &memStore{
		products: map[string]*entity.Product{},
		variants: map[string]*entity.Variant{},
		levels:   map[string]int64{},
	}
}

func (s *memStore) addProduct() *entity.Product {
	s.mu.Lock()
	defer s.mu.Unlock()
	p := &entity.Product{ID: uuid.NewString(), Name: "Lavanda", Status: entity.ProductStatusActive, CreatedAt: time.Now().UTC()}
	s.products[p.ID] = p
	return p
}

func (s *memStore) addVariant(productID string, sizeML, minStock int64, createdAt time.Time) *entity.Variant {
	s.mu.Lock()
	defer s.mu.Unlock()
	v := &entity.Variant{
		ID:           uuid.NewString(),
		ProductID:    productID,
		BottleSizeML: decimal.NewFromInt(sizeML),
		UnitLabel:    "ml",
		Price:        decimal.NewFromInt(15000),
		MinStock:     minStock,
		CreatedAt:    createdAt,
	}
	s.variants[v.ID] = v
	return v
}

// seed inserta movimientos directamente (sin pasar por el caso de uso ni tocar niveles).
func (s *memStore) seed(variantID string, start time.Time, deltas ...int64) []*entity.InventoryMovement {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*entity.InventoryMovement, 0, len(deltas))
	for i, d := range deltas {
		m := &entity.InventoryMovement{
			ID:        uuid.NewString(),
			VariantID: variantID,
			Direction: entity.DirectionIn,
			Quantity:  d,
			CreatedAt: start.Add(time.Duration(i) * time.Second),
		}
		if d < 0 {
			m.Direction = entity.DirectionOut
			m.Quantity = -d
		}
		s.movements = append(s.movements, m)
		out = append(out, m)
	}
	return out
}

func (s *memStore) movementCount(variantID string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, m := range s.movements {
		if m.VariantID == variantID {
			n++
		}
	}
	return n
}

func (s *memStore) level(variantID string) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.levels[variantID]
}

func (s *memStore) setLevel(variantID string, q int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.levels[variantID] = q
}

func (s *memStore) calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.listCalls
}

// page aplica Query sobre filas ya ordenadas por (fecha DESC, id DESC).
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

func movKey(m *entity.InventoryMovement) pagination.Key {
	return pagination.Key{RecordedAt: m.CreatedAt, ID: m.ID}
}

func varKey(v *entity.Variant) pagination.Key {
	return pagination.Key{RecordedAt: v.CreatedAt, ID: v.ID}
}

// ── Repositorios ─────────────────────────────────────────────────────────────

type movRepo struct{ s *memStore }

func (r movRepo) Create(_ context.Context, m *entity.InventoryMovement) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.movements {
		if m.ReversesID != "" && existing.ReversesID == m.ReversesID {
			return domain.ErrConflict
		}
	}
	cp := *m
	r.s.movements = append(r.s.movements, &cp)
	return nil
}

func (r movRepo) GetByID(_ context.Context, id string) (*entity.InventoryMovement, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, m := range r.s.movements {
		if m.ID == id {
			cp := *m
			return &cp, nil
		}
	}
	return nil, nil
}

func (r movRepo) GetReversalOf(_ context.Context, movementID string) (*entity.InventoryMovement, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, m := range r.s.movements {
		if m.ReversesID == movementID {
			cp := *m
			return &cp, nil
		}
	}
	return nil, nil
}

func (r movRepo) ListByVariant(_ context.Context, variantID string, q pagination.Query) ([]*entity.InventoryMovement, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.listCalls++
	if r.s.failListAfter > 0 && r.s.listCalls >= r.s.failListAfter {
		return nil, errStoreDown
	}
	var rows []*entity.InventoryMovement
	for _, m := range r.s.movements {
		if m.VariantID == variantID {
			rows = append(rows, m)
		}
	}
	return page(rows, movKey, q), nil
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
	return page(rows, varKey, q), nil
}

func (r variantRepo) List(_ context.Context, q pagination.Query) ([]*entity.Variant, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	rows := make([]*entity.Variant, 0, len(r.s.variants))
	for _, v := range r.s.variants {
		rows = append(rows, v)
	}
	return page(rows, varKey, q), nil
}

func (r variantRepo) UpdateCost(_ context.Context, variantID string, cost *decimal.Decimal) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if v, ok := r.s.variants[variantID]; ok {
		v.CostPerML = cost
	}
	return nil
}

type levelRepo struct{ s *memStore }

func (r levelRepo) GetMany(_ context.Context, ids []string) (map[string]*entity.StockLevel, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make(map[string]*entity.StockLevel, len(ids))
	for _, id := range ids {
		if q, ok := r.s.levels[id]; ok {
			out[id] = &entity.StockLevel{VariantID: id, Quantity: q}
		}
	}
	return out, nil
}

func (r levelRepo) Apply(_ context.Context, variantID string, delta int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.levels[variantID] += delta
	return nil
}

func (r levelRepo) Set(_ context.Context, variantID string, quantity int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.levels[variantID] = quantity
	return nil
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

func (r productRepo) List(_ context.Context, q pagination.Query) ([]*entity.Product, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	rows := make([]*entity.Product, 0, len(r.s.products))
	for _, p := range r.s.products {
		rows = append(rows, p)
	}
	return page(rows, func(p *entity.Product) pagination.Key {
		return pagination.Key{RecordedAt: p.CreatedAt, ID: p.ID}
	}, q), nil
}

// txRunner descarta los cambios si fn devuelve error, como un ROLLBACK.
type txRunner struct{ s *memStore }

func (t txRunner) Run(ctx context.Context, fn func(
	repository.InventoryMovementRepository,
	repository.StockLevelRepository,
	repository.VariantRepository,
) error) error {
	t.s.mu.Lock()
	movs := append([]*entity.InventoryMovement(nil), t.s.movements...)
	levels := make(map[string]int64, len(t.s.levels))
	for k, v := range t.s.levels {
		levels[k] = v
	}
	t.s.mu.Unlock()

	if err := fn(movRepo{t.s}, levelRepo{t.s}, variantRepo{t.s}); err != nil {
		t.s.mu.Lock()
		t.s.movements = movs
		t.s.levels = levels
		t.s.mu.Unlock()
		return err
	}
	return nil
}

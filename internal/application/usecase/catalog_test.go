package usecase_test

import (
	"context"
	"errors"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/pos-inventario/internal/application/dto"
	"github.com/jhoicas/pos-inventario/internal/application/usecase"
	"github.com/jhoicas/pos-inventario/internal/domain"
	"github.com/jhoicas/pos-inventario/internal/domain/entity"
	"github.com/jhoicas/pos-inventario/pkg/logger"
	"github.com/jhoicas/pos-inventario/pkg/pagination"
)

type catalogStore struct {
	mu       sync.Mutex
	products []*entity.Product
	variants []*entity.Variant
	vendors  []*entity.Vendor
}

func sortedPage[T any](rows []T, key func(T) pagination.Key, q pagination.Query) []T {
	rows = append([]T(nil), rows...)
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

type productRepo struct{ s *catalogStore }

func (r productRepo) Create(_ context.Context, p *entity.Product) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.products = append(r.s.products, p)
	return nil
}

func (r productRepo) GetByID(_ context.Context, id string) (*entity.Product, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, p := range r.s.products {
		if p.ID == id {
			return p, nil
		}
	}
	return nil, nil
}

func (r productRepo) List(_ context.Context, q pagination.Query) ([]*entity.Product, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return sortedPage(r.s.products, func(p *entity.Product) pagination.Key {
		return pagination.Key{RecordedAt: p.CreatedAt, ID: p.ID}
	}, q), nil
}

type variantRepo struct{ s *catalogStore }

func (r variantRepo) Create(_ context.Context, v *entity.Variant) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.variants {
		if v.Barcode != "" && existing.Barcode == v.Barcode {
			return domain.ErrDuplicate
		}
	}
	r.s.variants = append(r.s.variants, v)
	return nil
}

func (r variantRepo) GetByID(_ context.Context, id string) (*entity.Variant, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, v := range r.s.variants {
		if v.ID == id {
			return v, nil
		}
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
	return sortedPage(rows, func(v *entity.Variant) pagination.Key {
		return pagination.Key{RecordedAt: v.CreatedAt, ID: v.ID}
	}, q), nil
}

func (r variantRepo) List(_ context.Context, q pagination.Query) ([]*entity.Variant, error) {
	return nil, nil
}

func (r variantRepo) UpdateCost(context.Context, string, *decimal.Decimal) error { return nil }

type vendorRepo struct{ s *catalogStore }

func (r vendorRepo) Create(_ context.Context, v *entity.Vendor) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.vendors {
		if existing.Name == v.Name {
			return domain.ErrDuplicate
		}
	}
	r.s.vendors = append(r.s.vendors, v)
	return nil
}

func (r vendorRepo) GetByID(context.Context, string) (*entity.Vendor, error) { return nil, nil }

func (r vendorRepo) List(_ context.Context, q pagination.Query) ([]*entity.Vendor, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return sortedPage(r.s.vendors, func(v *entity.Vendor) pagination.Key {
		return pagination.Key{RecordedAt: v.CreatedAt, ID: v.ID}
	}, q), nil
}

type fixedCoster struct {
	cost *decimal.Decimal
	err  error
}

func (c fixedCoster) CostForNewVariant(context.Context, string) (*decimal.Decimal, error) {
	return c.cost, c.err
}

func TestProductUseCase_CrearYListar(t *testing.T) {
	s := &catalogStore{}
	uc := usecase.NewProductUseCase(productRepo{s}, 2)
	ctx := context.Background()

	_, err := uc.Create(ctx, dto.CreateProductRequest{Name: "   "})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	for _, name := range []string{"Lavanda", "Sándalo", "Vainilla"} {
		out, err := uc.Create(ctx, dto.CreateProductRequest{Name: name})
		require.NoError(t, err)
		assert.Equal(t, entity.ProductStatusActive, out.Status)
		time.Sleep(time.Millisecond)
	}

	first, err := uc.List(ctx, "")
	require.NoError(t, err)
	require.Len(t, first.Items, 2)
	assert.Equal(t, "Vainilla", first.Items[0].Name)
	require.NotNil(t, first.Page.NextCursor)

	second, err := uc.List(ctx, *first.Page.NextCursor)
	require.NoError(t, err)
	require.Len(t, second.Items, 1)
	assert.Equal(t, "Lavanda", second.Items[0].Name)
	assert.Nil(t, second.Page.NextCursor)

	got, err := uc.GetByID(ctx, second.Items[0].ID)
	require.NoError(t, err)
	assert.Equal(t, "Lavanda", got.Name)

	_, err = uc.GetByID(ctx, uuid.NewString())
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = uc.List(ctx, "???")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestVariantUseCase_CostoInicial(t *testing.T) {
	s := &catalogStore{}
	products := usecase.NewProductUseCase(productRepo{s}, 12)
	ctx := context.Background()
	p, err := products.Create(ctx, dto.CreateProductRequest{Name: "Lavanda"})
	require.NoError(t, err)

	cost := decimal.RequireFromString("2373.33")
	uc := usecase.NewVariantUseCase(productRepo{s}, variantRepo{s}, fixedCoster{cost: &cost}, 12, logger.Nop())

	out, err := uc.Create(ctx, p.ID, dto.CreateVariantRequest{
		BottleSizeML: decimal.NewFromInt(10),
		Price:        decimal.NewFromInt(45000),
		MinStock:     5,
	})
	require.NoError(t, err)
	assert.Equal(t, "ml", out.UnitLabel)
	assert.Equal(t, dto.CostStatusKnown, out.CostStatus)
	require.NotNil(t, out.BottleCost)
	assert.Equal(t, "23733.3", out.BottleCost.String())

	list, err := uc.ListByProduct(ctx, p.ID, "")
	require.NoError(t, err)
	assert.Len(t, list.Items, 1)
}

func TestVariantUseCase_SinCostoYValidaciones(t *testing.T) {
	s := &catalogStore{}
	products := usecase.NewProductUseCase(productRepo{s}, 12)
	ctx := context.Background()
	p, err := products.Create(ctx, dto.CreateProductRequest{Name: "Ámbar"})
	require.NoError(t, err)

	uc := usecase.NewVariantUseCase(productRepo{s}, variantRepo{s}, fixedCoster{}, 12, logger.Nop())
	out, err := uc.Create(ctx, p.ID, dto.CreateVariantRequest{BottleSizeML: decimal.NewFromInt(30), Barcode: "7701234"})
	require.NoError(t, err)
	assert.Nil(t, out.CostPerML)
	assert.Nil(t, out.BottleCost)
	assert.Equal(t, dto.CostStatusUnknown, out.CostStatus)

	_, err = uc.Create(ctx, p.ID, dto.CreateVariantRequest{BottleSizeML: decimal.NewFromInt(50), Barcode: "7701234"})
	assert.ErrorIs(t, err, domain.ErrDuplicate)

	_, err = uc.Create(ctx, p.ID, dto.CreateVariantRequest{BottleSizeML: decimal.Zero})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.Create(ctx, p.ID, dto.CreateVariantRequest{BottleSizeML: decimal.NewFromInt(10), MinStock: -1})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.Create(ctx, uuid.NewString(), dto.CreateVariantRequest{BottleSizeML: decimal.NewFromInt(10)})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = uc.GetByID(ctx, uuid.NewString())
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestVariantUseCase_FalloDeCostoNoCreaVariante(t *testing.T) {
	s := &catalogStore{}
	products := usecase.NewProductUseCase(productRepo{s}, 12)
	ctx := context.Background()
	p, err := products.Create(ctx, dto.CreateProductRequest{Name: "Ámbar"})
	require.NoError(t, err)

	coster := fixedCoster{err: domain.FetchFailed("compras del producto "+p.ID, errors.New("timeout en página 2"))}
	uc := usecase.NewVariantUseCase(productRepo{s}, variantRepo{s}, coster, 12, logger.Nop())

	out, err := uc.Create(ctx, p.ID, dto.CreateVariantRequest{BottleSizeML: decimal.NewFromInt(30)})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrFetch)
	assert.Nil(t, out)

	s.mu.Lock()
	defer s.mu.Unlock()
	assert.Empty(t, s.variants)
}

func TestVendorUseCase(t *testing.T) {
	s := &catalogStore{}
	uc := usecase.NewVendorUseCase(vendorRepo{s}, 12)
	ctx := context.Background()

	out, err := uc.Create(ctx, dto.CreateVendorRequest{Name: " Esencias del Valle ", Contact: "300 123 4567"})
	require.NoError(t, err)
	assert.Equal(t, "Esencias del Valle", out.Name)

	_, err = uc.Create(ctx, dto.CreateVendorRequest{Name: "Esencias del Valle"})
	assert.ErrorIs(t, err, domain.ErrDuplicate)

	list, err := uc.List(ctx, "")
	require.NoError(t, err)
	assert.Len(t, list.Items, 1)
	assert.Nil(t, list.Page.NextCursor)
}

func TestVendorUseCase_NIT(t *testing.T) {
	s := &catalogStore{}
	uc := usecase.NewVendorUseCase(vendorRepo{s}, 12)
	ctx := context.Background()

	out, err := uc.Create(ctx, dto.CreateVendorRequest{Name: "Aromas SAS", TaxID: "800.197.268-4"})
	require.NoError(t, err)
	assert.Equal(t, "800197268-4", out.TaxID)

	_, err = uc.Create(ctx, dto.CreateVendorRequest{Name: "Otro proveedor", TaxID: "800197268-5"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

package inventory_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/pos-inventario/internal/application/inventory"
	"github.com/jhoicas/pos-inventario/internal/domain"
	"github.com/jhoicas/pos-inventario/pkg/cache"
)

func TestMovementHistory_PaginasDe12(t *testing.T) {
	s := newMemStore()
	p := s.addProduct()
	v := s.addVariant(p.ID, 10, 0, t0)
	deltas := make([]int64, 25)
	for i := range deltas {
		deltas[i] = int64(i + 1)
	}
	seeded := s.seed(v.ID, t0, deltas...)

	rt := cache.NewReadThrough(cache.NewMemory(), 30*time.Second)
	uc := inventory.NewMovementHistoryUseCase(movRepo{s}, variantRepo{s}, 12, rt)
	ctx := context.Background()

	first, err := uc.List(ctx, v.ID, "")
	require.NoError(t, err)
	require.Len(t, first.Items, 12)
	require.NotNil(t, first.Page.NextCursor)
	assert.Equal(t, seeded[24].ID, first.Items[0].ID, "más reciente primero")
	assert.Equal(t, 12, first.Page.PageSize)
	assert.Equal(t, 30, first.Page.MaxStalenessSeconds)

	second, err := uc.List(ctx, v.ID, *first.Page.NextCursor)
	require.NoError(t, err)
	require.Len(t, second.Items, 12)
	require.NotNil(t, second.Page.NextCursor)

	third, err := uc.List(ctx, v.ID, *second.Page.NextCursor)
	require.NoError(t, err)
	require.Len(t, third.Items, 1)
	assert.Nil(t, third.Page.NextCursor)
	assert.Equal(t, seeded[0].ID, third.Items[0].ID)
}

func TestMovementHistory_CursorInvalido(t *testing.T) {
	s := newMemStore()
	p := s.addProduct()
	v := s.addVariant(p.ID, 10, 0, t0)
	uc := inventory.NewMovementHistoryUseCase(movRepo{s}, variantRepo{s}, 12, nil)

	_, err := uc.List(context.Background(), v.ID, "%%%")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestMovementHistory_VarianteSinMovimientos(t *testing.T) {
	s := newMemStore()
	p := s.addProduct()
	v := s.addVariant(p.ID, 10, 0, t0)
	uc := inventory.NewMovementHistoryUseCase(movRepo{s}, variantRepo{s}, 12, nil)

	out, err := uc.List(context.Background(), v.ID, "")
	require.NoError(t, err)
	assert.Empty(t, out.Items)
	assert.NotNil(t, out.Items)
	assert.Nil(t, out.Page.NextCursor)
	assert.Equal(t, 0, out.Page.MaxStalenessSeconds)
}

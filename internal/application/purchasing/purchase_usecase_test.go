package purchasing_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/pos-inventario/internal/application/dto"
	"github.com/jhoicas/pos-inventario/internal/application/purchasing"
	"github.com/jhoicas/pos-inventario/internal/domain"
	"github.com/jhoicas/pos-inventario/pkg/logger"
)

func newPurchases(s *memStore) *purchasing.PurchaseUseCase {
	return purchasing.NewPurchaseUseCase(txRunner{s}, purchaseRepo{s}, productRepo{s}, vendorRepo{s}, 12, nil, logger.Nop())
}

func line(productID, volume, price string) dto.PurchaseLineRequest {
	return dto.PurchaseLineRequest{
		ProductID:     productID,
		VolumeLiter:   decimal.RequireFromString(volume),
		PricePerLiter: decimal.RequireFromString(price),
	}
}

func TestRecordDelivery_LoteAtomico(t *testing.T) {
	s := newMemStore()
	a := s.addProduct()
	b := s.addProduct()
	vendor := s.addVendor()
	at := t0.Add(48 * time.Hour)

	out, err := newPurchases(s).RecordDelivery(context.Background(), dto.RecordDeliveryRequest{
		VendorID:    vendor.ID,
		PurchasedAt: &at,
		Lines: []dto.PurchaseLineRequest{
			line(a.ID, "1.0", "2400000"),
			line(b.ID, "0.5", "2320000"),
		},
	})
	require.NoError(t, err)
	require.Len(t, out.Lines, 2)
	assert.Equal(t, "1.5", out.TotalVolumeLiter.String())
	assert.Equal(t, "3560000", out.TotalCost.String())
	for _, l := range out.Lines {
		assert.Equal(t, out.BatchID, l.BatchID)
		assert.True(t, at.Equal(l.PurchasedAt))
	}
	assert.Equal(t, 2, s.purchaseCount())
}

func TestRecordDelivery_LineaInvalidaNoRegistraNada(t *testing.T) {
	s := newMemStore()
	a := s.addProduct()
	vendor := s.addVendor()
	uc := newPurchases(s)
	ctx := context.Background()

	cases := map[string]dto.RecordDeliveryRequest{
		"sin líneas":        {VendorID: vendor.ID},
		"volumen cero":      {VendorID: vendor.ID, Lines: []dto.PurchaseLineRequest{line(a.ID, "1", "10"), line(a.ID, "0", "10")}},
		"precio negativo":   {VendorID: vendor.ID, Lines: []dto.PurchaseLineRequest{line(a.ID, "1", "-1")}},
		"producto inválido": {VendorID: vendor.ID, Lines: []dto.PurchaseLineRequest{line("x", "1", "10")}},
		"proveedor vacío":   {Lines: []dto.PurchaseLineRequest{line(a.ID, "1", "10")}},
	}
	for name, req := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := uc.RecordDelivery(ctx, req)
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
		})
	}

	_, err := uc.RecordDelivery(ctx, dto.RecordDeliveryRequest{
		VendorID: vendor.ID,
		Lines:    []dto.PurchaseLineRequest{line(a.ID, "1", "10"), line(uuid.NewString(), "1", "10")},
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = uc.RecordDelivery(ctx, dto.RecordDeliveryRequest{
		VendorID: uuid.NewString(),
		Lines:    []dto.PurchaseLineRequest{line(a.ID, "1", "10")},
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	s.failBatch = true
	_, err = uc.RecordDelivery(ctx, dto.RecordDeliveryRequest{
		VendorID: vendor.ID,
		Lines:    []dto.PurchaseLineRequest{line(a.ID, "1", "10")},
	})
	assert.ErrorIs(t, err, errStoreDown)

	assert.Equal(t, 0, s.purchaseCount())
}

func TestRecordDelivery_PrecioCeroPermitido(t *testing.T) {
	s := newMemStore()
	a := s.addProduct()
	vendor := s.addVendor()

	_, err := newPurchases(s).RecordDelivery(context.Background(), dto.RecordDeliveryRequest{
		VendorID: vendor.ID,
		Lines:    []dto.PurchaseLineRequest{line(a.ID, "0.25", "0")},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, s.purchaseCount())
}

func TestListPurchases(t *testing.T) {
	s := newMemStore()
	a := s.addProduct()
	b := s.addProduct()
	vendor := s.addVendor()
	for i := 0; i < 14; i++ {
		s.seedPurchase(a.ID, vendor.ID, "1", "100", t0.Add(time.Duration(i)*time.Hour))
	}
	s.seedPurchase(b.ID, vendor.ID, "1", "100", t0)
	uc := newPurchases(s)
	ctx := context.Background()

	first, err := uc.List(ctx, dto.PurchaseFilter{ProductID: a.ID})
	require.NoError(t, err)
	assert.Len(t, first.Items, 12)
	require.NotNil(t, first.Page.NextCursor)

	second, err := uc.List(ctx, dto.PurchaseFilter{ProductID: a.ID, Cursor: *first.Page.NextCursor})
	require.NoError(t, err)
	assert.Len(t, second.Items, 2)
	assert.Nil(t, second.Page.NextCursor)

	all, err := uc.List(ctx, dto.PurchaseFilter{})
	require.NoError(t, err)
	assert.Len(t, all.Items, 12)

	_, err = uc.List(ctx, dto.PurchaseFilter{ProductID: a.ID, Cursor: "no-es-cursor"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.List(ctx, dto.PurchaseFilter{ProductID: uuid.NewString()})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestListPurchases_PorProveedor(t *testing.T) {
	s := newMemStore()
	a := s.addProduct()
	b := s.addProduct()
	valle := s.addVendor()
	otro := s.addVendor()
	for i := 0; i < 13; i++ {
		s.seedPurchase(a.ID, valle.ID, "1", "100", t0.Add(time.Duration(i)*time.Hour))
	}
	s.seedPurchase(b.ID, valle.ID, "2", "150", t0.Add(20*time.Hour))
	s.seedPurchase(a.ID, otro.ID, "1", "900", t0.Add(30*time.Hour))
	uc := newPurchases(s)
	ctx := context.Background()

	first, err := uc.List(ctx, dto.PurchaseFilter{VendorID: valle.ID})
	require.NoError(t, err)
	require.Len(t, first.Items, 12)
	assert.Equal(t, b.ID, first.Items[0].ProductID, "más reciente primero")
	require.NotNil(t, first.Page.NextCursor)

	second, err := uc.List(ctx, dto.PurchaseFilter{VendorID: valle.ID, Cursor: *first.Page.NextCursor})
	require.NoError(t, err)
	assert.Len(t, second.Items, 2)
	assert.Nil(t, second.Page.NextCursor)
	for _, p := range append(first.Items, second.Items...) {
		assert.Equal(t, valle.ID, p.VendorID)
	}

	_, err = uc.List(ctx, dto.PurchaseFilter{VendorID: uuid.NewString()})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = uc.List(ctx, dto.PurchaseFilter{VendorID: "x"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.List(ctx, dto.PurchaseFilter{ProductID: a.ID, VendorID: valle.ID})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

package purchasing

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/pos-inventario/internal/application/dto"
	"github.com/jhoicas/pos-inventario/internal/domain"
	"github.com/jhoicas/pos-inventario/internal/domain/entity"
	"github.com/jhoicas/pos-inventario/internal/domain/repository"
	"github.com/jhoicas/pos-inventario/pkg/cache"
	"github.com/jhoicas/pos-inventario/pkg/logger"
	"github.com/jhoicas/pos-inventario/pkg/pagination"
)

const maxLinesPerDelivery = 200

// PurchaseUseCase registra entregas de proveedores y lista el libro de compras.
type PurchaseUseCase struct {
	txRunner    PurchaseTxRunner
	productRepo repository.ProductRepository
	vendorRepo  repository.VendorRepository
	pages       purchasePages
	now         func() time.Time
	log         *logger.Logger
}

// NewPurchaseUseCase construye el caso de uso.
func NewPurchaseUseCase(
	txRunner PurchaseTxRunner,
	purchaseRepo repository.VendorPurchaseRepository,
	productRepo repository.ProductRepository,
	vendorRepo repository.VendorRepository,
	pageSize int,
	pages *cache.ReadThrough,
	log *logger.Logger,
) *PurchaseUseCase {
	return &PurchaseUseCase{
		txRunner:    txRunner,
		productRepo: productRepo,
		vendorRepo:  vendorRepo,
		pages:       newPurchasePages(purchaseRepo, pageSize, pages),
		now:         func() time.Time { return time.Now().UTC() },
		log:         log.Component("purchases"),
	}
}

// RecordDelivery registra todas las líneas de una entrega en una sola transacción.
// Todas comparten BatchID y PurchasedAt. Si alguna línea es inválida no se registra ninguna.
func (uc *PurchaseUseCase) RecordDelivery(ctx context.Context, in dto.RecordDeliveryRequest) (*dto.DeliveryResponse, error) {
	vendorID, err := domain.ValidateID("vendor_id", in.VendorID)
	if err != nil {
		return nil, err
	}
	if len(in.Lines) == 0 {
		return nil, fmt.Errorf("%w: la entrega no tiene líneas", domain.ErrInvalidInput)
	}
	if len(in.Lines) > maxLinesPerDelivery {
		return nil, fmt.Errorf("%w: máximo %d líneas por entrega", domain.ErrInvalidInput, maxLinesPerDelivery)
	}

	purchasedAt := uc.now()
	if in.PurchasedAt != nil {
		purchasedAt = in.PurchasedAt.UTC()
	}
	batchID := uuid.New().String()

	lines := make([]*entity.VendorPurchase, 0, len(in.Lines))
	for i, l := range in.Lines {
		productID, err := domain.ValidateID("product_id", l.ProductID)
		if err != nil {
			return nil, fmt.Errorf("línea %d: %w", i+1, err)
		}
		if !l.VolumeLiter.IsPositive() {
			return nil, fmt.Errorf("%w: línea %d: volume_liter debe ser mayor que 0", domain.ErrInvalidInput, i+1)
		}
		if l.PricePerLiter.IsNegative() {
			return nil, fmt.Errorf("%w: línea %d: price_per_liter no puede ser negativo", domain.ErrInvalidInput, i+1)
		}
		lines = append(lines, &entity.VendorPurchase{
			ID:            uuid.New().String(),
			ProductID:     productID,
			VendorID:      vendorID,
			BatchID:       batchID,
			VolumeLiter:   l.VolumeLiter,
			PricePerLiter: l.PricePerLiter,
			PurchasedAt:   purchasedAt,
		})
	}

	err = uc.txRunner.RunPurchases(ctx, func(
		purchaseRepo repository.VendorPurchaseRepository,
		productRepo repository.ProductRepository,
		vendorRepo repository.VendorRepository,
	) error {
		vendor, err := vendorRepo.GetByID(ctx, vendorID)
		if err != nil {
			return err
		}
		if vendor == nil {
			return fmt.Errorf("%w: proveedor %s", domain.ErrNotFound, vendorID)
		}
		checked := make(map[string]struct{}, len(lines))
		for _, l := range lines {
			if _, ok := checked[l.ProductID]; ok {
				continue
			}
			p, err := productRepo.GetByID(ctx, l.ProductID)
			if err != nil {
				return err
			}
			if p == nil {
				return fmt.Errorf("%w: producto %s", domain.ErrNotFound, l.ProductID)
			}
			checked[l.ProductID] = struct{}{}
		}
		return purchaseRepo.CreateBatch(ctx, lines)
	})
	if err != nil {
		return nil, err
	}

	out := &dto.DeliveryResponse{
		BatchID:          batchID,
		Lines:            make([]dto.PurchaseResponse, 0, len(lines)),
		TotalVolumeLiter: decimal.Zero,
		TotalCost:        decimal.Zero,
	}
	for _, l := range lines {
		out.Lines = append(out.Lines, toPurchaseResponse(l))
		out.TotalVolumeLiter = out.TotalVolumeLiter.Add(l.VolumeLiter)
		out.TotalCost = out.TotalCost.Add(l.LineTotal())
	}
	uc.log.Info().
		Str("batch_id", batchID).
		Str("vendor_id", vendorID).
		Int("lines", len(lines)).
		Str("total_cost", out.TotalCost.String()).
		Msg("entrega registrada")
	return out, nil
}

// List página del libro de compras filtrada por producto o por proveedor; sin filtros
// devuelve todas. Los dos filtros a la vez no se admiten.
func (uc *PurchaseUseCase) List(ctx context.Context, filter dto.PurchaseFilter) (*dto.PurchaseListResponse, error) {
	scope, err := uc.scope(ctx, filter)
	if err != nil {
		return nil, err
	}
	cursor := filter.Cursor
	if err := domain.ValidateCursor(cursor); err != nil {
		return nil, err
	}
	page, err := uc.pages.cached(scope)(ctx, cursor)
	if err != nil {
		if errors.Is(err, pagination.ErrInvalidCursor) {
			return nil, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
		}
		return nil, domain.FetchFailed("compras", err)
	}
	items := make([]dto.PurchaseResponse, 0, len(page.Items))
	for _, p := range page.Items {
		items = append(items, toPurchaseResponse(p))
	}
	return &dto.PurchaseListResponse{
		Items: items,
		Page:  dto.NewPageInfo(page.NextCursor, uc.pages.size, stalenessSeconds(uc.pages.cache)),
	}, nil
}

func (uc *PurchaseUseCase) scope(ctx context.Context, filter dto.PurchaseFilter) (purchaseScope, error) {
	var scope purchaseScope
	if filter.ProductID != "" && filter.VendorID != "" {
		return scope, fmt.Errorf("%w: filtre por product_id o por vendor_id, no ambos", domain.ErrInvalidInput)
	}
	if filter.ProductID != "" {
		id, err := domain.ValidateID("product_id", filter.ProductID)
		if err != nil {
			return scope, err
		}
		p, err := uc.productRepo.GetByID(ctx, id)
		if err != nil {
			return scope, domain.FetchFailed("producto "+id, err)
		}
		if p == nil {
			return scope, fmt.Errorf("%w: producto %s", domain.ErrNotFound, id)
		}
		scope.productID = id
	}
	if filter.VendorID != "" {
		id, err := domain.ValidateID("vendor_id", filter.VendorID)
		if err != nil {
			return scope, err
		}
		v, err := uc.vendorRepo.GetByID(ctx, id)
		if err != nil {
			return scope, domain.FetchFailed("proveedor "+id, err)
		}
		if v == nil {
			return scope, fmt.Errorf("%w: proveedor %s", domain.ErrNotFound, id)
		}
		scope.vendorID = id
	}
	return scope, nil
}

func toPurchaseResponse(p *entity.VendorPurchase) dto.PurchaseResponse {
	return dto.PurchaseResponse{
		ID:            p.ID,
		ProductID:     p.ProductID,
		VendorID:      p.VendorID,
		BatchID:       p.BatchID,
		VolumeLiter:   p.VolumeLiter,
		PricePerLiter: p.PricePerLiter,
		LineTotal:     p.LineTotal(),
		PurchasedAt:   p.PurchasedAt,
	}
}

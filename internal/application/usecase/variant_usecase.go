package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/pos-inventario/internal/application/dto"
	"github.com/jhoicas/pos-inventario/internal/domain"
	"github.com/jhoicas/pos-inventario/internal/domain/entity"
	"github.com/jhoicas/pos-inventario/internal/domain/repository"
	"github.com/jhoicas/pos-inventario/pkg/logger"
	"github.com/jhoicas/pos-inventario/pkg/pagination"
)

const defaultUnitLabel = "ml"

// NewVariantCoster calcula el costo por ml de una variante nueva a partir de las compras
// del producto. Lo implementa purchasing.CostEngine.
type NewVariantCoster interface {
	CostForNewVariant(ctx context.Context, productID string) (*decimal.Decimal, error)
}

// VariantUseCase casos de uso de variantes (frascos) de un producto.
type VariantUseCase struct {
	productRepo repository.ProductRepository
	variantRepo repository.VariantRepository
	coster      NewVariantCoster
	pageSize    int
	log         *logger.Logger
}

// NewVariantUseCase construye el caso de uso. coster puede ser nil (costo desconocido).
func NewVariantUseCase(
	productRepo repository.ProductRepository,
	variantRepo repository.VariantRepository,
	coster NewVariantCoster,
	pageSize int,
	log *logger.Logger,
) *VariantUseCase {
	return &VariantUseCase{
		productRepo: productRepo,
		variantRepo: variantRepo,
		coster:      coster,
		pageSize:    pagination.ClampPageSize(pageSize, pagination.PageSizeConfig{Default: pagination.DefaultPageSize}),
		log:         log.Component("variants"),
	}
}

// Create crea la variante y guarda su costo inicial calculado con las compras existentes.
// Si el costo no puede calcularse la variante se crea igual con costo desconocido.
func (uc *VariantUseCase) Create(ctx context.Context, productID string, in dto.CreateVariantRequest) (*dto.VariantResponse, error) {
	pid, err := domain.ValidateID("product_id", productID)
	if err != nil {
		return nil, err
	}
	if !in.BottleSizeML.IsPositive() {
		return nil, fmt.Errorf("%w: bottle_size_ml debe ser mayor que 0", domain.ErrInvalidInput)
	}
	if in.Price.IsNegative() {
		return nil, fmt.Errorf("%w: price no puede ser negativo", domain.ErrInvalidInput)
	}
	if in.MinStock < 0 {
		return nil, fmt.Errorf("%w: min_stock no puede ser negativo", domain.ErrInvalidInput)
	}
	product, err := uc.productRepo.GetByID(ctx, pid)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, fmt.Errorf("%w: producto %s", domain.ErrNotFound, pid)
	}

	unit := strings.TrimSpace(in.UnitLabel)
	if unit == "" {
		unit = defaultUnitLabel
	}
	variant := &entity.Variant{
		ID:           uuid.New().String(),
		ProductID:    pid,
		BottleSizeML: in.BottleSizeML,
		UnitLabel:    unit,
		Barcode:      strings.TrimSpace(in.Barcode),
		Price:        in.Price,
		MinStock:     in.MinStock,
		CreatedAt:    time.Now().UTC(),
	}
	if uc.coster != nil {
		// Un fallo de lectura no se guarda como costo desconocido: la variante no se crea.
		cost, err := uc.coster.CostForNewVariant(ctx, pid)
		if err != nil {
			uc.log.Warn().Err(err).Str("product_id", pid).Msg("costo inicial no disponible; variante no creada")
			return nil, err
		}
		variant.CostPerML = cost
	}
	if err := uc.variantRepo.Create(ctx, variant); err != nil {
		return nil, err
	}
	return toVariantResponse(variant), nil
}

// GetByID obtiene una variante por ID.
func (uc *VariantUseCase) GetByID(ctx context.Context, id string) (*dto.VariantResponse, error) {
	id, err := domain.ValidateID("variant_id", id)
	if err != nil {
		return nil, err
	}
	v, err := uc.variantRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if v == nil {
		return nil, fmt.Errorf("%w: variante %s", domain.ErrNotFound, id)
	}
	return toVariantResponse(v), nil
}

// ListByProduct lista las variantes de un producto por cursor.
func (uc *VariantUseCase) ListByProduct(ctx context.Context, productID, cursor string) (*dto.VariantListResponse, error) {
	pid, err := domain.ValidateID("product_id", productID)
	if err != nil {
		return nil, err
	}
	product, err := uc.productRepo.GetByID(ctx, pid)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, fmt.Errorf("%w: producto %s", domain.ErrNotFound, pid)
	}
	if err := domain.ValidateCursor(cursor); err != nil {
		return nil, err
	}
	pager := pagination.New(uc.pageSize, variantKey, func(ctx context.Context, q pagination.Query) ([]*entity.Variant, error) {
		return uc.variantRepo.ListByProduct(ctx, pid, q)
	})
	page, err := pager.Page(ctx, cursor)
	if err != nil {
		return nil, pageError(err)
	}
	items := make([]dto.VariantResponse, 0, len(page.Items))
	for _, v := range page.Items {
		items = append(items, *toVariantResponse(v))
	}
	return &dto.VariantListResponse{
		Items: items,
		Page:  dto.NewPageInfo(page.NextCursor, uc.pageSize, 0),
	}, nil
}

func variantKey(v *entity.Variant) pagination.Key {
	return pagination.Key{RecordedAt: v.CreatedAt, ID: v.ID}
}

func toVariantResponse(v *entity.Variant) *dto.VariantResponse {
	return &dto.VariantResponse{
		ID:           v.ID,
		ProductID:    v.ProductID,
		BottleSizeML: v.BottleSizeML,
		UnitLabel:    v.UnitLabel,
		Barcode:      v.Barcode,
		Price:        v.Price,
		MinStock:     v.MinStock,
		CostPerML:    v.CostPerML,
		BottleCost:   v.BottleCost(),
		CostStatus:   dto.CostStatus(v.CostPerML),
		CreatedAt:    v.CreatedAt,
	}
}

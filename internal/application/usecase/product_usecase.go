package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/pos-inventario/internal/application/dto"
	"github.com/jhoicas/pos-inventario/internal/domain"
	"github.com/jhoicas/pos-inventario/internal/domain/entity"
	"github.com/jhoicas/pos-inventario/internal/domain/repository"
	"github.com/jhoicas/pos-inventario/pkg/pagination"
)

const maxNameLength = 200

// ProductUseCase casos de uso del catálogo de productos. El costo vive en las variantes
// y el stock en el libro de movimientos.
type ProductUseCase struct {
	repo     repository.ProductRepository
	pageSize int
}

// NewProductUseCase construye el caso de uso.
func NewProductUseCase(repo repository.ProductRepository, pageSize int) *ProductUseCase {
	return &ProductUseCase{
		repo:     repo,
		pageSize: pagination.ClampPageSize(pageSize, pagination.PageSizeConfig{Default: pagination.DefaultPageSize}),
	}
}

// Create crea un nuevo producto activo.
func (uc *ProductUseCase) Create(ctx context.Context, in dto.CreateProductRequest) (*dto.ProductResponse, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" || len(name) > maxNameLength {
		return nil, fmt.Errorf("%w: name requerido (máx. %d caracteres)", domain.ErrInvalidInput, maxNameLength)
	}
	product := &entity.Product{
		ID:        uuid.New().String(),
		Name:      name,
		SKU:       strings.TrimSpace(in.SKU),
		Status:    entity.ProductStatusActive,
		CreatedAt: time.Now().UTC(),
	}
	if err := uc.repo.Create(ctx, product); err != nil {
		return nil, err
	}
	return toProductResponse(product), nil
}

// GetByID obtiene un producto por ID.
func (uc *ProductUseCase) GetByID(ctx context.Context, id string) (*dto.ProductResponse, error) {
	id, err := domain.ValidateID("product_id", id)
	if err != nil {
		return nil, err
	}
	product, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, fmt.Errorf("%w: producto %s", domain.ErrNotFound, id)
	}
	return toProductResponse(product), nil
}

// List lista productos por cursor (más recientes primero).
func (uc *ProductUseCase) List(ctx context.Context, cursor string) (*dto.ProductListResponse, error) {
	if err := domain.ValidateCursor(cursor); err != nil {
		return nil, err
	}
	page, err := pagination.New(uc.pageSize, productKey, uc.repo.List).Page(ctx, cursor)
	if err != nil {
		return nil, pageError(err)
	}
	items := make([]dto.ProductResponse, 0, len(page.Items))
	for _, p := range page.Items {
		items = append(items, *toProductResponse(p))
	}
	return &dto.ProductListResponse{
		Items: items,
		Page:  dto.NewPageInfo(page.NextCursor, uc.pageSize, 0),
	}, nil
}

func productKey(p *entity.Product) pagination.Key {
	return pagination.Key{RecordedAt: p.CreatedAt, ID: p.ID}
}

// pageError traduce un cursor mal formado a entrada inválida.
func pageError(err error) error {
	if errors.Is(err, pagination.ErrInvalidCursor) {
		return fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	return err
}

func toProductResponse(p *entity.Product) *dto.ProductResponse {
	if p == nil {
		return nil
	}
	return &dto.ProductResponse{
		ID:        p.ID,
		Name:      p.Name,
		SKU:       p.SKU,
		Status:    p.Status,
		CreatedAt: p.CreatedAt,
	}
}

package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/pos-inventario/internal/application/dto"
	"github.com/jhoicas/pos-inventario/internal/domain"
	"github.com/jhoicas/pos-inventario/internal/domain/entity"
	"github.com/jhoicas/pos-inventario/internal/domain/repository"
	"github.com/jhoicas/pos-inventario/pkg/nit"
	"github.com/jhoicas/pos-inventario/pkg/pagination"
)

// VendorUseCase casos de uso para proveedores.
type VendorUseCase struct {
	repo     repository.VendorRepository
	pageSize int
}

// NewVendorUseCase construye el caso de uso.
func NewVendorUseCase(repo repository.VendorRepository, pageSize int) *VendorUseCase {
	return &VendorUseCase{
		repo:     repo,
		pageSize: pagination.ClampPageSize(pageSize, pagination.PageSizeConfig{Default: pagination.DefaultPageSize}),
	}
}

// Create registra un proveedor. El nombre es único.
func (uc *VendorUseCase) Create(ctx context.Context, in dto.CreateVendorRequest) (*dto.VendorResponse, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" || len(name) > maxNameLength {
		return nil, fmt.Errorf("%w: name requerido (máx. %d caracteres)", domain.ErrInvalidInput, maxNameLength)
	}
	var taxID string
	if raw := strings.TrimSpace(in.TaxID); raw != "" {
		normalized, err := nit.Normalize(raw)
		if err != nil {
			return nil, fmt.Errorf("%w: tax_id: %v", domain.ErrInvalidInput, err)
		}
		taxID = normalized
	}
	vendor := &entity.Vendor{
		ID:        uuid.New().String(),
		Name:      name,
		TaxID:     taxID,
		Contact:   strings.TrimSpace(in.Contact),
		CreatedAt: time.Now().UTC(),
	}
	if err := uc.repo.Create(ctx, vendor); err != nil {
		return nil, err
	}
	return toVendorResponse(vendor), nil
}

// List lista proveedores por cursor.
func (uc *VendorUseCase) List(ctx context.Context, cursor string) (*dto.VendorListResponse, error) {
	if err := domain.ValidateCursor(cursor); err != nil {
		return nil, err
	}
	page, err := pagination.New(uc.pageSize, vendorKey, uc.repo.List).Page(ctx, cursor)
	if err != nil {
		return nil, pageError(err)
	}
	items := make([]dto.VendorResponse, 0, len(page.Items))
	for _, v := range page.Items {
		items = append(items, *toVendorResponse(v))
	}
	return &dto.VendorListResponse{
		Items: items,
		Page:  dto.NewPageInfo(page.NextCursor, uc.pageSize, 0),
	}, nil
}

func vendorKey(v *entity.Vendor) pagination.Key {
	return pagination.Key{RecordedAt: v.CreatedAt, ID: v.ID}
}

func toVendorResponse(v *entity.Vendor) *dto.VendorResponse {
	return &dto.VendorResponse{
		ID:        v.ID,
		Name:      v.Name,
		TaxID:     v.TaxID,
		Contact:   v.Contact,
		CreatedAt: v.CreatedAt,
	}
}

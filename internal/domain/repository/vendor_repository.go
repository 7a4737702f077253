package repository

import (
	"context"

	"github.com/jhoicas/pos-inventario/internal/domain/entity"
)

// VendorRepository define el puerto de persistencia para proveedores.
type VendorRepository interface {
	Create(ctx context.Context, vendor *entity.Vendor) error
	GetByID(ctx context.Context, id string) (*entity.Vendor, error)
	List(ctx context.Context, q PageQuery) ([]*entity.Vendor, error)
}

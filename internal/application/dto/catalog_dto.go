package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateProductRequest entrada para crear un producto.
type CreateProductRequest struct {
	Name string `json:"name" validate:"required,min=1,max=200"`
	SKU  string `json:"sku"`
}

// ProductResponse salida de un producto.
type ProductResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	SKU       string    `json:"sku,omitempty"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

// ProductListResponse página de productos.
type ProductListResponse struct {
	Items []ProductResponse `json:"items"`
	Page  PageInfo          `json:"page"`
}

// CreateVariantRequest entrada para crear una variante (frasco) de un producto.
type CreateVariantRequest struct {
	BottleSizeML decimal.Decimal `json:"bottle_size_ml"`
	UnitLabel    string          `json:"unit_label"`
	Barcode      string          `json:"barcode"`
	Price        decimal.Decimal `json:"price"`
	MinStock     int64           `json:"min_stock"`
}

// VariantResponse salida de una variante. CostPerML/BottleCost null si no hay compras.
type VariantResponse struct {
	ID           string           `json:"id"`
	ProductID    string           `json:"product_id"`
	BottleSizeML decimal.Decimal  `json:"bottle_size_ml"`
	UnitLabel    string           `json:"unit_label"`
	Barcode      string           `json:"barcode,omitempty"`
	Price        decimal.Decimal  `json:"price"`
	MinStock     int64            `json:"min_stock"`
	CostPerML    *decimal.Decimal `json:"cost_per_ml"`
	BottleCost   *decimal.Decimal `json:"bottle_cost"`
	CostStatus   string           `json:"cost_status"`
	CreatedAt    time.Time        `json:"created_at"`
}

// VariantListResponse página de variantes.
type VariantListResponse struct {
	Items []VariantResponse `json:"items"`
	Page  PageInfo          `json:"page"`
}

// CreateVendorRequest entrada para crear un proveedor.
type CreateVendorRequest struct {
	Name    string `json:"name"`
	TaxID   string `json:"tax_id"` // NIT con dígito de verificación, opcional
	Contact string `json:"contact"`
}

// VendorResponse salida de un proveedor.
type VendorResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	TaxID     string    `json:"tax_id,omitempty"`
	Contact   string    `json:"contact,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// VendorListResponse página de proveedores.
type VendorListResponse struct {
	Items []VendorResponse `json:"items"`
	Page  PageInfo         `json:"page"`
}

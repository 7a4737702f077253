package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// PurchaseLineRequest una línea de la entrega: volumen en litros y precio por litro.
type PurchaseLineRequest struct {
	ProductID     string          `json:"product_id"`
	VolumeLiter   decimal.Decimal `json:"volume_liter"`
	PricePerLiter decimal.Decimal `json:"price_per_liter"`
}

// RecordDeliveryRequest body para POST /api/purchases. Todas las líneas se registran
// juntas o ninguna.
type RecordDeliveryRequest struct {
	VendorID    string                `json:"vendor_id"`
	PurchasedAt *time.Time            `json:"purchased_at,omitempty"`
	Lines       []PurchaseLineRequest `json:"lines"`
}

// PurchaseResponse salida de una línea de compra.
type PurchaseResponse struct {
	ID            string          `json:"id"`
	ProductID     string          `json:"product_id"`
	VendorID      string          `json:"vendor_id"`
	BatchID       string          `json:"batch_id"`
	VolumeLiter   decimal.Decimal `json:"volume_liter"`
	PricePerLiter decimal.Decimal `json:"price_per_liter"`
	LineTotal     decimal.Decimal `json:"line_total"`
	PurchasedAt   time.Time       `json:"purchased_at"`
}

// DeliveryResponse resultado de registrar una entrega completa.
type DeliveryResponse struct {
	BatchID          string             `json:"batch_id"`
	Lines            []PurchaseResponse `json:"lines"`
	TotalVolumeLiter decimal.Decimal    `json:"total_volume_liter"`
	TotalCost        decimal.Decimal    `json:"total_cost"`
}

// PurchaseFilter parámetros de GET /api/purchases.
type PurchaseFilter struct {
	ProductID string
	VendorID  string
	Cursor    string
}

// PurchaseListResponse página del libro de compras.
type PurchaseListResponse struct {
	Items []PurchaseResponse `json:"items"`
	Page  PageInfo           `json:"page"`
}

// UnitCostResponse costo promedio ponderado por ml de un producto.
// CostPerML null + CostStatus "unknown" cuando no hay volumen comprado.
// Se pliega sobre páginas cacheadas: puede atrasarse hasta MaxStalenessSeconds.
type UnitCostResponse struct {
	ProductID           string           `json:"product_id"`
	CostPerML           *decimal.Decimal `json:"cost_per_ml"`
	CostStatus          string           `json:"cost_status"`
	MaxStalenessSeconds int              `json:"max_staleness_seconds"`
}

// CostRefreshResponse resultado de recalcular y persistir el costo en las variantes.
type CostRefreshResponse struct {
	ProductID       string           `json:"product_id"`
	CostPerML       *decimal.Decimal `json:"cost_per_ml"`
	CostStatus      string           `json:"cost_status"`
	VariantsUpdated int              `json:"variants_updated"`
}

package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// VendorPurchase línea inmutable de compra a proveedor. Volumen en litros, precio por litro.
// Las líneas de una misma entrega comparten BatchID y se registran de forma atómica.
type VendorPurchase struct {
	ID            string
	ProductID     string
	VendorID      string
	BatchID       string
	VolumeLiter   decimal.Decimal
	PricePerLiter decimal.Decimal
	PurchasedAt   time.Time
}

// LineTotal volumen × precio por litro.
func (p *VendorPurchase) LineTotal() decimal.Decimal {
	return p.VolumeLiter.Mul(p.PricePerLiter)
}

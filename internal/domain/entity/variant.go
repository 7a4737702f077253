package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Variant presentación vendible de un producto (ej. frasco de 10 ml).
// CostPerML es un valor cacheado y recalculable desde el historial de compras; nil = desconocido.
type Variant struct {
	ID           string
	ProductID    string
	BottleSizeML decimal.Decimal // volumen por unidad
	UnitLabel    string          // "ml" por defecto
	Barcode      string          // opcional, único
	Price        decimal.Decimal // precio de lista
	MinStock     int64           // umbral de alerta de stock mínimo
	CostPerML    *decimal.Decimal
	CreatedAt    time.Time
}

// BottleCost costo de una unidad (CostPerML × BottleSizeML). nil si el costo es desconocido.
func (v *Variant) BottleCost() *decimal.Decimal {
	if v == nil || v.CostPerML == nil {
		return nil
	}
	c := v.CostPerML.Mul(v.BottleSizeML)
	return &c
}

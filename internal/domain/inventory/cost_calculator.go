package inventory

import (
	"github.com/jhoicas/pos-inventario/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// MillilitersPerLiter factor de normalización: las compras se registran por litro y el
// costo se expresa por mililitro (unidad base de las variantes).
var MillilitersPerLiter = decimal.NewFromInt(1000)

// CostAccumulator acumula costo total y volumen total de un historial de compras.
// El orden de acumulación no altera el resultado (sumas decimales exactas).
type CostAccumulator struct {
	TotalCost   decimal.Decimal // Σ volumen × precio
	TotalVolume decimal.Decimal // Σ volumen (litros)
}

// Add suma una línea de compra.
func (a *CostAccumulator) Add(p *entity.VendorPurchase) {
	a.TotalCost = a.TotalCost.Add(p.LineTotal())
	a.TotalVolume = a.TotalVolume.Add(p.VolumeLiter)
}

// CostPerML costo promedio ponderado por mililitro:
// (Σ volumen × precio) / (Σ volumen) / 1000.
// Devuelve nil (costo indefinido) cuando el volumen total es cero o negativo.
func (a CostAccumulator) CostPerML() *decimal.Decimal {
	if a.TotalVolume.LessThanOrEqual(decimal.Zero) {
		return nil
	}
	perLiter := a.TotalCost.Div(a.TotalVolume)
	perML := perLiter.Div(MillilitersPerLiter)
	return &perML
}

// AddPage suma una página del historial. No hay promedio incremental: el costo se obtiene
// acumulando todas las páginas y llamando a CostPerML al final.
func (a *CostAccumulator) AddPage(purchases []*entity.VendorPurchase) {
	for _, p := range purchases {
		a.Add(p)
	}
}

package entity

import "time"

// StockLevel proyección materializada del stock de una variante. Se actualiza en la misma
// transacción que cada movimiento; el libro de movimientos sigue siendo la fuente de verdad.
type StockLevel struct {
	VariantID string
	Quantity  int64
	UpdatedAt time.Time
}

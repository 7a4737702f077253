package entity

import "time"

// Direcciones de movimiento de inventario.
const (
	DirectionIn  = "in"  // entrada
	DirectionOut = "out" // salida
)

// InventoryMovement registro inmutable del libro de movimientos de una variante.
// Quantity siempre es positiva; el signo lo da Direction. Las correcciones se registran
// como movimientos nuevos en sentido contrario (ReversesID apunta al original).
type InventoryMovement struct {
	ID         string
	VariantID  string
	Direction  string
	Quantity   int64
	Reason     string // opcional
	ReversesID string // opcional
	CreatedAt  time.Time
}

// Delta aporte con signo del movimiento al stock.
func (m *InventoryMovement) Delta() int64 {
	if m.Direction == DirectionOut {
		return -m.Quantity
	}
	return m.Quantity
}

// ValidDirection indica si d es una dirección conocida.
func ValidDirection(d string) bool {
	return d == DirectionIn || d == DirectionOut
}

// Opposite dirección contraria (para reversos).
func Opposite(d string) string {
	if d == DirectionIn {
		return DirectionOut
	}
	return DirectionIn
}

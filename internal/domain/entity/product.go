package entity

import "time"

// Estados de producto.
const (
	ProductStatusActive   = "active"
	ProductStatusArchived = "archived"
)

// Product representa un producto del catálogo (ej. una fragancia). Se vende en variantes
// por tamaño de frasco y se compra a granel por litro.
type Product struct {
	ID        string
	Name      string
	SKU       string // opcional
	Status    string
	CreatedAt time.Time
}

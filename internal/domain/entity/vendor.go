package entity

import "time"

// Vendor proveedor al que se compra producto a granel.
type Vendor struct {
	ID        string
	Name      string
	TaxID     string // NIT normalizado "800197268-4", opcional
	Contact   string // teléfono o correo, opcional
	CreatedAt time.Time
}

package inventory

import "github.com/jhoicas/pos-inventario/internal/domain/entity"

// FoldStock stock actual = Σ entradas − Σ salidas. Puede ser negativo si el historial lo es;
// la regla de no vender sin stock se aplica al registrar la salida, no aquí.
func FoldStock(movements []*entity.InventoryMovement) int64 {
	var total int64
	for _, m := range movements {
		total += m.Delta()
	}
	return total
}

package dto

import "time"

// RecordMovementRequest body para POST /api/inventory/movements.
type RecordMovementRequest struct {
	VariantID string `json:"variant_id"`
	Direction string `json:"direction"` // in | out
	Quantity  int64  `json:"quantity"`
	Reason    string `json:"reason,omitempty"`
}

// ReverseMovementRequest body para POST /api/inventory/movements/:id/reverse.
type ReverseMovementRequest struct {
	Reason string `json:"reason,omitempty"`
}

// MovementResponse salida de un movimiento del libro.
type MovementResponse struct {
	ID         string    `json:"id"`
	VariantID  string    `json:"variant_id"`
	Direction  string    `json:"direction"`
	Quantity   int64     `json:"quantity"`
	Reason     string    `json:"reason,omitempty"`
	ReversesID string    `json:"reverses_id,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

// MovementListResponse página del libro de una variante.
type MovementListResponse struct {
	Items []MovementResponse `json:"items"`
	Page  PageInfo           `json:"page"`
}

// StockResponse stock actual por variante.
type StockResponse struct {
	Stock               map[string]int64 `json:"stock"`
	Source              string           `json:"source"` // ledger | materialized
	MaxStalenessSeconds int              `json:"max_staleness_seconds"`
}

// LowStockItemDTO variante en o por debajo de su stock mínimo.
type LowStockItemDTO struct {
	VariantID    string `json:"variant_id"`
	ProductID    string `json:"product_id"`
	BottleSizeML string `json:"bottle_size_ml"`
	UnitLabel    string `json:"unit_label"`
	Barcode      string `json:"barcode,omitempty"`
	CurrentStock int64  `json:"current_stock"`
	MinStock     int64  `json:"min_stock"`
	Deficit      int64  `json:"deficit"`  // MinStock - CurrentStock
	Priority     int    `json:"priority"` // 1 = más urgente
}

// StockDriftDTO diferencia encontrada entre el libro y la proyección materializada.
type StockDriftDTO struct {
	VariantID         string `json:"variant_id"`
	LedgerStock       int64  `json:"ledger_stock"`
	MaterializedStock int64  `json:"materialized_stock"`
	Corrected         bool   `json:"corrected"`
}

// ReconcileRequest body opcional para POST /api/inventory/reconcile; vacío = todas las variantes.
type ReconcileRequest struct {
	VariantIDs []string `json:"variant_ids,omitempty"`
}

// ReconcileResponse resultado de la conciliación.
type ReconcileResponse struct {
	Drifts []StockDriftDTO `json:"drifts"`
}

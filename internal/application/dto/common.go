package dto

import "github.com/shopspring/decimal"

// PageInfo metadatos de una página por cursor.
// MaxStalenessSeconds: los listados se sirven desde caché sin invalidación en escrituras;
// una fila recién registrada puede tardar hasta ese tiempo en aparecer.
type PageInfo struct {
	NextCursor          *string `json:"next_cursor"`
	PageSize            int     `json:"page_size"`
	MaxStalenessSeconds int     `json:"max_staleness_seconds"`
}

// NewPageInfo arma los metadatos; cursor vacío = última página.
func NewPageInfo(nextCursor string, pageSize int, staleness int) PageInfo {
	info := PageInfo{PageSize: pageSize, MaxStalenessSeconds: staleness}
	if nextCursor != "" {
		info.NextCursor = &nextCursor
	}
	return info
}

// ErrorResponse cuerpo de error HTTP.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Estados de costo expuestos a la capa de vista.
const (
	CostStatusKnown   = "known"
	CostStatusUnknown = "unknown" // sin datos de compra: mostrar "agregar compras", nunca 0
)

// CostStatus traduce un costo nullable a su estado.
func CostStatus(cost *decimal.Decimal) string {
	if cost == nil {
		return CostStatusUnknown
	}
	return CostStatusKnown
}

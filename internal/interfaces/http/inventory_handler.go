package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/pos-inventario/internal/application/dto"
	"github.com/jhoicas/pos-inventario/internal/application/inventory"
	"github.com/jhoicas/pos-inventario/pkg/logger"
)

// InventoryHandler maneja las peticiones HTTP de movimientos e inventario (protegido).
type InventoryHandler struct {
	movements   *inventory.RegisterMovementUseCase
	history     *inventory.MovementHistoryUseCase
	stock       inventory.StockReader
	stockSource string
	lowStock    *inventory.LowStockUseCase
	reconcile   *inventory.ReconcileUseCase
	log         *logger.Logger
}

// InventoryHandlerDeps dependencias del handler de inventario.
type InventoryHandlerDeps struct {
	Movements   *inventory.RegisterMovementUseCase
	History     *inventory.MovementHistoryUseCase
	Stock       inventory.StockReader
	StockSource string // ledger | materialized, se informa en la respuesta
	LowStock    *inventory.LowStockUseCase
	Reconcile   *inventory.ReconcileUseCase
}

// NewInventoryHandler construye el handler.
func NewInventoryHandler(deps InventoryHandlerDeps, log *logger.Logger) *InventoryHandler {
	return &InventoryHandler{
		movements:   deps.Movements,
		history:     deps.History,
		stock:       deps.Stock,
		stockSource: deps.StockSource,
		lowStock:    deps.LowStock,
		reconcile:   deps.Reconcile,
		log:         log,
	}
}

// RecordMovement godoc
// @Summary      Registrar movimiento de inventario
// @Description  Entrada (in) o salida (out) de frascos. Una salida que deja el stock negativo se rechaza con 409.
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RecordMovementRequest  true  "variant_id, direction, quantity, reason"
// @Success      201   {object}  dto.MovementResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/inventory/movements [post]
func (h *InventoryHandler) RecordMovement(c *fiber.Ctx) error {
	var in dto.RecordMovementRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.movements.RecordMovement(c.Context(), in)
	if err != nil {
		return respondError(c, h.log, err)
	}
	h.log.Debug().Str("user_id", GetUserID(c)).Str("movement_id", out.ID).Msg("movimiento vía API")
	return c.Status(fiber.StatusCreated).JSON(out)
}

// ReverseMovement godoc
// @Summary      Revertir movimiento
// @Description  Registra un movimiento opuesto por la misma cantidad. Cada movimiento se revierte a lo sumo una vez.
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                      true   "ID del movimiento"
// @Param        body  body  dto.ReverseMovementRequest  false  "Motivo"
// @Success      201   {object}  dto.MovementResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/inventory/movements/{id}/reverse [post]
func (h *InventoryHandler) ReverseMovement(c *fiber.Ctx) error {
	var in dto.ReverseMovementRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&in); err != nil {
			return invalidBody(c)
		}
	}
	out, err := h.movements.ReverseMovement(c.Context(), c.Params("id"), in)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// ListMovements godoc
// @Summary      Historial de movimientos de una variante
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        variant_id  query     string  true   "ID de la variante"
// @Param        cursor      query     string  false  "Cursor opaco"
// @Success      200         {object}  dto.MovementListResponse
// @Failure      400         {object}  dto.ErrorResponse
// @Failure      404         {object}  dto.ErrorResponse
// @Router       /api/inventory/movements [get]
func (h *InventoryHandler) ListMovements(c *fiber.Ctx) error {
	out, err := h.history.List(c.Context(), c.Query("variant_id"), c.Query("cursor"))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(out)
}

// CurrentStock godoc
// @Summary      Stock actual por variante
// @Description  variant_id se puede repetir o separar por comas. Si falla cualquier lectura responde 502 STOCK_UNAVAILABLE, nunca cero.
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        variant_id  query     []string  true  "IDs de variantes"  collectionFormat(multi)
// @Success      200         {object}  dto.StockResponse
// @Failure      400         {object}  dto.ErrorResponse
// @Failure      404         {object}  dto.ErrorResponse
// @Failure      502         {object}  dto.ErrorResponse
// @Router       /api/inventory/stock [get]
func (h *InventoryHandler) CurrentStock(c *fiber.Ctx) error {
	ids := queryList(c, "variant_id")
	stock, err := h.stock.CurrentStock(c.Context(), ids...)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(dto.StockResponse{
		Stock:               stock,
		Source:              h.stockSource,
		MaxStalenessSeconds: h.stock.MaxStalenessSeconds(),
	})
}

// LowStock godoc
// @Summary      Variantes en o por debajo del stock mínimo
// @Description  Ordenadas por déficit (mayor primero); priority 1 = más urgente.
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        product_id  query     string  true  "ID del producto"
// @Success      200         {array}   dto.LowStockItemDTO
// @Failure      404         {object}  dto.ErrorResponse
// @Failure      502         {object}  dto.ErrorResponse
// @Router       /api/inventory/low-stock [get]
func (h *InventoryHandler) LowStock(c *fiber.Ctx) error {
	items, err := h.lowStock.ListLowStock(c.Context(), c.Query("product_id"))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(items)
}

// Reconcile godoc
// @Summary      Conciliar stock materializado contra el libro
// @Description  Solo admin. Corrige y reporta las variantes cuyo nivel materializado difiere del libro.
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body      dto.ReconcileRequest  false  "variant_ids; vacío = todas"
// @Success      200   {object}  dto.ReconcileResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      502   {object}  dto.ErrorResponse
// @Router       /api/inventory/reconcile [post]
func (h *InventoryHandler) Reconcile(c *fiber.Ctx) error {
	var in dto.ReconcileRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&in); err != nil {
			return invalidBody(c)
		}
	}
	drifts, err := h.reconcile.Reconcile(c.Context(), in.VariantIDs...)
	if err != nil {
		return respondError(c, h.log, err)
	}
	h.log.Info().Str("user_id", GetUserID(c)).Int("drifts", len(drifts)).Msg("conciliación solicitada")
	return c.JSON(dto.ReconcileResponse{Drifts: drifts})
}

// queryList lee un parámetro repetible (?k=a&k=b) aceptando también valores separados por coma.
func queryList(c *fiber.Ctx, key string) []string {
	var out []string
	for _, raw := range c.Context().QueryArgs().PeekMulti(key) {
		for _, part := range strings.Split(string(raw), ",") {
			if p := strings.TrimSpace(part); p != "" {
				out = append(out, p)
			}
		}
	}
	return out
}

package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/pos-inventario/internal/application/dto"
	"github.com/jhoicas/pos-inventario/internal/application/purchasing"
	"github.com/jhoicas/pos-inventario/pkg/logger"
)

// PurchaseHandler entregas de proveedores y costo promedio ponderado.
type PurchaseHandler struct {
	purchases *purchasing.PurchaseUseCase
	costs     *purchasing.CostEngine
	log       *logger.Logger
}

// NewPurchaseHandler construye el handler.
func NewPurchaseHandler(purchases *purchasing.PurchaseUseCase, costs *purchasing.CostEngine, log *logger.Logger) *PurchaseHandler {
	return &PurchaseHandler{purchases: purchases, costs: costs, log: log}
}

// RecordDelivery godoc
// @Summary      Registrar entrega de proveedor
// @Description  Todas las líneas se guardan en una sola transacción o ninguna.
// @Tags         purchases
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RecordDeliveryRequest  true  "vendor_id y líneas (product_id, volume_liter, price_per_liter)"
// @Success      201   {object}  dto.DeliveryResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/purchases [post]
func (h *PurchaseHandler) RecordDelivery(c *fiber.Ctx) error {
	var in dto.RecordDeliveryRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.purchases.RecordDelivery(c.Context(), in)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// List godoc
// @Summary      Listar compras
// @Tags         purchases
// @Security     Bearer
// @Produce      json
// @Param        product_id  query     string  false  "Filtrar por producto"
// @Param        vendor_id   query     string  false  "Filtrar por proveedor (excluye product_id)"
// @Param        cursor      query     string  false  "Cursor opaco"
// @Success      200         {object}  dto.PurchaseListResponse
// @Failure      400         {object}  dto.ErrorResponse
// @Router       /api/purchases [get]
func (h *PurchaseHandler) List(c *fiber.Ctx) error {
	out, err := h.purchases.List(c.Context(), dto.PurchaseFilter{
		ProductID: c.Query("product_id"),
		VendorID:  c.Query("vendor_id"),
		Cursor:    c.Query("cursor"),
	})
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(out)
}

// UnitCost godoc
// @Summary      Costo por ml de un producto
// @Description  Promedio ponderado por volumen de todas las compras. cost_per_ml null si no hay compras.
// @Tags         costs
// @Security     Bearer
// @Produce      json
// @Param        id   path      string  true  "ID del producto"
// @Success      200  {object}  dto.UnitCostResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      502  {object}  dto.ErrorResponse
// @Router       /api/products/{id}/unit-cost [get]
func (h *PurchaseHandler) UnitCost(c *fiber.Ctx) error {
	out, err := h.costs.UnitCost(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(out)
}

// RefreshProductCosts godoc
// @Summary      Recalcular y guardar el costo en todas las variantes del producto
// @Tags         costs
// @Security     Bearer
// @Produce      json
// @Param        id   path      string  true  "ID del producto"
// @Success      200  {object}  dto.CostRefreshResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      502  {object}  dto.ErrorResponse
// @Router       /api/products/{id}/refresh-cost [post]
func (h *PurchaseHandler) RefreshProductCosts(c *fiber.Ctx) error {
	out, err := h.costs.RefreshProductCosts(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(out)
}

// RefreshVariantCost godoc
// @Summary      Recalcular y guardar el costo de una variante
// @Tags         costs
// @Security     Bearer
// @Produce      json
// @Param        id   path      string  true  "ID de la variante"
// @Success      200  {object}  dto.CostRefreshResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/variants/{id}/refresh-cost [post]
func (h *PurchaseHandler) RefreshVariantCost(c *fiber.Ctx) error {
	out, err := h.costs.RefreshVariantCost(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(out)
}

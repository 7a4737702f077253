package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/pos-inventario/internal/application/dto"
	"github.com/jhoicas/pos-inventario/internal/application/usecase"
	"github.com/jhoicas/pos-inventario/pkg/logger"
)

// ProductHandler maneja las peticiones HTTP para productos y sus variantes (protegido).
type ProductHandler struct {
	products *usecase.ProductUseCase
	variants *usecase.VariantUseCase
	log      *logger.Logger
}

// NewProductHandler construye el handler.
func NewProductHandler(products *usecase.ProductUseCase, variants *usecase.VariantUseCase, log *logger.Logger) *ProductHandler {
	return &ProductHandler{products: products, variants: variants, log: log}
}

// Create godoc
// @Summary      Crear producto
// @Tags         products
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateProductRequest  true  "Datos del producto"
// @Success      201   {object}  dto.ProductResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/products [post]
func (h *ProductHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateProductRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.products.Create(c.Context(), in)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetByID godoc
// @Summary      Obtener producto por ID
// @Tags         products
// @Security     Bearer
// @Produce      json
// @Param        id   path      string  true  "ID del producto"
// @Success      200  {object}  dto.ProductResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/products/{id} [get]
func (h *ProductHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.products.GetByID(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(out)
}

// List godoc
// @Summary      Listar productos
// @Description  Páginas por cursor, más reciente primero. Servido desde caché (ver page.max_staleness_seconds).
// @Tags         products
// @Security     Bearer
// @Produce      json
// @Param        cursor  query     string  false  "Cursor opaco de la página anterior"
// @Success      200     {object}  dto.ProductListResponse
// @Failure      400     {object}  dto.ErrorResponse
// @Router       /api/products [get]
func (h *ProductHandler) List(c *fiber.Ctx) error {
	out, err := h.products.List(c.Context(), c.Query("cursor"))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(out)
}

// CreateVariant godoc
// @Summary      Crear variante (tamaño de frasco) de un producto
// @Description  El costo inicial se toma del promedio ponderado de compras; null si aún no hay compras.
// @Tags         variants
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                    true  "ID del producto"
// @Param        body  body  dto.CreateVariantRequest  true  "Tamaño, precio, stock mínimo"
// @Success      201   {object}  dto.VariantResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/products/{id}/variants [post]
func (h *ProductHandler) CreateVariant(c *fiber.Ctx) error {
	var in dto.CreateVariantRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.variants.Create(c.Context(), c.Params("id"), in)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// ListVariants godoc
// @Summary      Listar variantes de un producto
// @Tags         variants
// @Security     Bearer
// @Produce      json
// @Param        id      path      string  true   "ID del producto"
// @Param        cursor  query     string  false  "Cursor opaco"
// @Success      200     {object}  dto.VariantListResponse
// @Failure      404     {object}  dto.ErrorResponse
// @Router       /api/products/{id}/variants [get]
func (h *ProductHandler) ListVariants(c *fiber.Ctx) error {
	out, err := h.variants.ListByProduct(c.Context(), c.Params("id"), c.Query("cursor"))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(out)
}

// GetVariant godoc
// @Summary      Obtener variante por ID
// @Tags         variants
// @Security     Bearer
// @Produce      json
// @Param        id   path      string  true  "ID de la variante"
// @Success      200  {object}  dto.VariantResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/variants/{id} [get]
func (h *ProductHandler) GetVariant(c *fiber.Ctx) error {
	out, err := h.variants.GetByID(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(out)
}

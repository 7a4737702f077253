package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/pos-inventario/internal/application/inventory"
	"github.com/jhoicas/pos-inventario/internal/application/purchasing"
	"github.com/jhoicas/pos-inventario/internal/application/usecase"
	"github.com/jhoicas/pos-inventario/pkg/jwt"
	"github.com/jhoicas/pos-inventario/pkg/logger"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	ProductUC        *usecase.ProductUseCase
	VariantUC        *usecase.VariantUseCase
	VendorUC         *usecase.VendorUseCase
	PurchaseUC       *purchasing.PurchaseUseCase
	CostEngine       *purchasing.CostEngine
	RegisterMovement *inventory.RegisterMovementUseCase
	History          *inventory.MovementHistoryUseCase
	Stock            inventory.StockReader
	StockSource      string
	LowStock         *inventory.LowStockUseCase
	Reconcile        *inventory.ReconcileUseCase
	JWTSecret        string
	JWTIssuer        string
	Log              *logger.Logger
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	log := deps.Log.Component("http")
	api := app.Group("/api")

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret, deps.JWTIssuer))
	anyRole := RequireRole(jwt.RoleAdmin, jwt.RoleBodeguero, jwt.RoleVendedor)
	stockRoles := RequireRole(jwt.RoleAdmin, jwt.RoleBodeguero)
	adminOnly := RequireRole(jwt.RoleAdmin)

	// Catálogo
	productHandler := NewProductHandler(deps.ProductUC, deps.VariantUC, log)
	purchaseHandler := NewPurchaseHandler(deps.PurchaseUC, deps.CostEngine, log)
	products := protected.Group("/products")
	products.Post("/", adminOnly, productHandler.Create)
	products.Get("/", anyRole, productHandler.List)
	products.Get("/:id", anyRole, productHandler.GetByID)
	products.Post("/:id/variants", adminOnly, productHandler.CreateVariant)
	products.Get("/:id/variants", anyRole, productHandler.ListVariants)
	products.Get("/:id/unit-cost", anyRole, purchaseHandler.UnitCost)
	products.Post("/:id/refresh-cost", adminOnly, purchaseHandler.RefreshProductCosts)

	variants := protected.Group("/variants")
	variants.Get("/:id", anyRole, productHandler.GetVariant)
	variants.Post("/:id/refresh-cost", adminOnly, purchaseHandler.RefreshVariantCost)

	// Proveedores y compras
	vendorHandler := NewVendorHandler(deps.VendorUC, log)
	vendors := protected.Group("/vendors")
	vendors.Post("/", stockRoles, vendorHandler.Create)
	vendors.Get("/", anyRole, vendorHandler.List)

	purchases := protected.Group("/purchases")
	purchases.Post("/", stockRoles, purchaseHandler.RecordDelivery)
	purchases.Get("/", stockRoles, purchaseHandler.List)

	// Inventario: el vendedor registra salidas por venta; reversos y conciliación no.
	inventoryHandler := NewInventoryHandler(InventoryHandlerDeps{
		Movements:   deps.RegisterMovement,
		History:     deps.History,
		Stock:       deps.Stock,
		StockSource: deps.StockSource,
		LowStock:    deps.LowStock,
		Reconcile:   deps.Reconcile,
	}, log)
	invGroup := protected.Group("/inventory")
	invGroup.Post("/movements", anyRole, inventoryHandler.RecordMovement)
	invGroup.Get("/movements", anyRole, inventoryHandler.ListMovements)
	invGroup.Post("/movements/:id/reverse", stockRoles, inventoryHandler.ReverseMovement)
	invGroup.Get("/stock", anyRole, inventoryHandler.CurrentStock)
	invGroup.Get("/low-stock", anyRole, inventoryHandler.LowStock)
	invGroup.Post("/reconcile", adminOnly, inventoryHandler.Reconcile)
}

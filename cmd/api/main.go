package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jhoicas/pos-inventario/internal/application/inventory"
	"github.com/jhoicas/pos-inventario/internal/application/purchasing"
	"github.com/jhoicas/pos-inventario/internal/application/usecase"
	"github.com/jhoicas/pos-inventario/internal/infrastructure/storage"
	httpRouter "github.com/jhoicas/pos-inventario/internal/interfaces/http"
	"github.com/jhoicas/pos-inventario/pkg/cache"
	"github.com/jhoicas/pos-inventario/pkg/config"
	"github.com/jhoicas/pos-inventario/pkg/logger"
)

const swaggerFile = "./docs/swagger.json"

// sweepCache elimina entradas vencidas hasta que ctx se cancele.
func sweepCache(ctx context.Context, mem *cache.Memory, every time.Duration, log *logger.Logger) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := mem.DeleteExpired(); n > 0 {
				log.Debug().Int("removed", n).Msg("caché: entradas vencidas eliminadas")
			}
		}
	}
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.Log.Level,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("db_driver", cfg.DB.Driver).
		Str("stock_source", cfg.Inventory.StockSource).
		Msg("iniciando aplicación")
	if cfg.JWT.Secret == "" {
		log.Warn().Msg("JWT_SECRET vacío: todas las rutas /api responderán 401")
	}

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	st, err := storage.Open(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Str("driver", cfg.DB.Driver).Msg("conexión al almacén")
	}
	defer st.Close()

	// Caché de páginas: una sola instancia por proceso; TTL 0 la desactiva.
	var pages *cache.ReadThrough
	if cfg.Inventory.CacheTTL > 0 {
		mem := cache.NewMemory()
		pages = cache.NewReadThrough(mem, cfg.Inventory.CacheTTL)
		go sweepCache(ctx, mem, cfg.Inventory.CacheTTL, log.Component("cache"))
	}

	pageSize := cfg.Inventory.PageSize
	costEngine := purchasing.NewCostEngine(st.Purchases, st.Products, st.Variants, pageSize, pages, log)
	purchaseUC := purchasing.NewPurchaseUseCase(st.Tx, st.Purchases, st.Products, st.Vendors, pageSize, pages, log)
	productUC := usecase.NewProductUseCase(st.Products, pageSize)
	variantUC := usecase.NewVariantUseCase(st.Products, st.Variants, costEngine, pageSize, log)
	vendorUC := usecase.NewVendorUseCase(st.Vendors, pageSize)

	registerMovementUC := inventory.NewRegisterMovementUseCase(st.Tx, pageSize, log)
	historyUC := inventory.NewMovementHistoryUseCase(st.Movements, st.Variants, pageSize, pages)
	var stock inventory.StockReader = inventory.NewStockProjector(st.Movements, st.Variants, pageSize, pages, log)
	if cfg.Inventory.StockSource == config.StockSourceMaterialized {
		stock = inventory.NewMaterializedStock(st.Levels, st.Variants)
	}
	lowStockUC := inventory.NewLowStockUseCase(st.Products, st.Variants, stock, pageSize)
	reconcileUC := inventory.NewReconcileUseCase(st.Tx, st.Variants, pageSize, log)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 30,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs (solo si se generó docs/swagger.json)
	if _, err := os.Stat(swaggerFile); err == nil {
		app.Use(swagger.New(swagger.Config{
			BasePath: "/",
			FilePath: swaggerFile,
			Path:     "docs",
			Title:    "POS Inventario API",
		}))
	}

	app.Get("/health", httpRouter.Health(cfg.App.Name, st))

	httpRouter.Router(app, httpRouter.RouterDeps{
		ProductUC:        productUC,
		VariantUC:        variantUC,
		VendorUC:         vendorUC,
		PurchaseUC:       purchaseUC,
		CostEngine:       costEngine,
		RegisterMovement: registerMovementUC,
		History:          historyUC,
		Stock:            stock,
		StockSource:      cfg.Inventory.StockSource,
		LowStock:         lowStockUC,
		Reconcile:        reconcileUC,
		JWTSecret:        cfg.JWT.Secret,
		JWTIssuer:        cfg.JWT.Issuer,
		Log:              log,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")
	stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}

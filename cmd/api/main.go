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

	"github.com/nexware/stockflow-api/internal/application/inventory"
	"github.com/nexware/stockflow-api/internal/application/usecase"
	"github.com/nexware/stockflow-api/internal/infrastructure/postgres"
	httpRouter "github.com/nexware/stockflow-api/internal/interfaces/http"
	"github.com/nexware/stockflow-api/pkg/config"
	"github.com/nexware/stockflow-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	productRepo := postgres.NewProductRepository(pool)
	warehouseRepo := postgres.NewWarehouseRepository(pool)
	supplierRepo := postgres.NewSupplierRepository(pool)
	movementRepo := postgres.NewStockMovementRepository(pool)
	stockRepo := postgres.NewStockLevelRepository(pool)
	adjRepo := postgres.NewStockAdjustmentRepository(pool)
	poRepo := postgres.NewPurchaseOrderRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	recordMovementUC := inventory.NewRecordMovementUseCase(txRunner, productRepo, warehouseRepo, log)
	bulkUpdateUC := inventory.NewBulkUpdateUseCase(txRunner, productRepo, warehouseRepo, log)
	adjustmentUC := inventory.NewAdjustmentUseCase(txRunner, adjRepo, productRepo, warehouseRepo, log)
	purchaseUC := inventory.NewPurchaseOrderUseCase(txRunner, poRepo, productRepo, warehouseRepo, supplierRepo, log)
	queryUC := inventory.NewQueryUseCase(movementRepo, stockRepo, productRepo, adjRepo, poRepo)
	warehouseUC := usecase.NewWarehouseUseCase(warehouseRepo)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Stockflow API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		WarehouseUC:    warehouseUC,
		RecordMovement: recordMovementUC,
		BulkUpdate:     bulkUpdateUC,
		Query:          queryUC,
		AdjustmentUC:   adjustmentUC,
		PurchaseUC:     purchaseUC,
		JWTSecret:      cfg.JWT.Secret,
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

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}

package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/nexware/stockflow-api/internal/application/inventory"
	"github.com/nexware/stockflow-api/internal/application/usecase"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	WarehouseUC    *usecase.WarehouseUseCase
	RecordMovement *inventory.RecordMovementUseCase
	BulkUpdate     *inventory.BulkUpdateUseCase
	Query          *inventory.QueryUseCase
	AdjustmentUC   *inventory.AdjustmentUseCase
	PurchaseUC     *inventory.PurchaseOrderUseCase
	JWTSecret      string
}

// Router registra las rutas de la API. Todas las rutas del motor de inventario
// requieren Bearer Token; el scoping por empresa sale del claim company_id.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	// Warehouses
	warehouses := protected.Group("/warehouses")
	warehouseHandler := NewWarehouseHandler(deps.WarehouseUC)
	warehouses.Post("/", warehouseHandler.Create)
	warehouses.Get("/", warehouseHandler.List)
	warehouses.Get("/:id", warehouseHandler.GetByID)
	warehouses.Post("/:id/default", warehouseHandler.SetDefault)

	// Inventory: ledger de movimientos, saldos y lecturas
	invGroup := protected.Group("/inventory")
	inventoryHandler := NewInventoryHandler(deps.RecordMovement, deps.BulkUpdate, deps.Query)
	invGroup.Post("/movements", inventoryHandler.RecordMovement)
	invGroup.Post("/bulk-update", inventoryHandler.BulkUpdate)
	invGroup.Get("/balance", inventoryHandler.GetBalance)
	invGroup.Get("/products/:id/history", inventoryHandler.GetMovementHistory)
	invGroup.Get("/low-stock", inventoryHandler.ListLowStock)
	invGroup.Get("/stats", inventoryHandler.GetStats)

	// Stock adjustments (reconciliación con aprobación)
	adjustments := protected.Group("/adjustments")
	adjustmentHandler := NewAdjustmentHandler(deps.AdjustmentUC)
	adjustments.Post("/", adjustmentHandler.Create)
	adjustments.Get("/", adjustmentHandler.List)
	adjustments.Get("/:id", adjustmentHandler.GetByID)
	adjustments.Post("/:id/approve", RequireRole("admin", "bodeguero"), adjustmentHandler.Approve)

	// Purchase orders
	purchaseOrders := protected.Group("/purchase-orders")
	poHandler := NewPurchaseOrderHandler(deps.PurchaseUC)
	purchaseOrders.Post("/", poHandler.Create)
	purchaseOrders.Get("/", poHandler.List)
	purchaseOrders.Get("/:id", poHandler.GetByID)
	purchaseOrders.Post("/:id/send", poHandler.Send)
	purchaseOrders.Post("/:id/receive", poHandler.Receive)
}

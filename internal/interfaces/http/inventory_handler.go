package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/nexware/stockflow-api/internal/application/dto"
	"github.com/nexware/stockflow-api/internal/application/inventory"
)

// InventoryHandler maneja las peticiones HTTP del motor de inventario (protegido).
type InventoryHandler struct {
	record *inventory.RecordMovementUseCase
	bulk   *inventory.BulkUpdateUseCase
	query  *inventory.QueryUseCase
}

// NewInventoryHandler construye el handler.
func NewInventoryHandler(
	record *inventory.RecordMovementUseCase,
	bulk *inventory.BulkUpdateUseCase,
	query *inventory.QueryUseCase,
) *InventoryHandler {
	return &InventoryHandler{record: record, bulk: bulk, query: query}
}

// RecordMovement godoc
// @Summary      Registrar movimiento de inventario
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RecordMovementRequest  true  "product_id, warehouse_id, type, quantity, unit_cost (entradas)"
// @Success      201   {object}  dto.MovementResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/inventory/movements [post]
func (h *InventoryHandler) RecordMovement(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	userID := GetUserID(c)
	if companyID == "" || userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var in dto.RecordMovementRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if err := dto.Validate(in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	}
	movement, err := h.record.RecordMovement(c.Context(), inventory.MovementInput{
		CompanyID:         companyID,
		UserID:            userID,
		ProductID:         in.ProductID,
		WarehouseID:       in.WarehouseID,
		Type:              in.Type,
		Quantity:          in.Quantity,
		UnitCost:          in.UnitCost,
		ReferenceType:     in.ReferenceType,
		ReferenceID:       in.ReferenceID,
		ReferenceDocument: in.ReferenceDocument,
		Reason:            in.Reason,
		Notes:             in.Notes,
	})
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.ToMovementResponse(movement))
}

// BulkUpdate godoc
// @Summary      Fijar cantidades de varios productos en una bodega
// @Description  Postea un movimiento de ajuste por cada diferencia. El lote no es
//
//	atómico: los errores por ítem se devuelven junto al conteo de actualizados.
//
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.BulkUpdateRequest  true  "warehouse_id y cantidades objetivo"
// @Success      200   {object}  dto.BulkUpdateResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/inventory/bulk-update [post]
func (h *InventoryHandler) BulkUpdate(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	userID := GetUserID(c)
	if companyID == "" || userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var in dto.BulkUpdateRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if err := dto.Validate(in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	}
	items := make([]inventory.BulkUpdateItem, 0, len(in.Updates))
	for _, u := range in.Updates {
		items = append(items, inventory.BulkUpdateItem{ProductID: u.ProductID, NewQuantity: u.NewQuantity})
	}
	result, err := h.bulk.BulkUpdate(c.Context(), inventory.BulkUpdateInput{
		CompanyID:   companyID,
		UserID:      userID,
		WarehouseID: in.WarehouseID,
		Items:       items,
		Reason:      in.Reason,
		Notes:       in.Notes,
	})
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(dto.BulkUpdateResponse{
		UpdatedCount: result.UpdatedCount,
		Errors:       result.Errors,
	})
}

// GetBalance godoc
// @Summary      Saldo de un producto en una bodega
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        product_id    query  string  true  "ID del producto"
// @Param        warehouse_id  query  string  true  "ID de la bodega"
// @Success      200  {object}  dto.StockLevelResponse
// @Router       /api/inventory/balance [get]
func (h *InventoryHandler) GetBalance(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	productID := c.Query("product_id")
	warehouseID := c.Query("warehouse_id")
	if productID == "" || warehouseID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "product_id y warehouse_id son requeridos"})
	}
	level, err := h.query.GetBalance(c.Context(), companyID, productID, warehouseID)
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(dto.ToStockLevelResponse(level))
}

// GetMovementHistory godoc
// @Summary      Historial de movimientos de un producto
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        id      path   string  true   "ID del producto"
// @Param        limit   query  int     false  "Límite"  default(20)
// @Param        offset  query  int     false  "Offset"  default(0)
// @Success      200  {array}   dto.MovementResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/inventory/products/{id}/history [get]
func (h *InventoryHandler) GetMovementHistory(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	productID := c.Params("id")
	limit, offset := pageParams(c)
	movements, err := h.query.GetMovementHistory(c.Context(), companyID, productID, limit, offset)
	if err != nil {
		return respondDomainError(c, err)
	}
	items := make([]dto.MovementResponse, 0, len(movements))
	for _, m := range movements {
		items = append(items, dto.ToMovementResponse(m))
	}
	return c.JSON(fiber.Map{"total": len(items), "movements": items})
}

// ListLowStock godoc
// @Summary      Productos en o por debajo del nivel mínimo de stock
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.LowStockProductResponse
// @Router       /api/inventory/low-stock [get]
func (h *InventoryHandler) ListLowStock(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	low, err := h.query.ListLowStock(c.Context(), companyID)
	if err != nil {
		return respondDomainError(c, err)
	}
	items := make([]dto.LowStockProductResponse, 0, len(low))
	for _, p := range low {
		items = append(items, dto.LowStockProductResponse{
			ProductID:         p.Product.ID,
			SKU:               p.Product.SKU,
			Name:              p.Product.Name,
			CurrentStock:      p.CurrentStock,
			MinimumStockLevel: p.Product.MinimumStockLevel,
			ReorderPoint:      p.Product.ReorderPoint,
			ReorderQuantity:   p.Product.ReorderQuantity,
		})
	}
	return c.JSON(fiber.Map{"total": len(items), "products": items})
}

// GetStats godoc
// @Summary      Estadísticas agregadas del inventario
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.InventoryStatsResponse
// @Router       /api/inventory/stats [get]
func (h *InventoryHandler) GetStats(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	stats, err := h.query.Stats(c.Context(), companyID)
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(dto.InventoryStatsResponse{
		TotalProducts:      stats.TotalProducts,
		LowStockProducts:   stats.LowStockProducts,
		OutOfStockProducts: stats.OutOfStockProducts,
		TotalStockValue:    stats.TotalStockValue,
		PendingAdjustments: stats.PendingAdjustments,
		OpenPurchaseOrders: stats.OpenPurchaseOrders,
	})
}

// pageParams lee limit/offset del query string con los topes de siempre.
func pageParams(c *fiber.Ctx) (limit, offset int) {
	limit = c.QueryInt("limit", 20)
	offset = c.QueryInt("offset", 0)
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}

package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/nexware/stockflow-api/internal/application/dto"
	"github.com/nexware/stockflow-api/internal/application/inventory"
)

// PurchaseOrderHandler maneja las peticiones HTTP de órdenes de compra (protegido).
type PurchaseOrderHandler struct {
	uc *inventory.PurchaseOrderUseCase
}

// NewPurchaseOrderHandler construye el handler.
func NewPurchaseOrderHandler(uc *inventory.PurchaseOrderUseCase) *PurchaseOrderHandler {
	return &PurchaseOrderHandler{uc: uc}
}

// Create godoc
// @Summary      Crear orden de compra (borrador)
// @Tags         purchase-orders
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreatePurchaseOrderRequest  true  "supplier_id, warehouse_id y líneas"
// @Success      201   {object}  dto.PurchaseOrderResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/purchase-orders [post]
func (h *PurchaseOrderHandler) Create(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	userID := GetUserID(c)
	if companyID == "" || userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var in dto.CreatePurchaseOrderRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if err := dto.Validate(in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	}
	lines := make([]inventory.PurchaseOrderLineInput, 0, len(in.Lines))
	for _, l := range in.Lines {
		lines = append(lines, inventory.PurchaseOrderLineInput{
			ProductID:       l.ProductID,
			QuantityOrdered: l.QuantityOrdered,
			UnitPrice:       l.UnitPrice,
			Notes:           l.Notes,
		})
	}
	po, err := h.uc.CreatePurchaseOrder(c.Context(), inventory.CreatePurchaseOrderInput{
		CompanyID:            companyID,
		UserID:               userID,
		SupplierID:           in.SupplierID,
		WarehouseID:          in.WarehouseID,
		ExpectedDeliveryDate: in.ExpectedDeliveryDate,
		TaxAmount:            in.TaxAmount,
		Notes:                in.Notes,
		Lines:                lines,
	})
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.ToPurchaseOrderResponse(po, nil))
}

// Receive godoc
// @Summary      Recibir mercancía contra una orden de compra
// @Description  Recepción parcial o total. La sobre-recepción por línea responde
//
//	error por ítem; el lote no es atómico y los errores se recolectan.
//
// @Tags         purchase-orders
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID de la orden"
// @Param        body  body  dto.ReceivePurchaseOrderRequest  true  "Ítems recibidos"
// @Success      200   {object}  dto.ReceiveResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/purchase-orders/{id}/receive [post]
func (h *PurchaseOrderHandler) Receive(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	userID := GetUserID(c)
	if companyID == "" || userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var in dto.ReceivePurchaseOrderRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if err := dto.Validate(in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	}
	items := make([]inventory.ReceiveItem, 0, len(in.Items))
	for _, it := range in.Items {
		items = append(items, inventory.ReceiveItem{ProductID: it.ProductID, Quantity: it.Quantity})
	}
	result, err := h.uc.ReceivePurchaseOrder(c.Context(), inventory.ReceiveInput{
		CompanyID:       companyID,
		UserID:          userID,
		PurchaseOrderID: c.Params("id"),
		Items:           items,
		Notes:           in.Notes,
	})
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(dto.ReceiveResponse{
		ReceivedCount: result.ReceivedCount,
		Errors:        result.Errors,
		Status:        result.Status,
	})
}

// Send godoc
// @Summary      Marcar la orden como enviada al proveedor
// @Tags         purchase-orders
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID de la orden"
// @Success      200  {object}  map[string]string
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/purchase-orders/{id}/send [post]
func (h *PurchaseOrderHandler) Send(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	if err := h.uc.MarkSent(c.Context(), companyID, c.Params("id")); err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(fiber.Map{"message": "orden enviada"})
}

// List godoc
// @Summary      Listar órdenes de compra de la empresa
// @Tags         purchase-orders
// @Security     Bearer
// @Produce      json
// @Param        limit   query  int  false  "Límite"  default(20)
// @Param        offset  query  int  false  "Offset"  default(0)
// @Success      200  {array}  dto.PurchaseOrderResponse
// @Router       /api/purchase-orders [get]
func (h *PurchaseOrderHandler) List(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	limit, offset := pageParams(c)
	orders, err := h.uc.ListPurchaseOrders(c.Context(), companyID, limit, offset)
	if err != nil {
		return respondDomainError(c, err)
	}
	items := make([]dto.PurchaseOrderResponse, 0, len(orders))
	for _, po := range orders {
		items = append(items, dto.ToPurchaseOrderResponse(po, nil))
	}
	return c.JSON(fiber.Map{"total": len(items), "purchase_orders": items})
}

// GetByID godoc
// @Summary      Obtener orden de compra por ID con sus líneas
// @Tags         purchase-orders
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID de la orden"
// @Success      200  {object}  dto.PurchaseOrderResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/purchase-orders/{id} [get]
func (h *PurchaseOrderHandler) GetByID(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	po, lines, err := h.uc.GetPurchaseOrder(c.Context(), companyID, c.Params("id"))
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(dto.ToPurchaseOrderResponse(po, lines))
}

package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/nexware/stockflow-api/internal/application/dto"
	"github.com/nexware/stockflow-api/internal/application/inventory"
)

// AdjustmentHandler maneja las peticiones HTTP de ajustes de stock (protegido).
type AdjustmentHandler struct {
	uc *inventory.AdjustmentUseCase
}

// NewAdjustmentHandler construye el handler.
func NewAdjustmentHandler(uc *inventory.AdjustmentUseCase) *AdjustmentHandler {
	return &AdjustmentHandler{uc: uc}
}

// Create godoc
// @Summary      Crear ajuste de stock (pendiente de aprobación)
// @Tags         adjustments
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateAdjustmentRequest  true  "warehouse_id, tipo, motivo y líneas de conteo"
// @Success      201   {object}  dto.AdjustmentResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/adjustments [post]
func (h *AdjustmentHandler) Create(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	userID := GetUserID(c)
	if companyID == "" || userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var in dto.CreateAdjustmentRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if err := dto.Validate(in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	}
	lines := make([]inventory.AdjustmentLineInput, 0, len(in.Lines))
	for _, l := range in.Lines {
		lines = append(lines, inventory.AdjustmentLineInput{
			ProductID:        l.ProductID,
			ExpectedQuantity: l.ExpectedQuantity,
			ActualQuantity:   l.ActualQuantity,
			UnitCost:         l.UnitCost,
			Notes:            l.Notes,
		})
	}
	adjustment, err := h.uc.CreateAdjustment(c.Context(), inventory.CreateAdjustmentInput{
		CompanyID:      companyID,
		UserID:         userID,
		WarehouseID:    in.WarehouseID,
		AdjustmentType: in.AdjustmentType,
		Reason:         in.Reason,
		Notes:          in.Notes,
		Lines:          lines,
	})
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.ToAdjustmentResponse(adjustment, nil))
}

// Approve godoc
// @Summary      Aprobar un ajuste y postear sus diferencias al ledger
// @Description  Operación de una sola vía: la segunda aprobación responde 409.
// @Tags         adjustments
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID del ajuste"
// @Success      200  {object}  map[string]string
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/adjustments/{id}/approve [post]
func (h *AdjustmentHandler) Approve(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	userID := GetUserID(c)
	if companyID == "" || userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	id := c.Params("id")
	if err := h.uc.ApproveAdjustment(c.Context(), companyID, id, userID); err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(fiber.Map{"message": "ajuste aprobado"})
}

// GetByID godoc
// @Summary      Obtener ajuste por ID con sus líneas
// @Tags         adjustments
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID del ajuste"
// @Success      200  {object}  dto.AdjustmentResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/adjustments/{id} [get]
func (h *AdjustmentHandler) GetByID(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	adjustment, lines, err := h.uc.GetAdjustment(c.Context(), companyID, c.Params("id"))
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(dto.ToAdjustmentResponse(adjustment, lines))
}

// List godoc
// @Summary      Listar ajustes de la empresa
// @Tags         adjustments
// @Security     Bearer
// @Produce      json
// @Param        limit   query  int  false  "Límite"  default(20)
// @Param        offset  query  int  false  "Offset"  default(0)
// @Success      200  {array}  dto.AdjustmentResponse
// @Router       /api/adjustments [get]
func (h *AdjustmentHandler) List(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	limit, offset := pageParams(c)
	adjustments, err := h.uc.ListAdjustments(c.Context(), companyID, limit, offset)
	if err != nil {
		return respondDomainError(c, err)
	}
	items := make([]dto.AdjustmentResponse, 0, len(adjustments))
	for _, a := range adjustments {
		items = append(items, dto.ToAdjustmentResponse(a, nil))
	}
	return c.JSON(fiber.Map{"total": len(items), "adjustments": items})
}

package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/nexware/stockflow-api/internal/domain/entity"
)

// AdjustmentLineRequest una línea de conteo del ajuste.
type AdjustmentLineRequest struct {
	ProductID        string           `json:"product_id" validate:"required"`
	ExpectedQuantity int64            `json:"expected_quantity" validate:"min=0"`
	ActualQuantity   int64            `json:"actual_quantity" validate:"min=0"`
	UnitCost         *decimal.Decimal `json:"unit_cost,omitempty"`
	Notes            string           `json:"notes,omitempty"`
}

// CreateAdjustmentRequest body para POST /api/adjustments.
type CreateAdjustmentRequest struct {
	WarehouseID    string                  `json:"warehouse_id" validate:"required,uuid4"`
	AdjustmentType string                  `json:"adjustment_type" validate:"required,oneof=increase decrease recount"`
	Reason         string                  `json:"reason" validate:"required,oneof=damaged expired theft found recount system_error other"`
	Notes          string                  `json:"notes,omitempty"`
	Lines          []AdjustmentLineRequest `json:"lines" validate:"required,min=1,dive"`
}

// AdjustmentLineResponse una línea del ajuste en respuestas.
type AdjustmentLineResponse struct {
	ProductID        string           `json:"product_id"`
	ExpectedQuantity int64            `json:"expected_quantity"`
	ActualQuantity   int64            `json:"actual_quantity"`
	Difference       int64            `json:"difference"`
	UnitCost         *decimal.Decimal `json:"unit_cost,omitempty"`
	Notes            string           `json:"notes,omitempty"`
}

// AdjustmentResponse cabecera del ajuste en respuestas.
type AdjustmentResponse struct {
	ID               string                   `json:"id"`
	AdjustmentNumber string                   `json:"adjustment_number"`
	AdjustmentDate   time.Time                `json:"adjustment_date"`
	AdjustmentType   string                   `json:"adjustment_type"`
	Reason           string                   `json:"reason"`
	WarehouseID      string                   `json:"warehouse_id"`
	Notes            string                   `json:"notes,omitempty"`
	TotalItems       int                      `json:"total_items"`
	ApprovedBy       *string                  `json:"approved_by,omitempty"`
	ApprovedAt       *time.Time               `json:"approved_at,omitempty"`
	Lines            []AdjustmentLineResponse `json:"lines,omitempty"`
	CreatedAt        time.Time                `json:"created_at"`
}

// ToAdjustmentResponse mapea cabecera y líneas al DTO de respuesta.
func ToAdjustmentResponse(a *entity.StockAdjustment, lines []*entity.StockAdjustmentLine) AdjustmentResponse {
	resp := AdjustmentResponse{
		ID:               a.ID,
		AdjustmentNumber: a.AdjustmentNumber,
		AdjustmentDate:   a.AdjustmentDate,
		AdjustmentType:   a.AdjustmentType,
		Reason:           a.Reason,
		WarehouseID:      a.WarehouseID,
		Notes:            a.Notes,
		TotalItems:       a.TotalItems,
		ApprovedBy:       a.ApprovedBy,
		ApprovedAt:       a.ApprovedAt,
		CreatedAt:        a.CreatedAt,
	}
	for _, line := range lines {
		resp.Lines = append(resp.Lines, AdjustmentLineResponse{
			ProductID:        line.ProductID,
			ExpectedQuantity: line.ExpectedQuantity,
			ActualQuantity:   line.ActualQuantity,
			Difference:       line.Difference,
			UnitCost:         line.UnitCost,
			Notes:            line.Notes,
		})
	}
	return resp
}

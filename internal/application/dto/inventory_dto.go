package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/nexware/stockflow-api/internal/domain/entity"
)

// RecordMovementRequest body para POST /api/inventory/movements.
type RecordMovementRequest struct {
	ProductID         string           `json:"product_id" validate:"required,uuid4"`
	WarehouseID       string           `json:"warehouse_id" validate:"required,uuid4"`
	Type              string           `json:"type" validate:"required,oneof=in out transfer adjustment return damaged expired"`
	Quantity          int64            `json:"quantity" validate:"required"`
	UnitCost          *decimal.Decimal `json:"unit_cost,omitempty"`
	ReferenceType     string           `json:"reference_type,omitempty" validate:"omitempty,oneof=purchase_order sales_order transfer_order adjustment return manual"`
	ReferenceID       string           `json:"reference_id,omitempty"`
	ReferenceDocument string           `json:"reference_document,omitempty"`
	Reason            string           `json:"reason,omitempty" validate:"omitempty,max=255"`
	Notes             string           `json:"notes,omitempty"`
}

// MovementResponse un movimiento del ledger en respuestas.
type MovementResponse struct {
	ID                 string           `json:"id"`
	ProductID          string           `json:"product_id"`
	WarehouseID        string           `json:"warehouse_id"`
	Type               string           `json:"type"`
	Quantity           int64            `json:"quantity"`
	UnitCost           *decimal.Decimal `json:"unit_cost,omitempty"`
	ReferenceType      string           `json:"reference_type"`
	ReferenceID        string           `json:"reference_id,omitempty"`
	Reason             string           `json:"reason,omitempty"`
	Notes              string           `json:"notes,omitempty"`
	StockAfterMovement int64            `json:"stock_after_movement"`
	CreatedAt          time.Time        `json:"created_at"`
	CreatedBy          string           `json:"created_by"`
}

// ToMovementResponse mapea la entidad del ledger a su DTO.
func ToMovementResponse(m *entity.StockMovement) MovementResponse {
	return MovementResponse{
		ID:                 m.ID,
		ProductID:          m.ProductID,
		WarehouseID:        m.WarehouseID,
		Type:               m.Type,
		Quantity:           m.Quantity,
		UnitCost:           m.UnitCost,
		ReferenceType:      m.ReferenceType,
		ReferenceID:        m.ReferenceID,
		Reason:             m.Reason,
		Notes:              m.Notes,
		StockAfterMovement: m.StockAfterMovement,
		CreatedAt:          m.CreatedAt,
		CreatedBy:          m.CreatedBy,
	}
}

// BulkUpdateItemRequest un ítem del bulk update.
type BulkUpdateItemRequest struct {
	ProductID   string `json:"product_id" validate:"required"`
	NewQuantity int64  `json:"new_quantity" validate:"min=0"`
}

// BulkUpdateRequest body para POST /api/inventory/bulk-update.
type BulkUpdateRequest struct {
	WarehouseID string                  `json:"warehouse_id" validate:"required,uuid4"`
	Updates     []BulkUpdateItemRequest `json:"updates" validate:"required,min=1,dive"`
	Reason      string                  `json:"reason,omitempty" validate:"omitempty,max=255"`
	Notes       string                  `json:"notes,omitempty"`
}

// BulkUpdateResponse resultado del bulk update (éxito parcial posible).
type BulkUpdateResponse struct {
	UpdatedCount int      `json:"updated_count"`
	Errors       []string `json:"errors"`
}

// StockLevelResponse el saldo de un producto en una bodega.
type StockLevelResponse struct {
	ProductID         string    `json:"product_id"`
	WarehouseID       string    `json:"warehouse_id"`
	QuantityOnHand    int64     `json:"quantity_on_hand"`
	QuantityReserved  int64     `json:"quantity_reserved"`
	QuantityOnOrder   int64     `json:"quantity_on_order"`
	AvailableQuantity int64     `json:"available_quantity"`
	Location          string    `json:"location,omitempty"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// ToStockLevelResponse mapea la proyección de stock a su DTO.
func ToStockLevelResponse(s *entity.StockLevel) StockLevelResponse {
	return StockLevelResponse{
		ProductID:         s.ProductID,
		WarehouseID:       s.WarehouseID,
		QuantityOnHand:    s.QuantityOnHand,
		QuantityReserved:  s.QuantityReserved,
		QuantityOnOrder:   s.QuantityOnOrder,
		AvailableQuantity: s.AvailableQuantity(),
		Location:          s.Location,
		UpdatedAt:         s.UpdatedAt,
	}
}

// LowStockProductResponse producto por debajo del nivel mínimo.
type LowStockProductResponse struct {
	ProductID         string `json:"product_id"`
	SKU               string `json:"sku"`
	Name              string `json:"name"`
	CurrentStock      int64  `json:"current_stock"`
	MinimumStockLevel int64  `json:"minimum_stock_level"`
	ReorderPoint      int64  `json:"reorder_point"`
	ReorderQuantity   int64  `json:"reorder_quantity"`
}

// InventoryStatsResponse estadísticas agregadas del inventario.
type InventoryStatsResponse struct {
	TotalProducts      int             `json:"total_products"`
	LowStockProducts   int             `json:"low_stock_products"`
	OutOfStockProducts int             `json:"out_of_stock_products"`
	TotalStockValue    decimal.Decimal `json:"total_stock_value"`
	PendingAdjustments int             `json:"pending_adjustments"`
	OpenPurchaseOrders int             `json:"open_purchase_orders"`
}

package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/nexware/stockflow-api/internal/domain/entity"
)

// PurchaseOrderLineRequest línea de una orden de compra nueva.
type PurchaseOrderLineRequest struct {
	ProductID       string          `json:"product_id" validate:"required"`
	QuantityOrdered int64           `json:"quantity_ordered" validate:"min=1"`
	UnitPrice       decimal.Decimal `json:"unit_price"`
	Notes           string          `json:"notes,omitempty"`
}

// CreatePurchaseOrderRequest body para POST /api/purchase-orders.
type CreatePurchaseOrderRequest struct {
	SupplierID           string                     `json:"supplier_id" validate:"required,uuid4"`
	WarehouseID          string                     `json:"warehouse_id" validate:"required,uuid4"`
	ExpectedDeliveryDate *time.Time                 `json:"expected_delivery_date,omitempty"`
	TaxAmount            decimal.Decimal            `json:"tax_amount"`
	Notes                string                     `json:"notes,omitempty"`
	Lines                []PurchaseOrderLineRequest `json:"lines" validate:"required,min=1,dive"`
}

// ReceiveItemRequest un ítem recibido contra la orden.
type ReceiveItemRequest struct {
	ProductID string `json:"product_id" validate:"required"`
	Quantity  int64  `json:"quantity" validate:"min=1"`
}

// ReceivePurchaseOrderRequest body para POST /api/purchase-orders/:id/receive.
type ReceivePurchaseOrderRequest struct {
	Items []ReceiveItemRequest `json:"items" validate:"required,min=1,dive"`
	Notes string               `json:"notes,omitempty"`
}

// ReceiveResponse resultado de la recepción (éxito parcial posible).
type ReceiveResponse struct {
	ReceivedCount int      `json:"received_count"`
	Errors        []string `json:"errors"`
	Status        string   `json:"status"`
}

// PurchaseOrderLineResponse línea de la orden en respuestas.
type PurchaseOrderLineResponse struct {
	ProductID        string          `json:"product_id"`
	QuantityOrdered  int64           `json:"quantity_ordered"`
	QuantityReceived int64           `json:"quantity_received"`
	QuantityPending  int64           `json:"quantity_pending"`
	UnitPrice        decimal.Decimal `json:"unit_price"`
	LineTotal        decimal.Decimal `json:"line_total"`
	Notes            string          `json:"notes,omitempty"`
}

// PurchaseOrderResponse cabecera de la orden en respuestas.
type PurchaseOrderResponse struct {
	ID                   string                      `json:"id"`
	PONumber             string                      `json:"po_number"`
	SupplierID           string                      `json:"supplier_id"`
	WarehouseID          string                      `json:"warehouse_id"`
	OrderDate            time.Time                   `json:"order_date"`
	ExpectedDeliveryDate *time.Time                  `json:"expected_delivery_date,omitempty"`
	ActualDeliveryDate   *time.Time                  `json:"actual_delivery_date,omitempty"`
	Status               string                      `json:"status"`
	Subtotal             decimal.Decimal             `json:"subtotal"`
	TaxAmount            decimal.Decimal             `json:"tax_amount"`
	TotalAmount          decimal.Decimal             `json:"total_amount"`
	Notes                string                      `json:"notes,omitempty"`
	Lines                []PurchaseOrderLineResponse `json:"lines,omitempty"`
	CreatedAt            time.Time                   `json:"created_at"`
}

// ToPurchaseOrderResponse mapea cabecera y líneas al DTO de respuesta.
func ToPurchaseOrderResponse(po *entity.PurchaseOrder, lines []*entity.PurchaseOrderLine) PurchaseOrderResponse {
	resp := PurchaseOrderResponse{
		ID:                   po.ID,
		PONumber:             po.PONumber,
		SupplierID:           po.SupplierID,
		WarehouseID:          po.WarehouseID,
		OrderDate:            po.OrderDate,
		ExpectedDeliveryDate: po.ExpectedDeliveryDate,
		ActualDeliveryDate:   po.ActualDeliveryDate,
		Status:               po.Status,
		Subtotal:             po.Subtotal,
		TaxAmount:            po.TaxAmount,
		TotalAmount:          po.TotalAmount,
		Notes:                po.Notes,
		CreatedAt:            po.CreatedAt,
	}
	for _, line := range lines {
		resp.Lines = append(resp.Lines, PurchaseOrderLineResponse{
			ProductID:        line.ProductID,
			QuantityOrdered:  line.QuantityOrdered,
			QuantityReceived: line.QuantityReceived,
			QuantityPending:  line.QuantityPending(),
			UnitPrice:        line.UnitPrice,
			LineTotal:        line.LineTotal,
			Notes:            line.Notes,
		})
	}
	return resp
}

package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de la orden de compra. partially_received y received se derivan
// del estado de las líneas al recibir mercancía; no se fijan de forma directa.
const (
	POStatusDraft             = "draft"
	POStatusSent              = "sent"
	POStatusConfirmed         = "confirmed"
	POStatusPartiallyReceived = "partially_received"
	POStatusReceived          = "received"
	POStatusCancelled         = "cancelled"
)

// PurchaseOrder es la cabecera de una orden de compra a un proveedor.
type PurchaseOrder struct {
	ID                   string
	CompanyID            string
	PONumber             string // PO-YYYYMMDD-NNNN, secuencia por empresa y día
	SupplierID           string
	WarehouseID          string
	OrderDate            time.Time
	ExpectedDeliveryDate *time.Time
	ActualDeliveryDate   *time.Time
	Status               string
	Subtotal             decimal.Decimal
	TaxAmount            decimal.Decimal
	TotalAmount          decimal.Decimal
	Notes                string
	CreatedAt            time.Time
	CreatedBy            string
}

// CanReceive indica si la orden admite recepciones de mercancía.
func (po *PurchaseOrder) CanReceive() bool {
	switch po.Status {
	case POStatusSent, POStatusConfirmed, POStatusPartiallyReceived:
		return true
	}
	return false
}

// PurchaseOrderLine es el detalle por producto de una orden de compra.
// QuantityReceived solo puede crecer y nunca superar QuantityOrdered.
type PurchaseOrderLine struct {
	ID               string
	PurchaseOrderID  string
	ProductID        string
	QuantityOrdered  int64
	QuantityReceived int64
	UnitPrice        decimal.Decimal
	LineTotal        decimal.Decimal // ordered * unit_price; recalculada en cada guardado
	Notes            string
}

// QuantityPending devuelve la cantidad pendiente por recibir (piso 0).
func (l *PurchaseOrderLine) QuantityPending() int64 {
	if l.QuantityReceived >= l.QuantityOrdered {
		return 0
	}
	return l.QuantityOrdered - l.QuantityReceived
}

// IsFullyReceived indica si la línea está completamente recibida.
func (l *PurchaseOrderLine) IsFullyReceived() bool {
	return l.QuantityReceived >= l.QuantityOrdered
}

// RecomputeLineTotal recalcula LineTotal = QuantityOrdered * UnitPrice.
// Paso explícito del camino de escritura, igual que StockAdjustmentLine.RecomputeDifference.
func (l *PurchaseOrderLine) RecomputeLineTotal() {
	l.LineTotal = decimal.NewFromInt(l.QuantityOrdered).Mul(l.UnitPrice)
}

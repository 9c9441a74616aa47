package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de movimiento de inventario.
const (
	MovementTypeIn         = "in"         // entrada
	MovementTypeOut        = "out"        // salida
	MovementTypeTransfer   = "transfer"   // traslado entre bodegas
	MovementTypeAdjustment = "adjustment" // ajuste
	MovementTypeReturn     = "return"     // devolución
	MovementTypeDamaged    = "damaged"    // dañado
	MovementTypeExpired    = "expired"    // vencido
)

// Tipos de referencia: documento causal del movimiento.
const (
	ReferencePurchaseOrder = "purchase_order"
	ReferenceSalesOrder    = "sales_order"
	ReferenceTransferOrder = "transfer_order"
	ReferenceAdjustment    = "adjustment"
	ReferenceReturn        = "return"
	ReferenceManual        = "manual"
)

// StockMovement es una entrada del ledger de inventario: inmutable una vez creada.
// Cada cambio de cantidad en StockLevel es consecuencia de exactamente un movimiento.
// StockAfterMovement es el saldo en mano resultante al momento del commit (snapshot,
// no se recalcula después).
type StockMovement struct {
	ID                 string
	CompanyID          string
	ProductID          string
	WarehouseID        string
	Type               string
	Quantity           int64 // delta con signo; negativo en salidas
	UnitCost           *decimal.Decimal
	ReferenceType      string
	ReferenceID        string
	ReferenceDocument  string
	Reason             string
	Notes              string
	StockAfterMovement int64
	CreatedAt          time.Time
	CreatedBy          string // UserID
}

// IsValidMovementType valida el tipo de movimiento.
func IsValidMovementType(t string) bool {
	switch t {
	case MovementTypeIn, MovementTypeOut, MovementTypeTransfer, MovementTypeAdjustment,
		MovementTypeReturn, MovementTypeDamaged, MovementTypeExpired:
		return true
	}
	return false
}

// IsValidReferenceType valida el tipo de referencia.
func IsValidReferenceType(t string) bool {
	switch t {
	case ReferencePurchaseOrder, ReferenceSalesOrder, ReferenceTransferOrder,
		ReferenceAdjustment, ReferenceReturn, ReferenceManual:
		return true
	}
	return false
}

// IsInbound indica si el tipo suma al stock (in, return); el resto resta con piso en 0.
func IsInbound(movementType string) bool {
	return movementType == MovementTypeIn || movementType == MovementTypeReturn
}

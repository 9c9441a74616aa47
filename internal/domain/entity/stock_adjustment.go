package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de ajuste de inventario.
const (
	AdjustmentTypeIncrease = "increase"
	AdjustmentTypeDecrease = "decrease"
	AdjustmentTypeRecount  = "recount" // conteo físico
)

// Motivos de ajuste.
const (
	AdjustmentReasonDamaged     = "damaged"
	AdjustmentReasonExpired     = "expired"
	AdjustmentReasonTheft       = "theft"
	AdjustmentReasonFound       = "found"
	AdjustmentReasonRecount     = "recount"
	AdjustmentReasonSystemError = "system_error"
	AdjustmentReasonOther       = "other"
)

// StockAdjustment es la cabecera de una reconciliación de inventario
// (esperado vs. contado). Pendiente mientras ApprovedBy es nil; al aprobarse
// postea un movimiento por cada línea con diferencia y queda inmutable.
type StockAdjustment struct {
	ID               string
	CompanyID        string
	AdjustmentNumber string // ADJ-YYYYMMDD-NNNN, secuencia por empresa y día
	AdjustmentDate   time.Time
	AdjustmentType   string
	Reason           string
	WarehouseID      string
	Notes            string
	TotalItems       int
	ApprovedBy       *string
	ApprovedAt       *time.Time
	CreatedAt        time.Time
	CreatedBy        string
}

// IsApproved indica si el ajuste ya fue aprobado (y por tanto ya posteado).
func (a *StockAdjustment) IsApproved() bool {
	return a.ApprovedBy != nil
}

// StockAdjustmentLine es el detalle por producto de un ajuste.
// Única por (AdjustmentID, ProductID).
type StockAdjustmentLine struct {
	ID               string
	AdjustmentID     string
	ProductID        string
	ExpectedQuantity int64
	ActualQuantity   int64
	Difference       int64 // actual - esperado; recalculada en cada guardado
	UnitCost         *decimal.Decimal
	Notes            string
}

// RecomputeDifference recalcula Difference = ActualQuantity - ExpectedQuantity.
// Debe invocarse explícitamente en el camino de escritura (no hay hooks de persistencia).
func (l *StockAdjustmentLine) RecomputeDifference() {
	l.Difference = l.ActualQuantity - l.ExpectedQuantity
}

// IsValidAdjustmentType valida el tipo de ajuste.
func IsValidAdjustmentType(t string) bool {
	switch t {
	case AdjustmentTypeIncrease, AdjustmentTypeDecrease, AdjustmentTypeRecount:
		return true
	}
	return false
}

// IsValidAdjustmentReason valida el motivo de ajuste.
func IsValidAdjustmentReason(r string) bool {
	switch r {
	case AdjustmentReasonDamaged, AdjustmentReasonExpired, AdjustmentReasonTheft,
		AdjustmentReasonFound, AdjustmentReasonRecount, AdjustmentReasonSystemError,
		AdjustmentReasonOther:
		return true
	}
	return false
}

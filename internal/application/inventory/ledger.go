package inventory

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/nexware/stockflow-api/internal/domain/entity"
	"github.com/nexware/stockflow-api/internal/domain/repository"
)

// ledgerEntry describe un asiento a postear: el movimiento con su saldo
// resultante ya decidido por el caller. RecordMovement calcula el saldo con la
// regla de recorte; los ajustes aprobados y el bulk update lo fijan directamente
// porque la cantidad objetivo es la fuente de verdad.
type ledgerEntry struct {
	CompanyID         string
	ProductID         string
	WarehouseID       string
	Type              string
	Quantity          int64 // delta con signo, tal como lo reporta el caller
	UnitCost          *decimal.Decimal
	ReferenceType     string
	ReferenceID       string
	ReferenceDocument string
	Reason            string
	Notes             string
	StockAfter        int64
	CreatedBy         string
}

// postLedgerEntry inserta el movimiento y actualiza la proyección de stock
// dentro de la transacción del caller. La fila de stock debe venir ya bloqueada
// (GetForUpdate) por el caller.
func postLedgerEntry(
	movRepo repository.StockMovementRepository,
	stockRepo repository.StockLevelRepository,
	level *entity.StockLevel,
	e ledgerEntry,
	now time.Time,
) (*entity.StockMovement, error) {
	mov := &entity.StockMovement{
		ID:                 uuid.New().String(),
		CompanyID:          e.CompanyID,
		ProductID:          e.ProductID,
		WarehouseID:        e.WarehouseID,
		Type:               e.Type,
		Quantity:           e.Quantity,
		UnitCost:           e.UnitCost,
		ReferenceType:      e.ReferenceType,
		ReferenceID:        e.ReferenceID,
		ReferenceDocument:  e.ReferenceDocument,
		Reason:             e.Reason,
		Notes:              e.Notes,
		StockAfterMovement: e.StockAfter,
		CreatedAt:          now,
		CreatedBy:          e.CreatedBy,
	}
	if err := movRepo.Create(mov); err != nil {
		return nil, err
	}
	level.QuantityOnHand = e.StockAfter
	level.UpdatedAt = now
	if err := stockRepo.Upsert(level); err != nil {
		return nil, err
	}
	return mov, nil
}

// clampedQuantity aplica la regla de saldo del ledger: in/return suman |q|,
// el resto resta |q| con piso en 0 (el faltante se descarta, no es error).
func clampedQuantity(onHand int64, movementType string, quantity int64) (newQty int64, clamped bool) {
	q := quantity
	if q < 0 {
		q = -q
	}
	if entity.IsInbound(movementType) {
		return onHand + q, false
	}
	if onHand < q {
		return 0, true
	}
	return onHand - q, false
}

// formatDocumentNumber arma el número de documento {PREFIX}-{YYYYMMDD}-{NNNN}.
func formatDocumentNumber(prefix string, date time.Time, counter int64) string {
	return fmt.Sprintf("%s-%s-%04d", prefix, date.Format("20060102"), counter)
}

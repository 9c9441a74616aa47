package inventory

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/nexware/stockflow-api/internal/domain"
	"github.com/nexware/stockflow-api/internal/domain/entity"
	"github.com/nexware/stockflow-api/internal/domain/repository"
	"github.com/nexware/stockflow-api/pkg/logger"
)

// RecordMovementUseCase registra movimientos de inventario de forma transaccional:
// bloqueo de fila en stock_levels (SELECT FOR UPDATE), inserción en el ledger y
// actualización de la proyección con Commit/Rollback conjunto.
type RecordMovementUseCase struct {
	txRunner      TxRunner
	productRepo   repository.ProductRepository
	warehouseRepo repository.WarehouseRepository
	log           *logger.Logger
}

// NewRecordMovementUseCase construye el caso de uso.
func NewRecordMovementUseCase(
	txRunner TxRunner,
	productRepo repository.ProductRepository,
	warehouseRepo repository.WarehouseRepository,
	log *logger.Logger,
) *RecordMovementUseCase {
	return &RecordMovementUseCase{
		txRunner:      txRunner,
		productRepo:   productRepo,
		warehouseRepo: warehouseRepo,
		log:           log,
	}
}

// MovementInput entrada para registrar un movimiento de inventario.
type MovementInput struct {
	CompanyID         string
	UserID            string
	ProductID         string
	WarehouseID       string
	Type              string
	Quantity          int64 // con signo; el saldo usa |Quantity| según el tipo
	UnitCost          *decimal.Decimal
	ReferenceType     string // vacío = manual
	ReferenceID       string
	ReferenceDocument string
	Reason            string
	Notes             string
}

// RecordMovement valida producto/bodega contra la empresa del caller, inicia una
// transacción, bloquea (o crea perezosamente) la fila de stock y postea el asiento.
// La cantidad resultante nunca baja de 0: las salidas que excedan el stock en mano
// se recortan a 0 y el faltante descartado se registra en el log.
func (uc *RecordMovementUseCase) RecordMovement(ctx context.Context, input MovementInput) (*entity.StockMovement, error) {
	if input.ReferenceType == "" {
		input.ReferenceType = entity.ReferenceManual
	}
	if !entity.IsValidMovementType(input.Type) || !entity.IsValidReferenceType(input.ReferenceType) {
		return nil, domain.ErrInvalidInput
	}
	// Un movimiento de delta cero es un no-op: se rechaza, distinto de NotFound.
	if input.Quantity == 0 {
		return nil, domain.ErrInvalidInput
	}
	if err := uc.resolveScope(input.CompanyID, input.ProductID, input.WarehouseID); err != nil {
		return nil, err
	}

	now := time.Now()
	var created *entity.StockMovement
	err := uc.txRunner.Run(ctx, func(
		movRepo repository.StockMovementRepository,
		stockRepo repository.StockLevelRepository,
	) error {
		level, err := stockRepo.GetForUpdate(input.CompanyID, input.ProductID, input.WarehouseID)
		if err != nil {
			return err
		}
		newQty, clamped := clampedQuantity(level.QuantityOnHand, input.Type, input.Quantity)
		if clamped {
			uc.log.Warn().
				Str("product_id", input.ProductID).
				Str("warehouse_id", input.WarehouseID).
				Str("type", input.Type).
				Int64("on_hand", level.QuantityOnHand).
				Int64("quantity", input.Quantity).
				Msg("movimiento recortado a stock 0; faltante descartado")
		}
		created, err = postLedgerEntry(movRepo, stockRepo, level, ledgerEntry{
			CompanyID:         input.CompanyID,
			ProductID:         input.ProductID,
			WarehouseID:       input.WarehouseID,
			Type:              input.Type,
			Quantity:          input.Quantity,
			UnitCost:          input.UnitCost,
			ReferenceType:     input.ReferenceType,
			ReferenceID:       input.ReferenceID,
			ReferenceDocument: input.ReferenceDocument,
			Reason:            input.Reason,
			Notes:             input.Notes,
			StockAfter:        newQty,
			CreatedBy:         input.UserID,
		}, now)
		return err
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// resolveScope verifica que producto y bodega existan y pertenezcan a la empresa
// del caller. Fuera de la empresa se responde NotFound, nunca se filtra existencia.
func (uc *RecordMovementUseCase) resolveScope(companyID, productID, warehouseID string) error {
	product, err := uc.productRepo.GetByID(productID)
	if err != nil {
		return err
	}
	if product == nil || product.CompanyID != companyID {
		return domain.ErrNotFound
	}
	warehouse, err := uc.warehouseRepo.GetByID(warehouseID)
	if err != nil {
		return err
	}
	if warehouse == nil || warehouse.CompanyID != companyID {
		return domain.ErrNotFound
	}
	return nil
}

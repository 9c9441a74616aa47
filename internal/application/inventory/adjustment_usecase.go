package inventory

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/nexware/stockflow-api/internal/domain"
	"github.com/nexware/stockflow-api/internal/domain/entity"
	"github.com/nexware/stockflow-api/internal/domain/repository"
	"github.com/nexware/stockflow-api/pkg/logger"
)

// Prefijos de numeración de documentos.
const (
	adjustmentPrefix    = "ADJ"
	purchaseOrderPrefix = "PO"
)

// AdjustmentUseCase maneja el flujo de reconciliación: crear el ajuste
// (esperado vs. contado) y aprobarlo, posteando al ledger las diferencias.
// Estados: pendiente (approved_by nulo) → aprobado (terminal). No existe "rechazado".
type AdjustmentUseCase struct {
	txRunner      TxRunner
	adjRepo       repository.StockAdjustmentRepository
	productRepo   repository.ProductRepository
	warehouseRepo repository.WarehouseRepository
	log           *logger.Logger
}

// NewAdjustmentUseCase construye el caso de uso.
func NewAdjustmentUseCase(
	txRunner TxRunner,
	adjRepo repository.StockAdjustmentRepository,
	productRepo repository.ProductRepository,
	warehouseRepo repository.WarehouseRepository,
	log *logger.Logger,
) *AdjustmentUseCase {
	return &AdjustmentUseCase{
		txRunner:      txRunner,
		adjRepo:       adjRepo,
		productRepo:   productRepo,
		warehouseRepo: warehouseRepo,
		log:           log,
	}
}

// AdjustmentLineInput una línea de conteo por producto.
type AdjustmentLineInput struct {
	ProductID        string
	ExpectedQuantity int64
	ActualQuantity   int64
	UnitCost         *decimal.Decimal
	Notes            string
}

// CreateAdjustmentInput entrada para crear un ajuste pendiente.
type CreateAdjustmentInput struct {
	CompanyID      string
	UserID         string
	WarehouseID    string
	AdjustmentType string
	Reason         string
	Notes          string
	Lines          []AdjustmentLineInput
}

// CreateAdjustment valida bodega y productos contra la empresa, genera el número
// ADJ-YYYYMMDD-NNNN con la secuencia atómica por empresa/día y persiste cabecera
// y líneas (Difference recalculada) en una sola transacción.
func (uc *AdjustmentUseCase) CreateAdjustment(ctx context.Context, input CreateAdjustmentInput) (*entity.StockAdjustment, error) {
	if len(input.Lines) == 0 {
		return nil, domain.ErrInvalidInput
	}
	if !entity.IsValidAdjustmentType(input.AdjustmentType) || !entity.IsValidAdjustmentReason(input.Reason) {
		return nil, domain.ErrInvalidInput
	}
	warehouse, err := uc.warehouseRepo.GetByID(input.WarehouseID)
	if err != nil {
		return nil, err
	}
	if warehouse == nil || warehouse.CompanyID != input.CompanyID {
		return nil, domain.ErrNotFound
	}
	// Una línea por producto: el duplicado rompe la restricción (ajuste, producto).
	seen := make(map[string]bool, len(input.Lines))
	for _, line := range input.Lines {
		if line.ExpectedQuantity < 0 || line.ActualQuantity < 0 {
			return nil, domain.ErrInvalidInput
		}
		if seen[line.ProductID] {
			return nil, domain.ErrDuplicate
		}
		seen[line.ProductID] = true
		product, err := uc.productRepo.GetByID(line.ProductID)
		if err != nil {
			return nil, err
		}
		if product == nil || product.CompanyID != input.CompanyID {
			return nil, domain.ErrNotFound
		}
	}

	now := time.Now()
	header := &entity.StockAdjustment{
		ID:             uuid.New().String(),
		CompanyID:      input.CompanyID,
		AdjustmentDate: now,
		AdjustmentType: input.AdjustmentType,
		Reason:         input.Reason,
		WarehouseID:    input.WarehouseID,
		Notes:          input.Notes,
		TotalItems:     len(input.Lines),
		CreatedAt:      now,
		CreatedBy:      input.UserID,
	}

	err = uc.txRunner.RunAdjustment(ctx, func(
		_ repository.StockMovementRepository,
		_ repository.StockLevelRepository,
		adjRepo repository.StockAdjustmentRepository,
		seqRepo repository.SequenceRepository,
	) error {
		counter, err := seqRepo.Next(input.CompanyID, adjustmentPrefix, now)
		if err != nil {
			return err
		}
		header.AdjustmentNumber = formatDocumentNumber(adjustmentPrefix, now, counter)
		if err := adjRepo.CreateHeader(header); err != nil {
			return err
		}
		for _, in := range input.Lines {
			line := &entity.StockAdjustmentLine{
				ID:               uuid.New().String(),
				AdjustmentID:     header.ID,
				ProductID:        in.ProductID,
				ExpectedQuantity: in.ExpectedQuantity,
				ActualQuantity:   in.ActualQuantity,
				UnitCost:         in.UnitCost,
				Notes:            in.Notes,
			}
			line.RecomputeDifference()
			if err := adjRepo.CreateLine(line); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.log.Info().
		Str("adjustment_number", header.AdjustmentNumber).
		Str("warehouse_id", header.WarehouseID).
		Int("lines", header.TotalItems).
		Msg("ajuste de stock creado")
	return header, nil
}

// ApproveAdjustment aprueba el ajuste y postea sus diferencias al ledger en una
// sola unidad atómica: o se confirman la cabecera y todos los movimientos, o
// ninguno. La segunda aprobación del mismo ajuste falla con ErrAlreadyApproved
// sin duplicar movimientos. El saldo snapshot de cada movimiento es la cantidad
// contada de la línea (la línea es la fuente de verdad del conteo), no el
// resultado de la regla de recorte.
func (uc *AdjustmentUseCase) ApproveAdjustment(ctx context.Context, companyID, adjustmentID, actorID string) error {
	err := uc.txRunner.RunAdjustment(ctx, func(
		movRepo repository.StockMovementRepository,
		stockRepo repository.StockLevelRepository,
		adjRepo repository.StockAdjustmentRepository,
		_ repository.SequenceRepository,
	) error {
		// Bloquea la cabecera: dos aprobaciones concurrentes se serializan aquí
		// y la segunda ve approved_by ya fijado.
		adjustment, err := adjRepo.GetForUpdate(companyID, adjustmentID)
		if err != nil {
			return err
		}
		if adjustment == nil {
			return domain.ErrNotFound
		}
		if adjustment.IsApproved() {
			return domain.ErrAlreadyApproved
		}
		if err := adjRepo.MarkApproved(adjustment.ID, actorID); err != nil {
			return err
		}
		lines, err := adjRepo.ListLines(adjustment.ID)
		if err != nil {
			return err
		}
		now := time.Now()
		for _, line := range lines {
			if line.Difference == 0 {
				continue // sin diferencia: no genera movimiento
			}
			level, err := stockRepo.GetForUpdate(companyID, line.ProductID, adjustment.WarehouseID)
			if err != nil {
				return err
			}
			_, err = postLedgerEntry(movRepo, stockRepo, level, ledgerEntry{
				CompanyID:     companyID,
				ProductID:     line.ProductID,
				WarehouseID:   adjustment.WarehouseID,
				Type:          entity.MovementTypeAdjustment,
				Quantity:      line.Difference,
				UnitCost:      line.UnitCost,
				ReferenceType: entity.ReferenceAdjustment,
				ReferenceID:   adjustment.AdjustmentNumber,
				Reason:        adjustment.Reason,
				Notes:         fmt.Sprintf("Stock adjustment: %s", adjustment.AdjustmentNumber),
				StockAfter:    line.ActualQuantity,
				CreatedBy:     actorID,
			}, now)
			if err != nil {
				return err
			}
		}
		uc.log.Info().
			Str("adjustment_number", adjustment.AdjustmentNumber).
			Str("approved_by", actorID).
			Msg("ajuste de stock aprobado y posteado")
		return nil
	})
	return err
}

// GetAdjustment devuelve el ajuste con sus líneas.
func (uc *AdjustmentUseCase) GetAdjustment(ctx context.Context, companyID, id string) (*entity.StockAdjustment, []*entity.StockAdjustmentLine, error) {
	_ = ctx
	adjustment, err := uc.adjRepo.GetByID(companyID, id)
	if err != nil {
		return nil, nil, err
	}
	if adjustment == nil {
		return nil, nil, domain.ErrNotFound
	}
	lines, err := uc.adjRepo.ListLines(adjustment.ID)
	if err != nil {
		return nil, nil, err
	}
	return adjustment, lines, nil
}

// ListAdjustments lista los ajustes de la empresa, más recientes primero.
func (uc *AdjustmentUseCase) ListAdjustments(ctx context.Context, companyID string, limit, offset int) ([]*entity.StockAdjustment, error) {
	_ = ctx
	return uc.adjRepo.ListByCompany(companyID, limit, offset)
}

package inventory

import (
	"context"
	"fmt"
	"time"

	"github.com/nexware/stockflow-api/internal/domain"
	"github.com/nexware/stockflow-api/internal/domain/entity"
	"github.com/nexware/stockflow-api/internal/domain/repository"
	"github.com/nexware/stockflow-api/pkg/logger"
)

// BulkUpdateUseCase fija cantidades objetivo de varios productos en una bodega,
// posteando un movimiento de ajuste por cada diferencia. Cada ítem es su propia
// unidad atómica: el lote NO es atómico y el éxito parcial se reporta, no se revierte.
type BulkUpdateUseCase struct {
	txRunner      TxRunner
	productRepo   repository.ProductRepository
	warehouseRepo repository.WarehouseRepository
	log           *logger.Logger
}

// NewBulkUpdateUseCase construye el caso de uso.
func NewBulkUpdateUseCase(
	txRunner TxRunner,
	productRepo repository.ProductRepository,
	warehouseRepo repository.WarehouseRepository,
	log *logger.Logger,
) *BulkUpdateUseCase {
	return &BulkUpdateUseCase{
		txRunner:      txRunner,
		productRepo:   productRepo,
		warehouseRepo: warehouseRepo,
		log:           log,
	}
}

// BulkUpdateItem una cantidad objetivo para un producto.
type BulkUpdateItem struct {
	ProductID   string
	NewQuantity int64
}

// BulkUpdateInput entrada del bulk update.
type BulkUpdateInput struct {
	CompanyID   string
	UserID      string
	WarehouseID string
	Items       []BulkUpdateItem
	Reason      string
	Notes       string
}

// BulkUpdateResult resultado: cuántos ítems postearon movimiento y los errores por ítem.
type BulkUpdateResult struct {
	UpdatedCount int
	Errors       []string
}

// BulkUpdate resuelve la bodega una sola vez (NotFound aborta toda la llamada) y
// procesa cada ítem de forma independiente: producto inexistente o cantidad
// inválida se recolecta como error sin abortar el lote; diferencia 0 se omite
// sin movimiento ni conteo.
func (uc *BulkUpdateUseCase) BulkUpdate(ctx context.Context, input BulkUpdateInput) (*BulkUpdateResult, error) {
	if len(input.Items) == 0 {
		return nil, domain.ErrInvalidInput
	}
	warehouse, err := uc.warehouseRepo.GetByID(input.WarehouseID)
	if err != nil {
		return nil, err
	}
	if warehouse == nil || warehouse.CompanyID != input.CompanyID {
		return nil, domain.ErrNotFound
	}

	reason := input.Reason
	if reason == "" {
		reason = "Bulk update"
	}

	result := &BulkUpdateResult{}
	for _, item := range input.Items {
		updated, err := uc.applyItem(ctx, input, item, reason)
		if err != nil {
			result.Errors = append(result.Errors,
				fmt.Sprintf("producto %s: %v", item.ProductID, err))
			continue
		}
		if updated {
			result.UpdatedCount++
		}
	}
	uc.log.Info().
		Str("warehouse_id", input.WarehouseID).
		Int("updated", result.UpdatedCount).
		Int("errors", len(result.Errors)).
		Msg("bulk update de stock completado")
	return result, nil
}

// applyItem ejecuta la unidad atómica de un ítem: bloquea la fila de stock,
// calcula la diferencia contra la cantidad objetivo y, si no es cero, postea
// el movimiento de ajuste con el saldo objetivo como snapshot.
func (uc *BulkUpdateUseCase) applyItem(ctx context.Context, input BulkUpdateInput, item BulkUpdateItem, reason string) (bool, error) {
	if item.NewQuantity < 0 {
		return false, domain.ErrInvalidInput
	}
	product, err := uc.productRepo.GetByID(item.ProductID)
	if err != nil {
		return false, err
	}
	if product == nil || product.CompanyID != input.CompanyID {
		return false, domain.ErrNotFound
	}

	now := time.Now()
	updated := false
	err = uc.txRunner.Run(ctx, func(
		movRepo repository.StockMovementRepository,
		stockRepo repository.StockLevelRepository,
	) error {
		level, err := stockRepo.GetForUpdate(input.CompanyID, item.ProductID, input.WarehouseID)
		if err != nil {
			return err
		}
		difference := item.NewQuantity - level.QuantityOnHand
		if difference == 0 {
			return nil // sin diferencia: ni movimiento ni conteo
		}
		_, err = postLedgerEntry(movRepo, stockRepo, level, ledgerEntry{
			CompanyID:     input.CompanyID,
			ProductID:     item.ProductID,
			WarehouseID:   input.WarehouseID,
			Type:          entity.MovementTypeAdjustment,
			Quantity:      difference,
			ReferenceType: entity.ReferenceAdjustment,
			Reason:        reason,
			Notes:         input.Notes,
			StockAfter:    item.NewQuantity,
			CreatedBy:     input.UserID,
		}, now)
		if err != nil {
			return err
		}
		updated = true
		return nil
	})
	return updated, err
}

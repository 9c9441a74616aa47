package inventory

import (
	"context"

	"github.com/nexware/stockflow-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando
// repositorios atados a esa tx. Garantiza atomicidad para el motor de inventario:
// el movimiento del ledger y la proyección de stock se confirman o revierten juntos.
type TxRunner interface {
	// Run abre una transacción para un commit de movimiento (ledger + stock).
	Run(ctx context.Context, fn func(
		movRepo repository.StockMovementRepository,
		stockRepo repository.StockLevelRepository,
	) error) error

	// RunAdjustment abre una transacción para crear/aprobar ajustes
	// (cabecera + líneas + movimientos + secuencia en una sola unidad atómica).
	RunAdjustment(ctx context.Context, fn func(
		movRepo repository.StockMovementRepository,
		stockRepo repository.StockLevelRepository,
		adjRepo repository.StockAdjustmentRepository,
		seqRepo repository.SequenceRepository,
	) error) error

	// RunPurchase abre una transacción para crear/recibir órdenes de compra.
	RunPurchase(ctx context.Context, fn func(
		movRepo repository.StockMovementRepository,
		stockRepo repository.StockLevelRepository,
		poRepo repository.PurchaseOrderRepository,
		seqRepo repository.SequenceRepository,
	) error) error
}

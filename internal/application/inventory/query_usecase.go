package inventory

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/nexware/stockflow-api/internal/domain"
	"github.com/nexware/stockflow-api/internal/domain/entity"
	"github.com/nexware/stockflow-api/internal/domain/repository"
)

// QueryUseCase agrupa las lecturas del motor de inventario: saldos, historial
// del ledger, bajos de stock y estadísticas. Son lecturas no transaccionales:
// un agregado puede ir ligeramente detrás de un escritor en vuelo.
type QueryUseCase struct {
	movementRepo repository.StockMovementRepository
	stockRepo    repository.StockLevelRepository
	productRepo  repository.ProductRepository
	adjRepo      repository.StockAdjustmentRepository
	poRepo       repository.PurchaseOrderRepository
}

// NewQueryUseCase construye el caso de uso.
func NewQueryUseCase(
	movementRepo repository.StockMovementRepository,
	stockRepo repository.StockLevelRepository,
	productRepo repository.ProductRepository,
	adjRepo repository.StockAdjustmentRepository,
	poRepo repository.PurchaseOrderRepository,
) *QueryUseCase {
	return &QueryUseCase{
		movementRepo: movementRepo,
		stockRepo:    stockRepo,
		productRepo:  productRepo,
		adjRepo:      adjRepo,
		poRepo:       poRepo,
	}
}

// GetBalance devuelve el stock de un producto en una bodega. Si el par nunca ha
// tenido movimientos devuelve la fila perezosa en cero, no NotFound.
func (uc *QueryUseCase) GetBalance(ctx context.Context, companyID, productID, warehouseID string) (*entity.StockLevel, error) {
	_ = ctx
	return uc.stockRepo.Get(companyID, productID, warehouseID)
}

// GetMovementHistory devuelve el historial del ledger de un producto,
// más recientes primero.
func (uc *QueryUseCase) GetMovementHistory(ctx context.Context, companyID, productID string, limit, offset int) ([]*entity.StockMovement, error) {
	_ = ctx
	product, err := uc.productRepo.GetByID(productID)
	if err != nil {
		return nil, err
	}
	if product == nil || product.CompanyID != companyID {
		return nil, domain.ErrNotFound
	}
	return uc.movementRepo.ListByProduct(companyID, productID, limit, offset)
}

// LowStockProduct producto por debajo de su nivel mínimo.
type LowStockProduct struct {
	Product      *entity.Product
	CurrentStock int64
}

// ListLowStock devuelve los productos con inventario rastreado cuyo stock total
// (sumado entre bodegas activas) está en o por debajo del nivel mínimo.
func (uc *QueryUseCase) ListLowStock(ctx context.Context, companyID string) ([]LowStockProduct, error) {
	_ = ctx
	products, err := uc.productRepo.ListTracked(companyID)
	if err != nil {
		return nil, err
	}
	var low []LowStockProduct
	for _, product := range products {
		current, err := uc.stockRepo.SumOnHandByProduct(companyID, product.ID)
		if err != nil {
			return nil, err
		}
		if current <= product.MinimumStockLevel {
			low = append(low, LowStockProduct{Product: product, CurrentStock: current})
		}
	}
	return low, nil
}

// InventoryStats estadísticas básicas del inventario de la empresa.
type InventoryStats struct {
	TotalProducts      int
	LowStockProducts   int
	OutOfStockProducts int
	TotalStockValue    decimal.Decimal
	PendingAdjustments int
	OpenPurchaseOrders int
}

// Stats calcula las estadísticas agregadas: conteos de bajo stock y sin stock,
// valor total del inventario al costo y documentos pendientes.
func (uc *QueryUseCase) Stats(ctx context.Context, companyID string) (*InventoryStats, error) {
	_ = ctx
	products, err := uc.productRepo.ListTracked(companyID)
	if err != nil {
		return nil, err
	}
	stats := &InventoryStats{
		TotalProducts:   len(products),
		TotalStockValue: decimal.Zero,
	}
	for _, product := range products {
		current, err := uc.stockRepo.SumOnHandByProduct(companyID, product.ID)
		if err != nil {
			return nil, err
		}
		switch {
		case current == 0:
			stats.OutOfStockProducts++
		case current <= product.MinimumStockLevel:
			stats.LowStockProducts++
		}
		stats.TotalStockValue = stats.TotalStockValue.Add(
			decimal.NewFromInt(current).Mul(product.CostPrice))
	}
	if stats.PendingAdjustments, err = uc.adjRepo.CountPending(companyID); err != nil {
		return nil, err
	}
	if stats.OpenPurchaseOrders, err = uc.poRepo.CountOpen(companyID); err != nil {
		return nil, err
	}
	return stats, nil
}

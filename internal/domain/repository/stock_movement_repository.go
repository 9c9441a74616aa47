package repository

import "github.com/nexware/stockflow-api/internal/domain/entity"

// StockMovementRepository es el puerto del ledger de movimientos.
// Append-only: no existe Update ni Delete.
type StockMovementRepository interface {
	Create(movement *entity.StockMovement) error
	// GetByID devuelve nil, nil si no existe.
	GetByID(id string) (*entity.StockMovement, error)
	// ListByProduct lista movimientos del producto, más recientes primero.
	ListByProduct(companyID, productID string, limit, offset int) ([]*entity.StockMovement, error)
	ListByWarehouse(companyID, warehouseID string, limit, offset int) ([]*entity.StockMovement, error)
	// ListByReference lista los movimientos causados por un documento (ej. un PO).
	ListByReference(companyID, referenceType, referenceID string) ([]*entity.StockMovement, error)
}

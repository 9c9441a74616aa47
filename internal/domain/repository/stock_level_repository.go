package repository

import "github.com/nexware/stockflow-api/internal/domain/entity"

// StockLevelRepository define el puerto para consultar/actualizar el stock
// por producto+bodega. Las escrituras solo ocurren dentro de la transacción
// que hace commit del movimiento correspondiente (TxRunner).
type StockLevelRepository interface {
	// Get devuelve la fila de stock; si no existe devuelve una fila en cero
	// (la fila real se crea perezosamente en el primer movimiento).
	Get(companyID, productID, warehouseID string) (*entity.StockLevel, error)
	// GetForUpdate obtiene el stock y bloquea la fila (SELECT FOR UPDATE) para
	// serializar escritores concurrentes sobre la misma clave.
	GetForUpdate(companyID, productID, warehouseID string) (*entity.StockLevel, error)
	Upsert(level *entity.StockLevel) error
	ListByWarehouse(companyID, warehouseID string, limit, offset int) ([]*entity.StockLevel, error)
	// SumOnHandByProduct suma el stock en mano del producto en bodegas activas
	// (lectura agregada, no transaccional).
	SumOnHandByProduct(companyID, productID string) (int64, error)
}

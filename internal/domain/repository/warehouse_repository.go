package repository

import "github.com/nexware/stockflow-api/internal/domain/entity"

// WarehouseRepository define el puerto de persistencia para Warehouse (DIP).
type WarehouseRepository interface {
	Create(warehouse *entity.Warehouse) error
	// GetByID devuelve nil, nil si no existe.
	GetByID(id string) (*entity.Warehouse, error)
	Update(warehouse *entity.Warehouse) error
	ListByCompany(companyID string, limit, offset int) ([]*entity.Warehouse, error)
	// SetDefault marca warehouseID como bodega default de la empresa y limpia
	// cualquier default anterior en una sola operación atómica.
	SetDefault(companyID, warehouseID string) error
}

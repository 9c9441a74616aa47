package entity

import "time"

// Warehouse representa una bodega o sucursal donde se almacena inventario (multi-bodega).
// Solo puede existir una bodega con IsDefault=true por empresa; el cambio de default
// se hace de forma atómica en WarehouseRepository.SetDefault.
type Warehouse struct {
	ID        string
	CompanyID string
	Name      string
	Code      string // código corto único por empresa
	Address   string
	IsActive  bool
	IsDefault bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

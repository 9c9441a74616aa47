package repository

import "github.com/nexware/stockflow-api/internal/domain/entity"

// ProductRepository es el puerto de lectura del catálogo de productos.
// El CRUD completo pertenece al servicio de catálogo; el motor de inventario
// solo resuelve identidad y umbrales.
type ProductRepository interface {
	// GetByID devuelve nil, nil si no existe.
	GetByID(id string) (*entity.Product, error)
	GetByCompanyAndSKU(companyID, sku string) (*entity.Product, error)
	ListByCompany(companyID string, limit, offset int) ([]*entity.Product, error)
	// ListTracked devuelve los productos activos con TrackInventory=true.
	ListTracked(companyID string) ([]*entity.Product, error)
}

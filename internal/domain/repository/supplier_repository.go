package repository

import "github.com/nexware/stockflow-api/internal/domain/entity"

// SupplierRepository define el puerto de persistencia para Supplier (DIP).
type SupplierRepository interface {
	// GetByID devuelve nil, nil si no existe.
	GetByID(id string) (*entity.Supplier, error)
	ListByCompany(companyID string, limit, offset int) ([]*entity.Supplier, error)
}

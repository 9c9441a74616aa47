package entity

import "time"

// Supplier representa un proveedor al que se le emiten órdenes de compra.
type Supplier struct {
	ID          string
	CompanyID   string
	Name        string
	ContactName string
	Email       string
	Phone       string
	Address     string
	IsActive    bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

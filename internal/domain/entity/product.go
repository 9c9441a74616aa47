package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product representa un producto o SKU del catálogo (referencia de solo lectura
// para el motor de inventario; el CRUD completo vive en el servicio de catálogo).
type Product struct {
	ID                string
	CompanyID         string
	SKU               string // código único por empresa
	Name              string
	Description       string
	CostPrice         decimal.Decimal
	SellingPrice      decimal.Decimal
	TrackInventory    bool
	MinimumStockLevel int64
	MaximumStockLevel *int64 // nil = sin máximo
	ReorderPoint      int64
	ReorderQuantity   int64
	IsActive          bool
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

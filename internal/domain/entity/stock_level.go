package entity

import "time"

// StockLevel representa el stock actual de un producto en una bodega.
// Es la proyección materializada del ledger de movimientos: solo se escribe
// como efecto de un commit de movimiento, nunca de forma independiente.
// Clave única: (ProductID, WarehouseID).
type StockLevel struct {
	ID               string
	CompanyID        string
	ProductID        string
	WarehouseID      string
	QuantityOnHand   int64 // siempre >= 0
	QuantityReserved int64
	QuantityOnOrder  int64
	Location         string // pasillo, estante, bin...
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// AvailableQuantity devuelve la cantidad disponible (en mano menos reservada, piso 0).
func (s *StockLevel) AvailableQuantity() int64 {
	if s.QuantityOnHand <= s.QuantityReserved {
		return 0
	}
	return s.QuantityOnHand - s.QuantityReserved
}

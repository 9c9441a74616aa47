package repository

import "github.com/nexware/stockflow-api/internal/domain/entity"

// PurchaseOrderRepository define el puerto de persistencia para órdenes de compra.
type PurchaseOrderRepository interface {
	CreateHeader(po *entity.PurchaseOrder) error
	CreateLine(line *entity.PurchaseOrderLine) error
	// GetByID devuelve nil, nil si no existe o no pertenece a la empresa.
	GetByID(companyID, id string) (*entity.PurchaseOrder, error)
	// GetForUpdate bloquea la cabecera (SELECT FOR UPDATE) para serializar los
	// cambios de estado contra recepciones concurrentes.
	GetForUpdate(companyID, id string) (*entity.PurchaseOrder, error)
	ListLines(purchaseOrderID string) ([]*entity.PurchaseOrderLine, error)
	// GetLineForUpdate bloquea la línea del producto (SELECT FOR UPDATE) para
	// que quantity_received crezca de forma serializada.
	GetLineForUpdate(purchaseOrderID, productID string) (*entity.PurchaseOrderLine, error)
	// UpdateLineReceived fija quantity_received de la línea.
	UpdateLineReceived(lineID string, quantityReceived int64) error
	// UpdateStatus fija el estado de la cabecera (derivado de las líneas al recibir).
	UpdateStatus(id, status string) error
	ListByCompany(companyID string, limit, offset int) ([]*entity.PurchaseOrder, error)
	// CountOpen cuenta las órdenes en estados previos a received (sin cancelled).
	CountOpen(companyID string) (int, error)
}

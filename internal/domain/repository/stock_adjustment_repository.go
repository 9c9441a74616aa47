package repository

import "github.com/nexware/stockflow-api/internal/domain/entity"

// StockAdjustmentRepository define el puerto de persistencia para ajustes de stock.
type StockAdjustmentRepository interface {
	CreateHeader(adjustment *entity.StockAdjustment) error
	CreateLine(line *entity.StockAdjustmentLine) error
	// GetByID devuelve nil, nil si no existe o no pertenece a la empresa.
	GetByID(companyID, id string) (*entity.StockAdjustment, error)
	// GetForUpdate bloquea la cabecera (SELECT FOR UPDATE) para que dos
	// aprobaciones concurrentes no pasen ambas la verificación de pendiente.
	GetForUpdate(companyID, id string) (*entity.StockAdjustment, error)
	ListLines(adjustmentID string) ([]*entity.StockAdjustmentLine, error)
	// MarkApproved fija approved_by y approved_at en la cabecera.
	MarkApproved(id, approvedBy string) error
	ListByCompany(companyID string, limit, offset int) ([]*entity.StockAdjustment, error)
	// CountPending cuenta los ajustes aún sin aprobar de la empresa.
	CountPending(companyID string) (int, error)
}

package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/nexware/stockflow-api/internal/domain"
	"github.com/nexware/stockflow-api/internal/domain/entity"
	"github.com/nexware/stockflow-api/internal/domain/repository"
)

var _ repository.StockAdjustmentRepository = (*StockAdjustmentRepo)(nil)

// StockAdjustmentRepo implementación de StockAdjustmentRepository sobre PostgreSQL.
type StockAdjustmentRepo struct {
	q Querier
}

func NewStockAdjustmentRepository(q Querier) *StockAdjustmentRepo {
	return &StockAdjustmentRepo{q: q}
}

const adjustmentColumns = `id, company_id, adjustment_number, adjustment_date, adjustment_type,
	reason, warehouse_id, notes, total_items, approved_by, approved_at, created_at, created_by`

// CreateHeader inserta la cabecera del ajuste.
func (r *StockAdjustmentRepo) CreateHeader(adjustment *entity.StockAdjustment) error {
	query := `
		INSERT INTO stock_adjustments (` + adjustmentColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`
	_, err := r.q.Exec(context.Background(), query,
		adjustment.ID, adjustment.CompanyID, adjustment.AdjustmentNumber,
		adjustment.AdjustmentDate, adjustment.AdjustmentType, adjustment.Reason,
		adjustment.WarehouseID, adjustment.Notes, adjustment.TotalItems,
		adjustment.ApprovedBy, adjustment.ApprovedAt, adjustment.CreatedAt, adjustment.CreatedBy,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("create adjustment: %w", err)
	}
	return nil
}

// CreateLine inserta una línea. Producto repetido por ajuste es ErrDuplicate.
func (r *StockAdjustmentRepo) CreateLine(line *entity.StockAdjustmentLine) error {
	query := `
		INSERT INTO stock_adjustment_lines
			(id, adjustment_id, product_id, expected_quantity, actual_quantity, difference, unit_cost, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.q.Exec(context.Background(), query,
		line.ID, line.AdjustmentID, line.ProductID,
		line.ExpectedQuantity, line.ActualQuantity, line.Difference,
		line.UnitCost, line.Notes,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("create adjustment line: %w", err)
	}
	return nil
}

func (r *StockAdjustmentRepo) get(companyID, id, suffix string) (*entity.StockAdjustment, error) {
	query := `SELECT ` + adjustmentColumns + ` FROM stock_adjustments WHERE company_id = $1 AND id = $2` + suffix
	var a entity.StockAdjustment
	err := r.q.QueryRow(context.Background(), query, companyID, id).Scan(
		&a.ID, &a.CompanyID, &a.AdjustmentNumber, &a.AdjustmentDate, &a.AdjustmentType,
		&a.Reason, &a.WarehouseID, &a.Notes, &a.TotalItems,
		&a.ApprovedBy, &a.ApprovedAt, &a.CreatedAt, &a.CreatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get adjustment: %w", err)
	}
	return &a, nil
}

// GetByID obtiene el ajuste scoping por empresa. Devuelve nil, nil si no existe.
func (r *StockAdjustmentRepo) GetByID(companyID, id string) (*entity.StockAdjustment, error) {
	return r.get(companyID, id, "")
}

// GetForUpdate obtiene el ajuste bloqueando la fila. Usar dentro de una transacción.
func (r *StockAdjustmentRepo) GetForUpdate(companyID, id string) (*entity.StockAdjustment, error) {
	return r.get(companyID, id, " FOR UPDATE")
}

// ListLines devuelve las líneas del ajuste.
func (r *StockAdjustmentRepo) ListLines(adjustmentID string) ([]*entity.StockAdjustmentLine, error) {
	query := `
		SELECT id, adjustment_id, product_id, expected_quantity, actual_quantity, difference, unit_cost, notes
		FROM stock_adjustment_lines WHERE adjustment_id = $1 ORDER BY id`
	rows, err := r.q.Query(context.Background(), query, adjustmentID)
	if err != nil {
		return nil, fmt.Errorf("list adjustment lines: %w", err)
	}
	defer rows.Close()
	var lines []*entity.StockAdjustmentLine
	for rows.Next() {
		var l entity.StockAdjustmentLine
		if err := rows.Scan(&l.ID, &l.AdjustmentID, &l.ProductID,
			&l.ExpectedQuantity, &l.ActualQuantity, &l.Difference,
			&l.UnitCost, &l.Notes); err != nil {
			return nil, fmt.Errorf("scan adjustment line: %w", err)
		}
		lines = append(lines, &l)
	}
	return lines, rows.Err()
}

// MarkApproved fija approved_by y approved_at = now() en la cabecera.
func (r *StockAdjustmentRepo) MarkApproved(id, approvedBy string) error {
	query := `UPDATE stock_adjustments SET approved_by = $2, approved_at = now() WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query, id, approvedBy)
	if err != nil {
		return fmt.Errorf("approve adjustment: %w", err)
	}
	return nil
}

// ListByCompany lista ajustes de la empresa, los más recientes primero.
func (r *StockAdjustmentRepo) ListByCompany(companyID string, limit, offset int) ([]*entity.StockAdjustment, error) {
	query := `
		SELECT ` + adjustmentColumns + ` FROM stock_adjustments
		WHERE company_id = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(context.Background(), query, companyID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list adjustments: %w", err)
	}
	defer rows.Close()
	var list []*entity.StockAdjustment
	for rows.Next() {
		var a entity.StockAdjustment
		if err := rows.Scan(&a.ID, &a.CompanyID, &a.AdjustmentNumber, &a.AdjustmentDate,
			&a.AdjustmentType, &a.Reason, &a.WarehouseID, &a.Notes, &a.TotalItems,
			&a.ApprovedBy, &a.ApprovedAt, &a.CreatedAt, &a.CreatedBy); err != nil {
			return nil, fmt.Errorf("scan adjustment: %w", err)
		}
		list = append(list, &a)
	}
	return list, rows.Err()
}

// CountPending cuenta los ajustes sin aprobar de la empresa.
func (r *StockAdjustmentRepo) CountPending(companyID string) (int, error) {
	query := `SELECT COUNT(*) FROM stock_adjustments WHERE company_id = $1 AND approved_by IS NULL`
	var count int
	if err := r.q.QueryRow(context.Background(), query, companyID).Scan(&count); err != nil {
		return 0, fmt.Errorf("count pending adjustments: %w", err)
	}
	return count, nil
}

package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/nexware/stockflow-api/internal/domain/entity"
	"github.com/nexware/stockflow-api/internal/domain/repository"
)

var _ repository.StockMovementRepository = (*StockMovementRepo)(nil)

// StockMovementRepo implementación del ledger sobre PostgreSQL (usable con pool o tx).
// Solo inserta y lee: las filas del ledger nunca se actualizan ni se borran.
type StockMovementRepo struct {
	q Querier
}

// NewStockMovementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewStockMovementRepository(q Querier) *StockMovementRepo {
	return &StockMovementRepo{q: q}
}

const movementColumns = `id, company_id, product_id, warehouse_id, movement_type, quantity,
		unit_cost, reference_type, reference_id, reference_document, reason, notes,
		stock_after_movement, created_at, created_by`

// Create persiste un movimiento del ledger.
func (r *StockMovementRepo) Create(movement *entity.StockMovement) error {
	if movement.ID == "" {
		movement.ID = uuid.New().String()
	}
	query := `
		INSERT INTO stock_movements (` + movementColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`
	createdBy := (*string)(nil)
	if movement.CreatedBy != "" {
		createdBy = &movement.CreatedBy
	}
	_, err := r.q.Exec(context.Background(), query,
		movement.ID, movement.CompanyID, movement.ProductID, movement.WarehouseID,
		movement.Type, movement.Quantity, movement.UnitCost,
		movement.ReferenceType, movement.ReferenceID, movement.ReferenceDocument,
		movement.Reason, movement.Notes, movement.StockAfterMovement,
		movement.CreatedAt, createdBy,
	)
	if err != nil {
		return fmt.Errorf("create stock movement: %w", err)
	}
	return nil
}

// GetByID obtiene un movimiento por ID.
func (r *StockMovementRepo) GetByID(id string) (*entity.StockMovement, error) {
	query := `
		SELECT ` + movementColumns + `
		FROM stock_movements WHERE id = $1`
	m, err := r.scanRow(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get movement: %w", err)
	}
	return m, nil
}

// ListByProduct lista movimientos de un producto, más recientes primero.
func (r *StockMovementRepo) ListByProduct(companyID, productID string, limit, offset int) ([]*entity.StockMovement, error) {
	query := `
		SELECT ` + movementColumns + `
		FROM stock_movements WHERE company_id = $1 AND product_id = $2
		ORDER BY created_at DESC LIMIT $3 OFFSET $4`
	return r.list(query, companyID, productID, limit, offset)
}

// ListByWarehouse lista movimientos de una bodega, más recientes primero.
func (r *StockMovementRepo) ListByWarehouse(companyID, warehouseID string, limit, offset int) ([]*entity.StockMovement, error) {
	query := `
		SELECT ` + movementColumns + `
		FROM stock_movements WHERE company_id = $1 AND warehouse_id = $2
		ORDER BY created_at DESC LIMIT $3 OFFSET $4`
	return r.list(query, companyID, warehouseID, limit, offset)
}

// ListByReference lista los movimientos causados por un documento.
func (r *StockMovementRepo) ListByReference(companyID, referenceType, referenceID string) ([]*entity.StockMovement, error) {
	query := `
		SELECT ` + movementColumns + `
		FROM stock_movements WHERE company_id = $1 AND reference_type = $2 AND reference_id = $3
		ORDER BY created_at DESC`
	rows, err := r.q.Query(context.Background(), query, companyID, referenceType, referenceID)
	if err != nil {
		return nil, fmt.Errorf("list by reference: %w", err)
	}
	return r.collect(rows)
}

func (r *StockMovementRepo) list(query string, args ...any) ([]*entity.StockMovement, error) {
	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list movements: %w", err)
	}
	return r.collect(rows)
}

func (r *StockMovementRepo) collect(rows pgx.Rows) ([]*entity.StockMovement, error) {
	defer rows.Close()
	var list []*entity.StockMovement
	for rows.Next() {
		m, err := r.scanRow(rows)
		if err != nil {
			return nil, fmt.Errorf("scan movement: %w", err)
		}
		list = append(list, m)
	}
	return list, rows.Err()
}

func (r *StockMovementRepo) scanRow(row pgx.Row) (*entity.StockMovement, error) {
	var m entity.StockMovement
	var createdBy *string
	err := row.Scan(
		&m.ID, &m.CompanyID, &m.ProductID, &m.WarehouseID, &m.Type, &m.Quantity,
		&m.UnitCost, &m.ReferenceType, &m.ReferenceID, &m.ReferenceDocument,
		&m.Reason, &m.Notes, &m.StockAfterMovement, &m.CreatedAt, &createdBy,
	)
	if err != nil {
		return nil, err
	}
	if createdBy != nil {
		m.CreatedBy = *createdBy
	}
	return &m, nil
}

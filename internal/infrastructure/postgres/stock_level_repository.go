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

var _ repository.StockLevelRepository = (*StockLevelRepo)(nil)

// StockLevelRepo implementación sobre PostgreSQL (usable con pool o tx).
type StockLevelRepo struct {
	q Querier
}

// NewStockLevelRepository construye el adaptador. Pasar pool o tx (Querier).
func NewStockLevelRepository(q Querier) *StockLevelRepo {
	return &StockLevelRepo{q: q}
}

const stockLevelColumns = `id, company_id, product_id, warehouse_id,
		quantity_on_hand, quantity_reserved, quantity_on_order, location, created_at, updated_at`

// emptyLevel fila perezosa en cero para un par (producto, bodega) sin movimientos.
func emptyLevel(companyID, productID, warehouseID string) *entity.StockLevel {
	return &entity.StockLevel{
		ID:          uuid.New().String(),
		CompanyID:   companyID,
		ProductID:   productID,
		WarehouseID: warehouseID,
	}
}

// Get obtiene el stock actual de un producto en una bodega; fila en cero si no existe.
func (r *StockLevelRepo) Get(companyID, productID, warehouseID string) (*entity.StockLevel, error) {
	query := `
		SELECT ` + stockLevelColumns + `
		FROM stock_levels WHERE company_id = $1 AND product_id = $2 AND warehouse_id = $3`
	return r.get(query, companyID, productID, warehouseID)
}

// GetForUpdate obtiene el stock y bloquea la fila (SELECT FOR UPDATE) para
// serializar escritores concurrentes de la misma clave. Si la fila no existe
// primero la materializa en cero dentro de la misma tx; ON CONFLICT DO NOTHING
// deja que el perdedor de dos creadores simultáneos bloquee sobre la fila del
// ganador, así el SELECT FOR UPDATE siempre tiene una fila que serializar y
// ningún escritor parte de un saldo obsoleto.
func (r *StockLevelRepo) GetForUpdate(companyID, productID, warehouseID string) (*entity.StockLevel, error) {
	insert := `
		INSERT INTO stock_levels (id, company_id, product_id, warehouse_id,
			quantity_on_hand, quantity_reserved, quantity_on_order, created_at, updated_at)
		VALUES ($1, $2, $3, $4, 0, 0, 0, now(), now())
		ON CONFLICT (product_id, warehouse_id) DO NOTHING`
	if _, err := r.q.Exec(context.Background(), insert,
		uuid.New().String(), companyID, productID, warehouseID); err != nil {
		return nil, fmt.Errorf("materialize stock level: %w", err)
	}
	query := `
		SELECT ` + stockLevelColumns + `
		FROM stock_levels WHERE company_id = $1 AND product_id = $2 AND warehouse_id = $3
		FOR UPDATE`
	return r.get(query, companyID, productID, warehouseID)
}

func (r *StockLevelRepo) get(query, companyID, productID, warehouseID string) (*entity.StockLevel, error) {
	var s entity.StockLevel
	err := r.q.QueryRow(context.Background(), query, companyID, productID, warehouseID).Scan(
		&s.ID, &s.CompanyID, &s.ProductID, &s.WarehouseID,
		&s.QuantityOnHand, &s.QuantityReserved, &s.QuantityOnOrder,
		&s.Location, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return emptyLevel(companyID, productID, warehouseID), nil
		}
		return nil, fmt.Errorf("get stock level: %w", err)
	}
	return &s, nil
}

// Upsert inserta o actualiza la fila de stock (por producto y bodega).
func (r *StockLevelRepo) Upsert(level *entity.StockLevel) error {
	query := `
		INSERT INTO stock_levels (id, company_id, product_id, warehouse_id,
			quantity_on_hand, quantity_reserved, quantity_on_order, location, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, now(), now())
		ON CONFLICT (product_id, warehouse_id)
		DO UPDATE SET quantity_on_hand = EXCLUDED.quantity_on_hand,
			quantity_reserved = EXCLUDED.quantity_reserved,
			quantity_on_order = EXCLUDED.quantity_on_order,
			location = EXCLUDED.location,
			updated_at = now()`
	_, err := r.q.Exec(context.Background(), query,
		level.ID, level.CompanyID, level.ProductID, level.WarehouseID,
		level.QuantityOnHand, level.QuantityReserved, level.QuantityOnOrder, level.Location,
	)
	if err != nil {
		return fmt.Errorf("upsert stock level: %w", err)
	}
	return nil
}

// ListByWarehouse lista las filas de stock de una bodega.
func (r *StockLevelRepo) ListByWarehouse(companyID, warehouseID string, limit, offset int) ([]*entity.StockLevel, error) {
	query := `
		SELECT ` + stockLevelColumns + `
		FROM stock_levels WHERE company_id = $1 AND warehouse_id = $2
		ORDER BY product_id LIMIT $3 OFFSET $4`
	rows, err := r.q.Query(context.Background(), query, companyID, warehouseID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list stock levels: %w", err)
	}
	defer rows.Close()
	var list []*entity.StockLevel
	for rows.Next() {
		var s entity.StockLevel
		if err := rows.Scan(&s.ID, &s.CompanyID, &s.ProductID, &s.WarehouseID,
			&s.QuantityOnHand, &s.QuantityReserved, &s.QuantityOnOrder,
			&s.Location, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan stock level: %w", err)
		}
		list = append(list, &s)
	}
	return list, rows.Err()
}

// SumOnHandByProduct suma el stock en mano del producto en bodegas activas.
func (r *StockLevelRepo) SumOnHandByProduct(companyID, productID string) (int64, error) {
	query := `
		SELECT COALESCE(SUM(s.quantity_on_hand), 0)
		FROM stock_levels s
		JOIN warehouses w ON w.id = s.warehouse_id
		WHERE s.company_id = $1 AND s.product_id = $2 AND w.is_active`
	var total int64
	err := r.q.QueryRow(context.Background(), query, companyID, productID).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("sum stock on hand: %w", err)
	}
	return total, nil
}

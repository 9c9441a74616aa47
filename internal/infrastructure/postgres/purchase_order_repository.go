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

var _ repository.PurchaseOrderRepository = (*PurchaseOrderRepo)(nil)

// PurchaseOrderRepo implementación de PurchaseOrderRepository sobre PostgreSQL.
type PurchaseOrderRepo struct {
	q Querier
}

func NewPurchaseOrderRepository(q Querier) *PurchaseOrderRepo {
	return &PurchaseOrderRepo{q: q}
}

const purchaseOrderColumns = `id, company_id, po_number, supplier_id, warehouse_id, order_date,
	expected_delivery_date, actual_delivery_date, status, subtotal, tax_amount, total_amount,
	notes, created_at, created_by`

const purchaseOrderLineColumns = `id, purchase_order_id, product_id, quantity_ordered,
	quantity_received, unit_price, line_total, notes`

// CreateHeader inserta la cabecera de la orden de compra.
func (r *PurchaseOrderRepo) CreateHeader(po *entity.PurchaseOrder) error {
	query := `
		INSERT INTO purchase_orders (` + purchaseOrderColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`
	_, err := r.q.Exec(context.Background(), query,
		po.ID, po.CompanyID, po.PONumber, po.SupplierID, po.WarehouseID, po.OrderDate,
		po.ExpectedDeliveryDate, po.ActualDeliveryDate, po.Status,
		po.Subtotal, po.TaxAmount, po.TotalAmount,
		po.Notes, po.CreatedAt, po.CreatedBy,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("create purchase order: %w", err)
	}
	return nil
}

// CreateLine inserta una línea. Producto repetido por orden es ErrDuplicate.
func (r *PurchaseOrderRepo) CreateLine(line *entity.PurchaseOrderLine) error {
	query := `
		INSERT INTO purchase_order_lines (` + purchaseOrderLineColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.q.Exec(context.Background(), query,
		line.ID, line.PurchaseOrderID, line.ProductID,
		line.QuantityOrdered, line.QuantityReceived,
		line.UnitPrice, line.LineTotal, line.Notes,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("create purchase order line: %w", err)
	}
	return nil
}

// GetByID obtiene la orden scoping por empresa. Devuelve nil, nil si no existe.
func (r *PurchaseOrderRepo) GetByID(companyID, id string) (*entity.PurchaseOrder, error) {
	return r.get(companyID, id, "")
}

// GetForUpdate bloquea la cabecera. Usar dentro de una transacción.
func (r *PurchaseOrderRepo) GetForUpdate(companyID, id string) (*entity.PurchaseOrder, error) {
	return r.get(companyID, id, " FOR UPDATE")
}

func (r *PurchaseOrderRepo) get(companyID, id, suffix string) (*entity.PurchaseOrder, error) {
	query := `SELECT ` + purchaseOrderColumns + ` FROM purchase_orders WHERE company_id = $1 AND id = $2` + suffix
	var po entity.PurchaseOrder
	err := r.q.QueryRow(context.Background(), query, companyID, id).Scan(
		&po.ID, &po.CompanyID, &po.PONumber, &po.SupplierID, &po.WarehouseID, &po.OrderDate,
		&po.ExpectedDeliveryDate, &po.ActualDeliveryDate, &po.Status,
		&po.Subtotal, &po.TaxAmount, &po.TotalAmount,
		&po.Notes, &po.CreatedAt, &po.CreatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get purchase order: %w", err)
	}
	return &po, nil
}

// ListLines devuelve las líneas de la orden.
func (r *PurchaseOrderRepo) ListLines(purchaseOrderID string) ([]*entity.PurchaseOrderLine, error) {
	query := `
		SELECT ` + purchaseOrderLineColumns + ` FROM purchase_order_lines
		WHERE purchase_order_id = $1 ORDER BY id`
	rows, err := r.q.Query(context.Background(), query, purchaseOrderID)
	if err != nil {
		return nil, fmt.Errorf("list purchase order lines: %w", err)
	}
	defer rows.Close()
	var lines []*entity.PurchaseOrderLine
	for rows.Next() {
		l, err := scanPOLine(rows)
		if err != nil {
			return nil, err
		}
		lines = append(lines, l)
	}
	return lines, rows.Err()
}

// GetLineForUpdate bloquea la línea del producto. Usar dentro de una transacción.
// Devuelve nil, nil si la orden no tiene línea para el producto.
func (r *PurchaseOrderRepo) GetLineForUpdate(purchaseOrderID, productID string) (*entity.PurchaseOrderLine, error) {
	query := `
		SELECT ` + purchaseOrderLineColumns + ` FROM purchase_order_lines
		WHERE purchase_order_id = $1 AND product_id = $2 FOR UPDATE`
	row := r.q.QueryRow(context.Background(), query, purchaseOrderID, productID)
	var l entity.PurchaseOrderLine
	err := row.Scan(&l.ID, &l.PurchaseOrderID, &l.ProductID,
		&l.QuantityOrdered, &l.QuantityReceived,
		&l.UnitPrice, &l.LineTotal, &l.Notes)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get purchase order line: %w", err)
	}
	return &l, nil
}

// UpdateLineReceived fija quantity_received de la línea.
func (r *PurchaseOrderRepo) UpdateLineReceived(lineID string, quantityReceived int64) error {
	query := `UPDATE purchase_order_lines SET quantity_received = $2 WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query, lineID, quantityReceived)
	if err != nil {
		return fmt.Errorf("update purchase order line: %w", err)
	}
	return nil
}

// UpdateStatus fija el estado de la cabecera. Al pasar a received también
// registra la fecha real de entrega.
func (r *PurchaseOrderRepo) UpdateStatus(id, status string) error {
	query := `
		UPDATE purchase_orders
		SET status = $2,
		    actual_delivery_date = CASE WHEN $2 = 'received' THEN now() ELSE actual_delivery_date END
		WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query, id, status)
	if err != nil {
		return fmt.Errorf("update purchase order status: %w", err)
	}
	return nil
}

// ListByCompany lista órdenes de la empresa, las más recientes primero.
func (r *PurchaseOrderRepo) ListByCompany(companyID string, limit, offset int) ([]*entity.PurchaseOrder, error) {
	query := `
		SELECT ` + purchaseOrderColumns + ` FROM purchase_orders
		WHERE company_id = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(context.Background(), query, companyID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list purchase orders: %w", err)
	}
	defer rows.Close()
	var list []*entity.PurchaseOrder
	for rows.Next() {
		var po entity.PurchaseOrder
		if err := rows.Scan(&po.ID, &po.CompanyID, &po.PONumber, &po.SupplierID, &po.WarehouseID,
			&po.OrderDate, &po.ExpectedDeliveryDate, &po.ActualDeliveryDate, &po.Status,
			&po.Subtotal, &po.TaxAmount, &po.TotalAmount,
			&po.Notes, &po.CreatedAt, &po.CreatedBy); err != nil {
			return nil, fmt.Errorf("scan purchase order: %w", err)
		}
		list = append(list, &po)
	}
	return list, rows.Err()
}

// CountOpen cuenta las órdenes abiertas (previas a received, sin cancelled).
func (r *PurchaseOrderRepo) CountOpen(companyID string) (int, error) {
	query := `
		SELECT COUNT(*) FROM purchase_orders
		WHERE company_id = $1 AND status IN ('draft', 'sent', 'confirmed', 'partially_received')`
	var count int
	if err := r.q.QueryRow(context.Background(), query, companyID).Scan(&count); err != nil {
		return 0, fmt.Errorf("count open purchase orders: %w", err)
	}
	return count, nil
}

func scanPOLine(rows pgx.Rows) (*entity.PurchaseOrderLine, error) {
	var l entity.PurchaseOrderLine
	if err := rows.Scan(&l.ID, &l.PurchaseOrderID, &l.ProductID,
		&l.QuantityOrdered, &l.QuantityReceived,
		&l.UnitPrice, &l.LineTotal, &l.Notes); err != nil {
		return nil, fmt.Errorf("scan purchase order line: %w", err)
	}
	return &l, nil
}

package inventory

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/nexware/stockflow-api/internal/domain"
	"github.com/nexware/stockflow-api/internal/domain/entity"
	"github.com/nexware/stockflow-api/internal/domain/repository"
	"github.com/nexware/stockflow-api/pkg/logger"
)

// PurchaseOrderUseCase crea órdenes de compra y recibe mercancía contra ellas.
// Cada recepción pasa por el mismo camino de ledger que los movimientos manuales:
// un solo código y una sola superficie de invariantes.
type PurchaseOrderUseCase struct {
	txRunner      TxRunner
	poRepo        repository.PurchaseOrderRepository
	productRepo   repository.ProductRepository
	warehouseRepo repository.WarehouseRepository
	supplierRepo  repository.SupplierRepository
	log           *logger.Logger
}

// NewPurchaseOrderUseCase construye el caso de uso.
func NewPurchaseOrderUseCase(
	txRunner TxRunner,
	poRepo repository.PurchaseOrderRepository,
	productRepo repository.ProductRepository,
	warehouseRepo repository.WarehouseRepository,
	supplierRepo repository.SupplierRepository,
	log *logger.Logger,
) *PurchaseOrderUseCase {
	return &PurchaseOrderUseCase{
		txRunner:      txRunner,
		poRepo:        poRepo,
		productRepo:   productRepo,
		warehouseRepo: warehouseRepo,
		supplierRepo:  supplierRepo,
		log:           log,
	}
}

// PurchaseOrderLineInput línea de una orden de compra nueva.
type PurchaseOrderLineInput struct {
	ProductID       string
	QuantityOrdered int64
	UnitPrice       decimal.Decimal
	Notes           string
}

// CreatePurchaseOrderInput entrada para crear una orden de compra en borrador.
type CreatePurchaseOrderInput struct {
	CompanyID            string
	UserID               string
	SupplierID           string
	WarehouseID          string
	ExpectedDeliveryDate *time.Time
	TaxAmount            decimal.Decimal
	Notes                string
	Lines                []PurchaseOrderLineInput
}

// CreatePurchaseOrder valida proveedor, bodega y productos contra la empresa,
// genera el número PO-YYYYMMDD-NNNN con la secuencia atómica y persiste cabecera
// y líneas (LineTotal y totales recalculados) en una sola transacción. Además
// incrementa quantity_on_order del stock de cada producto en la bodega destino.
func (uc *PurchaseOrderUseCase) CreatePurchaseOrder(ctx context.Context, input CreatePurchaseOrderInput) (*entity.PurchaseOrder, error) {
	if len(input.Lines) == 0 {
		return nil, domain.ErrInvalidInput
	}
	supplier, err := uc.supplierRepo.GetByID(input.SupplierID)
	if err != nil {
		return nil, err
	}
	if supplier == nil || supplier.CompanyID != input.CompanyID {
		return nil, domain.ErrNotFound
	}
	warehouse, err := uc.warehouseRepo.GetByID(input.WarehouseID)
	if err != nil {
		return nil, err
	}
	if warehouse == nil || warehouse.CompanyID != input.CompanyID {
		return nil, domain.ErrNotFound
	}
	seen := make(map[string]bool, len(input.Lines))
	for _, line := range input.Lines {
		if line.QuantityOrdered <= 0 || line.UnitPrice.IsNegative() {
			return nil, domain.ErrInvalidInput
		}
		if seen[line.ProductID] {
			return nil, domain.ErrDuplicate
		}
		seen[line.ProductID] = true
		product, err := uc.productRepo.GetByID(line.ProductID)
		if err != nil {
			return nil, err
		}
		if product == nil || product.CompanyID != input.CompanyID {
			return nil, domain.ErrNotFound
		}
	}

	now := time.Now()
	header := &entity.PurchaseOrder{
		ID:                   uuid.New().String(),
		CompanyID:            input.CompanyID,
		SupplierID:           input.SupplierID,
		WarehouseID:          input.WarehouseID,
		OrderDate:            now,
		ExpectedDeliveryDate: input.ExpectedDeliveryDate,
		Status:               entity.POStatusDraft,
		TaxAmount:            input.TaxAmount,
		Notes:                input.Notes,
		CreatedAt:            now,
		CreatedBy:            input.UserID,
	}

	err = uc.txRunner.RunPurchase(ctx, func(
		_ repository.StockMovementRepository,
		stockRepo repository.StockLevelRepository,
		poRepo repository.PurchaseOrderRepository,
		seqRepo repository.SequenceRepository,
	) error {
		counter, err := seqRepo.Next(input.CompanyID, purchaseOrderPrefix, now)
		if err != nil {
			return err
		}
		header.PONumber = formatDocumentNumber(purchaseOrderPrefix, now, counter)

		subtotal := decimal.Zero
		lines := make([]*entity.PurchaseOrderLine, 0, len(input.Lines))
		for _, in := range input.Lines {
			line := &entity.PurchaseOrderLine{
				ID:              uuid.New().String(),
				PurchaseOrderID: header.ID,
				ProductID:       in.ProductID,
				QuantityOrdered: in.QuantityOrdered,
				UnitPrice:       in.UnitPrice,
				Notes:           in.Notes,
			}
			line.RecomputeLineTotal()
			subtotal = subtotal.Add(line.LineTotal)
			lines = append(lines, line)
		}
		header.Subtotal = subtotal
		header.TotalAmount = subtotal.Add(header.TaxAmount)

		if err := poRepo.CreateHeader(header); err != nil {
			return err
		}
		for _, line := range lines {
			if err := poRepo.CreateLine(line); err != nil {
				return err
			}
			// La cantidad pedida queda en camino: sube quantity_on_order.
			level, err := stockRepo.GetForUpdate(input.CompanyID, line.ProductID, input.WarehouseID)
			if err != nil {
				return err
			}
			level.QuantityOnOrder += line.QuantityOrdered
			level.UpdatedAt = now
			if err := stockRepo.Upsert(level); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.log.Info().
		Str("po_number", header.PONumber).
		Str("supplier_id", header.SupplierID).
		Int("lines", len(input.Lines)).
		Msg("orden de compra creada")
	return header, nil
}

// ReceiveItem cantidad recibida para un producto de la orden.
type ReceiveItem struct {
	ProductID string
	Quantity  int64
}

// ReceiveInput entrada para recibir mercancía contra una orden de compra.
type ReceiveInput struct {
	CompanyID       string
	UserID          string
	PurchaseOrderID string
	Items           []ReceiveItem
	Notes           string
}

// ReceiveResult resultado de la recepción: líneas recibidas, errores por ítem
// y el estado resultante de la orden.
type ReceiveResult struct {
	ReceivedCount int
	Errors        []string
	Status        string
}

// ReceivePurchaseOrder aplica una recepción parcial o total. Por cada ítem, en su
// propia transacción: bloquea la línea del PO, rechaza sobre-recepción
// (received + qty > ordered), postea el movimiento "in" referenciado al número
// del PO por el camino del ledger y ajusta quantity_received/quantity_on_order.
// Como en el bulk update, el lote no es atómico: los errores se recolectan.
// Al final el estado de la cabecera se deriva de las líneas.
func (uc *PurchaseOrderUseCase) ReceivePurchaseOrder(ctx context.Context, input ReceiveInput) (*ReceiveResult, error) {
	if len(input.Items) == 0 {
		return nil, domain.ErrInvalidInput
	}
	po, err := uc.poRepo.GetByID(input.CompanyID, input.PurchaseOrderID)
	if err != nil {
		return nil, err
	}
	if po == nil {
		return nil, domain.ErrNotFound
	}
	if !po.CanReceive() {
		return nil, domain.ErrConflict
	}

	result := &ReceiveResult{}
	for _, item := range input.Items {
		if err := uc.receiveItem(ctx, po, item, input.UserID, input.Notes); err != nil {
			result.Errors = append(result.Errors,
				fmt.Sprintf("producto %s: %v", item.ProductID, err))
			continue
		}
		result.ReceivedCount++
	}

	status, err := uc.refreshStatus(ctx, po)
	if err != nil {
		return nil, err
	}
	result.Status = status

	uc.log.Info().
		Str("po_number", po.PONumber).
		Int("received", result.ReceivedCount).
		Int("errors", len(result.Errors)).
		Str("status", status).
		Msg("recepción de orden de compra procesada")
	return result, nil
}

// receiveItem es la unidad atómica de una línea recibida: bloqueo de línea y de
// fila de stock, movimiento + proyección + quantity_received en un solo commit.
func (uc *PurchaseOrderUseCase) receiveItem(ctx context.Context, po *entity.PurchaseOrder, item ReceiveItem, userID, notes string) error {
	if item.Quantity <= 0 {
		return domain.ErrInvalidInput
	}
	now := time.Now()
	return uc.txRunner.RunPurchase(ctx, func(
		movRepo repository.StockMovementRepository,
		stockRepo repository.StockLevelRepository,
		poRepo repository.PurchaseOrderRepository,
		_ repository.SequenceRepository,
	) error {
		line, err := poRepo.GetLineForUpdate(po.ID, item.ProductID)
		if err != nil {
			return err
		}
		if line == nil {
			return domain.ErrNotFound
		}
		// quantity_received solo crece y nunca supera lo pedido.
		if line.QuantityReceived+item.Quantity > line.QuantityOrdered {
			return domain.ErrInvalidInput
		}

		level, err := stockRepo.GetForUpdate(po.CompanyID, item.ProductID, po.WarehouseID)
		if err != nil {
			return err
		}
		newQty, _ := clampedQuantity(level.QuantityOnHand, entity.MovementTypeIn, item.Quantity)
		// Lo recibido deja de estar en camino.
		if level.QuantityOnOrder > item.Quantity {
			level.QuantityOnOrder -= item.Quantity
		} else {
			level.QuantityOnOrder = 0
		}
		unitCost := line.UnitPrice
		_, err = postLedgerEntry(movRepo, stockRepo, level, ledgerEntry{
			CompanyID:         po.CompanyID,
			ProductID:         item.ProductID,
			WarehouseID:       po.WarehouseID,
			Type:              entity.MovementTypeIn,
			Quantity:          item.Quantity,
			UnitCost:          &unitCost,
			ReferenceType:     entity.ReferencePurchaseOrder,
			ReferenceID:       po.PONumber,
			ReferenceDocument: po.PONumber,
			Reason:            "Recepción de orden de compra",
			Notes:             notes,
			StockAfter:        newQty,
			CreatedBy:         userID,
		}, now)
		if err != nil {
			return err
		}
		return poRepo.UpdateLineReceived(line.ID, line.QuantityReceived+item.Quantity)
	})
}

// refreshStatus deriva el estado de la cabecera del estado de sus líneas:
// todas completas → received; alguna recibida → partially_received. Bloquea la
// cabecera en su propia tx para no pisarse con recepciones concurrentes.
func (uc *PurchaseOrderUseCase) refreshStatus(ctx context.Context, po *entity.PurchaseOrder) (string, error) {
	var status string
	err := uc.txRunner.RunPurchase(ctx, func(
		_ repository.StockMovementRepository,
		_ repository.StockLevelRepository,
		poRepo repository.PurchaseOrderRepository,
		_ repository.SequenceRepository,
	) error {
		header, err := poRepo.GetForUpdate(po.CompanyID, po.ID)
		if err != nil {
			return err
		}
		if header == nil {
			return domain.ErrNotFound
		}
		lines, err := poRepo.ListLines(header.ID)
		if err != nil {
			return err
		}
		allReceived := true
		anyReceived := false
		for _, line := range lines {
			if line.QuantityReceived > 0 {
				anyReceived = true
			}
			if !line.IsFullyReceived() {
				allReceived = false
			}
		}
		status = header.Status
		switch {
		case allReceived && len(lines) > 0:
			status = entity.POStatusReceived
		case anyReceived:
			status = entity.POStatusPartiallyReceived
		}
		if status != header.Status {
			return poRepo.UpdateStatus(header.ID, status)
		}
		return nil
	})
	if err != nil {
		return "", err
	}
	return status, nil
}

// GetPurchaseOrder devuelve la orden con sus líneas.
func (uc *PurchaseOrderUseCase) GetPurchaseOrder(ctx context.Context, companyID, id string) (*entity.PurchaseOrder, []*entity.PurchaseOrderLine, error) {
	_ = ctx
	po, err := uc.poRepo.GetByID(companyID, id)
	if err != nil {
		return nil, nil, err
	}
	if po == nil {
		return nil, nil, domain.ErrNotFound
	}
	lines, err := uc.poRepo.ListLines(po.ID)
	if err != nil {
		return nil, nil, err
	}
	return po, lines, nil
}

// ListPurchaseOrders lista las órdenes de la empresa, más recientes primero.
func (uc *PurchaseOrderUseCase) ListPurchaseOrders(ctx context.Context, companyID string, limit, offset int) ([]*entity.PurchaseOrder, error) {
	_ = ctx
	return uc.poRepo.ListByCompany(companyID, limit, offset)
}

// MarkSent pasa la orden de draft a sent (lista para recibir). El chequeo de
// estado y la transición comparten la tx para que dos envíos o un envío y una
// recepción concurrentes no se intercalen.
func (uc *PurchaseOrderUseCase) MarkSent(ctx context.Context, companyID, id string) error {
	return uc.txRunner.RunPurchase(ctx, func(
		_ repository.StockMovementRepository,
		_ repository.StockLevelRepository,
		poRepo repository.PurchaseOrderRepository,
		_ repository.SequenceRepository,
	) error {
		po, err := poRepo.GetForUpdate(companyID, id)
		if err != nil {
			return err
		}
		if po == nil {
			return domain.ErrNotFound
		}
		if po.Status != entity.POStatusDraft {
			return domain.ErrConflict
		}
		return poRepo.UpdateStatus(po.ID, entity.POStatusSent)
	})
}

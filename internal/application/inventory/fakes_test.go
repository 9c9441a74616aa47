package inventory_test

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/nexware/stockflow-api/internal/application/inventory"
	"github.com/nexware/stockflow-api/internal/domain"
	"github.com/nexware/stockflow-api/internal/domain/entity"
	"github.com/nexware/stockflow-api/internal/domain/repository"
	"github.com/nexware/stockflow-api/pkg/logger"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes en memoria: un "store" compartido y repos que lo leen/escriben.
// No simulan aislamiento transaccional; ejercitan la lógica de los casos de uso.
// ──────────────────────────────────────────────────────────────────────────────

type memStore struct {
	products    map[string]*entity.Product
	warehouses  map[string]*entity.Warehouse
	suppliers   map[string]*entity.Supplier
	levels      map[string]*entity.StockLevel // key: productID|warehouseID
	movements   []*entity.StockMovement
	adjustments map[string]*entity.StockAdjustment
	adjLines    map[string][]*entity.StockAdjustmentLine // key: adjustmentID
	pos         map[string]*entity.PurchaseOrder
	poLines     map[string][]*entity.PurchaseOrderLine // key: purchaseOrderID
	sequences   map[string]int64                       // key: companyID|prefix|fecha
}

func newMemStore() *memStore {
	return &memStore{
		products:    make(map[string]*entity.Product),
		warehouses:  make(map[string]*entity.Warehouse),
		suppliers:   make(map[string]*entity.Supplier),
		levels:      make(map[string]*entity.StockLevel),
		adjustments: make(map[string]*entity.StockAdjustment),
		adjLines:    make(map[string][]*entity.StockAdjustmentLine),
		pos:         make(map[string]*entity.PurchaseOrder),
		poLines:     make(map[string][]*entity.PurchaseOrderLine),
		sequences:   make(map[string]int64),
	}
}

func levelKey(productID, warehouseID string) string {
	return productID + "|" + warehouseID
}

// ── ProductRepository ────────────────────────────────────────────────────────

type memProductRepo struct{ s *memStore }

func (r *memProductRepo) GetByID(id string) (*entity.Product, error) {
	return r.s.products[id], nil
}

func (r *memProductRepo) GetByCompanyAndSKU(companyID, sku string) (*entity.Product, error) {
	for _, p := range r.s.products {
		if p.CompanyID == companyID && p.SKU == sku {
			return p, nil
		}
	}
	return nil, nil
}

func (r *memProductRepo) ListByCompany(companyID string, limit, offset int) ([]*entity.Product, error) {
	var out []*entity.Product
	for _, p := range r.s.products {
		if p.CompanyID == companyID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *memProductRepo) ListTracked(companyID string) ([]*entity.Product, error) {
	var out []*entity.Product
	for _, p := range r.s.products {
		if p.CompanyID == companyID && p.IsActive && p.TrackInventory {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SKU < out[j].SKU })
	return out, nil
}

// ── WarehouseRepository ──────────────────────────────────────────────────────

type memWarehouseRepo struct{ s *memStore }

func (r *memWarehouseRepo) Create(w *entity.Warehouse) error {
	for _, existing := range r.s.warehouses {
		if existing.CompanyID == w.CompanyID && existing.Code == w.Code {
			return domain.ErrDuplicate
		}
	}
	r.s.warehouses[w.ID] = w
	return nil
}

func (r *memWarehouseRepo) GetByID(id string) (*entity.Warehouse, error) {
	return r.s.warehouses[id], nil
}

func (r *memWarehouseRepo) Update(w *entity.Warehouse) error {
	r.s.warehouses[w.ID] = w
	return nil
}

func (r *memWarehouseRepo) ListByCompany(companyID string, limit, offset int) ([]*entity.Warehouse, error) {
	var out []*entity.Warehouse
	for _, w := range r.s.warehouses {
		if w.CompanyID == companyID {
			out = append(out, w)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *memWarehouseRepo) SetDefault(companyID, warehouseID string) error {
	for _, w := range r.s.warehouses {
		if w.CompanyID == companyID {
			w.IsDefault = w.ID == warehouseID
		}
	}
	return nil
}

// ── SupplierRepository ───────────────────────────────────────────────────────

type memSupplierRepo struct{ s *memStore }

func (r *memSupplierRepo) GetByID(id string) (*entity.Supplier, error) {
	return r.s.suppliers[id], nil
}

func (r *memSupplierRepo) ListByCompany(companyID string, limit, offset int) ([]*entity.Supplier, error) {
	var out []*entity.Supplier
	for _, s := range r.s.suppliers {
		if s.CompanyID == companyID && s.IsActive {
			out = append(out, s)
		}
	}
	return out, nil
}

// ── StockLevelRepository ─────────────────────────────────────────────────────

type memStockLevelRepo struct{ s *memStore }

func (r *memStockLevelRepo) Get(companyID, productID, warehouseID string) (*entity.StockLevel, error) {
	if level, ok := r.s.levels[levelKey(productID, warehouseID)]; ok {
		copy := *level
		return &copy, nil
	}
	return &entity.StockLevel{
		ID:          uuid.New().String(),
		CompanyID:   companyID,
		ProductID:   productID,
		WarehouseID: warehouseID,
	}, nil
}

func (r *memStockLevelRepo) GetForUpdate(companyID, productID, warehouseID string) (*entity.StockLevel, error) {
	return r.Get(companyID, productID, warehouseID)
}

func (r *memStockLevelRepo) Upsert(level *entity.StockLevel) error {
	copy := *level
	r.s.levels[levelKey(level.ProductID, level.WarehouseID)] = &copy
	return nil
}

func (r *memStockLevelRepo) ListByWarehouse(companyID, warehouseID string, limit, offset int) ([]*entity.StockLevel, error) {
	var out []*entity.StockLevel
	for _, level := range r.s.levels {
		if level.CompanyID == companyID && level.WarehouseID == warehouseID {
			out = append(out, level)
		}
	}
	return out, nil
}

func (r *memStockLevelRepo) SumOnHandByProduct(companyID, productID string) (int64, error) {
	var total int64
	for _, level := range r.s.levels {
		if level.CompanyID == companyID && level.ProductID == productID {
			total += level.QuantityOnHand
		}
	}
	return total, nil
}

// ── StockMovementRepository ──────────────────────────────────────────────────

type memMovementRepo struct{ s *memStore }

func (r *memMovementRepo) Create(m *entity.StockMovement) error {
	copy := *m
	r.s.movements = append(r.s.movements, &copy)
	return nil
}

func (r *memMovementRepo) GetByID(id string) (*entity.StockMovement, error) {
	for _, m := range r.s.movements {
		if m.ID == id {
			return m, nil
		}
	}
	return nil, nil
}

func (r *memMovementRepo) ListByProduct(companyID, productID string, limit, offset int) ([]*entity.StockMovement, error) {
	var out []*entity.StockMovement
	for i := len(r.s.movements) - 1; i >= 0; i-- {
		m := r.s.movements[i]
		if m.CompanyID == companyID && m.ProductID == productID {
			out = append(out, m)
		}
	}
	return out, nil
}

func (r *memMovementRepo) ListByWarehouse(companyID, warehouseID string, limit, offset int) ([]*entity.StockMovement, error) {
	var out []*entity.StockMovement
	for i := len(r.s.movements) - 1; i >= 0; i-- {
		m := r.s.movements[i]
		if m.CompanyID == companyID && m.WarehouseID == warehouseID {
			out = append(out, m)
		}
	}
	return out, nil
}

func (r *memMovementRepo) ListByReference(companyID, referenceType, referenceID string) ([]*entity.StockMovement, error) {
	var out []*entity.StockMovement
	for _, m := range r.s.movements {
		if m.CompanyID == companyID && m.ReferenceType == referenceType && m.ReferenceID == referenceID {
			out = append(out, m)
		}
	}
	return out, nil
}

// ── StockAdjustmentRepository ────────────────────────────────────────────────

type memAdjustmentRepo struct{ s *memStore }

func (r *memAdjustmentRepo) CreateHeader(a *entity.StockAdjustment) error {
	r.s.adjustments[a.ID] = a
	return nil
}

func (r *memAdjustmentRepo) CreateLine(line *entity.StockAdjustmentLine) error {
	for _, existing := range r.s.adjLines[line.AdjustmentID] {
		if existing.ProductID == line.ProductID {
			return domain.ErrDuplicate
		}
	}
	r.s.adjLines[line.AdjustmentID] = append(r.s.adjLines[line.AdjustmentID], line)
	return nil
}

func (r *memAdjustmentRepo) GetByID(companyID, id string) (*entity.StockAdjustment, error) {
	a := r.s.adjustments[id]
	if a == nil || a.CompanyID != companyID {
		return nil, nil
	}
	return a, nil
}

func (r *memAdjustmentRepo) GetForUpdate(companyID, id string) (*entity.StockAdjustment, error) {
	return r.GetByID(companyID, id)
}

func (r *memAdjustmentRepo) ListLines(adjustmentID string) ([]*entity.StockAdjustmentLine, error) {
	return r.s.adjLines[adjustmentID], nil
}

func (r *memAdjustmentRepo) MarkApproved(id, approvedBy string) error {
	a := r.s.adjustments[id]
	if a == nil {
		return domain.ErrNotFound
	}
	now := time.Now()
	a.ApprovedBy = &approvedBy
	a.ApprovedAt = &now
	return nil
}

func (r *memAdjustmentRepo) ListByCompany(companyID string, limit, offset int) ([]*entity.StockAdjustment, error) {
	var out []*entity.StockAdjustment
	for _, a := range r.s.adjustments {
		if a.CompanyID == companyID {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *memAdjustmentRepo) CountPending(companyID string) (int, error) {
	count := 0
	for _, a := range r.s.adjustments {
		if a.CompanyID == companyID && a.ApprovedBy == nil {
			count++
		}
	}
	return count, nil
}

// ── PurchaseOrderRepository ──────────────────────────────────────────────────

type memPurchaseOrderRepo struct{ s *memStore }

func (r *memPurchaseOrderRepo) CreateHeader(po *entity.PurchaseOrder) error {
	r.s.pos[po.ID] = po
	return nil
}

func (r *memPurchaseOrderRepo) CreateLine(line *entity.PurchaseOrderLine) error {
	for _, existing := range r.s.poLines[line.PurchaseOrderID] {
		if existing.ProductID == line.ProductID {
			return domain.ErrDuplicate
		}
	}
	r.s.poLines[line.PurchaseOrderID] = append(r.s.poLines[line.PurchaseOrderID], line)
	return nil
}

func (r *memPurchaseOrderRepo) GetByID(companyID, id string) (*entity.PurchaseOrder, error) {
	po := r.s.pos[id]
	if po == nil || po.CompanyID != companyID {
		return nil, nil
	}
	return po, nil
}

func (r *memPurchaseOrderRepo) GetForUpdate(companyID, id string) (*entity.PurchaseOrder, error) {
	return r.GetByID(companyID, id)
}

func (r *memPurchaseOrderRepo) ListLines(purchaseOrderID string) ([]*entity.PurchaseOrderLine, error) {
	return r.s.poLines[purchaseOrderID], nil
}

func (r *memPurchaseOrderRepo) GetLineForUpdate(purchaseOrderID, productID string) (*entity.PurchaseOrderLine, error) {
	for _, line := range r.s.poLines[purchaseOrderID] {
		if line.ProductID == productID {
			return line, nil
		}
	}
	return nil, nil
}

func (r *memPurchaseOrderRepo) UpdateLineReceived(lineID string, quantityReceived int64) error {
	for _, lines := range r.s.poLines {
		for _, line := range lines {
			if line.ID == lineID {
				line.QuantityReceived = quantityReceived
				return nil
			}
		}
	}
	return domain.ErrNotFound
}

func (r *memPurchaseOrderRepo) UpdateStatus(id, status string) error {
	po := r.s.pos[id]
	if po == nil {
		return domain.ErrNotFound
	}
	po.Status = status
	return nil
}

func (r *memPurchaseOrderRepo) ListByCompany(companyID string, limit, offset int) ([]*entity.PurchaseOrder, error) {
	var out []*entity.PurchaseOrder
	for _, po := range r.s.pos {
		if po.CompanyID == companyID {
			out = append(out, po)
		}
	}
	return out, nil
}

func (r *memPurchaseOrderRepo) CountOpen(companyID string) (int, error) {
	count := 0
	for _, po := range r.s.pos {
		if po.CompanyID != companyID {
			continue
		}
		switch po.Status {
		case entity.POStatusDraft, entity.POStatusSent, entity.POStatusConfirmed, entity.POStatusPartiallyReceived:
			count++
		}
	}
	return count, nil
}

// ── SequenceRepository ───────────────────────────────────────────────────────

type memSequenceRepo struct{ s *memStore }

func (r *memSequenceRepo) Next(companyID, prefix string, date time.Time) (int64, error) {
	key := companyID + "|" + prefix + "|" + date.Format("2006-01-02")
	r.s.sequences[key]++
	return r.s.sequences[key], nil
}

// ── TxRunner ─────────────────────────────────────────────────────────────────

// memTxRunner cuenta las transacciones abiertas por flujo para que los tests
// puedan afirmar que una operación corre dentro de una tx y no por fuera.
type memTxRunner struct {
	s          *memStore
	runCount   int
	adjCount   int
	purchCount int
}

func (r *memTxRunner) Run(ctx context.Context, fn func(
	movRepo repository.StockMovementRepository,
	stockRepo repository.StockLevelRepository,
) error) error {
	r.runCount++
	return fn(&memMovementRepo{r.s}, &memStockLevelRepo{r.s})
}

func (r *memTxRunner) RunAdjustment(ctx context.Context, fn func(
	movRepo repository.StockMovementRepository,
	stockRepo repository.StockLevelRepository,
	adjRepo repository.StockAdjustmentRepository,
	seqRepo repository.SequenceRepository,
) error) error {
	r.adjCount++
	return fn(&memMovementRepo{r.s}, &memStockLevelRepo{r.s}, &memAdjustmentRepo{r.s}, &memSequenceRepo{r.s})
}

func (r *memTxRunner) RunPurchase(ctx context.Context, fn func(
	movRepo repository.StockMovementRepository,
	stockRepo repository.StockLevelRepository,
	poRepo repository.PurchaseOrderRepository,
	seqRepo repository.SequenceRepository,
) error) error {
	r.purchCount++
	return fn(&memMovementRepo{r.s}, &memStockLevelRepo{r.s}, &memPurchaseOrderRepo{r.s}, &memSequenceRepo{r.s})
}

// ── Fixture ──────────────────────────────────────────────────────────────────

const (
	fixtureCompanyID = "company-1"
	fixtureUserID    = "user-1"
	fixtureProductID = "product-1"
	fixtureWarehouse = "warehouse-1"
	fixtureSupplier  = "supplier-1"
)

// fixture agrupa el store, los repos y los casos de uso contra los fakes.
type fixture struct {
	store     *memStore
	txRunner  *memTxRunner
	products  *memProductRepo
	warehouse *memWarehouseRepo
	suppliers *memSupplierRepo
	stock     *memStockLevelRepo
	movements *memMovementRepo
	adjRepo   *memAdjustmentRepo
	poRepo    *memPurchaseOrderRepo
	log       *logger.Logger
}

// newFixture crea el store con una empresa, un producto rastreado, una bodega
// activa y un proveedor.
func newFixture() *fixture {
	s := newMemStore()
	now := time.Now()
	s.products[fixtureProductID] = &entity.Product{
		ID:                fixtureProductID,
		CompanyID:         fixtureCompanyID,
		SKU:               "SKU-001",
		Name:              "Producto de prueba",
		TrackInventory:    true,
		MinimumStockLevel: 10,
		ReorderPoint:      15,
		ReorderQuantity:   50,
		IsActive:          true,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	s.warehouses[fixtureWarehouse] = &entity.Warehouse{
		ID:        fixtureWarehouse,
		CompanyID: fixtureCompanyID,
		Name:      "Bodega Principal",
		Code:      "BOD-01",
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	s.suppliers[fixtureSupplier] = &entity.Supplier{
		ID:        fixtureSupplier,
		CompanyID: fixtureCompanyID,
		Name:      "Proveedor de prueba",
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	return &fixture{
		store:     s,
		txRunner:  &memTxRunner{s: s},
		products:  &memProductRepo{s},
		warehouse: &memWarehouseRepo{s},
		suppliers: &memSupplierRepo{s},
		stock:     &memStockLevelRepo{s},
		movements: &memMovementRepo{s},
		adjRepo:   &memAdjustmentRepo{s},
		poRepo:    &memPurchaseOrderRepo{s},
		log:       logger.New(logger.Config{Env: "development", Level: "error"}),
	}
}

func (f *fixture) recordUC() *inventory.RecordMovementUseCase {
	return inventory.NewRecordMovementUseCase(f.txRunner, f.products, f.warehouse, f.log)
}

func (f *fixture) bulkUC() *inventory.BulkUpdateUseCase {
	return inventory.NewBulkUpdateUseCase(f.txRunner, f.products, f.warehouse, f.log)
}

func (f *fixture) adjustmentUC() *inventory.AdjustmentUseCase {
	return inventory.NewAdjustmentUseCase(f.txRunner, f.adjRepo, f.products, f.warehouse, f.log)
}

func (f *fixture) purchaseUC() *inventory.PurchaseOrderUseCase {
	return inventory.NewPurchaseOrderUseCase(f.txRunner, f.poRepo, f.products, f.warehouse, f.suppliers, f.log)
}

func (f *fixture) queryUC() *inventory.QueryUseCase {
	return inventory.NewQueryUseCase(f.movements, f.stock, f.products, f.adjRepo, f.poRepo)
}

// onHand devuelve el stock en mano actual del par producto+bodega.
func (f *fixture) onHand(productID, warehouseID string) int64 {
	if level, ok := f.store.levels[levelKey(productID, warehouseID)]; ok {
		return level.QuantityOnHand
	}
	return 0
}

// Interfaz satisfecha por los fakes (falla en compilación si divergen).
var (
	_ repository.ProductRepository         = (*memProductRepo)(nil)
	_ repository.WarehouseRepository       = (*memWarehouseRepo)(nil)
	_ repository.SupplierRepository        = (*memSupplierRepo)(nil)
	_ repository.StockLevelRepository      = (*memStockLevelRepo)(nil)
	_ repository.StockMovementRepository   = (*memMovementRepo)(nil)
	_ repository.StockAdjustmentRepository = (*memAdjustmentRepo)(nil)
	_ repository.PurchaseOrderRepository   = (*memPurchaseOrderRepo)(nil)
	_ repository.SequenceRepository        = (*memSequenceRepo)(nil)
	_ inventory.TxRunner                   = (*memTxRunner)(nil)
)

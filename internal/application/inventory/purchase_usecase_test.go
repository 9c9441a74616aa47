package inventory_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nexware/stockflow-api/internal/application/inventory"
	"github.com/nexware/stockflow-api/internal/domain"
	"github.com/nexware/stockflow-api/internal/domain/entity"
)

func createPOInput(lines ...inventory.PurchaseOrderLineInput) inventory.CreatePurchaseOrderInput {
	return inventory.CreatePurchaseOrderInput{
		CompanyID:   fixtureCompanyID,
		UserID:      fixtureUserID,
		SupplierID:  fixtureSupplier,
		WarehouseID: fixtureWarehouse,
		Lines:       lines,
	}
}

func TestCreatePurchaseOrder_CalculaTotalesYOnOrder(t *testing.T) {
	f := newFixture()
	uc := f.purchaseUC()

	po, err := uc.CreatePurchaseOrder(context.Background(), createPOInput(
		inventory.PurchaseOrderLineInput{
			ProductID:       fixtureProductID,
			QuantityOrdered: 100,
			UnitPrice:       decimal.NewFromFloat(2.50),
		},
	))
	require.NoError(t, err)

	expected := fmt.Sprintf("PO-%s-0001", time.Now().Format("20060102"))
	assert.Equal(t, expected, po.PONumber)
	assert.Equal(t, entity.POStatusDraft, po.Status)
	assert.True(t, po.Subtotal.Equal(decimal.NewFromInt(250)), "subtotal = 100 * 2.50")
	assert.True(t, po.TotalAmount.Equal(decimal.NewFromInt(250)))

	// La cantidad pedida queda en camino, no en mano.
	level := f.store.levels[levelKey(fixtureProductID, fixtureWarehouse)]
	require.NotNil(t, level)
	assert.Equal(t, int64(100), level.QuantityOnOrder)
	assert.Equal(t, int64(0), level.QuantityOnHand)
}

func TestCreatePurchaseOrder_ProveedorAjeno_EsNotFound(t *testing.T) {
	f := newFixture()
	uc := f.purchaseUC()

	in := createPOInput(inventory.PurchaseOrderLineInput{
		ProductID: fixtureProductID, QuantityOrdered: 1, UnitPrice: decimal.NewFromInt(1),
	})
	in.SupplierID = "no-existe"
	_, err := uc.CreatePurchaseOrder(context.Background(), in)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCreatePurchaseOrder_CantidadCero_EsInvalida(t *testing.T) {
	f := newFixture()
	uc := f.purchaseUC()

	_, err := uc.CreatePurchaseOrder(context.Background(), createPOInput(
		inventory.PurchaseOrderLineInput{ProductID: fixtureProductID, QuantityOrdered: 0, UnitPrice: decimal.NewFromInt(1)},
	))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// createSentPO crea una orden de 100 unidades y la marca como enviada.
func createSentPO(t *testing.T, f *fixture, uc *inventory.PurchaseOrderUseCase) *entity.PurchaseOrder {
	t.Helper()
	po, err := uc.CreatePurchaseOrder(context.Background(), createPOInput(
		inventory.PurchaseOrderLineInput{
			ProductID:       fixtureProductID,
			QuantityOrdered: 100,
			UnitPrice:       decimal.NewFromInt(3),
		},
	))
	require.NoError(t, err)
	require.NoError(t, uc.MarkSent(context.Background(), fixtureCompanyID, po.ID))
	return po
}

func TestReceivePurchaseOrder_RecepcionParcial(t *testing.T) {
	f := newFixture()
	uc := f.purchaseUC()
	po := createSentPO(t, f, uc)

	result, err := uc.ReceivePurchaseOrder(context.Background(), inventory.ReceiveInput{
		CompanyID:       fixtureCompanyID,
		UserID:          fixtureUserID,
		PurchaseOrderID: po.ID,
		Items:           []inventory.ReceiveItem{{ProductID: fixtureProductID, Quantity: 40}},
	})
	require.NoError(t, err)

	assert.Equal(t, 1, result.ReceivedCount)
	assert.Empty(t, result.Errors)
	assert.Equal(t, entity.POStatusPartiallyReceived, result.Status)

	assert.Equal(t, int64(40), f.onHand(fixtureProductID, fixtureWarehouse))
	level := f.store.levels[levelKey(fixtureProductID, fixtureWarehouse)]
	assert.Equal(t, int64(60), level.QuantityOnOrder, "lo recibido deja de estar en camino")

	// El movimiento del ledger referencia al PO y toma el costo de la línea.
	require.Len(t, f.store.movements, 1)
	mov := f.store.movements[0]
	assert.Equal(t, entity.MovementTypeIn, mov.Type)
	assert.Equal(t, entity.ReferencePurchaseOrder, mov.ReferenceType)
	assert.Equal(t, po.PONumber, mov.ReferenceID)
	require.NotNil(t, mov.UnitCost)
	assert.True(t, mov.UnitCost.Equal(decimal.NewFromInt(3)))
}

func TestReceivePurchaseOrder_RecepcionTotal_CierraLaOrden(t *testing.T) {
	f := newFixture()
	uc := f.purchaseUC()
	po := createSentPO(t, f, uc)

	receive := func(qty int64) *inventory.ReceiveResult {
		result, err := uc.ReceivePurchaseOrder(context.Background(), inventory.ReceiveInput{
			CompanyID:       fixtureCompanyID,
			UserID:          fixtureUserID,
			PurchaseOrderID: po.ID,
			Items:           []inventory.ReceiveItem{{ProductID: fixtureProductID, Quantity: qty}},
		})
		require.NoError(t, err)
		return result
	}

	assert.Equal(t, entity.POStatusPartiallyReceived, receive(60).Status)
	assert.Equal(t, entity.POStatusReceived, receive(40).Status)
	assert.Equal(t, int64(100), f.onHand(fixtureProductID, fixtureWarehouse))

	// Una orden cerrada ya no admite recepciones.
	_, err := uc.ReceivePurchaseOrder(context.Background(), inventory.ReceiveInput{
		CompanyID:       fixtureCompanyID,
		UserID:          fixtureUserID,
		PurchaseOrderID: po.ID,
		Items:           []inventory.ReceiveItem{{ProductID: fixtureProductID, Quantity: 1}},
	})
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestReceivePurchaseOrder_SobreRecepcion_SeRechazaPorItem(t *testing.T) {
	f := newFixture()
	uc := f.purchaseUC()
	po := createSentPO(t, f, uc)

	result, err := uc.ReceivePurchaseOrder(context.Background(), inventory.ReceiveInput{
		CompanyID:       fixtureCompanyID,
		UserID:          fixtureUserID,
		PurchaseOrderID: po.ID,
		Items:           []inventory.ReceiveItem{{ProductID: fixtureProductID, Quantity: 150}},
	})
	require.NoError(t, err, "la sobre-recepción es error de ítem, no de lote")

	assert.Equal(t, 0, result.ReceivedCount)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, int64(0), f.onHand(fixtureProductID, fixtureWarehouse),
		"el ítem rechazado no debe tocar el stock")
	assert.Empty(t, f.store.movements)
}

func TestReceivePurchaseOrder_EnBorrador_EsConflict(t *testing.T) {
	f := newFixture()
	uc := f.purchaseUC()

	po, err := uc.CreatePurchaseOrder(context.Background(), createPOInput(
		inventory.PurchaseOrderLineInput{ProductID: fixtureProductID, QuantityOrdered: 10, UnitPrice: decimal.NewFromInt(1)},
	))
	require.NoError(t, err)

	_, err = uc.ReceivePurchaseOrder(context.Background(), inventory.ReceiveInput{
		CompanyID:       fixtureCompanyID,
		UserID:          fixtureUserID,
		PurchaseOrderID: po.ID,
		Items:           []inventory.ReceiveItem{{ProductID: fixtureProductID, Quantity: 5}},
	})
	assert.ErrorIs(t, err, domain.ErrConflict, "un borrador no admite recepciones")
}

func TestMarkSent_SoloDesdeBorrador(t *testing.T) {
	f := newFixture()
	uc := f.purchaseUC()
	po := createSentPO(t, f, uc)

	err := uc.MarkSent(context.Background(), fixtureCompanyID, po.ID)
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestMarkSent_ChequeoYTransicionCompartenTransaccion(t *testing.T) {
	f := newFixture()
	uc := f.purchaseUC()

	po, err := uc.CreatePurchaseOrder(context.Background(), createPOInput(
		inventory.PurchaseOrderLineInput{ProductID: fixtureProductID, QuantityOrdered: 10, UnitPrice: decimal.NewFromInt(1)},
	))
	require.NoError(t, err)

	before := f.txRunner.purchCount
	require.NoError(t, uc.MarkSent(context.Background(), fixtureCompanyID, po.ID))
	// La lectura del estado y el UPDATE van en la misma tx, no por fuera de ella.
	assert.Equal(t, before+1, f.txRunner.purchCount)
	assert.Equal(t, entity.POStatusSent, f.store.pos[po.ID].Status)

	err = uc.MarkSent(context.Background(), "otra-empresa", po.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestRefreshStatus_DerivaElEstadoDentroDeUnaTransaccion(t *testing.T) {
	f := newFixture()
	uc := f.purchaseUC()
	po := createSentPO(t, f, uc)

	before := f.txRunner.purchCount
	result, err := uc.ReceivePurchaseOrder(context.Background(), inventory.ReceiveInput{
		CompanyID:       fixtureCompanyID,
		UserID:          fixtureUserID,
		PurchaseOrderID: po.ID,
		Items:           []inventory.ReceiveItem{{ProductID: fixtureProductID, Quantity: 40}},
	})
	require.NoError(t, err)
	assert.Equal(t, entity.POStatusPartiallyReceived, result.Status)

	// Una tx por ítem recibido más una para derivar el estado de la cabecera.
	assert.Equal(t, before+2, f.txRunner.purchCount)
	assert.Equal(t, entity.POStatusPartiallyReceived, f.store.pos[po.ID].Status)
}

func TestStats_CuentaPendientesYAbiertas(t *testing.T) {
	f := newFixture()
	poUC := f.purchaseUC()
	adjUC := f.adjustmentUC()
	query := f.queryUC()

	_ = createSentPO(t, f, poUC)
	_, err := adjUC.CreateAdjustment(context.Background(), createAdjustmentInput(
		inventory.AdjustmentLineInput{ProductID: fixtureProductID, ExpectedQuantity: 0, ActualQuantity: 5},
	))
	require.NoError(t, err)

	stats, err := query.Stats(context.Background(), fixtureCompanyID)
	require.NoError(t, err)

	assert.Equal(t, 1, stats.TotalProducts)
	assert.Equal(t, 1, stats.PendingAdjustments)
	assert.Equal(t, 1, stats.OpenPurchaseOrders)
	assert.Equal(t, 1, stats.OutOfStockProducts, "sin stock en mano cuenta como agotado")
	assert.True(t, stats.TotalStockValue.IsZero())
}

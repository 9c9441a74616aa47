package inventory_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nexware/stockflow-api/internal/application/inventory"
	"github.com/nexware/stockflow-api/internal/domain"
	"github.com/nexware/stockflow-api/internal/domain/entity"
)

func TestBulkUpdate_FijaCantidadObjetivo(t *testing.T) {
	f := newFixture()
	uc := f.bulkUC()

	result, err := uc.BulkUpdate(context.Background(), inventory.BulkUpdateInput{
		CompanyID:   fixtureCompanyID,
		UserID:      fixtureUserID,
		WarehouseID: fixtureWarehouse,
		Items:       []inventory.BulkUpdateItem{{ProductID: fixtureProductID, NewQuantity: 42}},
	})
	require.NoError(t, err)

	assert.Equal(t, 1, result.UpdatedCount)
	assert.Empty(t, result.Errors)
	assert.Equal(t, int64(42), f.onHand(fixtureProductID, fixtureWarehouse),
		"el stock debe quedar exactamente en la cantidad objetivo")

	// El movimiento posteado es un ajuste con el delta y el snapshot objetivo.
	require.Len(t, f.store.movements, 1)
	mov := f.store.movements[0]
	assert.Equal(t, entity.MovementTypeAdjustment, mov.Type)
	assert.Equal(t, int64(42), mov.Quantity)
	assert.Equal(t, int64(42), mov.StockAfterMovement)
	assert.Equal(t, "Bulk update", mov.Reason, "sin motivo explícito aplica el default")
}

func TestBulkUpdate_SinDiferencia_NoPosteaNiCuenta(t *testing.T) {
	f := newFixture()
	uc := f.bulkUC()

	in := inventory.BulkUpdateInput{
		CompanyID:   fixtureCompanyID,
		UserID:      fixtureUserID,
		WarehouseID: fixtureWarehouse,
		Items:       []inventory.BulkUpdateItem{{ProductID: fixtureProductID, NewQuantity: 30}},
	}
	_, err := uc.BulkUpdate(context.Background(), in)
	require.NoError(t, err)

	// Segunda pasada con la misma cantidad objetivo: diferencia 0.
	result, err := uc.BulkUpdate(context.Background(), in)
	require.NoError(t, err)
	assert.Equal(t, 0, result.UpdatedCount)
	assert.Empty(t, result.Errors)
	assert.Len(t, f.store.movements, 1, "la diferencia 0 no debe generar movimiento")
}

func TestBulkUpdate_ExitoParcial_RecolectaErrores(t *testing.T) {
	f := newFixture()
	uc := f.bulkUC()

	result, err := uc.BulkUpdate(context.Background(), inventory.BulkUpdateInput{
		CompanyID:   fixtureCompanyID,
		UserID:      fixtureUserID,
		WarehouseID: fixtureWarehouse,
		Items: []inventory.BulkUpdateItem{
			{ProductID: fixtureProductID, NewQuantity: 10},
			{ProductID: "no-existe", NewQuantity: 5},
			{ProductID: fixtureProductID, NewQuantity: -1},
		},
	})
	require.NoError(t, err, "el lote no aborta por errores de ítem")

	assert.Equal(t, 1, result.UpdatedCount)
	assert.Len(t, result.Errors, 2)
	assert.Equal(t, int64(10), f.onHand(fixtureProductID, fixtureWarehouse),
		"los ítems válidos se aplican aunque otros fallen")
}

func TestBulkUpdate_BodegaInexistente_AbortaTodo(t *testing.T) {
	f := newFixture()
	uc := f.bulkUC()

	_, err := uc.BulkUpdate(context.Background(), inventory.BulkUpdateInput{
		CompanyID:   fixtureCompanyID,
		UserID:      fixtureUserID,
		WarehouseID: "no-existe",
		Items:       []inventory.BulkUpdateItem{{ProductID: fixtureProductID, NewQuantity: 5}},
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Empty(t, f.store.movements)
}

func TestBulkUpdate_SinItems_EsInvalido(t *testing.T) {
	f := newFixture()
	uc := f.bulkUC()

	_, err := uc.BulkUpdate(context.Background(), inventory.BulkUpdateInput{
		CompanyID:   fixtureCompanyID,
		UserID:      fixtureUserID,
		WarehouseID: fixtureWarehouse,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

package entity_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/nexware/stockflow-api/internal/domain/entity"
)

func TestStockAdjustmentLine_RecomputeDifference(t *testing.T) {
	line := entity.StockAdjustmentLine{ExpectedQuantity: 50, ActualQuantity: 47}
	line.RecomputeDifference()
	assert.Equal(t, int64(-3), line.Difference)

	line.ActualQuantity = 55
	line.RecomputeDifference()
	assert.Equal(t, int64(5), line.Difference)
}

func TestStockAdjustment_IsApproved(t *testing.T) {
	var a entity.StockAdjustment
	assert.False(t, a.IsApproved())

	by := "user-1"
	a.ApprovedBy = &by
	assert.True(t, a.IsApproved())
}

func TestStockLevel_AvailableQuantity(t *testing.T) {
	level := entity.StockLevel{QuantityOnHand: 10, QuantityReserved: 4}
	assert.Equal(t, int64(6), level.AvailableQuantity())

	// Reservado por encima de lo que hay en mano: disponible con piso 0.
	level.QuantityReserved = 15
	assert.Equal(t, int64(0), level.AvailableQuantity())
}

func TestIsInbound(t *testing.T) {
	assert.True(t, entity.IsInbound(entity.MovementTypeIn))
	assert.True(t, entity.IsInbound(entity.MovementTypeReturn))
	assert.False(t, entity.IsInbound(entity.MovementTypeOut))
	assert.False(t, entity.IsInbound(entity.MovementTypeDamaged))
	assert.False(t, entity.IsInbound(entity.MovementTypeExpired))
	assert.False(t, entity.IsInbound(entity.MovementTypeAdjustment))
}

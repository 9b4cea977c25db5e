package statemachine

import (
	"testing"

	"dosakart-api/models"

	"github.com/stretchr/testify/assert"
)

func TestCanTransition_HappyPath(t *testing.T) {
	assert.NoError(t, CanTransition(models.StatusPlaced, models.StatusConfirmed, "admin"))
	assert.NoError(t, CanTransition(models.StatusConfirmed, models.StatusPacked, "admin"))
	assert.NoError(t, CanTransition(models.StatusPacked, models.StatusOutForDelivery, "driver"))
	assert.NoError(t, CanTransition(models.StatusOutForDelivery, models.StatusDelivered, "driver"))
}

func TestCanTransition_ActorGating(t *testing.T) {
	// Customers cannot confirm or deliver
	assert.Error(t, CanTransition(models.StatusPlaced, models.StatusConfirmed, "customer"))
	assert.Error(t, CanTransition(models.StatusOutForDelivery, models.StatusDelivered, "customer"))

	// Drivers cannot cancel
	assert.Error(t, CanTransition(models.StatusPlaced, models.StatusCancelled, "driver"))

	// Customers can cancel early states only
	assert.NoError(t, CanTransition(models.StatusPlaced, models.StatusCancelled, "customer"))
	assert.NoError(t, CanTransition(models.StatusConfirmed, models.StatusCancelled, "customer"))
	assert.Error(t, CanTransition(models.StatusPacked, models.StatusCancelled, "customer"))
}

func TestCanTransition_TerminalStates(t *testing.T) {
	assert.Error(t, CanTransition(models.StatusDelivered, models.StatusPlaced, "admin"))
	assert.Error(t, CanTransition(models.StatusCancelled, models.StatusConfirmed, "admin"))
	assert.Empty(t, ValidTransitionsFrom(models.StatusDelivered))
	assert.Empty(t, ValidTransitionsFrom(models.StatusCancelled))
}

func TestValidTransitionsFrom(t *testing.T) {
	nexts := ValidTransitionsFrom(models.StatusConfirmed)
	assert.ElementsMatch(t, []models.OrderStatus{models.StatusPacked, models.StatusCancelled}, nexts)
}

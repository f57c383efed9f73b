package models_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ecocycle/backend/models"
)

func TestCanTransitionTo(t *testing.T) {
	all := []models.OrderStatus{
		models.StatusProcessing,
		models.StatusShipped,
		models.StatusDelivered,
		models.StatusCancelled,
	}

	legal := map[models.OrderStatus][]models.OrderStatus{
		models.StatusProcessing: {models.StatusShipped, models.StatusCancelled},
		models.StatusShipped:    {models.StatusDelivered, models.StatusCancelled},
		models.StatusDelivered:  {},
		models.StatusCancelled:  {},
	}

	for from, allowed := range legal {
		allowedSet := map[models.OrderStatus]bool{}
		for _, s := range allowed {
			allowedSet[s] = true
		}
		for _, to := range all {
			got := from.CanTransitionTo(to)
			assert.Equal(t, allowedSet[to], got, "transition %s -> %s", from, to)
		}
	}
}

func TestTransitionToSelfIsIllegal(t *testing.T) {
	for _, s := range []models.OrderStatus{
		models.StatusProcessing,
		models.StatusShipped,
		models.StatusDelivered,
		models.StatusCancelled,
	} {
		assert.False(t, s.CanTransitionTo(s), "self transition for %s", s)
	}
}

func TestTerminal(t *testing.T) {
	assert.False(t, models.StatusProcessing.Terminal())
	assert.False(t, models.StatusShipped.Terminal())
	assert.True(t, models.StatusDelivered.Terminal())
	assert.True(t, models.StatusCancelled.Terminal())
}

func TestValid(t *testing.T) {
	assert.True(t, models.StatusProcessing.Valid())
	assert.False(t, models.OrderStatus("refunded").Valid())
	assert.False(t, models.OrderStatus("").Valid())
}

func TestLabel(t *testing.T) {
	assert.Equal(t, "Processing", models.StatusProcessing.Label())
	assert.Equal(t, "Shipped", models.StatusShipped.Label())
	assert.Equal(t, "Delivered", models.StatusDelivered.Label())
	assert.Equal(t, "Cancelled", models.StatusCancelled.Label())
	assert.Equal(t, "Unknown", models.OrderStatus("refunded").Label())
}

func TestItemCount(t *testing.T) {
	order := models.Order{
		Items: []models.OrderItem{
			{ProductID: "1", Quantity: 1},
			{ProductID: "2", Quantity: 2},
		},
	}
	assert.Equal(t, 3, order.ItemCount())
}

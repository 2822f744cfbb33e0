package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOrderStatusTransitions(t *testing.T) {
	cases := []struct {
		from, to OrderStatus
		allowed  bool
	}{
		{OrderStatusPending, OrderStatusPaid, true},
		{OrderStatusPending, OrderStatusCancelled, true},
		{OrderStatusPending, OrderStatusShipped, false},
		{OrderStatusPending, OrderStatusDelivered, false},
		{OrderStatusPaid, OrderStatusShipped, true},
		{OrderStatusPaid, OrderStatusCancelled, true},
		{OrderStatusPaid, OrderStatusDelivered, false},
		{OrderStatusPaid, OrderStatusPending, false},
		{OrderStatusShipped, OrderStatusDelivered, true},
		{OrderStatusShipped, OrderStatusCancelled, false},
		{OrderStatusDelivered, OrderStatusCancelled, false},
		{OrderStatusDelivered, OrderStatusPending, false},
		{OrderStatusCancelled, OrderStatusPaid, false},
		{OrderStatusCancelled, OrderStatusPending, false},
	}

	for _, tc := range cases {
		got := tc.from.CanTransitionTo(tc.to)
		assert.Equal(t, tc.allowed, got, "%s -> %s", tc.from, tc.to)
	}
}

func TestOrderStatusAtLeastPaid(t *testing.T) {
	assert.False(t, OrderStatusPending.AtLeastPaid())
	assert.True(t, OrderStatusPaid.AtLeastPaid())
	assert.True(t, OrderStatusShipped.AtLeastPaid())
	assert.True(t, OrderStatusDelivered.AtLeastPaid())
	assert.False(t, OrderStatusCancelled.AtLeastPaid())
}

func TestParseOrderStatus(t *testing.T) {
	status, err := ParseOrderStatus("Paid")
	assert.NoError(t, err)
	assert.Equal(t, OrderStatusPaid, status)

	_, err = ParseOrderStatus("refunded")
	assert.Error(t, err)
}

func TestShippingStatusRank(t *testing.T) {
	assert.Less(t, ShippingStatusPending.Rank(), ShippingStatusInTransit.Rank())
	assert.Less(t, ShippingStatusInTransit.Rank(), ShippingStatusDelivered.Rank())
}

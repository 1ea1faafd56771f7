package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ordersdomain "github.com/Apurer/order-tracker/internal/domains/orders/domain"
)

func TestParseTimeOrdered(t *testing.T) {
	got, err := ParseTimeOrdered("Tue 18 Sep 2018 12:00:00", time.UTC)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2018, time.September, 18, 12, 0, 0, 0, time.UTC), got)

	_, err = ParseTimeOrdered("yesterday", time.UTC)
	require.Error(t, err)
}

func TestNewTrackedOrder_StartsUnknown(t *testing.T) {
	order, err := NewTrackedOrder(Observation{
		OrderID:     2,
		StatusImage: ordersdomain.StatusCooking.Image(),
		TimeOrdered: "Tue 19 Sep 2018 15:10:00",
	}, time.UTC)
	require.NoError(t, err)
	assert.Equal(t, ordersdomain.StatusUnknown, order.Status)
	assert.Equal(t, ordersdomain.StatusCooking.Image(), order.StatusImage)

	assert.True(t, order.Observe(order.StatusImage))
	assert.Equal(t, ordersdomain.StatusCooking, order.Status)
}

func TestTrackedOrder_Observe(t *testing.T) {
	order := TrackedOrder{Status: ordersdomain.StatusReviewing}

	assert.False(t, order.Observe(ordersdomain.StatusReviewing.Image()))
	assert.True(t, order.Observe(ordersdomain.StatusOutForDelivery.Image()))
	assert.Equal(t, ordersdomain.StatusOutForDelivery, order.Status)
	assert.True(t, order.Observe("/somewhere/else.png"))
	assert.Equal(t, ordersdomain.StatusUnknown, order.Status)
}

func TestTrackedOrder_Expired(t *testing.T) {
	placed := time.Date(2018, time.September, 18, 12, 0, 0, 0, time.UTC)
	later := placed.Add(Retention + time.Minute)

	delivered := TrackedOrder{TimeOrdered: placed, Status: ordersdomain.StatusDelivered}
	cooking := TrackedOrder{TimeOrdered: placed, Status: ordersdomain.StatusCooking}

	assert.True(t, delivered.Expired(later))
	assert.False(t, delivered.Expired(placed.Add(time.Hour)))
	assert.True(t, cooking.Expired(later))
	assert.False(t, cooking.Expired(placed.Add(Retention)))
}

func TestChange_Message(t *testing.T) {
	change := Change{OrderID: 7, Status: ordersdomain.StatusOutForDelivery}
	assert.Equal(t, "Order #7\nThe driver is heading to your house!", change.Message())
}

func TestNotable(t *testing.T) {
	for s := ordersdomain.StatusDeferred; s <= ordersdomain.StatusUnknown; s++ {
		want := s == ordersdomain.StatusCooking || s == ordersdomain.StatusOutForDelivery
		assert.Equal(t, want, Notable(s), s.String())
	}
}

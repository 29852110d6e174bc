package db

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"example.com/backstage/services/routedelivery/internal/model"
)

func TestSeedOrders(t *testing.T) {
	customers := seedCustomers()
	for i := range customers {
		customers[i].ID = uint(i + 1)
	}
	products := seedProducts()
	for i := range products {
		products[i].ID = uint(i + 1)
	}
	now := time.Date(2024, 5, 10, 15, 30, 0, 0, time.UTC)

	orders := seedOrders(1, customers, products, now)
	require.Len(t, orders, 5)

	counts := map[model.OrderStatus]int{}
	for _, order := range orders {
		counts[order.Status]++

		total := decimal.Zero
		for _, item := range order.Items {
			assert.True(t, item.TotalAmount.Equal(item.Price.Mul(decimal.NewFromInt(int64(item.Quantity)))))
			total = total.Add(item.TotalAmount)
		}
		assert.True(t, total.Equal(order.TotalAmount), order.OrderNumber)
		assert.Equal(t, 2024, order.ScheduledDate.Year())
		assert.Equal(t, 10, order.ScheduledDate.Day())
	}

	assert.Equal(t, 2, counts[model.PendingOrderStatus])
	assert.Equal(t, 2, counts[model.DeliveredOrderStatus])
	assert.Equal(t, 1, counts[model.NotDeliveredOrderStatus])
	assert.Equal(t, "ORD-001", orders[0].OrderNumber)
	assert.Nil(t, orders[0].DeliveredAt)
	assert.NotNil(t, orders[2].DeliveredAt)
	assert.True(t, orders[2].DeliveredAmount.Equal(orders[2].TotalAmount))
}

func TestSeedCustomersWeeklyPattern(t *testing.T) {
	for _, c := range seedCustomers() {
		assert.Len(t, c.WeeklyPattern, 7, c.Name)
	}
}

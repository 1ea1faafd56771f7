package mapper

import (
	ordersdomain "github.com/Apurer/order-tracker/internal/domains/orders/domain"
)

// Order is the public projection of a tracked order. Status is exposed only
// through its image.
type Order struct {
	ID          int64
	TrackerLink string
	StatusImage string
	TimeOrdered string
}

// FromDomainOrder converts a domain order to the transport representation.
func FromDomainOrder(order *ordersdomain.Order) Order {
	if order == nil {
		return Order{}
	}
	return Order{
		ID:          order.ID,
		TrackerLink: order.TrackerLink,
		StatusImage: order.Status.Image(),
		TimeOrdered: order.TimeOrdered,
	}
}

// FromDomainOrders converts a list, preserving order.
func FromDomainOrders(orders []*ordersdomain.Order) []Order {
	result := make([]Order, 0, len(orders))
	for _, order := range orders {
		if order == nil {
			continue
		}
		result = append(result, FromDomainOrder(order))
	}
	return result
}

package ports

import (
	"context"

	"github.com/Apurer/order-tracker/internal/domains/orders/domain"
)

// Service exposes order tracking use cases to adapters.
type Service interface {
	// AdvanceOrder moves one order a single step and returns its new state.
	AdvanceOrder(ctx context.Context, id int64) (*domain.Order, error)
	ListOrders(ctx context.Context) ([]*domain.Order, error)
	// SweepOrders runs the randomized advance over every order.
	SweepOrders(ctx context.Context) (*domain.SweepResult, error)
}

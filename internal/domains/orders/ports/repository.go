package ports

import (
	"context"
	"errors"

	"github.com/Apurer/order-tracker/internal/domains/orders/domain"
)

var ErrNotFound = errors.New("order not found")

// MutateFunc changes an order in place and reports whether it should be written back.
type MutateFunc func(order *domain.Order) (changed bool, err error)

// Repository stores the fixed set of tracked orders in insertion order.
// It never creates orders on its own: Save and Update only touch existing entries.
type Repository interface {
	Reset(ctx context.Context, orders []*domain.Order) error
	Save(ctx context.Context, order *domain.Order) (*domain.Order, error)
	// Update reads, mutates and writes one order atomically with respect to
	// every other writer of the same store, including other processes.
	Update(ctx context.Context, id int64, mutate MutateFunc) (*domain.Order, error)
	GetByID(ctx context.Context, id int64) (*domain.Order, error)
	List(ctx context.Context) ([]*domain.Order, error)
}

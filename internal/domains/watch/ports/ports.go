package ports

import (
	"context"

	"github.com/Apurer/order-tracker/internal/domains/watch/domain"
)

// Source yields the tracker's current view of every order.
type Source interface {
	Observe(ctx context.Context) ([]domain.Observation, error)
}

// StateStore keeps tracked orders between polls.
type StateStore interface {
	List(ctx context.Context) ([]domain.TrackedOrder, error)
	Save(ctx context.Context, order domain.TrackedOrder) error
	Delete(ctx context.Context, ids ...int64) error
}

// Notifier delivers status change notifications.
type Notifier interface {
	Notify(ctx context.Context, change domain.Change) error
}

package memory

import (
	"context"
	"errors"
	"sync"

	"github.com/Apurer/order-tracker/internal/domains/orders/domain"
	"github.com/Apurer/order-tracker/internal/domains/orders/ports"
)

var _ ports.Repository = (*Repository)(nil)

// Repository is an in-memory, insertion-ordered order store.
type Repository struct {
	mu     sync.RWMutex
	orders []*domain.Order
}

// NewRepository returns a repository holding copies of seed.
func NewRepository(seed ...*domain.Order) *Repository {
	r := &Repository{}
	_ = r.Reset(context.Background(), seed)
	return r
}

func (r *Repository) Reset(_ context.Context, orders []*domain.Order) error {
	list := make([]*domain.Order, 0, len(orders))
	for _, order := range orders {
		if order == nil {
			return errors.New("order is nil")
		}
		if err := order.Validate(); err != nil {
			return err
		}
		clone := *order
		list = append(list, &clone)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.orders = list
	return nil
}

func (r *Repository) Save(_ context.Context, order *domain.Order) (*domain.Order, error) {
	if order == nil {
		return nil, errors.New("order is nil")
	}
	if err := order.Validate(); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	i := r.indexOf(order.ID)
	if i < 0 {
		return nil, ports.ErrNotFound
	}
	clone := *order
	r.orders[i] = &clone
	result := clone
	return &result, nil
}

// Update runs mutate under the write lock.
func (r *Repository) Update(_ context.Context, id int64, mutate ports.MutateFunc) (*domain.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	i := r.indexOf(id)
	if i < 0 {
		return nil, ports.ErrNotFound
	}
	clone := *r.orders[i]
	changed, err := mutate(&clone)
	if err != nil {
		return nil, err
	}
	if changed {
		if err := clone.Validate(); err != nil {
			return nil, err
		}
		stored := clone
		r.orders[i] = &stored
	}
	return &clone, nil
}

func (r *Repository) GetByID(_ context.Context, id int64) (*domain.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	i := r.indexOf(id)
	if i < 0 {
		return nil, ports.ErrNotFound
	}
	clone := *r.orders[i]
	return &clone, nil
}

func (r *Repository) List(_ context.Context) ([]*domain.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	list := make([]*domain.Order, 0, len(r.orders))
	for _, order := range r.orders {
		clone := *order
		list = append(list, &clone)
	}
	return list, nil
}

// indexOf scans linearly; callers hold the lock.
func (r *Repository) indexOf(id int64) int {
	for i, order := range r.orders {
		if order.ID == id {
			return i
		}
	}
	return -1
}

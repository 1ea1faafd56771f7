package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/Apurer/order-tracker/internal/domains/watch/domain"
	"github.com/Apurer/order-tracker/internal/domains/watch/ports"
)

// StateStore keeps tracked orders in process memory.
type StateStore struct {
	mu     sync.RWMutex
	orders map[int64]domain.TrackedOrder
}

// NewStateStore creates an empty store.
func NewStateStore() *StateStore {
	return &StateStore{orders: make(map[int64]domain.TrackedOrder)}
}

// List returns tracked orders sorted by id.
func (s *StateStore) List(_ context.Context) ([]domain.TrackedOrder, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.TrackedOrder, 0, len(s.orders))
	for _, order := range s.orders {
		out = append(out, order)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].OrderID < out[j].OrderID })
	return out, nil
}

// Save inserts or replaces a tracked order.
func (s *StateStore) Save(_ context.Context, order domain.TrackedOrder) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.orders[order.OrderID] = order
	return nil
}

// Delete forgets the given orders; unknown ids are ignored.
func (s *StateStore) Delete(_ context.Context, ids ...int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, id := range ids {
		delete(s.orders, id)
	}
	return nil
}

var _ ports.StateStore = (*StateStore)(nil)

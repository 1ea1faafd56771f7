package application

import (
	"context"
	"fmt"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/Apurer/order-tracker/internal/domains/orders/domain"
	"github.com/Apurer/order-tracker/internal/domains/orders/ports"
)

// Service orchestrates order tracking use cases.
type Service struct {
	repo ports.Repository
	gate *domain.AdvanceGate
	// mu keeps sweeps in one process from interleaving their gate draws.
	// Cross-process safety comes from Repository.Update.
	mu sync.Mutex
}

type Option func(*Service)

// WithAdvanceGate overrides the gate used by SweepOrders.
func WithAdvanceGate(gate *domain.AdvanceGate) Option {
	return func(s *Service) {
		if gate != nil {
			s.gate = gate
		}
	}
}

func NewService(repo ports.Repository, opts ...Option) *Service {
	s := &Service{repo: repo}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	if s.gate == nil {
		s.gate = NewRandomGate(domain.DefaultAdvanceThreshold, 0)
	}
	return s
}

// NewRandomGate builds an AdvanceGate backed by a time-seeded PCG source.
func NewRandomGate(threshold, step int) *domain.AdvanceGate {
	seed := uint64(time.Now().UnixNano())
	return domain.NewAdvanceGate(rand.New(rand.NewPCG(seed, seed>>1|1)), threshold, step)
}

func (s *Service) AdvanceOrder(ctx context.Context, id int64) (*domain.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.repo.Update(ctx, id, func(order *domain.Order) (bool, error) {
		changed := order.Advance()
		if err := order.Validate(); err != nil {
			return false, mapError(err)
		}
		return changed, nil
	})
}

func (s *Service) ListOrders(ctx context.Context) ([]*domain.Order, error) {
	return s.repo.List(ctx)
}

func (s *Service) SweepOrders(ctx context.Context) (*domain.SweepResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	orders, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	result := &domain.SweepResult{Examined: len(orders)}
	for _, listed := range orders {
		advanced := false
		_, err := s.repo.Update(ctx, listed.ID, func(order *domain.Order) (bool, error) {
			if !s.gate.ShouldAdvance(order.Status) {
				return false, nil
			}
			advanced = order.Advance()
			return advanced, nil
		})
		if err != nil {
			return result, fmt.Errorf("advance order %d: %w", listed.ID, err)
		}
		if advanced {
			result.Advanced = append(result.Advanced, listed.ID)
		}
	}
	return result, nil
}

var _ ports.Service = (*Service)(nil)

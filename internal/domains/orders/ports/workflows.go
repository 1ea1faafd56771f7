package ports

import (
	"context"

	"github.com/Apurer/order-tracker/internal/domains/orders/domain"
)

// ProgressionOrchestrator runs the sweep that follows a listing, either
// inline or on a durable workflow engine.
type ProgressionOrchestrator interface {
	AdvanceAll(ctx context.Context) (*domain.SweepResult, error)
}

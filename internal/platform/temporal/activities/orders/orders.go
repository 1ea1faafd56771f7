package orders

import (
	"context"
	"errors"

	"go.temporal.io/sdk/activity"

	ordersdomain "github.com/Apurer/order-tracker/internal/domains/orders/domain"
	ordersports "github.com/Apurer/order-tracker/internal/domains/orders/ports"
)

const (
	// SweepOrdersActivityName runs one randomized advance over every order.
	SweepOrdersActivityName = "orders.activities.SweepOrders"
)

// Activities groups activities that operate on the orders bounded context.
type Activities struct {
	service ordersports.Service
}

// NewActivities wires the orders service into the Temporal activities bundle.
func NewActivities(service ordersports.Service) *Activities {
	return &Activities{service: service}
}

// SweepOrders advances orders that pass the gate and reports which ones moved.
func (a *Activities) SweepOrders(ctx context.Context) (*ordersdomain.SweepResult, error) {
	logger := activity.GetLogger(ctx)
	if a == nil || a.service == nil {
		logger.Error("order sweep activity not initialized")
		return nil, errors.New("order sweep activity not initialized")
	}
	logger.Info("SweepOrders activity started")
	result, err := a.service.SweepOrders(ctx)
	if err != nil {
		logger.Error("SweepOrders activity failed", "error", err)
		return nil, err
	}
	logger.Info("SweepOrders activity completed", "examined", result.Examined, "advanced", len(result.Advanced))
	return result, nil
}

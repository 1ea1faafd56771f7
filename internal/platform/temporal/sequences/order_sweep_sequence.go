package sequences

import (
	"time"

	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"

	ordersdomain "github.com/Apurer/order-tracker/internal/domains/orders/domain"
	orderactivities "github.com/Apurer/order-tracker/internal/platform/temporal/activities/orders"
)

// RunOrderSweepSequence executes the sweep activity with the standard retry policy.
func RunOrderSweepSequence(ctx workflow.Context) (*ordersdomain.SweepResult, error) {
	logger := workflow.GetLogger(ctx)
	logger.Info("order sweep sequence started")
	options := workflow.ActivityOptions{
		StartToCloseTimeout: 30 * time.Second,
		RetryPolicy: &temporal.RetryPolicy{
			InitialInterval:    time.Second,
			BackoffCoefficient: 2.0,
			MaximumInterval:    10 * time.Second,
			MaximumAttempts:    3,
		},
	}
	ctx = workflow.WithActivityOptions(ctx, options)

	var result ordersdomain.SweepResult
	if err := workflow.ExecuteActivity(ctx, orderactivities.SweepOrdersActivityName).Get(ctx, &result); err != nil {
		logger.Error("order sweep sequence failed", "error", err)
		return nil, err
	}
	logger.Info("order sweep sequence completed", "examined", result.Examined, "advanced", len(result.Advanced))
	return &result, nil
}

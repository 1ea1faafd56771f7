package orders

import (
	"go.temporal.io/sdk/workflow"

	ordersdomain "github.com/Apurer/order-tracker/internal/domains/orders/domain"
	"github.com/Apurer/order-tracker/internal/platform/temporal/sequences"
)

const (
	// ProgressionWorkflowName is the public identifier for registering the workflow.
	ProgressionWorkflowName = "orders.workflows.Progression"
	// ProgressionTaskQueue is the queue consumed by the worker processing order sweeps.
	ProgressionTaskQueue = "ORDER_PROGRESSION"
)

// ProgressionWorkflowInput carries the trace of the listing that triggered the sweep.
type ProgressionWorkflowInput struct {
	TraceID string
}

// ProgressionWorkflow runs one randomized sweep over every tracked order.
func ProgressionWorkflow(ctx workflow.Context, input ProgressionWorkflowInput) (*ordersdomain.SweepResult, error) {
	logger := workflow.GetLogger(ctx)
	logger.Info("ProgressionWorkflow started", withTraceID(input.TraceID)...)
	result, err := sequences.RunOrderSweepSequence(ctx)
	if err != nil {
		logger.Error("ProgressionWorkflow failed", withTraceID(input.TraceID, "error", err)...)
		return nil, err
	}
	logger.Info("ProgressionWorkflow completed", withTraceID(input.TraceID, "advanced", len(result.Advanced))...)
	return result, nil
}

func withTraceID(traceID string, keyvals ...interface{}) []interface{} {
	if traceID == "" {
		return keyvals
	}
	return append(keyvals, "traceId", traceID)
}

package workflows

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	oteltrace "go.opentelemetry.io/otel/trace"
	enumspb "go.temporal.io/api/enums/v1"
	"go.temporal.io/sdk/client"

	ordersdomain "github.com/Apurer/order-tracker/internal/domains/orders/domain"
	"github.com/Apurer/order-tracker/internal/domains/orders/ports"
	orderworkflows "github.com/Apurer/order-tracker/internal/platform/temporal/workflows/orders"
)

var (
	_ ports.ProgressionOrchestrator = (*TemporalProgression)(nil)
	_ ports.ProgressionOrchestrator = (*InlineProgression)(nil)
)

// TemporalProgression runs order sweeps as workflows on a Temporal cluster.
type TemporalProgression struct {
	client    client.Client
	taskQueue string
}

// NewTemporalProgression wires a Temporal client into the orchestrator.
func NewTemporalProgression(c client.Client) *TemporalProgression {
	return &TemporalProgression{client: c, taskQueue: orderworkflows.ProgressionTaskQueue}
}

// AdvanceAll starts the progression workflow and waits for its result.
func (o *TemporalProgression) AdvanceAll(ctx context.Context) (*ordersdomain.SweepResult, error) {
	if o == nil || o.client == nil {
		return nil, errors.New("temporal order progression not configured")
	}
	traceID := workflowTraceID(ctx)
	options := client.StartWorkflowOptions{
		ID:                       fmt.Sprintf("order-progression-%s", uuid.NewString()),
		TaskQueue:                o.taskQueue,
		WorkflowIDReusePolicy:    enumspb.WORKFLOW_ID_REUSE_POLICY_REJECT_DUPLICATE,
		WorkflowExecutionTimeout: time.Minute,
	}
	run, err := o.client.ExecuteWorkflow(
		ctx,
		options,
		orderworkflows.ProgressionWorkflowName,
		orderworkflows.ProgressionWorkflowInput{TraceID: traceID},
	)
	if err != nil {
		return nil, err
	}
	var result ordersdomain.SweepResult
	if err := run.Get(ctx, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// InlineProgression sweeps through the service directly, without durable orchestration.
type InlineProgression struct {
	service ports.Service
}

// NewInlineProgression wraps the orders service for synchronous execution.
func NewInlineProgression(service ports.Service) *InlineProgression {
	return &InlineProgression{service: service}
}

func (o *InlineProgression) AdvanceAll(ctx context.Context) (*ordersdomain.SweepResult, error) {
	if o == nil || o.service == nil {
		return nil, errors.New("inline order progression not configured")
	}
	return o.service.SweepOrders(ctx)
}

func workflowTraceID(ctx context.Context) string {
	spanCtx := oteltrace.SpanFromContext(ctx).SpanContext()
	if !spanCtx.IsValid() {
		return ""
	}
	return spanCtx.TraceID().String()
}

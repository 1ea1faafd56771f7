package observability

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	nooptrace "go.opentelemetry.io/otel/trace/noop"

	ordersdomain "github.com/Apurer/order-tracker/internal/domains/orders/domain"
	ordersports "github.com/Apurer/order-tracker/internal/domains/orders/ports"
)

const tracerName = "github.com/Apurer/order-tracker/internal/domains/orders/adapters/observability/service"

// Service decorates the orders service with tracing, logging, and metrics.
type Service struct {
	inner   ordersports.Service
	tracer  trace.Tracer
	logger  *slog.Logger
	metrics serviceMetrics
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithTracer(tr trace.Tracer) Option {
	return func(s *Service) {
		s.tracer = tr
	}
}

func WithMeter(m metric.Meter) Option {
	return func(s *Service) {
		s.metrics = newServiceMetrics(m)
	}
}

// New wraps the core orders service.
func New(inner ordersports.Service, opts ...Option) ordersports.Service {
	s := &Service{
		inner:   inner,
		tracer:  nooptrace.NewTracerProvider().Tracer(tracerName),
		metrics: newServiceMetrics(nil),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	if s.tracer == nil {
		s.tracer = nooptrace.NewTracerProvider().Tracer(tracerName)
	}
	return s
}

func (s *Service) AdvanceOrder(ctx context.Context, id int64) (*ordersdomain.Order, error) {
	ctx, span := s.tracer.Start(ctx, "OrderService.AdvanceOrder", trace.WithAttributes(attribute.Int64("order.id", id)))
	defer span.End()

	s.logInfo(ctx, "advancing order", slog.Int64("order.id", id))
	result, err := s.inner.AdvanceOrder(ctx, id)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to advance order", slog.Int64("order.id", id))
	}
	span.SetAttributes(attribute.Int("order.status", int(result.Status)))
	s.metrics.recordAdvanced(ctx, result.Status, "single")
	s.logInfo(ctx, "order advanced", slog.Int64("order.id", result.ID), slog.String("status", result.Status.String()))
	return result, nil
}

func (s *Service) ListOrders(ctx context.Context) ([]*ordersdomain.Order, error) {
	ctx, span := s.tracer.Start(ctx, "OrderService.ListOrders")
	defer span.End()

	result, err := s.inner.ListOrders(ctx)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to list orders")
	}
	span.SetAttributes(attribute.Int("orders.count", len(result)))
	s.logInfo(ctx, "orders listed", slog.Int("count", len(result)))
	return result, nil
}

func (s *Service) SweepOrders(ctx context.Context) (*ordersdomain.SweepResult, error) {
	ctx, span := s.tracer.Start(ctx, "OrderService.SweepOrders")
	defer span.End()

	result, err := s.inner.SweepOrders(ctx)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to sweep orders")
	}
	span.SetAttributes(
		attribute.Int("sweep.examined", result.Examined),
		attribute.Int("sweep.advanced", len(result.Advanced)),
	)
	s.metrics.recordSweep(ctx, len(result.Advanced))
	s.logInfo(ctx, "orders swept", slog.Int("examined", result.Examined), slog.Any("advanced", result.Advanced))
	return result, nil
}

func (s *Service) logInfo(ctx context.Context, msg string, attrs ...slog.Attr) {
	if s.logger == nil {
		return
	}
	s.logger.LogAttrs(ctx, slog.LevelInfo, msg, attrs...)
}

func (s *Service) logError(ctx context.Context, msg string, err error, attrs ...slog.Attr) {
	if s.logger == nil {
		return
	}
	if err != nil {
		attrs = append(attrs, slog.String("error", err.Error()))
	}
	s.logger.LogAttrs(ctx, slog.LevelError, msg, attrs...)
}

func (s *Service) handleError(ctx context.Context, span trace.Span, err error, msg string, attrs ...slog.Attr) error {
	if span != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	s.logError(ctx, msg, err, attrs...)
	return err
}

type serviceMetrics struct {
	statusAdvanced metric.Int64Counter
	sweeps         metric.Int64Counter
}

func newServiceMetrics(m metric.Meter) serviceMetrics {
	if m == nil {
		return serviceMetrics{}
	}
	statusAdvanced, _ := m.Int64Counter("orders.service.status_advanced", metric.WithDescription("Number of order status advances"))
	sweeps, _ := m.Int64Counter("orders.service.sweeps", metric.WithDescription("Number of randomized sweeps over all orders"))
	return serviceMetrics{statusAdvanced: statusAdvanced, sweeps: sweeps}
}

func (m serviceMetrics) recordAdvanced(ctx context.Context, status ordersdomain.Status, trigger string) {
	if m.statusAdvanced != nil {
		m.statusAdvanced.Add(ctx, 1, metric.WithAttributes(
			attribute.String("order.status", status.String()),
			attribute.String("trigger", trigger),
		))
	}
}

func (m serviceMetrics) recordSweep(ctx context.Context, advanced int) {
	if m.sweeps != nil {
		m.sweeps.Add(ctx, 1)
	}
	if m.statusAdvanced != nil && advanced > 0 {
		m.statusAdvanced.Add(ctx, int64(advanced), metric.WithAttributes(attribute.String("trigger", "sweep")))
	}
}

var _ ordersports.Service = (*Service)(nil)

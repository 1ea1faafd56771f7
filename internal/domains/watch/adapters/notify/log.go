// Package notify delivers watcher status changes.
package notify

import (
	"context"
	"log/slog"

	"github.com/Apurer/order-tracker/internal/domains/watch/domain"
	"github.com/Apurer/order-tracker/internal/domains/watch/ports"
)

// LogNotifier writes each change as a structured log record.
type LogNotifier struct {
	logger *slog.Logger
}

func NewLogNotifier(logger *slog.Logger) *LogNotifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogNotifier{logger: logger}
}

func (n *LogNotifier) Notify(ctx context.Context, change domain.Change) error {
	n.logger.InfoContext(ctx, change.Message(),
		slog.Int64("orderId", change.OrderID),
		slog.String("status", change.Status.String()),
	)
	return nil
}

var _ ports.Notifier = (*LogNotifier)(nil)

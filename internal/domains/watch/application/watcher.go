package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/Apurer/order-tracker/internal/domains/watch/domain"
	"github.com/Apurer/order-tracker/internal/domains/watch/ports"
)

const (
	DefaultInterval   = 30 * time.Second
	DefaultErrorLimit = 5
)

// ErrTooManyErrors stops Run once consecutive failed polls exceed the limit.
var ErrTooManyErrors = errors.New("too many consecutive poll errors")

// Watcher polls the tracker and notifies on notable status transitions.
type Watcher struct {
	source     ports.Source
	store      ports.StateStore
	notifier   ports.Notifier
	logger     *slog.Logger
	now        func() time.Time
	location   *time.Location
	interval   time.Duration
	errorLimit int
}

// Option configures the Watcher.
type Option func(*Watcher)

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(w *Watcher) {
		if logger != nil {
			w.logger = logger
		}
	}
}

// WithClock overrides the time source used for retention.
func WithClock(now func() time.Time) Option {
	return func(w *Watcher) {
		if now != nil {
			w.now = now
		}
	}
}

// WithLocation sets the zone timeOrdered values are interpreted in.
func WithLocation(loc *time.Location) Option {
	return func(w *Watcher) {
		if loc != nil {
			w.location = loc
		}
	}
}

// WithInterval sets the delay between polls.
func WithInterval(interval time.Duration) Option {
	return func(w *Watcher) {
		if interval > 0 {
			w.interval = interval
		}
	}
}

// WithErrorLimit sets how many consecutive failed polls are tolerated.
func WithErrorLimit(limit int) Option {
	return func(w *Watcher) {
		if limit >= 0 {
			w.errorLimit = limit
		}
	}
}

// NewWatcher wires the watcher with its collaborators.
func NewWatcher(source ports.Source, store ports.StateStore, notifier ports.Notifier, opts ...Option) *Watcher {
	w := &Watcher{
		source:     source,
		store:      store,
		notifier:   notifier,
		logger:     slog.New(slog.DiscardHandler),
		now:        time.Now,
		location:   time.Local,
		interval:   DefaultInterval,
		errorLimit: DefaultErrorLimit,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(w)
		}
	}
	return w
}

// Poll runs one cycle: forget expired orders, read the tracker, record new
// orders and notify about notable transitions of known ones.
func (w *Watcher) Poll(ctx context.Context) ([]domain.Change, error) {
	tracked, err := w.store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("load tracked orders: %w", err)
	}
	known := make(map[int64]domain.TrackedOrder, len(tracked))
	var expired []int64
	now := w.now()
	for _, order := range tracked {
		if order.Expired(now) {
			expired = append(expired, order.OrderID)
			continue
		}
		known[order.OrderID] = order
	}
	if len(expired) > 0 {
		if err := w.store.Delete(ctx, expired...); err != nil {
			return nil, fmt.Errorf("forget expired orders: %w", err)
		}
		w.logger.DebugContext(ctx, "removed old orders", slog.Int("count", len(expired)))
	}

	observations, err := w.source.Observe(ctx)
	if err != nil {
		return nil, fmt.Errorf("observe tracker: %w", err)
	}

	var (
		changes []domain.Change
		errs    []error
	)
	for _, obs := range observations {
		order, seen := known[obs.OrderID]
		if !seen {
			fresh, err := domain.NewTrackedOrder(obs, w.location)
			if err != nil {
				w.logger.WarnContext(ctx, "skipping order with unreadable time", slog.Int64("orderId", obs.OrderID), slog.String("error", err.Error()))
				continue
			}
			if err := w.store.Save(ctx, fresh); err != nil {
				errs = append(errs, fmt.Errorf("track order %d: %w", obs.OrderID, err))
			}
			continue
		}
		if !order.Observe(obs.StatusImage) {
			continue
		}
		if err := w.store.Save(ctx, order); err != nil {
			errs = append(errs, fmt.Errorf("update order %d: %w", obs.OrderID, err))
			continue
		}
		if domain.Notable(order.Status) {
			changes = append(changes, domain.Change{OrderID: order.OrderID, Status: order.Status})
		}
	}

	for _, change := range changes {
		if err := w.notifier.Notify(ctx, change); err != nil {
			errs = append(errs, fmt.Errorf("notify order %d: %w", change.OrderID, err))
		}
	}
	return changes, errors.Join(errs...)
}

// Run polls until ctx is cancelled or the consecutive error limit is exceeded.
func (w *Watcher) Run(ctx context.Context) error {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()
	consecutive := 0
	for {
		changes, err := w.Poll(ctx)
		if err != nil {
			consecutive++
			w.logger.ErrorContext(ctx, "poll failed", slog.Int("consecutiveErrors", consecutive), slog.String("error", err.Error()))
		} else {
			consecutive = 0
			w.logger.InfoContext(ctx, "poll completed", slog.Int("changes", len(changes)))
		}
		if consecutive > w.errorLimit {
			return fmt.Errorf("%w: %d", ErrTooManyErrors, consecutive)
		}
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

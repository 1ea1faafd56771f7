// Package watcher hosts the command line entry point of the order watcher.
package watcher

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	trackerclient "github.com/Apurer/order-tracker/internal/clients/http/tracker"
	ordersdomain "github.com/Apurer/order-tracker/internal/domains/orders/domain"
	watchmemory "github.com/Apurer/order-tracker/internal/domains/watch/adapters/memory"
	"github.com/Apurer/order-tracker/internal/domains/watch/adapters/notify"
	watchredis "github.com/Apurer/order-tracker/internal/domains/watch/adapters/redis"
	"github.com/Apurer/order-tracker/internal/domains/watch/adapters/tracker"
	"github.com/Apurer/order-tracker/internal/domains/watch/application"
	"github.com/Apurer/order-tracker/internal/domains/watch/ports"
	platformobservability "github.com/Apurer/order-tracker/internal/platform/observability"
)

const serviceName = "order-tracker-watcher"

// CommandFactory builds the cobra tree; RunWatcher is swapped in tests.
type CommandFactory struct {
	RunWatcher func(ctx context.Context, cfg Config) error
}

var defaultCommandFactory = CommandFactory{RunWatcher: runWatcher}

// Execute loads configuration and runs the watcher command tree.
func Execute(ctx context.Context, args []string) error {
	cfg, err := LoadConfig()
	if err != nil {
		return err
	}
	root := defaultCommandFactory.CreateRootCommand(&cfg)
	root.SetArgs(args)
	return root.ExecuteContext(ctx)
}

func (f CommandFactory) CreateRootCommand(cfg *Config) *cobra.Command {
	root := &cobra.Command{
		Use:           "watcher",
		Short:         "Poll the order tracker and notify when orders start cooking or leave the store",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return f.RunWatcher(cmd.Context(), *cfg)
		},
	}
	flags := root.PersistentFlags()
	flags.StringVar(&cfg.Address, "address", cfg.Address, "base URL of the order tracker")
	root.Flags().DurationVar(&cfg.Interval, "interval", cfg.Interval, "delay between polls")
	root.Flags().IntVar(&cfg.ErrorLimit, "error-limit", cfg.ErrorLimit, "consecutive failed polls tolerated before exiting")
	root.Flags().StringVar(&cfg.RedisAddr, "redis-addr", cfg.RedisAddr, "keep tracked orders in this Redis instance")
	root.Flags().StringVar(&cfg.RabbitMQURL, "rabbitmq-url", cfg.RabbitMQURL, "publish notifications to this RabbitMQ broker")
	root.Flags().StringVar(&cfg.RabbitMQExchange, "rabbitmq-exchange", cfg.RabbitMQExchange, "topic exchange for notifications")

	root.AddCommand(newStepCommand(cfg))
	return root
}

func newStepCommand(cfg *Config) *cobra.Command {
	return &cobra.Command{
		Use:   "step <order-id>",
		Short: "Advance one order on the tracker and print its current step",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("order id must be numeric: %w", err)
			}
			client, err := trackerclient.NewClient(cfg.Address, nil)
			if err != nil {
				return err
			}
			step, err := client.FetchStep(cmd.Context(), id)
			if err != nil {
				return err
			}
			status, err := ordersdomain.ParseStatus(step)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "order %d: step %d (%s)\n", id, step, status)
			return nil
		},
	}
}

func runWatcher(ctx context.Context, cfg Config) error {
	instruments, shutdown, err := platformobservability.Init(ctx, serviceName)
	if err != nil {
		return fmt.Errorf("failed to initialize observability: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(shutdownCtx); err != nil {
			instruments.Logger.Error("failed to shutdown observability", slog.String("error", err.Error()))
		}
	}()
	logger := instruments.Logger

	client, err := trackerclient.NewClient(cfg.Address, nil)
	if err != nil {
		return err
	}
	store, closeStore := buildStateStore(ctx, cfg, logger)
	defer closeStore()
	notifier, closeNotifier := buildNotifier(cfg, logger)
	defer closeNotifier()

	w := application.NewWatcher(tracker.NewSource(client), store, notifier,
		application.WithLogger(logger),
		application.WithInterval(cfg.Interval),
		application.WithErrorLimit(cfg.ErrorLimit),
	)
	logger.Info("watching order tracker", slog.String("address", cfg.Address), slog.Duration("interval", cfg.Interval))
	if err := w.Run(ctx); err != nil {
		if errors.Is(err, application.ErrTooManyErrors) {
			logger.Error("too many consecutive errors, exiting")
		}
		return err
	}
	return nil
}

func buildStateStore(ctx context.Context, cfg Config, logger *slog.Logger) (ports.StateStore, func()) {
	if cfg.RedisAddr == "" {
		return watchmemory.NewStateStore(), func() {}
	}
	client := goredis.NewClient(&goredis.Options{Addr: cfg.RedisAddr})
	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		logger.Warn("failed to reach redis, tracking orders in memory", slog.String("error", err.Error()))
		_ = client.Close()
		return watchmemory.NewStateStore(), func() {}
	}
	logger.Info("tracking orders in redis", slog.String("addr", cfg.RedisAddr))
	return watchredis.NewStateStore(client, ""), func() { _ = client.Close() }
}

func buildNotifier(cfg Config, logger *slog.Logger) (ports.Notifier, func()) {
	if cfg.RabbitMQURL == "" {
		return notify.NewLogNotifier(logger), func() {}
	}
	notifier, err := notify.DialAMQP(cfg.RabbitMQURL, cfg.RabbitMQExchange)
	if err != nil {
		logger.Warn("RabbitMQ unavailable, logging notifications instead", slog.String("error", err.Error()))
		return notify.NewLogNotifier(logger), func() {}
	}
	logger.Info("publishing notifications to RabbitMQ", slog.String("exchange", cfg.RabbitMQExchange))
	return notifier, func() { _ = notifier.Close() }
}

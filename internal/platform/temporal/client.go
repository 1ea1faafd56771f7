// Package temporal holds the Temporal client wiring shared by the API and the worker.
package temporal

import (
	"errors"
	"log/slog"
	"os"

	"go.temporal.io/sdk/client"
	temporalotel "go.temporal.io/sdk/contrib/opentelemetry"
	workerlog "go.temporal.io/sdk/log"

	platformobservability "github.com/Apurer/order-tracker/internal/platform/observability"
)

// ErrDisabled is returned by Dial when Temporal is switched off by configuration.
var ErrDisabled = errors.New("temporal disabled via TEMPORAL_DISABLED env")

// Settings selects the Temporal frontend to dial.
type Settings struct {
	Address   string
	Namespace string
	Disabled  bool
}

// Dial connects a Temporal client with OpenTelemetry tracing and slog-backed logging.
func Dial(settings Settings, instruments *platformobservability.Instruments, tracerName string) (client.Client, error) {
	if settings.Disabled {
		return nil, ErrDisabled
	}
	tracingInterceptor, err := temporalotel.NewTracingInterceptor(temporalotel.TracerOptions{
		Tracer: instruments.Tracer(tracerName),
	})
	if err != nil {
		return nil, err
	}
	options := client.Options{
		HostPort:  settings.Address,
		Namespace: settings.Namespace,
		Logger:    workerlog.NewStructuredLogger(effectiveLogger(instruments)),
	}
	if options.HostPort == "" {
		options.HostPort = client.DefaultHostPort
	}
	if options.Namespace == "" {
		options.Namespace = client.DefaultNamespace
	}
	options.Interceptors = append(options.Interceptors, tracingInterceptor)
	return client.Dial(options)
}

func effectiveLogger(instruments *platformobservability.Instruments) *slog.Logger {
	if instruments != nil && instruments.Logger != nil {
		return instruments.Logger
	}
	return slog.New(slog.NewTextHandler(os.Stdout, nil))
}

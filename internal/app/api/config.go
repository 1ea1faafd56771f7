package api

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"go.temporal.io/sdk/client"

	ordersdomain "github.com/Apurer/order-tracker/internal/domains/orders/domain"
)

// Config carries environment-driven settings for the API process.
type Config struct {
	Port                 string
	BaseURL              string
	AdvanceOnList        bool
	AdvanceThreshold     int
	AdvanceThresholdStep int
	PostgresDSN          string
	TemporalAddress      string
	TemporalNamespace    string
	TemporalDisabled     bool
}

// Addr is the listen address derived from Port.
func (c Config) Addr() string {
	return ":" + c.Port
}

// LoadConfig reads environment variables, applies defaults, and validates basic constraints.
func LoadConfig() (Config, error) {
	cfg := Config{
		Port:              envDefault("PORT", "8888"),
		BaseURL:           strings.TrimRight(envDefault("TRACKER_BASE_URL", ordersdomain.DefaultTrackerBaseURL), "/"),
		AdvanceOnList:     true,
		AdvanceThreshold:  ordersdomain.DefaultAdvanceThreshold,
		PostgresDSN:       strings.TrimSpace(os.Getenv("POSTGRES_DSN")),
		TemporalAddress:   envDefault("TEMPORAL_ADDRESS", client.DefaultHostPort),
		TemporalNamespace: envDefault("TEMPORAL_NAMESPACE", client.DefaultNamespace),
		TemporalDisabled:  isTruthy(os.Getenv("TEMPORAL_DISABLED")),
	}
	if _, err := strconv.Atoi(cfg.Port); err != nil {
		return Config{}, fmt.Errorf("PORT must be numeric, got %q", cfg.Port)
	}
	if raw := strings.TrimSpace(os.Getenv("ADVANCE_ON_LIST")); raw != "" {
		enabled, err := strconv.ParseBool(raw)
		if err != nil {
			return Config{}, fmt.Errorf("ADVANCE_ON_LIST must be a boolean: %w", err)
		}
		cfg.AdvanceOnList = enabled
	}
	if raw := strings.TrimSpace(os.Getenv("ADVANCE_THRESHOLD")); raw != "" {
		threshold, err := strconv.Atoi(raw)
		if err != nil || threshold < 0 || threshold > 100 {
			return Config{}, fmt.Errorf("ADVANCE_THRESHOLD must be an integer between 0 and 100")
		}
		cfg.AdvanceThreshold = threshold
	}
	if raw := strings.TrimSpace(os.Getenv("ADVANCE_THRESHOLD_STEP")); raw != "" {
		step, err := strconv.Atoi(raw)
		if err != nil || step < 0 {
			return Config{}, fmt.Errorf("ADVANCE_THRESHOLD_STEP must be a non-negative integer")
		}
		cfg.AdvanceThresholdStep = step
	}
	return cfg, nil
}

func envDefault(key, fallback string) string {
	if val := strings.TrimSpace(os.Getenv(key)); val != "" {
		return val
	}
	return fallback
}

func isTruthy(value string) bool {
	value = strings.TrimSpace(strings.ToLower(value))
	return value == "1" || value == "true" || value == "yes"
}

package watcher

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	ordersdomain "github.com/Apurer/order-tracker/internal/domains/orders/domain"
	"github.com/Apurer/order-tracker/internal/domains/watch/adapters/notify"
	"github.com/Apurer/order-tracker/internal/domains/watch/application"
)

// Config carries environment-driven settings for the watcher; flags override it.
type Config struct {
	Address          string
	Interval         time.Duration
	ErrorLimit       int
	RedisAddr        string
	RabbitMQURL      string
	RabbitMQExchange string
}

// LoadConfig reads environment variables and applies defaults.
func LoadConfig() (Config, error) {
	cfg := Config{
		Address:          envDefault("WATCH_ADDRESS", ordersdomain.DefaultTrackerBaseURL),
		Interval:         application.DefaultInterval,
		ErrorLimit:       application.DefaultErrorLimit,
		RedisAddr:        strings.TrimSpace(os.Getenv("REDIS_ADDR")),
		RabbitMQURL:      strings.TrimSpace(os.Getenv("RABBITMQ_URL")),
		RabbitMQExchange: envDefault("RABBITMQ_EXCHANGE", notify.DefaultExchange),
	}
	if raw := strings.TrimSpace(os.Getenv("WATCH_INTERVAL")); raw != "" {
		interval, err := time.ParseDuration(raw)
		if err != nil || interval <= 0 {
			return Config{}, fmt.Errorf("WATCH_INTERVAL must be a positive duration")
		}
		cfg.Interval = interval
	}
	if raw := strings.TrimSpace(os.Getenv("WATCH_ERROR_LIMIT")); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 0 {
			return Config{}, fmt.Errorf("WATCH_ERROR_LIMIT must be a non-negative integer")
		}
		cfg.ErrorLimit = limit
	}
	return cfg, nil
}

func envDefault(key, fallback string) string {
	if val := strings.TrimSpace(os.Getenv(key)); val != "" {
		return val
	}
	return fallback
}

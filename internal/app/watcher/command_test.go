package watcher

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	for _, key := range []string{"WATCH_ADDRESS", "WATCH_INTERVAL", "WATCH_ERROR_LIMIT", "REDIS_ADDR", "RABBITMQ_URL", "RABBITMQ_EXCHANGE"} {
		t.Setenv(key, "")
	}
	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, Config{
		Address:          "http://localhost:8888",
		Interval:         30 * time.Second,
		ErrorLimit:       5,
		RabbitMQExchange: "order-tracker",
	}, cfg)
}

func TestLoadConfig_RejectsBadInterval(t *testing.T) {
	t.Setenv("WATCH_INTERVAL", "often")
	_, err := LoadConfig()
	require.Error(t, err)
}

func TestRootCommand_FlagsOverrideConfig(t *testing.T) {
	var got Config
	factory := CommandFactory{RunWatcher: func(_ context.Context, cfg Config) error {
		got = cfg
		return nil
	}}
	cfg := Config{Address: "http://localhost:8888", Interval: time.Minute, ErrorLimit: 5}
	root := factory.CreateRootCommand(&cfg)
	root.SetArgs([]string{"--address", "http://tracker:8888", "--interval", "5s", "--error-limit", "1", "--redis-addr", "redis:6379"})

	require.NoError(t, root.ExecuteContext(context.Background()))
	assert.Equal(t, "http://tracker:8888", got.Address)
	assert.Equal(t, 5*time.Second, got.Interval)
	assert.Equal(t, 1, got.ErrorLimit)
	assert.Equal(t, "redis:6379", got.RedisAddr)
}

func TestStepCommand(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/order/2" {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte(`<html><head></head><body><div id="currentStep">3</div></body></html>`))
	}))
	t.Cleanup(srv.Close)

	cfg := Config{}
	root := defaultCommandFactory.CreateRootCommand(&cfg)
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetArgs([]string{"step", "2", "--address", srv.URL})

	require.NoError(t, root.ExecuteContext(context.Background()))
	assert.Equal(t, "order 2: step 3 (cooking)\n", out.String())
}

func TestStepCommand_RejectsNonNumericID(t *testing.T) {
	cfg := Config{Address: "http://localhost:8888"}
	root := defaultCommandFactory.CreateRootCommand(&cfg)
	root.SetArgs([]string{"step", "abc"})

	require.Error(t, root.ExecuteContext(context.Background()))
}

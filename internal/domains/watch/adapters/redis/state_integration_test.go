//go:build integration

package redis

import (
	"context"
	"fmt"
	"testing"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	ordersdomain "github.com/Apurer/order-tracker/internal/domains/orders/domain"
	"github.com/Apurer/order-tracker/internal/domains/watch/domain"
)

func TestStateStoreIntegration(t *testing.T) {
	ctx := context.Background()
	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "redis:7-alpine",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor:   wait.ForLog("Ready to accept connections").WithStartupTimeout(30 * time.Second),
		},
		Started: true,
	})
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, container.Terminate(context.Background()))
	})

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "6379/tcp")
	require.NoError(t, err)

	client := goredis.NewClient(&goredis.Options{Addr: fmt.Sprintf("%s:%s", host, port.Port())})
	t.Cleanup(func() { _ = client.Close() })

	store := NewStateStore(client, "")
	placed := time.Date(2018, time.September, 18, 12, 0, 0, 0, time.UTC)

	require.NoError(t, store.Save(ctx, domain.TrackedOrder{OrderID: 2, TimeOrdered: placed, Status: ordersdomain.StatusCooking}))
	require.NoError(t, store.Save(ctx, domain.TrackedOrder{OrderID: 1, TimeOrdered: placed, Status: ordersdomain.StatusDelivered}))

	tracked, err := store.List(ctx)
	require.NoError(t, err)
	require.Len(t, tracked, 2)
	require.Equal(t, int64(1), tracked[0].OrderID)
	require.Equal(t, ordersdomain.StatusCooking, tracked[1].Status)
	require.True(t, placed.Equal(tracked[1].TimeOrdered))

	require.NoError(t, store.Delete(ctx, 1, 42))
	tracked, err = store.List(ctx)
	require.NoError(t, err)
	require.Len(t, tracked, 1)
	require.Equal(t, int64(2), tracked[0].OrderID)
}

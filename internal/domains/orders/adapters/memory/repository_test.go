package memory

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Apurer/order-tracker/internal/domains/orders/domain"
	"github.com/Apurer/order-tracker/internal/domains/orders/ports"
)

func TestRepository_ListKeepsInsertionOrder(t *testing.T) {
	repo := NewRepository(domain.SeedOrders("")...)

	list, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, int64(1), list[0].ID)
	assert.Equal(t, int64(2), list[1].ID)
}

func TestRepository_SaveUpdatesInPlace(t *testing.T) {
	ctx := context.Background()
	repo := NewRepository(domain.SeedOrders("")...)

	order, err := repo.GetByID(ctx, 2)
	require.NoError(t, err)
	order.Advance()
	_, err = repo.Save(ctx, order)
	require.NoError(t, err)

	fetched, err := repo.GetByID(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusDeferred, fetched.Status)

	list, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 2)
}

func TestRepository_SaveNeverInserts(t *testing.T) {
	repo := NewRepository(domain.SeedOrders("")...)

	_, err := repo.Save(context.Background(), &domain.Order{ID: 3, Status: domain.StatusDeferred})
	require.ErrorIs(t, err, ports.ErrNotFound)
}

func TestRepository_ReturnsCopies(t *testing.T) {
	ctx := context.Background()
	repo := NewRepository(domain.SeedOrders("")...)

	order, err := repo.GetByID(ctx, 1)
	require.NoError(t, err)
	order.Status = domain.StatusCooking

	fetched, err := repo.GetByID(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusDelivered, fetched.Status)
}

func TestRepository_GetByIDMissing(t *testing.T) {
	repo := NewRepository()

	_, err := repo.GetByID(context.Background(), 999)
	require.ErrorIs(t, err, ports.ErrNotFound)
}

func TestRepository_UpdateWritesOnlyChanges(t *testing.T) {
	ctx := context.Background()
	repo := NewRepository(domain.SeedOrders("")...)

	order, err := repo.Update(ctx, 2, func(order *domain.Order) (bool, error) {
		order.Status = domain.StatusCooking
		return false, nil
	})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCooking, order.Status)
	fetched, err := repo.GetByID(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusUnknown, fetched.Status)

	_, err = repo.Update(ctx, 2, func(order *domain.Order) (bool, error) {
		return order.Advance(), nil
	})
	require.NoError(t, err)
	fetched, err = repo.GetByID(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusDeferred, fetched.Status)
}

func TestRepository_UpdateErrors(t *testing.T) {
	ctx := context.Background()
	repo := NewRepository(domain.SeedOrders("")...)

	_, err := repo.Update(ctx, 999, func(*domain.Order) (bool, error) { return true, nil })
	require.ErrorIs(t, err, ports.ErrNotFound)

	boom := errors.New("boom")
	_, err = repo.Update(ctx, 2, func(order *domain.Order) (bool, error) {
		order.Advance()
		return true, boom
	})
	require.ErrorIs(t, err, boom)
	fetched, err := repo.GetByID(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusUnknown, fetched.Status)
}

func TestRepository_UpdateSerializesWriters(t *testing.T) {
	ctx := context.Background()
	repo := NewRepository(domain.SeedOrders("")...)

	var wg sync.WaitGroup
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := repo.Update(ctx, 2, func(order *domain.Order) (bool, error) {
				return order.Advance(), nil
			})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	fetched, err := repo.GetByID(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusOutForDelivery, fetched.Status)
}

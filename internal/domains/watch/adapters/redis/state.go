package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strconv"

	goredis "github.com/redis/go-redis/v9"

	"github.com/Apurer/order-tracker/internal/domains/watch/domain"
	"github.com/Apurer/order-tracker/internal/domains/watch/ports"
)

// DefaultKey is the hash holding one JSON field per tracked order.
const DefaultKey = "tracker:watch:orders"

// StateStore persists tracked orders in a Redis hash so restarts keep history.
type StateStore struct {
	client goredis.UniversalClient
	key    string
}

// NewStateStore builds a store on client; an empty key selects DefaultKey.
func NewStateStore(client goredis.UniversalClient, key string) *StateStore {
	if key == "" {
		key = DefaultKey
	}
	return &StateStore{client: client, key: key}
}

func (s *StateStore) List(ctx context.Context) ([]domain.TrackedOrder, error) {
	if err := s.ensureClient(); err != nil {
		return nil, err
	}
	fields, err := s.client.HGetAll(ctx, s.key).Result()
	if err != nil {
		return nil, fmt.Errorf("redis hgetall %s: %w", s.key, err)
	}
	out := make([]domain.TrackedOrder, 0, len(fields))
	for field, raw := range fields {
		var order domain.TrackedOrder
		if err := json.Unmarshal([]byte(raw), &order); err != nil {
			return nil, fmt.Errorf("decode tracked order %s: %w", field, err)
		}
		out = append(out, order)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].OrderID < out[j].OrderID })
	return out, nil
}

func (s *StateStore) Save(ctx context.Context, order domain.TrackedOrder) error {
	if err := s.ensureClient(); err != nil {
		return err
	}
	payload, err := json.Marshal(order)
	if err != nil {
		return fmt.Errorf("encode tracked order %d: %w", order.OrderID, err)
	}
	if err := s.client.HSet(ctx, s.key, field(order.OrderID), payload).Err(); err != nil {
		return fmt.Errorf("redis hset %s: %w", s.key, err)
	}
	return nil
}

func (s *StateStore) Delete(ctx context.Context, ids ...int64) error {
	if err := s.ensureClient(); err != nil {
		return err
	}
	if len(ids) == 0 {
		return nil
	}
	fields := make([]string, 0, len(ids))
	for _, id := range ids {
		fields = append(fields, field(id))
	}
	if err := s.client.HDel(ctx, s.key, fields...).Err(); err != nil {
		return fmt.Errorf("redis hdel %s: %w", s.key, err)
	}
	return nil
}

func (s *StateStore) ensureClient() error {
	if s == nil || s.client == nil {
		return errors.New("redis state store not configured")
	}
	return nil
}

func field(id int64) string {
	return strconv.FormatInt(id, 10)
}

var _ ports.StateStore = (*StateStore)(nil)

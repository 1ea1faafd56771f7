package tracker

import (
	"context"
	"errors"

	trackerclient "github.com/Apurer/order-tracker/internal/clients/http/tracker"
	"github.com/Apurer/order-tracker/internal/domains/watch/domain"
	"github.com/Apurer/order-tracker/internal/domains/watch/ports"
)

// Source reads observations from the tracker list endpoint.
type Source struct {
	client *trackerclient.Client
}

func NewSource(client *trackerclient.Client) *Source {
	return &Source{client: client}
}

func (s *Source) Observe(ctx context.Context) ([]domain.Observation, error) {
	if s == nil || s.client == nil {
		return nil, errors.New("tracker source not configured")
	}
	orders, err := s.client.ListOrders(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]domain.Observation, 0, len(orders))
	for _, order := range orders {
		out = append(out, domain.Observation{
			OrderID:     order.OrderID,
			TrackerLink: order.OrderTrackerLink,
			StatusImage: order.OrderStatusImage,
			TimeOrdered: order.TimeOrdered,
		})
	}
	return out, nil
}

var _ ports.Source = (*Source)(nil)

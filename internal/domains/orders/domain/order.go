package domain

import (
	"errors"
	"strconv"
	"strings"
)

// DefaultTrackerBaseURL prefixes tracker links when no base URL is configured.
const DefaultTrackerBaseURL = "http://localhost:8888"

var (
	ErrInvalidID     = errors.New("order id must be greater than zero")
	ErrInvalidStatus = errors.New("order status is invalid")
)

// Order models a tracked delivery.
type Order struct {
	ID          int64
	TrackerLink string
	TimeOrdered string
	Status      Status
}

// NewOrder validates and constructs an Order with its tracker link derived
// from baseURL and id.
func NewOrder(id int64, baseURL, timeOrdered string, status Status) (*Order, error) {
	order := &Order{
		ID:          id,
		TrackerLink: TrackerLink(baseURL, id),
		TimeOrdered: timeOrdered,
		Status:      status,
	}
	if err := order.Validate(); err != nil {
		return nil, err
	}
	return order, nil
}

// Validate enforces invariants on the aggregate.
func (o *Order) Validate() error {
	if o.ID <= 0 {
		return ErrInvalidID
	}
	if !o.Status.Valid() {
		return ErrInvalidStatus
	}
	return nil
}

// Advance moves the order one step along its status cycle and reports
// whether the status changed.
func (o *Order) Advance() bool {
	next := o.Status.Next()
	changed := next != o.Status
	o.Status = next
	return changed
}

// TrackerLink builds the public link for an order.
func TrackerLink(baseURL string, id int64) string {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		baseURL = DefaultTrackerBaseURL
	}
	return baseURL + "/order/" + strconv.FormatInt(id, 10)
}

// SeedOrders returns the fixed orders every process starts with.
func SeedOrders(baseURL string) []*Order {
	return []*Order{
		{ID: 1, TrackerLink: TrackerLink(baseURL, 1), TimeOrdered: "Tue 18 Sep 2018 12:00:00", Status: StatusDelivered},
		{ID: 2, TrackerLink: TrackerLink(baseURL, 2), TimeOrdered: "Tue 19 Sep 2018 15:10:00", Status: StatusUnknown},
	}
}

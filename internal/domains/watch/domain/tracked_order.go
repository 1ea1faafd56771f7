package domain

import (
	"fmt"
	"time"

	ordersdomain "github.com/Apurer/order-tracker/internal/domains/orders/domain"
)

// TimeOrderedLayout is the layout of the tracker's timeOrdered field.
const TimeOrderedLayout = "Mon 02 Jan 2006 15:04:05"

// Retention is how long an order stays tracked after it was placed.
const Retention = 12 * time.Hour

// Observation is one order as reported by the tracker list.
type Observation struct {
	OrderID     int64
	TrackerLink string
	StatusImage string
	TimeOrdered string
}

// TrackedOrder is the watcher's memory of an order between polls.
type TrackedOrder struct {
	OrderID     int64               `json:"orderId"`
	TrackerLink string              `json:"trackerLink"`
	StatusImage string              `json:"statusImage"`
	TimeOrdered time.Time           `json:"timeOrdered"`
	Status      ordersdomain.Status `json:"status"`
}

// NewTrackedOrder starts tracking an observation. Status starts as Unknown
// so the first Observe reports whatever the tracker currently shows.
func NewTrackedOrder(obs Observation, loc *time.Location) (TrackedOrder, error) {
	ordered, err := ParseTimeOrdered(obs.TimeOrdered, loc)
	if err != nil {
		return TrackedOrder{}, err
	}
	return TrackedOrder{
		OrderID:     obs.OrderID,
		TrackerLink: obs.TrackerLink,
		StatusImage: obs.StatusImage,
		TimeOrdered: ordered,
		Status:      ordersdomain.StatusUnknown,
	}, nil
}

// Observe records a fresh status image and reports whether the derived status changed.
func (o *TrackedOrder) Observe(image string) bool {
	previous := o.Status
	o.StatusImage = image
	o.Status = ordersdomain.StatusFromImage(image)
	return previous != o.Status
}

// Expired reports whether the order was placed more than Retention ago,
// whatever its status.
func (o TrackedOrder) Expired(now time.Time) bool {
	return now.Sub(o.TimeOrdered) > Retention
}

// ParseTimeOrdered reads a timeOrdered value in loc (local time when nil).
func ParseTimeOrdered(value string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.Local
	}
	t, err := time.ParseInLocation(TimeOrderedLayout, value, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse time ordered %q: %w", value, err)
	}
	return t, nil
}

// Change is a status transition worth telling someone about.
type Change struct {
	OrderID int64
	Status  ordersdomain.Status
}

// Message renders the notification text.
func (c Change) Message() string {
	return fmt.Sprintf("Order #%d\n%s", c.OrderID, c.Status.Message())
}

// Notable reports whether entering status should trigger a notification.
func Notable(status ordersdomain.Status) bool {
	return status == ordersdomain.StatusCooking || status == ordersdomain.StatusOutForDelivery
}

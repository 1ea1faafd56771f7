package domain

import (
	"fmt"
	"strings"
)

// Status enumerates the delivery lifecycle of an order. Ordinals are part of
// the HTTP contract: the single-order route renders the raw number.
type Status int

const (
	StatusDeferred Status = iota
	StatusReviewing
	StatusPending
	StatusCooking
	StatusOutForDelivery
	StatusDelivered
	StatusUnknown
)

const statusImagePrefix = "/webfile?name=order-tracker-"

var statusNames = [...]string{
	StatusDeferred:       "deferred",
	StatusReviewing:      "reviewing",
	StatusPending:        "pending",
	StatusCooking:        "cooking",
	StatusOutForDelivery: "out_for_delivery",
	StatusDelivered:      "delivered",
	StatusUnknown:        "unknown",
}

// image file stems; OutForDelivery is served as "driving".
var statusImages = [...]string{
	StatusDeferred:       "deferred",
	StatusReviewing:      "reviewing",
	StatusPending:        "pending",
	StatusCooking:        "cooking",
	StatusOutForDelivery: "driving",
	StatusDelivered:      "delivered",
	StatusUnknown:        "unknown",
}

var statusMessages = [...]string{
	StatusDeferred:       "Deferred, the store might not be open?",
	StatusReviewing:      "Reviewing, management is checking things over",
	StatusPending:        "Pending, your order is queued behind a few others",
	StatusCooking:        "The cooks are working on your order now!",
	StatusOutForDelivery: "The driver is heading to your house!",
	StatusDelivered:      "You are eating pizza!",
	StatusUnknown:        "Unknown status, are you sure you ordered a pizza?",
}

// Valid reports whether s is one of the enumerated ordinals.
func (s Status) Valid() bool {
	return s >= StatusDeferred && s <= StatusUnknown
}

// Next returns the status one step along the cycle. Unknown wraps to
// Deferred and Delivered is absorbing.
func (s Status) Next() Status {
	switch {
	case s == StatusUnknown, !s.Valid():
		return StatusDeferred
	case s == StatusDelivered:
		return StatusDelivered
	default:
		return s + 1
	}
}

func (s Status) String() string {
	if !s.Valid() {
		return fmt.Sprintf("status(%d)", int(s))
	}
	return statusNames[s]
}

// Image returns the tracker image path advertised for the status.
func (s Status) Image() string {
	if !s.Valid() {
		s = StatusUnknown
	}
	return statusImagePrefix + statusImages[s] + ".png"
}

// Message is the human readable text used in status notifications.
func (s Status) Message() string {
	if !s.Valid() {
		s = StatusUnknown
	}
	return statusMessages[s]
}

// StatusFromImage maps a tracker image path back to its status. Paths that
// match no known image resolve to Unknown.
func StatusFromImage(image string) Status {
	for s := StatusDeferred; s < StatusUnknown; s++ {
		if strings.Contains(image, statusImagePrefix+statusImages[s]+".png") {
			return s
		}
	}
	return StatusUnknown
}

// ParseStatus converts a raw ordinal into a Status.
func ParseStatus(ordinal int) (Status, error) {
	s := Status(ordinal)
	if !s.Valid() {
		return StatusUnknown, fmt.Errorf("%w: %d", ErrInvalidStatus, ordinal)
	}
	return s, nil
}

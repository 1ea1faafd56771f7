package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/streadway/amqp"

	"github.com/Apurer/order-tracker/internal/domains/watch/domain"
	"github.com/Apurer/order-tracker/internal/domains/watch/ports"
)

// DefaultExchange is the topic exchange status changes are published to.
const DefaultExchange = "order-tracker"

// Publisher is the slice of an AMQP channel the notifier needs.
type Publisher interface {
	Publish(exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
}

// StatusMessage is the JSON body published per change.
type StatusMessage struct {
	OrderID int64  `json:"orderId"`
	Status  string `json:"status"`
	Ordinal int    `json:"ordinal"`
	Message string `json:"message"`
}

// AMQPNotifier publishes changes with routing key order.status.<status>.
type AMQPNotifier struct {
	publisher Publisher
	exchange  string
	closers   []func() error
}

// DialAMQP connects to RabbitMQ and declares a durable topic exchange.
func DialAMQP(url, exchange string) (*AMQPNotifier, error) {
	if exchange == "" {
		exchange = DefaultExchange
	}
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}
	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}
	if err := channel.ExchangeDeclare(exchange, amqp.ExchangeTopic, true, false, false, false, nil); err != nil {
		channel.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to declare exchange: %w", err)
	}
	notifier := NewAMQPNotifier(channel, exchange)
	notifier.closers = []func() error{channel.Close, conn.Close}
	return notifier, nil
}

// NewAMQPNotifier wraps an already configured publisher.
func NewAMQPNotifier(publisher Publisher, exchange string) *AMQPNotifier {
	if exchange == "" {
		exchange = DefaultExchange
	}
	return &AMQPNotifier{publisher: publisher, exchange: exchange}
}

// RoutingKey returns the topic a change is published under.
func RoutingKey(change domain.Change) string {
	return "order.status." + change.Status.String()
}

func (n *AMQPNotifier) Notify(_ context.Context, change domain.Change) error {
	body, err := json.Marshal(StatusMessage{
		OrderID: change.OrderID,
		Status:  change.Status.String(),
		Ordinal: int(change.Status),
		Message: change.Message(),
	})
	if err != nil {
		return fmt.Errorf("failed to marshal status message: %w", err)
	}
	err = n.publisher.Publish(n.exchange, RoutingKey(change), false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now(),
		Body:         body,
	})
	if err != nil {
		return fmt.Errorf("failed to publish status message: %w", err)
	}
	return nil
}

// Close releases the channel and connection opened by DialAMQP.
func (n *AMQPNotifier) Close() error {
	var firstErr error
	for _, closeFn := range n.closers {
		if err := closeFn(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	n.closers = nil
	return firstErr
}

var _ ports.Notifier = (*AMQPNotifier)(nil)

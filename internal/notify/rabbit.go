package notify

import (
	"context"
	"encoding/json"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/tooniwear/storefront-backend/internal/order"
)

const RoutingKeyOrderPlaced = "order.placed"

// Channel is the subset of *amqp.Channel used for publishing.
type Channel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
}

type Conn struct {
	Conn *amqp.Connection
	Ch   *amqp.Channel
}

// Connect dials the broker and declares a durable topic exchange.
func Connect(url, exchange string) (*Conn, error) {
	c, err := amqp.Dial(url)
	if err != nil {
		return nil, err
	}
	ch, err := c.Channel()
	if err != nil {
		_ = c.Close()
		return nil, err
	}
	if err := ch.ExchangeDeclare(exchange, "topic", true, false, false, false, nil); err != nil {
		_ = ch.Close()
		_ = c.Close()
		return nil, err
	}
	return &Conn{Conn: c, Ch: ch}, nil
}

func (c *Conn) Close() error {
	if c.Ch != nil {
		_ = c.Ch.Close()
	}
	if c.Conn != nil {
		return c.Conn.Close()
	}
	return nil
}

// RabbitNotifier publishes each placed order as a JSON event.
type RabbitNotifier struct {
	ch       Channel
	exchange string
	now      func() time.Time
}

func NewRabbitNotifier(ch Channel, exchange string) *RabbitNotifier {
	return &RabbitNotifier{ch: ch, exchange: exchange, now: time.Now}
}

func (n *RabbitNotifier) OrderPlaced(ctx context.Context, ord order.Order) error {
	body, err := json.Marshal(ord)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	return n.ch.PublishWithContext(ctx, n.exchange, RoutingKeyOrderPlaced, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    ord.OrderID,
		Timestamp:    n.now(),
		Body:         body,
	})
}

// Package cart publishes add-to-cart requests to RabbitMQ.
package cart

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	variants "github.com/goliatone/go-variants"
	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
)

// DefaultQueue is the queue add-to-cart messages go to when none is set.
const DefaultQueue = "cart.add"

// Publisher is the part of *amqp.Channel the queue needs.
type Publisher interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
}

// Declarer is the part of *amqp.Channel used to declare the queue.
type Declarer interface {
	QueueDeclare(name string, durable, autoDelete, exclusive, noWait bool, args amqp.Table) (amqp.Queue, error)
}

// Message is the JSON body of an add-to-cart request.
type Message struct {
	ID          string    `json:"id"`
	SessionID   string    `json:"sessionId,omitempty"`
	VariantID   string    `json:"variantId"`
	Quantity    int       `json:"quantity"`
	CountryCode string    `json:"countryCode,omitempty"`
	RequestedAt time.Time `json:"requestedAt"`
}

// Queue implements variants.CartAdder by publishing one persistent JSON
// message per line item to the default exchange.
type Queue struct {
	publisher Publisher
	name      string
	sessionID string
	now       func() time.Time
}

// QueueOption configures a Queue.
type QueueOption func(*Queue)

// WithQueueName routes messages to name.
func WithQueueName(name string) QueueOption {
	return func(q *Queue) {
		if name != "" {
			q.name = name
		}
	}
}

// WithSessionID stamps messages with the originating variant session.
func WithSessionID(id string) QueueOption {
	return func(q *Queue) {
		q.sessionID = id
	}
}

func NewQueue(publisher Publisher, opts ...QueueOption) *Queue {
	q := &Queue{publisher: publisher, name: DefaultQueue, now: time.Now}
	for _, opt := range opts {
		if opt != nil {
			opt(q)
		}
	}
	return q
}

// Name returns the routing key messages are published with.
func (q *Queue) Name() string {
	return q.name
}

// Declare creates the durable queue on ch.
func (q *Queue) Declare(ch Declarer) error {
	if _, err := ch.QueueDeclare(q.name, true, false, false, false, nil); err != nil {
		return fmt.Errorf("cart: declare queue %q: %w", q.name, err)
	}
	return nil
}

// AddToCart publishes item.
func (q *Queue) AddToCart(ctx context.Context, item variants.LineItem) error {
	if q.publisher == nil {
		return variants.ErrCartNotConfigured
	}
	if item.VariantID == "" {
		return fmt.Errorf("cart: variant id is required")
	}
	msg := Message{
		ID:          uuid.NewString(),
		SessionID:   q.sessionID,
		VariantID:   item.VariantID,
		Quantity:    int(variants.ClampQuantity(int(item.Quantity))),
		CountryCode: item.CountryCode,
		RequestedAt: q.now().UTC(),
	}
	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("cart: marshal message: %w", err)
	}
	err = q.publisher.PublishWithContext(ctx, "", q.name, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    msg.ID,
		Timestamp:    msg.RequestedAt,
		Type:         "cart.add",
		Body:         body,
	})
	if err != nil {
		return fmt.Errorf("cart: publish to %q: %w", q.name, err)
	}
	return nil
}

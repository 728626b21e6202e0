package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
)

const (
	exchangeName   = "shopfront.activity"
	publishTimeout = 3 * time.Second
)

// Activity is one storefront activity event on the analytics stream.
type Activity struct {
	ID        string `json:"id"`
	Kind      string `json:"kind"`
	UserID    string `json:"user_id,omitempty"`
	CartCount int    `json:"cart_count,omitempty"`
	Timestamp int64  `json:"timestamp"`
}

// Publisher emits storefront activity to a RabbitMQ topic exchange. It is
// fire-and-forget: publish failures are logged and never reach the stores.
type Publisher struct {
	conn    *amqp.Connection
	channel *amqp.Channel
}

// NewPublisher connects to RabbitMQ and declares the activity exchange.
func NewPublisher(url string) (*Publisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("connect to RabbitMQ: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}
	if err := ch.ExchangeDeclare(
		exchangeName,
		"topic",
		true,  // durable
		false, // auto-deleted
		false, // internal
		false, // no-wait
		nil,
	); err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("declare activity exchange: %w", err)
	}
	return &Publisher{conn: conn, channel: ch}, nil
}

// Publish sends one activity event under the routing key "activity.<kind>".
func (p *Publisher) Publish(kind, userID string, cartCount int) {
	event := Activity{
		ID:        uuid.NewString(),
		Kind:      kind,
		UserID:    userID,
		CartCount: cartCount,
		Timestamp: time.Now().Unix(),
	}
	body, err := json.Marshal(event)
	if err != nil {
		slog.Warn("encode activity event", "kind", kind, "err", err)
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
	defer cancel()
	err = p.channel.PublishWithContext(
		ctx,
		exchangeName,
		"activity."+kind,
		false, // mandatory
		false, // immediate
		amqp.Publishing{
			ContentType: "application/json",
			Body:        body,
		},
	)
	if err != nil {
		slog.Warn("publish activity event", "kind", kind, "err", err)
	}
}

// Close releases the channel and connection.
func (p *Publisher) Close() {
	if p.channel != nil {
		p.channel.Close()
	}
	if p.conn != nil {
		p.conn.Close()
	}
}

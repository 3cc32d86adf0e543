package app

import (
	"context"
	"encoding/json"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
)

// Routing keys for reservation events.
const (
	RKReservationCreated   = "reservation.created"
	RKReservationCancelled = "reservation.cancelled"
)

// ReservationEvent is the payload published on both routing keys.
type ReservationEvent struct {
	ReservationID   string `json:"reservation_id"`
	UserID          string `json:"user_id"`
	CourtID         string `json:"court_id"`
	Date            string `json:"date"`
	StartTime       string `json:"start_time"`
	DurationMinutes int    `json:"duration_minutes"`
}

// Publisher pushes reservation events onto a RabbitMQ topic exchange for
// notifier consumers. The service runs fine without one.
type Publisher struct {
	conn     *amqp.Connection
	ch       *amqp.Channel
	exchange string
}

func NewPublisher(url, exchange string) (*Publisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("dial rabbitmq: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}
	if err := ch.ExchangeDeclare(exchange, "topic", true, false, false, false, nil); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("declare exchange: %w", err)
	}
	return &Publisher{conn: conn, ch: ch, exchange: exchange}, nil
}

func (p *Publisher) PublishJSON(ctx context.Context, key string, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return p.ch.PublishWithContext(ctx, p.exchange, key, false, false, amqp.Publishing{
		ContentType: "application/json",
		Body:        b,
	})
}

func (p *Publisher) Close() error {
	if p.ch != nil {
		_ = p.ch.Close()
	}
	if p.conn != nil {
		return p.conn.Close()
	}
	return nil
}

// publishEvent is nil-safe and never fails the request: a lost event only
// costs a notification.
func (a *App) publishEvent(ctx context.Context, key string, ev ReservationEvent) {
	if a.Pub == nil {
		return
	}
	if err := a.Pub.PublishJSON(ctx, key, ev); err != nil {
		a.Log.Error("publish event failed", "key", key, "err", err)
	}
}

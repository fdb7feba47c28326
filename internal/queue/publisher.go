// Package queue publishes booking events to RabbitMQ.
package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v5"
	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/kirinyoku/cinemago/internal/domain"
)

const BookingConfirmedQueue = "booking.confirmed"

type BookingConfirmedEvent struct {
	OrderCode   string    `json:"order_code"`
	Account     string    `json:"account"`
	ShowtimeID  int64     `json:"showtime_id"`
	MovieTitle  string    `json:"movie_title"`
	SeatIDs     []int64   `json:"seat_ids"`
	Total       float64   `json:"total"`
	PurchasedAt time.Time `json:"purchased_at"`
}

func NewBookingConfirmedEvent(o *domain.Order) BookingConfirmedEvent {
	ev := BookingConfirmedEvent{
		OrderCode:   o.Code,
		Account:     o.Account,
		ShowtimeID:  o.ShowtimeID,
		MovieTitle:  o.MovieTitle,
		SeatIDs:     make([]int64, 0, len(o.Seats)),
		Total:       o.Total,
		PurchasedAt: o.PurchasedAt,
	}
	for _, s := range o.Seats {
		ev.SeatIDs = append(ev.SeatIDs, s.SeatID)
	}
	return ev
}

type Publisher interface {
	PublishBookingConfirmed(ctx context.Context, ev BookingConfirmedEvent) error
	Close() error
}

// Noop drops events. Used when no broker is configured.
type Noop struct{}

func (Noop) PublishBookingConfirmed(context.Context, BookingConfirmedEvent) error { return nil }
func (Noop) Close() error                                                         { return nil }

// AMQPPublisher sends persistent JSON messages to the durable booking queue
// through the default exchange.
type AMQPPublisher struct {
	log  *slog.Logger
	mu   sync.Mutex
	conn *amqp.Connection
	ch   *amqp.Channel
}

// Dial connects and declares the queue, retrying until connectWait elapses.
func Dial(ctx context.Context, url string, connectWait time.Duration, log *slog.Logger) (*AMQPPublisher, error) {
	const op = "queue.Dial"

	conn, err := backoff.Retry(ctx, func() (*amqp.Connection, error) {
		return amqp.Dial(url)
	},
		backoff.WithBackOff(backoff.NewExponentialBackOff()),
		backoff.WithMaxElapsedTime(connectWait),
		backoff.WithNotify(func(err error, next time.Duration) {
			log.Warn("rabbitmq dial failed", slog.Any("err", err), slog.Duration("retry_in", next))
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("%s: channel: %w", op, err)
	}

	if _, err := ch.QueueDeclare(BookingConfirmedQueue, true, false, false, false, nil); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("%s: queue declare: %w", op, err)
	}

	return &AMQPPublisher{log: log, conn: conn, ch: ch}, nil
}

func (p *AMQPPublisher) PublishBookingConfirmed(ctx context.Context, ev BookingConfirmedEvent) error {
	const op = "queue.AMQPPublisher.PublishBookingConfirmed"

	body, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if err := p.ch.PublishWithContext(ctx, "", BookingConfirmedQueue, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		MessageId:    ev.OrderCode,
		Body:         body,
	}); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (p *AMQPPublisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	_ = p.ch.Close()
	return p.conn.Close()
}

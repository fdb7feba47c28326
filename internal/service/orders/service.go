package orders

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/kirinyoku/cinemago/internal/domain"
	"github.com/kirinyoku/cinemago/internal/queue"
	"github.com/kirinyoku/cinemago/internal/repository"
	"github.com/kirinyoku/cinemago/internal/uow"
)

type Store interface {
	CreateOrder(ctx context.Context, o *domain.Order, after ...uow.AfterCommit) error
	GetOrder(ctx context.Context, account, code string) (*domain.Order, error)
	LastOrder(ctx context.Context, account string) (*domain.Order, error)
}

type Cache interface {
	InvalidateSeatMap(ctx context.Context, showtimeID int64) error
}

type Notifier interface {
	PublishShowtimeChanged(ctx context.Context, showtimeID int64) error
}

type Service struct {
	store     Store
	cache     Cache
	notifier  Notifier
	publisher queue.Publisher
	log       *slog.Logger
}

func New(store Store, cache Cache, notifier Notifier, publisher queue.Publisher, log *slog.Logger) *Service {
	if publisher == nil {
		publisher = queue.Noop{}
	}
	if log == nil {
		log = slog.Default()
	}

	return &Service{
		store:     store,
		cache:     cache,
		notifier:  notifier,
		publisher: publisher,
		log:       log,
	}
}

// Place records a confirmed booking. Once committed, the seat map cache of
// the showtime is dropped, other instances are notified and a
// booking.confirmed event is published. Failures after commit are logged.
func (s *Service) Place(ctx context.Context, o *domain.Order) error {
	const op = "service.orders.Place"

	if len(o.Seats) == 0 {
		return fmt.Errorf("%s: %w", op, ErrInvalidOrder)
	}

	err := s.store.CreateOrder(ctx, o, func(ctx context.Context) {
		if s.cache != nil {
			if err := s.cache.InvalidateSeatMap(ctx, o.ShowtimeID); err != nil {
				s.log.Warn("seat map invalidation failed", slog.Int64("showtime_id", o.ShowtimeID), slog.Any("err", err))
			}
		}
		if s.notifier != nil {
			if err := s.notifier.PublishShowtimeChanged(ctx, o.ShowtimeID); err != nil {
				s.log.Warn("showtime change notice failed", slog.Int64("showtime_id", o.ShowtimeID), slog.Any("err", err))
			}
		}
		if err := s.publisher.PublishBookingConfirmed(ctx, queue.NewBookingConfirmedEvent(o)); err != nil {
			s.log.Warn("booking event publish failed", slog.String("code", o.Code), slog.Any("err", err))
		}
	})
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

// Last returns the newest order of account, shown on the confirmation page.
func (s *Service) Last(ctx context.Context, account string) (*domain.Order, error) {
	const op = "service.orders.Last"

	o, err := s.store.LastOrder(ctx, account)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%s: %w", op, ErrOrderNotFound)
		}

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return o, nil
}

func (s *Service) Get(ctx context.Context, account, code string) (*domain.Order, error) {
	const op = "service.orders.Get"

	o, err := s.store.GetOrder(ctx, account, code)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%s: %w", op, ErrOrderNotFound)
		}

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return o, nil
}

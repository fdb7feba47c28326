package reservation

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/kirinyoku/cinemago/internal/booking"
	"github.com/kirinyoku/cinemago/internal/clock"
	"github.com/kirinyoku/cinemago/internal/domain"
	redisx "github.com/kirinyoku/cinemago/internal/redis"
	"github.com/kirinyoku/cinemago/internal/service/limit"
)

type Upstream interface {
	BookTickets(ctx context.Context, showtimeID int64, tickets []domain.Ticket) error
}

type Catalog interface {
	SeatMap(ctx context.Context, showtimeID int64) (*domain.SeatMap, error)
	RefreshSeatMap(ctx context.Context, showtimeID int64) (*domain.SeatMap, error)
}

type Cache interface {
	InvalidateSeatMap(ctx context.Context, showtimeID int64) error
}

type Orders interface {
	Place(ctx context.Context, o *domain.Order) error
}

type Idempotency interface {
	AcquireLock(ctx context.Context, key string, lockTTL time.Duration) (bool, error)
	SaveResult(ctx context.Context, key string, jsonPayload string) error
	GetResult(ctx context.Context, key string) (string, bool, error)
	Release(ctx context.Context, key string) error
}

type Config struct {
	// LockTTL bounds how long an idempotency key stays locked by a running submit.
	LockTTL time.Duration
}

// Service runs the seat selection flow: open a hold over a showtime's seat
// map, toggle seats while the countdown runs, then submit the booking upstream.
type Service struct {
	holds    *booking.Manager
	upstream Upstream
	catalog  Catalog
	cache    Cache
	orders   Orders
	idem     Idempotency
	limiter  limit.Limiter
	clk      clock.Clock
	log      *slog.Logger
	cfg      Config
}

func New(
	holds *booking.Manager,
	upstream Upstream,
	catalog Catalog,
	cache Cache,
	orders Orders,
	idem Idempotency,
	limiter limit.Limiter,
	clk clock.Clock,
	log *slog.Logger,
	cfg Config,
) *Service {
	if cfg.LockTTL <= 0 {
		cfg.LockTTL = 30 * time.Second
	}
	if clk == nil {
		clk = clock.Real{}
	}
	if log == nil {
		log = slog.Default()
	}

	return &Service{
		holds:    holds,
		upstream: upstream,
		catalog:  catalog,
		cache:    cache,
		orders:   orders,
		idem:     idem,
		limiter:  limiter,
		clk:      clk,
		log:      log,
		cfg:      cfg,
	}
}

func (s *Service) OpenHold(ctx context.Context, sess *domain.Session, showtimeID int64) (booking.HoldView, error) {
	const op = "service.reservation.OpenHold"

	sm, err := s.catalog.SeatMap(ctx, showtimeID)
	if err != nil {
		return booking.HoldView{}, fmt.Errorf("%s: %w", op, err)
	}

	h := s.holds.Open(sess.ID, showtimeID, sm)
	return h.View(), nil
}

func (s *Service) Hold(sess *domain.Session, holdID uuid.UUID) (booking.HoldView, error) {
	const op = "service.reservation.Hold"

	h, err := s.holds.Get(sess.ID, holdID)
	if err != nil {
		return booking.HoldView{}, fmt.Errorf("%s: %w", op, err)
	}

	return h.View(), nil
}

// ToggleSeat selects an unselected seat or releases a selected one.
func (s *Service) ToggleSeat(sess *domain.Session, holdID uuid.UUID, seatID int64) (booking.HoldView, error) {
	const op = "service.reservation.ToggleSeat"

	h, err := s.holds.Get(sess.ID, holdID)
	if err != nil {
		return booking.HoldView{}, fmt.Errorf("%s: %w", op, err)
	}
	if _, err := h.Toggle(seatID); err != nil {
		return booking.HoldView{}, fmt.Errorf("%s: %w", op, err)
	}

	return h.View(), nil
}

func (s *Service) CloseHold(sess *domain.Session, holdID uuid.UUID) error {
	const op = "service.reservation.CloseHold"

	if _, err := s.holds.Get(sess.ID, holdID); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	s.holds.Close(holdID)

	return nil
}

// Submit books the selected seats upstream and records the order. A repeated
// idemKey returns the order of the first successful submit. On upstream
// failure the selection is cleared and the cached seat map dropped so the
// next read reflects current availability.
func (s *Service) Submit(
	ctx context.Context,
	sess *domain.Session,
	holdID uuid.UUID,
	idemKey string,
	clientIP string,
) (*domain.Order, error) {
	const op = "service.reservation.Submit"

	if err := limit.Check(ctx, s.limiter, clientIP); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	var key string
	if idemKey != "" && s.idem != nil {
		key = redisx.KeyIdemBooking(sess.Account, idemKey)

		if o, ok, err := s.replay(ctx, key); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		} else if ok {
			return o, nil
		}

		locked, err := s.idem.AcquireLock(ctx, key, s.cfg.LockTTL)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		if !locked {
			// The first request may have finished between the two reads.
			if o, ok, err := s.replay(ctx, key); err == nil && ok {
				return o, nil
			}
			return nil, fmt.Errorf("%s: %w", op, ErrRequestInProgress)
		}
	}

	o, err := s.submit(ctx, sess, holdID)
	if err != nil {
		if key != "" {
			_ = s.idem.Release(ctx, key)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if key != "" {
		b, _ := json.Marshal(o)
		if err := s.idem.SaveResult(ctx, key, string(b)); err != nil {
			s.log.Warn("idempotency save failed", slog.String("code", o.Code), slog.Any("err", err))
		}
	}

	return o, nil
}

func (s *Service) submit(ctx context.Context, sess *domain.Session, holdID uuid.UUID) (*domain.Order, error) {
	h, err := s.holds.Get(sess.ID, holdID)
	if err != nil {
		return nil, err
	}

	tickets, err := h.Tickets()
	if err != nil {
		return nil, err
	}

	if err := s.upstream.BookTickets(ctx, h.ShowtimeID, tickets); err != nil {
		h.ClearSelection()
		s.refreshSeats(ctx, h)
		return nil, err
	}

	now := s.clk.Now()
	o := h.Order(sess.Account, OrderCode(now), now)
	s.holds.Close(h.ID)

	// The seats are booked upstream; a failed history write must not fail the booking.
	if err := s.orders.Place(ctx, &o); err != nil {
		s.log.Error("order record failed", slog.String("code", o.Code), slog.String("account", o.Account), slog.Any("err", err))
	}

	return &o, nil
}

// refreshSeats reloads the seat map after a failed booking so seats taken in
// the meantime can no longer be selected in h.
func (s *Service) refreshSeats(ctx context.Context, h *booking.Hold) {
	sm, err := s.catalog.RefreshSeatMap(ctx, h.ShowtimeID)
	if err == nil {
		h.ReplaceSeats(sm.Seats)
		return
	}

	s.log.Warn("seat map refresh failed", slog.Int64("showtime_id", h.ShowtimeID), slog.Any("err", err))
	if s.cache != nil {
		if cerr := s.cache.InvalidateSeatMap(ctx, h.ShowtimeID); cerr != nil {
			s.log.Warn("seat map invalidation failed", slog.Int64("showtime_id", h.ShowtimeID), slog.Any("err", cerr))
		}
	}
}

func (s *Service) replay(ctx context.Context, key string) (*domain.Order, bool, error) {
	payload, ok, err := s.idem.GetResult(ctx, key)
	if err != nil || !ok {
		return nil, false, err
	}

	var o domain.Order
	if err := json.Unmarshal([]byte(payload), &o); err != nil {
		return nil, false, errors.Join(errors.New("corrupt idempotency record"), err)
	}

	return &o, true, nil
}

// ReleaseSession closes every hold of a session that ended.
func (s *Service) ReleaseSession(sessionID uuid.UUID) {
	if n := s.holds.CloseSession(sessionID); n > 0 {
		s.log.Info("holds released", slog.String("session_id", sessionID.String()), slog.Int("count", n))
	}
}

func (s *Service) Shutdown() { s.holds.CloseAll() }

// OrderCode is "MH" followed by the unix milliseconds, cut to 12 characters.
func OrderCode(t time.Time) string {
	code := "MH" + strconv.FormatInt(t.UnixMilli(), 10)
	if len(code) > 12 {
		code = code[:12]
	}
	return code
}

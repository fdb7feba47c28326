package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/kirinyoku/cinemago/internal/clock"
	"github.com/kirinyoku/cinemago/internal/domain"
	"github.com/kirinyoku/cinemago/internal/repository"
	"github.com/kirinyoku/cinemago/internal/service/limit"
	"github.com/kirinyoku/cinemago/internal/session"
)

type Upstream interface {
	Login(ctx context.Context, account, password string) (*domain.Account, error)
	Register(ctx context.Context, u domain.User) error
	AccountInfo(ctx context.Context) (*domain.User, error)
}

type Store interface {
	Save(ctx context.Context, s *domain.Session, ttl time.Duration) error
	Get(ctx context.Context, id uuid.UUID) (*domain.Session, error)
	Touch(ctx context.Context, id uuid.UUID, at time.Time, ttl time.Duration) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type Config struct {
	IdleTimeout   time.Duration
	CheckInterval time.Duration
}

// Service logs users in against the upstream API and keeps their sessions
// alive while they are active.
type Service struct {
	upstream Upstream
	store    Store
	limiter  limit.Limiter
	clk      clock.Clock
	log      *slog.Logger
	cfg      Config

	mu       sync.Mutex
	monitors map[uuid.UUID]*session.IdleMonitor
	onLogout []func(id uuid.UUID)
}

func New(
	upstream Upstream,
	store Store,
	limiter limit.Limiter,
	clk clock.Clock,
	log *slog.Logger,
	cfg Config,
) *Service {
	if cfg.IdleTimeout <= 0 {
		cfg.IdleTimeout = 30 * time.Minute
	}
	if clk == nil {
		clk = clock.Real{}
	}
	if log == nil {
		log = slog.Default()
	}

	return &Service{
		upstream: upstream,
		store:    store,
		limiter:  limiter,
		clk:      clk,
		log:      log,
		cfg:      cfg,
		monitors: make(map[uuid.UUID]*session.IdleMonitor),
	}
}

// OnLogout registers fn to run whenever a session ends, whatever the cause.
func (s *Service) OnLogout(fn func(id uuid.UUID)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onLogout = append(s.onLogout, fn)
}

func (s *Service) Login(ctx context.Context, account, password, clientIP string) (*domain.Session, error) {
	const op = "service.auth.Login"

	if account == "" || password == "" {
		return nil, fmt.Errorf("%s: %w", op, ErrMissingCredentials)
	}

	if err := limit.Check(ctx, s.limiter, clientIP); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	acc, err := s.upstream.Login(ctx, account, password)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if acc.AccessToken == "" {
		return nil, fmt.Errorf("%s: %w", op, ErrNoAccessToken)
	}

	now := s.clk.Now()
	sess := &domain.Session{
		ID:             uuid.New(),
		Account:        acc.Account,
		DisplayName:    acc.FullName,
		Email:          acc.Email,
		Role:           acc.Role,
		AccessToken:    acc.AccessToken,
		LoginAt:        now,
		LastActivityAt: now,
		ExpiresAt:      TokenExpiry(acc.AccessToken),
	}

	if err := s.store.Save(ctx, sess, s.cfg.IdleTimeout); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	s.watch(sess.ID)
	s.log.Info("login", slog.String("account", sess.Account), slog.String("session_id", sess.ID.String()))

	return sess, nil
}

// Authenticate loads the session and records activity on it. A missing
// record means the user is logged out; an idle or token-expired record is
// removed.
func (s *Service) Authenticate(ctx context.Context, id uuid.UUID) (*domain.Session, error) {
	const op = "service.auth.Authenticate"

	sess, err := s.store.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			s.forget(id)
			return nil, fmt.Errorf("%s: %w", op, ErrUnauthenticated)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	now := s.clk.Now()
	if sess.Expired(now, s.cfg.IdleTimeout) {
		s.end(ctx, id, "expired")
		return nil, fmt.Errorf("%s: %w", op, ErrSessionExpired)
	}

	if err := s.store.Touch(ctx, id, now, s.cfg.IdleTimeout); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			s.forget(id)
			return nil, fmt.Errorf("%s: %w", op, ErrUnauthenticated)
		}
		s.log.Warn("session touch failed", slog.String("session_id", id.String()), slog.Any("err", err))
	}
	sess.LastActivityAt = now
	s.watch(id).Touch()

	return sess, nil
}

func (s *Service) Logout(ctx context.Context, id uuid.UUID) error {
	s.end(ctx, id, "logout")
	return nil
}

func (s *Service) Register(ctx context.Context, u domain.User, clientIP string) error {
	const op = "service.auth.Register"

	if err := limit.Check(ctx, s.limiter, clientIP); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := s.upstream.Register(ctx, u); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

// Me returns the upstream profile of the caller. ctx must carry the access token.
func (s *Service) Me(ctx context.Context) (*domain.User, error) {
	const op = "service.auth.Me"

	u, err := s.upstream.AccountInfo(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return u, nil
}

// Watching reports how many sessions have a live idle monitor here.
func (s *Service) Watching() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.monitors)
}

// Shutdown stops every idle monitor. Session records stay in the store.
func (s *Service) Shutdown() {
	s.mu.Lock()
	monitors := s.monitors
	s.monitors = make(map[uuid.UUID]*session.IdleMonitor)
	s.mu.Unlock()

	for _, m := range monitors {
		m.Stop()
	}
}

func (s *Service) watch(id uuid.UUID) *session.IdleMonitor {
	s.mu.Lock()
	defer s.mu.Unlock()

	if m, ok := s.monitors[id]; ok && !m.Done() {
		return m
	}

	m := session.NewIdleMonitor(s.clk, session.IdleConfig{
		Timeout:       s.cfg.IdleTimeout,
		CheckInterval: s.cfg.CheckInterval,
	}, s.readRecord(id), func() {
		s.log.Info("session idle timeout", slog.String("session_id", id.String()))
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		s.end(ctx, id, "idle")
	})
	s.monitors[id] = m
	m.Start()

	return m
}

// readRecord re-reads the shared record. When the store cannot be reached the
// last activity is reported as unknown so the local timer decides.
func (s *Service) readRecord(id uuid.UUID) session.RecordReader {
	return func() (time.Time, bool) {
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()

		sess, err := s.store.Get(ctx, id)
		if errors.Is(err, repository.ErrNotFound) {
			return time.Time{}, false
		}
		if err != nil {
			s.log.Warn("session check failed", slog.String("session_id", id.String()), slog.Any("err", err))
			return time.Time{}, true
		}

		now := s.clk.Now()
		if !sess.ExpiresAt.IsZero() && !now.Before(sess.ExpiresAt) {
			return time.Time{}, false
		}

		return sess.LastActivityAt, true
	}
}

func (s *Service) end(ctx context.Context, id uuid.UUID, reason string) {
	if err := s.store.Delete(ctx, id); err != nil {
		s.log.Warn("session delete failed", slog.String("session_id", id.String()), slog.Any("err", err))
	}
	s.forget(id)
	s.log.Info("session ended", slog.String("session_id", id.String()), slog.String("reason", reason))
}

// forget drops local state for id and runs the logout hooks.
func (s *Service) forget(id uuid.UUID) {
	s.mu.Lock()
	m, ok := s.monitors[id]
	delete(s.monitors, id)
	hooks := append([]func(uuid.UUID){}, s.onLogout...)
	s.mu.Unlock()

	if ok {
		m.Stop()
	}
	for _, fn := range hooks {
		fn(id)
	}
}

// TokenExpiry reads the exp claim of an upstream access token without
// verifying it. The zero time means unknown.
func TokenExpiry(token string) time.Time {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return time.Time{}
	}

	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}
	}

	return exp.Time
}

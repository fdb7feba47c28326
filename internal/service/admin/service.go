package admin

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/kirinyoku/cinemago/internal/domain"
)

type Upstream interface {
	ListMovies(ctx context.Context, group string) ([]domain.Movie, error)
	GetMovie(ctx context.Context, id int64) (*domain.Movie, error)
	AddMovie(ctx context.Context, form domain.MovieForm) error
	UpdateMovie(ctx context.Context, form domain.MovieForm) error
	DeleteMovie(ctx context.Context, id int64) error
	ListUsers(ctx context.Context, group string) ([]domain.User, error)
	SearchUsers(ctx context.Context, group, keyword string) ([]domain.User, error)
	AddUser(ctx context.Context, u domain.User) error
	UpdateUser(ctx context.Context, u domain.User) error
	DeleteUser(ctx context.Context, account string) error
	CreateShowtime(ctx context.Context, s domain.NewShowtime) error
}

type Cache interface {
	InvalidateMovie(ctx context.Context, group string, movieID int64) error
	InvalidateMovieDetail(ctx context.Context, movieID int64) error
}

type Notifier interface {
	PublishMovieChanged(ctx context.Context, movieID int64) error
}

type Audit interface {
	Record(ctx context.Context, account, action, target string) (int64, error)
	List(ctx context.Context, limit, offset int) ([]domain.AuditEntry, error)
}

type Config struct {
	Group             string
	ProtectedAccounts []string
}

// Audit actions.
const (
	ActionAddMovie       = "movie.add"
	ActionUpdateMovie    = "movie.update"
	ActionDeleteMovie    = "movie.delete"
	ActionAddUser        = "user.add"
	ActionUpdateUser     = "user.update"
	ActionDeleteUser     = "user.delete"
	ActionCreateShowtime = "showtime.create"
)

type Service struct {
	upstream Upstream
	cache    Cache
	notifier Notifier
	audit    Audit
	log      *slog.Logger
	cfg      Config
}

func New(upstream Upstream, cache Cache, notifier Notifier, audit Audit, log *slog.Logger, cfg Config) *Service {
	if cfg.Group == "" {
		cfg.Group = "GP01"
	}
	if log == nil {
		log = slog.Default()
	}

	return &Service{
		upstream: upstream,
		cache:    cache,
		notifier: notifier,
		audit:    audit,
		log:      log,
		cfg:      cfg,
	}
}

func (s *Service) Movies(ctx context.Context) ([]domain.Movie, error) {
	const op = "service.admin.Movies"

	movies, err := s.upstream.ListMovies(ctx, s.cfg.Group)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return movies, nil
}

func (s *Service) Movie(ctx context.Context, id int64) (*domain.Movie, error) {
	const op = "service.admin.Movie"

	m, err := s.upstream.GetMovie(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return m, nil
}

// AddMovie uploads a new movie with its poster.
//
// Parameters:
//   - ctx: request-scoped context carrying the admin access token.
//   - actor: the admin session, recorded in the audit log.
//   - form: movie fields and poster image.
//
// Returns:
//   - error: admin.ErrInvalidMovie if the title is missing, or the upstream error.
func (s *Service) AddMovie(ctx context.Context, actor *domain.Session, form domain.MovieForm) error {
	const op = "service.admin.AddMovie"

	if strings.TrimSpace(form.Title) == "" {
		return fmt.Errorf("%s: %w", op, ErrInvalidMovie)
	}
	if form.Group == "" {
		form.Group = s.cfg.Group
	}

	if err := s.upstream.AddMovie(ctx, form); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	s.movieChanged(ctx, 0)
	s.record(ctx, actor, ActionAddMovie, form.Title)

	return nil
}

// UpdateMovie replaces the movie fields; the poster is kept when no image is sent.
//
// Parameters:
//   - ctx: request-scoped context carrying the admin access token.
//   - actor: the admin session, recorded in the audit log.
//   - form: movie fields; form.ID selects the movie.
//
// Returns:
//   - error: admin.ErrInvalidMovie if the title is missing, or the upstream error.
func (s *Service) UpdateMovie(ctx context.Context, actor *domain.Session, form domain.MovieForm) error {
	const op = "service.admin.UpdateMovie"

	if strings.TrimSpace(form.Title) == "" {
		return fmt.Errorf("%s: %w", op, ErrInvalidMovie)
	}
	if form.Group == "" {
		form.Group = s.cfg.Group
	}

	if err := s.upstream.UpdateMovie(ctx, form); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	s.movieChanged(ctx, form.ID)
	s.record(ctx, actor, ActionUpdateMovie, strconv.FormatInt(form.ID, 10))

	return nil
}

func (s *Service) DeleteMovie(ctx context.Context, actor *domain.Session, id int64) error {
	const op = "service.admin.DeleteMovie"

	if err := s.upstream.DeleteMovie(ctx, id); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	s.movieChanged(ctx, id)
	s.record(ctx, actor, ActionDeleteMovie, strconv.FormatInt(id, 10))

	return nil
}

// Users lists the group's users, filtered by keyword when it is not empty.
func (s *Service) Users(ctx context.Context, keyword string) ([]domain.User, error) {
	const op = "service.admin.Users"

	var (
		users []domain.User
		err   error
	)
	if keyword = strings.TrimSpace(keyword); keyword != "" {
		users, err = s.upstream.SearchUsers(ctx, s.cfg.Group, keyword)
	} else {
		users, err = s.upstream.ListUsers(ctx, s.cfg.Group)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return users, nil
}

func (s *Service) AddUser(ctx context.Context, actor *domain.Session, u domain.User) error {
	const op = "service.admin.AddUser"

	if u.Group == "" {
		u.Group = s.cfg.Group
	}
	if err := s.upstream.AddUser(ctx, u); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	s.record(ctx, actor, ActionAddUser, u.Account)
	return nil
}

func (s *Service) UpdateUser(ctx context.Context, actor *domain.Session, u domain.User) error {
	const op = "service.admin.UpdateUser"

	if u.Group == "" {
		u.Group = s.cfg.Group
	}
	if err := s.upstream.UpdateUser(ctx, u); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	s.record(ctx, actor, ActionUpdateUser, u.Account)
	return nil
}

// DeleteUser removes an account upstream. Protected accounts are refused
// before any upstream call.
//
// Parameters:
//   - ctx: request-scoped context carrying the admin access token.
//   - actor: the admin session, recorded in the audit log.
//   - account: the account name to delete.
//
// Returns:
//   - error: admin.ProtectedAccountError (matches admin.ErrProtectedAccount),
//     or the upstream error.
func (s *Service) DeleteUser(ctx context.Context, actor *domain.Session, account string) error {
	const op = "service.admin.DeleteUser"

	if s.IsProtected(account) {
		return fmt.Errorf("%s: %w", op, ProtectedAccountError{Account: account})
	}

	if err := s.upstream.DeleteUser(ctx, account); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	s.record(ctx, actor, ActionDeleteUser, account)
	return nil
}

func (s *Service) IsProtected(account string) bool {
	return slices.Contains(s.cfg.ProtectedAccounts, account)
}

// CreateShowtime schedules a movie in a cluster. StartsAt may be given as
// datetime-local, RFC 3339 or the upstream "dd/MM/yyyy HH:mm:ss" layout.
//
// Parameters:
//   - ctx: request-scoped context carrying the admin access token.
//   - actor: the admin session, recorded in the audit log.
//   - st: movie, cluster, start and ticket price.
//
// Returns:
//   - error: admin.ErrIncompleteShowtime or admin.ErrInvalidStartTime on bad
//     input, or the upstream error.
func (s *Service) CreateShowtime(ctx context.Context, actor *domain.Session, st domain.NewShowtime) error {
	const op = "service.admin.CreateShowtime"

	if st.MovieID <= 0 || st.ClusterID == "" || st.StartsAt == "" || st.Price < 0 {
		return fmt.Errorf("%s: %w", op, ErrIncompleteShowtime)
	}

	starts, err := FormatShowtimeStart(st.StartsAt)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	st.StartsAt = starts

	if err := s.upstream.CreateShowtime(ctx, st); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if s.cache != nil {
		if err := s.cache.InvalidateMovieDetail(ctx, st.MovieID); err != nil {
			s.log.Warn("movie detail invalidation failed", slog.Int64("movie_id", st.MovieID), slog.Any("err", err))
		}
	}
	s.notify(ctx, st.MovieID)
	s.record(ctx, actor, ActionCreateShowtime, fmt.Sprintf("%d@%s %s", st.MovieID, st.ClusterID, st.StartsAt))

	return nil
}

func (s *Service) AuditLog(ctx context.Context, limit, offset int) ([]domain.AuditEntry, error) {
	const op = "service.admin.AuditLog"

	entries, err := s.audit.List(ctx, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return entries, nil
}

const upstreamShowtimeLayout = "02/01/2006 15:04:05"

var showtimeLayouts = []string{
	upstreamShowtimeLayout,
	"2006-01-02T15:04",
	"2006-01-02T15:04:05",
	time.RFC3339,
}

func FormatShowtimeStart(v string) (string, error) {
	v = strings.TrimSpace(v)
	for _, layout := range showtimeLayouts {
		if t, err := time.Parse(layout, v); err == nil {
			return t.Format(upstreamShowtimeLayout), nil
		}
	}

	return "", fmt.Errorf("%w: %q", ErrInvalidStartTime, v)
}

func (s *Service) movieChanged(ctx context.Context, movieID int64) {
	if s.cache != nil {
		if err := s.cache.InvalidateMovie(ctx, s.cfg.Group, movieID); err != nil {
			s.log.Warn("movie cache invalidation failed", slog.Int64("movie_id", movieID), slog.Any("err", err))
		}
	}
	s.notify(ctx, movieID)
}

func (s *Service) notify(ctx context.Context, movieID int64) {
	if s.notifier == nil || movieID == 0 {
		return
	}
	if err := s.notifier.PublishMovieChanged(ctx, movieID); err != nil {
		s.log.Warn("movie change notice failed", slog.Int64("movie_id", movieID), slog.Any("err", err))
	}
}

// record writes an audit entry. The upstream change already happened, so
// failures are logged only.
func (s *Service) record(ctx context.Context, actor *domain.Session, action, target string) {
	if s.audit == nil {
		return
	}

	account := ""
	if actor != nil {
		account = actor.Account
	}

	if _, err := s.audit.Record(ctx, account, action, target); err != nil {
		s.log.Error("audit record failed", slog.String("action", action), slog.String("target", target), slog.Any("err", err))
	}
}

package catalog

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/kirinyoku/cinemago/internal/domain"
	redisx "github.com/kirinyoku/cinemago/internal/redis"
	redisrepo "github.com/kirinyoku/cinemago/internal/repository/redis"
)

type Upstream interface {
	ListMovies(ctx context.Context, group string) ([]domain.Movie, error)
	GetMovie(ctx context.Context, id int64) (*domain.Movie, error)
	MovieShowtimes(ctx context.Context, movieID int64) (*domain.MovieSchedule, error)
	SeatMap(ctx context.Context, showtimeID int64) (*domain.SeatMap, error)
	ListCinemaSystems(ctx context.Context) ([]domain.CinemaSystem, error)
	ListClustersBySystem(ctx context.Context, systemID string) ([]domain.Cluster, error)
}

type Cache interface {
	redisrepo.Fetcher
	InvalidateSeatMap(ctx context.Context, showtimeID int64) error
}

type Config struct {
	Group      string
	MoviesTTL  time.Duration
	DetailTTL  time.Duration
	SeatMapTTL time.Duration
}

// Service serves upstream catalog reads through the shared cache.
type Service struct {
	upstream Upstream
	cache    Cache
	cfg      Config
}

func New(upstream Upstream, cache Cache, cfg Config) *Service {
	if cfg.Group == "" {
		cfg.Group = "GP01"
	}
	if cfg.MoviesTTL <= 0 {
		cfg.MoviesTTL = redisrepo.TTLMovies
	}
	if cfg.DetailTTL <= 0 {
		cfg.DetailTTL = redisrepo.TTLMovieDetail
	}
	if cfg.SeatMapTTL <= 0 {
		cfg.SeatMapTTL = redisrepo.TTLSeatMap
	}

	return &Service{
		upstream: upstream,
		cache:    cache,
		cfg:      cfg,
	}
}

func (s *Service) Group() string { return s.cfg.Group }

// Movies returns the movie list of the configured group.
func (s *Service) Movies(ctx context.Context) ([]domain.Movie, error) {
	const op = "service.catalog.Movies"

	movies, err := redisrepo.GetOrSetJSON(
		ctx,
		s.cache,
		redisx.KeyMovies(s.cfg.Group),
		s.cfg.MoviesTTL,
		func(ctx context.Context) ([]domain.Movie, error) {
			return s.upstream.ListMovies(ctx, s.cfg.Group)
		},
	)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return movies, nil
}

// MovieDetail fetches movie info and its schedule concurrently. The schedule
// is required; when only the info lookup fails, title and poster are taken
// from the schedule.
func (s *Service) MovieDetail(ctx context.Context, movieID int64) (*domain.MovieDetail, error) {
	const op = "service.catalog.MovieDetail"

	detail, err := redisrepo.GetOrSetJSON(
		ctx,
		s.cache,
		redisx.KeyMovieDetail(movieID),
		s.cfg.DetailTTL,
		func(ctx context.Context) (domain.MovieDetail, error) {
			return s.loadDetail(ctx, movieID)
		},
	)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &detail, nil
}

func (s *Service) loadDetail(ctx context.Context, movieID int64) (domain.MovieDetail, error) {
	var (
		g        errgroup.Group
		info     *domain.Movie
		infoErr  error
		schedule *domain.MovieSchedule
		schedErr error
	)

	g.Go(func() error {
		info, infoErr = s.upstream.GetMovie(ctx, movieID)
		return nil
	})
	g.Go(func() error {
		schedule, schedErr = s.upstream.MovieShowtimes(ctx, movieID)
		return nil
	})
	_ = g.Wait()

	if schedErr != nil {
		return domain.MovieDetail{}, schedErr
	}
	if schedule == nil {
		return domain.MovieDetail{}, ErrNoSchedule
	}

	if infoErr != nil || info == nil {
		info = &domain.Movie{
			ID:     movieID,
			Title:  schedule.Title,
			Poster: schedule.Poster,
		}
	}

	return domain.MovieDetail{Info: info, Showtimes: schedule}, nil
}

func (s *Service) SeatMap(ctx context.Context, showtimeID int64) (*domain.SeatMap, error) {
	const op = "service.catalog.SeatMap"

	sm, err := redisrepo.GetOrSetJSON(
		ctx,
		s.cache,
		redisx.KeySeatMap(showtimeID),
		s.cfg.SeatMapTTL,
		func(ctx context.Context) (domain.SeatMap, error) {
			m, err := s.upstream.SeatMap(ctx, showtimeID)
			if err != nil {
				return domain.SeatMap{}, err
			}
			return *m, nil
		},
	)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &sm, nil
}

// RefreshSeatMap drops the cached seat map and loads it again.
func (s *Service) RefreshSeatMap(ctx context.Context, showtimeID int64) (*domain.SeatMap, error) {
	const op = "service.catalog.RefreshSeatMap"

	if err := s.cache.InvalidateSeatMap(ctx, showtimeID); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return s.SeatMap(ctx, showtimeID)
}

func (s *Service) CinemaSystems(ctx context.Context) ([]domain.CinemaSystem, error) {
	const op = "service.catalog.CinemaSystems"

	systems, err := s.upstream.ListCinemaSystems(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return systems, nil
}

func (s *Service) Clusters(ctx context.Context, systemID string) ([]domain.Cluster, error) {
	const op = "service.catalog.Clusters"

	clusters, err := s.upstream.ListClustersBySystem(ctx, systemID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return clusters, nil
}

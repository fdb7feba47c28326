package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	"github.com/kirinyoku/cinemago/internal/booking"
	"github.com/kirinyoku/cinemago/internal/clock"
	"github.com/kirinyoku/cinemago/internal/config"
	"github.com/kirinyoku/cinemago/internal/cybersoft"
	"github.com/kirinyoku/cinemago/internal/postgres"
	"github.com/kirinyoku/cinemago/internal/queue"
	redisx "github.com/kirinyoku/cinemago/internal/redis"
	postgresrepo "github.com/kirinyoku/cinemago/internal/repository/postgres"
	redisrepo "github.com/kirinyoku/cinemago/internal/repository/redis"
	"github.com/kirinyoku/cinemago/internal/service"
	"github.com/kirinyoku/cinemago/internal/service/admin"
	"github.com/kirinyoku/cinemago/internal/service/auth"
	"github.com/kirinyoku/cinemago/internal/service/catalog"
	"github.com/kirinyoku/cinemago/internal/service/reservation"
	httpgin "github.com/kirinyoku/cinemago/internal/transport/http/gin"
)

const (
	connectWait     = 30 * time.Second
	shutdownTimeout = 5 * time.Second

	loginLimit     = 10
	bookingLimit   = 20
	limitWindow    = time.Minute
	idempotencyTTL = 2 * time.Hour
)

type App struct {
	cfg        *config.Config
	logger     *slog.Logger
	httpServer *http.Server
	services   *service.Services
	pubsub     *redisx.CatalogPubSub
	publisher  queue.Publisher
	rdb        *redis.Client
	pool       *pgxpool.Pool
}

func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	pool, err := postgres.New(ctx, postgres.Config{DSN: cfg.Postgres.DSN(), ConnectWait: connectWait})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize postgres: %w", err)
	}

	store := postgresrepo.NewStore(pool)
	if err := store.Migrate(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to migrate postgres: %w", err)
	}

	rdb, err := redisx.New(ctx, redisx.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	}, connectWait)
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to initialize redis: %w", err)
	}

	var publisher queue.Publisher = queue.Noop{}
	if cfg.RabbitMQ.URL != "" {
		p, err := queue.Dial(ctx, cfg.RabbitMQ.URL, connectWait, logger)
		if err != nil {
			_ = rdb.Close()
			pool.Close()
			return nil, fmt.Errorf("failed to initialize rabbitmq: %w", err)
		}
		publisher = p
	} else {
		logger.Info("RABBITMQ_URL not set, booking events are dropped")
	}

	pubsub := redisx.NewCatalogPubSub(rdb)

	services := service.NewServices(service.Deps{
		Upstream: cybersoft.New(cybersoft.Config{
			BaseURL: cfg.Cybersoft.BaseURL,
			Token:   cfg.Cybersoft.Token,
			Group:   cfg.Cybersoft.Group,
			Timeout: cfg.Cybersoft.Timeout,
		}),
		Store:        store,
		Cache:        redisrepo.NewCache(rdb),
		Sessions:     redisrepo.NewSessionStore(rdb),
		Idempotency:  redisrepo.NewIdempotencyStore(rdb, idempotencyTTL),
		LoginLimit:   redisrepo.NewSlidingWindowLimiter(rdb, "login", loginLimit, limitWindow),
		BookingLimit: redisrepo.NewSlidingWindowLimiter(rdb, "booking", bookingLimit, limitWindow),
		PubSub:       pubsub,
		Publisher:    publisher,
		Clock:        clock.Real{},
		Log:          logger,
	}, service.Config{
		Auth: auth.Config{
			IdleTimeout:   cfg.Session.IdleTimeout,
			CheckInterval: cfg.Session.CheckInterval,
		},
		Catalog:     catalog.Config{Group: cfg.Cybersoft.Group},
		Booking:     booking.ManagerConfig{HoldSeconds: cfg.Booking.HoldSeconds},
		Reservation: reservation.Config{},
		Admin: admin.Config{
			Group:             cfg.Cybersoft.Group,
			ProtectedAccounts: cfg.Admin.ProtectedAccounts,
		},
	})

	router := httpgin.NewRouter(services, logger)

	return &App{
		cfg:       cfg,
		logger:    logger,
		services:  services,
		pubsub:    pubsub,
		publisher: publisher,
		rdb:       rdb,
		pool:      pool,
		httpServer: &http.Server{
			Addr:              fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
			Handler:           router,
			ReadHeaderTimeout: 10 * time.Second,
		},
	}, nil
}

func (a *App) Run(ctx context.Context) error {
	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	g, gCtx := errgroup.WithContext(ctx)

	// Start HTTP server
	g.Go(func() error {
		a.logger.Info("HTTP server listening", "host", a.cfg.Server.Host, "port", a.cfg.Server.Port)
		if err := a.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("failed to start HTTP server: %w", err)
		}
		return nil
	})

	// Catalog changes made through other instances
	g.Go(func() error {
		err := a.pubsub.Subscribe(gCtx, func(_ context.Context, c redisx.CatalogChange) {
			a.logger.Info("catalog changed",
				slog.String("type", c.Type),
				slog.Int64("id", c.ID),
				slog.Time("at", time.Unix(c.TsUnix, 0)),
			)
		})
		if err != nil && !errors.Is(err, context.Canceled) {
			return fmt.Errorf("catalog subscription: %w", err)
		}
		return nil
	})

	// Graceful shutdown
	g.Go(func() error {
		<-gCtx.Done()
		a.logger.Info("shutting down HTTP server")
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return a.httpServer.Shutdown(ctx)
	})

	err := g.Wait()
	a.close()
	return err
}

func (a *App) close() {
	a.services.Shutdown()
	if err := a.publisher.Close(); err != nil {
		a.logger.Warn("publisher close failed", "error", err)
	}
	if err := a.rdb.Close(); err != nil {
		a.logger.Warn("redis close failed", "error", err)
	}
	a.pool.Close()
}

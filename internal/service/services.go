package service

import (
	"log/slog"

	"github.com/kirinyoku/cinemago/internal/booking"
	"github.com/kirinyoku/cinemago/internal/clock"
	"github.com/kirinyoku/cinemago/internal/cybersoft"
	"github.com/kirinyoku/cinemago/internal/queue"
	redisx "github.com/kirinyoku/cinemago/internal/redis"
	postgresrepo "github.com/kirinyoku/cinemago/internal/repository/postgres"
	redisrepo "github.com/kirinyoku/cinemago/internal/repository/redis"
	"github.com/kirinyoku/cinemago/internal/service/admin"
	"github.com/kirinyoku/cinemago/internal/service/auth"
	"github.com/kirinyoku/cinemago/internal/service/catalog"
	"github.com/kirinyoku/cinemago/internal/service/orders"
	"github.com/kirinyoku/cinemago/internal/service/reservation"
)

type Services struct {
	Auth        *auth.Service
	Catalog     *catalog.Service
	Reservation *reservation.Service
	Orders      *orders.Service
	Admin       *admin.Service
}

type Config struct {
	Auth        auth.Config
	Catalog     catalog.Config
	Booking     booking.ManagerConfig
	Reservation reservation.Config
	Admin       admin.Config
}

type Deps struct {
	Upstream     *cybersoft.Client
	Store        *postgresrepo.Store
	Cache        *redisrepo.Cache
	Sessions     *redisrepo.SessionStore
	Idempotency  *redisrepo.IdempotencyStore
	LoginLimit   *redisrepo.SlidingWindowLimiter
	BookingLimit *redisrepo.SlidingWindowLimiter
	PubSub       *redisx.CatalogPubSub
	Publisher    queue.Publisher
	Clock        clock.Clock
	Log          *slog.Logger
}

func NewServices(d Deps, cfg Config) *Services {
	authSvc := auth.New(d.Upstream, d.Sessions, d.LoginLimit, d.Clock, d.Log, cfg.Auth)
	catalogSvc := catalog.New(d.Upstream, d.Cache, cfg.Catalog)
	ordersSvc := orders.New(orders.NewPGStore(d.Store, d.Log), d.Cache, d.PubSub, d.Publisher, d.Log)

	reservationSvc := reservation.New(
		booking.NewManager(d.Clock, cfg.Booking),
		d.Upstream,
		catalogSvc,
		d.Cache,
		ordersSvc,
		d.Idempotency,
		d.BookingLimit,
		d.Clock,
		d.Log,
		cfg.Reservation,
	)

	// Holds die with the session that opened them.
	authSvc.OnLogout(reservationSvc.ReleaseSession)

	return &Services{
		Auth:        authSvc,
		Catalog:     catalogSvc,
		Reservation: reservationSvc,
		Orders:      ordersSvc,
		Admin:       admin.New(d.Upstream, d.Cache, d.PubSub, d.Store.Audit(), d.Log, cfg.Admin),
	}
}

// Shutdown stops session monitors and hold countdowns.
func (s *Services) Shutdown() {
	s.Auth.Shutdown()
	s.Reservation.Shutdown()
}

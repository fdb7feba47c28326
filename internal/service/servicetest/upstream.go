package servicetest

import (
	"context"
	"sync"

	"github.com/kirinyoku/cinemago/internal/domain"
)

// Upstream is a scripted fake of the cinema API. Errs maps a method name to
// the error it returns; Calls counts invocations per method.
type Upstream struct {
	mu sync.Mutex

	Movies    []domain.Movie
	Movie     *domain.Movie
	Schedule  *domain.MovieSchedule
	Seats     *domain.SeatMap
	Systems   []domain.CinemaSystem
	Clusters  []domain.Cluster
	Users     []domain.User
	Booked    [][]domain.Ticket
	Showtimes []domain.NewShowtime
	Forms     []domain.MovieForm
	Deleted   []string
	Account   *domain.Account
	Profile   *domain.User

	Errs  map[string]error
	Calls map[string]int
}

func NewUpstream() *Upstream {
	return &Upstream{
		Errs:  make(map[string]error),
		Calls: make(map[string]int),
	}
}

func (u *Upstream) call(name string) error {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.Calls[name]++
	return u.Errs[name]
}

func (u *Upstream) Count(name string) int {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.Calls[name]
}

func (u *Upstream) ListMovies(context.Context, string) ([]domain.Movie, error) {
	if err := u.call("ListMovies"); err != nil {
		return nil, err
	}
	return u.Movies, nil
}

func (u *Upstream) GetMovie(context.Context, int64) (*domain.Movie, error) {
	if err := u.call("GetMovie"); err != nil {
		return nil, err
	}
	return u.Movie, nil
}

func (u *Upstream) MovieShowtimes(context.Context, int64) (*domain.MovieSchedule, error) {
	if err := u.call("MovieShowtimes"); err != nil {
		return nil, err
	}
	return u.Schedule, nil
}

func (u *Upstream) SeatMap(context.Context, int64) (*domain.SeatMap, error) {
	if err := u.call("SeatMap"); err != nil {
		return nil, err
	}
	cp := *u.Seats
	cp.Seats = append([]domain.Seat(nil), u.Seats.Seats...)
	return &cp, nil
}

func (u *Upstream) BookTickets(_ context.Context, _ int64, tickets []domain.Ticket) error {
	if err := u.call("BookTickets"); err != nil {
		return err
	}
	u.mu.Lock()
	u.Booked = append(u.Booked, tickets)
	u.mu.Unlock()
	return nil
}

func (u *Upstream) CreateShowtime(_ context.Context, s domain.NewShowtime) error {
	if err := u.call("CreateShowtime"); err != nil {
		return err
	}
	u.mu.Lock()
	u.Showtimes = append(u.Showtimes, s)
	u.mu.Unlock()
	return nil
}

func (u *Upstream) ListCinemaSystems(context.Context) ([]domain.CinemaSystem, error) {
	if err := u.call("ListCinemaSystems"); err != nil {
		return nil, err
	}
	return u.Systems, nil
}

func (u *Upstream) ListClustersBySystem(context.Context, string) ([]domain.Cluster, error) {
	if err := u.call("ListClustersBySystem"); err != nil {
		return nil, err
	}
	return u.Clusters, nil
}

func (u *Upstream) AddMovie(_ context.Context, form domain.MovieForm) error {
	return u.recordForm("AddMovie", form)
}

func (u *Upstream) UpdateMovie(_ context.Context, form domain.MovieForm) error {
	return u.recordForm("UpdateMovie", form)
}

func (u *Upstream) recordForm(name string, form domain.MovieForm) error {
	if err := u.call(name); err != nil {
		return err
	}
	u.mu.Lock()
	u.Forms = append(u.Forms, form)
	u.mu.Unlock()
	return nil
}

func (u *Upstream) DeleteMovie(context.Context, int64) error {
	return u.call("DeleteMovie")
}

func (u *Upstream) ListUsers(context.Context, string) ([]domain.User, error) {
	if err := u.call("ListUsers"); err != nil {
		return nil, err
	}
	return u.Users, nil
}

func (u *Upstream) SearchUsers(context.Context, string, string) ([]domain.User, error) {
	if err := u.call("SearchUsers"); err != nil {
		return nil, err
	}
	return u.Users, nil
}

func (u *Upstream) AddUser(context.Context, domain.User) error    { return u.call("AddUser") }
func (u *Upstream) UpdateUser(context.Context, domain.User) error { return u.call("UpdateUser") }

func (u *Upstream) DeleteUser(_ context.Context, account string) error {
	if err := u.call("DeleteUser"); err != nil {
		return err
	}
	u.mu.Lock()
	u.Deleted = append(u.Deleted, account)
	u.mu.Unlock()
	return nil
}

func (u *Upstream) Login(_ context.Context, account, _ string) (*domain.Account, error) {
	if err := u.call("Login"); err != nil {
		return nil, err
	}
	u.mu.Lock()
	defer u.mu.Unlock()
	if u.Account == nil {
		return &domain.Account{Account: account, AccessToken: "token-" + account, Role: domain.RoleCustomer}, nil
	}
	acc := *u.Account
	return &acc, nil
}

func (u *Upstream) Register(context.Context, domain.User) error { return u.call("Register") }

func (u *Upstream) AccountInfo(context.Context) (*domain.User, error) {
	if err := u.call("AccountInfo"); err != nil {
		return nil, err
	}
	return u.Profile, nil
}

package orders

import (
	"context"
	"log/slog"

	"github.com/kirinyoku/cinemago/internal/domain"
	postgresrepo "github.com/kirinyoku/cinemago/internal/repository/postgres"
	"github.com/kirinyoku/cinemago/internal/uow"
)

// PGStore persists orders in postgres.
type PGStore struct {
	store *postgresrepo.Store
	uow   *uow.UoW
}

func NewPGStore(store *postgresrepo.Store, log *slog.Logger) *PGStore {
	return &PGStore{store: store, uow: uow.NewUoW(store, log)}
}

// CreateOrder writes the order and its seats in one transaction and runs
// after once it has committed.
func (s *PGStore) CreateOrder(ctx context.Context, o *domain.Order, after ...uow.AfterCommit) error {
	return s.uow.Do(ctx, func(
		ctx context.Context,
		tx postgresrepo.DB,
		onCommit func(uow.AfterCommit),
	) error {
		if err := s.store.Orders().With(tx).Create(ctx, o); err != nil {
			return err
		}
		for _, h := range after {
			onCommit(h)
		}
		return nil
	})
}

func (s *PGStore) GetOrder(ctx context.Context, account, code string) (*domain.Order, error) {
	return s.store.Orders().GetByCode(ctx, account, code)
}

func (s *PGStore) LastOrder(ctx context.Context, account string) (*domain.Order, error) {
	return s.store.Orders().LastByAccount(ctx, account)
}

// Package uow runs repository writes in one postgres transaction and defers
// side effects until the transaction has committed.
package uow

import (
	"context"
	"log/slog"

	"github.com/jackc/pgx/v5"

	postgresrepo "github.com/kirinyoku/cinemago/internal/repository/postgres"
)

// AfterCommit runs once the transaction has committed. Its context is not
// cancelled when the request that started the work goes away.
type AfterCommit func(ctx context.Context)

type UoW struct {
	store *postgresrepo.Store
	log   *slog.Logger
	opts  pgx.TxOptions
}

func NewUoW(store *postgresrepo.Store, log *slog.Logger) *UoW {
	if log == nil {
		log = slog.Default()
	}
	return &UoW{
		store: store,
		log:   log,
		opts:  pgx.TxOptions{IsoLevel: pgx.ReadCommitted},
	}
}

// Do runs fn inside a transaction. Hooks passed to after are run in order
// once the commit succeeded; hooks registered by a retried attempt are
// discarded.
func (u *UoW) Do(
	ctx context.Context,
	fn func(ctx context.Context, tx postgresrepo.DB, after func(AfterCommit)) error,
) error {
	var hooks []AfterCommit

	err := u.store.RunTx(ctx, &u.opts, func(ctx context.Context, tx postgresrepo.DB) error {
		hooks = hooks[:0]
		return fn(ctx, tx, func(h AfterCommit) {
			hooks = append(hooks, h)
		})
	})
	if err != nil {
		return err
	}

	runHooks(context.WithoutCancel(ctx), u.log, hooks)
	return nil
}

// runHooks keeps going past a panicking hook; the data is already committed.
func runHooks(ctx context.Context, log *slog.Logger, hooks []AfterCommit) {
	for i, h := range hooks {
		func() {
			defer func() {
				if r := recover(); r != nil {
					log.Error("after-commit hook panicked", slog.Int("hook", i), slog.Any("panic", r))
				}
			}()
			h(ctx)
		}()
	}
}

//go:build integration

package postgresrepo

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/kirinyoku/cinemago/internal/domain"
	"github.com/kirinyoku/cinemago/internal/postgres"
	"github.com/kirinyoku/cinemago/internal/repository"
)

func setupStore(t *testing.T, ctx context.Context) *Store {
	t.Helper()

	req := testcontainers.ContainerRequest{
		Image:        "postgres:17-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_USER":     "test",
			"POSTGRES_PASSWORD": "test",
			"POSTGRES_DB":       "cinemago",
		},
		WaitingFor: wait.ForLog("database system is ready to accept connections").WithOccurrence(2),
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Terminate(ctx) })

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "5432")
	require.NoError(t, err)

	pool, err := postgres.New(ctx, postgres.Config{
		DSN:         fmt.Sprintf("postgres://test:test@%s:%s/cinemago?sslmode=disable", host, port.Port()),
		ConnectWait: 30 * time.Second,
	})
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	store := NewStore(pool)
	require.NoError(t, store.Migrate(ctx))
	// migrations are idempotent
	require.NoError(t, store.Migrate(ctx))

	return store
}

func TestIntegration_Orders(t *testing.T) {
	ctx := context.Background()
	store := setupStore(t, ctx)
	at := time.Date(2025, 5, 1, 19, 0, 0, 0, time.UTC)

	order := func(code string, purchasedAt time.Time, seats ...domain.OrderSeat) *domain.Order {
		o := &domain.Order{
			Code:        code,
			Account:     "alice",
			PurchasedAt: purchasedAt,
			ShowtimeID:  44120,
			MovieTitle:  "Dune",
			ClusterName: "BHD Star Cineplex - 3/2",
			TheaterName: "Rạp 1",
			Date:        "10/05/2025",
			Time:        "19:30",
			Seats:       seats,
		}
		for _, s := range seats {
			o.Total += s.Price
		}
		return o
	}

	t.Run("create in a transaction and read back", func(t *testing.T) {
		o := order("MH1746126000", at,
			domain.OrderSeat{SeatID: 2, Name: "02", Type: "Vip", Price: 90000},
			domain.OrderSeat{SeatID: 1, Name: "01", Type: "Thuong", Price: 75000},
		)
		require.NoError(t, store.RunTx(ctx, nil, func(ctx context.Context, tx DB) error {
			return store.Orders().With(tx).Create(ctx, o)
		}))

		got, err := store.Orders().GetByCode(ctx, "alice", "MH1746126000")
		require.NoError(t, err)
		assert.Equal(t, float64(165000), got.Total)
		assert.True(t, got.PurchasedAt.Equal(at))
		require.Len(t, got.Seats, 2)
		assert.Equal(t, int64(2), got.Seats[0].SeatID, "seats keep selection order")
	})

	t.Run("rolled back order is not stored", func(t *testing.T) {
		err := store.RunTx(ctx, nil, func(ctx context.Context, tx DB) error {
			if err := store.Orders().With(tx).Create(ctx, order("MH1746126999", at)); err != nil {
				return err
			}
			return fmt.Errorf("abort")
		})
		require.Error(t, err)

		_, err = store.Orders().GetByCode(ctx, "alice", "MH1746126999")
		assert.ErrorIs(t, err, repository.ErrNotFound)
	})

	t.Run("last order is the newest", func(t *testing.T) {
		require.NoError(t, store.Orders().Create(ctx, order("MH1746129600", at.Add(time.Hour),
			domain.OrderSeat{SeatID: 5, Name: "05", Price: 75000},
		)))

		got, err := store.Orders().LastByAccount(ctx, "alice")
		require.NoError(t, err)
		assert.Equal(t, "MH1746129600", got.Code)

		_, err = store.Orders().LastByAccount(ctx, "bob")
		assert.ErrorIs(t, err, repository.ErrNotFound)
	})
}

func TestIntegration_Audit(t *testing.T) {
	ctx := context.Background()
	store := setupStore(t, ctx)

	for _, target := range []string{"1282", "1283", "bob"} {
		_, err := store.Audit().Record(ctx, "admin01", "delete", target)
		require.NoError(t, err)
	}

	entries, err := store.Audit().List(ctx, 2, 0)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "bob", entries[0].Target)
	assert.Equal(t, "1283", entries[1].Target)

	entries, err = store.Audit().List(ctx, 2, 2)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "1282", entries[0].Target)
}

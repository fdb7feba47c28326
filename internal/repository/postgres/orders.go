package postgresrepo

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/kirinyoku/cinemago/internal/domain"
)

type OrderRepo struct {
	pool *pgxpool.Pool
	db   DB
}

func (r *OrderRepo) With(db DB) *OrderRepo {
	cp := *r
	cp.db = db
	return &cp
}

func (r *OrderRepo) handle() DB {
	if r.db != nil {
		return r.db
	}
	return r.pool
}

// Create inserts the order and its seats. Run it inside a transaction.
func (r *OrderRepo) Create(ctx context.Context, o *domain.Order) error {
	const op = "postgresrepo.OrderRepo.Create"

	db := r.handle()

	var id int64
	if err := db.QueryRow(ctx,
		`INSERT INTO orders(code, account, purchased_at, showtime_id, movie_title, movie_poster,
		                    cluster_name, theater_name, address, show_date, show_time, total)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		 RETURNING id`,
		o.Code, o.Account, o.PurchasedAt, o.ShowtimeID, o.MovieTitle, o.MoviePoster,
		o.ClusterName, o.TheaterName, o.Address, o.Date, o.Time, o.Total,
	).Scan(&id); err != nil {
		return wrapDBErr(op, err)
	}

	if len(o.Seats) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	for i, s := range o.Seats {
		batch.Queue(
			`INSERT INTO order_seats(order_id, seat_id, name, seat_type, price, position)
			 VALUES ($1, $2, $3, $4, $5, $6)`,
			id, s.SeatID, s.Name, s.Type, s.Price, i,
		)
	}
	if err := db.SendBatch(ctx, batch).Close(); err != nil {
		return wrapDBErr(op, err)
	}

	return nil
}

const orderColumns = `id, code, account, purchased_at, showtime_id, movie_title, movie_poster,
	cluster_name, theater_name, address, show_date, show_time, total`

// GetByCode returns the newest order of account with the given code.
func (r *OrderRepo) GetByCode(ctx context.Context, account, code string) (*domain.Order, error) {
	const op = "postgresrepo.OrderRepo.GetByCode"

	o, err := r.one(ctx,
		`SELECT `+orderColumns+` FROM orders
		 WHERE account = $1 AND code = $2
		 ORDER BY id DESC
		 LIMIT 1`,
		account, code,
	)
	if err != nil {
		return nil, wrapDBErr(op, err)
	}

	return o, nil
}

// LastByAccount returns the most recent order placed by account.
func (r *OrderRepo) LastByAccount(ctx context.Context, account string) (*domain.Order, error) {
	const op = "postgresrepo.OrderRepo.LastByAccount"

	o, err := r.one(ctx,
		`SELECT `+orderColumns+` FROM orders
		 WHERE account = $1
		 ORDER BY purchased_at DESC, id DESC
		 LIMIT 1`,
		account,
	)
	if err != nil {
		return nil, wrapDBErr(op, err)
	}

	return o, nil
}

func (r *OrderRepo) one(ctx context.Context, sql string, args ...any) (*domain.Order, error) {
	db := r.handle()

	var (
		id int64
		o  domain.Order
	)
	if err := db.QueryRow(ctx, sql, args...).Scan(
		&id, &o.Code, &o.Account, &o.PurchasedAt, &o.ShowtimeID, &o.MovieTitle, &o.MoviePoster,
		&o.ClusterName, &o.TheaterName, &o.Address, &o.Date, &o.Time, &o.Total,
	); err != nil {
		return nil, err
	}

	rows, err := db.Query(ctx,
		`SELECT seat_id, name, seat_type, price
		 FROM order_seats
		 WHERE order_id = $1
		 ORDER BY position`,
		id,
	)
	if err != nil {
		return nil, err
	}

	o.Seats, err = pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.OrderSeat, error) {
		var s domain.OrderSeat
		err := row.Scan(&s.SeatID, &s.Name, &s.Type, &s.Price)
		return s, err
	})
	if err != nil {
		return nil, err
	}

	return &o, nil
}

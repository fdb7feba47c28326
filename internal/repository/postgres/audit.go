package postgresrepo

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/kirinyoku/cinemago/internal/domain"
)

// AuditRepo stores the admin mutation log.
type AuditRepo struct {
	pool *pgxpool.Pool
	db   DB
}

func (r *AuditRepo) With(db DB) *AuditRepo {
	cp := *r
	cp.db = db
	return &cp
}

func (r *AuditRepo) handle() DB {
	if r.db != nil {
		return r.db
	}
	return r.pool
}

func (r *AuditRepo) Record(ctx context.Context, account, action, target string) (int64, error) {
	const op = "postgresrepo.AuditRepo.Record"

	var id int64
	if err := r.handle().QueryRow(ctx,
		`INSERT INTO admin_audit(account, action, target)
		 VALUES ($1, $2, $3)
		 RETURNING id`,
		account, action, target,
	).Scan(&id); err != nil {
		return 0, wrapDBErr(op, err)
	}

	return id, nil
}

// List returns the newest entries first.
func (r *AuditRepo) List(ctx context.Context, limit, offset int) ([]domain.AuditEntry, error) {
	const op = "postgresrepo.AuditRepo.List"

	if limit <= 0 || limit > 200 {
		limit = 50
	}

	rows, err := r.handle().Query(ctx,
		`SELECT id, account, action, target, created_at
		 FROM admin_audit
		 ORDER BY id DESC
		 LIMIT $1 OFFSET $2`,
		limit, offset,
	)
	if err != nil {
		return nil, wrapDBErr(op, err)
	}

	entries, err := pgx.CollectRows(rows, pgx.RowToStructByPos[domain.AuditEntry])
	if err != nil {
		return nil, wrapDBErr(op, err)
	}

	return entries, nil
}

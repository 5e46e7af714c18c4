package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/soraleth/wavedex/internal/observability"
)

type SessionRow struct {
	ID        string
	TokenHash string
	UserID    string
	ExpiresAt time.Time
	CreatedAt time.Time
}

type SessionsRepo struct {
	pool *pgxpool.Pool
	prom *observability.Prom
}

func NewSessionsRepo(pool *pgxpool.Pool, prom *observability.Prom) *SessionsRepo {
	return &SessionsRepo{pool: pool, prom: prom}
}

func (r *SessionsRepo) observe(op string, fn func() error) error {
	if r.prom != nil {
		return r.prom.ObserveDB(op, fn)
	}
	return fn()
}

func (r *SessionsRepo) Create(ctx context.Context, row SessionRow) error {
	return r.observe("sessions.create", func() error {
		_, err := r.pool.Exec(ctx,
			`INSERT INTO sessions (id, token_hash, user_id, expires_at, created_at)
			VALUES ($1,$2,$3,$4,$5)`,
			row.ID, row.TokenHash, row.UserID, row.ExpiresAt, row.CreatedAt,
		)
		return err
	})
}

// GetByTokenHash returns the live session for a token hash. Expired rows are
// reaped in passing, so a dead cookie reads as "no session" and the table
// does not accumulate garbage without a background sweeper.
func (r *SessionsRepo) GetByTokenHash(ctx context.Context, tokenHash string) (SessionRow, error) {
	var row SessionRow

	err := r.observe("sessions.get_by_token_hash", func() error {
		return r.pool.QueryRow(ctx,
			`SELECT id, token_hash, user_id, expires_at, created_at
			FROM sessions
			WHERE token_hash = $1`,
			tokenHash,
		).Scan(&row.ID, &row.TokenHash, &row.UserID, &row.ExpiresAt, &row.CreatedAt)
	})

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return SessionRow{}, ErrSessionNotFound
		}

		return SessionRow{}, err
	}

	if time.Now().UTC().After(row.ExpiresAt) {
		_ = r.observe("sessions.reap_expired", func() error {
			_, err := r.pool.Exec(ctx, `DELETE FROM sessions WHERE id = $1`, row.ID)
			return err
		})

		return SessionRow{}, ErrSessionNotFound
	}

	return row, nil
}

func (r *SessionsRepo) DeleteByTokenHash(ctx context.Context, tokenHash string) error {
	return r.observe("sessions.delete_by_token_hash", func() error {
		_, err := r.pool.Exec(ctx, `DELETE FROM sessions WHERE token_hash = $1`, tokenHash)
		return err
	})
}

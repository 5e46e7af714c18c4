package db

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/soraleth/wavedex/internal/config"
	"github.com/soraleth/wavedex/internal/domain/user"
	"github.com/soraleth/wavedex/internal/security"
)

// EnsureAdminUser creates the bootstrap admin from config on first start.
// If the email already exists the account is promoted to ADMIN instead of
// touching its password.
func EnsureAdminUser(ctx context.Context, pool *pgxpool.Pool, cfg config.Config) error {
	if cfg.AdminEmail == "" || cfg.AdminPassword == "" {
		return nil
	}

	// check if the user exists

	var id string
	var role string

	err := pool.QueryRow(ctx, `SELECT id, role FROM users WHERE email = $1`, cfg.AdminEmail).Scan(&id, &role)

	if err == nil {
		if role == user.RoleAdmin {
			return nil
		}

		_, err = pool.Exec(ctx, `UPDATE users SET role = $2, updated_at = $3 WHERE id = $1`,
			id, user.RoleAdmin, time.Now().UTC())
		return err
	}

	if !errors.Is(err, pgx.ErrNoRows) {
		return err
	}

	hash, err := security.HashPassword(cfg.AdminPassword)

	if err != nil {
		return err
	}

	now := time.Now().UTC()

	u := user.User{
		ID:           uuid.NewString(),
		Email:        cfg.AdminEmail,
		PasswordHash: hash,
		FirstName:    cfg.AdminFirstName,
		LastName:     cfg.AdminLastName,
		Role:         user.RoleAdmin,
		ConsentGiven: true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	_, err = pool.Exec(ctx,
		`INSERT INTO users (id, email, password_hash, first_name, last_name, role, consent_given, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)`,
		u.ID, u.Email, u.PasswordHash, u.FirstName, u.LastName, u.Role, u.ConsentGiven, u.CreatedAt, u.UpdatedAt,
	)

	return err
}

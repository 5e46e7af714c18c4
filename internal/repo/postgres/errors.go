package postgres

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

var (
	ErrUserNotFound      = errors.New("user not found")
	ErrEmailTaken        = errors.New("email already in use")
	ErrCharacterNotFound = errors.New("character not found")
	ErrFavoriteNotFound  = errors.New("favorite not found")
	ErrDuplicateFavorite = errors.New("favorite already exists")
	ErrBuildNotFound     = errors.New("build not found")
	ErrSessionNotFound   = errors.New("session not found")
)

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError

	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}

	return false
}

// Package session implements server-side sessions behind an opaque cookie
// token. The TTL is absolute from creation, not sliding: activity never
// extends a session, matching the product's 30-minute hard expiry.
package session

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/soraleth/wavedex/internal/repo/postgres"
	"github.com/soraleth/wavedex/internal/security"
)

const (
	CookieName = "wavedex_session"
	TTL        = 30 * time.Minute
)

var ErrNoSession = errors.New("no valid session")

// Store is the persistence the manager needs; *postgres.SessionsRepo
// satisfies it, tests fake it.
type Store interface {
	Create(ctx context.Context, row postgres.SessionRow) error
	GetByTokenHash(ctx context.Context, tokenHash string) (postgres.SessionRow, error)
	DeleteByTokenHash(ctx context.Context, tokenHash string) error
}

type Manager struct {
	store  Store
	secret []byte
	ttl    time.Duration
}

func NewManager(store Store, secret string) *Manager {
	return &Manager{
		store:  store,
		secret: []byte(secret),
		ttl:    TTL,
	}
}

// Issue creates a session for the user and returns the raw cookie token.
// Only the HMAC of the token is persisted.
func (m *Manager) Issue(ctx context.Context, userID string) (raw string, expiresAt time.Time, err error) {
	raw, err = security.NewSessionToken()

	if err != nil {
		return "", time.Time{}, err
	}

	now := time.Now().UTC()
	expiresAt = now.Add(m.ttl)

	row := postgres.SessionRow{
		ID:        uuid.NewString(),
		TokenHash: security.HashToken(m.secret, raw),
		UserID:    userID,
		ExpiresAt: expiresAt,
		CreatedAt: now,
	}

	err = m.store.Create(ctx, row)

	if err != nil {
		return "", time.Time{}, err
	}

	return raw, expiresAt, nil
}

// Resolve maps a cookie token to the owning user id. A missing or expired
// record is ErrNoSession; the caller treats that as an anonymous request,
// never as a server error.
func (m *Manager) Resolve(ctx context.Context, raw string) (string, error) {
	if raw == "" {
		return "", ErrNoSession
	}

	row, err := m.store.GetByTokenHash(ctx, security.HashToken(m.secret, raw))

	if err != nil {
		if errors.Is(err, postgres.ErrSessionNotFound) {
			return "", ErrNoSession
		}

		return "", err
	}

	return row.UserID, nil
}

// Destroy removes the server-side record. Destroying an unknown token is a
// no-op, so logout is idempotent.
func (m *Manager) Destroy(ctx context.Context, raw string) error {
	if raw == "" {
		return nil
	}

	return m.store.DeleteByTokenHash(ctx, security.HashToken(m.secret, raw))
}

package session_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/soraleth/wavedex/internal/repo/postgres"
	"github.com/soraleth/wavedex/internal/session"
)

type fakeStore struct {
	rows map[string]postgres.SessionRow

	createErr error
	deleteErr error
}

func newFakeStore() *fakeStore {
	return &fakeStore{rows: make(map[string]postgres.SessionRow)}
}

func (f *fakeStore) Create(ctx context.Context, row postgres.SessionRow) error {
	if f.createErr != nil {
		return f.createErr
	}

	f.rows[row.TokenHash] = row

	return nil
}

func (f *fakeStore) GetByTokenHash(ctx context.Context, tokenHash string) (postgres.SessionRow, error) {
	row, ok := f.rows[tokenHash]

	if !ok {
		return postgres.SessionRow{}, postgres.ErrSessionNotFound
	}

	return row, nil
}

func (f *fakeStore) DeleteByTokenHash(ctx context.Context, tokenHash string) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}

	delete(f.rows, tokenHash)

	return nil
}

func TestManagerIssueAndResolve(t *testing.T) {
	store := newFakeStore()
	m := session.NewManager(store, "test-secret")

	raw, expiresAt, err := m.Issue(context.Background(), "user-1")

	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}

	if raw == "" {
		t.Fatalf("expected a raw token")
	}

	ttl := time.Until(expiresAt)

	if ttl < 29*time.Minute || ttl > 30*time.Minute {
		t.Fatalf("expiry %v not within the 30 minute window", ttl)
	}

	// only the HMAC of the token may hit the store
	for hash := range store.rows {
		if hash == raw {
			t.Fatalf("raw token was persisted verbatim")
		}
	}

	userID, err := m.Resolve(context.Background(), raw)

	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}

	if userID != "user-1" {
		t.Fatalf("got user %q, want user-1", userID)
	}
}

func TestManagerResolveUnknownToken(t *testing.T) {
	m := session.NewManager(newFakeStore(), "test-secret")

	_, err := m.Resolve(context.Background(), "never-issued")

	if !errors.Is(err, session.ErrNoSession) {
		t.Fatalf("got %v, want ErrNoSession", err)
	}
}

func TestManagerResolveEmptyToken(t *testing.T) {
	m := session.NewManager(newFakeStore(), "test-secret")

	_, err := m.Resolve(context.Background(), "")

	if !errors.Is(err, session.ErrNoSession) {
		t.Fatalf("got %v, want ErrNoSession", err)
	}
}

// tokens signed under one secret must not resolve under another

func TestManagerSecretMismatch(t *testing.T) {
	store := newFakeStore()

	issuer := session.NewManager(store, "secret-a")
	other := session.NewManager(store, "secret-b")

	raw, _, err := issuer.Issue(context.Background(), "user-1")

	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}

	_, err = other.Resolve(context.Background(), raw)

	if !errors.Is(err, session.ErrNoSession) {
		t.Fatalf("got %v, want ErrNoSession under a different secret", err)
	}
}

func TestManagerDestroy(t *testing.T) {
	store := newFakeStore()
	m := session.NewManager(store, "test-secret")

	raw, _, err := m.Issue(context.Background(), "user-1")

	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}

	err = m.Destroy(context.Background(), raw)

	if err != nil {
		t.Fatalf("Destroy failed: %v", err)
	}

	_, err = m.Resolve(context.Background(), raw)

	if !errors.Is(err, session.ErrNoSession) {
		t.Fatalf("destroyed session still resolves: %v", err)
	}

	// destroying again stays a no-op
	err = m.Destroy(context.Background(), raw)

	if err != nil {
		t.Fatalf("second Destroy failed: %v", err)
	}
}

func TestManagerDestroyEmptyTokenIsNoOp(t *testing.T) {
	store := newFakeStore()
	store.deleteErr = errors.New("store must not be called")

	m := session.NewManager(store, "test-secret")

	err := m.Destroy(context.Background(), "")

	if err != nil {
		t.Fatalf("Destroy(\"\") = %v, want nil", err)
	}
}

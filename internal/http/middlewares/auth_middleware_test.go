package middlewares_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/soraleth/wavedex/internal/domain/user"
	"github.com/soraleth/wavedex/internal/http/middlewares"
	"github.com/soraleth/wavedex/internal/repo/postgres"
	"github.com/soraleth/wavedex/internal/session"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fakeResolver struct {
	resolveFn func(ctx context.Context, raw string) (string, error)
}

func (f *fakeResolver) Resolve(ctx context.Context, raw string) (string, error) {
	if f.resolveFn != nil {
		return f.resolveFn(ctx, raw)
	}

	return "", session.ErrNoSession
}

type fakeUserGetter struct {
	getFn func(ctx context.Context, id string) (user.User, error)
}

func (f *fakeUserGetter) GetByID(ctx context.Context, id string) (user.User, error) {
	if f.getFn != nil {
		return f.getFn(ctx, id)
	}

	return user.User{}, postgres.ErrUserNotFound
}

// mounts a route that reports the user id the middleware planted

func protectedRouter(m *middlewares.AuthMiddleware, extra ...gin.HandlerFunc) *gin.Engine {
	r := gin.New()

	chain := append([]gin.HandlerFunc{m.RequireAuth()}, extra...)
	chain = append(chain, func(c *gin.Context) {
		id, _ := middlewares.UserIDFromContext(c)
		c.JSON(http.StatusOK, gin.H{"userId": id})
	})

	r.GET("/protected", chain...)

	return r
}

func TestRequireAuth(t *testing.T) {
	validUserID := "user-1"

	tests := []struct {
		name           string
		cookie         string
		resolveFn      func(ctx context.Context, raw string) (string, error)
		wantStatusCode int
	}{
		{
			name:   "valid_session",
			cookie: "raw-token",
			resolveFn: func(ctx context.Context, raw string) (string, error) {
				if raw != "raw-token" {
					return "", session.ErrNoSession
				}

				return validUserID, nil
			},
			wantStatusCode: http.StatusOK,
		},
		{
			name:           "no_cookie",
			wantStatusCode: http.StatusUnauthorized,
		},
		{
			name:           "unknown_or_expired_session",
			cookie:         "stale-token",
			wantStatusCode: http.StatusUnauthorized,
		},
		{
			name:   "store_failure",
			cookie: "raw-token",
			resolveFn: func(ctx context.Context, raw string) (string, error) {
				return "", errors.New("db down")
			},
			wantStatusCode: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		tt := tt

		t.Run(tt.name, func(t *testing.T) {
			m := middlewares.NewAuthMiddleware(&fakeResolver{resolveFn: tt.resolveFn}, &fakeUserGetter{})
			r := protectedRouter(m)

			req := httptest.NewRequest(http.MethodGet, "/protected", nil)

			if tt.cookie != "" {
				req.AddCookie(&http.Cookie{Name: session.CookieName, Value: tt.cookie})
			}

			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			if w.Code != tt.wantStatusCode {
				t.Fatalf("got status %d, want %d, body=%s", w.Code, tt.wantStatusCode, w.Body.String())
			}
		})
	}
}

func TestRequireAdmin(t *testing.T) {
	resolver := &fakeResolver{
		resolveFn: func(ctx context.Context, raw string) (string, error) {
			return "user-1", nil
		},
	}

	tests := []struct {
		name           string
		getFn          func(ctx context.Context, id string) (user.User, error)
		wantStatusCode int
	}{
		{
			name: "admin_passes",
			getFn: func(ctx context.Context, id string) (user.User, error) {
				return user.User{ID: id, Role: user.RoleAdmin}, nil
			},
			wantStatusCode: http.StatusOK,
		},
		{
			name: "regular_user_forbidden",
			getFn: func(ctx context.Context, id string) (user.User, error) {
				return user.User{ID: id, Role: user.RoleUser}, nil
			},
			wantStatusCode: http.StatusForbidden,
		},
		{
			// the account was deleted while the session was still live
			name:           "deleted_account_unauthorized",
			wantStatusCode: http.StatusUnauthorized,
		},
		{
			name: "store_failure",
			getFn: func(ctx context.Context, id string) (user.User, error) {
				return user.User{}, errors.New("db down")
			},
			wantStatusCode: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		tt := tt

		t.Run(tt.name, func(t *testing.T) {
			m := middlewares.NewAuthMiddleware(resolver, &fakeUserGetter{getFn: tt.getFn})
			r := protectedRouter(m, m.RequireAdmin())

			req := httptest.NewRequest(http.MethodGet, "/protected", nil)
			req.AddCookie(&http.Cookie{Name: session.CookieName, Value: "raw-token"})

			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			if w.Code != tt.wantStatusCode {
				t.Fatalf("got status %d, want %d, body=%s", w.Code, tt.wantStatusCode, w.Body.String())
			}
		})
	}
}

// a role change must bite on the very next request, no caching

func TestRequireAdmin_RoleChangeTakesEffectImmediately(t *testing.T) {
	role := user.RoleAdmin

	resolver := &fakeResolver{
		resolveFn: func(ctx context.Context, raw string) (string, error) {
			return "user-1", nil
		},
	}
	users := &fakeUserGetter{
		getFn: func(ctx context.Context, id string) (user.User, error) {
			return user.User{ID: id, Role: role}, nil
		},
	}

	m := middlewares.NewAuthMiddleware(resolver, users)
	r := protectedRouter(m, m.RequireAdmin())

	do := func() int {
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.AddCookie(&http.Cookie{Name: session.CookieName, Value: "raw-token"})

		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		return w.Code
	}

	if got := do(); got != http.StatusOK {
		t.Fatalf("admin request got %d, want 200", got)
	}

	role = user.RoleUser

	if got := do(); got != http.StatusForbidden {
		t.Fatalf("demoted request got %d, want 403", got)
	}
}

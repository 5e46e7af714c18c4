package handlers_test

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/soraleth/wavedex/internal/domain/user"
	"github.com/soraleth/wavedex/internal/http/handlers"
	"github.com/soraleth/wavedex/internal/repo/postgres"
)

type fakeUserAdminRepo struct {
	listFn   func(ctx context.Context) ([]user.User, error)
	updateFn func(ctx context.Context, id string, req user.UpdateUserRequest) (user.User, error)
	deleteFn func(ctx context.Context, id string) error
}

func (f *fakeUserAdminRepo) List(ctx context.Context) ([]user.User, error) {
	if f.listFn != nil {
		return f.listFn(ctx)
	}

	return []user.User{}, nil
}

func (f *fakeUserAdminRepo) Update(ctx context.Context, id string, req user.UpdateUserRequest) (user.User, error) {
	if f.updateFn != nil {
		return f.updateFn(ctx, id, req)
	}

	return user.User{ID: id}, nil
}

func (f *fakeUserAdminRepo) Delete(ctx context.Context, id string) error {
	if f.deleteFn != nil {
		return f.deleteFn(ctx, id)
	}

	return nil
}

func TestListUsersHandler(t *testing.T) {
	fakeRepo := &fakeUserAdminRepo{
		listFn: func(ctx context.Context) ([]user.User, error) {
			return []user.User{
				{ID: newUUID(), Email: "rover@example.com", Role: user.RoleUser, PasswordHash: "$2a$10$whatever"},
			}, nil
		},
	}

	h := handlers.NewAdminUsersHandler(fakeRepo)
	r := setupAuthedRouter(http.MethodGet, "/api/admin/users", newUUID(), h.ListUsers)

	req := httptest.NewRequest(http.MethodGet, "/api/admin/users", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("got status %d, want 200, body=%s", w.Code, w.Body.String())
	}

	if bytes.Contains(w.Body.Bytes(), []byte("$2a$10$")) {
		t.Fatalf("password hash leaked into the response: %s", w.Body.String())
	}
}

func TestUpdateUserHandler(t *testing.T) {
	adminID := newUUID()
	otherID := newUUID()

	tests := []struct {
		name           string
		targetID       string
		body           string
		repoSetUp      func(*fakeUserAdminRepo)
		wantStatusCode int
	}{
		{
			name:           "change_other_users_role",
			targetID:       otherID,
			body:           `{"role": "ADMIN"}`,
			wantStatusCode: http.StatusOK,
		},
		{
			name:           "cannot_change_own_role",
			targetID:       adminID,
			body:           `{"role": "USER"}`,
			wantStatusCode: http.StatusForbidden,
		},
		{
			// editing your own name stays allowed, only the role is protected
			name:           "can_edit_own_profile_fields",
			targetID:       adminID,
			body:           `{"firstName": "New"}`,
			wantStatusCode: http.StatusOK,
		},
		{
			name:           "invalid_role_value",
			targetID:       otherID,
			body:           `{"role": "SUPERADMIN"}`,
			wantStatusCode: http.StatusBadRequest,
		},
		{
			name:           "email_may_not_be_null",
			targetID:       otherID,
			body:           `{"email": null}`,
			wantStatusCode: http.StatusBadRequest,
		},
		{
			name:           "invalid_email",
			targetID:       otherID,
			body:           `{"email": "not-an-email"}`,
			wantStatusCode: http.StatusBadRequest,
		},
		{
			name:           "unknown_field_rejected",
			targetID:       otherID,
			body:           `{"passwordHash": "sneaky"}`,
			wantStatusCode: http.StatusBadRequest,
		},
		{
			name:     "email_taken",
			targetID: otherID,
			body:     `{"email": "taken@example.com"}`,
			repoSetUp: func(f *fakeUserAdminRepo) {
				f.updateFn = func(ctx context.Context, id string, req user.UpdateUserRequest) (user.User, error) {
					return user.User{}, postgres.ErrEmailTaken
				}
			},
			wantStatusCode: http.StatusBadRequest,
		},
		{
			name:     "not_found",
			targetID: otherID,
			body:     `{"firstName": "New"}`,
			repoSetUp: func(f *fakeUserAdminRepo) {
				f.updateFn = func(ctx context.Context, id string, req user.UpdateUserRequest) (user.User, error) {
					return user.User{}, postgres.ErrUserNotFound
				}
			},
			wantStatusCode: http.StatusNotFound,
		},
		{
			name:     "repo_error",
			targetID: otherID,
			body:     `{"firstName": "New"}`,
			repoSetUp: func(f *fakeUserAdminRepo) {
				f.updateFn = func(ctx context.Context, id string, req user.UpdateUserRequest) (user.User, error) {
					return user.User{}, errors.New("db error")
				}
			},
			wantStatusCode: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		tt := tt

		t.Run(tt.name, func(t *testing.T) {
			fakeRepo := &fakeUserAdminRepo{}

			if tt.repoSetUp != nil {
				tt.repoSetUp(fakeRepo)
			}

			h := handlers.NewAdminUsersHandler(fakeRepo)
			r := setupAuthedRouter(http.MethodPut, "/api/admin/users/:id", adminID, h.UpdateUser)

			req := httptest.NewRequest(http.MethodPut, "/api/admin/users/"+tt.targetID, bytes.NewBufferString(tt.body))
			req.Header.Set("Content-Type", "application/json")

			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			if w.Code != tt.wantStatusCode {
				t.Fatalf("got status %d, want %d, body=%s", w.Code, tt.wantStatusCode, w.Body.String())
			}
		})
	}
}

func TestDeleteUserHandler(t *testing.T) {
	adminID := newUUID()
	otherID := newUUID()

	tests := []struct {
		name           string
		targetID       string
		repoSetUp      func(*fakeUserAdminRepo)
		wantStatusCode int
	}{
		{
			name:           "success",
			targetID:       otherID,
			wantStatusCode: http.StatusNoContent,
		},
		{
			name:           "cannot_delete_own_account",
			targetID:       adminID,
			wantStatusCode: http.StatusForbidden,
		},
		{
			name:     "not_found",
			targetID: otherID,
			repoSetUp: func(f *fakeUserAdminRepo) {
				f.deleteFn = func(ctx context.Context, id string) error {
					return postgres.ErrUserNotFound
				}
			},
			wantStatusCode: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		tt := tt

		t.Run(tt.name, func(t *testing.T) {
			fakeRepo := &fakeUserAdminRepo{}

			if tt.repoSetUp != nil {
				tt.repoSetUp(fakeRepo)
			}

			h := handlers.NewAdminUsersHandler(fakeRepo)
			r := setupAuthedRouter(http.MethodDelete, "/api/admin/users/:id", adminID, h.DeleteUser)

			req := httptest.NewRequest(http.MethodDelete, "/api/admin/users/"+tt.targetID, nil)
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			if w.Code != tt.wantStatusCode {
				t.Fatalf("got status %d, want %d, body=%s", w.Code, tt.wantStatusCode, w.Body.String())
			}
		})
	}
}

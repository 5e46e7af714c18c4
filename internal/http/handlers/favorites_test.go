package handlers_test

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/soraleth/wavedex/internal/domain/character"
	"github.com/soraleth/wavedex/internal/domain/favorite"
	"github.com/soraleth/wavedex/internal/http/handlers"
	"github.com/soraleth/wavedex/internal/repo/postgres"
)

type fakeFavoritesRepo struct {
	listRefsFn    func(ctx context.Context, userID string) ([]favorite.Ref, error)
	listDetailsFn func(ctx context.Context, userID string) ([]favorite.WithCharacter, error)
	addFn         func(ctx context.Context, userID, characterID string) (favorite.Favorite, error)
	removeFn      func(ctx context.Context, userID, characterID string) error
}

func (f *fakeFavoritesRepo) ListRefs(ctx context.Context, userID string) ([]favorite.Ref, error) {
	if f.listRefsFn != nil {
		return f.listRefsFn(ctx, userID)
	}

	return []favorite.Ref{}, nil
}

func (f *fakeFavoritesRepo) ListWithCharacters(ctx context.Context, userID string) ([]favorite.WithCharacter, error) {
	if f.listDetailsFn != nil {
		return f.listDetailsFn(ctx, userID)
	}

	return []favorite.WithCharacter{}, nil
}

func (f *fakeFavoritesRepo) Add(ctx context.Context, userID, characterID string) (favorite.Favorite, error) {
	if f.addFn != nil {
		return f.addFn(ctx, userID, characterID)
	}

	return favorite.Favorite{}, nil
}

func (f *fakeFavoritesRepo) Remove(ctx context.Context, userID, characterID string) error {
	if f.removeFn != nil {
		return f.removeFn(ctx, userID, characterID)
	}

	return nil
}

func TestListFavoritesHandler(t *testing.T) {
	userID := newUUID()

	fakeRepo := &fakeFavoritesRepo{
		listRefsFn: func(ctx context.Context, uid string) ([]favorite.Ref, error) {
			if uid != userID {
				return nil, errors.New("listing must be scoped to the session user")
			}

			return []favorite.Ref{{CharacterID: newUUID()}}, nil
		},
	}

	h := handlers.NewFavoritesHandler(fakeRepo, &fakeCharactersRepo{})
	r := setupAuthedRouter(http.MethodGet, "/api/favorites", userID, h.ListFavorites)

	req := httptest.NewRequest(http.MethodGet, "/api/favorites", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("got status %d, want 200, body=%s", w.Code, w.Body.String())
	}
}

func TestListFavoritesWithDetailsHandler(t *testing.T) {
	userID := newUUID()

	fakeRepo := &fakeFavoritesRepo{
		listDetailsFn: func(ctx context.Context, uid string) ([]favorite.WithCharacter, error) {
			return []favorite.WithCharacter{
				{CharacterID: "c1", Character: sampleCharacter("c1")},
			}, nil
		},
	}

	h := handlers.NewFavoritesHandler(fakeRepo, &fakeCharactersRepo{})
	r := setupAuthedRouter(http.MethodGet, "/api/favorites/details", userID, h.ListFavoritesWithDetails)

	req := httptest.NewRequest(http.MethodGet, "/api/favorites/details", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("got status %d, want 200, body=%s", w.Code, w.Body.String())
	}
}

func TestAddFavoriteHandler(t *testing.T) {
	userID := newUUID()
	characterID := newUUID()

	knownCharacter := &fakeCharactersRepo{
		getFn: func(ctx context.Context, id string) (character.Character, error) {
			return sampleCharacter(id), nil
		},
	}

	tests := []struct {
		name           string
		body           string
		characters     *fakeCharactersRepo
		repoSetUp      func(*fakeFavoritesRepo)
		wantStatusCode int
	}{
		{
			name:       "success",
			body:       `{"characterId": "` + characterID + `"}`,
			characters: knownCharacter,
			repoSetUp: func(f *fakeFavoritesRepo) {
				f.addFn = func(ctx context.Context, uid, cid string) (favorite.Favorite, error) {
					return favorite.Favorite{ID: newUUID(), UserID: uid, CharacterID: cid}, nil
				}
			},
			wantStatusCode: http.StatusCreated,
		},
		{
			name:           "unknown_character",
			body:           `{"characterId": "` + characterID + `"}`,
			characters:     &fakeCharactersRepo{},
			wantStatusCode: http.StatusNotFound,
		},
		{
			name:       "already_favorited",
			body:       `{"characterId": "` + characterID + `"}`,
			characters: knownCharacter,
			repoSetUp: func(f *fakeFavoritesRepo) {
				f.addFn = func(ctx context.Context, uid, cid string) (favorite.Favorite, error) {
					return favorite.Favorite{}, postgres.ErrDuplicateFavorite
				}
			},
			wantStatusCode: http.StatusConflict,
		},
		{
			name:           "missing_character_id",
			body:           `{}`,
			characters:     knownCharacter,
			wantStatusCode: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		tt := tt

		t.Run(tt.name, func(t *testing.T) {
			fakeRepo := &fakeFavoritesRepo{}

			if tt.repoSetUp != nil {
				tt.repoSetUp(fakeRepo)
			}

			h := handlers.NewFavoritesHandler(fakeRepo, tt.characters)
			r := setupAuthedRouter(http.MethodPost, "/api/favorites", userID, h.AddFavorite)

			req := httptest.NewRequest(http.MethodPost, "/api/favorites", bytes.NewBufferString(tt.body))
			req.Header.Set("Content-Type", "application/json")

			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			if w.Code != tt.wantStatusCode {
				t.Fatalf("got status %d, want %d, body=%s", w.Code, tt.wantStatusCode, w.Body.String())
			}
		})
	}
}

func TestRemoveFavoriteHandler(t *testing.T) {
	userID := newUUID()

	tests := []struct {
		name           string
		repoSetUp      func(*fakeFavoritesRepo)
		wantStatusCode int
	}{
		{
			name:           "success",
			wantStatusCode: http.StatusNoContent,
		},
		{
			name: "not_favorited",
			repoSetUp: func(f *fakeFavoritesRepo) {
				f.removeFn = func(ctx context.Context, uid, cid string) error {
					return postgres.ErrFavoriteNotFound
				}
			},
			wantStatusCode: http.StatusNotFound,
		},
		{
			name: "repo_error",
			repoSetUp: func(f *fakeFavoritesRepo) {
				f.removeFn = func(ctx context.Context, uid, cid string) error {
					return errors.New("db error")
				}
			},
			wantStatusCode: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		tt := tt

		t.Run(tt.name, func(t *testing.T) {
			fakeRepo := &fakeFavoritesRepo{}

			if tt.repoSetUp != nil {
				tt.repoSetUp(fakeRepo)
			}

			h := handlers.NewFavoritesHandler(fakeRepo, &fakeCharactersRepo{})
			r := setupAuthedRouter(http.MethodDelete, "/api/favorites/:characterId", userID, h.RemoveFavorite)

			req := httptest.NewRequest(http.MethodDelete, "/api/favorites/"+newUUID(), nil)
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			if w.Code != tt.wantStatusCode {
				t.Fatalf("got status %d, want %d, body=%s", w.Code, tt.wantStatusCode, w.Body.String())
			}
		})
	}
}

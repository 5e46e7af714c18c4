package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/soraleth/wavedex/internal/config"
	"github.com/soraleth/wavedex/internal/domain/favorite"
	"github.com/soraleth/wavedex/internal/http/middlewares"
	"github.com/soraleth/wavedex/internal/repo/postgres"
)

type FavoriteStore interface {
	ListRefs(ctx context.Context, userID string) ([]favorite.Ref, error)
	ListWithCharacters(ctx context.Context, userID string) ([]favorite.WithCharacter, error)
	Add(ctx context.Context, userID, characterID string) (favorite.Favorite, error)
	Remove(ctx context.Context, userID, characterID string) error
}

type FavoritesHandler struct {
	repo       FavoriteStore
	characters CharacterReader
}

func NewFavoritesHandler(repo FavoriteStore, characters CharacterReader) *FavoritesHandler {
	return &FavoritesHandler{repo: repo, characters: characters}
}

func (h *FavoritesHandler) ListFavorites(ctx *gin.Context) {
	userID, ok := middlewares.UserIDFromContext(ctx)

	if !ok {
		RespondUnAuthorized(ctx, "unauthorized", "Authentication required")
		return
	}

	cctx, cancel := config.WithTimeout(3 * time.Second)
	defer cancel()

	refs, err := h.repo.ListRefs(cctx, userID)

	if err != nil {
		RespondInternal(ctx, "Could not list favorites")
		return
	}

	ctx.JSON(http.StatusOK, refs)
}

func (h *FavoritesHandler) ListFavoritesWithDetails(ctx *gin.Context) {
	userID, ok := middlewares.UserIDFromContext(ctx)

	if !ok {
		RespondUnAuthorized(ctx, "unauthorized", "Authentication required")
		return
	}

	cctx, cancel := config.WithTimeout(3 * time.Second)
	defer cancel()

	favorites, err := h.repo.ListWithCharacters(cctx, userID)

	if err != nil {
		RespondInternal(ctx, "Could not list favorites")
		return
	}

	ctx.JSON(http.StatusOK, favorites)
}

func (h *FavoritesHandler) AddFavorite(ctx *gin.Context) {
	userID, ok := middlewares.UserIDFromContext(ctx)

	if !ok {
		RespondUnAuthorized(ctx, "unauthorized", "Authentication required")
		return
	}

	var req favorite.CreateFavoriteRequest

	if !BindJSON(ctx, &req) {
		return
	}

	cctx, cancel := config.WithTimeout(3 * time.Second)
	defer cancel()

	// favoriting an unknown character must 404, not fail on the FK
	_, err := h.characters.GetByID(cctx, req.CharacterID)

	if err != nil {
		if errors.Is(err, postgres.ErrCharacterNotFound) {
			RespondNotFound(ctx, "Character not found")
			return
		}

		RespondInternal(ctx, "Could not add favorite")
		return
	}

	fav, err := h.repo.Add(cctx, userID, req.CharacterID)

	if err != nil {
		if errors.Is(err, postgres.ErrDuplicateFavorite) {
			RespondConflict(ctx, "already_favorited", "Character is already in your favorites")
			return
		}

		RespondInternal(ctx, "Could not add favorite")
		return
	}

	ctx.JSON(http.StatusCreated, fav)
}

func (h *FavoritesHandler) RemoveFavorite(ctx *gin.Context) {
	userID, ok := middlewares.UserIDFromContext(ctx)

	if !ok {
		RespondUnAuthorized(ctx, "unauthorized", "Authentication required")
		return
	}

	cctx, cancel := config.WithTimeout(3 * time.Second)
	defer cancel()

	err := h.repo.Remove(cctx, userID, ctx.Param("characterId"))

	if err != nil {
		if errors.Is(err, postgres.ErrFavoriteNotFound) {
			RespondNotFound(ctx, "Favorite not found")
			return
		}

		RespondInternal(ctx, "Could not remove favorite")
		return
	}

	ctx.Status(http.StatusNoContent)
}

package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/soraleth/wavedex/internal/config"
	"github.com/soraleth/wavedex/internal/domain/character"
	"github.com/soraleth/wavedex/internal/repo/postgres"
)

type CharacterWriter interface {
	Create(ctx context.Context, req character.CreateCharacterRequest) (character.Character, error)
	Update(ctx context.Context, id string, req character.UpdateCharacterRequest) (character.Character, error)
	Delete(ctx context.Context, id string) error
}

// AdminCharactersHandler owns the catalog mutations; the router guards it
// with the admin gate.
type AdminCharactersHandler struct {
	repo CharacterWriter
}

func NewAdminCharactersHandler(repo CharacterWriter) *AdminCharactersHandler {
	return &AdminCharactersHandler{repo: repo}
}

func (h *AdminCharactersHandler) CreateCharacter(ctx *gin.Context) {
	var req character.CreateCharacterRequest

	if !BindJSON(ctx, &req) {
		return
	}

	cctx, cancel := config.WithTimeout(3 * time.Second)
	defer cancel()

	c, err := h.repo.Create(cctx, req)

	if err != nil {
		RespondInternal(ctx, "Could not create character")
		return
	}

	ctx.JSON(http.StatusCreated, c)
}

func (h *AdminCharactersHandler) UpdateCharacter(ctx *gin.Context) {
	id := ctx.Param("id")

	var req character.UpdateCharacterRequest

	if !BindJSON(ctx, &req) {
		return
	}

	cctx, cancel := config.WithTimeout(3 * time.Second)
	defer cancel()

	c, err := h.repo.Update(cctx, id, req)

	if err != nil {
		if errors.Is(err, postgres.ErrCharacterNotFound) {
			RespondNotFound(ctx, "Character not found")
			return
		}

		RespondInternal(ctx, "Could not update character")
		return
	}

	ctx.JSON(http.StatusOK, c)
}

func (h *AdminCharactersHandler) DeleteCharacter(ctx *gin.Context) {
	id := ctx.Param("id")

	cctx, cancel := config.WithTimeout(3 * time.Second)
	defer cancel()

	err := h.repo.Delete(cctx, id)

	if err != nil {
		if errors.Is(err, postgres.ErrCharacterNotFound) {
			RespondNotFound(ctx, "Character not found")
			return
		}

		RespondInternal(ctx, "Could not delete character")
		return
	}

	ctx.Status(http.StatusNoContent)
}

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

type CharacterReader interface {
	List(ctx context.Context) ([]character.Character, error)
	GetByID(ctx context.Context, id string) (character.Character, error)
}

type CharactersHandler struct {
	repo CharacterReader
}

func NewCharactersHandler(repo CharacterReader) *CharactersHandler {
	return &CharactersHandler{repo: repo}
}

// public catalog; no auth on reads

func (h *CharactersHandler) ListCharacters(ctx *gin.Context) {
	cctx, cancel := config.WithTimeout(3 * time.Second)
	defer cancel()

	characters, err := h.repo.List(cctx)

	if err != nil {
		RespondInternal(ctx, "Could not list characters")
		return
	}

	ctx.JSON(http.StatusOK, characters)
}

func (h *CharactersHandler) GetCharacterByID(ctx *gin.Context) {
	id := ctx.Param("id")

	cctx, cancel := config.WithTimeout(2 * time.Second)
	defer cancel()

	c, err := h.repo.GetByID(cctx, id)

	if err != nil {
		if errors.Is(err, postgres.ErrCharacterNotFound) {
			RespondNotFound(ctx, "Character not found")
			return
		}

		RespondInternal(ctx, "Could not fetch character")
		return
	}

	ctx.JSON(http.StatusOK, c)
}

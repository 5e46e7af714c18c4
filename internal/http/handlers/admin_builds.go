package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/soraleth/wavedex/internal/config"
	"github.com/soraleth/wavedex/internal/domain/build"
	"github.com/soraleth/wavedex/internal/repo/postgres"
)

type BuildAdminStore interface {
	ListAll(ctx context.Context) ([]build.Build, error)
	Delete(ctx context.Context, id string) error
}

type AdminBuildsHandler struct {
	repo BuildAdminStore
}

func NewAdminBuildsHandler(repo BuildAdminStore) *AdminBuildsHandler {
	return &AdminBuildsHandler{repo: repo}
}

func (h *AdminBuildsHandler) ListAllBuilds(ctx *gin.Context) {
	cctx, cancel := config.WithTimeout(3 * time.Second)
	defer cancel()

	builds, err := h.repo.ListAll(cctx)

	if err != nil {
		RespondInternal(ctx, "Could not list builds")
		return
	}

	ctx.JSON(http.StatusOK, builds)
}

// DeleteBuild removes any user's build, no ownership check.
func (h *AdminBuildsHandler) DeleteBuild(ctx *gin.Context) {
	cctx, cancel := config.WithTimeout(3 * time.Second)
	defer cancel()

	err := h.repo.Delete(cctx, ctx.Param("id"))

	if err != nil {
		if errors.Is(err, postgres.ErrBuildNotFound) {
			RespondNotFound(ctx, "Build not found")
			return
		}

		RespondInternal(ctx, "Could not delete build")
		return
	}

	ctx.Status(http.StatusNoContent)
}

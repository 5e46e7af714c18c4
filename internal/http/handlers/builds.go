package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/soraleth/wavedex/internal/config"
	"github.com/soraleth/wavedex/internal/domain/build"
	"github.com/soraleth/wavedex/internal/http/middlewares"
	"github.com/soraleth/wavedex/internal/patch"
	"github.com/soraleth/wavedex/internal/repo/postgres"
)

type BuildStore interface {
	ListByUser(ctx context.Context, userID string) ([]build.Build, error)
	ListByUserAndCharacter(ctx context.Context, userID, characterID string) ([]build.Build, error)
	GetByID(ctx context.Context, id string) (build.Build, error)
	Create(ctx context.Context, userID string, req build.CreateBuildRequest) (build.Build, error)
	Update(ctx context.Context, id string, req build.UpdateBuildRequest) (build.Build, error)
	Delete(ctx context.Context, id string) error
}

type BuildsHandler struct {
	repo       BuildStore
	characters CharacterReader
}

func NewBuildsHandler(repo BuildStore, characters CharacterReader) *BuildsHandler {
	return &BuildsHandler{repo: repo, characters: characters}
}

func (h *BuildsHandler) ListMyBuilds(ctx *gin.Context) {
	userID, ok := middlewares.UserIDFromContext(ctx)

	if !ok {
		RespondUnAuthorized(ctx, "unauthorized", "Authentication required")
		return
	}

	cctx, cancel := config.WithTimeout(3 * time.Second)
	defer cancel()

	builds, err := h.repo.ListByUser(cctx, userID)

	if err != nil {
		RespondInternal(ctx, "Could not list builds")
		return
	}

	ctx.JSON(http.StatusOK, builds)
}

func (h *BuildsHandler) ListMyBuildsForCharacter(ctx *gin.Context) {
	userID, ok := middlewares.UserIDFromContext(ctx)

	if !ok {
		RespondUnAuthorized(ctx, "unauthorized", "Authentication required")
		return
	}

	cctx, cancel := config.WithTimeout(3 * time.Second)
	defer cancel()

	builds, err := h.repo.ListByUserAndCharacter(cctx, userID, ctx.Param("id"))

	if err != nil {
		RespondInternal(ctx, "Could not list builds")
		return
	}

	ctx.JSON(http.StatusOK, builds)
}

func (h *BuildsHandler) CreateBuild(ctx *gin.Context) {
	userID, ok := middlewares.UserIDFromContext(ctx)

	if !ok {
		RespondUnAuthorized(ctx, "unauthorized", "Authentication required")
		return
	}

	var req build.CreateBuildRequest

	if !BindJSON(ctx, &req) {
		return
	}

	cctx, cancel := config.WithTimeout(3 * time.Second)
	defer cancel()

	_, err := h.characters.GetByID(cctx, req.CharacterID)

	if err != nil {
		if errors.Is(err, postgres.ErrCharacterNotFound) {
			RespondNotFound(ctx, "Character not found")
			return
		}

		RespondInternal(ctx, "Could not create build")
		return
	}

	b, err := h.repo.Create(cctx, userID, req)

	if err != nil {
		RespondInternal(ctx, "Could not create build")
		return
	}

	ctx.JSON(http.StatusCreated, b)
}

func (h *BuildsHandler) UpdateBuild(ctx *gin.Context) {
	userID, ok := middlewares.UserIDFromContext(ctx)

	if !ok {
		RespondUnAuthorized(ctx, "unauthorized", "Authentication required")
		return
	}

	var req build.UpdateBuildRequest

	if !BindJSONStrict(ctx, &req) {
		return
	}

	if fields := validateBuildPatch(req); len(fields) > 0 {
		RespondBadRequest(ctx, "Invalid request body", gin.H{"fields": fields})
		return
	}

	cctx, cancel := config.WithTimeout(3 * time.Second)
	defer cancel()

	if !h.ownsBuild(cctx, ctx, userID) {
		return
	}

	b, err := h.repo.Update(cctx, ctx.Param("id"), req)

	if err != nil {
		if errors.Is(err, postgres.ErrBuildNotFound) {
			RespondNotFound(ctx, "Build not found")
			return
		}

		RespondInternal(ctx, "Could not update build")
		return
	}

	ctx.JSON(http.StatusOK, b)
}

func (h *BuildsHandler) DeleteBuild(ctx *gin.Context) {
	userID, ok := middlewares.UserIDFromContext(ctx)

	if !ok {
		RespondUnAuthorized(ctx, "unauthorized", "Authentication required")
		return
	}

	cctx, cancel := config.WithTimeout(3 * time.Second)
	defer cancel()

	if !h.ownsBuild(cctx, ctx, userID) {
		return
	}

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

// validateBuildPatch mirrors the create-side rules on whatever fields the
// patch carries. build_name is NOT NULL, so null is rejected there; the other
// columns are nullable and null means clear.
func validateBuildPatch(req build.UpdateBuildRequest) []FieldError {
	var fields []FieldError

	if req.BuildName.Present() && req.BuildName.IsNull() {
		fields = append(fields, FieldError{Field: "buildName", Rule: "required", Message: "may not be null"})
	}

	check := func(name string, f patch.Field[string], rules, message string) {
		v, ok := f.Value()

		if !ok {
			return
		}

		if !ValidateVar(v, rules) {
			fields = append(fields, FieldError{Field: name, Rule: rules, Message: message})
		}
	}

	check("buildName", req.BuildName, "required,min=1,max=100", "must be 1-100 characters")
	check("weapon", req.Weapon, "max=100", "must be at most 100 characters")
	check("echoSet1", req.EchoSet1, "max=100", "must be at most 100 characters")
	check("echoSet2", req.EchoSet2, "max=100", "must be at most 100 characters")
	check("mainEcho", req.MainEcho, "max=100", "must be at most 100 characters")
	check("subStats", req.SubStats, "max=2000", "must be at most 2000 characters")
	check("finalStats", req.FinalStats, "max=2000", "must be at most 2000 characters")
	check("notes", req.Notes, "max=2000", "must be at most 2000 characters")

	return fields
}

// ownsBuild answers 404 for both a missing build and someone else's build,
// so probing ids reveals nothing about what exists.
func (h *BuildsHandler) ownsBuild(cctx context.Context, ctx *gin.Context, userID string) bool {
	b, err := h.repo.GetByID(cctx, ctx.Param("id"))

	if err != nil {
		if errors.Is(err, postgres.ErrBuildNotFound) {
			RespondNotFound(ctx, "Build not found")
			return false
		}

		RespondInternal(ctx, "Could not load build")
		return false
	}

	if b.UserID != userID {
		RespondNotFound(ctx, "Build not found")
		return false
	}

	return true
}

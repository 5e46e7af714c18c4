package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/soraleth/wavedex/internal/config"
	"github.com/soraleth/wavedex/internal/domain/user"
	"github.com/soraleth/wavedex/internal/http/middlewares"
	"github.com/soraleth/wavedex/internal/patch"
	"github.com/soraleth/wavedex/internal/repo/postgres"
)

type UserAdminStore interface {
	List(ctx context.Context) ([]user.User, error)
	Update(ctx context.Context, id string, req user.UpdateUserRequest) (user.User, error)
	Delete(ctx context.Context, id string) error
}

type AdminUsersHandler struct {
	repo UserAdminStore
}

func NewAdminUsersHandler(repo UserAdminStore) *AdminUsersHandler {
	return &AdminUsersHandler{repo: repo}
}

func (h *AdminUsersHandler) ListUsers(ctx *gin.Context) {
	cctx, cancel := config.WithTimeout(3 * time.Second)
	defer cancel()

	users, err := h.repo.List(cctx)

	if err != nil {
		RespondInternal(ctx, "Could not list users")
		return
	}

	// password hashes never serialize (json:"-"), so the raw list is safe
	ctx.JSON(http.StatusOK, users)
}

func (h *AdminUsersHandler) UpdateUser(ctx *gin.Context) {
	targetID := ctx.Param("id")
	actingID, _ := middlewares.UserIDFromContext(ctx)

	var req user.UpdateUserRequest

	if !BindJSONStrict(ctx, &req) {
		return
	}

	if fields := validateUserPatch(req); len(fields) > 0 {
		RespondBadRequest(ctx, "Invalid request body", gin.H{"fields": fields})
		return
	}

	// an admin must not be able to lock themselves out of the admin role
	if targetID == actingID && req.Role.Present() {
		RespondForbidden(ctx, "You cannot change your own role")
		return
	}

	cctx, cancel := config.WithTimeout(3 * time.Second)
	defer cancel()

	u, err := h.repo.Update(cctx, targetID, req)

	if err != nil {
		if errors.Is(err, postgres.ErrUserNotFound) {
			RespondNotFound(ctx, "User not found")
			return
		}

		if errors.Is(err, postgres.ErrEmailTaken) {
			RespondBadRequest(ctx, "An account already exists with this email", nil)
			return
		}

		RespondInternal(ctx, "Could not update user")
		return
	}

	ctx.JSON(http.StatusOK, u)
}

func (h *AdminUsersHandler) DeleteUser(ctx *gin.Context) {
	targetID := ctx.Param("id")
	actingID, _ := middlewares.UserIDFromContext(ctx)

	if targetID == actingID {
		RespondForbidden(ctx, "You cannot delete your own account")
		return
	}

	cctx, cancel := config.WithTimeout(3 * time.Second)
	defer cancel()

	err := h.repo.Delete(cctx, targetID)

	if err != nil {
		if errors.Is(err, postgres.ErrUserNotFound) {
			RespondNotFound(ctx, "User not found")
			return
		}

		RespondInternal(ctx, "Could not delete user")
		return
	}

	ctx.Status(http.StatusNoContent)
}

// every user column in the patch is NOT NULL, so null is never acceptable
func validateUserPatch(req user.UpdateUserRequest) []FieldError {
	var fields []FieldError

	check := func(name string, f patch.Field[string], rules, message string) {
		if !f.Present() {
			return
		}

		v, ok := f.Value()

		if !ok {
			fields = append(fields, FieldError{Field: name, Rule: "required", Message: "may not be null"})
			return
		}

		if !ValidateVar(v, rules) {
			fields = append(fields, FieldError{Field: name, Rule: rules, Message: message})
		}
	}

	check("email", req.Email, "required,email,max=255", "must be a valid email address")
	check("firstName", req.FirstName, "required,min=1,max=100", "must be 1-100 characters")
	check("lastName", req.LastName, "required,min=1,max=100", "must be 1-100 characters")
	check("role", req.Role, "required,oneof=USER ADMIN", "must be one of USER, ADMIN")

	return fields
}

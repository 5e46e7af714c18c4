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
	"github.com/soraleth/wavedex/internal/observability"
	"github.com/soraleth/wavedex/internal/repo/postgres"
	"github.com/soraleth/wavedex/internal/security"
	"github.com/soraleth/wavedex/internal/session"
	"golang.org/x/crypto/bcrypt"
)

type UserReader interface {
	GetByEmail(ctx context.Context, email string) (user.User, error)
	GetByID(ctx context.Context, id string) (user.User, error)
}

type UserWriter interface {
	Create(ctx context.Context, email, passwordHash, firstName, lastName, role string, consent bool) (user.User, error)
}

type SessionIssuer interface {
	Issue(ctx context.Context, userID string) (raw string, expiresAt time.Time, err error)
	Destroy(ctx context.Context, raw string) error
}

type AuthHandler struct {
	users      UserReader
	userWriter UserWriter
	sessions   SessionIssuer
	prom       *observability.Prom
	cfg        config.Config
}

func NewAuthHandler(users UserReader, userWriter UserWriter, sessions SessionIssuer, prom *observability.Prom, cfg config.Config) *AuthHandler {
	return &AuthHandler{
		users:      users,
		userWriter: userWriter,
		sessions:   sessions,
		prom:       prom,
		cfg:        cfg,
	}
}

func (h *AuthHandler) Register(ctx *gin.Context) {
	var req user.RegisterRequest

	if !BindJSON(ctx, &req) {
		return
	}

	cctx, cancel := config.WithTimeout(3 * time.Second)

	defer cancel()

	hash, err := security.HashPassword(req.Password)

	if err != nil {
		RespondInternal(ctx, "Could not create account")
		return
	}

	// everyone starts as a regular user; roles are an admin concern

	u, err := h.userWriter.Create(cctx, req.Email, hash, req.FirstName, req.LastName, user.RoleUser, req.Consent)

	if err != nil {
		if errors.Is(err, postgres.ErrEmailTaken) {
			RespondBadRequest(ctx, "An account already exists with this email", nil)
			return
		}

		RespondInternal(ctx, "Could not create account")
		return
	}

	raw, expiresAt, err := h.sessions.Issue(cctx, u.ID)

	if err != nil {
		RespondInternal(ctx, "Could not create session")
		return
	}

	if h.prom != nil {
		h.prom.RegistrationsTotal.Inc()
		h.prom.SessionsIssued.Inc()
	}

	h.setSessionCookie(ctx, raw, expiresAt)

	ctx.JSON(http.StatusCreated, u)
}

func (h *AuthHandler) Login(ctx *gin.Context) {
	var req user.LoginRequest

	if !BindJSON(ctx, &req) {
		return
	}

	// short timeout for DB lookup
	cctx, cancel := config.WithTimeout(2 * time.Second)
	defer cancel()

	foundUser, err := h.users.GetByEmail(cctx, req.Email)

	if err != nil {
		if errors.Is(err, postgres.ErrUserNotFound) {
			// same response whether the email or the password was wrong
			h.countLogin("invalid")
			RespondUnAuthorized(ctx, "invalid_credentials", "Email or password is incorrect.")
			return
		}

		RespondInternal(ctx, "Could not log in")
		return
	}

	err = security.CheckPassword(foundUser.PasswordHash, req.Password)

	if err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			h.countLogin("invalid")
			RespondUnAuthorized(ctx, "invalid_credentials", "Email or password is incorrect.")
			return
		}

		RespondInternal(ctx, "Could not log in")
		return
	}

	raw, expiresAt, err := h.sessions.Issue(cctx, foundUser.ID)

	if err != nil {
		RespondInternal(ctx, "Could not create session")
		return
	}

	h.countLogin("ok")

	if h.prom != nil {
		h.prom.SessionsIssued.Inc()
	}

	h.setSessionCookie(ctx, raw, expiresAt)

	ctx.JSON(http.StatusOK, foundUser)
}

func (h *AuthHandler) Logout(ctx *gin.Context) {
	raw, err := ctx.Cookie(session.CookieName)

	if err != nil || raw == "" {
		// still clear cookie to be safe
		h.clearSessionCookie(ctx)
		ctx.JSON(http.StatusOK, gin.H{"message": "Logged out successfully"})
		return
	}

	cctx, cancel := config.WithTimeout(3 * time.Second)
	defer cancel()

	err = h.sessions.Destroy(cctx, raw)

	if err != nil {
		RespondInternal(ctx, "Could not log out")
		return
	}

	if h.prom != nil {
		h.prom.SessionsDestroyed.Inc()
	}

	h.clearSessionCookie(ctx)
	ctx.JSON(http.StatusOK, gin.H{"message": "Logged out successfully"})
}

// CurrentUser returns the account behind the session cookie.
func (h *AuthHandler) CurrentUser(ctx *gin.Context) {
	userID, ok := middlewares.UserIDFromContext(ctx)

	if !ok || userID == "" {
		RespondUnAuthorized(ctx, "unauthorized", "Not authenticated. Please log in.")
		return
	}

	cctx, cancel := config.WithTimeout(2 * time.Second)
	defer cancel()

	u, err := h.users.GetByID(cctx, userID)

	if err != nil {
		if errors.Is(err, postgres.ErrUserNotFound) {
			// session outlived the account
			RespondUnAuthorized(ctx, "unauthorized", "Account no longer exists")
			return
		}

		RespondInternal(ctx, "Could not fetch user")
		return
	}

	ctx.JSON(http.StatusOK, u)
}

func (h *AuthHandler) countLogin(result string) {
	if h.prom != nil {
		h.prom.LoginAttempts.WithLabelValues(result).Inc()
	}
}

// Cookie helpers

func (h *AuthHandler) setSessionCookie(ctx *gin.Context, raw string, expiresAt time.Time) {
	secure := h.cfg.Env == "prod"

	maxAge := int(time.Until(expiresAt).Seconds())

	ctx.SetSameSite(http.SameSiteStrictMode)

	ctx.SetCookie(
		session.CookieName,
		raw,
		maxAge,
		"/",
		"",
		secure,
		true, // HttpOnly.
	)
}

func (h *AuthHandler) clearSessionCookie(ctx *gin.Context) {
	secure := h.cfg.Env == "prod"
	ctx.SetSameSite(http.SameSiteStrictMode)
	ctx.SetCookie(
		session.CookieName,
		"",
		-1,
		"/",
		"",
		secure,
		true,
	)
}

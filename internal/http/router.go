package http

import (
	"context"
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/soraleth/wavedex/internal/config"
	"github.com/soraleth/wavedex/internal/http/handlers"
	"github.com/soraleth/wavedex/internal/http/middlewares"
	"github.com/soraleth/wavedex/internal/observability"
	"github.com/soraleth/wavedex/internal/ratelimit"
	"github.com/soraleth/wavedex/internal/repo/postgres"
	"github.com/soraleth/wavedex/internal/session"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
)

const maxBodyBytes = 1 << 20 // 1 MiB

func NewRouter(log *slog.Logger, pool *pgxpool.Pool, counters ratelimit.CounterStore, prom *observability.Prom, cfg config.Config) *gin.Engine {
	if cfg.Env != "dev" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()

	handlers.RegisterValidators()

	// middleware
	r.Use(gin.Recovery())
	r.Use(middlewares.RequestID())
	r.Use(middlewares.RequestLogger(log))
	r.Use(middlewares.SecurityHeaders())

	if len(cfg.CORSOrigins) > 0 {
		r.Use(middlewares.CORSMiddleware(cfg.CORSOrigins))
	}

	r.Use(otelgin.Middleware("wavedex"))
	r.Use(prom.GinHandleMiddleware())

	// health
	ping := func(ctx context.Context) error {
		if pool == nil {
			return nil
		}

		return pool.Ping(ctx)
	}

	h := handlers.NewHealthHandler(ping)
	r.GET("/healthz", h.Healthz)
	r.GET("/readyz", h.Readyz)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// wire up repositories
	usersRepo := postgres.NewUsersRepo(pool, prom)
	charactersRepo := postgres.NewCharactersRepo(pool, prom)
	favoritesRepo := postgres.NewFavoritesRepo(pool, prom)
	buildsRepo := postgres.NewBuildsRepo(pool, prom)
	sessionsRepo := postgres.NewSessionsRepo(pool, prom)

	sessions := session.NewManager(sessionsRepo, cfg.SessionSecret)

	// wire up handlers
	authHandler := handlers.NewAuthHandler(usersRepo, usersRepo, sessions, prom, cfg)
	charactersHandler := handlers.NewCharactersHandler(charactersRepo)
	favoritesHandler := handlers.NewFavoritesHandler(favoritesRepo, charactersRepo)
	buildsHandler := handlers.NewBuildsHandler(buildsRepo, charactersRepo)
	adminCharactersHandler := handlers.NewAdminCharactersHandler(charactersRepo)
	adminUsersHandler := handlers.NewAdminUsersHandler(usersRepo)
	adminBuildsHandler := handlers.NewAdminBuildsHandler(buildsRepo)

	auth := middlewares.NewAuthMiddleware(sessions, usersRepo)

	apiLimiter := middlewares.NewRateLimiter(counters, "api", 100, 15*time.Minute, prom, log)
	loginLimiter := middlewares.NewRateLimiter(counters, "login", 5, 15*time.Minute, prom, log)
	registerLimiter := middlewares.NewRateLimiter(counters, "register", 3, 60*time.Minute, prom, log)

	api := r.Group("/api")
	api.Use(apiLimiter.Middleware())
	api.Use(middlewares.RequireJSON())
	api.Use(middlewares.MaxBodyBytes(maxBodyBytes))

	api.POST("/register", registerLimiter.Middleware(), authHandler.Register)
	api.POST("/login", loginLimiter.Middleware(), authHandler.Login)
	// logout clears the cookie even when no valid session is attached
	api.POST("/logout", authHandler.Logout)

	api.GET("/characters", charactersHandler.ListCharacters)
	api.GET("/characters/:id", charactersHandler.GetCharacterByID)

	authed := api.Group("")
	authed.Use(auth.RequireAuth())

	authed.GET("/auth/user", authHandler.CurrentUser)

	authed.GET("/favorites", favoritesHandler.ListFavorites)
	authed.GET("/favorites/details", favoritesHandler.ListFavoritesWithDetails)
	authed.POST("/favorites", favoritesHandler.AddFavorite)
	authed.DELETE("/favorites/:characterId", favoritesHandler.RemoveFavorite)

	authed.GET("/builds", buildsHandler.ListMyBuilds)
	authed.GET("/characters/:id/builds", buildsHandler.ListMyBuildsForCharacter)
	authed.POST("/builds", buildsHandler.CreateBuild)
	authed.PUT("/builds/:id", buildsHandler.UpdateBuild)
	authed.DELETE("/builds/:id", buildsHandler.DeleteBuild)

	admin := api.Group("/admin")
	admin.Use(auth.RequireAuth(), auth.RequireAdmin())

	admin.POST("/characters", adminCharactersHandler.CreateCharacter)
	admin.PUT("/characters/:id", adminCharactersHandler.UpdateCharacter)
	admin.DELETE("/characters/:id", adminCharactersHandler.DeleteCharacter)

	admin.GET("/users", adminUsersHandler.ListUsers)
	admin.PUT("/users/:id", adminUsersHandler.UpdateUser)
	admin.DELETE("/users/:id", adminUsersHandler.DeleteUser)

	admin.GET("/builds", adminBuildsHandler.ListAllBuilds)
	admin.DELETE("/builds/:id", adminBuildsHandler.DeleteBuild)

	return r
}

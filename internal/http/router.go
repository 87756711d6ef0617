package http

import (
	"context"
	"log/slog"
	"time"

	"github.com/ferrante/taskhub/internal/auth"
	"github.com/ferrante/taskhub/internal/cache"
	"github.com/ferrante/taskhub/internal/config"
	"github.com/ferrante/taskhub/internal/http/handlers"
	"github.com/ferrante/taskhub/internal/http/middlewares"
	"github.com/ferrante/taskhub/internal/observability"
	"github.com/ferrante/taskhub/internal/repo/postgres"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
)

const maxBodyBytes = 1 << 20 // 1 MiB

func NewRouter(log *slog.Logger, pool *pgxpool.Pool, cfg config.Config, listCache *cache.ProjectListCache) *gin.Engine {
	if cfg.Env != "dev" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()

	// middleware

	r.Use(gin.Recovery())
	r.Use(otelgin.Middleware("taskhub"))
	r.Use(middlewares.RequestID())
	r.Use(middlewares.RequestLogger(log))
	r.Use(middlewares.SecurityHeaders())
	r.Use(middlewares.CORSMiddleware(cfg.CORSAllowedOrigins))
	r.Use(middlewares.MaxBodyBytes(maxBodyBytes))
	r.Use(middlewares.RequireJSON())

	// metrics

	reg := prometheus.NewRegistry()
	prom := observability.NewProm(reg)
	r.Use(prom.GinHandleMiddleware())
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})))

	// health
	ping := func() error {
		if pool == nil {
			return nil
		}

		ctx, cancel := context.WithTimeout(context.Background(), 1*time.Second)
		defer cancel()

		return pool.Ping(ctx)
	}

	h := handlers.NewHealthHandler(ping)
	r.GET("/healthz", h.Healthz)
	r.GET("/readyz", h.Readyz)

	// wire up repositories
	usersRepo := postgres.NewUsersRepo(pool, prom)
	projectsRepo := postgres.NewProjectsRepo(pool, prom)
	tasksRepo := postgres.NewTasksRepo(pool, prom)

	jwtManager := auth.NewManager(cfg.JWTSecret, cfg.AccessTTL())
	authMw := middlewares.NewAuthMiddleware(jwtManager, usersRepo)

	// wire up handlers
	authHandler := handlers.NewAuthHandler(usersRepo, usersRepo, jwtManager)
	projectsHandler := handlers.NewProjectsHandler(projectsRepo, listCache)
	tasksHandler := handlers.NewTasksHandler(tasksRepo, projectsRepo)

	// credential endpoints are brute-force targets, throttle by IP
	loginLimiter := middlewares.NewRateLimiter(10, time.Minute)

	api := r.Group("/api")

	authRoutes := api.Group("/auth")
	authRoutes.POST("/register", loginLimiter.RateLimiterMiddleware(middlewares.KeyByIP), authHandler.Register)
	authRoutes.POST("/login", loginLimiter.RateLimiterMiddleware(middlewares.KeyByIP), authHandler.Login)
	authRoutes.GET("/profile", authMw.RequireAuth(), authHandler.Profile)
	authRoutes.PUT("/change-password", authMw.RequireAuth(), authHandler.ChangePassword)
	authRoutes.POST("/logout", authMw.RequireAuth(), authHandler.Logout)

	projectRoutes := api.Group("/projects", authMw.RequireAuth())
	projectRoutes.GET("", projectsHandler.ListProjects)
	projectRoutes.POST("", projectsHandler.CreateProject)
	projectRoutes.GET("/:id", projectsHandler.GetProject)
	projectRoutes.PUT("/:id", projectsHandler.UpdateProject)
	projectRoutes.DELETE("/:id", projectsHandler.DeleteProject)

	taskRoutes := api.Group("/tasks", authMw.RequireAuth())
	taskRoutes.GET("/project/:projectId", tasksHandler.ListTasks)
	taskRoutes.POST("/project/:projectId", tasksHandler.CreateTask)
	taskRoutes.GET("/:taskId", tasksHandler.GetTask)
	taskRoutes.PUT("/:taskId", tasksHandler.UpdateTask)
	taskRoutes.DELETE("/:taskId", tasksHandler.DeleteTask)

	return r
}

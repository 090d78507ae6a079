package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/homerent/server/internal/domain/subscription"
	"github.com/homerent/server/internal/infra/config"
	"github.com/homerent/server/internal/infra/scheduler"
	"github.com/homerent/server/internal/port/inbound"
	"github.com/homerent/server/internal/port/outbound"
	"github.com/homerent/server/internal/utils/logger"
	"github.com/homerent/server/internal/utils/metrics"
	"github.com/homerent/server/internal/utils/middleware"
)

// Dependencies holds all injected dependencies.
type Dependencies struct {
	Config    *config.Config
	DB        *gorm.DB
	Redis     goredis.UniversalClient
	Logger    *logger.Logger
	ZapLogger *zap.Logger
	Registry  *prometheus.Registry
	Metrics   *metrics.Metrics
	JWT       outbound.JWTPort

	// Domains
	Subscriptions *subscription.Domain
	Scheduler     *scheduler.Scheduler

	// HTTP Handlers
	SubscriptionHandler      inbound.SubscriptionHttpPort
	SubscriptionAdminHandler inbound.SubscriptionAdminHttpPort
}

// App represents the application.
type App struct {
	deps    *Dependencies
	router  *gin.Engine
	cleanup func()
}

// New creates a new application instance.
func New(cfg *config.Config) (*App, error) {
	deps, cleanup, err := InitializeDependencies(cfg)
	if err != nil {
		return nil, fmt.Errorf("init dependencies: %w", err)
	}

	return &App{
		deps:    deps,
		router:  newRouter(deps),
		cleanup: cleanup,
	}, nil
}

// newRouter creates and configures the Gin router.
func newRouter(deps *Dependencies) *gin.Engine {
	if deps.Config.Log.Level == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Apply global middleware
	r.Use(middleware.Recovery(deps.Logger))
	r.Use(middleware.RequestID())
	r.Use(middleware.Logging(deps.Logger))
	r.Use(middleware.Metrics(deps.Metrics))
	r.Use(middleware.CORS(middleware.CORSConfig{
		AllowOrigins:     deps.Config.CORS.AllowOrigins,
		AllowCredentials: deps.Config.CORS.AllowCredentials,
		MaxAge:           deps.Config.CORS.MaxAge,
	}))

	r.GET("/health", healthHandler(deps.DB, deps.Redis, deps.Scheduler))
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(deps.Registry, promhttp.HandlerOpts{})))

	registerRoutes(r, deps)

	return r
}

// registerRoutes registers all HTTP routes.
func registerRoutes(r *gin.Engine, deps *Dependencies) {
	v1 := r.Group("/api/v1")
	ls := v1.Group("/landlord-subscription")

	idempotent := middleware.Idempotency(deps.Redis, middleware.IdempotencyConfig{
		TTL: deps.Config.Server.IdempotencyTTL,
	})

	h := deps.SubscriptionHandler
	user := ls.Group("", middleware.RequireAuth(deps.JWT))
	{
		user.GET("/plans", h.ListPlans)
		user.POST("/create", idempotent, h.Create)
		user.GET("/my-subscription", h.GetMySubscription)
		user.POST("/renew", idempotent, h.Renew)
		user.POST("/suspend", h.Suspend)
		user.POST("/cancel", h.Cancel)
		user.POST("/toggle-auto-renew", h.ToggleAutoRenew)
		user.GET("/check-access", h.CheckAccess)
		user.GET("/check-eligibility", h.CheckEligibility)
		user.GET("/history", h.History)
	}

	a := deps.SubscriptionAdminHandler
	admin := ls.Group("/admin", middleware.RequireAuth(deps.JWT), middleware.RequireAdmin())
	{
		admin.GET("/list", a.List)
		admin.GET("/stats", a.Stats)

		admin.GET("/plans", a.ListPlans)
		admin.POST("/plans", a.CreatePlan)
		admin.GET("/plans/:planId", a.GetPlan)
		admin.PUT("/plans/:planId", a.UpdatePlan)
		admin.DELETE("/plans/:planId", a.DeletePlan)

		admin.GET("/settings", a.GetSettings)
		admin.PUT("/settings", a.UpdateSettings)

		admin.POST("/sweeps/:job", a.RunSweep)

		admin.GET("/:id", a.Get)
		admin.GET("/:id/history", a.History)
		admin.POST("/:id/suspend", a.Suspend)
		admin.POST("/:id/reactivate", a.Reactivate)
		admin.POST("/:id/cancel", a.Cancel)
		admin.POST("/:id/renew", a.Renew)
	}
}

// healthHandler reports whether the database and Redis are reachable, and
// when the sweeps run next.
func healthHandler(db *gorm.DB, redis goredis.UniversalClient, sched *scheduler.Scheduler) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		checks := gin.H{"database": "ok", "redis": "ok"}
		healthy := true

		if db == nil {
			checks["database"] = "unavailable"
			healthy = false
		} else if sqlDB, err := db.DB(); err != nil || sqlDB.PingContext(ctx) != nil {
			checks["database"] = "unavailable"
			healthy = false
		}
		if redis == nil || redis.Ping(ctx).Err() != nil {
			checks["redis"] = "unavailable"
			healthy = false
		}

		body := gin.H{"status": "ok", "checks": checks}
		if sched != nil {
			body["jobs"] = sched.NextRuns()
		}
		if !healthy {
			body["status"] = "degraded"
			c.JSON(http.StatusServiceUnavailable, body)
			return
		}
		c.JSON(http.StatusOK, body)
	}
}

// Start starts background jobs.
func (a *App) Start() {
	if a.deps.Scheduler != nil {
		a.deps.Scheduler.Start()
	}
}

// Router returns the HTTP router.
func (a *App) Router() *gin.Engine {
	return a.router
}

// Logger returns the application's structured logger.
func (a *App) Logger() *zap.Logger {
	return a.deps.ZapLogger
}

// Stop stops the application and releases resources.
func (a *App) Stop() {
	if a.cleanup != nil {
		a.cleanup()
	}
}

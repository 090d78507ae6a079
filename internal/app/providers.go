package app

import (
	"github.com/google/wire"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"

	// Domain
	"github.com/homerent/server/internal/domain/subscription"

	// Inbound adapters
	ginhttp "github.com/homerent/server/internal/adapter/inbound/gin"

	// Ports
	"github.com/homerent/server/internal/port/inbound"
	"github.com/homerent/server/internal/port/outbound"

	// Outbound adapters
	"github.com/homerent/server/internal/adapter/outbound/email"
	"github.com/homerent/server/internal/adapter/outbound/jwt"
	"github.com/homerent/server/internal/adapter/outbound/postgres"
	redisadapter "github.com/homerent/server/internal/adapter/outbound/redis"

	// Infrastructure
	"github.com/homerent/server/internal/infra/cache"
	"github.com/homerent/server/internal/infra/config"
	"github.com/homerent/server/internal/infra/database"
	"github.com/homerent/server/internal/infra/scheduler"

	// Utils
	"github.com/homerent/server/internal/model"
	"github.com/homerent/server/internal/utils/logger"
	"github.com/homerent/server/internal/utils/metrics"
)

// ===== Infrastructure Providers =====

// InfraSet provides infrastructure dependencies.
var InfraSet = wire.NewSet(
	ProvideDatabase,
	ProvideRedisClient,
	ProvideLogger,
	ProvideZapLogger,
	ProvideRegistry,
	ProvideMetrics,
)

// ProvideDatabase creates a database connection.
func ProvideDatabase(cfg *config.Config) (*gorm.DB, func(), error) {
	db, err := database.New(&cfg.Database)
	if err != nil {
		return nil, nil, err
	}
	return db, func() { _ = database.Close(db) }, nil
}

// ProvideRedisClient creates a Redis client.
func ProvideRedisClient(cfg *config.Config) (goredis.UniversalClient, func(), error) {
	client, err := cache.NewRedisClient(&cfg.Redis)
	if err != nil {
		return nil, nil, err
	}
	return client, func() { _ = cache.Close(client) }, nil
}

// ProvideLogger creates a logger instance.
func ProvideLogger(cfg *config.Config) *logger.Logger {
	return logger.New(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
	})
}

// ProvideZapLogger creates a zap logger instance.
func ProvideZapLogger(cfg *config.Config) (*zap.Logger, func(), error) {
	zapLog, err := logger.NewZapLogger(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
	})
	if err != nil {
		return nil, nil, err
	}
	return zapLog, func() { _ = zapLog.Sync() }, nil
}

// ProvideRegistry creates the Prometheus registry served on /metrics.
func ProvideRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return reg
}

// ProvideMetrics creates a metrics instance.
func ProvideMetrics(cfg *config.Config, reg *prometheus.Registry) *metrics.Metrics {
	return metrics.NewWithRegistry(cfg.Metrics.Namespace, reg)
}

// ===== Auth Providers =====

// AuthSet provides token validation.
var AuthSet = wire.NewSet(
	ProvideJWTManager,
)

// ProvideJWTManager creates the JWT manager.
func ProvideJWTManager(cfg *config.Config) outbound.JWTPort {
	return jwt.NewManager(&jwt.Config{
		Secret:            cfg.Auth.JWTSecret,
		Issuer:            cfg.Auth.Issuer,
		AccessTokenExpiry: cfg.Auth.AccessTokenExpiry,
	})
}

// ===== Subscription Domain Providers =====

// SubscriptionSet provides landlord subscription domain dependencies.
var SubscriptionSet = wire.NewSet(
	postgres.NewPlanAdapter,
	postgres.NewSubscriptionAdapter,
	postgres.NewHistoryAdapter,
	postgres.NewPaymentAdapter,
	postgres.NewUserAdapter,
	postgres.NewSettingAdapter,
	postgres.NewTransactionAdapter,
	ProvideSettingsCache,
	ProvideNotifier,
	ProvideHistoryRecorder,
	ProvideSettingsProvider,
	ProvideSubscriptionDomain,
	wire.Bind(new(inbound.SubscriptionDomain), new(*subscription.Domain)),
	wire.Bind(new(inbound.SubscriptionAdminDomain), new(*subscription.Domain)),
	wire.Bind(new(inbound.SweeperDomain), new(*subscription.Domain)),
)

// ProvideSettingsCache creates the Redis cache in front of system_settings.
func ProvideSettingsCache(cfg *config.Config, redis goredis.UniversalClient, m *metrics.Metrics) outbound.CachePort {
	return redisadapter.NewCache(redis, cfg.Redis.KeyPrefix, "settings", m)
}

// ProvideNotifier creates the renewal email notifier behind a circuit breaker.
func ProvideNotifier(cfg *config.Config, m *metrics.Metrics, zapLog *zap.Logger) outbound.SubscriptionNotifierPort {
	var next outbound.SubscriptionNotifierPort
	if cfg.Email.Provider == "smtp" {
		next = email.NewSMTPNotifier(&email.SMTPConfig{
			Host:        cfg.Email.SMTP.Host,
			Port:        cfg.Email.SMTP.Port,
			User:        cfg.Email.SMTP.User,
			Password:    cfg.Email.SMTP.Password,
			FromAddress: cfg.Email.FromAddress,
			FromName:    cfg.Email.FromName,
			BaseURL:     cfg.Email.BaseURL,
		}, zapLog)
	} else {
		next = email.NewNoopNotifier(zapLog)
	}

	return email.NewBreakerNotifier(next, &email.BreakerConfig{
		FailureThreshold:    cfg.Email.Breaker.FailureThreshold,
		Timeout:             cfg.Email.Breaker.Timeout,
		MaxHalfOpenRequests: cfg.Email.Breaker.MaxHalfOpenRequests,
	}, m, zapLog)
}

// ProvideHistoryRecorder creates the append-only history recorder.
func ProvideHistoryRecorder(
	historyDB outbound.HistoryDatabasePort,
	paymentDB outbound.PaymentDatabasePort,
	zapLog *zap.Logger,
) *subscription.HistoryRecorder {
	return subscription.NewHistoryRecorder(historyDB, paymentDB, zapLog)
}

// ProvideSettingsProvider creates the typed settings reader.
func ProvideSettingsProvider(
	cfg *config.Config,
	settingDB outbound.SettingDatabasePort,
	settingsCache outbound.CachePort,
	zapLog *zap.Logger,
) *subscription.SettingsProvider {
	defaults := model.SubscriptionSettings{
		Enabled:         cfg.Subscription.Enabled,
		MonthlyFee:      cfg.Subscription.MonthlyFee,
		FreeTrialDays:   cfg.Subscription.FreeTrialDays,
		GracePeriodDays: cfg.Subscription.GracePeriodDays,
	}
	return subscription.NewSettingsProvider(settingDB, settingsCache, defaults, cfg.Subscription.SettingsCacheTTL, zapLog)
}

// ProvideSubscriptionDomain creates the landlord subscription domain.
func ProvideSubscriptionDomain(
	cfg *config.Config,
	planDB outbound.PlanDatabasePort,
	subscriptionDB outbound.SubscriptionDatabasePort,
	paymentDB outbound.PaymentDatabasePort,
	userDB outbound.UserDatabasePort,
	tx outbound.TransactionPort,
	notifier outbound.SubscriptionNotifierPort,
	history *subscription.HistoryRecorder,
	settings *subscription.SettingsProvider,
	m *metrics.Metrics,
	zapLog *zap.Logger,
) *subscription.Domain {
	domainCfg := subscription.DefaultConfig()
	if cfg.Subscription.RenewalWindow > 0 {
		domainCfg.RenewalWindow = cfg.Subscription.RenewalWindow
	}
	return subscription.NewSubscriptionDomain(
		planDB,
		subscriptionDB,
		paymentDB,
		userDB,
		tx,
		notifier,
		history,
		settings,
		m,
		domainCfg,
		zapLog,
	)
}

// ===== Scheduler Providers =====

// SchedulerSet provides the sweeper schedule.
var SchedulerSet = wire.NewSet(
	ProvideScheduler,
)

// ProvideScheduler creates the cron scheduler, or nil when disabled.
func ProvideScheduler(cfg *config.Config, sweeper inbound.SweeperDomain, zapLog *zap.Logger) (*scheduler.Scheduler, func(), error) {
	if !cfg.Scheduler.Enabled {
		return nil, func() {}, nil
	}
	s, err := scheduler.New(&cfg.Scheduler, sweeper, zapLog)
	if err != nil {
		return nil, nil, err
	}
	return s, func() { _ = s.Stop() }, nil
}

// ===== HTTP Handler Providers =====

// HandlerSet provides all HTTP handlers.
var HandlerSet = wire.NewSet(
	ginhttp.NewSubscriptionHandler,
	ginhttp.NewSubscriptionAdminHandler,
)

// AppSet is the master provider set that includes all dependencies.
var AppSet = wire.NewSet(
	InfraSet,
	AuthSet,
	SubscriptionSet,
	SchedulerSet,
	HandlerSet,
)

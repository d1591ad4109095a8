package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"climstore_backend/internal/catalog"
	"climstore_backend/internal/dashboard"
	apphttp "climstore_backend/internal/http"
	"climstore_backend/internal/http/router"
	"climstore_backend/internal/leads"
	"climstore_backend/internal/notification"
	"climstore_backend/internal/payments"
	"climstore_backend/internal/payments/gateway"
	paymentsservice "climstore_backend/internal/payments/service"
	"climstore_backend/internal/pdf"
	"climstore_backend/internal/quotes"
	"climstore_backend/internal/scheduler"
	"climstore_backend/internal/supplierorders"
	"climstore_backend/platform/config"
	"climstore_backend/platform/db"
	"climstore_backend/platform/events"
	"climstore_backend/platform/logger"
	"climstore_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	log := logger.New(cfg.Env)
	log.Info("starting server", "env", cfg.Env, "addr", cfg.HTTPAddr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// ========================================================================
	// Infrastructure Layer
	// ========================================================================

	if err := withRetry(ctx, log, "database migrations", 5, 2*time.Second, func() error {
		return db.RunMigrations(ctx, cfg)
	}); err != nil {
		log.Error("failed to run database migrations", "error", err)
		panic("failed to run database migrations: " + err.Error())
	}
	log.Info("database migrations complete")

	var pool *pgxpool.Pool
	if err := withRetry(ctx, log, "database connection", 5, 2*time.Second, func() error {
		p, err := db.NewPool(ctx, cfg)
		if err != nil {
			return err
		}
		pool = p
		return nil
	}); err != nil {
		log.Error("failed to connect to database", "error", err)
		panic("failed to connect to database: " + err.Error())
	}
	defer pool.Close()
	log.Info("database connection established")

	// Event bus for decoupled communication between modules
	eventBus := events.NewInMemoryBus(log)

	// Shared validator instance for dependency injection
	val := validator.New()

	cache := initCache(cfg, log)
	if cache != nil {
		defer func() { _ = cache.Close() }()
	}

	syncer, closeSyncer := initQuoteSyncer(cfg, log)
	if closeSyncer != nil {
		defer closeSyncer()
	}

	var gw gateway.Gateway
	if cfg.IsStripeEnabled() {
		gw = gateway.NewStripe(cfg.GetStripeSecretKey(), cfg.GetStripeWebhookSecret())
		log.Info("stripe gateway initialized")
	} else {
		log.Warn("STRIPE_SECRET_KEY not configured; card payments disabled, manual payments only")
	}

	var sender notification.Sender
	if cfg.IsEmailEnabled() {
		s, err := notification.NewSMTPSender(cfg)
		if err != nil {
			log.Error("failed to initialize smtp sender", "error", err)
			panic("failed to initialize smtp sender: " + err.Error())
		}
		sender = s
		log.Info("smtp sender initialized", "host", cfg.GetSMTPHost())
	} else {
		log.Warn("SMTP not configured; customer emails disabled")
	}

	var archiver pdf.Archiver
	if cfg.IsArchiveEnabled() {
		a, err := pdf.NewMinIOArchiver(ctx, cfg)
		if err != nil {
			log.Error("failed to initialize pdf archiver", "error", err)
			panic("failed to initialize pdf archiver: " + err.Error())
		}
		archiver = a
		log.Info("pdf archive initialized", "bucket", cfg.GetMinioBucketQuotePDFs())
	} else {
		log.Warn("MINIO_ENDPOINT not configured; quote PDF archiving disabled")
	}

	// ========================================================================
	// Domain Modules (Composition Root)
	// ========================================================================

	generator := pdf.NewGenerator(cfg.GetAppBaseURL(), archiver, log)

	// Notification module subscribes to domain events (not HTTP-facing)
	notifier := notification.New(sender, log)
	notifier.Subscribe(eventBus)

	quotesModule := quotes.New(pool, eventBus, log, val, generator)
	paymentsModule := payments.New(pool, gw, quotesModule.Service(), syncer, eventBus, log, val, cfg.GetCurrency())
	ordersModule := supplierorders.New(pool, quotesModule.Service(), eventBus, log, val)
	dashboardModule := dashboard.New(pool)
	catalogModule := catalog.New(pool, cache, cfg.GetCatalogCacheTTL(), log, val)
	leadsModule := leads.New(pool, eventBus, log, val)

	// ========================================================================
	// HTTP Layer
	// ========================================================================

	app := &apphttp.App{
		Config: cfg,
		Env:    cfg.Env,
		Logger: log,
		Health: pool,
		Modules: []apphttp.Module{
			quotesModule,
			paymentsModule,
			ordersModule,
			dashboardModule,
			catalogModule,
			leadsModule,
		},
	}

	engine := router.New(app)

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	srvErr := make(chan error, 1)
	go func() {
		log.Info("server listening", "addr", cfg.HTTPAddr)
		srvErr <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		log.Info("shutdown signal received, gracefully shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error("server shutdown failed", "error", err)
		}
	case err := <-srvErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error", "error", err)
			panic("server error: " + err.Error())
		}
	}
}

func initCache(cfg config.RedisConfig, log *logger.Logger) *redis.Client {
	if !cfg.IsRedisEnabled() {
		log.Warn("REDIS_URL not configured; catalog cache disabled")
		return nil
	}

	opt, err := redis.ParseURL(cfg.GetRedisURL())
	if err != nil {
		log.Error("invalid REDIS_URL, catalog cache disabled", "error", err)
		return nil
	}

	log.Info("catalog cache initialized", "ttl", cfg.GetCatalogCacheTTL())
	return redis.NewClient(opt)
}

func initQuoteSyncer(cfg *config.Config, log *logger.Logger) (paymentsservice.Syncer, func()) {
	if !cfg.IsRedisEnabled() {
		log.Warn("REDIS_URL not configured; quote sync runs inline")
		return nil, nil
	}

	client, err := scheduler.NewClient(cfg.GetRedisURL(), cfg.GetAsynqQueueName(), log)
	if err != nil {
		log.Error("failed to initialize task client, quote sync runs inline", "error", err)
		return nil, nil
	}

	return client, func() {
		_ = client.Close()
	}
}

func withRetry(ctx context.Context, log *logger.Logger, name string, attempts int, baseDelay time.Duration, fn func() error) error {
	if attempts < 1 {
		return errors.New(name + ": invalid retry attempts")
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err := fn(); err == nil {
			return nil
		} else {
			lastErr = err
			log.Warn("retryable operation failed", "operation", name, "attempt", attempt, "error", err)
		}

		if attempt < attempts {
			delay := time.Duration(attempt*attempt) * baseDelay
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
		}
	}

	return errors.New(name + ": " + lastErr.Error())
}

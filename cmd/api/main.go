package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"quote_portal_backend/internal/adapters"
	"quote_portal_backend/internal/attribution"
	"quote_portal_backend/internal/catalog"
	"quote_portal_backend/internal/email"
	"quote_portal_backend/internal/events"
	apphttp "quote_portal_backend/internal/http"
	"quote_portal_backend/internal/http/router"
	"quote_portal_backend/internal/leads"
	leadrepo "quote_portal_backend/internal/leads/repository"
	"quote_portal_backend/internal/notification"
	"quote_portal_backend/internal/quotes"
	"quote_portal_backend/internal/scheduler"
	"quote_portal_backend/platform/cache"
	"quote_portal_backend/platform/config"
	"quote_portal_backend/platform/db"
	"quote_portal_backend/platform/httpkit"
	"quote_portal_backend/platform/logger"
	"quote_portal_backend/platform/validator"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"
)

const (
	shutdownTimeout    = 10 * time.Second
	limiterMaxIdle     = 10 * time.Minute
	janitorInterval    = 5 * time.Minute
	redisCheckName     = "redis"
	databaseCheckName  = "database"
	readHeaderTimeout  = 5 * time.Second
	serverIdleTimeout  = 60 * time.Second
	serverWriteTimeout = 30 * time.Second
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	// Initialize structured logger
	log := logger.New(cfg.Env)
	log.Info("starting server", "env", cfg.Env, "addr", cfg.HTTPAddr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// ========================================================================
	// Infrastructure Layer
	// ========================================================================

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

	if err := withRetry(ctx, log, "database migrations", 5, 2*time.Second, func() error {
		return db.RunMigrations(ctx, pool)
	}); err != nil {
		log.Error("failed to run database migrations", "error", err)
		panic("failed to run database migrations: " + err.Error())
	}
	log.Info("database migrations complete")

	rdb := initRedis(ctx, cfg, log)
	if rdb != nil {
		defer func() { _ = rdb.Close() }()
	}

	// Event bus for decoupled communication between modules
	eventBus := events.NewInMemoryBus(log)

	// Shared validator instance for dependency injection
	val := validator.New()

	// ========================================================================
	// Domain Modules
	// ========================================================================

	catalogModule := catalog.NewModule(pool, rdb, eventBus, val, cfg, log)

	quotesModule, err := quotes.NewModule(catalogModule.Service(), val, cfg, log)
	if err != nil {
		log.Error("failed to initialize quotes module", "error", err)
		panic("failed to initialize quotes module: " + err.Error())
	}

	attributionModule := attribution.NewModule(rdb, val, cfg, log)
	sessionAttribution := adapters.NewSessionAttribution(attributionModule.Service())

	leadsModule := leads.NewModule(pool, eventBus, val, sessionAttribution, log)

	notificationModule := notification.New(email.NewSender(cfg), cfg, leadrepo.New(pool), log)
	notificationModule.RegisterHandlers(eventBus)

	// Quote requests hand their lead to the queue when Redis is configured, and
	// to an in-process goroutine otherwise.
	dispatcher, closeDispatcher := initLeadDispatcher(cfg, rdb, leadsModule, log)
	defer closeDispatcher()
	quotesModule.Service().SetLeadCapturer(adapters.NewQuoteLeadCapturer(dispatcher, sessionAttribution, log))

	// ========================================================================
	// HTTP Layer
	// ========================================================================

	limiter := httpkit.NewPublicRateLimiter(cfg, log)

	janitor := scheduler.NewJanitor(log, janitorInterval)
	janitor.Add("public rate limiters", func() int { return limiter.Prune(limiterMaxIdle) })
	if store := attributionModule.MemoryStore(); store != nil {
		janitor.Add("attribution sessions", store.Prune)
	}

	health := map[string]apphttp.HealthChecker{databaseCheckName: db.NewPoolAdapter(pool)}
	if rdb != nil {
		health[redisCheckName] = redisPinger{client: rdb}
	}

	app := &apphttp.App{
		Config:           cfg,
		Logger:           log,
		Health:           health,
		EventBus:         eventBus,
		PublicLimiter:    limiter,
		PublicMiddleware: []gin.HandlerFunc{attributionModule.Middleware()},
		Modules: []apphttp.Module{
			catalogModule,
			quotesModule,
			attributionModule,
			leadsModule,
		},
	}

	server := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           router.New(app),
		ReadHeaderTimeout: readHeaderTimeout,
		WriteTimeout:      serverWriteTimeout,
		IdleTimeout:       serverIdleTimeout,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("server listening", "addr", cfg.HTTPAddr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		janitor.Run(gctx)
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutdown signal received, gracefully shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Error("server error", "error", err)
	}

	if inline, ok := dispatcher.(*scheduler.InlineDispatcher); ok {
		inline.Wait()
	}
	eventBus.Wait()
	log.Info("server stopped")
}

// initRedis returns nil when Redis is not configured or unreachable. Every
// Redis-backed feature has an in-process fallback.
func initRedis(ctx context.Context, cfg *config.Config, log *logger.Logger) *redis.Client {
	if cfg.GetRedisURL() == "" {
		log.Warn("REDIS_URL not configured; using in-process cache, sessions and lead dispatch")
		return nil
	}

	rdb, err := cache.NewClient(ctx, cfg)
	if err != nil {
		log.Error("failed to connect to redis; using in-process fallbacks", "error", err)
		return nil
	}
	return rdb
}

func initLeadDispatcher(cfg config.SchedulerConfig, rdb *redis.Client, leadsModule *leads.Module, log *logger.Logger) (adapters.LeadDispatcher, func()) {
	inline := scheduler.NewInlineDispatcher(leadsModule.Intake(), log)
	if rdb == nil {
		return inline, func() {}
	}

	client, err := scheduler.NewClient(cfg)
	if err != nil {
		log.Error("failed to initialize lead capture queue; capturing in process", "error", err)
		return inline, func() {}
	}

	return client, func() {
		_ = client.Close()
	}
}

type redisPinger struct {
	client *redis.Client
}

func (p redisPinger) Ping(ctx context.Context) error {
	return p.client.Ping(ctx).Err()
}

func withRetry(ctx context.Context, log *logger.Logger, name string, attempts int, baseDelay time.Duration, fn func() error) error {
	if attempts < 1 {
		return fmt.Errorf("%s: invalid retry attempts", name)
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

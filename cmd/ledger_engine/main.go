package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/ritsnep/HimalytixNew-sub002/internal/adapters/mailer"
	portsrepo "github.com/ritsnep/HimalytixNew-sub002/internal/core/ports/repositories"
	portssvc "github.com/ritsnep/HimalytixNew-sub002/internal/core/ports/services"
	"github.com/ritsnep/HimalytixNew-sub002/internal/core/services"
	"github.com/ritsnep/HimalytixNew-sub002/internal/events"
	"github.com/ritsnep/HimalytixNew-sub002/internal/handlers"
	"github.com/ritsnep/HimalytixNew-sub002/internal/middleware"
	"github.com/ritsnep/HimalytixNew-sub002/internal/platform/config"
	"github.com/ritsnep/HimalytixNew-sub002/internal/repositories/database/pgsql"
	"github.com/ritsnep/HimalytixNew-sub002/internal/repositories/memory"
	"github.com/ritsnep/HimalytixNew-sub002/pkg/database"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 15 * time.Second

// @title Ledger Engine API
// @version 1.0
// @description Journal posting and approval workflow engine.

// @host localhost:8080
// @BasePath /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

// @security BearerAuth
func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	if err := run(logger); err != nil {
		logger.Error("Ledger engine stopped with error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func run(logger *slog.Logger) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, closeStore, err := openStore(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeStore()

	var rdb *redis.Client
	if cfg.EventsBackend == "redis" || cfg.MailerBackend == "redis" {
		rdb = redis.NewClient(&redis.Options{Addr: cfg.RedisAddr, Password: cfg.RedisPassword, DB: cfg.RedisDB})
		defer rdb.Close()
	}

	publisher, err := newPublisher(cfg, rdb)
	if err != nil {
		return err
	}
	defer publisher.Close()

	m, err := newMailer(cfg, rdb, logger)
	if err != nil {
		return err
	}

	container := services.NewServiceContainer(cfg, store, publisher, m)

	limiter, err := middleware.NewRateLimiter(cfg.RateLimit)
	if err != nil {
		return err
	}

	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(middleware.StructuredLoggingMiddleware(logger), gin.Recovery())
	if err := r.SetTrustedProxies(nil); err != nil {
		return fmt.Errorf("failed to set trusted proxies: %w", err)
	}
	handlers.RegisterRoutes(r, cfg, container, limiter)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("Server starting", slog.String("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(gctx), shutdownTimeout)
		defer cancel()
		logger.Info("Shutting down server")
		return srv.Shutdown(shutdownCtx)
	})
	startWorkers(gctx, g, cfg, container, logger)

	return g.Wait()
}

// startWorkers launches the notification relay and, when an interval is
// configured, the escalation sweeper.
func startWorkers(ctx context.Context, g *errgroup.Group, cfg *config.Config, container *portssvc.ServiceContainer, logger *slog.Logger) {
	g.Go(func() error {
		logger.Info("Notification relay started", slog.Duration("interval", cfg.NotifyPollInterval))
		return container.Notifications.Run(ctx, cfg.NotifyPollInterval)
	})
	if cfg.EscalationSweepInterval > 0 {
		g.Go(func() error {
			logger.Info("Escalation sweeper started", slog.Duration("interval", cfg.EscalationSweepInterval))
			return container.Escalation.Run(ctx, cfg.EscalationSweepInterval)
		})
	}
}

func openStore(ctx context.Context, cfg *config.Config, logger *slog.Logger) (portsrepo.LedgerStore, func(), error) {
	if cfg.StoreBackend == config.StoreMemory {
		return memory.NewStore(), func() {}, nil
	}

	logger.Info("Running database migrations...")
	if err := database.RunMigrations(cfg.DatabaseURL, "file://migrations"); err != nil {
		return nil, nil, fmt.Errorf("failed to apply migrations: %w", err)
	}
	logger.Info("Database migrations applied.")

	pool, err := database.NewPgxPool(ctx, cfg.DatabaseURL, cfg.EnableDBCheck)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize database pool: %w", err)
	}
	store := pgsql.NewStore(pool, pgsql.WithTxRetries(cfg.DBTxMaxRetries, cfg.DBTxRetryBase))
	return store, func() { database.ClosePgxPool(pool) }, nil
}

func newPublisher(cfg *config.Config, rdb *redis.Client) (events.Publisher, error) {
	switch cfg.EventsBackend {
	case "redis":
		return events.NewRedisPublisher(rdb), nil
	case "kafka":
		return events.NewKafkaPublisher(cfg.KafkaBrokers, cfg.KafkaTopic), nil
	case "none", "":
		return events.NopPublisher{}, nil
	default:
		return nil, fmt.Errorf("unknown EVENTS_BACKEND %q", cfg.EventsBackend)
	}
}

func newMailer(cfg *config.Config, rdb *redis.Client, logger *slog.Logger) (portssvc.Mailer, error) {
	switch cfg.MailerBackend {
	case "redis":
		return mailer.NewRedisMailer(rdb, cfg.MailerRedisList), nil
	case "log", "":
		return mailer.NewLogMailer(logger), nil
	default:
		return nil, fmt.Errorf("unknown MAILER_BACKEND %q", cfg.MailerBackend)
	}
}

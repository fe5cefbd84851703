package main

import (
	"context"
	"fmt"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/valyala/fasthttp"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/fastygo/foodshare/api/client"
	"github.com/fastygo/foodshare/internal/cli"
	"github.com/fastygo/foodshare/internal/config"
	boltInfra "github.com/fastygo/foodshare/internal/infrastructure/bolt"
	redisInfra "github.com/fastygo/foodshare/internal/infrastructure/redis"
	"github.com/fastygo/foodshare/internal/metrics"
	"github.com/fastygo/foodshare/internal/services"
	"github.com/fastygo/foodshare/internal/services/lifecycle"
	"github.com/fastygo/foodshare/pkg/logger"
	"github.com/fastygo/foodshare/repository"
	boltRepo "github.com/fastygo/foodshare/repository/bolt"
	"github.com/fastygo/foodshare/repository/memory"
	redisRepo "github.com/fastygo/foodshare/repository/redis"
	"github.com/fastygo/foodshare/usecase/gate"
	"github.com/fastygo/foodshare/usecase/reconcile"
	"github.com/fastygo/foodshare/usecase/session"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		return cli.ExitFailure
	}

	zapLogger, err := logger.New(logger.Config{
		Level:    cfg.Logger.Level,
		Encoding: cfg.Logger.Encoding,
		Output:   os.Stderr,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger error: %v\n", err)
		return cli.ExitFailure
	}
	defer zapLogger.Sync()

	appCtx, cancel := context.WithCancel(context.Background())
	defer cancel()

	manager := lifecycle.New(cfg.Context.ShutdownTimeout, zapLogger)
	stopSignals := manager.Listen(cancel)
	defer stopSignals()
	defer func() {
		if err := manager.Shutdown(context.Background()); err != nil {
			zapLogger.Warn("graceful shutdown error", zap.Error(err))
		}
	}()

	storage, err := openSessionStorage(appCtx, cfg, manager)
	if err != nil {
		fmt.Fprintf(os.Stderr, "session storage: %v\n", err)
		return cli.ExitFailure
	}

	opts := []client.Option{}
	if cfg.API.RateLimit > 0 {
		opts = append(opts, client.WithLimiter(rate.NewLimiter(rate.Limit(cfg.API.RateLimit), cfg.API.RateBurst)))
	}
	if cfg.Metrics.Addr != "" {
		reg := prometheus.NewRegistry()
		opts = append(opts, client.WithMetrics(metrics.NewCollector(reg)))
		serveMetrics(cfg.Metrics.Addr, reg, manager, zapLogger)
	}

	var sessions *session.Store
	api := client.New(client.Config{
		BaseURL:  cfg.API.BaseURL,
		Timeout:  cfg.API.Timeout,
		MaxConns: cfg.API.MaxConns,
	}, client.IdentityFunc(func() string { return sessions.UserID() }), zapLogger, opts...)
	sessions = session.New(storage, api, zapLogger)

	inbox := &reconcile.Inbox{}
	rec := reconcile.New(api, sessions, inbox, zapLogger, reconcile.Options{ReadRetries: cfg.API.ReadRetries})

	app := cli.New(cli.Deps{
		Sessions:   sessions,
		Reconciler: rec,
		Inbox:      inbox,
		Table:      gate.DefaultTable(),
		Watch:      services.RefresherConfig{Interval: cfg.Watch.Interval},
		Logger:     zapLogger,
		Out:        os.Stdout,
		Err:        os.Stderr,
	})
	return app.Run(appCtx, args)
}

func openSessionStorage(ctx context.Context, cfg *config.Config, manager *lifecycle.Manager) (repository.SessionStorage, error) {
	switch cfg.Session.Backend {
	case config.SessionBackendMemory:
		return memory.NewSessionStorage(), nil
	case config.SessionBackendRedis:
		rdb, err := redisInfra.NewClient(ctx, cfg.Redis)
		if err != nil {
			return nil, err
		}
		manager.RegisterCloser("redis", rdb)
		return redisRepo.NewSessionStorage(rdb, cfg.Session.RedisPrefix), nil
	default:
		db, err := boltInfra.Open(cfg.Session)
		if err != nil {
			return nil, err
		}
		manager.RegisterCloser("session_db", db)
		return boltRepo.NewSessionStorage(db, cfg.Session.Bucket), nil
	}
}

func serveMetrics(addr string, reg *prometheus.Registry, manager *lifecycle.Manager, log *zap.Logger) {
	server := &fasthttp.Server{
		Handler: metrics.Handler(reg),
		Name:    "foodshare-metrics",
	}
	go func() {
		log.Info("metrics endpoint started", zap.String("address", addr))
		if err := server.ListenAndServe(addr); err != nil {
			log.Warn("metrics endpoint stopped", zap.Error(err))
		}
	}()
	manager.Register("metrics_server", func(ctx context.Context) error {
		return server.ShutdownWithContext(ctx)
	})
}

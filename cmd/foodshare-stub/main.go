package main

import (
	"context"
	"log"
	"time"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/fastygo/foodshare/internal/config"
	"github.com/fastygo/foodshare/internal/router"
	"github.com/fastygo/foodshare/internal/services/lifecycle"
	"github.com/fastygo/foodshare/internal/stubapi"
	"github.com/fastygo/foodshare/pkg/httpcontext"
	"github.com/fastygo/foodshare/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	zapLogger, err := logger.New(logger.Config{
		Level:    cfg.Logger.Level,
		Encoding: cfg.Logger.Encoding,
	})
	if err != nil {
		log.Fatalf("logger error: %v", err)
	}
	defer zapLogger.Sync()

	appCtx, cancel := context.WithCancel(context.Background())
	defer cancel()

	manager := lifecycle.New(cfg.Context.ShutdownTimeout, zapLogger)
	stopSignals := manager.Listen(cancel)
	defer stopSignals()

	store := stubapi.NewStore()
	if cfg.Stub.Seed {
		if err := stubapi.Seed(store); err != nil {
			zapLogger.Fatal("seeding failed", zap.Error(err))
		}
		zapLogger.Info("demo accounts seeded", zap.String("password", stubapi.DemoPassword))
	}

	ctxAdapter := httpcontext.NewAdapter(5 * time.Second)

	server := &fasthttp.Server{
		Handler:      router.NewStub(store, ctxAdapter, zapLogger),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  time.Minute,
		Name:         cfg.AppName + "-stub",
	}

	go func() {
		zapLogger.Info("stub backend started", zap.String("address", cfg.StubAddress()))
		if err := server.ListenAndServe(cfg.StubAddress()); err != nil {
			zapLogger.Error("stub backend stopped", zap.Error(err))
			cancel()
		}
	}()

	manager.Register("http_server", func(ctx context.Context) error {
		return server.ShutdownWithContext(ctx)
	})

	<-appCtx.Done()

	if err := manager.Shutdown(context.Background()); err != nil {
		zapLogger.Error("graceful shutdown error", zap.Error(err))
	}
}

package services

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/fastygo/foodshare/usecase/reconcile"
)

// RefresherConfig controls how often watched screens are reloaded.
type RefresherConfig struct {
	Interval time.Duration
}

// Refresher reloads a set of screens on a schedule. A tick that is still
// running when the next one fires causes that one to be skipped.
type Refresher struct {
	screens []reconcile.Reloader
	after   func(ctx context.Context)
	logger  *zap.Logger
	cron    *cron.Cron
	cfg     RefresherConfig
}

// NewRefresher schedules screens. after, if set, runs once all screens of a
// tick have been reloaded.
func NewRefresher(logger *zap.Logger, cfg RefresherConfig, after func(ctx context.Context), screens ...reconcile.Reloader) (*Refresher, error) {
	if cfg.Interval < time.Second {
		cfg.Interval = 30 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	cl := cronLogger{logger: logger}
	r := &Refresher{
		screens: screens,
		after:   after,
		logger:  logger,
		cfg:     cfg,
		cron: cron.New(
			cron.WithLogger(cl),
			cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)),
		),
	}

	schedule := fmt.Sprintf("@every %s", cfg.Interval)
	if _, err := r.cron.AddFunc(schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), cfg.Interval)
		defer cancel()
		r.Tick(ctx)
	}); err != nil {
		return nil, fmt.Errorf("schedule refresh: %w", err)
	}
	return r, nil
}

func (r *Refresher) Start() {
	r.cron.Start()
	r.logger.Debug("refresher started", zap.Duration("interval", r.cfg.Interval), zap.Int("screens", len(r.screens)))
}

// Stop waits for a running tick to finish or for ctx to end.
func (r *Refresher) Stop(ctx context.Context) error {
	stopCtx := r.cron.Stop()
	select {
	case <-stopCtx.Done():
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Tick reloads every screen once. Failures are already reported by the
// screens, so they are only logged here.
func (r *Refresher) Tick(ctx context.Context) {
	for _, s := range r.screens {
		if err := s.Reload(ctx); err != nil {
			r.logger.Debug("scheduled reload failed", zap.String("screen", s.Name()), zap.Error(err))
		}
	}
	if r.after != nil {
		r.after(ctx)
	}
}

// cronLogger routes scheduler messages to zap.
type cronLogger struct {
	logger *zap.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.logger.Sugar().Debugw(msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.logger.Sugar().Errorw(msg, append(keysAndValues, "error", err)...)
}

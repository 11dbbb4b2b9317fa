package worker

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/courtedge/features-api/internal/logic"
)

var scheduledRefreshFailures = promauto.NewCounter(prometheus.CounterOpts{
	Name: "courtedge_scheduled_refresh_failures_total",
	Help: "Total number of scheduled snapshot refreshes that failed",
})

const refreshTimeout = 5 * time.Minute

// Refresher rebuilds the live snapshot on a cron schedule so the serving
// path keeps up with matches ingested after the last batch replay.
type Refresher struct {
	svc      logic.LiveFeatureService
	schedule string
	cron     *cron.Cron
	logger   *zap.SugaredLogger

	mu        sync.Mutex
	isRunning bool
}

// NewRefresher creates a refresher; schedule uses standard cron syntax.
func NewRefresher(svc logic.LiveFeatureService, schedule string, logger *zap.Logger) *Refresher {
	return &Refresher{
		svc:      svc,
		schedule: schedule,
		cron:     cron.New(),
		logger:   logger.Sugar(),
	}
}

// Start begins the scheduled refreshes.
func (r *Refresher) Start() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.isRunning {
		return fmt.Errorf("refresher is already running")
	}

	if _, err := r.cron.AddFunc(r.schedule, r.refresh); err != nil {
		return fmt.Errorf("failed to schedule snapshot refresh: %w", err)
	}

	r.cron.Start()
	r.isRunning = true

	r.logger.Infow("Snapshot refresher started", "schedule", r.schedule)
	return nil
}

// Stop halts the schedule and waits for an in-flight refresh to finish.
func (r *Refresher) Stop() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.isRunning {
		return
	}

	ctx := r.cron.Stop()
	<-ctx.Done()

	r.isRunning = false
	r.logger.Info("Snapshot refresher stopped")
}

func (r *Refresher) refresh() {
	ctx, cancel := context.WithTimeout(context.Background(), refreshTimeout)
	defer cancel()

	info, err := r.svc.Refresh(ctx)
	if err != nil {
		scheduledRefreshFailures.Inc()
		r.logger.Errorw("Scheduled snapshot refresh failed", "error", err)
		return
	}

	r.logger.Infow("Scheduled snapshot refresh complete",
		"runId", info.RunID,
		"rowsEmitted", info.RowsEmitted,
		"maxMatchDate", info.MaxMatchDate,
	)
}

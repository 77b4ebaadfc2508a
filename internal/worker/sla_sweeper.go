package worker

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/facility-service/internal/observability"
	"github.com/spec-kit/facility-service/internal/service"
)

// SlaSweeper periodically scans active SLA targets for passed deadlines.
type SlaSweeper struct {
	sla      *service.SlaService
	interval time.Duration
	logger   *zap.Logger
	metrics  *observability.Metrics
}

// NewSlaSweeper constructs the sweeper.
func NewSlaSweeper(sla *service.SlaService, interval time.Duration, logger *zap.Logger, metrics *observability.Metrics) *SlaSweeper {
	if interval <= 0 {
		interval = time.Minute
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SlaSweeper{sla: sla, interval: interval, logger: logger, metrics: metrics}
}

// Run loops until the context is cancelled. One pass runs immediately so a
// restart does not leave overdue targets waiting a full interval.
func (w *SlaSweeper) Run(ctx context.Context) {
	w.sweep(ctx)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("sla sweeper stopped")
			return
		case <-ticker.C:
			w.sweep(ctx)
		}
	}
}

func (w *SlaSweeper) sweep(ctx context.Context) {
	breached, err := w.sla.Sweep(ctx)
	if err != nil {
		w.logger.Error("sla sweep failed", zap.Error(err))
		return
	}
	w.metrics.RecordSweep(breached)
	if breached > 0 {
		w.logger.Info("sla sweep completed", zap.Int("breaches", breached))
	}
}

// Package worker drives the background site refresh: an initial fetch at
// startup, then periodic re-fetches that keep the published snapshot
// current.
package worker

import (
	"context"
	"time"

	"go.uber.org/zap"

	"cartotaco/metrics"
	"cartotaco/store"
)

// RefreshWorker re-runs the site pipeline on a fixed interval.
type RefreshWorker struct {
	Sites    *store.SiteStore
	Interval time.Duration
	Metrics  *metrics.Metrics
	Log      *zap.Logger
}

// Run performs one refresh immediately, then ticks until ctx is canceled.
func (w *RefreshWorker) Run(ctx context.Context) {
	log := w.Log
	if log == nil {
		log = zap.NewNop()
	}
	log.Info("starting site refresh worker", zap.Duration("interval", w.Interval))

	w.refresh(ctx)

	ticker := time.NewTicker(w.Interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			log.Info("stopping site refresh worker")
			return
		case <-ticker.C:
			w.refresh(ctx)
		}
	}
}

func (w *RefreshWorker) refresh(ctx context.Context) {
	start := time.Now()
	err := w.Sites.Refresh(ctx)

	if w.Metrics != nil {
		w.Metrics.RefreshDuration.Observe(time.Since(start).Seconds())
		if err != nil {
			w.Metrics.RefreshFailures.Inc()
		} else {
			w.Metrics.SitesLoaded.Set(float64(len(w.Sites.Sites())))
		}
	}
}

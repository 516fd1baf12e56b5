// Package pipeline orchestrates one sync cycle: scrape both wikis,
// reconcile the batch against the catalog, announce new events, and
// record observability counters.
package pipeline

import (
	"context"
	"time"

	"github.com/hoyotools/hoyo-event-sync/internal/event"
	"github.com/hoyotools/hoyo-event-sync/internal/logger"
	"github.com/hoyotools/hoyo-event-sync/internal/metrics"
	"github.com/hoyotools/hoyo-event-sync/internal/notifier"
	"github.com/hoyotools/hoyo-event-sync/internal/reconciler"
	"github.com/hoyotools/hoyo-event-sync/internal/scraper"
)

// Extractor produces one batch of scraped events per invocation.
type Extractor interface {
	Scrape(ctx context.Context) ([]event.Event, *scraper.Report, error)
}

// Pipeline runs scrape-and-reconcile cycles.
type Pipeline struct {
	extractor  Extractor
	reconciler *reconciler.Reconciler
	notifier   notifier.Notifier // optional
	metrics    *metrics.Metrics  // optional
}

// New creates a Pipeline. notifier and metrics may be nil.
func New(ex Extractor, rec *reconciler.Reconciler, n notifier.Notifier, m *metrics.Metrics) *Pipeline {
	return &Pipeline{
		extractor:  ex,
		reconciler: rec,
		notifier:   n,
		metrics:    m,
	}
}

// RunCycle executes one cycle. A scrape fault degrades to "no events this
// cycle" and is logged; RunCycle never returns an error to the scheduler.
func (p *Pipeline) RunCycle(ctx context.Context) {
	start := time.Now()

	events, scrapeRep, err := p.extractor.Scrape(ctx)
	if err != nil {
		logger.Error("scrape failed, skipping cycle", nil, err)
		if p.metrics != nil {
			p.metrics.ObserveCycle(scrapeRep, nil, time.Since(start), err)
		}
		return
	}

	syncRep := p.reconciler.Sync(ctx, events)

	if p.notifier != nil && len(syncRep.NewEvents) > 0 {
		if notifyErr := p.notifier.Notify(syncRep.NewEvents); notifyErr != nil {
			logger.Warn("notification failed", logger.Fields{
				"count": len(syncRep.NewEvents),
				"error": notifyErr.Error(),
			})
		}
	}

	elapsed := time.Since(start)
	if p.metrics != nil {
		p.metrics.ObserveCycle(scrapeRep, syncRep, elapsed, nil)
	}

	logger.Info("cycle finished", logger.Fields{
		"scraped":   scrapeRep.RowsSeen,
		"filtered":  scrapeRep.Filtered(),
		"emitted":   scrapeRep.Emitted,
		"inserted":  syncRep.Inserted,
		"updated":   syncRep.Updated,
		"unchanged": syncRep.Unchanged,
		"failed":    syncRep.Failed,
		"duration":  elapsed.String(),
	})
}

// Package reconciler converges the persisted catalog to a freshly scraped
// event batch through per-event upserts.
package reconciler

import (
	"context"

	"github.com/hoyotools/hoyo-event-sync/internal/catalog"
	"github.com/hoyotools/hoyo-event-sync/internal/event"
	"github.com/hoyotools/hoyo-event-sync/internal/logger"
)

// Report aggregates the outcome of one reconciliation batch.
type Report struct {
	Inserted  int
	Updated   int
	Unchanged int
	Failed    int

	// NewEvents holds the events that were inserted this batch, in
	// input order, for downstream announcement.
	NewEvents []event.Event
}

// Changed reports whether the batch modified the catalog at all.
func (r *Report) Changed() bool {
	return r.Inserted > 0 || r.Updated > 0
}

// Reconciler applies scraped batches to a catalog store.
type Reconciler struct {
	store catalog.Store
}

// New creates a Reconciler backed by the given store.
func New(store catalog.Store) *Reconciler {
	return &Reconciler{store: store}
}

// Sync issues one upsert per event. A single write fault is logged with
// the offending event's name, counted as Failed, and does not abort the
// rest of the batch. Re-running Sync with identical data yields zero
// inserts and zero updates.
func (r *Reconciler) Sync(ctx context.Context, events []event.Event) *Report {
	report := &Report{}

	for _, evt := range events {
		result, err := r.store.Upsert(ctx, evt)
		if err != nil {
			report.Failed++
			logger.Error("failed to store event", logger.Fields{
				"event": evt.Name,
				"game":  string(evt.Game),
			}, err)
			continue
		}

		switch result {
		case catalog.ResultInserted:
			report.Inserted++
			report.NewEvents = append(report.NewEvents, evt)
		case catalog.ResultUpdated:
			report.Updated++
		default:
			report.Unchanged++
		}
	}

	return report
}

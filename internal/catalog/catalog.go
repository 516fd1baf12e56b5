package catalog

import (
	"context"

	"github.com/hoyotools/hoyo-event-sync/internal/event"
)

// Result classifies the outcome of a single upsert. Re-asserting data
// identical to what is stored is Unchanged, distinguishable from Updated
// for observability.
type Result int

const (
	ResultUnchanged Result = iota
	ResultInserted
	ResultUpdated
)

// String returns the lowercase label used in logs.
func (r Result) String() string {
	switch r {
	case ResultInserted:
		return "inserted"
	case ResultUpdated:
		return "updated"
	default:
		return "unchanged"
	}
}

// Store is the persisted event catalog. Upsert inserts a record keyed by
// (name, game) if absent, otherwise overwrites only the mutable fields
// (imageUrl, and the time bounds when the incoming event carries them).
type Store interface {
	Upsert(ctx context.Context, evt event.Event) (Result, error)
	FindByGame(ctx context.Context, game event.Game) ([]event.Event, error)
	CountEvents(ctx context.Context) (int64, error)
}

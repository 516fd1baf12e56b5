package catalog

import (
	"context"
	"testing"

	"github.com/hoyotools/hoyo-event-sync/internal/event"
)

func TestMemoryUpsertTransitions(t *testing.T) {
	ctx := context.Background()
	store := NewMemory()

	evt := event.Event{
		Name:     "Lantern Rite",
		Game:     event.GameGenshin,
		ImageURL: "https://wsrv.nl/?url=a",
	}

	result, err := store.Upsert(ctx, evt)
	if err != nil {
		t.Fatalf("Upsert failed: %v", err)
	}
	if result != ResultInserted {
		t.Errorf("first upsert = %v, expected inserted", result)
	}

	// Identical data is a no-op.
	result, err = store.Upsert(ctx, evt)
	if err != nil {
		t.Fatalf("Upsert failed: %v", err)
	}
	if result != ResultUnchanged {
		t.Errorf("identical upsert = %v, expected unchanged", result)
	}

	// A changed mutable field counts as an update.
	evt.ImageURL = "https://wsrv.nl/?url=b"
	result, err = store.Upsert(ctx, evt)
	if err != nil {
		t.Fatalf("Upsert failed: %v", err)
	}
	if result != ResultUpdated {
		t.Errorf("changed upsert = %v, expected updated", result)
	}

	// Newly arriving schedule data counts as an update.
	evt.StartTime = 1717200000000
	evt.EndTime = 1718841600000
	result, err = store.Upsert(ctx, evt)
	if err != nil {
		t.Fatalf("Upsert failed: %v", err)
	}
	if result != ResultUpdated {
		t.Errorf("schedule upsert = %v, expected updated", result)
	}

	stored, ok := store.Get("Lantern Rite", event.GameGenshin)
	if !ok {
		t.Fatal("expected stored event")
	}
	if stored.StartTime != evt.StartTime || stored.EndTime != evt.EndTime {
		t.Errorf("stored schedule = (%d, %d), expected (%d, %d)",
			stored.StartTime, stored.EndTime, evt.StartTime, evt.EndTime)
	}
}

func TestMemoryScheduleNotClearedByScheduleLessEvent(t *testing.T) {
	ctx := context.Background()
	store := NewMemory()

	scheduled := event.Event{
		Name:      "Planar Infinity",
		Game:      event.GameStarRail,
		ImageURL:  "https://wsrv.nl/?url=a",
		StartTime: 1717200000000,
		EndTime:   1718841600000,
	}
	if _, err := store.Upsert(ctx, scheduled); err != nil {
		t.Fatalf("Upsert failed: %v", err)
	}

	// A later scrape of the same event from the current table carries no
	// schedule; the stored bounds must survive.
	bare := event.Event{
		Name:     "Planar Infinity",
		Game:     event.GameStarRail,
		ImageURL: "https://wsrv.nl/?url=a",
	}
	result, err := store.Upsert(ctx, bare)
	if err != nil {
		t.Fatalf("Upsert failed: %v", err)
	}
	if result != ResultUnchanged {
		t.Errorf("schedule-less upsert = %v, expected unchanged", result)
	}

	stored, _ := store.Get("Planar Infinity", event.GameStarRail)
	if stored.StartTime != scheduled.StartTime {
		t.Errorf("stored start = %d, expected %d", stored.StartTime, scheduled.StartTime)
	}
}

func TestMemoryIdentity(t *testing.T) {
	ctx := context.Background()
	store := NewMemory()

	// Same name under different games is two records.
	if _, err := store.Upsert(ctx, event.Event{Name: "Anniversary", Game: event.GameGenshin, ImageURL: "u"}); err != nil {
		t.Fatalf("Upsert failed: %v", err)
	}
	if _, err := store.Upsert(ctx, event.Event{Name: "Anniversary", Game: event.GameStarRail, ImageURL: "u"}); err != nil {
		t.Fatalf("Upsert failed: %v", err)
	}

	count, err := store.CountEvents(ctx)
	if err != nil {
		t.Fatalf("CountEvents failed: %v", err)
	}
	if count != 2 {
		t.Errorf("count = %d, expected 2", count)
	}

	genshin, err := store.FindByGame(ctx, event.GameGenshin)
	if err != nil {
		t.Fatalf("FindByGame failed: %v", err)
	}
	if len(genshin) != 1 {
		t.Errorf("genshin events = %d, expected 1", len(genshin))
	}
}

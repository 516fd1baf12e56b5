package catalog

import (
	"context"
	"sync"

	"github.com/hoyotools/hoyo-event-sync/internal/event"
)

// Memory is an in-process Store with the same upsert semantics as the
// MongoDB store. It backs tests and dry runs.
type Memory struct {
	mu     sync.RWMutex
	events map[string]event.Event
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{events: make(map[string]event.Event)}
}

// Upsert inserts or updates the record keyed by the event's identity.
func (m *Memory) Upsert(_ context.Context, evt event.Event) (Result, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	key := evt.Key()
	stored, exists := m.events[key]
	if !exists {
		m.events[key] = evt
		return ResultInserted, nil
	}

	merged := stored
	merged.ImageURL = evt.ImageURL
	if evt.HasSchedule() {
		merged.StartTime = evt.StartTime
		merged.EndTime = evt.EndTime
	}
	if merged == stored {
		return ResultUnchanged, nil
	}

	m.events[key] = merged
	return ResultUpdated, nil
}

// FindByGame returns all stored events for one game.
func (m *Memory) FindByGame(_ context.Context, game event.Game) ([]event.Event, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	events := make([]event.Event, 0)
	for _, evt := range m.events {
		if evt.Game == game {
			events = append(events, evt)
		}
	}
	return events, nil
}

// CountEvents returns the number of stored events.
func (m *Memory) CountEvents(_ context.Context) (int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return int64(len(m.events)), nil
}

// Get returns the stored event for an identity pair, if present.
func (m *Memory) Get(name string, game event.Game) (event.Event, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	evt, ok := m.events[(&event.Event{Name: name, Game: game}).Key()]
	return evt, ok
}

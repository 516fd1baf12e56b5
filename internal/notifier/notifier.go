package notifier

import (
	"github.com/hoyotools/hoyo-event-sync/internal/event"
)

// Notifier defines the interface for announcing newly catalogued events
type Notifier interface {
	// Notify posts an announcement for the given events
	Notify(events []event.Event) error
}

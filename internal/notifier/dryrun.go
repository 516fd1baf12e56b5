package notifier

import (
	"fmt"

	"github.com/hoyotools/hoyo-event-sync/internal/event"
)

// DryRunNotifier prints what would be announced without actually posting
type DryRunNotifier struct{}

// NewDryRunNotifier creates a new dry-run notifier
func NewDryRunNotifier() *DryRunNotifier {
	return &DryRunNotifier{}
}

// Notify prints the announcements that would be posted
func (n *DryRunNotifier) Notify(events []event.Event) error {
	for i, evt := range events {
		fmt.Printf("--- New event %d/%d ---\n", i+1, len(events))
		fmt.Printf("%s: %s\n", evt.Name, describeEvent(evt))
		fmt.Printf("image: %s\n\n", evt.ImageURL)
	}
	return nil
}

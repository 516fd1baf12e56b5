package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/hoyotools/hoyo-event-sync/internal/event"
	"github.com/hoyotools/hoyo-event-sync/internal/scraper"
)

// OutputFormat selects how events are rendered
type OutputFormat string

const (
	FormatText OutputFormat = "text"
	FormatJSON OutputFormat = "json"
)

// parseFormat validates a --format flag value.
func parseFormat(s string) (OutputFormat, error) {
	format := OutputFormat(strings.ToLower(s))
	if format != FormatText && format != FormatJSON {
		return "", fmt.Errorf("invalid format: %s (must be 'text' or 'json')", s)
	}
	return format, nil
}

// printEvents renders events to w. The report is optional and only shown
// in text mode.
func printEvents(w io.Writer, events []event.Event, report *scraper.Report, format OutputFormat) error {
	if format == FormatJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(events)
	}

	for _, evt := range events {
		fmt.Fprintf(w, "[%s] %s\n", evt.Game, evt.Name)
		fmt.Fprintf(w, "    image: %s\n", evt.ImageURL)
		if evt.HasSchedule() {
			fmt.Fprintf(w, "    window: %s to %s\n", formatBound(evt.StartTime), formatBound(evt.EndTime))
		}
	}
	fmt.Fprintf(w, "%d events\n", len(events))

	if report != nil {
		fmt.Fprintf(w, "rows seen: %d, filtered: %d\n", report.RowsSeen, report.Filtered())
	}
	return nil
}

// formatBound renders a Unix-millisecond bound; 0 is the "unknown" sentinel.
func formatBound(ms int64) string {
	if ms == 0 {
		return "unknown"
	}
	return time.UnixMilli(ms).UTC().Format("2006-01-02")
}

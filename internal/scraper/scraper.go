package scraper

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/cenkalti/backoff/v4"

	"github.com/hoyotools/hoyo-event-sync/internal/event"
	"github.com/hoyotools/hoyo-event-sync/internal/logger"
)

const (
	GenshinEventsURL  = "https://genshin-impact.fandom.com/wiki/Event"
	StarRailEventsURL = "https://honkai-star-rail.fandom.com/wiki/Events"

	UserAgent      = "hoyo-event-sync/1.0 (github.com/hoyotools/hoyo-event-sync)"
	DefaultTimeout = 15 * time.Second

	maxFetchAttempts = 3
)

// Selectors for the two event tables on a fandom wiki page. The current
// table is the first sortable wikitable in the content area; the upcoming
// table is the first sortable wikitable after the "Upcoming" heading anchor.
const (
	currentTableSelector = "#mw-content-text > div > table.wikitable.sortable"
	upcomingAnchorID     = "#Upcoming"
	eventTableSelector   = "table.wikitable.sortable"
)

// Source describes one wiki page polled for one game.
type Source struct {
	Game event.Game
	URL  string

	// WithSchedule enables time-window extraction from the upcoming
	// table. Only the Star Rail wiki publishes a machine-sortable
	// duration column.
	WithSchedule bool
}

// DefaultSources returns the two wiki pages in their fixed scrape order.
func DefaultSources() []Source {
	return []Source{
		{Game: event.GameGenshin, URL: GenshinEventsURL},
		{Game: event.GameStarRail, URL: StarRailEventsURL, WithSchedule: true},
	}
}

// Report aggregates extraction counts for one Scrape call.
type Report struct {
	RowsSeen     int
	IgnoredType  int
	EmptyName    int
	MissingImage int
	Emitted      int
	PerSource    map[event.Game]int
}

func newReport() *Report {
	return &Report{PerSource: make(map[event.Game]int)}
}

// Filtered returns the total number of rows dropped across all reasons.
func (r *Report) Filtered() int {
	return r.IgnoredType + r.EmptyName + r.MissingImage
}

// Scraper fetches and parses the configured wiki event pages.
type Scraper struct {
	client  *http.Client
	sources []Source
}

// New creates a Scraper for the default sources with the given per-request
// timeout.
func New(timeout time.Duration) *Scraper {
	return NewWithSources(timeout, DefaultSources())
}

// NewWithSources creates a Scraper for a custom source list.
func NewWithSources(timeout time.Duration, sources []Source) *Scraper {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Scraper{
		client:  &http.Client{Timeout: timeout},
		sources: sources,
	}
}

// Scrape fetches every source in its fixed order and returns the combined
// event list. A fetch or parse fault for any source aborts the whole call:
// callers receive an empty slice plus the error and should treat the cycle
// as "no events" rather than crash the scheduler.
func (s *Scraper) Scrape(ctx context.Context) ([]event.Event, *Report, error) {
	report := newReport()
	events := make([]event.Event, 0)

	for _, src := range s.sources {
		srcEvents, err := s.scrapeSource(ctx, src, report)
		if err != nil {
			return nil, report, fmt.Errorf("scraping %s: %w", src.Game, err)
		}
		events = append(events, srcEvents...)
	}

	report.Emitted = len(events)
	return events, report, nil
}

// scrapeSource fetches one wiki page and extracts both of its event tables.
func (s *Scraper) scrapeSource(ctx context.Context, src Source, report *Report) ([]event.Event, error) {
	body, err := s.fetch(ctx, src.URL)
	if err != nil {
		return nil, err
	}
	defer body.Close()

	return s.parseSource(body, src, report)
}

// fetch retrieves a source page, retrying transient failures with
// exponential backoff. A non-200 response is a failure.
func (s *Scraper) fetch(ctx context.Context, pageURL string) (io.ReadCloser, error) {
	var body io.ReadCloser

	attempt := func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
		if err != nil {
			return backoff.Permanent(fmt.Errorf("creating request: %w", err))
		}
		req.Header.Set("User-Agent", UserAgent)

		resp, err := s.client.Do(req)
		if err != nil {
			return fmt.Errorf("fetching page: %w", err)
		}
		if resp.StatusCode != http.StatusOK {
			resp.Body.Close()
			return fmt.Errorf("unexpected status code: %d", resp.StatusCode)
		}

		body = resp.Body
		return nil
	}

	policy := backoff.WithContext(backoff.WithMaxRetries(backoff.NewExponentialBackOff(), maxFetchAttempts-1), ctx)
	if err := backoff.Retry(attempt, policy); err != nil {
		return nil, fmt.Errorf("fetching %s: %w", pageURL, err)
	}
	return body, nil
}

// parseSource extracts events from one page's HTML. Either table may be
// absent; absence of one never blocks the other.
func (s *Scraper) parseSource(r io.Reader, src Source, report *Report) ([]event.Event, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("parsing HTML: %w", err)
	}

	events := make([]event.Event, 0)

	current := doc.Find(currentTableSelector).First()
	events = append(events, s.parseTable(current, src, false, report)...)

	upcoming := doc.Find(upcomingAnchorID).Parent().NextAllFiltered(eventTableSelector).First()
	events = append(events, s.parseTable(upcoming, src, true, report)...)

	return events, nil
}

// parseTable extracts one event per data row, applying cleaning and
// filtering rules. Rows are processed in document order.
func (s *Scraper) parseTable(table *goquery.Selection, src Source, upcoming bool, report *Report) []event.Event {
	events := make([]event.Event, 0)
	if table.Length() == 0 {
		return events
	}

	table.Find("tbody tr").Each(func(_ int, row *goquery.Selection) {
		cells := row.Find("td")
		if cells.Length() == 0 {
			// Header row
			return
		}
		report.RowsSeen++

		firstCell := row.Find("td:first-child")
		name := cleanEventName(firstCell.Find("a:last-child").Text())
		eventType := strings.TrimSpace(row.Find("td:nth-child(3)").Text())

		// The lazy-load attribute holds the real asset URL; src may
		// still be the placeholder.
		img := firstCell.Find("img").First()
		imageURL := cleanImageURL(img.AttrOr("data-src", img.AttrOr("src", "")))

		if shouldIgnore(name, eventType) {
			report.IgnoredType++
			return
		}
		if name == "" {
			report.EmptyName++
			return
		}
		if imageURL == "" {
			report.MissingImage++
			return
		}

		evt := event.Event{
			Name:     name,
			Game:     src.Game,
			ImageURL: proxyImageURL(imageURL),
		}

		if upcoming && src.WithSchedule {
			s.extractSchedule(row, &evt)
		}

		events = append(events, evt)
		report.PerSource[src.Game]++
	})

	return events
}

// extractSchedule reads the duration column's sort attribute and fills in
// the event's time window. Any failure is logged and the event is still
// emitted without timestamps.
func (s *Scraper) extractSchedule(row *goquery.Selection, evt *event.Event) {
	attr, ok := row.Find("td:nth-child(2)").Attr("data-sort-value")
	if !ok {
		return
	}

	start, end, ok := parseEventTimes(attr)
	if !ok {
		logger.Warn("unparsable duration attribute", logger.Fields{
			"event": evt.Name,
			"value": attr,
		})
		return
	}
	if start == 0 || end == 0 {
		logger.Warn("partial event schedule", logger.Fields{
			"event": evt.Name,
			"value": attr,
		})
	}

	evt.StartTime = start
	evt.EndTime = end
}

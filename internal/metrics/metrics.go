// Package metrics exposes cycle-level counters over a Prometheus endpoint
// so failure visibility does not depend solely on log text.
package metrics

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/hoyotools/hoyo-event-sync/internal/reconciler"
	"github.com/hoyotools/hoyo-event-sync/internal/scraper"
)

// Metrics holds the Prometheus collectors for sync-cycle observability.
type Metrics struct {
	registry *prometheus.Registry

	rowsScraped prometheus.Counter
	filtered    *prometheus.CounterVec
	emitted     prometheus.Counter
	inserted    prometheus.Counter
	updated     prometheus.Counter
	unchanged   prometheus.Counter
	failed      prometheus.Counter
	cycles      *prometheus.CounterVec
	lastCycleTS prometheus.Gauge
	cycleDur    prometheus.Summary
}

// New creates and registers all collectors on a private registry.
func New() *Metrics {
	m := &Metrics{registry: prometheus.NewRegistry()}

	m.rowsScraped = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "hoyo_events",
		Name:      "rows_scraped_total",
		Help:      "Table rows examined across all sources",
	})
	m.filtered = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "hoyo_events",
		Name:      "rows_filtered_total",
		Help:      "Table rows dropped before reconciliation",
	}, []string{"reason"})
	m.emitted = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "hoyo_events",
		Name:      "events_emitted_total",
		Help:      "Events handed to the reconciler",
	})
	m.inserted = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "hoyo_events",
		Name:      "events_inserted_total",
		Help:      "New catalog records created",
	})
	m.updated = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "hoyo_events",
		Name:      "events_updated_total",
		Help:      "Catalog records whose mutable fields changed",
	})
	m.unchanged = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "hoyo_events",
		Name:      "events_unchanged_total",
		Help:      "Events whose stored data already matched",
	})
	m.failed = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "hoyo_events",
		Name:      "events_failed_total",
		Help:      "Events whose upsert returned an error",
	})
	m.cycles = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "hoyo_events",
		Name:      "cycles_total",
		Help:      "Sync cycles by outcome",
	}, []string{"result"})
	m.lastCycleTS = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "hoyo_events",
		Name:      "last_cycle_timestamp_seconds",
		Help:      "Unix time of the last completed cycle",
	})
	m.cycleDur = prometheus.NewSummary(prometheus.SummaryOpts{
		Namespace: "hoyo_events",
		Name:      "cycle_duration_seconds",
		Help:      "Time spent per sync cycle",
	})

	m.registry.MustRegister(
		m.rowsScraped, m.filtered, m.emitted,
		m.inserted, m.updated, m.unchanged, m.failed,
		m.cycles, m.lastCycleTS, m.cycleDur,
	)
	return m
}

// ObserveCycle records the counts of one finished cycle. scrapeErr marks
// a cycle whose extraction failed entirely.
func (m *Metrics) ObserveCycle(scrapeRep *scraper.Report, syncRep *reconciler.Report, elapsed time.Duration, scrapeErr error) {
	if scrapeRep != nil {
		m.rowsScraped.Add(float64(scrapeRep.RowsSeen))
		m.filtered.WithLabelValues("ignored_type").Add(float64(scrapeRep.IgnoredType))
		m.filtered.WithLabelValues("empty_name").Add(float64(scrapeRep.EmptyName))
		m.filtered.WithLabelValues("missing_image").Add(float64(scrapeRep.MissingImage))
		m.emitted.Add(float64(scrapeRep.Emitted))
	}
	if syncRep != nil {
		m.inserted.Add(float64(syncRep.Inserted))
		m.updated.Add(float64(syncRep.Updated))
		m.unchanged.Add(float64(syncRep.Unchanged))
		m.failed.Add(float64(syncRep.Failed))
	}

	if scrapeErr != nil {
		m.cycles.WithLabelValues("scrape_error").Inc()
	} else {
		m.cycles.WithLabelValues("ok").Inc()
	}
	m.lastCycleTS.SetToCurrentTime()
	m.cycleDur.Observe(elapsed.Seconds())
}

// Serve exposes /metrics on addr until ctx is cancelled.
func (m *Metrics) Serve(ctx context.Context, addr string) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{}))

	srv := &http.Server{
		Addr:         addr,
		Handler:      mux,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

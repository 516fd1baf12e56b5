package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/hoyotools/hoyo-event-sync/internal/catalog"
	"github.com/hoyotools/hoyo-event-sync/internal/config"
	"github.com/hoyotools/hoyo-event-sync/internal/event"
	"github.com/hoyotools/hoyo-event-sync/internal/logger"
	"github.com/hoyotools/hoyo-event-sync/internal/metrics"
	"github.com/hoyotools/hoyo-event-sync/internal/notifier"
	"github.com/hoyotools/hoyo-event-sync/internal/pipeline"
	"github.com/hoyotools/hoyo-event-sync/internal/reconciler"
	"github.com/hoyotools/hoyo-event-sync/internal/scraper"
)

var (
	flagConfig  string
	flagVerbose bool
	flagDryRun  bool
	flagFormat  string
	flagGame    string
)

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "hoyo-event-sync",
		Short: "Sync Genshin and Star Rail wiki events into a MongoDB catalog",
		Long: `Periodically scrapes the Genshin Impact and Honkai: Star Rail fandom
event pages and keeps a MongoDB catalog synchronized via idempotent upserts.`,
	}

	cmd.PersistentFlags().StringVar(&flagConfig, "config", "config.yaml", "Path to YAML config file")
	cmd.PersistentFlags().BoolVar(&flagVerbose, "verbose", false, "Enable debug logging")

	cmd.AddCommand(newRunCmd(), newScrapeCmd(), newListCmd())
	return cmd
}

func newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the scrape-and-sync scheduler",
		RunE:  runRun,
	}
	cmd.Flags().BoolVar(&flagDryRun, "dry-run", false, "Use an in-memory catalog and print notifications instead of posting")
	return cmd
}

func newScrapeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scrape",
		Short: "Scrape both wikis once and print the events without storing them",
		RunE:  runScrape,
	}
	cmd.Flags().StringVar(&flagFormat, "format", "text", "Output format: text or json")
	return cmd
}

func newListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List catalogued events",
		RunE:  runList,
	}
	cmd.Flags().StringVar(&flagGame, "game", "", "Filter by game: genshin or starrail")
	cmd.Flags().StringVar(&flagFormat, "format", "text", "Output format: text or json")
	return cmd
}

// setupLogging raises the default logger to debug level when requested.
func setupLogging() {
	if flagVerbose {
		logger.SetDefault(logger.New(logger.LevelDebug, os.Stdout))
	}
}

// runRun is the scheduler entry point: one immediate cycle, then a fixed
// interval ticker until a termination signal stops the scheduling. An
// in-flight cycle finishes on its own; per-operation timeouts bound it.
func runRun(cmd *cobra.Command, args []string) error {
	setupLogging()

	cfg, err := config.Load(flagConfig)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var store catalog.Store
	var notify notifier.Notifier

	if flagDryRun {
		store = catalog.NewMemory()
		notify = notifier.NewDryRunNotifier()
	} else {
		mongoStore, err := catalog.Connect(ctx, cfg.MongoDB.URL, cfg.MongoDB.Database, cfg.MongoDB.Timeout())
		if err != nil {
			return fmt.Errorf("connecting to catalog: %w", err)
		}
		defer func() {
			closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			mongoStore.Close(closeCtx)
		}()
		store = mongoStore

		if cfg.Notifier.DiscordWebhookURL != "" {
			notify = notifier.NewDiscord(cfg.Notifier.DiscordWebhookURL)
		}
	}

	m := metrics.New()
	if cfg.Metrics.ListenAddress != "" {
		go func() {
			logger.Info("serving metrics", logger.Fields{"addr": cfg.Metrics.ListenAddress})
			if err := m.Serve(ctx, cfg.Metrics.ListenAddress); err != nil {
				logger.Error("metrics server failed", logger.Fields{"addr": cfg.Metrics.ListenAddress}, err)
			}
		}()
	}

	p := pipeline.New(
		scraper.New(cfg.Scraper.Timeout()),
		reconciler.New(store),
		notify,
		m,
	)

	logger.Info("scheduler started", logger.Fields{
		"interval_minutes": cfg.Scraper.IntervalMinutes,
		"dry_run":          flagDryRun,
	})

	// Cycles run on a background context: a shutdown signal stops the
	// ticker but lets the current cycle finish.
	cycleCtx := context.Background()
	p.RunCycle(cycleCtx)

	ticker := time.NewTicker(cfg.Scraper.Interval())
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info("shutting down", nil)
			return nil
		case <-ticker.C:
			p.RunCycle(cycleCtx)
		}
	}
}

// runScrape performs a single extraction and prints the result; storage is
// never touched, so it needs no config file.
func runScrape(cmd *cobra.Command, args []string) error {
	setupLogging()

	format, err := parseFormat(flagFormat)
	if err != nil {
		return err
	}

	sc := scraper.New(scraper.DefaultTimeout)
	events, report, err := sc.Scrape(cmd.Context())
	if err != nil {
		return fmt.Errorf("scraping: %w", err)
	}

	return printEvents(os.Stdout, events, report, format)
}

// runList prints the catalogued events for one or both games.
func runList(cmd *cobra.Command, args []string) error {
	setupLogging()

	format, err := parseFormat(flagFormat)
	if err != nil {
		return err
	}

	games := []event.Game{event.GameGenshin, event.GameStarRail}
	if flagGame != "" {
		game := event.Game(strings.ToLower(flagGame))
		if !game.Valid() {
			return fmt.Errorf("invalid game: %s (must be 'genshin' or 'starrail')", flagGame)
		}
		games = []event.Game{game}
	}

	cfg, err := config.Load(flagConfig)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	ctx := cmd.Context()
	store, err := catalog.Connect(ctx, cfg.MongoDB.URL, cfg.MongoDB.Database, cfg.MongoDB.Timeout())
	if err != nil {
		return fmt.Errorf("connecting to catalog: %w", err)
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		store.Close(closeCtx)
	}()

	var events []event.Event
	for _, game := range games {
		gameEvents, err := store.FindByGame(ctx, game)
		if err != nil {
			return fmt.Errorf("listing %s events: %w", game, err)
		}
		events = append(events, gameEvents...)
	}

	total, err := store.CountEvents(ctx)
	if err != nil {
		return fmt.Errorf("counting events: %w", err)
	}

	if err := printEvents(os.Stdout, events, nil, format); err != nil {
		return err
	}
	if format == FormatText {
		fmt.Printf("catalog total: %d\n", total)
	}
	return nil
}

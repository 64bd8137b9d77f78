package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/sepurlabs/sepurbot/internal/booking"
	"github.com/sepurlabs/sepurbot/internal/browser"
	"github.com/sepurlabs/sepurbot/internal/config"
	"github.com/sepurlabs/sepurbot/internal/history"
	"github.com/sepurlabs/sepurbot/internal/logging"
	"github.com/sepurlabs/sepurbot/internal/release"
	"github.com/sepurlabs/sepurbot/internal/telemetry"
	"github.com/sepurlabs/sepurbot/internal/version"
)

var (
	logger zerolog.Logger
	cfg    *config.Config
)

var (
	profilePath  string
	headlessFlag bool
	dryRun       bool
)

var rootCmd = &cobra.Command{
	Use:     "sepurbot",
	Short:   "Sepurbot - scheduled train ticket booking automation",
	Long:    "Sepurbot fills the booking site's search form ahead of time, fires the search at the configured inventory release instant, and walks the passenger, seat and payment pages.",
	Version: version.Version,
}

var bookCmd = &cobra.Command{
	Use:   "book",
	Short: "Run a booking attempt",
	Long:  "Load a booking profile, wait for the release instant, and run the full booking flow against the site.",
	RunE:  runBook,
}

func init() {
	bookCmd.Flags().StringVarP(&profilePath, "profile", "p", "booking.yaml", "path to the booking profile")
	bookCmd.Flags().BoolVar(&headlessFlag, "headless", false, "run chromium headless")
	bookCmd.Flags().BoolVar(&dryRun, "dry-run", false, "resolve the schedule and exit without launching a browser")
	rootCmd.AddCommand(bookCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// loadConfig loads configuration (called by commands that need it)
func loadConfig() error {
	var err error
	cfg, err = config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger = logging.Setup(cfg.Environment)
	return nil
}

func runBook(cmd *cobra.Command, args []string) error {
	if err := loadConfig(); err != nil {
		return err
	}
	if cmd.Flags().Changed("headless") {
		cfg.Headless = headlessFlag
	}

	profile, err := config.LoadProfile(profilePath)
	if err != nil {
		return err
	}

	sched, err := release.New(profile.Schedule, cfg.PollInterval, release.SystemClock{}, logger)
	if err != nil {
		return err
	}

	if dryRun {
		logger.Info().
			Time("release_at", sched.Instant()).
			Str("remaining", time.Until(sched.Instant()).Round(time.Second).String()).
			Msg("dry run: schedule resolved")
		return nil
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	tracker := telemetry.NewTracker()
	if cfg.StatusEnabled {
		statusSrv := telemetry.NewServer(cfg.StatusBind, tracker, logger)
		statusSrv.Start()
		defer func() {
			timeoutCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := statusSrv.Shutdown(timeoutCtx); err != nil {
				logger.Warn().Err(err).Msg("status server shutdown failed")
			}
		}()
	}

	sched.SetObserver(func(remaining time.Duration) {
		telemetry.ReleasePollsTotal.Inc()
		telemetry.ReleaseCountdownSeconds.Set(remaining.Seconds())
		tracker.SetRemaining(remaining)
	})

	db, err := history.Connect(cfg)
	if err != nil {
		return fmt.Errorf("connect history store: %w", err)
	}
	defer func() {
		if err := history.Close(db); err != nil {
			logger.Warn().Err(err).Msg("history store close failed")
		}
	}()

	store, err := history.NewStore(db, logger)
	if err != nil {
		return err
	}

	session, err := browser.Launch(browser.Options{
		Headless: cfg.Headless,
		Bin:      cfg.BrowserBin,
		Timeout:  cfg.PageTimeout,
	}, logger)
	if err != nil {
		return fmt.Errorf("launch browser: %w", err)
	}
	defer func() {
		if err := session.Close(); err != nil {
			logger.Warn().Err(err).Msg("browser close failed")
		}
	}()

	auto := booking.New(profile, session, sched, store, tracker, cfg.SiteURL, logger)
	tracker.SetRun(auto.RunID(), sched.Instant())

	return auto.Run(ctx)
}

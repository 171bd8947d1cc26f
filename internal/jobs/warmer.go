package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/sourcegraph/conc"

	"github.com/riskibarqy/fpl-league-analyzer/internal/platform/logging"
	"github.com/riskibarqy/fpl-league-analyzer/internal/platform/metrics"
	"github.com/riskibarqy/fpl-league-analyzer/internal/usecase"
)

// Refresher is the part of the analytics service the warmer drives.
type Refresher interface {
	RefreshCurrentGameweek(ctx context.Context) (int, error)
	RefreshLeagueEntries(ctx context.Context, q usecase.LeagueQuery) (int, error)
}

type WarmerConfig struct {
	Interval time.Duration
	League   usecase.LeagueQuery
	// RunTimeout bounds one warm-up run. Defaults to the interval.
	RunTimeout time.Duration
}

// Warmer keeps the live and league cache tiers populated so the first
// request after expiry does not pay the upstream round trips.
type Warmer struct {
	s         gocron.Scheduler
	refresher Refresher
	cfg       WarmerConfig
	logger    *logging.Logger
}

func NewWarmer(refresher Refresher, cfg WarmerConfig, logger *logging.Logger) (*Warmer, error) {
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.Interval <= 0 {
		return nil, fmt.Errorf("warmer interval must be > 0")
	}
	if cfg.RunTimeout <= 0 {
		cfg.RunTimeout = cfg.Interval
	}

	s, err := gocron.NewScheduler(gocron.WithLocation(time.UTC))
	if err != nil {
		return nil, fmt.Errorf("failed to create scheduler: %w", err)
	}

	return &Warmer{
		s:         s,
		refresher: refresher,
		cfg:       cfg,
		logger:    logger.Named("warmer"),
	}, nil
}

// Start schedules the warm-up and runs it once immediately.
func (w *Warmer) Start() error {
	_, err := w.s.NewJob(
		gocron.DurationJob(w.cfg.Interval),
		gocron.NewTask(w.run),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
		gocron.WithStartAt(gocron.WithStartImmediately()),
	)
	if err != nil {
		return fmt.Errorf("failed to create warm-up job: %w", err)
	}

	w.s.Start()
	w.logger.Info("warmer started", "interval", w.cfg.Interval.String(), "league_id", w.cfg.League.LeagueID)
	return nil
}

func (w *Warmer) Stop() error {
	return w.s.Shutdown()
}

func (w *Warmer) run() {
	ctx, cancel := context.WithTimeout(context.Background(), w.cfg.RunTimeout)
	defer cancel()

	if err := w.RunOnce(ctx); err != nil {
		w.logger.WarnContext(ctx, "warm-up run failed", "error", err)
	}
}

// RunOnce refreshes the current gameweek and the league entry list
// concurrently. A panic in either task is recovered and reported as an error.
func (w *Warmer) RunOnce(ctx context.Context) error {
	started := time.Now()
	var gwErr, leagueErr error
	var gw, entries int

	var wg conc.WaitGroup
	wg.Go(func() {
		gw, gwErr = w.refresher.RefreshCurrentGameweek(ctx)
	})
	wg.Go(func() {
		entries, leagueErr = w.refresher.RefreshLeagueEntries(ctx, w.cfg.League)
	})
	if recovered := wg.WaitAndRecover(); recovered != nil {
		metrics.WarmupRuns.WithLabelValues("panic").Inc()
		return fmt.Errorf("warm-up task panicked: %v", recovered.Value)
	}

	switch {
	case gwErr != nil:
		metrics.WarmupRuns.WithLabelValues("error").Inc()
		return fmt.Errorf("refresh current gameweek: %w", gwErr)
	case leagueErr != nil:
		metrics.WarmupRuns.WithLabelValues("error").Inc()
		return fmt.Errorf("refresh league %d entries: %w", w.cfg.League.LeagueID, leagueErr)
	}

	metrics.WarmupRuns.WithLabelValues("ok").Inc()
	w.logger.InfoContext(ctx, "warm-up completed",
		"gameweek", gw,
		"entries", entries,
		"duration_ms", time.Since(started).Milliseconds(),
	)
	return nil
}

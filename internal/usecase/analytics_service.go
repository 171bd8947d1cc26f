package usecase

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/riskibarqy/fpl-league-analyzer/internal/domain/awards"
	"github.com/riskibarqy/fpl-league-analyzer/internal/domain/gameweek"
	"github.com/riskibarqy/fpl-league-analyzer/internal/domain/historyarchive"
	"github.com/riskibarqy/fpl-league-analyzer/internal/domain/month"
	"github.com/riskibarqy/fpl-league-analyzer/internal/domain/ranking"
	"github.com/riskibarqy/fpl-league-analyzer/internal/platform/cache"
	"github.com/riskibarqy/fpl-league-analyzer/internal/platform/logging"
)

const (
	defaultMaxWorkers   = 6
	defaultFetchTimeout = 15 * time.Second
)

type AnalyticsConfig struct {
	MaxWorkers     int
	FetchTimeout   time.Duration
	DefaultMapping month.Definition
	Prizes         awards.Prizes
}

func (c AnalyticsConfig) normalize() AnalyticsConfig {
	if c.MaxWorkers <= 0 {
		c.MaxWorkers = defaultMaxWorkers
	}
	if c.FetchTimeout <= 0 {
		c.FetchTimeout = defaultFetchTimeout
	}
	if c.DefaultMapping.IsZero() {
		c.DefaultMapping = month.MustParseMapping(month.DefaultMapping)
	}
	if c.Prizes.Weekly.IsZero() && c.Prizes.Monthly.IsZero() {
		c.Prizes = awards.DefaultPrizes()
	}
	return c
}

// AnalyticsService computes gameweek, month and awards tables for a set of
// entries on top of the upstream ports.
type AnalyticsService struct {
	history   HistoryFetcher
	directory LeagueDirectory
	status    GameweekStatus
	cache     *cache.Store
	archive   historyarchive.Repository
	cfg       AnalyticsConfig
	logger    *logging.Logger
	now       func() time.Time
}

type AnalyticsDeps struct {
	History   HistoryFetcher
	Directory LeagueDirectory
	Status    GameweekStatus
	Cache     *cache.Store
	// Archive is optional.
	Archive historyarchive.Repository
	Logger  *logging.Logger
}

func NewAnalyticsService(deps AnalyticsDeps, cfg AnalyticsConfig) *AnalyticsService {
	logger := deps.Logger
	if logger == nil {
		logger = logging.Default()
	}
	store := deps.Cache
	if store == nil {
		store = cache.NewStore(cache.Config{Enabled: false})
	}
	return &AnalyticsService{
		history:   deps.History,
		directory: deps.Directory,
		status:    deps.Status,
		cache:     store,
		archive:   deps.Archive,
		cfg:       cfg.normalize(),
		logger:    logger.Named("analytics"),
		now:       time.Now,
	}
}

func (s *AnalyticsService) DefaultMapping() month.Definition {
	return s.cfg.DefaultMapping
}

// GameweekTable holds one record per (entry, gameweek) that exists upstream
// inside the requested range. Missing pairs are absent, never zero.
type GameweekTable struct {
	Range       gameweek.Range
	Entries     []int64
	Records     map[gameweek.Key]gameweek.Record
	Unavailable []UnavailableEntry
}

func (t GameweekTable) Partial() bool {
	return len(t.Unavailable) > 0
}

// Rows returns the records ordered by entry id then gameweek.
func (t GameweekTable) Rows() []gameweek.Record {
	out := make([]gameweek.Record, 0, len(t.Records))
	for _, rec := range t.Records {
		out = append(out, rec)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].EntryID != out[j].EntryID {
			return out[i].EntryID < out[j].EntryID
		}
		return out[i].Gameweek < out[j].Gameweek
	})
	return out
}

func (t GameweekTable) byEntry() map[int64][]gameweek.Record {
	out := make(map[int64][]gameweek.Record, len(t.Entries))
	for _, rec := range t.Rows() {
		out[rec.EntryID] = append(out[rec.EntryID], rec)
	}
	return out
}

type MonthTable struct {
	Range       gameweek.Range
	Mapping     month.Definition
	Entries     []int64
	Aggregates  map[month.Key]month.Aggregate
	Unavailable []UnavailableEntry
}

func (t MonthTable) Partial() bool {
	return len(t.Unavailable) > 0
}

// Rows returns the aggregates ordered by entry id then month.
func (t MonthTable) Rows() []month.Aggregate {
	out := make([]month.Aggregate, 0, len(t.Aggregates))
	for _, agg := range t.Aggregates {
		out = append(out, agg)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].EntryID != out[j].EntryID {
			return out[i].EntryID < out[j].EntryID
		}
		return out[i].Month < out[j].Month
	})
	return out
}

type AwardsTable struct {
	Tallies     map[int64]awards.Tally
	Leaderboard []awards.Tally
	Weeks       []awards.Period
	Months      []awards.Period
	Unavailable []UnavailableEntry
}

func (t AwardsTable) Partial() bool {
	return len(t.Unavailable) > 0
}

// ComputeGameweekTable fetches every entry's history and keeps the
// gameweeks inside [gwStart, gwEnd].
func (s *AnalyticsService) ComputeGameweekTable(ctx context.Context, entries []int64, gwStart, gwEnd int) (GameweekTable, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.AnalyticsService.ComputeGameweekTable")
	defer span.End()

	r, err := gameweek.NewRange(gwStart, gwEnd)
	if err != nil {
		return GameweekTable{}, err
	}
	ids, err := normalizeEntryIDs(entries)
	if err != nil {
		return GameweekTable{}, err
	}
	return s.gameweekTable(ctx, ids, r)
}

func (s *AnalyticsService) gameweekTable(ctx context.Context, ids []int64, r gameweek.Range) (GameweekTable, error) {
	key := cache.Fingerprint{Kind: "gw_table", Entries: ids, GWStart: r.Start, GWEnd: r.End}.Key()
	return cache.Load(ctx, s.cache, cache.TierLive, key, func(ctx context.Context) (GameweekTable, bool, error) {
		histories, unavailable, err := s.fetchHistories(ctx, ids)
		if err != nil {
			return GameweekTable{}, false, err
		}

		table := GameweekTable{
			Range:       r,
			Entries:     make([]int64, 0, len(histories)),
			Records:     make(map[gameweek.Key]gameweek.Record),
			Unavailable: unavailable,
		}
		for _, id := range ids {
			h, ok := histories[id]
			if !ok {
				continue
			}
			table.Entries = append(table.Entries, id)
			for _, rec := range gameweek.Aggregate(id, h.Events, r) {
				table.Records[rec.Key()] = rec
			}
		}
		return table, !table.Partial(), nil
	})
}

// ComputeMonthTable rolls the gameweek table up by month. An empty mapping
// uses the configured default.
func (s *AnalyticsService) ComputeMonthTable(ctx context.Context, entries []int64, gwStart, gwEnd int, mapping string) (MonthTable, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.AnalyticsService.ComputeMonthTable")
	defer span.End()

	r, def, err := s.validateRangeAndMapping(gwStart, gwEnd, mapping)
	if err != nil {
		return MonthTable{}, err
	}
	ids, err := normalizeEntryIDs(entries)
	if err != nil {
		return MonthTable{}, err
	}

	gwTable, err := s.gameweekTable(ctx, ids, r)
	if err != nil {
		return MonthTable{}, err
	}
	return buildMonthTable(gwTable, def), nil
}

func buildMonthTable(gwTable GameweekTable, def month.Definition) MonthTable {
	table := MonthTable{
		Range:       gwTable.Range,
		Mapping:     def,
		Entries:     gwTable.Entries,
		Aggregates:  make(map[month.Key]month.Aggregate),
		Unavailable: gwTable.Unavailable,
	}
	for id, records := range gwTable.byEntry() {
		for _, agg := range month.Summarize(id, records, def) {
			table.Aggregates[agg.Key()] = agg
		}
	}
	return table
}

// ComputeAwards counts weekly and monthly first places over the range.
func (s *AnalyticsService) ComputeAwards(ctx context.Context, entries []int64, gwStart, gwEnd int, mapping string) (AwardsTable, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.AnalyticsService.ComputeAwards")
	defer span.End()

	r, def, err := s.validateRangeAndMapping(gwStart, gwEnd, mapping)
	if err != nil {
		return AwardsTable{}, err
	}
	ids, err := normalizeEntryIDs(entries)
	if err != nil {
		return AwardsTable{}, err
	}

	gwTable, err := s.gameweekTable(ctx, ids, r)
	if err != nil {
		return AwardsTable{}, err
	}
	return s.buildAwards(gwTable, def, gameweek.MaxGameweek), nil
}

// buildAwards ranks each gameweek up to cutoff and each month whose last
// gameweek is at or before cutoff.
func (s *AnalyticsService) buildAwards(gwTable GameweekTable, def month.Definition, cutoff int) AwardsTable {
	monthTable := buildMonthTable(gwTable, def)
	weeks := weeklyPeriods(gwTable, cutoff)
	months := monthlyPeriods(monthTable, cutoff)

	tallies := awards.Summarize(gwTable.Entries, weeks, months, s.cfg.Prizes)
	return AwardsTable{
		Tallies:     tallies,
		Leaderboard: awards.Leaderboard(tallies),
		Weeks:       weeks,
		Months:      months,
		Unavailable: gwTable.Unavailable,
	}
}

// weeklyPeriods ranks played records per gameweek. Zero-point rows are
// unplayed and never win.
func weeklyPeriods(gwTable GameweekTable, cutoff int) []awards.Period {
	byGW := make(map[int][]ranking.Item)
	for _, rec := range gwTable.Records {
		if !rec.Played() || rec.Gameweek > cutoff {
			continue
		}
		byGW[rec.Gameweek] = append(byGW[rec.Gameweek], ranking.Item{EntryID: rec.EntryID, NetPoints: rec.NetPoints})
	}

	out := make([]awards.Period, 0, len(byGW))
	for gw := gwTable.Range.Start; gw <= gwTable.Range.End; gw++ {
		items, ok := byGW[gw]
		if !ok {
			continue
		}
		out = append(out, awards.Period{Number: gw, Ranking: ranking.Rank(items)})
	}
	return out
}

func monthlyPeriods(monthTable MonthTable, cutoff int) []awards.Period {
	byMonth := make(map[int][]ranking.Item)
	for _, agg := range monthTable.Aggregates {
		byMonth[agg.Month] = append(byMonth[agg.Month], ranking.Item{EntryID: agg.EntryID, NetPoints: agg.TotalNetPoints})
	}

	out := make([]awards.Period, 0, len(byMonth))
	for _, m := range monthTable.Mapping.Months() {
		if m.End > cutoff {
			continue
		}
		items, ok := byMonth[m.Number]
		if !ok {
			continue
		}
		out = append(out, awards.Period{Number: m.Number, Ranking: ranking.Rank(items)})
	}
	return out
}

func (s *AnalyticsService) validateRangeAndMapping(gwStart, gwEnd int, mapping string) (gameweek.Range, month.Definition, error) {
	r, err := gameweek.NewRange(gwStart, gwEnd)
	if err != nil {
		return gameweek.Range{}, month.Definition{}, err
	}
	def, err := s.resolveMapping(mapping)
	if err != nil {
		return gameweek.Range{}, month.Definition{}, err
	}
	return r, def, nil
}

func (s *AnalyticsService) resolveMapping(mapping string) (month.Definition, error) {
	if strings.TrimSpace(mapping) == "" {
		return s.cfg.DefaultMapping, nil
	}
	return month.ParseMapping(mapping)
}

// normalizeEntryIDs rejects non-positive ids and drops duplicates, keeping
// the caller's order.
func normalizeEntryIDs(entries []int64) ([]int64, error) {
	out := make([]int64, 0, len(entries))
	seen := make(map[int64]struct{}, len(entries))
	for _, id := range entries {
		if id <= 0 {
			return nil, fmt.Errorf("%w: entry id must be greater than zero, got %d", ErrInvalidInput, id)
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out, nil
}

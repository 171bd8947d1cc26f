package usecase

import (
	"context"
	"fmt"
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/riskibarqy/fpl-league-analyzer/internal/domain/awards"
	"github.com/riskibarqy/fpl-league-analyzer/internal/domain/gameweek"
	"github.com/riskibarqy/fpl-league-analyzer/internal/domain/league"
	"github.com/riskibarqy/fpl-league-analyzer/internal/domain/month"
	"github.com/riskibarqy/fpl-league-analyzer/internal/domain/ranking"
	"github.com/riskibarqy/fpl-league-analyzer/internal/platform/cache"
)

const currencySymbol = "₫"

// LeagueQuery selects a classic league and its phase.
type LeagueQuery struct {
	LeagueID int64
	Phase    int
}

func (q LeagueQuery) normalize() (LeagueQuery, error) {
	if q.LeagueID <= 0 {
		return q, fmt.Errorf("%w: league id must be greater than zero", ErrInvalidInput)
	}
	if q.Phase <= 0 {
		q.Phase = 1
	}
	return q, nil
}

type RankingRow struct {
	Medal       string `json:"medal"`
	Rank        int    `json:"rank"`
	EntryID     int64  `json:"entry_id"`
	ManagerName string `json:"manager_name"`
	TeamName    string `json:"team_name"`
	Points      int    `json:"points"`
	Transfers   string `json:"transfers"`
	NetPoints   int    `json:"net_points"`
}

type RankingReport struct {
	Gameweek    int                `json:"gameweek,omitempty"`
	Month       int                `json:"month,omitempty"`
	Rows        []RankingRow       `json:"rows"`
	Unavailable []UnavailableEntry `json:"unavailable"`
}

type SummaryRow struct {
	Gameweek      int    `json:"gameweek"`
	WeeklyWinner  string `json:"weekly_winner"`
	Month         int    `json:"month"`
	MonthlyWinner string `json:"monthly_winner"`
}

type SummaryReport struct {
	Rows        []SummaryRow       `json:"rows"`
	Unavailable []UnavailableEntry `json:"unavailable"`
}

type LeaderboardRow struct {
	Position     int             `json:"position"`
	Medal        string          `json:"medal"`
	EntryID      int64           `json:"entry_id"`
	ManagerName  string          `json:"manager_name"`
	TeamName     string          `json:"team_name"`
	WeeklyWins   int             `json:"weekly_wins"`
	MonthlyWins  int             `json:"monthly_wins"`
	TotalAwards  int             `json:"total_awards"`
	PrizeMoney   decimal.Decimal `json:"prize_money"`
	PrizeDisplay string          `json:"prize_display"`
}

type LeaderboardReport struct {
	CurrentGameweek int                `json:"current_gameweek"`
	Rows            []LeaderboardRow   `json:"rows"`
	Unavailable     []UnavailableEntry `json:"unavailable"`
}

// LeagueEntries lists the league's entries, optionally narrowed by a fuzzy
// match on manager or team name.
func (s *AnalyticsService) LeagueEntries(ctx context.Context, q LeagueQuery, search string) ([]league.Entry, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.AnalyticsService.LeagueEntries")
	defer span.End()

	q, err := q.normalize()
	if err != nil {
		return nil, err
	}
	entries, err := s.leagueEntries(ctx, q)
	if err != nil {
		return nil, err
	}
	return league.Filter(entries, search), nil
}

func (s *AnalyticsService) leagueEntries(ctx context.Context, q LeagueQuery) ([]league.Entry, error) {
	key := cache.Fingerprint{Kind: "league_entries", LeagueID: q.LeagueID, Phase: q.Phase}.Key()
	return cache.Load(ctx, s.cache, cache.TierLeague, key, func(ctx context.Context) ([]league.Entry, bool, error) {
		entries, err := s.directory.FetchLeagueEntries(ctx, q.LeagueID, q.Phase)
		if err != nil {
			return nil, false, err
		}
		return entries, true, nil
	})
}

// RefreshLeagueEntries drops the cached entry list and loads it again.
func (s *AnalyticsService) RefreshLeagueEntries(ctx context.Context, q LeagueQuery) (int, error) {
	q, err := q.normalize()
	if err != nil {
		return 0, err
	}
	key := cache.Fingerprint{Kind: "league_entries", LeagueID: q.LeagueID, Phase: q.Phase}.Key()
	s.cache.Delete(ctx, cache.TierLeague, key)
	entries, err := s.leagueEntries(ctx, q)
	if err != nil {
		return 0, err
	}
	return len(entries), nil
}

// CurrentGameweek resolves the latest in-progress or finished gameweek.
func (s *AnalyticsService) CurrentGameweek(ctx context.Context) (int, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.AnalyticsService.CurrentGameweek")
	defer span.End()

	return cache.Load(ctx, s.cache, cache.TierLive, "current_gw", func(ctx context.Context) (int, bool, error) {
		events, err := cache.Load(ctx, s.cache, cache.TierStatic, "bootstrap_events", func(ctx context.Context) ([]gameweek.Event, bool, error) {
			events, err := s.status.FetchEvents(ctx)
			if err != nil {
				return nil, false, err
			}
			return events, len(events) > 0, nil
		})
		if err != nil {
			return 0, false, err
		}
		return gameweek.ResolveCurrent(ctx, events, s.status.FixturesStarted), true, nil
	})
}

// RefreshCurrentGameweek forces the live tier value to be recomputed.
func (s *AnalyticsService) RefreshCurrentGameweek(ctx context.Context) (int, error) {
	s.cache.Delete(ctx, cache.TierLive, "current_gw")
	return s.CurrentGameweek(ctx)
}

// GameweekPoints is ComputeGameweekTable over a league's entries.
func (s *AnalyticsService) GameweekPoints(ctx context.Context, q LeagueQuery, gwStart, gwEnd int) (GameweekTable, []league.Entry, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.AnalyticsService.GameweekPoints")
	defer span.End()

	r, err := gameweek.NewRange(gwStart, gwEnd)
	if err != nil {
		return GameweekTable{}, nil, err
	}
	entries, err := s.leagueFor(ctx, q)
	if err != nil {
		return GameweekTable{}, nil, err
	}
	table, err := s.gameweekTable(ctx, league.IDs(entries), r)
	if err != nil {
		return GameweekTable{}, nil, err
	}
	return table, entries, nil
}

// MonthPoints is ComputeMonthTable over a league's entries.
func (s *AnalyticsService) MonthPoints(ctx context.Context, q LeagueQuery, gwStart, gwEnd int, mapping string) (MonthTable, []league.Entry, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.AnalyticsService.MonthPoints")
	defer span.End()

	r, def, err := s.validateRangeAndMapping(gwStart, gwEnd, mapping)
	if err != nil {
		return MonthTable{}, nil, err
	}
	entries, err := s.leagueFor(ctx, q)
	if err != nil {
		return MonthTable{}, nil, err
	}
	gwTable, err := s.gameweekTable(ctx, league.IDs(entries), r)
	if err != nil {
		return MonthTable{}, nil, err
	}
	return buildMonthTable(gwTable, def), entries, nil
}

// Awards is ComputeAwards over a league's entries.
func (s *AnalyticsService) Awards(ctx context.Context, q LeagueQuery, gwStart, gwEnd int, mapping string) (AwardsTable, []league.Entry, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.AnalyticsService.Awards")
	defer span.End()

	r, def, err := s.validateRangeAndMapping(gwStart, gwEnd, mapping)
	if err != nil {
		return AwardsTable{}, nil, err
	}
	entries, err := s.leagueFor(ctx, q)
	if err != nil {
		return AwardsTable{}, nil, err
	}
	gwTable, err := s.gameweekTable(ctx, league.IDs(entries), r)
	if err != nil {
		return AwardsTable{}, nil, err
	}
	return s.buildAwards(gwTable, def, gameweek.MaxGameweek), entries, nil
}

// WeeklyRanking ranks the entries that played the gameweek by net points.
func (s *AnalyticsService) WeeklyRanking(ctx context.Context, q LeagueQuery, gw int) (RankingReport, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.AnalyticsService.WeeklyRanking")
	defer span.End()

	r, err := gameweek.NewRange(gw, gw)
	if err != nil {
		return RankingReport{}, err
	}
	entries, err := s.leagueFor(ctx, q)
	if err != nil {
		return RankingReport{}, err
	}
	table, err := s.gameweekTable(ctx, league.IDs(entries), r)
	if err != nil {
		return RankingReport{}, err
	}

	byID := make(map[int64]gameweek.Record, len(table.Records))
	items := make([]ranking.Item, 0, len(table.Records))
	for _, rec := range table.Records {
		if !rec.Played() {
			continue
		}
		byID[rec.EntryID] = rec
		items = append(items, ranking.Item{EntryID: rec.EntryID, NetPoints: rec.NetPoints})
	}

	directory := entriesByID(entries)
	rows := make([]RankingRow, 0, len(items))
	for _, ranked := range ranking.Rank(items) {
		rec := byID[ranked.EntryID]
		e := directory[ranked.EntryID]
		rows = append(rows, RankingRow{
			Medal:       ranking.Medal(ranked.Rank),
			Rank:        ranked.Rank,
			EntryID:     ranked.EntryID,
			ManagerName: e.ManagerName,
			TeamName:    e.TeamName,
			Points:      rec.Points,
			Transfers:   TransferDisplay(rec.TransferCount, rec.TransferCost),
			NetPoints:   ranked.NetPoints,
		})
	}
	return RankingReport{Gameweek: gw, Rows: rows, Unavailable: nonNilUnavailable(table.Unavailable)}, nil
}

// MonthlyRanking ranks entries on one month's net total. gwStart and gwEnd
// narrow the month when the season is still in progress.
func (s *AnalyticsService) MonthlyRanking(ctx context.Context, q LeagueQuery, monthNumber int, mapping string, gwStart, gwEnd int) (RankingReport, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.AnalyticsService.MonthlyRanking")
	defer span.End()

	bounds, def, err := s.validateRangeAndMapping(gwStart, gwEnd, mapping)
	if err != nil {
		return RankingReport{}, err
	}
	m, ok := def.Month(monthNumber)
	if !ok {
		return RankingReport{}, fmt.Errorf("%w: month %d is not in mapping %s", ErrInvalidInput, monthNumber, def)
	}
	if _, err := q.normalize(); err != nil {
		return RankingReport{}, err
	}
	report := RankingReport{Month: monthNumber, Rows: []RankingRow{}, Unavailable: []UnavailableEntry{}}

	start, end := max(m.Start, bounds.Start), min(m.End, bounds.End)
	if start > end {
		return report, nil
	}

	entries, err := s.leagueFor(ctx, q)
	if err != nil {
		return RankingReport{}, err
	}
	gwTable, err := s.gameweekTable(ctx, league.IDs(entries), gameweek.Range{Start: start, End: end})
	if err != nil {
		return RankingReport{}, err
	}
	monthTable := buildMonthTable(gwTable, def)
	report.Unavailable = nonNilUnavailable(monthTable.Unavailable)

	byID := make(map[int64]month.Aggregate)
	items := make([]ranking.Item, 0, len(monthTable.Aggregates))
	for _, agg := range monthTable.Aggregates {
		if agg.Month != monthNumber {
			continue
		}
		byID[agg.EntryID] = agg
		items = append(items, ranking.Item{EntryID: agg.EntryID, NetPoints: agg.TotalNetPoints})
	}

	directory := entriesByID(entries)
	for _, ranked := range ranking.Rank(items) {
		agg := byID[ranked.EntryID]
		e := directory[ranked.EntryID]
		report.Rows = append(report.Rows, RankingRow{
			Medal:       ranking.Medal(ranked.Rank),
			Rank:        ranked.Rank,
			EntryID:     ranked.EntryID,
			ManagerName: e.ManagerName,
			TeamName:    e.TeamName,
			Points:      agg.TotalPoints,
			Transfers:   TransferDisplay(agg.TransferCount, agg.TotalTransferCost),
			NetPoints:   ranked.NetPoints,
		})
	}
	return report, nil
}

// AwardsSummary lists, per gameweek with data, the weekly winners and the
// winners of the month the gameweek belongs to.
func (s *AnalyticsService) AwardsSummary(ctx context.Context, q LeagueQuery, gwStart, gwEnd int, mapping string) (SummaryReport, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.AnalyticsService.AwardsSummary")
	defer span.End()

	r, def, err := s.validateRangeAndMapping(gwStart, gwEnd, mapping)
	if err != nil {
		return SummaryReport{}, err
	}
	entries, err := s.leagueFor(ctx, q)
	if err != nil {
		return SummaryReport{}, err
	}
	gwTable, err := s.gameweekTable(ctx, league.IDs(entries), r)
	if err != nil {
		return SummaryReport{}, err
	}
	table := s.buildAwards(gwTable, def, gameweek.MaxGameweek)
	return buildSummary(gwTable, table, def, league.NamesByID(entries)), nil
}

func buildSummary(gwTable GameweekTable, table AwardsTable, def month.Definition, names map[int64]string) SummaryReport {
	weekWinners := make(map[int][]int64, len(table.Weeks))
	for _, p := range table.Weeks {
		weekWinners[p.Number] = ranking.Winners(p.Ranking)
	}
	monthWinners := make(map[int][]int64, len(table.Months))
	for _, p := range table.Months {
		monthWinners[p.Number] = ranking.Winners(p.Ranking)
	}

	withData := make(map[int]struct{})
	for k := range gwTable.Records {
		withData[k.Gameweek] = struct{}{}
	}

	rows := make([]SummaryRow, 0, len(withData))
	for gw := gwTable.Range.Start; gw <= gwTable.Range.End; gw++ {
		if _, ok := withData[gw]; !ok {
			continue
		}
		row := SummaryRow{
			Gameweek:      gw,
			WeeklyWinner:  awards.JoinWinnerNames(weekWinners[gw], names),
			MonthlyWinner: "",
		}
		if m, ok := def.MonthOf(gw); ok {
			row.Month = m.Number
			if winners, ok := monthWinners[m.Number]; ok {
				row.MonthlyWinner = awards.JoinWinnerNames(winners, names)
			}
		}
		rows = append(rows, row)
	}
	return SummaryReport{Rows: rows, Unavailable: nonNilUnavailable(table.Unavailable)}
}

// AwardsLeaderboard counts awards up to currentGW. A zero currentGW is
// resolved upstream. Months only count once their last gameweek is reached.
func (s *AnalyticsService) AwardsLeaderboard(ctx context.Context, q LeagueQuery, gwStart, gwEnd int, mapping string, currentGW int) (LeaderboardReport, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.AnalyticsService.AwardsLeaderboard")
	defer span.End()

	r, def, err := s.validateRangeAndMapping(gwStart, gwEnd, mapping)
	if err != nil {
		return LeaderboardReport{}, err
	}
	if currentGW < 0 || currentGW > gameweek.MaxGameweek {
		return LeaderboardReport{}, fmt.Errorf("%w: current_gw must be within 0..%d", ErrInvalidInput, gameweek.MaxGameweek)
	}

	entries, err := s.leagueFor(ctx, q)
	if err != nil {
		return LeaderboardReport{}, err
	}
	if currentGW == 0 {
		if currentGW, err = s.CurrentGameweek(ctx); err != nil {
			return LeaderboardReport{}, err
		}
	}

	gwTable, err := s.gameweekTable(ctx, league.IDs(entries), r)
	if err != nil {
		return LeaderboardReport{}, err
	}
	table := s.buildAwards(gwTable, def, currentGW)

	directory := entriesByID(entries)
	rows := make([]LeaderboardRow, 0, len(table.Leaderboard))
	for i, t := range table.Leaderboard {
		e := directory[t.EntryID]
		rows = append(rows, LeaderboardRow{
			Position:     i + 1,
			Medal:        leaderboardMedal(i + 1),
			EntryID:      t.EntryID,
			ManagerName:  e.ManagerName,
			TeamName:     e.TeamName,
			WeeklyWins:   t.WeeklyWins,
			MonthlyWins:  t.MonthlyWins,
			TotalAwards:  t.TotalAwards,
			PrizeMoney:   t.PrizeMoney.Round(2),
			PrizeDisplay: currencySymbol + awards.FormatPrize(t.PrizeMoney),
		})
	}
	return LeaderboardReport{CurrentGameweek: currentGW, Rows: rows, Unavailable: nonNilUnavailable(table.Unavailable)}, nil
}

func (s *AnalyticsService) CacheStats() cache.Stats {
	return s.cache.Stats()
}

func (s *AnalyticsService) ClearCache(ctx context.Context) int {
	removed := s.cache.Clear()
	s.logger.InfoContext(ctx, "cache cleared", "removed", removed)
	return removed
}

func (s *AnalyticsService) leagueFor(ctx context.Context, q LeagueQuery) ([]league.Entry, error) {
	q, err := q.normalize()
	if err != nil {
		return nil, err
	}
	return s.leagueEntries(ctx, q)
}

// TransferDisplay renders transfers as "-" when none were made, "n" when
// they were free and "n(-cost)" otherwise.
func TransferDisplay(count, cost int) string {
	switch {
	case count == 0:
		return "-"
	case cost == 0:
		return strconv.Itoa(count)
	default:
		return strconv.Itoa(count) + "(-" + strconv.Itoa(cost) + ")"
	}
}

func leaderboardMedal(position int) string {
	switch position {
	case 1:
		return "🏆"
	case 2:
		return "🥈"
	case 3:
		return "🥉"
	default:
		return ""
	}
}

func entriesByID(entries []league.Entry) map[int64]league.Entry {
	out := make(map[int64]league.Entry, len(entries))
	for _, e := range entries {
		out[e.EntryID] = e
	}
	return out
}

package usecase

import (
	"github.com/shopspring/decimal"

	"github.com/riskibarqy/fpl-league-analyzer/internal/domain/awards"
	"github.com/riskibarqy/fpl-league-analyzer/internal/domain/league"
	"github.com/riskibarqy/fpl-league-analyzer/internal/domain/ranking"
)

// The view types below are the serialized form of the computed tables,
// shared by the HTTP and MCP surfaces.

type LeagueEntryView struct {
	EntryID     int64  `json:"entry_id"`
	ManagerName string `json:"manager_name"`
	TeamName    string `json:"team_name"`
	Rank        int    `json:"rank"`
	Total       int    `json:"total"`
}

type GameweekRowView struct {
	EntryID       int64  `json:"entry_id"`
	ManagerName   string `json:"manager_name,omitempty"`
	TeamName      string `json:"team_name,omitempty"`
	Gameweek      int    `json:"gameweek"`
	Points        int    `json:"points"`
	TransferCount int    `json:"transfers"`
	TransferCost  int    `json:"transfer_cost"`
	NetPoints     int    `json:"net_points"`
	TotalPoints   int    `json:"total_points"`
	BenchPoints   int    `json:"bench_points"`
}

type GameweekTableView struct {
	GWStart     int                `json:"gw_start"`
	GWEnd       int                `json:"gw_end"`
	Partial     bool               `json:"partial"`
	Rows        []GameweekRowView  `json:"rows"`
	Unavailable []UnavailableEntry `json:"unavailable"`
}

type MonthRowView struct {
	EntryID           int64  `json:"entry_id"`
	ManagerName       string `json:"manager_name,omitempty"`
	TeamName          string `json:"team_name,omitempty"`
	Month             int    `json:"month"`
	TotalPoints       int    `json:"total_points"`
	TotalTransferCost int    `json:"total_transfer_cost"`
	TotalNetPoints    int    `json:"total_net_points"`
	TransferCount     int    `json:"transfers"`
	Gameweeks         int    `json:"gameweeks"`
}

type MonthTableView struct {
	GWStart     int                `json:"gw_start"`
	GWEnd       int                `json:"gw_end"`
	Mapping     string             `json:"mapping"`
	Partial     bool               `json:"partial"`
	Rows        []MonthRowView     `json:"rows"`
	Unavailable []UnavailableEntry `json:"unavailable"`
}

type TallyView struct {
	EntryID     int64           `json:"entry_id"`
	ManagerName string          `json:"manager_name,omitempty"`
	WeeklyWins  int             `json:"weekly_wins"`
	MonthlyWins int             `json:"monthly_wins"`
	TotalAwards int             `json:"total_awards"`
	PrizeMoney  decimal.Decimal `json:"prize_money"`
}

type PeriodView struct {
	Number  int     `json:"number"`
	Winners []int64 `json:"winners"`
}

type AwardsTableView struct {
	Partial     bool               `json:"partial"`
	Leaderboard []TallyView        `json:"leaderboard"`
	Weeks       []PeriodView       `json:"weeks"`
	Months      []PeriodView       `json:"months"`
	Unavailable []UnavailableEntry `json:"unavailable"`
}

func NewLeagueEntryViews(entries []league.Entry) []LeagueEntryView {
	out := make([]LeagueEntryView, 0, len(entries))
	for _, e := range entries {
		out = append(out, LeagueEntryView{
			EntryID:     e.EntryID,
			ManagerName: e.ManagerName,
			TeamName:    e.TeamName,
			Rank:        e.Rank,
			Total:       e.Total,
		})
	}
	return out
}

// NewGameweekTableView renders the table; entries only supply display names
// and may be nil.
func NewGameweekTableView(t GameweekTable, entries []league.Entry) GameweekTableView {
	names := entriesByID(entries)
	rows := make([]GameweekRowView, 0, len(t.Records))
	for _, rec := range t.Rows() {
		e := names[rec.EntryID]
		rows = append(rows, GameweekRowView{
			EntryID:       rec.EntryID,
			ManagerName:   e.ManagerName,
			TeamName:      e.TeamName,
			Gameweek:      rec.Gameweek,
			Points:        rec.Points,
			TransferCount: rec.TransferCount,
			TransferCost:  rec.TransferCost,
			NetPoints:     rec.NetPoints,
			TotalPoints:   rec.TotalPoints,
			BenchPoints:   rec.BenchPoints,
		})
	}
	return GameweekTableView{
		GWStart:     t.Range.Start,
		GWEnd:       t.Range.End,
		Partial:     t.Partial(),
		Rows:        rows,
		Unavailable: nonNilUnavailable(t.Unavailable),
	}
}

func NewMonthTableView(t MonthTable, entries []league.Entry) MonthTableView {
	names := entriesByID(entries)
	rows := make([]MonthRowView, 0, len(t.Aggregates))
	for _, agg := range t.Rows() {
		e := names[agg.EntryID]
		rows = append(rows, MonthRowView{
			EntryID:           agg.EntryID,
			ManagerName:       e.ManagerName,
			TeamName:          e.TeamName,
			Month:             agg.Month,
			TotalPoints:       agg.TotalPoints,
			TotalTransferCost: agg.TotalTransferCost,
			TotalNetPoints:    agg.TotalNetPoints,
			TransferCount:     agg.TransferCount,
			Gameweeks:         agg.Gameweeks,
		})
	}
	return MonthTableView{
		GWStart:     t.Range.Start,
		GWEnd:       t.Range.End,
		Mapping:     t.Mapping.String(),
		Partial:     t.Partial(),
		Rows:        rows,
		Unavailable: nonNilUnavailable(t.Unavailable),
	}
}

func NewAwardsTableView(t AwardsTable, entries []league.Entry) AwardsTableView {
	names := entriesByID(entries)
	board := make([]TallyView, 0, len(t.Leaderboard))
	for _, tally := range t.Leaderboard {
		board = append(board, TallyView{
			EntryID:     tally.EntryID,
			ManagerName: names[tally.EntryID].ManagerName,
			WeeklyWins:  tally.WeeklyWins,
			MonthlyWins: tally.MonthlyWins,
			TotalAwards: tally.TotalAwards,
			PrizeMoney:  tally.PrizeMoney,
		})
	}
	return AwardsTableView{
		Partial:     t.Partial(),
		Leaderboard: board,
		Weeks:       periodViews(t.Weeks),
		Months:      periodViews(t.Months),
		Unavailable: nonNilUnavailable(t.Unavailable),
	}
}

func periodViews(periods []awards.Period) []PeriodView {
	out := make([]PeriodView, 0, len(periods))
	for _, p := range periods {
		out = append(out, PeriodView{Number: p.Number, Winners: ranking.Winners(p.Ranking)})
	}
	return out
}

func nonNilUnavailable(in []UnavailableEntry) []UnavailableEntry {
	if in == nil {
		return []UnavailableEntry{}
	}
	return in
}

package awards

import (
	"sort"

	"github.com/riskibarqy/fpl-league-analyzer/internal/domain/ranking"
	"github.com/shopspring/decimal"
)

// Period is the ranking of one gameweek or one month.
type Period struct {
	Number  int
	Ranking []ranking.Entry
}

// Tally counts first places for one entry. Every entry ranked first in a
// period gets the win, shared first places included.
type Tally struct {
	EntryID     int64
	WeeklyWins  int
	MonthlyWins int
	TotalAwards int
	PrizeMoney  decimal.Decimal
}

// Summarize builds one tally per entry from weekly and monthly rankings.
// Entries without wins still get a zero tally.
func Summarize(entries []int64, weeks, months []Period, prizes Prizes) map[int64]Tally {
	out := make(map[int64]Tally, len(entries))
	for _, id := range entries {
		out[id] = Tally{EntryID: id, PrizeMoney: decimal.Zero}
	}

	award := func(periods []Period, prize decimal.Decimal, weekly bool) {
		for _, p := range periods {
			winners := ranking.Winners(p.Ranking)
			if len(winners) == 0 {
				continue
			}
			share := SplitPrize(prize, len(winners))
			for _, id := range winners {
				t, ok := out[id]
				if !ok {
					t = Tally{EntryID: id, PrizeMoney: decimal.Zero}
				}
				if weekly {
					t.WeeklyWins++
				} else {
					t.MonthlyWins++
				}
				t.PrizeMoney = t.PrizeMoney.Add(share)
				out[id] = t
			}
		}
	}
	award(weeks, prizes.Weekly, true)
	award(months, prizes.Monthly, false)

	for id, t := range out {
		t.TotalAwards = t.WeeklyWins + t.MonthlyWins
		out[id] = t
	}
	return out
}

// Leaderboard orders tallies by total awards, then weekly wins, both
// descending, then entry id ascending.
func Leaderboard(tallies map[int64]Tally) []Tally {
	out := make([]Tally, 0, len(tallies))
	for _, t := range tallies {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].TotalAwards != out[j].TotalAwards {
			return out[i].TotalAwards > out[j].TotalAwards
		}
		if out[i].WeeklyWins != out[j].WeeklyWins {
			return out[i].WeeklyWins > out[j].WeeklyWins
		}
		return out[i].EntryID < out[j].EntryID
	})
	return out
}

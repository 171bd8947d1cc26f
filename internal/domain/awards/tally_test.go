package awards

import (
	"testing"

	"github.com/riskibarqy/fpl-league-analyzer/internal/domain/ranking"
	"github.com/shopspring/decimal"
)

func period(number int, points map[int64]int) Period {
	items := make([]ranking.Item, 0, len(points))
	for id, p := range points {
		items = append(items, ranking.Item{EntryID: id, NetPoints: p})
	}
	return Period{Number: number, Ranking: ranking.Rank(items)}
}

func TestSummarize_SharedFirstPlace(t *testing.T) {
	t.Parallel()

	weeks := []Period{
		period(1, map[int64]int{1: 60, 2: 55, 3: 50}),
		period(2, map[int64]int{1: 40, 2: 50, 3: 45}),
		period(3, map[int64]int{1: 70, 2: 70, 3: 65}),
	}

	before := Summarize([]int64{1, 2, 3}, weeks[:2], nil, DefaultPrizes())
	after := Summarize([]int64{1, 2, 3}, weeks, nil, DefaultPrizes())

	for _, id := range []int64{1, 2} {
		if after[id].WeeklyWins != before[id].WeeklyWins+1 {
			t.Fatalf("entry %d should gain exactly one weekly win for the shared gw3, before=%d after=%d",
				id, before[id].WeeklyWins, after[id].WeeklyWins)
		}
	}
	if after[3].WeeklyWins != 0 || after[3].TotalAwards != 0 {
		t.Fatalf("entry 3 never won: %+v", after[3])
	}
}

func TestSummarize_MonthlyWinsAndPrizeSplit(t *testing.T) {
	t.Parallel()

	weeks := []Period{period(1, map[int64]int{1: 70, 2: 70})}
	months := []Period{period(1, map[int64]int{1: 171, 2: 162})}

	got := Summarize([]int64{1, 2}, weeks, months, DefaultPrizes())

	if got[1].WeeklyWins != 1 || got[1].MonthlyWins != 1 || got[1].TotalAwards != 2 {
		t.Fatalf("unexpected tally for entry 1: %+v", got[1])
	}
	if got[2].WeeklyWins != 1 || got[2].MonthlyWins != 0 || got[2].TotalAwards != 1 {
		t.Fatalf("unexpected tally for entry 2: %+v", got[2])
	}
	if !got[1].PrizeMoney.Equal(decimal.NewFromInt(650000)) {
		t.Fatalf("entry 1 prize=%s want 650000", got[1].PrizeMoney)
	}
	if !got[2].PrizeMoney.Equal(decimal.NewFromInt(150000)) {
		t.Fatalf("entry 2 prize=%s want 150000", got[2].PrizeMoney)
	}
}

func TestLeaderboard_Ordering(t *testing.T) {
	t.Parallel()

	tallies := map[int64]Tally{
		4: {EntryID: 4, WeeklyWins: 1, MonthlyWins: 1, TotalAwards: 2},
		2: {EntryID: 2, WeeklyWins: 2, MonthlyWins: 0, TotalAwards: 2},
		9: {EntryID: 9, WeeklyWins: 0, MonthlyWins: 0, TotalAwards: 0},
		1: {EntryID: 1, WeeklyWins: 1, MonthlyWins: 1, TotalAwards: 2},
		5: {EntryID: 5, WeeklyWins: 3, MonthlyWins: 0, TotalAwards: 3},
	}

	got := Leaderboard(tallies)
	want := []int64{5, 2, 1, 4, 9}
	if len(got) != len(want) {
		t.Fatalf("unexpected leaderboard length %d", len(got))
	}
	for i, id := range want {
		if got[i].EntryID != id {
			t.Fatalf("position %d: got entry %d want %d (%+v)", i, got[i].EntryID, id, got)
		}
	}
}

func TestSplitPrizeAndFormat(t *testing.T) {
	t.Parallel()

	share := SplitPrize(decimal.NewFromInt(300000), 3)
	if !share.Equal(decimal.NewFromInt(100000)) {
		t.Fatalf("unexpected share %s", share)
	}
	if !SplitPrize(decimal.NewFromInt(1), 0).IsZero() {
		t.Fatalf("zero winners should yield zero share")
	}

	tests := map[int64]string{
		1_150_000: "1.2M",
		450_000:   "450K",
		900:       "900",
	}
	for amount, want := range tests {
		if got := FormatPrize(decimal.NewFromInt(amount)); got != want {
			t.Fatalf("FormatPrize(%d)=%q want %q", amount, got, want)
		}
	}
}

func TestJoinWinnerNames(t *testing.T) {
	t.Parallel()

	names := map[int64]string{1: "Alice", 2: "Bob"}
	if got := JoinWinnerNames([]int64{1, 2}, names); got != "Alice & Bob" {
		t.Fatalf("unexpected joined names %q", got)
	}
	if got := JoinWinnerNames([]int64{3}, names); got != "3" {
		t.Fatalf("unknown id should fall back to id, got %q", got)
	}
	if got := JoinWinnerNames(nil, names); got != "-" {
		t.Fatalf("no winners should render '-', got %q", got)
	}
}

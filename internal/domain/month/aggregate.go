package month

import "github.com/riskibarqy/fpl-league-analyzer/internal/domain/gameweek"

// Aggregate is one entry's roll-up for one month.
type Aggregate struct {
	EntryID           int64
	Month             int
	TotalPoints       int
	TotalTransferCost int
	TotalNetPoints    int
	TransferCount     int
	Gameweeks         int
}

type Key struct {
	EntryID int64
	Month   int
}

func (a Aggregate) Key() Key {
	return Key{EntryID: a.EntryID, Month: a.Month}
}

// Summarize rolls one entry's gameweek records into months. Only months with at
// least one member record are returned, in mapping order. The net total is the
// point sum minus the cost sum, not a sum of per-gameweek net values.
func Summarize(entryID int64, records []gameweek.Record, def Definition) []Aggregate {
	byMonth := make(map[int]*Aggregate, def.Len())
	for _, rec := range records {
		m, ok := def.MonthOf(rec.Gameweek)
		if !ok {
			continue
		}
		agg, exists := byMonth[m.Number]
		if !exists {
			agg = &Aggregate{EntryID: entryID, Month: m.Number}
			byMonth[m.Number] = agg
		}
		agg.TotalPoints += rec.Points
		agg.TotalTransferCost += rec.TransferCost
		agg.TransferCount += rec.TransferCount
		agg.Gameweeks++
	}

	out := make([]Aggregate, 0, len(byMonth))
	for _, m := range def.months {
		agg, ok := byMonth[m.Number]
		if !ok {
			continue
		}
		agg.TotalNetPoints = agg.TotalPoints - agg.TotalTransferCost
		out = append(out, *agg)
	}
	return out
}

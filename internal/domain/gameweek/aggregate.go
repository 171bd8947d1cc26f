package gameweek

import "sort"

// Range is an inclusive gameweek window validated against the season bounds.
type Range struct {
	Start int
	End   int
}

func NewRange(start, end int) (Range, error) {
	if start > end || start < MinGameweek || end > MaxGameweek {
		return Range{}, &RangeError{Start: start, End: end}
	}
	return Range{Start: start, End: end}, nil
}

func (r Range) Contains(gw int) bool {
	return gw >= r.Start && gw <= r.End
}

func (r Range) Len() int {
	return r.End - r.Start + 1
}

// Aggregate turns one entry's raw history into records for the gameweeks in
// range. Gameweeks missing from the history are left out, never zero-filled.
// When the provider repeats an event, the first occurrence wins.
func Aggregate(entryID int64, history []RawEvent, r Range) []Record {
	out := make([]Record, 0, min(len(history), r.Len()))
	seen := make(map[int]struct{}, len(history))
	for _, event := range history {
		if !r.Contains(event.Event) {
			continue
		}
		if _, dup := seen[event.Event]; dup {
			continue
		}
		seen[event.Event] = struct{}{}

		out = append(out, Record{
			EntryID:       entryID,
			Gameweek:      event.Event,
			Points:        event.Points,
			TotalPoints:   event.TotalPoints,
			TransferCount: event.EventTransfers,
			TransferCost:  event.EventTransfersCost,
			BenchPoints:   event.PointsOnBench,
			NetPoints:     NetPoints(event.Points, event.EventTransfersCost),
		})
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].Gameweek < out[j].Gameweek })
	return out
}

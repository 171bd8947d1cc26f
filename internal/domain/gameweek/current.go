package gameweek

import (
	"context"
	"sort"
)

// Event is one season gameweek as published by the bootstrap endpoint.
type Event struct {
	ID        int  `json:"id"`
	Finished  bool `json:"finished"`
	IsCurrent bool `json:"is_current"`
	IsNext    bool `json:"is_next"`
}

// StartedFunc reports whether any fixture of the gameweek has kicked off.
type StartedFunc func(ctx context.Context, gameweek int) (bool, error)

// ResolveCurrent picks the latest gameweek that is in progress or finished.
// Order of preference: newest finished-or-current event with a started
// fixture, latest finished, the is_current flag, is_next minus one, then 1.
// Fixture lookups that fail are skipped.
func ResolveCurrent(ctx context.Context, events []Event, started StartedFunc) int {
	ordered := make([]Event, len(events))
	copy(ordered, events)
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].ID > ordered[j].ID })

	if started != nil {
		for _, ev := range ordered {
			if !ev.Finished && !ev.IsCurrent {
				continue
			}
			if ctx.Err() != nil {
				break
			}
			ok, err := started(ctx, ev.ID)
			if err != nil {
				continue
			}
			if ok {
				return ev.ID
			}
		}
	}

	for _, ev := range ordered {
		if ev.Finished {
			return ev.ID
		}
	}
	for _, ev := range ordered {
		if ev.IsCurrent {
			return ev.ID
		}
	}
	for _, ev := range ordered {
		if ev.IsNext {
			return max(MinGameweek, ev.ID-1)
		}
	}
	return MinGameweek
}

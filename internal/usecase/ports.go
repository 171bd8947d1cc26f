package usecase

import (
	"context"

	"github.com/riskibarqy/fpl-league-analyzer/internal/domain/gameweek"
	"github.com/riskibarqy/fpl-league-analyzer/internal/domain/league"
)

// EntryHistory is one entry's season history as returned upstream. Raw keeps
// the undecoded body for archiving.
type EntryHistory struct {
	EntryID int64
	Events  []gameweek.RawEvent
	Raw     []byte
}

type HistoryFetcher interface {
	FetchHistory(ctx context.Context, entryID int64) (EntryHistory, error)
}

type LeagueDirectory interface {
	FetchLeagueEntries(ctx context.Context, leagueID int64, phase int) ([]league.Entry, error)
}

type GameweekStatus interface {
	FetchEvents(ctx context.Context) ([]gameweek.Event, error)
	FixturesStarted(ctx context.Context, gameweek int) (bool, error)
}

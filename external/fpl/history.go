package fpl

import (
	"context"
	"fmt"

	"github.com/riskibarqy/fpl-league-analyzer/internal/domain/gameweek"
	"github.com/riskibarqy/fpl-league-analyzer/internal/usecase"
)

type historyEnvelope struct {
	Current []gameweek.RawEvent `json:"current"`
}

// FetchHistory returns the per-gameweek history of one entry for the
// current season.
func (c *Client) FetchHistory(ctx context.Context, entryID int64) (usecase.EntryHistory, error) {
	if entryID <= 0 {
		return usecase.EntryHistory{}, fmt.Errorf("%w: entry id must be greater than zero", usecase.ErrInvalidInput)
	}

	var payload historyEnvelope
	raw, err := c.doJSON(ctx, "history", "/entry/"+itoa(entryID)+"/history/", nil, &payload)
	if err != nil {
		return usecase.EntryHistory{}, fmt.Errorf("fetch history entry_id=%d: %w", entryID, err)
	}

	return usecase.EntryHistory{
		EntryID: entryID,
		Events:  payload.Current,
		Raw:     raw,
	}, nil
}

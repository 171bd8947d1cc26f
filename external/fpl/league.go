package fpl

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/riskibarqy/fpl-league-analyzer/internal/domain/league"
	"github.com/riskibarqy/fpl-league-analyzer/internal/usecase"
)

const maxStandingsPages = 100

type standingsEnvelope struct {
	Standings struct {
		HasNext bool             `json:"has_next"`
		Page    int              `json:"page"`
		Results []standingResult `json:"results"`
	} `json:"standings"`
}

type standingResult struct {
	Entry      int64  `json:"entry"`
	PlayerName string `json:"player_name"`
	EntryName  string `json:"entry_name"`
	Rank       int    `json:"rank"`
	Total      int    `json:"total"`
}

// FetchLeagueEntries walks the classic league standings pages until
// has_next is false. A page that fails ends the walk with what was collected,
// unless it failed on a context error, which fails the whole call.
func (c *Client) FetchLeagueEntries(ctx context.Context, leagueID int64, phase int) ([]league.Entry, error) {
	if leagueID <= 0 {
		return nil, fmt.Errorf("%w: league id must be greater than zero", usecase.ErrInvalidInput)
	}
	if phase <= 0 {
		phase = 1
	}

	path := "/leagues-classic/" + itoa(leagueID) + "/standings/"
	entries := make([]league.Entry, 0, 50)
	seen := make(map[int64]struct{}, 50)

	var lastErr error
	for page := 1; page <= maxStandingsPages; page++ {
		query := url.Values{}
		query.Set("page_standings", strconv.Itoa(page))
		query.Set("phase", strconv.Itoa(phase))

		var payload standingsEnvelope
		if _, err := c.doJSON(ctx, "league", path, query, &payload); err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, ctxErr
			}
			if isContextErr(err) {
				return nil, fmt.Errorf("fetch league entries league_id=%d page=%d: %w", leagueID, page, err)
			}
			lastErr = err
			c.logger.WarnContext(ctx, "league standings page failed", "league_id", leagueID, "page", page, "error", err)
			break
		}

		results := payload.Standings.Results
		if len(results) == 0 {
			break
		}
		for _, r := range results {
			if _, dup := seen[r.Entry]; dup || r.Entry <= 0 {
				continue
			}
			seen[r.Entry] = struct{}{}
			entries = append(entries, league.Entry{
				EntryID:     r.Entry,
				ManagerName: strings.TrimSpace(r.PlayerName),
				TeamName:    strings.TrimSpace(r.EntryName),
				Rank:        r.Rank,
				Total:       r.Total,
			})
		}

		if !payload.Standings.HasNext {
			break
		}
		if err := sleepCtx(ctx, c.pageDelay); err != nil {
			return nil, err
		}
	}

	if len(entries) == 0 {
		if lastErr != nil {
			return nil, fmt.Errorf("fetch league entries league_id=%d: %w", leagueID, lastErr)
		}
		return nil, fmt.Errorf("%w: league %d has no entries", usecase.ErrNotFound, leagueID)
	}
	return entries, nil
}

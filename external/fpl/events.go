package fpl

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/riskibarqy/fpl-league-analyzer/internal/domain/gameweek"
)

type bootstrapEnvelope struct {
	Events []gameweek.Event `json:"events"`
}

type fixtureItem struct {
	ID      int64 `json:"id"`
	Event   int   `json:"event"`
	Started bool  `json:"started"`
}

// FetchEvents returns the season's gameweek list from bootstrap-static.
func (c *Client) FetchEvents(ctx context.Context) ([]gameweek.Event, error) {
	var payload bootstrapEnvelope
	if _, err := c.doJSON(ctx, "bootstrap", "/bootstrap-static/", nil, &payload); err != nil {
		return nil, fmt.Errorf("fetch bootstrap events: %w", err)
	}
	return payload.Events, nil
}

// FixturesStarted reports whether any fixture of the gameweek has kicked off.
func (c *Client) FixturesStarted(ctx context.Context, gw int) (bool, error) {
	query := url.Values{}
	query.Set("event", strconv.Itoa(gw))

	var fixtures []fixtureItem
	if _, err := c.doJSON(ctx, "fixtures", "/fixtures/", query, &fixtures); err != nil {
		return false, fmt.Errorf("fetch fixtures gw=%d: %w", gw, err)
	}
	for _, f := range fixtures {
		if f.Started {
			return true, nil
		}
	}
	return false, nil
}

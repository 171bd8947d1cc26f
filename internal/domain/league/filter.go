package league

import (
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"
)

// Filter keeps entries whose manager or team name fuzzily matches query.
func Filter(entries []Entry, query string) []Entry {
	query = strings.TrimSpace(query)
	if query == "" {
		return entries
	}

	out := make([]Entry, 0, len(entries))
	for _, e := range entries {
		if fuzzy.MatchNormalizedFold(query, e.ManagerName) || fuzzy.MatchNormalizedFold(query, e.TeamName) {
			out = append(out, e)
		}
	}
	return out
}

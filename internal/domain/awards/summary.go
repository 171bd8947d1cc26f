package awards

import (
	"strconv"
	"strings"
)

const noWinner = "-"

// JoinWinnerNames renders tied winners as "A & B". Unknown ids fall back to the id.
func JoinWinnerNames(ids []int64, names map[int64]string) string {
	if len(ids) == 0 {
		return noWinner
	}
	parts := make([]string, 0, len(ids))
	for _, id := range ids {
		name := strings.TrimSpace(names[id])
		if name == "" {
			name = strconv.FormatInt(id, 10)
		}
		parts = append(parts, name)
	}
	return strings.Join(parts, " & ")
}

package ranking

import "sort"

type Item struct {
	EntryID   int64
	NetPoints int
}

// Entry is a ranked row. Tied net points share a rank, and the next distinct
// value is ranked after every tied entry (standard competition ranking).
type Entry struct {
	EntryID   int64
	NetPoints int
	Rank      int
}

// Rank orders items by net points descending, breaking ties by entry id
// ascending, and assigns 1-based competition ranks. The input is not modified.
func Rank(items []Item) []Entry {
	out := make([]Entry, len(items))
	for i, item := range items {
		out[i] = Entry{EntryID: item.EntryID, NetPoints: item.NetPoints}
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].NetPoints != out[j].NetPoints {
			return out[i].NetPoints > out[j].NetPoints
		}
		return out[i].EntryID < out[j].EntryID
	})

	for i := range out {
		if i > 0 && out[i].NetPoints == out[i-1].NetPoints {
			out[i].Rank = out[i-1].Rank
			continue
		}
		out[i].Rank = i + 1
	}
	return out
}

// Items converts ranked rows back into ranking input.
func Items(entries []Entry) []Item {
	out := make([]Item, len(entries))
	for i, e := range entries {
		out[i] = Item{EntryID: e.EntryID, NetPoints: e.NetPoints}
	}
	return out
}

// Winners returns the entry ids ranked first.
func Winners(entries []Entry) []int64 {
	out := make([]int64, 0, 1)
	for _, e := range entries {
		if e.Rank != 1 {
			break
		}
		out = append(out, e.EntryID)
	}
	return out
}

func Medal(rank int) string {
	switch rank {
	case 1:
		return "🥇"
	case 2:
		return "🥈"
	case 3:
		return "🥉"
	default:
		return ""
	}
}

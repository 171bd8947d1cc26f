package league

// Entry is one manager's team in a classic league.
type Entry struct {
	EntryID     int64
	ManagerName string
	TeamName    string
	Rank        int
	Total       int
}

func IDs(entries []Entry) []int64 {
	out := make([]int64, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.EntryID)
	}
	return out
}

func NamesByID(entries []Entry) map[int64]string {
	out := make(map[int64]string, len(entries))
	for _, e := range entries {
		out[e.EntryID] = e.ManagerName
	}
	return out
}

package gameweek

const (
	MinGameweek = 1
	MaxGameweek = 38
)

// RawEvent is one row of an entry's season history as returned by the provider.
type RawEvent struct {
	Event              int `json:"event"`
	Points             int `json:"points"`
	TotalPoints        int `json:"total_points"`
	EventTransfers     int `json:"event_transfers"`
	EventTransfersCost int `json:"event_transfers_cost"`
	PointsOnBench      int `json:"points_on_bench"`
}

// Record is the normalized fact for one entry in one gameweek.
type Record struct {
	EntryID       int64
	Gameweek      int
	Points        int
	TotalPoints   int
	TransferCount int
	TransferCost  int
	BenchPoints   int
	NetPoints     int
}

type Key struct {
	EntryID  int64
	Gameweek int
}

func (r Record) Key() Key {
	return Key{EntryID: r.EntryID, Gameweek: r.Gameweek}
}

// Played reports whether the entry scored in the gameweek. Zero-point rows
// are treated as not yet played when ranking a single gameweek.
func (r Record) Played() bool {
	return r.Points > 0
}

func NetPoints(points, transferCost int) int {
	return points - transferCost
}

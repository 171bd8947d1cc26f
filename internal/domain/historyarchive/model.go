package historyarchive

import "time"

const SourceFPL = "fpl"

// Snapshot is the raw history payload fetched for one entry.
type Snapshot struct {
	Source      string
	EntryID     int64
	PayloadJSON string
	PayloadHash string
	FetchedAt   time.Time
}

package cache

import (
	"slices"
	"strconv"

	"github.com/valyala/bytebufferpool"
)

// Fingerprint identifies a computed result. Two fingerprints with the same
// inputs produce the same key regardless of entry order or duplicates.
type Fingerprint struct {
	Kind     string
	LeagueID int64
	Phase    int
	Entries  []int64
	GWStart  int
	GWEnd    int
	Mapping  string
}

func (f Fingerprint) Key() string {
	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	buf.B = append(buf.B, f.Kind...)
	if f.LeagueID != 0 {
		buf.B = append(buf.B, "|l="...)
		buf.B = strconv.AppendInt(buf.B, f.LeagueID, 10)
	}
	if f.Phase != 0 {
		buf.B = append(buf.B, "|p="...)
		buf.B = strconv.AppendInt(buf.B, int64(f.Phase), 10)
	}
	if len(f.Entries) > 0 {
		buf.B = append(buf.B, "|e="...)
		for i, id := range normalizeIDs(f.Entries) {
			if i > 0 {
				buf.B = append(buf.B, ',')
			}
			buf.B = strconv.AppendInt(buf.B, id, 10)
		}
	}
	if f.GWStart != 0 || f.GWEnd != 0 {
		buf.B = append(buf.B, "|gw="...)
		buf.B = strconv.AppendInt(buf.B, int64(f.GWStart), 10)
		buf.B = append(buf.B, '-')
		buf.B = strconv.AppendInt(buf.B, int64(f.GWEnd), 10)
	}
	if f.Mapping != "" {
		buf.B = append(buf.B, "|m="...)
		buf.B = append(buf.B, f.Mapping...)
	}
	return buf.String()
}

func normalizeIDs(ids []int64) []int64 {
	out := slices.Clone(ids)
	slices.Sort(out)
	return slices.Compact(out)
}

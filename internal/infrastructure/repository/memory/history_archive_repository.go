package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/riskibarqy/fpl-league-analyzer/internal/domain/historyarchive"
)

type snapshotKey struct {
	source  string
	entryID int64
}

// HistoryArchiveRepository keeps the latest snapshot per entry in memory.
type HistoryArchiveRepository struct {
	mu    sync.RWMutex
	items map[snapshotKey]historyarchive.Snapshot
}

func NewHistoryArchiveRepository() *HistoryArchiveRepository {
	return &HistoryArchiveRepository{items: make(map[snapshotKey]historyarchive.Snapshot)}
}

func (r *HistoryArchiveRepository) UpsertMany(ctx context.Context, items []historyarchive.Snapshot) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for _, item := range items {
		r.items[snapshotKey{source: item.Source, entryID: item.EntryID}] = item
	}
	return nil
}

func (r *HistoryArchiveRepository) Get(_ context.Context, source string, entryID int64) (historyarchive.Snapshot, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.items[snapshotKey{source: source, entryID: entryID}]
	return item, ok, nil
}

func (r *HistoryArchiveRepository) List(_ context.Context) ([]historyarchive.Snapshot, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]historyarchive.Snapshot, 0, len(r.items))
	for _, item := range r.items {
		out = append(out, item)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Source != out[j].Source {
			return out[i].Source < out[j].Source
		}
		return out[i].EntryID < out[j].EntryID
	})
	return out, nil
}

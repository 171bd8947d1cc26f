package memory

import (
	"context"
	"testing"

	"github.com/riskibarqy/fpl-league-analyzer/internal/domain/historyarchive"
)

func TestHistoryArchiveRepository_UpsertReplaces(t *testing.T) {
	t.Parallel()

	repo := NewHistoryArchiveRepository()
	ctx := context.Background()

	if err := repo.UpsertMany(ctx, []historyarchive.Snapshot{
		{Source: historyarchive.SourceFPL, EntryID: 2, PayloadHash: "a"},
		{Source: historyarchive.SourceFPL, EntryID: 1, PayloadHash: "b"},
	}); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if err := repo.UpsertMany(ctx, []historyarchive.Snapshot{
		{Source: historyarchive.SourceFPL, EntryID: 2, PayloadHash: "c"},
	}); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	got, ok, err := repo.Get(ctx, historyarchive.SourceFPL, 2)
	if err != nil || !ok {
		t.Fatalf("get: ok=%v err=%v", ok, err)
	}
	if got.PayloadHash != "c" {
		t.Fatalf("expected replaced snapshot, got hash=%s", got.PayloadHash)
	}

	all, _ := repo.List(ctx)
	if len(all) != 2 || all[0].EntryID != 1 {
		t.Fatalf("unexpected list: %+v", all)
	}
}

func TestHistoryArchiveRepository_CancelledContext(t *testing.T) {
	t.Parallel()

	repo := NewHistoryArchiveRepository()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := repo.UpsertMany(ctx, []historyarchive.Snapshot{{EntryID: 1}}); err == nil {
		t.Fatalf("expected context error")
	}
}

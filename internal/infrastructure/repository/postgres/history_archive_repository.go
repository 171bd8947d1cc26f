package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/riskibarqy/fpl-league-analyzer/internal/domain/historyarchive"
	qb "github.com/riskibarqy/fpl-league-analyzer/internal/platform/querybuilder"
)

const snapshotTable = "entry_history_snapshots"

const snapshotUpsertSuffix = `ON CONFLICT (source, entry_id)
DO UPDATE SET
    payload = EXCLUDED.payload,
    payload_hash = EXCLUDED.payload_hash,
    fetched_at = EXCLUDED.fetched_at,
    updated_at = NOW()`

type HistoryArchiveRepository struct {
	db *sqlx.DB
}

func NewHistoryArchiveRepository(db *sqlx.DB) *HistoryArchiveRepository {
	return &HistoryArchiveRepository{db: db}
}

func (r *HistoryArchiveRepository) UpsertMany(ctx context.Context, items []historyarchive.Snapshot) error {
	query, args, err := buildSnapshotUpsert(items)
	if err != nil {
		return err
	}
	if query == "" {
		return nil
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx upsert history snapshots: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert %d history snapshots: %w", len(items), err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit upsert history snapshots tx: %w", err)
	}
	return nil
}

// buildSnapshotUpsert renders one multi-row upsert. Rows for the same
// (source, entry_id) collapse to the last one since Postgres rejects a
// statement that touches the same conflict target twice.
func buildSnapshotUpsert(items []historyarchive.Snapshot) (string, []any, error) {
	type key struct {
		source  string
		entryID int64
	}
	order := make([]key, 0, len(items))
	latest := make(map[key]historyarchive.Snapshot, len(items))
	for _, item := range items {
		k := key{source: item.Source, entryID: item.EntryID}
		if _, seen := latest[k]; !seen {
			order = append(order, k)
		}
		latest[k] = item
	}
	if len(order) == 0 {
		return "", nil, nil
	}

	models := make([]any, 0, len(order))
	for _, k := range order {
		item := latest[k]
		fetchedAt := item.FetchedAt
		if fetchedAt.IsZero() {
			fetchedAt = time.Now().UTC()
		}
		models = append(models, snapshotInsertModel{
			Source:      item.Source,
			EntryID:     item.EntryID,
			Payload:     item.PayloadJSON,
			PayloadHash: item.PayloadHash,
			FetchedAt:   fetchedAt,
		})
	}

	query, args, err := qb.InsertModels(snapshotTable, models, snapshotUpsertSuffix)
	if err != nil {
		return "", nil, fmt.Errorf("build upsert history snapshot query: %w", err)
	}
	return query, args, nil
}

type snapshotInsertModel struct {
	Source      string    `db:"source"`
	EntryID     int64     `db:"entry_id"`
	Payload     string    `db:"payload"`
	PayloadHash string    `db:"payload_hash"`
	FetchedAt   time.Time `db:"fetched_at"`
}

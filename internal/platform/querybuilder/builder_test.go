package querybuilder

import "testing"

type snapshotRow struct {
	Source  string `db:"source"`
	EntryID int64  `db:"entry_id"`
	Payload string `db:"payload"`
	skipped string
	Ignored string `db:"-"`
}

func TestInsertBuilder(t *testing.T) {
	query, args, err := InsertInto("entry_history_snapshots").
		Columns("source", "entry_id").
		Values("fpl", int64(1)).
		Values("fpl", int64(2)).
		Suffix("ON CONFLICT (source, entry_id) DO NOTHING").
		ToSQL()
	if err != nil {
		t.Fatalf("build insert query: %v", err)
	}

	wantQuery := "INSERT INTO entry_history_snapshots (source, entry_id) VALUES ($1, $2), ($3, $4) ON CONFLICT (source, entry_id) DO NOTHING"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 4 || args[2] != "fpl" || args[3] != int64(2) {
		t.Fatalf("unexpected args: %+v", args)
	}
}

func TestInsertBuilder_RowWidthMismatch(t *testing.T) {
	_, _, err := InsertInto("t").Columns("a", "b").Values(1).ToSQL()
	if err == nil {
		t.Fatalf("expected error for short row")
	}
}

func TestInsertModels(t *testing.T) {
	query, args, err := InsertModels("entry_history_snapshots", []any{
		snapshotRow{Source: "fpl", EntryID: 1, Payload: "{}", skipped: "x", Ignored: "y"},
		&snapshotRow{Source: "fpl", EntryID: 2, Payload: "[]"},
	}, "")
	if err != nil {
		t.Fatalf("build insert models: %v", err)
	}

	wantQuery := "INSERT INTO entry_history_snapshots (source, entry_id, payload) VALUES ($1, $2, $3), ($4, $5, $6)"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 6 || args[4] != int64(2) || args[5] != "[]" {
		t.Fatalf("unexpected args: %+v", args)
	}
}

func TestInsertModel_RejectsNonStruct(t *testing.T) {
	if _, _, err := InsertModel("t", 42, ""); err == nil {
		t.Fatalf("expected error for non-struct model")
	}
	var nilRow *snapshotRow
	if _, _, err := InsertModel("t", nilRow, ""); err == nil {
		t.Fatalf("expected error for nil model")
	}
}

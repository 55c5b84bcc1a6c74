package querybuilder

import "testing"

func TestSelectBuilder(t *testing.T) {
	query, args, err := Select("match_id", "payload").
		From("enrichment_records").
		Where(Eq("kind", "odds"), Eq("date_bucket", "20260110"), In("match_id", []int64{1, 2})).
		OrderBy("match_id").
		Limit(10).
		ToSQL()
	if err != nil {
		t.Fatalf("build select query: %v", err)
	}

	wantQuery := "SELECT match_id, payload FROM enrichment_records WHERE kind = ? AND date_bucket = ? AND match_id IN (?, ?) ORDER BY match_id LIMIT 10"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 4 || args[0] != "odds" || args[3] != int64(2) {
		t.Fatalf("unexpected args: %+v", args)
	}
}

func TestSelectBuilder_EmptyInMatchesNothing(t *testing.T) {
	query, args, err := Select("*").From("t").Where(In[int64]("id", nil)).ToSQL()
	if err != nil {
		t.Fatalf("build select query: %v", err)
	}
	if query != "SELECT * FROM t WHERE 1=0" || len(args) != 0 {
		t.Fatalf("unexpected query %q args=%v", query, args)
	}
}

type recordRow struct {
	Kind    string `db:"kind"`
	MatchID int64  `db:"match_id"`
	Payload []byte `db:"payload"`
	skipped string
	Ignored string `db:"-"`
}

func TestInsertModels_OnConflictUpdate(t *testing.T) {
	b, err := InsertModels("enrichment_records", []recordRow{
		{Kind: "odds", MatchID: 1, Payload: []byte(`{}`), skipped: "x"},
		{Kind: "odds", MatchID: 2, Payload: []byte(`[]`)},
	})
	if err != nil {
		t.Fatalf("insert models: %v", err)
	}

	query, args, err := b.OnConflictUpdate([]string{"kind", "match_id"}, "payload").ToSQL()
	if err != nil {
		t.Fatalf("build insert query: %v", err)
	}

	wantQuery := "INSERT INTO enrichment_records (kind, match_id, payload) VALUES (?, ?, ?), (?, ?, ?) ON CONFLICT (kind, match_id) DO UPDATE SET payload = EXCLUDED.payload"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 6 || args[4] != int64(2) {
		t.Fatalf("unexpected args: %+v", args)
	}
}

func TestInsertBuilder_Validation(t *testing.T) {
	if _, _, err := InsertInto("t").Columns("a", "b").Values(1).ToSQL(); err == nil {
		t.Fatalf("expected error for short row")
	}
	if _, err := InsertModels[recordRow]("t", nil); err == nil {
		t.Fatalf("expected error for empty models")
	}
}

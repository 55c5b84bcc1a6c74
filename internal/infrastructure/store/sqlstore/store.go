package sqlstore

import (
	"context"
	"sort"
	"time"

	crerr "github.com/cockroachdb/errors"
	"github.com/jmoiron/sqlx"

	"github.com/riskibarqy/matchday-feed/internal/domain/enrichment"
	qb "github.com/riskibarqy/matchday-feed/internal/platform/querybuilder"
)

const (
	tableName = "enrichment_records"

	// Rows per multi-row upsert; keeps bind params well under the sqlite limit.
	upsertChunkSize = 200
)

const schemaDDL = `CREATE TABLE IF NOT EXISTS enrichment_records (
    kind        TEXT      NOT NULL,
    date_bucket TEXT      NOT NULL,
    match_id    BIGINT    NOT NULL,
    payload     TEXT      NOT NULL,
    updated_at  TIMESTAMP NOT NULL,
    PRIMARY KEY (kind, date_bucket, match_id)
)`

func init() {
	sqlx.BindDriver("sqlite", sqlx.QUESTION)
}

// Store keeps enrichment records in one table keyed by (kind, date_bucket, match_id).
// The same statements run on sqlite and postgres through db.Rebind.
type Store struct {
	db  *sqlx.DB
	now func() time.Time
}

func New(db *sqlx.DB) *Store {
	return &Store{db: db, now: time.Now}
}

// EnsureSchema creates the table when missing. Postgres deployments normally run migrations instead.
func (s *Store) EnsureSchema(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, schemaDDL); err != nil {
		return crerr.Wrap(err, "ensure enrichment_records schema")
	}
	return nil
}

func (s *Store) Merge(ctx context.Context, kind enrichment.Kind, bucket enrichment.DateBucket, entries map[int64]enrichment.Payload) error {
	rows := make([]recordRow, 0, len(entries))
	updatedAt := s.now().UTC()
	for id, payload := range entries {
		if payload.IsZero() {
			continue
		}
		rows = append(rows, recordRow{
			Kind:       string(kind),
			DateBucket: string(bucket),
			MatchID:    id,
			Payload:    string(payload),
			UpdatedAt:  updatedAt,
		})
	}
	if len(rows) == 0 {
		return nil
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].MatchID < rows[j].MatchID })

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return crerr.Wrap(err, "begin tx merge enrichment records")
	}
	defer func() {
		_ = tx.Rollback()
	}()

	for start := 0; start < len(rows); start += upsertChunkSize {
		end := min(start+upsertChunkSize, len(rows))
		builder, err := qb.InsertModels(tableName, rows[start:end])
		if err != nil {
			return crerr.Wrap(err, "build enrichment upsert")
		}
		query, args, err := builder.
			OnConflictUpdate([]string{"kind", "date_bucket", "match_id"}, "payload", "updated_at").
			ToSQL()
		if err != nil {
			return crerr.Wrap(err, "build enrichment upsert")
		}
		if _, err := tx.ExecContext(ctx, tx.Rebind(query), args...); err != nil {
			return crerr.Wrapf(err, "upsert enrichment records kind=%s date_bucket=%s", kind, bucket)
		}
	}

	if err := tx.Commit(); err != nil {
		return crerr.Wrap(err, "commit merge enrichment records")
	}
	return nil
}

func (s *Store) Load(ctx context.Context, kind enrichment.Kind, bucket enrichment.DateBucket) (map[int64]enrichment.Payload, error) {
	query, args, err := qb.Select("match_id", "payload").
		From(tableName).
		Where(qb.Eq("kind", string(kind)), qb.Eq("date_bucket", string(bucket))).
		OrderBy("match_id").
		ToSQL()
	if err != nil {
		return nil, crerr.Wrap(err, "build load enrichment query")
	}

	var rows []payloadRow
	if err := s.db.SelectContext(ctx, &rows, s.db.Rebind(query), args...); err != nil {
		return nil, crerr.Wrapf(err, "load enrichment records kind=%s date_bucket=%s", kind, bucket)
	}

	out := make(map[int64]enrichment.Payload, len(rows))
	for _, row := range rows {
		out[row.MatchID] = enrichment.Payload(row.Payload)
	}
	return out, nil
}

func (s *Store) Get(ctx context.Context, kind enrichment.Kind, bucket enrichment.DateBucket, matchID int64) (enrichment.Payload, bool, error) {
	query, args, err := qb.Select("match_id", "payload").
		From(tableName).
		Where(qb.Eq("kind", string(kind)), qb.Eq("date_bucket", string(bucket)), qb.Eq("match_id", matchID)).
		Limit(1).
		ToSQL()
	if err != nil {
		return nil, false, crerr.Wrap(err, "build get enrichment query")
	}

	var rows []payloadRow
	if err := s.db.SelectContext(ctx, &rows, s.db.Rebind(query), args...); err != nil {
		return nil, false, crerr.Wrapf(err, "get enrichment record kind=%s date_bucket=%s match_id=%d", kind, bucket, matchID)
	}
	if len(rows) == 0 {
		return nil, false, nil
	}
	return enrichment.Payload(rows[0].Payload), true, nil
}

type recordRow struct {
	Kind       string    `db:"kind"`
	DateBucket string    `db:"date_bucket"`
	MatchID    int64     `db:"match_id"`
	Payload    string    `db:"payload"`
	UpdatedAt  time.Time `db:"updated_at"`
}

type payloadRow struct {
	MatchID int64  `db:"match_id"`
	Payload string `db:"payload"`
}

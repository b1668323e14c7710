package postgres

import (
	"context"
	"database/sql"
	"time"

	domain "github.com/bryanwahyu/opticode/internal/domain/analysis"
)

const Schema = `
CREATE TABLE IF NOT EXISTS code_analyses (
  id          TEXT        PRIMARY KEY,
  code_hash   TEXT        NOT NULL,
  code_bytes  INTEGER     NOT NULL,
  model       TEXT        NOT NULL,
  status      TEXT        NOT NULL,
  failure     TEXT        NOT NULL DEFAULT '',
  score       INTEGER     NULL,
  analysis    TEXT        NOT NULL,
  created_at  TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_code_analyses_created ON code_analyses (created_at DESC);
`

type AnalysisRepository struct {
	db *sql.DB
}

func NewAnalysisRepository(db *sql.DB) *AnalysisRepository {
	return &AnalysisRepository{db: db}
}

func (r *AnalysisRepository) Migrate(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, Schema)
	return err
}

// Save inserts or updates an analysis record
func (r *AnalysisRepository) Save(ctx context.Context, rec *domain.Record) error {
	const q = `
INSERT INTO code_analyses
  (id, code_hash, code_bytes, model, status, failure, score, analysis, created_at)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
ON CONFLICT (id) DO UPDATE SET
  status=EXCLUDED.status,
  failure=EXCLUDED.failure,
  score=EXCLUDED.score,
  analysis=EXCLUDED.analysis;
`
	createdAt := rec.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}
	_, err := r.db.ExecContext(ctx, q,
		string(rec.ID),
		rec.CodeHash,
		rec.CodeBytes,
		stringOrDash(rec.Model),
		string(rec.Status),
		string(rec.Failure),
		nullableScore(rec.Score),
		rec.Analysis,
		createdAt,
	)
	return err
}

// Paginate returns a page of analysis records ordered by created_at desc
func (r *AnalysisRepository) Paginate(ctx context.Context, page, pageSize int) ([]*domain.Record, error) {
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 20
	}
	offset := (page - 1) * pageSize

	const q = `
SELECT id, code_hash, code_bytes, model, status, failure, score, analysis, created_at
FROM code_analyses
ORDER BY created_at DESC, id DESC
LIMIT $1 OFFSET $2;
`
	rows, err := r.db.QueryContext(ctx, q, pageSize, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []*domain.Record{}
	for rows.Next() {
		var (
			rec             domain.Record
			id, status, fcl string
			score           sql.NullInt64
		)
		if err := rows.Scan(&id, &rec.CodeHash, &rec.CodeBytes, &rec.Model, &status, &fcl, &score, &rec.Analysis, &rec.CreatedAt); err != nil {
			return nil, err
		}
		rec.ID = domain.RecordID(id)
		rec.Status = domain.Status(status)
		rec.Failure = domain.FailureClass(fcl)
		rec.Score = scoreFrom(score)
		out = append(out, &rec)
	}
	return out, rows.Err()
}

package mysql

import (
	"context"
	"database/sql"
	"time"

	domain "github.com/bryanwahyu/opticode/internal/domain/analysis"
)

// Schema creates the audit table used by AnalysisRepository.
const Schema = `
CREATE TABLE IF NOT EXISTS code_analyses (
  id          VARCHAR(36)  NOT NULL PRIMARY KEY,
  code_hash   CHAR(64)     NOT NULL,
  code_bytes  INT          NOT NULL,
  model       VARCHAR(128) NOT NULL,
  status      VARCHAR(16)  NOT NULL,
  failure     VARCHAR(16)  NOT NULL DEFAULT '',
  score       INT          NULL,
  analysis    MEDIUMTEXT   NOT NULL,
  created_at  DATETIME(6)  NOT NULL,
  KEY idx_code_analyses_created (created_at)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4;
`

type AnalysisRepository struct {
	db *sql.DB
}

func NewAnalysisRepository(db *sql.DB) *AnalysisRepository {
	return &AnalysisRepository{db: db}
}

// Migrate applies Schema.
func (r *AnalysisRepository) Migrate(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, Schema)
	return err
}

// Save inserts an analysis record
func (r *AnalysisRepository) Save(ctx context.Context, rec *domain.Record) error {
	const q = `
INSERT INTO code_analyses
  (id, code_hash, code_bytes, model, status, failure, score, analysis, created_at)
VALUES (?,?,?,?,?,?,?,?,?)
ON DUPLICATE KEY UPDATE
  status=VALUES(status), failure=VALUES(failure), score=VALUES(score), analysis=VALUES(analysis);
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
LIMIT ? OFFSET ?;
`
	rows, err := r.db.QueryContext(ctx, q, pageSize, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []*domain.Record{}
	for rows.Next() {
		var (
			rec     domain.Record
			id      string
			status  string
			failure string
			score   sql.NullInt64
		)
		if err := rows.Scan(&id, &rec.CodeHash, &rec.CodeBytes, &rec.Model, &status, &failure, &score, &rec.Analysis, &rec.CreatedAt); err != nil {
			return nil, err
		}
		rec.ID = domain.RecordID(id)
		rec.Status = domain.Status(status)
		rec.Failure = domain.FailureClass(failure)
		rec.Score = scoreFrom(score)
		out = append(out, &rec)
	}
	return out, rows.Err()
}

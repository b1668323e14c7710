package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	domain "github.com/bryanwahyu/opticode/internal/domain/analysis"
)

func TestAnalysisRepositorySave(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	created := time.Date(2026, 10, 19, 9, 30, 0, 0, time.UTC)
	rec := &domain.Record{
		ID:        "rec-1",
		CodeHash:  "h",
		CodeBytes: 42,
		Model:     "gpt-4o-mini",
		Status:    domain.StatusSuccess,
		Score:     domain.ScoreOf(60),
		Analysis:  "Looks fine.",
		CreatedAt: created,
	}
	mock.ExpectExec("INSERT INTO code_analyses").
		WithArgs("rec-1", "h", 42, "gpt-4o-mini", "success", "", int64(60), "Looks fine.", created).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := NewAnalysisRepository(db).Save(context.Background(), rec); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestAnalysisRepositorySaveError(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	boom := errors.New("connection reset")
	mock.ExpectExec("INSERT INTO code_analyses").WillReturnError(boom)

	err = NewAnalysisRepository(db).Save(context.Background(), &domain.Record{ID: "x", Status: domain.StatusFailed})
	if !errors.Is(err, boom) {
		t.Fatalf("err = %v", err)
	}
}

func TestAnalysisRepositoryPaginate(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	now := time.Date(2026, 10, 19, 9, 30, 0, 0, time.UTC)
	mock.ExpectQuery("FROM code_analyses").WithArgs(10, 0).
		WillReturnRows(sqlmock.NewRows([]string{"id", "code_hash", "code_bytes", "model", "status", "failure", "score", "analysis", "created_at"}).
			AddRow("a", "h", 1, "gpt-4o-mini", "failed", "auth", nil, "", now))

	got, err := NewAnalysisRepository(db).Paginate(context.Background(), 1, 10)
	if err != nil {
		t.Fatalf("Paginate: %v", err)
	}
	if len(got) != 1 || got[0].Failure != domain.FailureAuth || got[0].Score != nil || !got[0].CreatedAt.Equal(now) {
		t.Fatalf("got %+v", got)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

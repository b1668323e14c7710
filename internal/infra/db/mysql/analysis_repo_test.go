package mysql

import (
	"context"
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
		CodeHash:  "abc",
		CodeBytes: 3,
		Status:    domain.StatusFailed,
		Failure:   domain.FailureQuota,
		CreatedAt: created,
	}

	mock.ExpectExec("INSERT INTO code_analyses").
		WithArgs("rec-1", "abc", 3, "-", "failed", "quota", nil, "", created).
		WillReturnResult(sqlmock.NewResult(1, 1))

	if err := NewAnalysisRepository(db).Save(context.Background(), rec); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestAnalysisRepositorySaveWithScore(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	rec := &domain.Record{
		ID:       "rec-2",
		Model:    "gemini-1.5-flash",
		Status:   domain.StatusSuccess,
		Score:    domain.ScoreOf(87),
		Analysis: "Looks fine.",
	}
	mock.ExpectExec("INSERT INTO code_analyses").
		WithArgs("rec-2", "", 0, "gemini-1.5-flash", "success", "", int64(87), "Looks fine.", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	if err := NewAnalysisRepository(db).Save(context.Background(), rec); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestAnalysisRepositoryPaginate(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	now := time.Date(2026, 10, 19, 9, 30, 0, 0, time.UTC)
	rows := sqlmock.NewRows([]string{"id", "code_hash", "code_bytes", "model", "status", "failure", "score", "analysis", "created_at"}).
		AddRow("b", "h2", 10, "gemini-1.5-flash", "success", "", 90, "ok", now).
		AddRow("a", "h1", 5, "gemini-1.5-flash", "failed", "timeout", nil, "", now.Add(-time.Minute))

	// page 2 of size 2 skips the first two rows
	mock.ExpectQuery("SELECT id, code_hash").WithArgs(2, 2).WillReturnRows(rows)

	got, err := NewAnalysisRepository(db).Paginate(context.Background(), 2, 2)
	if err != nil {
		t.Fatalf("Paginate: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("len = %d", len(got))
	}
	if got[0].ID != "b" || got[0].Score == nil || *got[0].Score != 90 {
		t.Errorf("first = %+v", got[0])
	}
	if got[1].Failure != domain.FailureTimeout || got[1].Score != nil || got[1].Status != domain.StatusFailed {
		t.Errorf("second = %+v", got[1])
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestAnalysisRepositoryPaginateDefaults(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	mock.ExpectQuery("SELECT id, code_hash").WithArgs(20, 0).
		WillReturnRows(sqlmock.NewRows([]string{"id", "code_hash", "code_bytes", "model", "status", "failure", "score", "analysis", "created_at"}))

	got, err := NewAnalysisRepository(db).Paginate(context.Background(), 0, 0)
	if err != nil {
		t.Fatalf("Paginate: %v", err)
	}
	if got == nil || len(got) != 0 {
		t.Fatalf("expected empty non-nil slice, got %#v", got)
	}
}

package collector

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"

	"github.com/LeonardoBeccarini/smartbin/internal/model"
)

func TestPostgresStoreWrite(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	store := NewPostgresStore(db)
	ts := time.Now()

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO fill_readings (bin_id, fill, ts) VALUES ($1,$2,$3) ON CONFLICT (bin_id, ts) DO NOTHING")).
		WithArgs("BIN01", 42, ts).
		WillReturnResult(sqlmock.NewResult(1, 1))

	if err := store.Write(context.Background(), model.BinStatus{BinID: "BIN01", Fill: 42, Timestamp: ts}); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestPostgresStoreWriteError(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	mock.ExpectExec(regexp.QuoteMeta(insertFillReading)).
		WillReturnError(&pq.Error{Code: "23505"})

	err = NewPostgresStore(db).Write(context.Background(), model.BinStatus{BinID: "BIN01"})
	var pe *pq.Error
	if !errors.As(err, &pe) {
		t.Fatalf("expected *pq.Error in chain, got %v", err)
	}
	if !strings.Contains(err.Error(), "unique_violation") {
		t.Fatalf("error %q does not name the condition", err)
	}
}

func TestPostgresStoreLatest(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	ts := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	mock.ExpectQuery(regexp.QuoteMeta(selectLatestFills)).
		WillReturnRows(sqlmock.NewRows([]string{"bin_id", "fill", "ts"}).
			AddRow("BIN01", 42, ts).
			AddRow("BIN02", 90, ts.Add(time.Minute)))

	got, err := NewPostgresStore(db).Latest(context.Background())
	if err != nil {
		t.Fatalf("latest: %v", err)
	}
	if len(got) != 2 || got[0].BinID != "BIN01" || got[0].Fill != 42 || got[1].Fill != 90 || !got[1].Timestamp.Equal(ts.Add(time.Minute)) {
		t.Fatalf("latest = %+v", got)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestPostgresStoreEnsureSchema(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	mock.ExpectExec(regexp.QuoteMeta("CREATE TABLE IF NOT EXISTS fill_readings")).
		WillReturnResult(sqlmock.NewResult(0, 0))

	store := NewPostgresStore(db)
	if err := store.EnsureSchema(context.Background()); err != nil {
		t.Fatalf("ensure schema: %v", err)
	}
	if store.Name() != "postgres" {
		t.Fatalf("expected store name postgres, got %s", store.Name())
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

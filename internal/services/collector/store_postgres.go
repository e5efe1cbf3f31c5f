package collector

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/LeonardoBeccarini/smartbin/internal/model"
)

const (
	createFillReadings = `CREATE TABLE IF NOT EXISTS fill_readings (bin_id TEXT NOT NULL, fill SMALLINT NOT NULL, ts TIMESTAMPTZ NOT NULL, PRIMARY KEY (bin_id, ts))`
	insertFillReading  = `INSERT INTO fill_readings (bin_id, fill, ts) VALUES ($1,$2,$3) ON CONFLICT (bin_id, ts) DO NOTHING`
	selectLatestFills  = `SELECT DISTINCT ON (bin_id) bin_id, fill, ts FROM fill_readings ORDER BY bin_id, ts DESC`
)

// PostgresStore keeps the full reading history in fill_readings.
type PostgresStore struct {
	db *sql.DB
}

func OpenPostgres(dsn string) (*sql.DB, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	return db, nil
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (p *PostgresStore) Name() string { return "postgres" }

func (p *PostgresStore) EnsureSchema(ctx context.Context) error {
	if _, err := p.db.ExecContext(ctx, createFillReadings); err != nil {
		return pgErr("create fill_readings", err)
	}
	return nil
}

func (p *PostgresStore) Write(ctx context.Context, st model.BinStatus) error {
	if _, err := p.db.ExecContext(ctx, insertFillReading, st.BinID, st.Fill, st.Timestamp); err != nil {
		return pgErr("insert "+st.BinID, err)
	}
	return nil
}

// Latest returns the newest reading of every bin, ordered by bin id.
func (p *PostgresStore) Latest(ctx context.Context) ([]model.BinStatus, error) {
	rows, err := p.db.QueryContext(ctx, selectLatestFills)
	if err != nil {
		return nil, pgErr("select latest", err)
	}
	defer rows.Close()

	var out []model.BinStatus
	for rows.Next() {
		var st model.BinStatus
		if err := rows.Scan(&st.BinID, &st.Fill, &st.Timestamp); err != nil {
			return nil, fmt.Errorf("scan fill_readings: %w", err)
		}
		out = append(out, st)
	}
	return out, rows.Err()
}

func (p *PostgresStore) Ping(ctx context.Context) error {
	return p.db.PingContext(ctx)
}

func pgErr(op string, err error) error {
	var pe *pq.Error
	if errors.As(err, &pe) {
		return fmt.Errorf("postgres %s (%s): %w", op, pe.Code.Name(), err)
	}
	return fmt.Errorf("postgres %s: %w", op, err)
}

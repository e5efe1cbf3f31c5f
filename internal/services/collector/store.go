package collector

import (
	"context"

	"github.com/LeonardoBeccarini/smartbin/internal/model"
)

// Store persists accepted fill readings.
type Store interface {
	Name() string
	Write(ctx context.Context, st model.BinStatus) error
	Ping(ctx context.Context) error
}

// BinStatusSource can replay the newest reading per bin, used to warm the cache.
type BinStatusSource interface {
	Latest(ctx context.Context) ([]model.BinStatus, error)
}

var (
	_ Store           = (*InfluxStore)(nil)
	_ Store           = (*PostgresStore)(nil)
	_ BinStatusSource = (*PostgresStore)(nil)
)

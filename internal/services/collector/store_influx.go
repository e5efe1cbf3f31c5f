package collector

import (
	"context"
	"errors"
	"fmt"
	"strings"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api"
	"github.com/influxdata/influxdb-client-go/v2/api/write"

	"github.com/LeonardoBeccarini/smartbin/internal/model"
)

const DefaultMeasurement = "bin_fill"

type InfluxConfig struct {
	URL         string
	Token       string
	Org         string
	Bucket      string
	Measurement string
}

// InfluxStore writes one point per reading, tagged by bin.
type InfluxStore struct {
	client      influxdb2.Client
	writeAPI    api.WriteAPIBlocking
	measurement string
}

func NewInfluxStore(cfg InfluxConfig) (*InfluxStore, error) {
	if cfg.URL == "" || cfg.Token == "" || cfg.Org == "" || cfg.Bucket == "" {
		return nil, fmt.Errorf("influx config incomplete")
	}
	measurement := cfg.Measurement
	if measurement == "" {
		measurement = DefaultMeasurement
	}
	client := influxdb2.NewClient(cfg.URL, cfg.Token)
	return &InfluxStore{
		client:      client,
		writeAPI:    client.WriteAPIBlocking(cfg.Org, cfg.Bucket),
		measurement: sanitizeMeasurement(measurement),
	}, nil
}

func (s *InfluxStore) Name() string { return "influx" }

func (s *InfluxStore) Write(ctx context.Context, st model.BinStatus) error {
	if err := s.writeAPI.WritePoint(ctx, FillToPoint(s.measurement, st)); err != nil {
		return fmt.Errorf("influx write %s: %w", st.BinID, err)
	}
	return nil
}

func (s *InfluxStore) Ping(ctx context.Context) error {
	ok, err := s.client.Ping(ctx)
	if err != nil {
		return err
	}
	if !ok {
		return errors.New("influx not reachable")
	}
	return nil
}

func (s *InfluxStore) Close() { s.client.Close() }

// FillToPoint maps a reading to measurement,bin_id=<id> fill=<n>i <ts>.
func FillToPoint(measurement string, st model.BinStatus) *write.Point {
	return influxdb2.NewPoint(measurement,
		map[string]string{"bin_id": st.BinID},
		map[string]interface{}{"fill": st.Fill},
		st.Timestamp)
}

func sanitizeMeasurement(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z',
			r >= 'A' && r <= 'Z',
			r >= '0' && r <= '9',
			r == '_', r == ':', r == '-':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	return b.String()
}

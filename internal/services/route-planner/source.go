package route_planner

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/sony/gobreaker"

	"github.com/LeonardoBeccarini/smartbin/internal/model"
)

var ErrSourceUnavailable = errors.New("fill source unavailable")

// FillSource yields the newest fill per bin.
type FillSource interface {
	Latest(ctx context.Context) ([]model.BinStatus, error)
}

// HTTPSource reads the collector's /bins/latest behind a circuit breaker.
type HTTPSource struct {
	url    string
	client *http.Client
	cb     *gobreaker.CircuitBreaker
}

func NewHTTPSource(baseURL string, timeout time.Duration, cb *gobreaker.CircuitBreaker) *HTTPSource {
	return &HTTPSource{
		url:    strings.TrimRight(strings.TrimSpace(baseURL), "/") + "/bins/latest",
		client: &http.Client{Timeout: timeout},
		cb:     cb,
	}
}

func NewBreaker(name string, fails int, open, interval time.Duration) *gobreaker.CircuitBreaker {
	if fails < 1 {
		fails = 1
	}
	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:     name,
		Interval: interval,
		Timeout:  open,
		ReadyToTrip: func(c gobreaker.Counts) bool {
			return c.ConsecutiveFailures >= uint32(fails)
		},
	})
}

func (s *HTTPSource) Latest(ctx context.Context) ([]model.BinStatus, error) {
	res, err := s.cb.Execute(func() (interface{}, error) {
		return s.fetch(ctx)
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSourceUnavailable, err)
	}
	return res.([]model.BinStatus), nil
}

func (s *HTTPSource) fetch(ctx context.Context) ([]model.BinStatus, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("collector request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("collector status %d", resp.StatusCode)
	}
	var out []model.BinStatus
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("collector decode: %w", err)
	}
	return out, nil
}

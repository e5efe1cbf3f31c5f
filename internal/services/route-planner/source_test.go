package route_planner

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sony/gobreaker"
)

func TestHTTPSourceLatest(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/bins/latest" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"bin_id":"B01","fill":90,"timestamp":"2024-05-01T10:00:00Z"},{"bin_id":"B02","fill":45,"timestamp":"2024-05-01T10:01:00Z"}]`))
	}))
	defer srv.Close()

	src := NewHTTPSource(srv.URL+"/", time.Second, NewBreaker("collector", 3, time.Second, 0))
	got, err := src.Latest(context.Background())
	if err != nil {
		t.Fatalf("latest: %v", err)
	}
	if len(got) != 2 || got[0].BinID != "B01" || got[0].Fill != 90 || got[1].Fill != 45 {
		t.Fatalf("latest = %+v", got)
	}
	if want := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC); !got[0].Timestamp.Equal(want) {
		t.Fatalf("timestamp = %v", got[0].Timestamp)
	}
}

func TestHTTPSourceBreakerOpens(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	src := NewHTTPSource(srv.URL, time.Second, NewBreaker("collector", 2, time.Minute, 0))
	for i := 0; i < 2; i++ {
		if _, err := src.Latest(context.Background()); !errors.Is(err, ErrSourceUnavailable) {
			t.Fatalf("call %d: expected ErrSourceUnavailable, got %v", i, err)
		}
	}

	_, err := src.Latest(context.Background())
	if !errors.Is(err, gobreaker.ErrOpenState) || !errors.Is(err, ErrSourceUnavailable) {
		t.Fatalf("expected open breaker, got %v", err)
	}
	if n := hits.Load(); n != 2 {
		t.Fatalf("collector hit %d times, want 2", n)
	}
}

func TestHTTPSourceBadBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"not":"a list"}`))
	}))
	defer srv.Close()

	src := NewHTTPSource(srv.URL, time.Second, NewBreaker("collector", 5, time.Second, 0))
	if _, err := src.Latest(context.Background()); !errors.Is(err, ErrSourceUnavailable) {
		t.Fatalf("expected ErrSourceUnavailable, got %v", err)
	}
}

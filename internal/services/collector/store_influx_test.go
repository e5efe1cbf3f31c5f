package collector

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/LeonardoBeccarini/smartbin/internal/model"
)

func TestFillToPoint(t *testing.T) {
	ts := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	p := FillToPoint("bin_fill", model.BinStatus{BinID: "BIN01", Fill: 42, Timestamp: ts})

	if p.Name() != "bin_fill" {
		t.Fatalf("name = %s", p.Name())
	}
	tags := p.TagList()
	if len(tags) != 1 || tags[0].Key != "bin_id" || tags[0].Value != "BIN01" {
		t.Fatalf("tags = %+v", tags)
	}
	fields := p.FieldList()
	if len(fields) != 1 || fields[0].Key != "fill" || fields[0].Value != int64(42) {
		t.Fatalf("fields = %+v", fields)
	}
	if !p.Time().Equal(ts) {
		t.Fatalf("time = %v", p.Time())
	}
}

func TestSanitizeMeasurement(t *testing.T) {
	if got := sanitizeMeasurement("bin fill/v2"); got != "bin_fill_v2" {
		t.Fatalf("got %q", got)
	}
}

func TestNewInfluxStoreIncomplete(t *testing.T) {
	if _, err := NewInfluxStore(InfluxConfig{URL: "http://localhost:8086"}); err == nil {
		t.Fatalf("expected error for incomplete config")
	}
}

func TestInfluxStoreWrite(t *testing.T) {
	var (
		mu    sync.Mutex
		paths []string
		body  string
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		mu.Lock()
		paths = append(paths, r.URL.Path)
		if r.URL.Path == "/api/v2/write" {
			body = string(b)
		}
		mu.Unlock()
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	store, err := NewInfluxStore(InfluxConfig{URL: srv.URL, Token: "t", Org: "smartbin", Bucket: "fill"})
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	defer store.Close()

	st := model.BinStatus{BinID: "BIN01", Fill: 42, Timestamp: time.Unix(1700000000, 0)}
	if err := store.Write(context.Background(), st); err != nil {
		t.Fatalf("write: %v", err)
	}

	mu.Lock()
	defer mu.Unlock()
	if !strings.Contains(body, "bin_fill,bin_id=BIN01 fill=42i 1700000000000000000") {
		t.Fatalf("line protocol = %q", body)
	}
	if len(paths) == 0 || paths[len(paths)-1] != "/api/v2/write" {
		t.Fatalf("paths = %v", paths)
	}
}

package route_planner

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/LeonardoBeccarini/smartbin/internal/model"
)

func TestRouteEndpoint(t *testing.T) {
	bins, fills := sampleMap()
	mux := NewHTTPMux(NewPlanner(bins, staticSource{fills: fills}, model.Point{}, DefaultThresholds()))

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/route?critical=40&secondary=10", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body)
	}
	var plan Plan
	if err := json.NewDecoder(rec.Body).Decode(&plan); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got := ids(plan.Stops); !equalIDs(got, []string{"B01", "B04", "B02", "B03"}) {
		t.Fatalf("stops = %v", got)
	}
}

func TestRouteEndpointErrors(t *testing.T) {
	bins, _ := sampleMap()

	down := NewHTTPMux(NewPlanner(bins, staticSource{err: ErrSourceUnavailable}, model.Point{}, DefaultThresholds()))
	rec := httptest.NewRecorder()
	down.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/route", nil))
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503", rec.Code)
	}

	_, fills := sampleMap()
	up := NewHTTPMux(NewPlanner(bins, staticSource{fills: fills}, model.Point{}, DefaultThresholds()))
	for _, query := range []string{
		"max_detour=0",
		"max_detour=NaN",
		"max_detour=Inf",
		"max_detour=far",
		"critical=abc",
		"critical=80.5",
		"secondary=",
		"secondary=ten",
	} {
		rec = httptest.NewRecorder()
		up.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/route?"+query, nil))
		want := http.StatusBadRequest
		if query == "secondary=" {
			want = http.StatusOK
		}
		if rec.Code != want {
			t.Errorf("GET /route?%s status = %d, want %d", query, rec.Code, want)
		}
	}
}

package route_planner

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
)

// NewHTTPMux exposes GET /route with the same overrides as the RPC, as query
// parameters.
func NewHTTPMux(p *Planner) *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) { _, _ = w.Write([]byte("ok")) })

	mux.HandleFunc("/route", func(w http.ResponseWriter, r *http.Request) {
		th := p.Defaults()
		q := r.URL.Query()
		if v := strings.TrimSpace(q.Get("critical")); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil {
				http.Error(w, "critical: "+err.Error(), http.StatusBadRequest)
				return
			}
			th.Critical = n
		}
		if v := strings.TrimSpace(q.Get("secondary")); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil {
				http.Error(w, "secondary: "+err.Error(), http.StatusBadRequest)
				return
			}
			th.Secondary = n
		}
		if v := strings.TrimSpace(q.Get("max_detour")); v != "" {
			f, err := strconv.ParseFloat(v, 64)
			if err != nil {
				http.Error(w, "max_detour: "+err.Error(), http.StatusBadRequest)
				return
			}
			th.MaxDetour = f
		}
		if err := th.Validate(); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		plan, err := p.Plan(r.Context(), th)
		if err != nil {
			code := http.StatusInternalServerError
			if errors.Is(err, ErrSourceUnavailable) {
				code = http.StatusServiceUnavailable
			}
			http.Error(w, err.Error(), code)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(plan)
	})

	return mux
}

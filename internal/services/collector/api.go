package collector

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Connectivity is satisfied by mqtt.Client.
type Connectivity interface {
	IsConnectionOpen() bool
}

const (
	healthyErrorAge = 30 * time.Second
	pingTimeout     = 2 * time.Second
)

func NewHTTPMux(svc *Service, conn Connectivity, gatherer prometheus.Gatherer) *http.ServeMux {
	mux := http.NewServeMux()

	// GET /bins/latest: newest reading per bin, sorted by bin id
	mux.HandleFunc("/bins/latest", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("X-Data-Source", "cache")
		_ = json.NewEncoder(w).Encode(svc.Cache().Snapshot())
	})

	mux.Handle("/healthz", &healthHandler{svc: svc, conn: conn})
	mux.Handle("/readyz", &readyHandler{svc: svc, conn: conn})
	mux.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	return mux
}

type healthHandler struct {
	svc  *Service
	conn Connectivity
}

func (h *healthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	type status struct {
		Status          string  `json:"status"`
		MQTTConnected   bool    `json:"mqtt_connected"`
		Store           string  `json:"store"`
		StoreOK         bool    `json:"store_ok"`
		Bins            int     `json:"bins"`
		LastWriteErrorS float64 `json:"last_write_error_age_sec"`
	}
	st := status{
		MQTTConnected:   h.conn != nil && h.conn.IsConnectionOpen(),
		Store:           h.svc.Store().Name(),
		StoreOK:         storeOK(r.Context(), h.svc.Store()),
		Bins:            len(h.svc.Cache().Snapshot()),
		LastWriteErrorS: h.svc.LastErrorAge().Seconds(),
	}

	if st.MQTTConnected && st.StoreOK && h.svc.LastErrorAge() > healthyErrorAge {
		st.Status = "ok"
	} else if st.MQTTConnected || st.StoreOK {
		st.Status = "degraded"
	} else {
		st.Status = "down"
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(st)
}

// readyHandler answers 200 only when every dependency is up.
type readyHandler struct {
	svc  *Service
	conn Connectivity
}

func (h *readyHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ready := h.conn != nil && h.conn.IsConnectionOpen() &&
		storeOK(r.Context(), h.svc.Store()) &&
		h.svc.LastErrorAge() > healthyErrorAge
	w.Header().Set("Content-Type", "application/json")
	if !ready {
		w.WriteHeader(http.StatusServiceUnavailable)
	}
	_ = json.NewEncoder(w).Encode(map[string]bool{"ready": ready})
}

func storeOK(ctx context.Context, s Store) bool {
	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	return s.Ping(ctx) == nil
}

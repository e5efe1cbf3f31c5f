package main

import (
	"os"
	"strconv"
	"strings"
	"time"

	planner "github.com/LeonardoBeccarini/smartbin/internal/services/route-planner"
)

func env(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func envInt(key string, def int) int {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func envFloat(key string, def float64) float64 {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return def
}

func envDuration(key string, def time.Duration) time.Duration {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

type config struct {
	BinsFile     string
	CollectorURL string
	HTTPTimeout  time.Duration

	CBFails    int
	CBOpen     time.Duration
	CBInterval time.Duration

	DepotX, DepotY float64
	Thresholds     planner.Thresholds

	GRPCPort string
	HTTPPort string
}

func loadConfig() config {
	def := planner.DefaultThresholds()
	return config{
		BinsFile:     env("BINS_FILE", "bins.json"),
		CollectorURL: env("COLLECTOR_URL", "http://localhost:8080"),
		HTTPTimeout:  envDuration("COLLECTOR_TIMEOUT", 3*time.Second),

		CBFails:    envInt("CB_FAILS", 3),
		CBOpen:     envDuration("CB_OPEN", 30*time.Second),
		CBInterval: envDuration("CB_INTERVAL", time.Minute),

		DepotX: envFloat("DEPOT_X", 0),
		DepotY: envFloat("DEPOT_Y", 0),
		Thresholds: planner.Thresholds{
			Critical:  envInt("CRITICAL_THRESHOLD", def.Critical),
			Secondary: envInt("SECONDARY_THRESHOLD", def.Secondary),
			MaxDetour: envFloat("MAX_DETOUR", def.MaxDetour),
		},

		GRPCPort: env("GRPC_PORT", "50051"),
		HTTPPort: env("PORT", "8081"),
	}
}

package main

import (
	"context"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/LeonardoBeccarini/smartbin/internal/services/collector"
	"github.com/LeonardoBeccarini/smartbin/pkg/dedup"
	"github.com/LeonardoBeccarini/smartbin/pkg/rabbitmq"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := loadConfig()

	mqClient, err := rabbitmq.NewRabbitMQConn(ctx, &cfg.Rabbit)
	if err != nil {
		log.Fatalf("collector: mqtt connect failed: %v", err)
	}
	consumer := rabbitmq.NewConsumer(mqClient, cfg.Topic, nil)

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics := collector.NewMetrics(reg)

	var (
		store     collector.Store
		warmStart []collector.BinStatusSource
	)
	switch cfg.Store {
	case "postgres":
		db, err := collector.OpenPostgres(cfg.PostgresDSN)
		if err != nil {
			log.Fatalf("collector: %v", err)
		}
		defer db.Close()
		pg := collector.NewPostgresStore(db)
		initCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		if err := pg.EnsureSchema(initCtx); err != nil {
			log.Printf("collector: %v", err)
		}
		cancel()
		store = pg
		warmStart = append(warmStart, pg)
	case "influx":
		is, err := collector.NewInfluxStore(cfg.Influx)
		if err != nil {
			log.Fatalf("collector: %v", err)
		}
		defer is.Close()
		store = is
	default:
		log.Fatalf("collector: unknown STORE %q (influx|postgres)", cfg.Store)
	}

	svc := collector.NewService(consumer, store, metrics, dedup.New(cfg.DedupTTL, cfg.DedupMax))
	for _, src := range warmStart {
		wctx, cancel := context.WithTimeout(ctx, 10*time.Second)
		list, err := src.Latest(wctx)
		cancel()
		if err != nil {
			log.Printf("collector: warm start from %s skipped: %v", store.Name(), err)
			continue
		}
		svc.Warm(list)
		log.Printf("collector: warm start loaded %d bins", len(list))
	}

	srv := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           collector.NewHTTPMux(svc, mqClient, reg),
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		log.Printf("collector: HTTP listening on :%s", cfg.HTTPPort)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("collector: http server error: %v", err)
		}
	}()

	go func() {
		if err := svc.Start(ctx); err != nil {
			log.Printf("collector: consume stopped: %v", err)
			stop()
		}
	}()

	<-ctx.Done()

	shCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = srv.Shutdown(shCtx)
	log.Println("collector: shutdown complete")
}

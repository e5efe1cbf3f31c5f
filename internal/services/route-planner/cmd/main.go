package main

import (
	"context"
	"log"
	"net"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"google.golang.org/grpc"

	"github.com/LeonardoBeccarini/smartbin/internal/model"
	planner "github.com/LeonardoBeccarini/smartbin/internal/services/route-planner"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := loadConfig()
	if err := cfg.Thresholds.Validate(); err != nil {
		log.Fatalf("planner: %v", err)
	}

	bins, err := planner.LoadBins(cfg.BinsFile)
	if err != nil {
		log.Fatalf("planner: %v", err)
	}
	log.Printf("planner: %d bins loaded from %s", len(bins), cfg.BinsFile)

	source := planner.NewHTTPSource(cfg.CollectorURL, cfg.HTTPTimeout,
		planner.NewBreaker("collector", cfg.CBFails, cfg.CBOpen, cfg.CBInterval))
	p := planner.NewPlanner(bins, source, model.Point{X: cfg.DepotX, Y: cfg.DepotY}, cfg.Thresholds)

	lis, err := net.Listen("tcp", ":"+cfg.GRPCPort)
	if err != nil {
		log.Fatalf("planner: listen: %v", err)
	}
	gs := grpc.NewServer()
	planner.RegisterRoutePlannerServer(gs, planner.NewGrpcHandler(p))
	go func() {
		log.Printf("planner: gRPC listening on :%s", cfg.GRPCPort)
		if err := gs.Serve(lis); err != nil {
			log.Fatalf("planner: grpc serve: %v", err)
		}
	}()

	srv := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           planner.NewHTTPMux(p),
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		log.Printf("planner: HTTP listening on :%s", cfg.HTTPPort)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("planner: http server error: %v", err)
		}
	}()

	<-ctx.Done()

	shCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = srv.Shutdown(shCtx)
	gs.GracefulStop()
	log.Println("planner: shutdown complete")
}

package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"NetSentry/internal/api"
	"NetSentry/internal/config"
	"NetSentry/internal/factory"
	"NetSentry/internal/query"
)

func main() {
	configPath := flag.String("config", "configs/config.yaml", "path to the configuration file")
	flag.Parse()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	pipeline, err := factory.Build(cfg)
	if err != nil {
		log.Fatalf("Failed to build analysis pipeline: %v", err)
	}
	defer pipeline.Close()

	apiServer := api.NewServer(pipeline.Analyzer, pipeline.Adapter, pipeline.Alerter, cfg.Engine.TempDir, cfg.API.MaxUploadBytes)

	// Stored-flow retrieval rides on the ClickHouse sink's table.
	if cfg.Sinks.ClickHouse.Enabled {
		querier, err := query.NewClickHouseQuerier(cfg.Sinks.ClickHouse)
		if err != nil {
			log.Fatalf("Failed to create querier: %v", err)
		}
		apiServer.SetQuerier(querier)
	}

	server := &http.Server{
		Addr:    cfg.API.ListenAddr,
		Handler: apiServer.Router(),
	}

	go func() {
		log.Printf("API server starting on %s", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Could not listen on %s: %v", server.Addr, err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("API server shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}
	log.Println("API server exited.")
}

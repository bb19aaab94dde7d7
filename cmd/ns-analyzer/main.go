package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"NetSentry/internal/config"
	"NetSentry/internal/factory"
)

func main() {
	configPath := flag.String("config", "configs/config.yaml", "path to the configuration file")
	fileType := flag.String("type", "", "input type (csv, pcap, pcapng); inferred from the extension when empty")
	flag.Parse()

	if flag.NArg() < 1 {
		fmt.Println("Usage: ns-analyzer [-config configs/config.yaml] [-type csv|pcap|pcapng] <input_file>")
		os.Exit(1)
	}
	inputPath := flag.Arg(0)

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	log.Println("Configuration loaded successfully.")

	pipeline, err := factory.Build(cfg)
	if err != nil {
		log.Fatalf("Failed to build analysis pipeline: %v", err)
	}
	defer pipeline.Close()

	ft := *fileType
	if ft == "" {
		ft = inferType(inputPath)
	}

	summary, err := pipeline.Analyzer.AnalyzeFile(context.Background(), inputPath, ft, filepath.Base(inputPath))
	if err != nil {
		log.Fatalf("Analysis failed: %v", err)
	}

	if pipeline.Alerter != nil {
		if triggered := pipeline.Alerter.Evaluate(summary); len(triggered) > 0 {
			log.Printf("Triggered alerts: %s", strings.Join(triggered, ", "))
		}
	}

	out, err := json.MarshalIndent(summary, "", "  ")
	if err != nil {
		log.Fatalf("Failed to encode summary: %v", err)
	}
	fmt.Println(string(out))
}

func inferType(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".pcap":
		return "pcap"
	case ".pcapng":
		return "pcapng"
	}
	return "csv"
}

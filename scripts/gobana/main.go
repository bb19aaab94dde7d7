package main

import (
	"encoding/gob"
	"flag"
	"fmt"
	"log"
	"os"

	"NetSentry/internal/model"
)

// gobana dumps the flow records of one gob batch file written by the disk
// sink, for offline inspection.
func main() {
	anomaliesOnly := flag.Bool("anomalies", false, "print only flagged flows")
	flag.Parse()

	if flag.NArg() < 1 {
		fmt.Println("Usage: go run ./scripts/gobana/main.go [-anomalies] <batch_file.dat>")
		os.Exit(1)
	}

	file, err := os.Open(flag.Arg(0))
	if err != nil {
		log.Fatalf("Unable to open file: %v", err)
	}
	defer file.Close()

	var records []*model.FlowRecord
	if err := gob.NewDecoder(file).Decode(&records); err != nil {
		log.Fatalf("Failed to decode gob data: %v", err)
	}

	printed := 0
	for _, r := range records {
		if *anomaliesOnly && !r.IsAnomaly {
			continue
		}
		fmt.Printf("%s  %s:%d -> %s:%d  %-12s risk=%.3f (%s)  %s\n",
			r.ID, r.SrcIP, r.SrcPort, r.DstIP, r.DstPort,
			r.Classification, r.RiskScore, r.RiskLevel, r.Reason)
		printed++
	}
	fmt.Printf("%d of %d records printed.\n", printed, len(records))
}

package sink

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/nats-io/nats.go"

	"NetSentry/internal/config"
	"NetSentry/internal/model"
)

// NATSSink publishes enriched flow records to a NATS subject so downstream
// consumers (dashboards, SIEM forwarders) can react in near real time.
type NATSSink struct {
	nc      *nats.Conn
	subject string
}

// NewNATSSink connects to the NATS server named in the configuration.
func NewNATSSink(cfg config.NATSSinkConfig) (*NATSSink, error) {
	nc, err := nats.Connect(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}
	log.Printf("Connected to NATS server at %s", cfg.URL)
	return &NATSSink{nc: nc, subject: cfg.Subject}, nil
}

// Persist serializes each record to JSON and publishes it. Records that fail
// to serialize are skipped; publish failures abort the batch.
func (s *NATSSink) Persist(ctx context.Context, rows []*model.FlowRecord) (int, error) {
	published := 0
	for _, r := range rows {
		if err := ctx.Err(); err != nil {
			return published, err
		}
		data, err := json.Marshal(r)
		if err != nil {
			log.Printf("Skipping flow %s: failed to marshal: %v", r.ID, err)
			continue
		}
		if err := s.nc.Publish(s.subject, data); err != nil {
			return published, fmt.Errorf("failed to publish flow %s: %w", r.ID, err)
		}
		published++
	}
	return published, nil
}

// Close drains and closes the NATS connection.
func (s *NATSSink) Close() {
	if s.nc != nil {
		s.nc.Drain()
		log.Println("NATS connection drained and closed.")
	}
}

var _ model.Sink = (*NATSSink)(nil)

package sink

import (
	"context"
	"fmt"
	"log"

	"github.com/ClickHouse/clickhouse-go/v2"
	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"

	"NetSentry/internal/config"
	"NetSentry/internal/model"
)

const createTableStatement = `
CREATE TABLE IF NOT EXISTS flow_records (
    Id             String,
    AnalysisId     String,
    UploadFilename String,
    SrcIP          String,
    DstIP          String,
    SrcPort        Int32,
    DstPort        Int32,
    Protocol       String,
    Duration       Float64,
    TotalFwdPkts   Int64,
    TotalBwdPkts   Int64,
    TotalLenFwd    Float64,
    TotalLenBwd    Float64,
    FlowBytesPerS  Float64,
    FlowPktsPerS   Float64,
    Timestamp      String,
    Classification String,
    ThreatType     String,
    CVERefs        String,
    Reason         String,
    Confidence     Float64,
    AnomalyScore   Float64,
    RiskScore      Float64,
    RiskLevel      String,
    IsAnomaly      UInt8
) ENGINE = MergeTree()
ORDER BY (AnalysisId, RiskScore);
`

// ClickHouseSink persists enriched flow records into ClickHouse in one batch
// per chunk. It implements model.Sink.
type ClickHouseSink struct {
	conn driver.Conn
}

// NewClickHouseSink connects and ensures the flow_records table exists.
func NewClickHouseSink(cfg config.ClickHouseConfig) (*ClickHouseSink, error) {
	conn, err := connect(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to clickhouse: %w", err)
	}

	if err := conn.Exec(context.Background(), createTableStatement); err != nil {
		return nil, fmt.Errorf("failed to create table: %w", err)
	}
	log.Println("Successfully connected to ClickHouse and ensured table exists.")

	return &ClickHouseSink{conn: conn}, nil
}

func connect(cfg config.ClickHouseConfig) (driver.Conn, error) {
	addr := fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)

	conn, err := clickhouse.Open(&clickhouse.Options{
		Addr: []string{addr},
		Auth: clickhouse.Auth{
			Database: cfg.Database,
			Username: cfg.Username,
			Password: cfg.Password,
		},
		Compression: &clickhouse.Compression{
			Method: clickhouse.CompressionLZ4,
		},
	})
	if err != nil {
		return nil, err
	}

	if err := conn.Ping(context.Background()); err != nil {
		return nil, fmt.Errorf("failed to ping clickhouse: %w", err)
	}

	return conn, nil
}

// Persist appends the chunk's rows to one insert batch. Rows that fail to
// append are skipped and logged; only successes are counted.
func (s *ClickHouseSink) Persist(ctx context.Context, rows []*model.FlowRecord) (int, error) {
	if len(rows) == 0 {
		return 0, nil
	}

	batch, err := s.conn.PrepareBatch(ctx, "INSERT INTO flow_records")
	if err != nil {
		return 0, fmt.Errorf("failed to prepare batch: %w", err)
	}

	persisted := 0
	for _, r := range rows {
		isAnomaly := uint8(0)
		if r.IsAnomaly {
			isAnomaly = 1
		}
		err := batch.Append(
			r.ID, r.AnalysisID, r.UploadFilename,
			r.SrcIP, r.DstIP, int32(r.SrcPort), int32(r.DstPort), r.Protocol,
			r.Duration, r.TotalFwdPkts, r.TotalBwdPkts, r.TotalLenFwd, r.TotalLenBwd,
			r.FlowBytesPerS, r.FlowPktsPerS, r.Timestamp,
			r.Classification, r.ThreatType, r.CVERefs, r.Reason,
			r.Confidence, r.AnomalyScore, r.RiskScore, string(r.RiskLevel), isAnomaly,
		)
		if err != nil {
			log.Printf("Skipping flow %s: failed to append to batch: %v", r.ID, err)
			continue
		}
		persisted++
	}

	if persisted == 0 {
		return 0, nil
	}
	if err := batch.Send(); err != nil {
		return 0, fmt.Errorf("failed to send batch: %w", err)
	}

	return persisted, nil
}

var _ model.Sink = (*ClickHouseSink)(nil)

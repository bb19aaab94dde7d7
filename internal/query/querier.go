package query

import (
	"context"
	"fmt"
	"strings"

	"github.com/ClickHouse/clickhouse-go/v2"

	"NetSentry/internal/config"
	"NetSentry/internal/model"
)

// Querier reads persisted flow records back out of storage for the API.
type Querier interface {
	// FlowsByAnalysis returns the records of one analysis, highest risk first,
	// optionally filtered to a minimum risk score.
	FlowsByAnalysis(ctx context.Context, analysisID string, minRisk float64, limit int) ([]*model.FlowRecord, error)
	// ThreatCounts returns the per-classification counts of one analysis.
	ThreatCounts(ctx context.Context, analysisID string) (map[string]uint64, error)
}

// clickhouseQuerier implements the Querier interface for ClickHouse.
type clickhouseQuerier struct {
	conn clickhouse.Conn
}

// NewClickHouseQuerier creates a new querier for ClickHouse.
func NewClickHouseQuerier(cfg config.ClickHouseConfig) (Querier, error) {
	conn, err := connect(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to clickhouse: %w", err)
	}
	return &clickhouseQuerier{conn: conn}, nil
}

func connect(cfg config.ClickHouseConfig) (clickhouse.Conn, error) {
	addr := fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)

	conn, err := clickhouse.Open(&clickhouse.Options{
		Addr: []string{addr},
		Auth: clickhouse.Auth{
			Database: cfg.Database,
			Username: cfg.Username,
			Password: cfg.Password,
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

func (q *clickhouseQuerier) FlowsByAnalysis(ctx context.Context, analysisID string, minRisk float64, limit int) ([]*model.FlowRecord, error) {
	if limit <= 0 {
		limit = 100
	}

	var queryBuilder strings.Builder
	queryBuilder.WriteString(`
		SELECT
			Id, AnalysisId, UploadFilename,
			SrcIP, DstIP, SrcPort, DstPort, Protocol,
			Duration, TotalFwdPkts, TotalBwdPkts, TotalLenFwd, TotalLenBwd,
			FlowBytesPerS, FlowPktsPerS, Timestamp,
			Classification, ThreatType, CVERefs, Reason,
			Confidence, AnomalyScore, RiskScore, RiskLevel, IsAnomaly
		FROM flow_records
		WHERE AnalysisId = ?
	`)
	args := []interface{}{analysisID}

	if minRisk > 0 {
		queryBuilder.WriteString(" AND RiskScore >= ?")
		args = append(args, minRisk)
	}
	queryBuilder.WriteString(" ORDER BY RiskScore DESC LIMIT ?")
	args = append(args, limit)

	rows, err := q.conn.Query(ctx, queryBuilder.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to execute query: %w", err)
	}
	defer rows.Close()

	var out []*model.FlowRecord
	for rows.Next() {
		var (
			r         model.FlowRecord
			srcPort   int32
			dstPort   int32
			riskLevel string
			isAnomaly uint8
		)
		if err := rows.Scan(
			&r.ID, &r.AnalysisID, &r.UploadFilename,
			&r.SrcIP, &r.DstIP, &srcPort, &dstPort, &r.Protocol,
			&r.Duration, &r.TotalFwdPkts, &r.TotalBwdPkts, &r.TotalLenFwd, &r.TotalLenBwd,
			&r.FlowBytesPerS, &r.FlowPktsPerS, &r.Timestamp,
			&r.Classification, &r.ThreatType, &r.CVERefs, &r.Reason,
			&r.Confidence, &r.AnomalyScore, &r.RiskScore, &riskLevel, &isAnomaly,
		); err != nil {
			return nil, fmt.Errorf("failed to scan flow record: %w", err)
		}
		r.SrcPort = int(srcPort)
		r.DstPort = int(dstPort)
		r.RiskLevel = model.RiskLevel(riskLevel)
		r.IsAnomaly = isAnomaly == 1
		out = append(out, &r)
	}

	return out, nil
}

func (q *clickhouseQuerier) ThreatCounts(ctx context.Context, analysisID string) (map[string]uint64, error) {
	rows, err := q.conn.Query(ctx, `
		SELECT Classification, COUNT(*) AS Flows
		FROM flow_records
		WHERE AnalysisId = ?
		GROUP BY Classification
	`, analysisID)
	if err != nil {
		return nil, fmt.Errorf("failed to execute query: %w", err)
	}
	defer rows.Close()

	out := make(map[string]uint64)
	for rows.Next() {
		var label string
		var count uint64
		if err := rows.Scan(&label, &count); err != nil {
			return nil, fmt.Errorf("failed to scan threat count: %w", err)
		}
		out[label] = count
	}
	return out, nil
}

package threat

import (
	"strconv"
	"strings"

	"NetSentry/internal/model"
)

// FlowFeatures holds the per-flow behavioral features the inference cascade
// evaluates. Fields default to 0 (or -1 for the port, "" for the protocol)
// when absent or non-numeric in the source row.
type FlowFeatures struct {
	Duration      float64
	BytesPerSec   float64
	PacketsPerSec float64
	FwdPackets    int64
	BwdPackets    int64
	FwdBytes      float64
	BwdBytes      float64
	DstPort       int
	Protocol      string
	SynCount      int64
}

// TotalPackets is the forward plus backward packet count.
func (f FlowFeatures) TotalPackets() int64 {
	return f.FwdPackets + f.BwdPackets
}

// TotalBytes is the forward plus backward byte length.
func (f FlowFeatures) TotalBytes() float64 {
	return f.FwdBytes + f.BwdBytes
}

// Column name dialects: CICFlowMeter human-readable headers and the
// snake_case variant emitted by the python flow meter. The human-readable
// name wins when both are present.
var (
	durationCols   = []string{"Flow Duration", "flow_duration", "duration"}
	bytesRateCols  = []string{"Flow Bytes/s", "flow_byts_s", "flow_bytes_per_sec"}
	pktsRateCols   = []string{"Flow Packets/s", "flow_pkts_s", "flow_packets_per_sec"}
	fwdPktsCols    = []string{"Total Fwd Packets", "tot_fwd_pkts", "total_fwd_packets"}
	bwdPktsCols    = []string{"Total Backward Packets", "tot_bwd_pkts", "total_bwd_packets"}
	fwdBytesCols   = []string{"Total Length of Fwd Packets", "totlen_fwd_pkts", "total_length_fwd"}
	bwdBytesCols   = []string{"Total Length of Bwd Packets", "totlen_bwd_pkts", "total_length_bwd"}
	dstPortCols    = []string{"Destination Port", "dst_port"}
	protocolCols   = []string{"Protocol", "protocol"}
	synCountCols   = []string{"SYN Flag Count", "syn_flag_cnt"}
	protocolByCode = map[string]string{"6": "TCP", "17": "UDP", "1": "ICMP"}
)

// ExtractFeatures reads the cascade's inputs from a cleaned chunk row,
// checking both column-name dialects for every field.
func ExtractFeatures(chunk *model.Chunk, row int) FlowFeatures {
	return FlowFeatures{
		Duration:      floatField(chunk, row, durationCols, 0),
		BytesPerSec:   floatField(chunk, row, bytesRateCols, 0),
		PacketsPerSec: floatField(chunk, row, pktsRateCols, 0),
		FwdPackets:    intField(chunk, row, fwdPktsCols, 0),
		BwdPackets:    intField(chunk, row, bwdPktsCols, 0),
		FwdBytes:      floatField(chunk, row, fwdBytesCols, 0),
		BwdBytes:      floatField(chunk, row, bwdBytesCols, 0),
		DstPort:       int(intField(chunk, row, dstPortCols, -1)),
		Protocol:      NormalizeProtocol(stringField(chunk, row, protocolCols)),
		SynCount:      intField(chunk, row, synCountCols, 0),
	}
}

// NormalizeProtocol uppercases a protocol value and maps the common IP
// protocol numbers (6/17/1) to their names for rule matching.
func NormalizeProtocol(raw string) string {
	p := strings.ToUpper(strings.TrimSpace(raw))
	// Numeric protocols may arrive as floats ("6.0") from some flow meters.
	if v, err := strconv.ParseFloat(p, 64); err == nil {
		p = strconv.Itoa(int(v))
	}
	if name, ok := protocolByCode[p]; ok {
		return name
	}
	return p
}

func stringField(chunk *model.Chunk, row int, names []string) string {
	for _, name := range names {
		if v, ok := chunk.Cell(row, name); ok {
			return v
		}
	}
	return ""
}

func floatField(chunk *model.Chunk, row int, names []string, def float64) float64 {
	for _, name := range names {
		if raw, ok := chunk.Cell(row, name); ok {
			if v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64); err == nil {
				return v
			}
			return def
		}
	}
	return def
}

func intField(chunk *model.Chunk, row int, names []string, def int64) int64 {
	for _, name := range names {
		if raw, ok := chunk.Cell(row, name); ok {
			if v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64); err == nil {
				return int64(v)
			}
			return def
		}
	}
	return def
}

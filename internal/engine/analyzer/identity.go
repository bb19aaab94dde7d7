package analyzer

import (
	"strconv"
	"strings"

	"NetSentry/internal/model"
)

// Identifying columns come in the same two dialects as the feature columns;
// the human-readable name wins when both are present. A field that cannot be
// parsed falls back to a sentinel instead of failing the row.
var (
	srcIPCols     = []string{"Source IP", "src_ip"}
	dstIPCols     = []string{"Destination IP", "dst_ip"}
	srcPortCols   = []string{"Source Port", "src_port"}
	dstPortCols   = []string{"Destination Port", "dst_port"}
	timestampCols = []string{"Timestamp", "timestamp"}
)

const unknownField = "N/A"

func textField(chunk *model.Chunk, row int, names []string, def string) string {
	for _, name := range names {
		if v, ok := chunk.Cell(row, name); ok {
			v = strings.TrimSpace(v)
			if v != "" {
				return v
			}
		}
	}
	return def
}

func portField(chunk *model.Chunk, row int, names []string) int {
	for _, name := range names {
		if raw, ok := chunk.Cell(row, name); ok {
			if v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64); err == nil {
				return int(v)
			}
			return 0
		}
	}
	return 0
}

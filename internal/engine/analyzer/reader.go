package analyzer

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"NetSentry/internal/model"
)

// chunkReader yields bounded row chunks from a flow CSV so peak memory stays
// O(chunk size) regardless of file length.
type chunkReader struct {
	csv     *csv.Reader
	columns []string
	size    int
}

// newChunkReader wraps rd, consuming the header row immediately.
func newChunkReader(rd io.Reader, size int) (*chunkReader, error) {
	r := csv.NewReader(rd)
	r.FieldsPerRecord = -1 // ragged rows are dropped during cleaning
	r.TrimLeadingSpace = true

	header, err := r.Read()
	if err == io.EOF {
		return &chunkReader{csv: r, size: size}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}

	columns := make([]string, len(header))
	for i, c := range header {
		columns[i] = strings.TrimSpace(c)
	}
	return &chunkReader{csv: r, columns: columns, size: size}, nil
}

// Next reads up to size rows. It returns io.EOF once the input is exhausted.
func (cr *chunkReader) Next() (*model.Chunk, error) {
	if cr.columns == nil {
		return nil, io.EOF
	}

	rows := make([][]string, 0, cr.size)
	for len(rows) < cr.size {
		record, err := cr.csv.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read CSV row: %w", err)
		}
		rows = append(rows, record)
	}

	if len(rows) == 0 {
		return nil, io.EOF
	}
	return &model.Chunk{Columns: cr.columns, Rows: rows}, nil
}

package model

// Chunk is a bounded slice of rows read from a flow CSV, column-oriented
// lookups done by name. Cells are kept as raw text until feature alignment.
type Chunk struct {
	Columns []string
	Rows    [][]string
}

// ColumnIndex returns the position of a column by exact name, or -1.
func (c *Chunk) ColumnIndex(name string) int {
	for i, col := range c.Columns {
		if col == name {
			return i
		}
	}
	return -1
}

// Cell returns the raw value at (row, column name) and whether the column exists.
func (c *Chunk) Cell(row int, name string) (string, bool) {
	idx := c.ColumnIndex(name)
	if idx < 0 || row < 0 || row >= len(c.Rows) || idx >= len(c.Rows[row]) {
		return "", false
	}
	return c.Rows[row][idx], true
}

// Len returns the number of rows in the chunk.
func (c *Chunk) Len() int {
	return len(c.Rows)
}

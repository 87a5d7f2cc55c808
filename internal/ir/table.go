package ir

import "strings"

// TableBlock represents a table region in the document.
type TableBlock struct {
	Rows      int      `json:"rows"`
	Cols      int      `json:"cols"`
	Cells     [][]Cell `json:"cells,omitempty"`
	Caption   string   `json:"caption,omitempty"`
	HasHeader bool     `json:"has_header,omitempty"`
}

// Cell represents a single cell in a table. Cells covered by a neighbour's span
// stay empty with Covered set.
type Cell struct {
	Text     string `json:"text"`
	RowSpan  int    `json:"row_span,omitempty"`
	ColSpan  int    `json:"col_span,omitempty"`
	IsHeader bool   `json:"is_header,omitempty"`
	Covered  bool   `json:"covered,omitempty"`
}

// NewTable creates a new table with the specified dimensions.
func NewTable(rows, cols int) *TableBlock {
	rows, cols = max(rows, 0), max(cols, 0)
	cells := make([][]Cell, rows)
	for i := range cells {
		cells[i] = make([]Cell, cols)
		for j := range cells[i] {
			cells[i][j] = Cell{RowSpan: 1, ColSpan: 1}
		}
	}
	return &TableBlock{
		Rows:  rows,
		Cols:  cols,
		Cells: cells,
	}
}

// GetCell returns the cell at the specified position, nil when out of range.
func (t *TableBlock) GetCell(row, col int) *Cell {
	if row >= 0 && row < t.Rows && col >= 0 && col < t.Cols {
		return &t.Cells[row][col]
	}
	return nil
}

// Place stores a cell anchored at (row, col) and marks the positions its span covers.
func (t *TableBlock) Place(row, col int, c Cell) {
	anchor := t.GetCell(row, col)
	if anchor == nil {
		return
	}
	c.RowSpan, c.ColSpan = max(c.RowSpan, 1), max(c.ColSpan, 1)
	*anchor = c
	for r := row; r < row+c.RowSpan; r++ {
		for k := col; k < col+c.ColSpan; k++ {
			if r == row && k == col {
				continue
			}
			if covered := t.GetCell(r, k); covered != nil {
				covered.Covered = true
			}
		}
	}
}

// SetHeaderRow marks the first row as a header row.
func (t *TableBlock) SetHeaderRow() {
	t.HasHeader = true
	if t.Rows > 0 {
		for j := range t.Cells[0] {
			t.Cells[0][j].IsHeader = true
		}
	}
}

// Text renders the table as tab separated rows. Covered cells are skipped.
func (t *TableBlock) Text() string {
	rows := make([]string, 0, t.Rows)
	for _, row := range t.Cells {
		var cols []string
		for _, c := range row {
			if c.Covered {
				continue
			}
			cols = append(cols, strings.ReplaceAll(c.Text, "\n", " "))
		}
		rows = append(rows, strings.Join(cols, "\t"))
	}
	return strings.Join(rows, "\n")
}

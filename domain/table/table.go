package table

import (
	"errors"
	"fmt"
)

// ErrRaggedColumns is returned when columns of a table differ in length
var ErrRaggedColumns = errors.New("all columns must have the same length")

// Column is a named sequence of cells aligned by row index
type Column struct {
	Name  string
	Cells []Cell
}

// NewColumn copies cells into a new column
func NewColumn(name string, cells []Cell) Column {
	cp := make([]Cell, len(cells))
	copy(cp, cells)
	return Column{Name: name, Cells: cp}
}

// IsNumeric reports numeric storage: at least one number and no text or time cells.
func (c Column) IsNumeric() bool {
	numbers := 0
	for _, cell := range c.Cells {
		switch cell.Type {
		case CellNumber:
			numbers++
		case CellText, CellTime:
			return false
		}
	}
	return numbers > 0
}

// MissingCount returns the number of missing cells
func (c Column) MissingCount() int {
	n := 0
	for _, cell := range c.Cells {
		if cell.IsMissing() {
			n++
		}
	}
	return n
}

// Floats returns the non-missing numeric values in row order
func (c Column) Floats() []float64 {
	values := make([]float64, 0, len(c.Cells))
	for _, cell := range c.Cells {
		if v, ok := cell.Float(); ok {
			values = append(values, v)
		}
	}
	return values
}

// Table is an ordered set of equal-length columns. Operations return new tables.
type Table struct {
	columns []Column
	index   map[string]int
	rows    int
}

// New builds a table, rejecting duplicate names and ragged columns
func New(columns []Column) (*Table, error) {
	t := &Table{
		columns: make([]Column, len(columns)),
		index:   make(map[string]int, len(columns)),
	}
	for i, col := range columns {
		if _, dup := t.index[col.Name]; dup {
			return nil, fmt.Errorf("duplicate column name %q", col.Name)
		}
		if i == 0 {
			t.rows = len(col.Cells)
		} else if len(col.Cells) != t.rows {
			return nil, fmt.Errorf("%w: column %q has %d rows, expected %d", ErrRaggedColumns, col.Name, len(col.Cells), t.rows)
		}
		t.columns[i] = NewColumn(col.Name, col.Cells)
		t.index[col.Name] = i
	}
	return t, nil
}

// MustNew is New for literals in tests and fixtures
func MustNew(columns ...Column) *Table {
	t, err := New(columns)
	if err != nil {
		panic(err)
	}
	return t
}

// Len returns the number of rows
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return t.rows
}

// Width returns the number of columns
func (t *Table) Width() int {
	if t == nil {
		return 0
	}
	return len(t.columns)
}

// IsEmpty reports a table without rows or columns
func (t *Table) IsEmpty() bool {
	return t.Len() == 0 || t.Width() == 0
}

// Names returns column names in original order
func (t *Table) Names() []string {
	if t == nil {
		return nil
	}
	names := make([]string, len(t.columns))
	for i, c := range t.columns {
		names[i] = c.Name
	}
	return names
}

// Columns returns the columns in original order. Callers must not modify the cells.
func (t *Table) Columns() []Column {
	if t == nil {
		return nil
	}
	return t.columns
}

// Column looks up a column by name
func (t *Table) Column(name string) (Column, bool) {
	if t == nil {
		return Column{}, false
	}
	i, ok := t.index[name]
	if !ok {
		return Column{}, false
	}
	return t.columns[i], true
}

// Has reports whether the named column exists
func (t *Table) Has(name string) bool {
	_, ok := t.Column(name)
	return ok
}

// Cell returns the cell at row of the named column
func (t *Table) Cell(name string, row int) Cell {
	col, ok := t.Column(name)
	if !ok || row < 0 || row >= len(col.Cells) {
		return Missing()
	}
	return col.Cells[row]
}

// Clone returns a deep copy of the table
func (t *Table) Clone() *Table {
	if t == nil {
		return nil
	}
	out, _ := New(t.columns)
	return out
}

// WithColumn returns a copy with the named column replaced
func (t *Table) WithColumn(col Column) (*Table, error) {
	i, ok := t.index[col.Name]
	if !ok {
		return nil, fmt.Errorf("unknown column %q", col.Name)
	}
	cols := make([]Column, len(t.columns))
	copy(cols, t.columns)
	cols[i] = col
	return New(cols)
}

// SelectRows returns a new table holding the given rows in the given order
func (t *Table) SelectRows(rows []int) *Table {
	cols := make([]Column, len(t.columns))
	for i, c := range t.columns {
		cells := make([]Cell, len(rows))
		for j, r := range rows {
			cells[j] = c.Cells[r]
		}
		cols[i] = Column{Name: c.Name, Cells: cells}
	}
	out, _ := New(cols)
	return out
}

// Row returns the cells of one row in column order
func (t *Table) Row(row int) []Cell {
	cells := make([]Cell, len(t.columns))
	for i, c := range t.columns {
		cells[i] = c.Cells[row]
	}
	return cells
}

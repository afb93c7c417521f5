// Package classifier decides which column of a raw table is the primary date axis and which
// columns are numeric or categorical, and gates tables that cannot be analysed at all.
package classifier

import (
	"strings"

	"findash/adapters/datareadiness/coercer"
	"findash/domain/finance"
	"findash/domain/table"
)

// dateIndicators are tried in priority order before falling back to every column.
// The choice is a heuristic: with several plausible date columns the first match wins.
var dateIndicators = []string{"date", "time", "day", "month", "year", "period"}

// Classifier infers column roles
type Classifier struct {
	coercer *coercer.TypeCoercer
}

// New creates a classifier using the given coercer for date parsing
func New(c *coercer.TypeCoercer) *Classifier {
	if c == nil {
		c = coercer.Default()
	}
	return &Classifier{coercer: c}
}

// Classify returns the primary date column, numeric columns and categorical columns.
// It never fails: a table without a parseable date simply has no date column.
func (c *Classifier) Classify(t *table.Table) finance.Classification {
	if t.IsEmpty() {
		return finance.Classification{Numeric: []string{}, Categorical: []string{}}
	}

	dateColumn := c.findDateColumn(t)

	cls := finance.Classification{
		DateColumn:  dateColumn,
		Numeric:     []string{},
		Categorical: []string{},
	}
	for _, col := range t.Columns() {
		switch {
		case col.Name == dateColumn:
		case col.IsNumeric():
			cls.Numeric = append(cls.Numeric, col.Name)
		default:
			cls.Categorical = append(cls.Categorical, col.Name)
		}
	}
	return cls
}

// findDateColumn runs the name-indicator pass, then the blind pass over untried columns
func (c *Classifier) findDateColumn(t *table.Table) string {
	attempted := make(map[string]bool)

	for _, indicator := range dateIndicators {
		for _, col := range t.Columns() {
			if attempted[col.Name] || !strings.Contains(strings.ToLower(col.Name), indicator) {
				continue
			}
			if c.ParsesAsDates(col) {
				return col.Name
			}
			attempted[col.Name] = true
		}
	}

	for _, col := range t.Columns() {
		if attempted[col.Name] {
			continue
		}
		if c.ParsesAsDates(col) {
			return col.Name
		}
	}
	return ""
}

// ParsesAsDates reports whether enough of the column's cells read as timestamps
func (c *Classifier) ParsesAsDates(col table.Column) bool {
	return c.coercer.AnalyzeColumn(col).ParsesAsDates
}

// NormalizeDates returns a copy of t whose date column holds time cells.
// Cells that do not parse become missing; their rows are kept.
func (c *Classifier) NormalizeDates(t *table.Table, cls finance.Classification) *table.Table {
	if !cls.HasDate() {
		return t.Clone()
	}
	col, ok := t.Column(cls.DateColumn)
	if !ok {
		return t.Clone()
	}

	cells := make([]table.Cell, len(col.Cells))
	for i, cell := range col.Cells {
		if ts, ok := c.coercer.ParseTimestamp(cell); ok {
			cells[i] = table.Time(ts)
		} else {
			cells[i] = table.Missing()
		}
	}
	out, err := t.WithColumn(table.Column{Name: col.Name, Cells: cells})
	if err != nil {
		return t.Clone()
	}
	return out
}

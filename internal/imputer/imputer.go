// Package imputer fills missing values per column role.
package imputer

import (
	"math"

	"findash/domain/finance"
	"findash/domain/table"

	"github.com/montanaflynn/stats"
)

const (
	// ZeroFillThreshold is the missing ratio above which numeric gaps are filled with 0 instead of the mean
	ZeroFillThreshold = 0.5
	// UnknownLabel fills categorical gaps
	UnknownLabel = "Unknown"
)

// Strategy names how a column's gaps were filled
type Strategy string

const (
	StrategyMean    Strategy = "mean"
	StrategyZero    Strategy = "zero"
	StrategyUnknown Strategy = "unknown"
)

// ColumnFill records what happened to one column
type ColumnFill struct {
	Column   string   `json:"column"`
	Strategy Strategy `json:"strategy"`
	Filled   int      `json:"filled"`
	Value    string   `json:"value"`
}

// Report lists the columns that had gaps
type Report struct {
	Fills []ColumnFill `json:"fills"`
}

// Impute returns a cleaned copy of t. Numeric columns get the column mean, or 0 when more than
// half the cells are missing; categorical columns get "Unknown"; the date column is untouched.
// Imputation never fails.
func Impute(t *table.Table, cls finance.Classification) (*table.Table, Report) {
	var report Report
	if t.IsEmpty() {
		return t.Clone(), report
	}

	cols := make([]table.Column, 0, t.Width())
	for _, col := range t.Columns() {
		switch cls.KindOf(col.Name) {
		case finance.KindDate:
			cols = append(cols, col)
		case finance.KindNumeric:
			filled, fill := imputeNumeric(col)
			cols = append(cols, filled)
			if fill.Filled > 0 {
				report.Fills = append(report.Fills, fill)
			}
		default:
			filled, fill := imputeCategorical(col)
			cols = append(cols, filled)
			if fill.Filled > 0 {
				report.Fills = append(report.Fills, fill)
			}
		}
	}

	out, err := table.New(cols)
	if err != nil {
		return t.Clone(), report
	}
	return out, report
}

func imputeNumeric(col table.Column) (table.Column, ColumnFill) {
	fill := ColumnFill{Column: col.Name, Strategy: StrategyMean}
	missing := col.MissingCount()
	if missing == 0 {
		return col, fill
	}

	value := 0.0
	if float64(missing)/float64(len(col.Cells)) > ZeroFillThreshold {
		fill.Strategy = StrategyZero
	} else if mean, err := stats.Mean(col.Floats()); err == nil && !math.IsNaN(mean) && !math.IsInf(mean, 0) {
		value = mean
	} else {
		fill.Strategy = StrategyZero
	}

	cells := make([]table.Cell, len(col.Cells))
	for i, cell := range col.Cells {
		if cell.IsMissing() {
			cells[i] = table.Number(value)
			fill.Filled++
		} else {
			cells[i] = cell
		}
	}
	fill.Value = table.Number(value).String()
	return table.Column{Name: col.Name, Cells: cells}, fill
}

func imputeCategorical(col table.Column) (table.Column, ColumnFill) {
	fill := ColumnFill{Column: col.Name, Strategy: StrategyUnknown, Value: UnknownLabel}
	if col.MissingCount() == 0 {
		return col, fill
	}

	cells := make([]table.Cell, len(col.Cells))
	for i, cell := range col.Cells {
		if cell.IsMissing() {
			cells[i] = table.Text(UnknownLabel)
			fill.Filled++
		} else {
			cells[i] = cell
		}
	}
	return table.Column{Name: col.Name, Cells: cells}, fill
}

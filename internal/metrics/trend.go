package metrics

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"findash/domain/finance"
	"findash/domain/table"

	"github.com/montanaflynn/stats"
)

// Trend labels of a first-to-last movement
const (
	TrendIncreasing         = "Increasing"
	TrendSlightlyIncreasing = "Slightly Increasing"
	TrendDecreasing         = "Decreasing"
	TrendSlightlyDecreasing = "Slightly Decreasing"
	TrendStable             = "Stable"
	TrendUnknown            = "Unknown"
)

// AnalyzeTrend summarizes how col moved between its earliest and latest dated value.
// Rows without a date or value are ignored.
func (e *Engine) AnalyzeTrend(t *table.Table, dateCol, col string) finance.TrendSummary {
	summary := finance.TrendSummary{Column: col, Trend: TrendUnknown}

	series := datedSeries(t, dateCol, col)
	if len(series) < 2 {
		summary.Description = "Not enough data points for trend analysis"
		return summary
	}

	values := make([]float64, len(series))
	for i, p := range series {
		values[i] = p.value
	}
	first, last := values[0], values[len(values)-1]
	change, _ := percentChange(first, last)
	summary.ChangePct = change
	summary.Average, _ = stats.Mean(values)

	switch {
	case change > 5:
		summary.Trend = TrendIncreasing
		summary.Description = fmt.Sprintf("Strong upward trend with %.2f%% growth", change)
	case change > 0:
		summary.Trend = TrendSlightlyIncreasing
		summary.Description = fmt.Sprintf("Slight upward trend with %.2f%% growth", change)
	case change < -5:
		summary.Trend = TrendDecreasing
		summary.Description = fmt.Sprintf("Strong downward trend with %.2f%% decline", math.Abs(change))
	case change < 0:
		summary.Trend = TrendSlightlyDecreasing
		summary.Description = fmt.Sprintf("Slight downward trend with %.2f%% decline", math.Abs(change))
	default:
		summary.Trend = TrendStable
		summary.Description = "Stable with minimal change over time"
	}

	if len(values) > 2 {
		std, _ := stats.StandardDeviationSample(values)
		if summary.Average != 0 {
			summary.Volatility = std / summary.Average
		}
		switch {
		case summary.Volatility > 0.2:
			summary.VolatilityLevel = "High"
		case summary.Volatility > 0.1:
			summary.VolatilityLevel = "Moderate"
		default:
			summary.VolatilityLevel = "Low"
		}
		summary.Description += fmt.Sprintf(" with %s volatility", strings.ToLower(summary.VolatilityLevel))
	}

	return summary
}

// Breakdown counts rows per category and sums valueCol within each, largest group first.
// An empty valueCol counts rows only. Missing categories are skipped.
func (e *Engine) Breakdown(t *table.Table, categoryCol, valueCol string) finance.CategoryBreakdown {
	out := finance.CategoryBreakdown{CategoryColumn: categoryCol, ValueColumn: valueCol, Shares: []finance.CategoryShare{}}
	cats, ok := t.Column(categoryCol)
	if !ok {
		return out
	}
	vals, hasValues := t.Column(valueCol)

	index := map[string]int{}
	total := 0
	for i, cell := range cats.Cells {
		if cell.IsMissing() {
			continue
		}
		key := cell.String()
		pos, seen := index[key]
		if !seen {
			pos = len(out.Shares)
			index[key] = pos
			out.Shares = append(out.Shares, finance.CategoryShare{Category: key})
		}
		out.Shares[pos].Count++
		total++
		if hasValues {
			if v, ok := vals.Cells[i].Float(); ok {
				out.Shares[pos].Sum += v
			}
		}
	}

	for i := range out.Shares {
		out.Shares[i].Percent = round2(float64(out.Shares[i].Count) / float64(total) * 100)
	}
	sort.SliceStable(out.Shares, func(i, j int) bool {
		return out.Shares[i].Count > out.Shares[j].Count
	})
	return out
}

type datedPoint struct {
	date  time.Time
	value float64
}

// datedSeries returns the (date, value) pairs of col sorted by date
func datedSeries(t *table.Table, dateCol, col string) []datedPoint {
	dates, ok := t.Column(dateCol)
	if !ok {
		return nil
	}
	values, ok := t.Column(col)
	if !ok {
		return nil
	}

	var series []datedPoint
	for i := range values.Cells {
		d, ok := dates.Cells[i].Timestamp()
		if !ok {
			continue
		}
		v, ok := values.Cells[i].Float()
		if !ok {
			continue
		}
		series = append(series, datedPoint{date: d, value: v})
	}
	sort.SliceStable(series, func(i, j int) bool {
		return series[i].date.Before(series[j].date)
	})
	return series
}

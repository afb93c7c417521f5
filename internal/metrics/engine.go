// Package metrics derives per-column and keyword-matched financial metrics,
// descriptive statistics, trend summaries and categorical breakdowns from a cleaned table.
package metrics

import (
	"fmt"

	"findash/domain/finance"
	"findash/domain/table"

	"github.com/montanaflynn/stats"
)

// Aggregate metric names
const (
	MetricTotalRevenue     = "Total Revenue"
	MetricTotalExpenses    = "Total Expenses"
	MetricNetProfit        = "Net Profit"
	MetricProfitMargin     = "Profit Margin %"
	MetricTotalAssets      = "Total Assets"
	MetricTotalLiabilities = "Total Liabilities"
	MetricROI              = "ROI %"
)

// AvgName, ChangeName and VolatilityName build per-column metric names
func AvgName(col string) string        { return "Avg " + col }
func ChangeName(col string) string     { return col + " Change %" }
func VolatilityName(col string) string { return col + " Volatility" }

type aggregation int

const (
	aggSum aggregation = iota
	aggMean
)

// aggregateRule maps the first column of a keyword category to a named aggregate
type aggregateRule struct {
	category finance.Category
	metric   string
	agg      aggregation
}

var (
	flowRules = []aggregateRule{
		{category: finance.CategoryRevenue, metric: MetricTotalRevenue, agg: aggSum},
		{category: finance.CategoryExpense, metric: MetricTotalExpenses, agg: aggSum},
	}
	balanceRules = []aggregateRule{
		{category: finance.CategoryAsset, metric: MetricTotalAssets, agg: aggMean},
		{category: finance.CategoryLiability, metric: MetricTotalLiabilities, agg: aggMean},
	}
)

// Engine computes metrics. It holds no state and is safe for concurrent use.
type Engine struct{}

// NewEngine creates a metrics engine
func NewEngine() *Engine {
	return &Engine{}
}

// Financial computes per-column metrics for every numeric column with data, followed by
// the keyword-matched aggregates. Guarded divisions omit the metric instead of failing.
func (e *Engine) Financial(t *table.Table, numeric []string) finance.Metrics {
	metrics := finance.Metrics{}
	if t.IsEmpty() {
		return metrics
	}

	var present []string
	for _, name := range numeric {
		col, ok := t.Column(name)
		if !ok {
			continue
		}
		values := col.Floats()
		if len(values) == 0 {
			continue
		}
		present = append(present, name)

		mean, _ := stats.Mean(values)
		metrics = append(metrics, finance.Metric{Name: AvgName(name), Value: mean})

		if len(values) >= 2 {
			if change, ok := percentChange(values[0], values[len(values)-1]); ok {
				metrics = append(metrics, finance.Metric{Name: ChangeName(name), Value: change})
			}
		}
		if len(values) >= 3 {
			std, _ := stats.StandardDeviationSample(values)
			metrics = append(metrics, finance.Metric{Name: VolatilityName(name), Value: std})
		}
	}

	totals := map[string]float64{}
	for _, rule := range flowRules {
		if v, ok := aggregateFirst(t, present, rule); ok {
			totals[rule.metric] = v
			metrics = append(metrics, finance.Metric{Name: rule.metric, Value: v})
		}
	}

	revenue, hasRevenue := totals[MetricTotalRevenue]
	expenses, hasExpenses := totals[MetricTotalExpenses]
	if hasRevenue && hasExpenses {
		profit := revenue - expenses
		metrics = append(metrics, finance.Metric{Name: MetricNetProfit, Value: profit})
		if revenue != 0 {
			metrics = append(metrics, finance.Metric{Name: MetricProfitMargin, Value: profit / revenue * 100})
		}
	}

	for _, rule := range balanceRules {
		if v, ok := aggregateFirst(t, present, rule); ok {
			metrics = append(metrics, finance.Metric{Name: rule.metric, Value: v})
		}
	}

	if roi, ok := returnOnInvestment(t, present); ok {
		metrics = append(metrics, finance.Metric{Name: MetricROI, Value: roi})
	}

	return metrics
}

func aggregateFirst(t *table.Table, names []string, rule aggregateRule) (float64, bool) {
	name, ok := finance.MatchFirst(rule.category, names)
	if !ok {
		return 0, false
	}
	col, _ := t.Column(name)
	values := col.Floats()

	var (
		v   float64
		err error
	)
	switch rule.agg {
	case aggSum:
		v, err = stats.Sum(values)
	case aggMean:
		v, err = stats.Mean(values)
	default:
		err = fmt.Errorf("unknown aggregation %d", rule.agg)
	}
	if err != nil {
		return 0, false
	}
	return v, true
}

func returnOnInvestment(t *table.Table, names []string) (float64, bool) {
	invName, ok := finance.MatchFirst(finance.CategoryInvestment, names)
	if !ok {
		return 0, false
	}
	retName, ok := finance.MatchFirst(finance.CategoryReturn, names)
	if !ok {
		return 0, false
	}
	inv, _ := t.Column(invName)
	ret, _ := t.Column(retName)

	invMean, err := stats.Mean(inv.Floats())
	if err != nil || invMean == 0 {
		return 0, false
	}
	retMean, err := stats.Mean(ret.Floats())
	if err != nil {
		return 0, false
	}
	return retMean / invMean * 100, true
}

// percentChange is (last-first)/first*100, not defined for a zero base
func percentChange(first, last float64) (float64, bool) {
	if first == 0 {
		return 0, false
	}
	return (last - first) / first * 100, true
}

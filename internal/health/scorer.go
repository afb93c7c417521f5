// Package health folds revenue, expense, margin and volatility trends into a bounded 0-100 score.
package health

import (
	"math"

	"findash/domain/finance"
	"findash/domain/table"

	"github.com/montanaflynn/stats"
	"gonum.org/v1/gonum/stat"
)

const (
	// MinRows is the fewest rows the scorer will rate
	MinRows = 10

	DescriptionNotEnoughRows = "Not enough data for financial health prediction"
	DescriptionNoFeatures    = "Insufficient financial data for health prediction"
	marginScale              = 100.0
)

// feature weights before renormalisation
var weights = map[finance.HealthFeature]float64{
	finance.FeatureRevenueTrend:      0.4,
	finance.FeatureExpenseTrend:      0.3,
	finance.FeatureProfitMarginTrend: 0.3,
	finance.FeatureVolatility:        0.1,
}

// band maps a minimum score onto a label and description
type band struct {
	min         int
	label       string
	description string
}

var bands = []band{
	{80, "excellent", "Excellent financial health with strong positive trends"},
	{60, "good", "Good financial health with generally positive indicators"},
	{40, "moderate", "Moderate financial health with mixed indicators"},
	{20, "concerning", "Concerning financial health with several negative trends"},
	{0, "poor", "Poor financial health with significant negative indicators"},
}

// Scorer computes health scores. It is stateless.
type Scorer struct{}

// NewScorer creates a scorer
func NewScorer() *Scorer {
	return &Scorer{}
}

type feature struct {
	name  finance.HealthFeature
	value float64
}

// Score rates the table. Revenue and expense columns are the first numeric columns matching
// their keywords; every other numeric column with a non-zero mean feeds volatility.
// Too few rows or no usable feature gives a nil score with an explanation.
func (s *Scorer) Score(t *table.Table, numeric []string) finance.HealthScore {
	if t.Len() < MinRows {
		return finance.HealthScore{Description: DescriptionNotEnoughRows}
	}

	var present []string
	for _, name := range numeric {
		if t.Has(name) {
			present = append(present, name)
		}
	}

	features := collectFeatures(t, present)
	if len(features) == 0 {
		return finance.HealthScore{Description: DescriptionNoFeatures}
	}

	total := 0.0
	for _, f := range features {
		total += weights[f.name]
	}

	result := finance.HealthScore{}
	for _, f := range features {
		clipped := math.Max(-1, math.Min(1, f.value))
		w := weights[f.name] / total
		c := clipped * w
		result.Composite += c
		result.Contributions = append(result.Contributions, finance.Contribution{
			Feature:      f.name,
			Raw:          f.value,
			Clipped:      clipped,
			Weight:       w,
			Contribution: c,
		})
	}

	score := int(math.Round((result.Composite + 1) * 50))
	score = max(0, min(100, score))
	result.Score = &score
	b := bandFor(score)
	result.Label = b.label
	result.Description = b.description
	return result
}

// Label returns the band label of a score
func Label(score int) string {
	return bandFor(score).label
}

func bandFor(score int) band {
	for _, b := range bands {
		if score >= b.min {
			return b
		}
	}
	return bands[len(bands)-1]
}

func collectFeatures(t *table.Table, numeric []string) []feature {
	var features []feature

	revName, hasRevenue := finance.MatchFirst(finance.CategoryRevenue, numeric)
	expName, hasExpense := finance.MatchFirst(finance.CategoryExpense, numeric)

	var revenue, expense []float64
	if hasRevenue {
		revenue = rowValues(t, revName)
		features = append(features, feature{finance.FeatureRevenueTrend, normalizedSlope(revenue)})
	}
	if hasExpense {
		expense = rowValues(t, expName)
		features = append(features, feature{finance.FeatureExpenseTrend, -normalizedSlope(expense)})
	}
	if hasRevenue && hasExpense {
		margins := make([]float64, len(revenue))
		for i := range revenue {
			if revenue[i] != 0 {
				margins[i] = (revenue[i] - expense[i]) / revenue[i]
			}
		}
		features = append(features, feature{finance.FeatureProfitMarginTrend, indexSlope(margins) * marginScale})
	}

	var ratios []float64
	for _, name := range numeric {
		if finance.Matches(finance.CategoryRevenue, name) || finance.Matches(finance.CategoryExpense, name) {
			continue
		}
		values := rowValues(t, name)
		if len(values) == 0 {
			continue
		}
		mean, std := stat.PopMeanStdDev(values, nil)
		if mean == 0 || math.IsNaN(mean) {
			continue
		}
		ratios = append(ratios, std/mean)
	}
	if len(ratios) > 0 {
		avg, _ := stats.Mean(ratios)
		features = append(features, feature{finance.FeatureVolatility, -avg})
	}

	return features
}

// rowValues returns the column's values by row; missing cells read as 0
func rowValues(t *table.Table, name string) []float64 {
	col, _ := t.Column(name)
	values := make([]float64, len(col.Cells))
	for i, cell := range col.Cells {
		values[i], _ = cell.Float()
	}
	return values
}

// normalizedSlope is the row-index slope divided by the mean, 0 for a zero mean
func normalizedSlope(values []float64) float64 {
	mean, _ := stats.Mean(values)
	if mean == 0 {
		return 0
	}
	return indexSlope(values) / mean
}

// indexSlope is the OLS slope of values against 0..n-1
func indexSlope(values []float64) float64 {
	if len(values) < 2 {
		return 0
	}
	x := make([]float64, len(values))
	for i := range x {
		x[i] = float64(i)
	}
	_, slope := stat.LinearRegression(x, values, nil, false)
	return slope
}

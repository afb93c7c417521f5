// Package forecast projects a numeric series forward with an ordinary least squares line
// over day offsets and a fixed-width ±2σ residual band.
package forecast

import (
	"fmt"
	"math"
	"sort"
	"time"

	"findash/domain/core"
	"findash/domain/finance"
	"findash/domain/table"

	"github.com/montanaflynn/stats"
	"gonum.org/v1/gonum/stat"
)

const (
	// MinPoints is the fewest (date, value) pairs a projection accepts
	MinPoints = 10
	// DefaultHorizon is used when the caller passes a zero horizon
	DefaultHorizon = 30
	// MaxHorizon bounds the number of projected days
	MaxHorizon = 365

	strongThreshold = 5.0
	hoursPerDay     = 24
)

// ErrInvalidHorizon is returned for a horizon outside 1..MaxHorizon
var ErrInvalidHorizon = fmt.Errorf("forecast: horizon must be between 1 and %d days: %w", MaxHorizon, core.ErrInvalidInput)

// Projector fits and extends linear trends. It is stateless.
type Projector struct{}

// NewProjector creates a projector
func NewProjector() *Projector {
	return &Projector{}
}

type observation struct {
	date  time.Time
	value float64
}

// Predict projects col forward by days (0 means DefaultHorizon) using dateCol as the time axis.
// Rows with a missing date or value are skipped.
func (p *Projector) Predict(t *table.Table, dateCol, col string, days int) (finance.Prediction, error) {
	if days == 0 {
		days = DefaultHorizon
	}
	if days < 0 || days > MaxHorizon {
		return finance.Prediction{}, ErrInvalidHorizon
	}
	if !t.Has(dateCol) {
		return finance.Prediction{}, core.NewUnknownColumnError(dateCol)
	}
	if !t.Has(col) {
		return finance.Prediction{}, core.NewUnknownColumnError(col)
	}

	obs := observations(t, dateCol, col)
	if len(obs) < MinPoints {
		return finance.Prediction{}, fmt.Errorf("forecast %q: %w", col, core.NewInsufficientDataError(len(obs), MinPoints))
	}

	first := obs[0].date
	x := make([]float64, len(obs))
	y := make([]float64, len(obs))
	for i, o := range obs {
		x[i] = dayOffset(first, o.date)
		y[i] = o.value
	}

	intercept, slope := fitLine(x, y)

	residuals := make([]float64, len(obs))
	for i := range obs {
		residuals[i] = y[i] - (intercept + slope*x[i])
	}
	_, sigma := stat.PopMeanStdDev(residuals, nil)
	band := 2 * sigma

	lastOffset := x[len(x)-1]
	lastDate := obs[len(obs)-1].date
	points := make([]finance.ForecastPoint, days)
	projected := make([]float64, days)
	for i := 0; i < days; i++ {
		v := intercept + slope*(lastOffset+float64(i+1))
		projected[i] = v
		points[i] = finance.ForecastPoint{
			Date:  lastDate.AddDate(0, 0, i+1),
			Value: v,
			Lower: v - band,
			Upper: v + band,
		}
	}

	avg, _ := stats.Mean(projected)
	last := y[len(y)-1]
	change := 0.0
	if last != 0 {
		change = (avg - last) / last * 100
	}
	trend := Classify(change)

	return finance.Prediction{
		Column:            col,
		Days:              days,
		AveragePrediction: avg,
		LastValue:         last,
		PercentChange:     change,
		Trend:             trend,
		Description:       describe(trend, change),
		ErrorBound:        band,
		Slope:             slope,
		Intercept:         intercept,
		Points:            points,
	}, nil
}

// IsInsufficientData reports whether err came from too few points
func IsInsufficientData(err error) bool {
	return core.IsInsufficientData(err)
}

// Classify maps a percent change onto a trend label
func Classify(change float64) finance.TrendLabel {
	switch {
	case change > strongThreshold:
		return finance.TrendStrongUp
	case change > 0:
		return finance.TrendSlightUp
	case change < -strongThreshold:
		return finance.TrendStrongDown
	case change < 0:
		return finance.TrendSlightDown
	default:
		return finance.TrendStable
	}
}

func describe(trend finance.TrendLabel, change float64) string {
	switch trend {
	case finance.TrendStrongUp:
		return fmt.Sprintf("Strong upward trend predicted with projected %.2f%% increase", change)
	case finance.TrendSlightUp:
		return fmt.Sprintf("Slight upward trend predicted with projected %.2f%% increase", change)
	case finance.TrendStrongDown:
		return fmt.Sprintf("Strong downward trend predicted with projected %.2f%% decrease", math.Abs(change))
	case finance.TrendSlightDown:
		return fmt.Sprintf("Slight downward trend predicted with projected %.2f%% decrease", math.Abs(change))
	default:
		return "Stable trend predicted with minimal change"
	}
}

// fitLine returns the OLS intercept and slope of y on x. A degenerate x (all equal)
// yields a flat line through the mean.
func fitLine(x, y []float64) (intercept, slope float64) {
	if stat.Variance(x, nil) == 0 {
		return stat.Mean(y, nil), 0
	}
	return stat.LinearRegression(x, y, nil, false)
}

// dayOffset is the number of whole days from first to d
func dayOffset(first, d time.Time) float64 {
	return math.Floor(d.Sub(first).Hours() / hoursPerDay)
}

func observations(t *table.Table, dateCol, col string) []observation {
	dates, _ := t.Column(dateCol)
	values, _ := t.Column(col)

	obs := make([]observation, 0, len(values.Cells))
	for i := range values.Cells {
		d, ok := dates.Cells[i].Timestamp()
		if !ok {
			continue
		}
		v, ok := values.Cells[i].Float()
		if !ok {
			continue
		}
		obs = append(obs, observation{date: d, value: v})
	}
	sort.SliceStable(obs, func(i, j int) bool {
		return obs[i].date.Before(obs[j].date)
	})
	return obs
}

package app

import (
	"context"
	"fmt"
	"sort"
	"time"

	"findash/domain/core"
	"findash/domain/finance"
	"findash/domain/table"
	"findash/internal"
	"findash/internal/classifier"
	"findash/internal/errors"
	"findash/internal/filter"
	"findash/internal/forecast"
	"findash/internal/health"
	"findash/internal/imputer"
	"findash/internal/metrics"
	"findash/ports"

	"golang.org/x/sync/errgroup"
)

// DashboardService runs the cleaning pipeline and fans the cleaned table out to the
// metrics, forecast and health consumers
type DashboardService struct {
	classifier     *classifier.Classifier
	metrics        *metrics.Engine
	projector      *forecast.Projector
	scorer         *health.Scorer
	logger         *internal.Logger
	defaultHorizon int
}

// PreparedTable is a validated, classified, imputed table sorted by date
type PreparedTable struct {
	Table          *table.Table             `json:"-"`
	Fingerprint    core.Hash                `json:"fingerprint"` // of the raw table
	Classification finance.Classification   `json:"classification"`
	Validation     finance.ValidationReport `json:"validation"`
	Imputation     imputer.Report           `json:"imputation"`
}

// AnalyzeRequest selects the slice of a prepared table to analyze
type AnalyzeRequest struct {
	DateRange      filter.DateRange
	CategoryColumn string
	Categories     []string
	PredictColumns []string // empty predicts every numeric column
	Days           int      // 0 uses the service default
	SkipPredict    bool
}

// PredictionOutcome is a prediction or the reason there is none
type PredictionOutcome struct {
	Column     string              `json:"column"`
	Available  bool                `json:"available"`
	Prediction *finance.Prediction `json:"prediction,omitempty"`
	Note       string              `json:"note,omitempty"`
}

// Dashboard collects every derived view of one analysis
type Dashboard struct {
	ID                 core.DashboardID            `json:"id"`
	SourceFingerprint  core.Hash                   `json:"source_fingerprint"`
	GeneratedAt        time.Time                   `json:"generated_at"`
	Rows               int                         `json:"rows"`
	DateColumn         string                      `json:"date_column"`
	NumericColumns     []string                    `json:"numeric_columns"`
	CategoricalColumns []string                    `json:"categorical_columns"`
	From               *time.Time                  `json:"from,omitempty"`
	To                 *time.Time                  `json:"to,omitempty"`
	Validation         finance.ValidationReport    `json:"validation"`
	Summary            []finance.SummaryRow        `json:"summary"`
	Metrics            finance.Metrics             `json:"metrics"`
	Trends             []finance.TrendSummary      `json:"trends"`
	Breakdowns         []finance.CategoryBreakdown `json:"breakdowns"`
	Predictions        []PredictionOutcome         `json:"predictions"`
	Health             finance.HealthScore         `json:"health"`
}

// NewDashboardService creates a dashboard service. A non-positive defaultHorizon falls back
// to forecast.DefaultHorizon.
func NewDashboardService(c *classifier.Classifier, logger *internal.Logger, defaultHorizon int) *DashboardService {
	if c == nil {
		c = classifier.New(nil)
	}
	if logger == nil {
		logger = internal.DefaultLogger
	}
	if defaultHorizon <= 0 {
		defaultHorizon = forecast.DefaultHorizon
	}
	return &DashboardService{
		classifier:     c,
		metrics:        metrics.NewEngine(),
		projector:      forecast.NewProjector(),
		scorer:         health.NewScorer(),
		logger:         logger.With("DashboardService"),
		defaultHorizon: defaultHorizon,
	}
}

// Load reads a raw table from reader and prepares it
func (s *DashboardService) Load(ctx context.Context, reader ports.TableReader) (*PreparedTable, error) {
	raw, err := reader.ReadTable(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read table")
	}
	return s.Prepare(ctx, raw)
}

// Prepare validates, classifies, normalizes dates, imputes and sorts raw by date with
// undated rows last. raw is not modified.
func (s *DashboardService) Prepare(ctx context.Context, raw *table.Table) (*PreparedTable, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	report, err := s.classifier.Validate(raw)
	if err != nil {
		s.logger.Warn("Rejected table: %v", err)
		return nil, err
	}

	cls := s.classifier.Classify(raw)
	normalized := s.classifier.NormalizeDates(raw, cls)
	cleaned, fills := imputer.Impute(normalized, cls)
	for _, f := range fills.Fills {
		s.logger.Debug("Imputed %d cells of %s with %s (%s)", f.Filled, f.Column, f.Value, f.Strategy)
	}

	sorted := sortByDate(cleaned, cls.DateColumn)
	s.logger.Info("Prepared table: %d rows, date column %q, %d numeric, %d categorical",
		sorted.Len(), cls.DateColumn, len(cls.Numeric), len(cls.Categorical))

	return &PreparedTable{
		Table:          sorted,
		Fingerprint:    raw.Fingerprint(),
		Classification: cls,
		Validation:     report,
		Imputation:     fills,
	}, nil
}

// Analyze filters the prepared table and computes every dashboard view concurrently.
// Too little data for a prediction is reported per column, never as an error.
func (s *DashboardService) Analyze(ctx context.Context, p *PreparedTable, req AnalyzeRequest) (*Dashboard, error) {
	if p == nil || p.Table == nil {
		return nil, errors.InvalidInput("no prepared table")
	}
	cls := p.Classification

	predictCols, err := s.predictColumns(p, req)
	if err != nil {
		return nil, err
	}
	days := req.Days
	if days == 0 {
		days = s.defaultHorizon
	}
	if days < 1 || days > forecast.MaxHorizon {
		return nil, errors.Wrap(forecast.ErrInvalidHorizon, fmt.Sprintf("invalid horizon %d", days))
	}

	t := filter.ByDateRange(p.Table, cls.DateColumn, req.DateRange)
	t = filter.ByCategory(t, req.CategoryColumn, req.Categories)

	d := &Dashboard{
		ID:                 core.NewDashboardID(),
		SourceFingerprint:  p.Fingerprint,
		GeneratedAt:        time.Now().UTC(),
		Rows:               t.Len(),
		DateColumn:         cls.DateColumn,
		NumericColumns:     cls.Numeric,
		CategoricalColumns: cls.Categorical,
		Validation:         p.Validation,
	}
	if from, to, ok := filter.Bounds(t, cls.DateColumn); ok {
		d.From, d.To = &from, &to
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		d.Summary = s.metrics.Summary(t, cls.Numeric)
		return gctx.Err()
	})
	g.Go(func() error {
		d.Metrics = s.metrics.Financial(t, cls.Numeric)
		return gctx.Err()
	})
	g.Go(func() error {
		d.Trends = make([]finance.TrendSummary, 0, len(cls.Numeric))
		for _, col := range cls.Numeric {
			d.Trends = append(d.Trends, s.metrics.AnalyzeTrend(t, cls.DateColumn, col))
		}
		return gctx.Err()
	})
	g.Go(func() error {
		d.Breakdowns = make([]finance.CategoryBreakdown, 0, len(cls.Categorical))
		valueCol := ""
		if len(cls.Numeric) > 0 {
			valueCol = cls.Numeric[0]
		}
		for _, col := range cls.Categorical {
			d.Breakdowns = append(d.Breakdowns, s.metrics.Breakdown(t, col, valueCol))
		}
		return gctx.Err()
	})
	g.Go(func() error {
		d.Predictions = make([]PredictionOutcome, 0, len(predictCols))
		for _, col := range predictCols {
			if err := gctx.Err(); err != nil {
				return err
			}
			outcome, err := s.predict(t, cls.DateColumn, col, days)
			if err != nil {
				return err
			}
			d.Predictions = append(d.Predictions, outcome)
		}
		return nil
	})
	g.Go(func() error {
		d.Health = s.scorer.Score(t, cls.Numeric)
		return gctx.Err()
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	s.logger.Info("Dashboard %s: %d rows, %d metrics, %d predictions", d.ID, d.Rows, len(d.Metrics), len(d.Predictions))
	return d, nil
}

// Predict projects one column of a prepared table
func (s *DashboardService) Predict(ctx context.Context, p *PreparedTable, col string, days int) (PredictionOutcome, error) {
	if err := ctx.Err(); err != nil {
		return PredictionOutcome{}, err
	}
	if p == nil || p.Table == nil {
		return PredictionOutcome{}, errors.InvalidInput("no prepared table")
	}
	if p.Classification.KindOf(col) != finance.KindNumeric {
		return PredictionOutcome{}, errors.Wrap(core.NewUnknownColumnError(col), "prediction needs a numeric column")
	}
	if days == 0 {
		days = s.defaultHorizon
	}
	return s.predict(p.Table, p.Classification.DateColumn, col, days)
}

func (s *DashboardService) predict(t *table.Table, dateCol, col string, days int) (PredictionOutcome, error) {
	pred, err := s.projector.Predict(t, dateCol, col, days)
	switch {
	case err == nil:
		return PredictionOutcome{Column: col, Available: true, Prediction: &pred}, nil
	case forecast.IsInsufficientData(err):
		s.logger.Debug("No prediction for %s: %v", col, err)
		return PredictionOutcome{
			Column: col,
			Note:   fmt.Sprintf("Not enough data points for reliable prediction. Need at least %d data points.", forecast.MinPoints),
		}, nil
	default:
		return PredictionOutcome{}, errors.Wrapf(err, "prediction for %s failed", col)
	}
}

func (s *DashboardService) predictColumns(p *PreparedTable, req AnalyzeRequest) ([]string, error) {
	if req.SkipPredict {
		return nil, nil
	}
	if len(req.PredictColumns) == 0 {
		return p.Classification.Numeric, nil
	}
	for _, col := range req.PredictColumns {
		if p.Classification.KindOf(col) != finance.KindNumeric {
			return nil, errors.Wrap(core.NewUnknownColumnError(col), "prediction needs a numeric column")
		}
	}
	return req.PredictColumns, nil
}

// sortByDate stably orders rows by dateCol, undated rows last
func sortByDate(t *table.Table, dateCol string) *table.Table {
	col, ok := t.Column(dateCol)
	if !ok {
		return t
	}
	order := make([]int, t.Len())
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		da, okA := col.Cells[order[a]].Timestamp()
		db, okB := col.Cells[order[b]].Timestamp()
		if okA != okB {
			return okA
		}
		return okA && da.Before(db)
	})
	return t.SelectRows(order)
}

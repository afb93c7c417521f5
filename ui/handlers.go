package ui

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"time"

	"findash/adapters/excel"
	"findash/app"
	"findash/internal/classifier"
	"findash/internal/errors"
	"findash/internal/filter"
	"findash/internal/report"

	"github.com/gin-gonic/gin"
)

// TableRequest carries a table as a header row plus data rows of JSON scalars
type TableRequest struct {
	Columns []string        `json:"columns" binding:"required,min=1"`
	Rows    [][]interface{} `json:"rows"`
}

// AnalyzeRequest is the body of /analyze and /report
type AnalyzeRequest struct {
	TableRequest
	From           string   `json:"from"`
	To             string   `json:"to"`
	CategoryColumn string   `json:"category_column"`
	Categories     []string `json:"categories"`
	Predict        []string `json:"predict"`
	Days           int      `json:"days" binding:"min=0,max=365"`
}

// PredictRequest is the body of /predict
type PredictRequest struct {
	TableRequest
	Column string `json:"column" binding:"required"`
	Days   int    `json:"days" binding:"min=0,max=365"`
}

const requestDateLayout = "2006-01-02"

func (s *Server) handleValidate(c *gin.Context) {
	var req TableRequest
	if !s.bind(c, "validate", &req) {
		return
	}
	p, ok := s.prepare(c, "validate", req)
	if !ok {
		return
	}
	s.metrics.outcome("validate", "ok")
	c.JSON(http.StatusOK, gin.H{
		"valid":               true,
		"message":             p.Validation.Message,
		"date_column":         p.Classification.DateColumn,
		"numeric_columns":     p.Classification.Numeric,
		"categorical_columns": p.Classification.Categorical,
		"financial_columns":   p.Validation.FinancialColumns,
		"imputation":          p.Imputation,
	})
}

func (s *Server) handleAnalyze(c *gin.Context) {
	d, ok := s.analyze(c, "analyze")
	if !ok {
		return
	}
	c.JSON(http.StatusOK, d)
}

func (s *Server) handleReport(c *gin.Context) {
	format := c.DefaultQuery("format", "markdown")
	if format != "markdown" && format != "html" {
		s.fail(c, "report", errors.InvalidInput(fmt.Sprintf("unknown report format %q", format)))
		return
	}
	d, ok := s.analyze(c, "report")
	if !ok {
		return
	}
	if format == "html" {
		c.Data(http.StatusOK, "text/html; charset=utf-8", report.HTML(d))
		return
	}
	c.Data(http.StatusOK, "text/markdown; charset=utf-8", []byte(report.Markdown(d)))
}

func (s *Server) handlePredict(c *gin.Context) {
	var req PredictRequest
	if !s.bind(c, "predict", &req) {
		return
	}
	p, ok := s.prepare(c, "predict", req.TableRequest)
	if !ok {
		return
	}
	out, err := s.service.Predict(c.Request.Context(), p, req.Column, req.Days)
	if err != nil {
		s.fail(c, "predict", err)
		return
	}
	if out.Available {
		s.metrics.outcome("predict", "ok")
	} else {
		s.metrics.outcome("predict", "insufficient")
	}
	c.JSON(http.StatusOK, out)
}

func (s *Server) analyze(c *gin.Context, operation string) (*app.Dashboard, bool) {
	var req AnalyzeRequest
	if !s.bind(c, operation, &req) {
		return nil, false
	}
	dr, err := parseDateRange(req.From, req.To)
	if err != nil {
		s.fail(c, operation, err)
		return nil, false
	}
	p, ok := s.prepare(c, operation, req.TableRequest)
	if !ok {
		return nil, false
	}
	d, err := s.service.Analyze(c.Request.Context(), p, app.AnalyzeRequest{
		DateRange:      dr,
		CategoryColumn: req.CategoryColumn,
		Categories:     req.Categories,
		PredictColumns: req.Predict,
		Days:           req.Days,
	})
	if err != nil {
		s.fail(c, operation, err)
		return nil, false
	}
	s.metrics.outcome(operation, "ok")
	return d, true
}

// bind decodes and validates the JSON body, answering 400 on failure
func (s *Server) bind(c *gin.Context, operation string, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		s.fail(c, operation, errors.InvalidInput("malformed request: "+err.Error()))
		return false
	}
	return true
}

func (s *Server) prepare(c *gin.Context, operation string, req TableRequest) (*app.PreparedTable, bool) {
	raw, err := excel.FromRecords(req.Columns, req.Rows, s.coercer)
	if err != nil {
		s.fail(c, operation, err)
		return nil, false
	}
	s.metrics.tableRows.Observe(float64(raw.Len()))
	p, err := s.service.Prepare(c.Request.Context(), raw)
	if err != nil {
		s.fail(c, operation, err)
		return nil, false
	}
	return p, true
}

// fail answers with the status implied by err and a JSON error body
func (s *Server) fail(c *gin.Context, operation string, err error) {
	status := errors.HTTPStatus(err)
	body := gin.H{"error": err.Error(), "code": errors.GetCode(err)}

	var verr *classifier.ValidationError
	switch {
	case stderrors.As(err, &verr):
		body["error"] = verr.Reason
		s.metrics.outcome(operation, "rejected")
	case status >= http.StatusInternalServerError:
		s.logger.Error("%s failed: %v", operation, err)
		if !errors.IsAppError(err) {
			body["error"] = "internal error"
		}
		s.metrics.outcome(operation, "error")
	default:
		s.metrics.outcome(operation, "invalid")
	}
	c.AbortWithStatusJSON(status, body)
}

func parseDateRange(from, to string) (filter.DateRange, error) {
	var dr filter.DateRange
	var err error
	if from != "" {
		if dr.From, err = time.Parse(requestDateLayout, from); err != nil {
			return dr, errors.InvalidInput(fmt.Sprintf("from: expected YYYY-MM-DD, got %q", from))
		}
	}
	if to != "" {
		if dr.To, err = time.Parse(requestDateLayout, to); err != nil {
			return dr, errors.InvalidInput(fmt.Sprintf("to: expected YYYY-MM-DD, got %q", to))
		}
	}
	if !dr.From.IsZero() && !dr.To.IsZero() && dr.To.Before(dr.From) {
		return dr, errors.InvalidInput("to is before from")
	}
	return dr, nil
}

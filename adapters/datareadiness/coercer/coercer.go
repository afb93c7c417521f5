package coercer

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"findash/domain/table"
)

// TypeCoercer handles deterministic type coercion of raw spreadsheet values into cells
type TypeCoercer struct {
	config CoercionConfig
}

// CoercionConfig defines the coercion thresholds and rules
type CoercionConfig struct {
	TimestampThreshold float64  `json:"timestamp_threshold"` // share of cells that must parse as timestamps
	MissingTokens      []string `json:"missing_tokens"`      // values read as missing, compared case-insensitively
	TimestampLayouts   []string `json:"timestamp_layouts"`
}

// DefaultCoercionConfig returns sensible defaults
func DefaultCoercionConfig() CoercionConfig {
	return CoercionConfig{
		TimestampThreshold: 0.8,
		MissingTokens: []string{
			"na", "n/a", "nan", "null", "none", "#n/a", "-nan", "<na>", "nat",
		},
		TimestampLayouts: []string{
			time.RFC3339,
			"2006-01-02T15:04:05",
			"2006-01-02 15:04:05",
			"2006-01-02 15:04",
			"2006-01-02",
			"01/02/2006 15:04:05",
			"01/02/2006 15:04",
			"01/02/2006",
			"1/2/2006",
			"2006/01/02",
			"2006/1/2",
			"02.01.2006",
			"02-Jan-2006",
			"2-Jan-2006",
			"2 Jan 2006",
			"Jan 2, 2006",
			"January 2, 2006",
			"Jan 2006",
			"January 2006",
			"2006-01",
			"01-02-06",
			"1/2/06 15:04",
			"1/2/06",
			"2-Jan-06",
			"Jan-06",
		},
	}
}

// NewTypeCoercer creates a coercer with the given config
func NewTypeCoercer(config CoercionConfig) *TypeCoercer {
	return &TypeCoercer{config: config}
}

// Default returns a coercer with DefaultCoercionConfig
func Default() *TypeCoercer {
	return NewTypeCoercer(DefaultCoercionConfig())
}

// Config returns the coercer configuration
func (c *TypeCoercer) Config() CoercionConfig {
	return c.config
}

// CoerceValue converts one raw value to a cell on its own, without column context
func (c *TypeCoercer) CoerceValue(rawValue interface{}) table.Cell {
	switch v := rawValue.(type) {
	case nil:
		return table.Missing()
	case float64:
		return table.Number(v)
	case float32:
		return table.Number(float64(v))
	case int:
		return table.Number(float64(v))
	case int32:
		return table.Number(float64(v))
	case int64:
		return table.Number(float64(v))
	case time.Time:
		return table.Time(v)
	case table.Cell:
		return v
	}

	strVal := strings.TrimSpace(c.toString(rawValue))
	if c.isMissingToken(strVal) {
		return table.Missing()
	}
	if n, ok := c.ParseNumeric(strVal); ok {
		return table.Number(n)
	}
	return table.Text(strVal)
}

// CoerceColumn types a whole column: numbers only when every non-missing value is numeric,
// otherwise every non-missing value is kept as text.
func (c *TypeCoercer) CoerceColumn(name string, rawValues []interface{}) table.Column {
	cells := make([]table.Cell, len(rawValues))
	allNumeric := true
	for i, raw := range rawValues {
		cells[i] = c.CoerceValue(raw)
		if cells[i].IsText() || cells[i].IsTime() {
			allNumeric = false
		}
	}
	if allNumeric {
		return table.Column{Name: name, Cells: cells}
	}

	for i, raw := range rawValues {
		if cells[i].IsMissing() || cells[i].IsTime() {
			continue
		}
		cells[i] = table.Text(strings.TrimSpace(c.toString(raw)))
	}
	return table.Column{Name: name, Cells: cells}
}

// ParseNumeric parses a number with strict rules.
// Handles parentheses for negatives, currency symbols, percent signs and thousands separators.
func (c *TypeCoercer) ParseNumeric(strVal string) (float64, bool) {
	cleanVal := strings.TrimSpace(strVal)
	if cleanVal == "" {
		return 0, false
	}

	// Handle parentheses for negative numbers: (123) -> -123
	isNegative := false
	if strings.HasPrefix(cleanVal, "(") && strings.HasSuffix(cleanVal, ")") {
		cleanVal = strings.TrimSuffix(strings.TrimPrefix(cleanVal, "("), ")")
		isNegative = true
	}

	for _, symbol := range []string{"$", "€", "£", "¥", "USD", "EUR", "GBP", "JPY", "%"} {
		cleanVal = strings.ReplaceAll(cleanVal, symbol, "")
	}
	cleanVal = strings.TrimSpace(cleanVal)

	hasComma := strings.Contains(cleanVal, ",")
	hasPeriod := strings.Contains(cleanVal, ".")
	switch {
	case hasComma && hasPeriod && strings.LastIndex(cleanVal, ",") > strings.LastIndex(cleanVal, "."):
		// European format: 1.234,56
		cleanVal = strings.ReplaceAll(cleanVal, ".", "")
		cleanVal = strings.ReplaceAll(cleanVal, ",", ".")
	case hasComma && !hasPeriod && !thousandsGrouping.MatchString(cleanVal):
		// Lone decimal comma: 12,5
		cleanVal = strings.ReplaceAll(cleanVal, ",", ".")
	default:
		cleanVal = strings.ReplaceAll(cleanVal, ",", "")
	}
	cleanVal = strings.ReplaceAll(cleanVal, " ", "")

	if isNegative {
		cleanVal = "-" + cleanVal
	}

	val, err := strconv.ParseFloat(cleanVal, 64)
	if err != nil || math.IsInf(val, 0) || math.IsNaN(val) {
		return 0, false
	}
	return val, true
}

var thousandsGrouping = regexp.MustCompile(`^[-+]?\d{1,3}(,\d{3})+$`)

// ParseTimestamp attempts to read a cell as a timestamp. Numbers are never dates.
func (c *TypeCoercer) ParseTimestamp(cell table.Cell) (time.Time, bool) {
	if t, ok := cell.Timestamp(); ok {
		return t, true
	}
	if !cell.IsText() {
		return time.Time{}, false
	}
	return c.ParseTimestampString(cell.String())
}

// ParseTimestampString tries each configured layout in order
func (c *TypeCoercer) ParseTimestampString(strVal string) (time.Time, bool) {
	strVal = strings.TrimSpace(strVal)
	if strVal == "" {
		return time.Time{}, false
	}
	for _, layout := range c.config.TimestampLayouts {
		if t, err := time.Parse(layout, strVal); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// AnalyzeColumn counts how the cells of a column can be read
func (c *TypeCoercer) AnalyzeColumn(col table.Column) TypeAnalysis {
	analysis := TypeAnalysis{Column: col.Name, TotalCount: len(col.Cells)}
	for _, cell := range col.Cells {
		switch {
		case cell.IsMissing():
			analysis.MissingCount++
			continue
		case cell.IsNumber():
			analysis.NumericCount++
		case cell.IsText():
			analysis.TextCount++
		}
		if _, ok := c.ParseTimestamp(cell); ok {
			analysis.TimestampCount++
		}
	}
	if analysis.TotalCount > 0 {
		analysis.TimestampRatio = float64(analysis.TimestampCount) / float64(analysis.TotalCount)
		analysis.MissingRatio = float64(analysis.MissingCount) / float64(analysis.TotalCount)
	}
	analysis.ParsesAsDates = analysis.TimestampCount > 0 && analysis.TimestampRatio >= c.config.TimestampThreshold
	return analysis
}

func (c *TypeCoercer) isMissingToken(s string) bool {
	if s == "" {
		return true
	}
	lower := strings.ToLower(s)
	for _, token := range c.config.MissingTokens {
		if lower == token {
			return true
		}
	}
	return false
}

// toString converts interface{} to string safely
func (c *TypeCoercer) toString(val interface{}) string {
	switch v := val.(type) {
	case nil:
		return ""
	case string:
		return v
	case table.Cell:
		return v.String()
	case bool:
		return fmt.Sprintf("%t", v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return fmt.Sprintf("%v", v)
	}
}

// TypeAnalysis contains the results of a column's type distribution analysis
type TypeAnalysis struct {
	Column         string  `json:"column"`
	TotalCount     int     `json:"total_count"`
	MissingCount   int     `json:"missing_count"`
	NumericCount   int     `json:"numeric_count"`
	TextCount      int     `json:"text_count"`
	TimestampCount int     `json:"timestamp_count"`
	TimestampRatio float64 `json:"timestamp_ratio"`
	MissingRatio   float64 `json:"missing_ratio"`
	ParsesAsDates  bool    `json:"parses_as_dates"`
}

package classifier

import (
	"fmt"
	"strings"

	"findash/domain/core"
	"findash/domain/finance"
	"findash/domain/table"
)

// ValidationError carries the reason a table was rejected
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", core.ErrValidationFailed, e.Reason)
}

// Unwrap lets errors.Is match core.ErrValidationFailed
func (e *ValidationError) Unwrap() error {
	return core.ErrValidationFailed
}

func reject(reason string) error {
	return &ValidationError{Reason: reason}
}

// Validate checks the minimum shape and content a table needs before classification.
// Finance-flavoured column names only change the message; dates plus numbers are sufficient.
func (c *Classifier) Validate(t *table.Table) (finance.ValidationReport, error) {
	if t == nil || t.IsEmpty() {
		return finance.ValidationReport{}, reject("The uploaded file contains no data.")
	}
	if t.Width() < 2 {
		return finance.ValidationReport{}, reject("The data must have at least two columns (typically date and values).")
	}
	if allMissing(t) {
		return finance.ValidationReport{}, reject("All values in the dataset are missing (null).")
	}

	dateColumn := ""
	for _, col := range t.Columns() {
		if c.ParsesAsDates(col) {
			dateColumn = col.Name
			break
		}
	}
	if dateColumn == "" {
		return finance.ValidationReport{}, reject("No valid date column found. Financial data should include dates (like transaction dates, statement dates, etc.).")
	}

	hasNumeric := false
	for _, col := range t.Columns() {
		if col.IsNumeric() {
			hasNumeric = true
			break
		}
	}
	if !hasNumeric {
		return finance.ValidationReport{}, reject("No numeric columns found. Financial data should include numeric values (like amounts, prices, etc.).")
	}

	report := finance.ValidationReport{DateColumn: dateColumn}
	for _, name := range t.Names() {
		if finance.IsFinancialName(name) {
			report.FinancialColumns = append(report.FinancialColumns, name)
		}
	}
	if len(report.FinancialColumns) > 0 {
		report.Message = fmt.Sprintf("Data appears to be valid financial data with date column '%s' and financial columns: %s",
			dateColumn, strings.Join(report.FinancialColumns, ", "))
	} else {
		report.Message = "Data contains dates and numeric values which might represent financial data."
	}
	return report, nil
}

func allMissing(t *table.Table) bool {
	for _, col := range t.Columns() {
		if col.MissingCount() < len(col.Cells) {
			return false
		}
	}
	return true
}

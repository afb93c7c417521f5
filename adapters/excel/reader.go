package excel

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"findash/adapters/datareadiness/coercer"
	"findash/domain/table"
	"findash/internal"
	"findash/internal/errors"
	"findash/ports"

	"github.com/xuri/excelize/v2"
)

var _ ports.TableReader = (*DataReader)(nil)

// DataReader handles reading Excel and CSV files into tables
type DataReader struct {
	filePath string
	fileType string // "xlsx" or "csv"
	config   ReaderConfig
	coercer  *coercer.TypeCoercer
	logger   *internal.Logger
}

// NewDataReader creates a reader that picks CSV or XLSX parsing from the file extension
func NewDataReader(filePath string, config ReaderConfig) *DataReader {
	ext := strings.ToLower(filepath.Ext(filePath))
	fileType := FileTypeXLSX
	if ext == ".csv" {
		fileType = FileTypeCSV
	}
	return &DataReader{
		filePath: filePath,
		fileType: fileType,
		config:   config,
		coercer:  coercer.NewTypeCoercer(config.CoercionConfig),
		logger:   internal.DefaultLogger.With("DataReader"),
	}
}

// WithLogger replaces the reader's logger; nil keeps the current one
func (r *DataReader) WithLogger(logger *internal.Logger) *DataReader {
	if logger != nil {
		r.logger = logger
	}
	return r
}

// ReadTable reads the file and types every column. A file with a header but no data rows
// yields an empty table rather than an error.
func (r *DataReader) ReadTable(ctx context.Context) (*table.Table, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	raw, err := r.ReadData()
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return BuildTable(raw, r.coercer)
}

// ReadData reads data from Excel or CSV files into raw string rows
func (r *DataReader) ReadData() (*RawData, error) {
	r.logger.Info("Reading %s file: %s", r.fileType, r.filePath)

	if _, err := os.Stat(r.filePath); err != nil {
		return nil, errors.IOFailure(r.filePath, err)
	}

	switch r.fileType {
	case FileTypeCSV:
		return r.readCSVData()
	case FileTypeXLSX:
		return r.readExcelData()
	default:
		return nil, errors.InvalidInput(fmt.Sprintf("unsupported file type: %s", r.fileType))
	}
}

// readExcelData reads the configured sheet, or the first one
func (r *DataReader) readExcelData() (*RawData, error) {
	startTime := time.Now()
	f, err := excelize.OpenFile(r.filePath)
	if err != nil {
		return nil, errors.IOFailure(r.filePath, fmt.Errorf("failed to open Excel file: %w", err))
	}
	defer f.Close()

	sheet := r.config.SheetName
	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return &RawData{}, nil
		}
		sheet = sheets[0]
	}

	rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, errors.IOFailure(r.filePath, fmt.Errorf("failed to read sheet %q: %w", sheet, err))
	}
	converted := r.convertDateCells(f, sheet, rows)
	r.logger.Debug("Sheet %q read in %.2fms (%d rows, %d date cells)",
		sheet, float64(time.Since(startTime).Nanoseconds())/1e6, len(rows), converted)

	return r.processRows(rows), nil
}

// convertDateCells rewrites data cells whose style is a date format from their serial number
// to ISO text, in place. Rows come from GetRows with raw values, so the serial is exact and the
// cell's display format does not matter.
func (r *DataReader) convertDateCells(f *excelize.File, sheet string, rows [][]string) int {
	date1904 := false
	if props, err := f.GetWorkbookProps(); err == nil && props.Date1904 != nil {
		date1904 = *props.Date1904
	}

	dateStyles := make(map[int]bool)
	converted := 0
	for i := 1; i < len(rows); i++ {
		for j, v := range rows[i] {
			serial, err := strconv.ParseFloat(v, 64)
			if err != nil {
				continue
			}
			ref, err := excelize.CoordinatesToCellName(j+1, i+1)
			if err != nil {
				continue
			}
			styleID, err := f.GetCellStyle(sheet, ref)
			if err != nil || styleID == 0 {
				continue
			}
			isDate, seen := dateStyles[styleID]
			if !seen {
				isDate = isDateStyle(f, styleID)
				dateStyles[styleID] = isDate
			}
			if !isDate {
				continue
			}
			t, err := excelize.ExcelDateToTime(serial, date1904)
			if err != nil {
				continue
			}
			rows[i][j] = formatExcelTime(t)
			converted++
		}
	}
	return converted
}

// builtinDateFormats are the built-in number formats that show a calendar date
var builtinDateFormats = map[int]bool{
	14: true, 15: true, 16: true, 17: true, 22: true,
	27: true, 28: true, 29: true, 30: true, 31: true, 32: true, 33: true, 34: true, 35: true, 36: true,
	50: true, 51: true, 52: true, 53: true, 54: true, 55: true, 56: true, 57: true, 58: true,
}

func isDateStyle(f *excelize.File, styleID int) bool {
	style, err := f.GetStyle(styleID)
	if err != nil || style == nil {
		return false
	}
	if style.CustomNumFmt != nil {
		return isDateFormatCode(*style.CustomNumFmt)
	}
	return builtinDateFormats[style.NumFmt]
}

// isDateFormatCode reports a custom format with a year or day token outside literals
func isDateFormatCode(code string) bool {
	inQuote, inBracket, escaped := false, false, false
	for _, ch := range strings.ToLower(code) {
		switch {
		case escaped:
			escaped = false
		case ch == '\\':
			escaped = true
		case ch == '"':
			inQuote = !inQuote
		case inQuote:
		case ch == '[':
			inBracket = true
		case ch == ']':
			inBracket = false
		case inBracket:
		case ch == 'y' || ch == 'd':
			return true
		}
	}
	return false
}

func formatExcelTime(t time.Time) string {
	if t.Hour() == 0 && t.Minute() == 0 && t.Second() == 0 {
		return t.Format("2006-01-02")
	}
	return t.Format("2006-01-02 15:04:05")
}

// readCSVData reads CSV data into raw rows
func (r *DataReader) readCSVData() (*RawData, error) {
	file, err := os.Open(r.filePath)
	if err != nil {
		return nil, errors.IOFailure(r.filePath, fmt.Errorf("failed to open CSV file: %w", err))
	}
	defer file.Close()

	readStart := time.Now()
	rows, err := ReadCSV(file)
	if err != nil {
		return nil, errors.IOFailure(r.filePath, err)
	}
	r.logger.Debug("CSV file read in %.2fms (%d rows)", float64(time.Since(readStart).Nanoseconds())/1e6, len(rows))

	return r.processRows(rows), nil
}

// ReadCSV parses CSV rows, tolerating ragged records and a UTF-8 byte order mark
func ReadCSV(in io.Reader) ([][]string, error) {
	reader := csv.NewReader(in)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV: %w", err)
	}
	if len(rows) > 0 && len(rows[0]) > 0 {
		rows[0][0] = strings.TrimPrefix(rows[0][0], "\ufeff")
	}
	return rows, nil
}

// processRows splits the header row from the data rows
func (r *DataReader) processRows(rows [][]string) *RawData {
	if len(rows) == 0 {
		return &RawData{}
	}
	raw := &RawData{Headers: uniqueHeaders(rows[0]), Rows: rows[1:]}

	r.logger.Info("%s file processed (%d columns, %d rows)",
		strings.ToUpper(r.fileType), len(raw.Headers), len(raw.Rows))
	return raw
}

// BuildTable types raw rows column by column. Short rows are padded with missing cells,
// extra trailing cells are dropped.
func BuildTable(raw *RawData, c *coercer.TypeCoercer) (*table.Table, error) {
	return typedTable(raw.Headers, len(raw.Rows), c, func(i, j int) interface{} {
		if j < len(raw.Rows[i]) {
			return raw.Rows[i][j]
		}
		return nil
	})
}

// FromRecords builds a table from JSON-decoded rows. A row wider than the header is rejected.
func FromRecords(headers []string, rows [][]interface{}, c *coercer.TypeCoercer) (*table.Table, error) {
	names := uniqueHeaders(headers)
	for i, row := range rows {
		if len(row) > len(names) {
			return nil, errors.InvalidInput(fmt.Sprintf("row %d has %d values for %d columns", i, len(row), len(names)))
		}
	}
	return typedTable(names, len(rows), c, func(i, j int) interface{} {
		if j < len(rows[i]) {
			return rows[i][j]
		}
		return nil
	})
}

func typedTable(names []string, rowCount int, c *coercer.TypeCoercer, valueAt func(i, j int) interface{}) (*table.Table, error) {
	if c == nil {
		c = coercer.Default()
	}
	columns := make([]table.Column, len(names))
	for j, name := range names {
		values := make([]interface{}, rowCount)
		for i := range values {
			values[i] = valueAt(i, j)
		}
		columns[j] = c.CoerceColumn(name, values)
	}
	t, err := table.New(columns)
	if err != nil {
		return nil, errors.Wrap(errors.InvalidInput(err.Error()), "failed to build table")
	}
	return t, nil
}

// uniqueHeaders trims names, fills blanks with "Unnamed: i" and suffixes repeats with ".n"
func uniqueHeaders(headerRow []string) []string {
	headers := make([]string, len(headerRow))
	seen := make(map[string]int, len(headerRow))
	for i, h := range headerRow {
		name := strings.TrimSpace(h)
		if name == "" {
			name = fmt.Sprintf("Unnamed: %d", i)
		}
		if seen[name] > 0 {
			base := name
			for n := seen[base]; ; n++ {
				candidate := fmt.Sprintf("%s.%d", base, n)
				if seen[candidate] == 0 {
					name = candidate
					break
				}
			}
			seen[base]++
		}
		seen[name]++
		headers[i] = name
	}
	return headers
}

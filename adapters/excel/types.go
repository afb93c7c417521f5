package excel

// RawData is a spreadsheet as read: a trimmed header row and string data rows
type RawData struct {
	Headers []string   // Column headers
	Rows    [][]string // Data rows, possibly shorter than Headers
}

// Supported file types
const (
	FileTypeCSV  = "csv"
	FileTypeXLSX = "xlsx"
)

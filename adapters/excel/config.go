package excel

import (
	"findash/adapters/datareadiness/coercer"
)

// ReaderConfig holds configuration for spreadsheet ingestion
type ReaderConfig struct {
	SheetName      string                 `json:"sheet_name"` // empty reads the first sheet
	CoercionConfig coercer.CoercionConfig `json:"coercion_config"`
}

// DefaultReaderConfig returns sensible defaults for spreadsheet processing
func DefaultReaderConfig() ReaderConfig {
	return ReaderConfig{
		CoercionConfig: coercer.DefaultCoercionConfig(),
	}
}

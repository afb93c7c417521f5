package table

import (
	"encoding/json"
	"math"
	"strconv"
	"time"
)

// CellType defines the storage type of a single cell
type CellType string

const (
	CellMissing CellType = "missing"
	CellNumber  CellType = "number"
	CellText    CellType = "text"
	CellTime    CellType = "time"
)

// Cell is one typed value of a column.
type Cell struct {
	Type   CellType
	number float64
	text   string
	time   time.Time
}

// Missing returns an empty cell
func Missing() Cell {
	return Cell{Type: CellMissing}
}

// Number creates a numeric cell. NaN and infinities are stored as missing.
func Number(n float64) Cell {
	if math.IsNaN(n) || math.IsInf(n, 0) {
		return Missing()
	}
	return Cell{Type: CellNumber, number: n}
}

// Text creates a text cell. The empty string is stored as missing.
func Text(s string) Cell {
	if s == "" {
		return Missing()
	}
	return Cell{Type: CellText, text: s}
}

// Time creates a timestamp cell. The zero time is stored as missing.
func Time(t time.Time) Cell {
	if t.IsZero() {
		return Missing()
	}
	return Cell{Type: CellTime, time: t}
}

func (c Cell) IsMissing() bool { return c.Type == CellMissing || c.Type == "" }
func (c Cell) IsNumber() bool  { return c.Type == CellNumber }
func (c Cell) IsText() bool    { return c.Type == CellText }
func (c Cell) IsTime() bool    { return c.Type == CellTime }

// Float returns the numeric value and whether the cell holds one
func (c Cell) Float() (float64, bool) {
	if c.Type != CellNumber {
		return 0, false
	}
	return c.number, true
}

// Timestamp returns the time value and whether the cell holds one
func (c Cell) Timestamp() (time.Time, bool) {
	if c.Type != CellTime {
		return time.Time{}, false
	}
	return c.time, true
}

// String returns the string representation of the cell
func (c Cell) String() string {
	switch c.Type {
	case CellNumber:
		return strconv.FormatFloat(c.number, 'f', -1, 64)
	case CellText:
		return c.text
	case CellTime:
		if c.time.Hour() == 0 && c.time.Minute() == 0 && c.time.Second() == 0 && c.time.Nanosecond() == 0 {
			return c.time.Format("2006-01-02")
		}
		return c.time.Format(time.RFC3339)
	}
	return ""
}

// Equal reports whether two cells hold the same typed value
func (c Cell) Equal(o Cell) bool {
	if c.IsMissing() || o.IsMissing() {
		return c.IsMissing() && o.IsMissing()
	}
	if c.Type != o.Type {
		return false
	}
	switch c.Type {
	case CellNumber:
		return c.number == o.number
	case CellText:
		return c.text == o.text
	case CellTime:
		return c.time.Equal(o.time)
	}
	return false
}

// MarshalJSON renders missing cells as null, numbers as JSON numbers and everything else as strings
func (c Cell) MarshalJSON() ([]byte, error) {
	switch c.Type {
	case CellNumber:
		return json.Marshal(c.number)
	case CellText, CellTime:
		return json.Marshal(c.String())
	}
	return []byte("null"), nil
}

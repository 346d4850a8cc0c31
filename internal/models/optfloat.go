package models

import (
	"encoding/json"
	"strconv"
	"strings"
)

// OptFloat is a float field that may be absent or malformed in a record.
// Malformed values (wrong type, non-numeric string) decode as absent
// rather than failing the whole record, so one bad field from a producer
// never drops the record or crashes a poll loop.
type OptFloat struct {
	Value float64
	Valid bool
}

// Float wraps a value as a present OptFloat.
func Float(v float64) OptFloat {
	return OptFloat{Value: v, Valid: true}
}

// UnmarshalJSON accepts numbers, numeric strings and null. Anything else
// leaves the field absent. It never returns an error.
func (f *OptFloat) UnmarshalJSON(data []byte) error {
	f.Value = 0
	f.Valid = false

	s := strings.TrimSpace(string(data))
	if s == "" || s == "null" {
		return nil
	}

	var num float64
	if err := json.Unmarshal(data, &num); err == nil {
		f.Value = num
		f.Valid = true
		return nil
	}

	// Numeric string, e.g. "72.5".
	var str string
	if err := json.Unmarshal(data, &str); err == nil {
		if num, err := strconv.ParseFloat(strings.TrimSpace(str), 64); err == nil {
			f.Value = num
			f.Valid = true
		}
	}

	return nil
}

// MarshalJSON writes the value, or null when absent.
func (f OptFloat) MarshalJSON() ([]byte, error) {
	if !f.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(f.Value)
}

package domain

import (
	"encoding/json"
	"strconv"
)

// Width is one annual ring-width measurement that may be absent.
// The zero value is Missing, so a measured 0.00 never collides with "no data".
type Width struct {
	Value float64 `json:"value"`
	Valid bool    `json:"valid"`
}

// Missing marks a year with no data for a series
var Missing = Width{}

// Measured returns a valid width
func Measured(v float64) Width {
	return Width{Value: v, Valid: true}
}

// IsMissing reports whether the width carries no measurement
func (w Width) IsMissing() bool {
	return !w.Valid
}

// Float returns the value and whether it is present, in the comma-ok style
func (w Width) Float() (float64, bool) {
	return w.Value, w.Valid
}

// String formats the width with the shortest round-trip representation, or "NA"
func (w Width) String() string {
	if !w.Valid {
		return "NA"
	}
	return strconv.FormatFloat(w.Value, 'f', -1, 64)
}

// MarshalJSON encodes a missing width as null and a measured one as a number
func (w Width) MarshalJSON() ([]byte, error) {
	if !w.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(w.Value)
}

// UnmarshalJSON accepts null or a number
func (w *Width) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*w = Missing
		return nil
	}
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*w = Measured(v)
	return nil
}

package correlation

import (
	"bytes"
	"encoding/json"
	"math"
)

// Reading is one sample in a metric history. Telemetry stores deliver
// either bare numbers or {"value": n} wrappers, sometimes interleaved, so
// the unmarshaller accepts both. Anything else (strings, nulls, objects
// without a numeric value, NaN/Inf) is kept as an invalid reading and
// skipped pairwise during correlation rather than rejected up front.
type Reading struct {
	Value float64
	Valid bool
}

// wrapped mirrors the {"value": n} sample shape.
type wrapped struct {
	Value *float64 `json:"value"`
}

// UnmarshalJSON implements json.Unmarshaler.
func (r *Reading) UnmarshalJSON(data []byte) error {
	// json.Unmarshal of null into a float64 is a no-op that reports no
	// error, which would turn gap markers into valid zero readings.
	if string(bytes.TrimSpace(data)) == "null" {
		r.Valid = false
		return nil
	}

	var num float64
	if err := json.Unmarshal(data, &num); err == nil {
		r.Value = num
		r.Valid = isFinite(num)
		return nil
	}

	var w wrapped
	if err := json.Unmarshal(data, &w); err == nil && w.Value != nil {
		r.Value = *w.Value
		r.Valid = isFinite(*w.Value)
		return nil
	}

	// Unrecognized sample shapes are data-quality noise, not errors.
	r.Valid = false
	return nil
}

// MarshalJSON implements json.Marshaler. Invalid readings serialize as null.
func (r Reading) MarshalJSON() ([]byte, error) {
	if !r.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(r.Value)
}

// Number returns a valid reading holding v, or an invalid reading if v is
// NaN or infinite.
func Number(v float64) Reading {
	return Reading{Value: v, Valid: isFinite(v)}
}

// Numbers converts a plain float slice into a reading history.
func Numbers(values []float64) []Reading {
	readings := make([]Reading, len(values))
	for i, v := range values {
		readings[i] = Number(v)
	}
	return readings
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

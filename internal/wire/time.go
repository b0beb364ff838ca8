package wire

import (
	"fmt"
	"time"
)

// timeLayouts are tried in order when parsing timestamps. The backend emits
// ISO-8601 with fractional seconds but older responses omit the fraction, and
// some omit the zone entirely.
var timeLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
}

// Time is a time.Time that marshals as an ISO-8601 string and tolerates
// responses with and without fractional seconds.
type Time struct {
	time.Time
}

// NewTime wraps a time.Time for wire serialization.
func NewTime(t time.Time) Time {
	return Time{Time: t.UTC()}
}

// MarshalJSON encodes the timestamp as an ISO-8601 string in UTC.
func (t Time) MarshalJSON() ([]byte, error) {
	return []byte(`"` + t.UTC().Format(time.RFC3339Nano) + `"`), nil
}

// UnmarshalJSON decodes an ISO-8601 string, with or without fractional seconds.
func (t *Time) UnmarshalJSON(data []byte) error {
	s := string(data)
	if len(s) < 2 || s[0] != '"' || s[len(s)-1] != '"' {
		return &ParseError{Field: "timestamp", Value: s, Err: fmt.Errorf("not a JSON string")}
	}
	s = s[1 : len(s)-1]

	var lastErr error
	for _, layout := range timeLayouts {
		parsed, err := time.Parse(layout, s)
		if err == nil {
			t.Time = parsed
			return nil
		}
		lastErr = err
	}
	return &ParseError{Field: "timestamp", Value: s, Err: lastErr}
}

package timeutil

import (
	"time"
)

// RFC3339Millis is RFC 3339 UTC with fixed millisecond precision, used for
// all timestamps on the wire.
const RFC3339Millis = "2006-01-02T15:04:05.000Z"

// RFC3339Micros is RFC 3339 UTC with fixed microsecond precision, used for
// log timestamps.
const RFC3339Micros = "2006-01-02T15:04:05.000000Z"

// Time wraps time.Time so JSON output always carries fixed millisecond
// precision in UTC, regardless of the precision the value was stored with.
//
// JSON null preserves the existing value, matching time.Time stdlib behavior.
type Time struct {
	time.Time
}

// New creates a Time from a standard time.Time.
func New(t time.Time) Time {
	return Time{Time: t}
}

// MarshalJSON implements json.Marshaler with fixed millisecond precision.
func (t Time) MarshalJSON() ([]byte, error) {
	return []byte(`"` + t.UTC().Format(RFC3339Millis) + `"`), nil
}

// UnmarshalJSON implements json.Unmarshaler, accepting any RFC 3339 variant.
func (t *Time) UnmarshalJSON(data []byte) error {
	s := string(data)
	if s == "null" {
		return nil
	}
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		s = s[1 : len(s)-1]
	}
	parsed, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return err
	}
	t.Time = parsed
	return nil
}

package dto

import (
	"encoding/json"
	"fmt"
	"time"
)

// TimestampLayout renders instants in UTC with millisecond precision
const TimestampLayout = "2006-01-02T15:04:05.000Z"

// Timestamp is a time.Time that marshals with TimestampLayout
type Timestamp time.Time

// NewTimestamp converts t to a Timestamp
func NewTimestamp(t time.Time) Timestamp {
	return Timestamp(t)
}

// Time returns the underlying time
func (t Timestamp) Time() time.Time {
	return time.Time(t)
}

// MarshalJSON implements json.Marshaler
func (t Timestamp) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Time(t).UTC().Format(TimestampLayout))
}

// UnmarshalJSON accepts TimestampLayout and any RFC 3339 value
func (t *Timestamp) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("timestamp must be a string: %w", err)
	}
	parsed, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return fmt.Errorf("invalid timestamp %q: %w", s, err)
	}
	*t = Timestamp(parsed)
	return nil
}

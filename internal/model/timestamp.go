package model

import (
	"encoding/json"
	"fmt"
	"time"
)

// Timestamp normalizes the several timestamp shapes the backend emits into
// a single time.Time at the decoding boundary. Handled shapes:
//
//   - RFC 3339 strings ("2024-05-01T10:00:00Z")
//   - date-only strings ("2024-05-01")
//   - epoch seconds and epoch milliseconds as JSON numbers
//   - Firestore-style objects ({"_seconds": n, "_nanoseconds": n})
//
// Nothing past the API layer re-inspects timestamp shapes.
type Timestamp struct {
	time.Time
}

// firestoreTime is the serialized Firestore timestamp object.
type firestoreTime struct {
	Seconds     int64 `json:"_seconds"`
	Nanoseconds int64 `json:"_nanoseconds"`
}

// Epoch millisecond values start well above any plausible epoch-second
// value for this platform's lifetime.
const millisThreshold = int64(1e12)

// UnmarshalJSON decodes any of the supported timestamp shapes.
func (t *Timestamp) UnmarshalJSON(data []byte) error {
	parsed, err := ParseTimestamp(data)
	if err != nil {
		return err
	}
	t.Time = parsed
	return nil
}

// MarshalJSON always emits RFC 3339 UTC.
func (t Timestamp) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.UTC().Format(time.RFC3339))
}

// ParseTimestamp converts a raw JSON timestamp value into a time.Time.
// Null and empty values decode to the zero time.
func ParseTimestamp(data []byte) (time.Time, error) {
	if len(data) == 0 || string(data) == "null" {
		return time.Time{}, nil
	}

	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return time.Time{}, fmt.Errorf("decoding timestamp string: %w", err)
		}
		return parseTimestampString(s)
	}

	if data[0] == '{' {
		var ft firestoreTime
		if err := json.Unmarshal(data, &ft); err != nil {
			return time.Time{}, fmt.Errorf("decoding timestamp object: %w", err)
		}
		return time.Unix(ft.Seconds, ft.Nanoseconds).UTC(), nil
	}

	var n float64
	if err := json.Unmarshal(data, &n); err != nil {
		return time.Time{}, fmt.Errorf("unrecognized timestamp %q", string(data))
	}
	v := int64(n)
	if v >= millisThreshold {
		return time.UnixMilli(v).UTC(), nil
	}
	return time.Unix(v, 0).UTC(), nil
}

func parseTimestampString(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	for _, layout := range []string{
		time.RFC3339Nano,
		time.RFC3339,
		"2006-01-02T15:04:05",
		"2006-01-02",
	} {
		if ts, err := time.Parse(layout, s); err == nil {
			return ts.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp %q", s)
}

// TimePtr returns nil for zero timestamps and a *time.Time otherwise.
// Used for optional fields such as posting deadlines.
func (t Timestamp) TimePtr() *time.Time {
	if t.IsZero() {
		return nil
	}
	ts := t.Time
	return &ts
}

package models

import (
	"strings"
	"time"
)

// Time is a timestamp as stored in the state blobs. It marshals as RFC3339
// and decodes leniently: a malformed stored value becomes the zero time
// instead of failing the whole collection decode. Consumers that must render
// something (labels) substitute "now" for zero values.
type Time struct {
	time.Time
}

// decodeLayouts are tried in order when decoding stored timestamps.
var decodeLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// NewTime wraps a time.Time.
func NewTime(t time.Time) *Time {
	return &Time{Time: t}
}

// Now returns the current UTC instant.
func Now() *Time {
	return &Time{Time: time.Now().UTC()}
}

func (t Time) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte("null"), nil
	}
	return []byte(`"` + t.UTC().Format(time.RFC3339) + `"`), nil
}

func (t *Time) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "" || s == "null" {
		t.Time = time.Time{}
		return nil
	}
	for _, layout := range decodeLayouts {
		parsed, err := time.Parse(layout, s)
		if err == nil {
			t.Time = parsed
			return nil
		}
	}
	t.Time = time.Time{}
	return nil
}

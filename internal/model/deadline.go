package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

// DeadlineLayouts are the accepted deadline formats, tried in order.
// Date-only values come from HTML date inputs.
var DeadlineLayouts = []string{time.RFC3339, "2006-01-02 15:04", "2006-01-02"}

// ParseDeadline parses s with DeadlineLayouts. Layouts without a zone are
// read in loc. An empty s means no deadline. The result is in UTC.
func ParseDeadline(s string, loc *time.Location) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	for _, layout := range DeadlineLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			t = t.UTC()
			return &t, nil
		}
	}
	return nil, fmt.Errorf("invalid deadline %q (use YYYY-MM-DD or RFC 3339)", s)
}

// Deadline is an optional deadline in request bodies. It decodes "", null,
// YYYY-MM-DD (midnight UTC) and RFC 3339; the zero value means none.
type Deadline struct {
	Time *time.Time
}

// DeadlineAt wraps t.
func DeadlineAt(t time.Time) Deadline {
	return Deadline{Time: &t}
}

// UnmarshalJSON implements json.Unmarshaler.
func (d *Deadline) UnmarshalJSON(b []byte) error {
	if bytes.Equal(b, []byte("null")) {
		d.Time = nil
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("deadline must be a string: %w", err)
	}
	t, err := ParseDeadline(s, time.UTC)
	if err != nil {
		return err
	}
	d.Time = t
	return nil
}

// MarshalJSON implements json.Marshaler.
func (d Deadline) MarshalJSON() ([]byte, error) {
	if d.Time == nil {
		return []byte("null"), nil
	}
	return json.Marshal(d.Time.UTC().Format(time.RFC3339))
}

package transport

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// Wire layouts used by the Food Share backend.
const (
	DateLayout     = "2006-01-02"
	DateTimeLayout = "2006-01-02 15:04:05"
)

var timeLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	DateTimeLayout,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	DateLayout,
	time.RFC1123,
	time.RFC1123Z,
}

// FlexID is an identifier that arrives either as a JSON number or a string.
// It encodes back as a number only when the text is a canonical integer.
type FlexID string

func (id *FlexID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = FlexID(strings.TrimSpace(s))
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*id = FlexID(n.String())
	return nil
}

func (id FlexID) MarshalJSON() ([]byte, error) {
	if id == "" {
		return []byte("null"), nil
	}
	if n, err := strconv.ParseInt(string(id), 10, 64); err == nil && strconv.FormatInt(n, 10) == string(id) {
		return []byte(id), nil
	}
	return json.Marshal(string(id))
}

func (id FlexID) String() string { return string(id) }

// firstID returns the first non-empty id.
func firstID(ids ...FlexID) string {
	for _, id := range ids {
		if id != "" {
			return string(id)
		}
	}
	return ""
}

// FlexInt accepts integral numbers and numeric strings.
type FlexInt int

func (n *FlexInt) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*n = 0
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		s = strings.TrimSpace(s)
		if s == "" {
			*n = 0
			return nil
		}
		v, err := strconv.Atoi(s)
		if err != nil {
			return err
		}
		*n = FlexInt(v)
		return nil
	}
	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		return err
	}
	if f != math.Trunc(f) {
		return fmt.Errorf("transport: %s is not an integer", data)
	}
	*n = FlexInt(int(f))
	return nil
}

// FlexTime decodes the timestamp formats seen on the wire and encodes with
// Layout, defaulting to RFC 3339.
type FlexTime struct {
	time.Time
	Layout string
}

// NewFlexTime wraps t for encoding with layout.
func NewFlexTime(t time.Time, layout string) *FlexTime {
	return &FlexTime{Time: t, Layout: layout}
}

func (t *FlexTime) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		t.Time = time.Time{}
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, ok := ParseTime(s)
	if !ok {
		t.Time = time.Time{}
		return nil
	}
	t.Time = parsed
	return nil
}

func (t FlexTime) MarshalJSON() ([]byte, error) {
	if t.Time.IsZero() {
		return []byte("null"), nil
	}
	layout := t.Layout
	if layout == "" {
		layout = time.RFC3339
	}
	return json.Marshal(t.Time.Format(layout))
}

// ParseTime tries every known wire layout.
func ParseTime(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range timeLayouts {
		if parsed, err := time.Parse(layout, s); err == nil {
			return parsed, true
		}
	}
	return time.Time{}, false
}

func timeOf(candidates ...*FlexTime) time.Time {
	for _, c := range candidates {
		if c != nil && !c.Time.IsZero() {
			return c.Time
		}
	}
	return time.Time{}
}

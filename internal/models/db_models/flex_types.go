package db_models

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"time"
)

// Generated content only follows the requested shape loosely, so the scalar types
// below never fail decoding: they coerce what they can and zero the rest.

// FlexTime is a timestamp decoded leniently. Input that cannot be parsed leaves the
// time zero and is kept aside until the normalizer clears it.
type FlexTime struct {
	time.Time
	rejected string
}

var flexTimeLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
}

func ParseFlexTime(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	for _, layout := range flexTimeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}

func NewFlexTime(t time.Time) FlexTime {
	return FlexTime{Time: t.UTC()}
}

func (t *FlexTime) UnmarshalJSON(b []byte) error {
	*t = FlexTime{}
	raw := bytes.TrimSpace(b)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil
	}

	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		t.rejected = string(raw)
		return nil
	}
	if strings.TrimSpace(s) == "" {
		return nil
	}
	parsed, ok := ParseFlexTime(s)
	if !ok {
		t.rejected = s
		return nil
	}
	t.Time = parsed
	return nil
}

func (t FlexTime) MarshalJSON() ([]byte, error) {
	if t.Time.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(t.Time.UTC().Format(time.RFC3339))
}

// Rejected returns the input that failed to parse, if any.
func (t FlexTime) Rejected() (string, bool) {
	return t.rejected, t.rejected != ""
}

// Clear discards both the parsed value and any rejected input.
func (t *FlexTime) Clear() {
	*t = FlexTime{}
}

// FlexFloat accepts numbers and numeric strings such as "$1,200.50"; anything else is 0.
type FlexFloat float64

func (f *FlexFloat) UnmarshalJSON(b []byte) error {
	*f = FlexFloat(CoerceNumber(b))
	return nil
}

func (f FlexFloat) Float() float64 { return float64(f) }

// FlexInt is FlexFloat rounded to the nearest integer.
type FlexInt int

func (i *FlexInt) UnmarshalJSON(b []byte) error {
	*i = FlexInt(math.Round(CoerceNumber(b)))
	return nil
}

func (i FlexInt) Int() int { return int(i) }

// CoerceNumber turns a raw JSON value into a float, defaulting to 0.
func CoerceNumber(raw []byte) float64 {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return 0
	}

	var n float64
	switch raw[0] {
	case '"':
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return 0
		}
		s = strings.Map(func(r rune) rune {
			switch r {
			case '$', '€', '£', ',', ' ', ' ':
				return -1
			}
			return r
		}, strings.TrimSpace(s))
		s = strings.TrimSuffix(strings.TrimSuffix(s, "USD"), "usd")
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0
		}
		n = v
	default:
		if err := json.Unmarshal(raw, &n); err != nil {
			return 0
		}
	}

	if math.IsNaN(n) || math.IsInf(n, 0) {
		return 0
	}
	return n
}

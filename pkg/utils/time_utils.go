package utils

import (
	"math"
	"time"
)

// Clock abstracts time.Now so status derivation and token expiry can be tested.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now().UTC() }

func SystemClock() Clock { return systemClock{} }

// FixedClock always returns the same instant.
type FixedClock time.Time

func (f FixedClock) Now() time.Time { return time.Time(f) }

const isoDate = "2006-01-02"

func FormatISODate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(isoDate)
}

// TripDays is ceil((end-start)/1 day).
func TripDays(start, end time.Time) int {
	return int(math.Ceil(end.Sub(start).Hours() / 24))
}

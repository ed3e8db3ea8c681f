package cloud

import (
	"fmt"
	"time"
)

const dateLayout = "2006-01-02"

// ParseStart parses a simulation start date given either as a calendar date
// (2006-01-02, interpreted in UTC) or as an RFC3339 timestamp.
func ParseStart(s string) (time.Time, error) {
	if t, err := time.ParseInLocation(dateLayout, s, time.UTC); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse start date %q: expected %s or RFC3339", s, dateLayout)
	}
	return t, nil
}

// ShiftYears moves start forward by whole calendar years.
func ShiftYears(start time.Time, years int) time.Time {
	if years == 0 {
		return start
	}
	return start.AddDate(years, 0, 0)
}

// YearStart returns the first instant of t's calendar year in t's location.
func YearStart(t time.Time) time.Time {
	return time.Date(t.Year(), time.January, 1, 0, 0, 0, 0, t.Location())
}

// EpochOffset is the number of whole seconds between the start of t's year
// and t.
func EpochOffset(t time.Time) int64 {
	return int64(t.Sub(YearStart(t)) / time.Second)
}

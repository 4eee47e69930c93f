package core

import (
	"time"
)

// DateLayout is the ISO "YYYY-MM-DD" layout used as the join key between records and calendar days.
const DateLayout = "2006-01-02"

// IsISODate reports whether s is a valid "YYYY-MM-DD" date.
func IsISODate(s string) bool {
	_, err := time.Parse(DateLayout, s)
	return err == nil
}

// DateOf formats the local calendar date of t in loc.
func DateOf(t time.Time, loc *time.Location) string {
	if loc != nil {
		t = t.In(loc)
	}
	return t.Format(DateLayout)
}

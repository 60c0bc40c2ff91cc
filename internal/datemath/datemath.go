// Package datemath provides the day-count conventions used by the
// interest engine. Elapsed time is counted in whole calendar days and
// converted to years with a fixed 365-day year. Leap years get no
// special treatment.
package datemath

import "time"

// DaysPerYear is the fixed day-count denominator.
const DaysPerYear = 365

// DaysBetween returns the whole-day difference end - start, truncating
// any partial day. Negative when end precedes start.
func DaysBetween(start, end time.Time) int {
	return int(truncateToDay(end).Sub(truncateToDay(start)).Hours() / 24)
}

// DaysBetweenAbs returns the absolute whole-day difference, for
// elapsed-time displays where direction does not matter.
func DaysBetweenAbs(start, end time.Time) int {
	d := DaysBetween(start, end)
	if d < 0 {
		return -d
	}
	return d
}

// YearFraction converts a day count to years using the fixed 365-day
// convention.
func YearFraction(days int) float64 {
	return float64(days) / DaysPerYear
}

func truncateToDay(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

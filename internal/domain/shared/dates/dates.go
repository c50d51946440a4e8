package dates

import "time"

// Day truncates a timestamp to its UTC day boundary. All day-granularity
// comparisons in the rule engine go through this so that a rule scoped to
// a date matches regardless of the time-of-day on either side.
func Day(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// SameDay reports whether two timestamps fall on the same UTC day.
func SameDay(a, b time.Time) bool {
	return Day(a).Equal(Day(b))
}

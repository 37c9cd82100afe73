package reports

import "time"

// NormalizeRange applies the shared defaulting rule for range reports:
// an absent from defaults to one month before today, an absent to defaults
// to today, and an inverted range is swapped so it is always non-inverted.
func NormalizeRange(now time.Time, from, to *time.Time) (time.Time, time.Time) {
	today := truncateDay(now)
	f := today.AddDate(0, -1, 0)
	t := today
	if from != nil {
		f = truncateDay(*from)
	}
	if to != nil {
		t = truncateDay(*to)
	}
	if f.After(t) {
		f, t = t, f
	}
	return f, t
}

func truncateDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

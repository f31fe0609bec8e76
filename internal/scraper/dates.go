package scraper

import "time"

// effectiveStart picks the window start for one invocation: the requested
// start date, clamped so it never reaches further back than defaultStart
// (one year before now). A zero requested date means "no preference".
func effectiveStart(requested, defaultStart time.Time) time.Time {
	if requested.After(defaultStart) {
		return requested
	}
	return defaultStart
}

// monthStarts enumerates the first day of every calendar month from the
// month containing from through the month containing until, inclusive.
func monthStarts(from, until time.Time) []time.Time {
	cur := time.Date(from.Year(), from.Month(), 1, 0, 0, 0, 0, from.Location())
	end := time.Date(until.Year(), until.Month(), 1, 0, 0, 0, 0, until.Location())

	var months []time.Time
	for !cur.After(end) {
		months = append(months, cur)
		cur = cur.AddDate(0, 1, 0)
	}
	return months
}

// Package streak computes consecutive-day streaks and recency-weighted
// momentum over a completion history. All functions are pure: history
// maps ISO days (2006-01-02) to completion, and the reference time is
// an explicit argument so results are reproducible in tests.
package streak

import "time"

const dayFormat = "2006-01-02"

// Current returns the length of the run of consecutive completed days
// ending at the most recent completed day. The streak only counts if
// that day is today or yesterday relative to now; an older last
// completion means the streak has lapsed and the result is 0.
func Current(history map[string]bool, now time.Time) int {
	last, ok := lastCompleted(history)
	if !ok {
		return 0
	}

	today := midnight(now)
	yesterday := today.AddDate(0, 0, -1)
	if !last.Equal(today) && !last.Equal(yesterday) {
		return 0
	}

	count := 0
	for d := last; history[d.Format(dayFormat)]; d = d.AddDate(0, 0, -1) {
		count++
	}
	return count
}

// Best returns the longest run of consecutive completed days anywhere
// in the history, lapsed or not.
func Best(history map[string]bool) int {
	best := 0
	for day, done := range history {
		if !done {
			continue
		}
		start, err := time.Parse(dayFormat, day)
		if err != nil {
			continue
		}
		// Only count runs from their first day, so each run is
		// measured exactly once.
		if history[start.AddDate(0, 0, -1).Format(dayFormat)] {
			continue
		}
		length := 0
		for d := start; history[d.Format(dayFormat)]; d = d.AddDate(0, 0, 1) {
			length++
		}
		if length > best {
			best = length
		}
	}
	return best
}

// Momentum scores the trailing 7 days (today inclusive) with linear
// recency decay: a completion daysAgo days back is worth
// (8-daysAgo)*10 points, so today is 80 and six days ago is 20.
// The sum is capped at 100.
func Momentum(history map[string]bool, now time.Time) int {
	today := midnight(now)
	score := 0
	for daysAgo := 0; daysAgo < 7; daysAgo++ {
		day := today.AddDate(0, 0, -daysAgo).Format(dayFormat)
		if history[day] {
			score += (8 - daysAgo) * 10
		}
	}
	if score > 100 {
		score = 100
	}
	return score
}

func lastCompleted(history map[string]bool) (time.Time, bool) {
	var last time.Time
	found := false
	for day, done := range history {
		if !done {
			continue
		}
		t, err := time.Parse(dayFormat, day)
		if err != nil {
			continue
		}
		if !found || t.After(last) {
			last = t
			found = true
		}
	}
	return last, found
}

func midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

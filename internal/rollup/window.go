package rollup

import "time"

// Window is an inclusive reporting interval. End always sits at the last
// millisecond of its calendar day, so a window covers whole days.
type Window struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// NewWindow builds a window from start to the end of end's calendar day.
func NewWindow(start, end time.Time) Window {
	return Window{Start: start, End: endOfDay(end)}
}

// LastNDays builds a window covering the n calendar days ending today,
// relative to now. A non-positive n yields a single-day window.
func LastNDays(now time.Time, n int) Window {
	if n < 1 {
		n = 1
	}
	end := endOfDay(now)
	start := startOfDay(now.AddDate(0, 0, -(n - 1)))
	return Window{Start: start, End: end}
}

// Baseline returns the window of identical length immediately preceding
// this one, ending one millisecond before Start.
func (w Window) Baseline() Window {
	length := w.End.Sub(w.Start)
	end := w.Start.Add(-time.Millisecond)
	return Window{Start: end.Add(-length), End: end}
}

// Contains reports whether t falls inside the window, bounds included.
func (w Window) Contains(t time.Time) bool {
	return !t.Before(w.Start) && !t.After(w.End)
}

// Days returns the number of calendar days the window spans.
func (w Window) Days() int {
	return int(w.End.Sub(w.Start).Hours()/24) + 1
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

func endOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 23, 59, 59, 999_000_000, t.Location())
}

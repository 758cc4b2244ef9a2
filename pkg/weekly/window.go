package weekly

import (
	"fmt"
	"time"

	"github.com/elonfeng/rankweekly/pkg/snapshot"
)

// Window is a 7-day Monday–Sunday span. Windows are anchored to each
// source's own max observed date, never to wall-clock today, so a stale
// source still reports its last complete week instead of an empty one.
type Window struct {
	Start time.Time
	End   time.Time
}

// WeekOf returns the Mon–Sun window containing d.
func WeekOf(d time.Time) Window {
	day := time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, time.UTC)
	offset := (int(day.Weekday()) + 6) % 7 // Monday = 0
	start := day.AddDate(0, 0, -offset)
	return Window{Start: start, End: start.AddDate(0, 0, 6)}
}

// Prev returns the window shifted back exactly 7 days.
func (w Window) Prev() Window {
	return Window{Start: w.Start.AddDate(0, 0, -7), End: w.End.AddDate(0, 0, -7)}
}

// Lookback returns the 28 days immediately preceding the window start,
// used by lifecycle classification.
func (w Window) Lookback() Window {
	return Window{Start: w.Start.AddDate(0, 0, -28), End: w.Start.AddDate(0, 0, -1)}
}

// Contains reports whether d falls inside the window (date precision).
func (w Window) Contains(d time.Time) bool {
	day := time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, time.UTC)
	return !day.Before(w.Start) && !day.After(w.End)
}

// IsZero reports an unset window.
func (w Window) IsZero() bool {
	return w.Start.IsZero()
}

// String renders the range label used in report headers.
func (w Window) String() string {
	return fmt.Sprintf("%s~%s", w.Start.Format("2006-01-02"), w.End.Format("2006-01-02"))
}

// LatestDate returns the max observed date across rows, zero when empty.
func LatestDate(rows []snapshot.Row) time.Time {
	var latest time.Time
	for _, r := range rows {
		if r.Date.After(latest) {
			latest = r.Date
		}
	}
	return latest
}

// Filter returns the rows whose date falls inside the window.
func Filter(rows []snapshot.Row, w Window) []snapshot.Row {
	var out []snapshot.Row
	for _, r := range rows {
		if w.Contains(r.Date) {
			out = append(out, r)
		}
	}
	return out
}

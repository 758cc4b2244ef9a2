package weekly

import (
	"testing"
	"time"

	"github.com/elonfeng/rankweekly/pkg/snapshot"
	"github.com/stretchr/testify/assert"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestWeekOf(t *testing.T) {
	// 2025-06-04 is a Wednesday.
	w := WeekOf(date(2025, 6, 4))
	assert.Equal(t, date(2025, 6, 2), w.Start)
	assert.Equal(t, date(2025, 6, 8), w.End)

	// Monday and Sunday both stay in the same week.
	assert.Equal(t, w, WeekOf(date(2025, 6, 2)))
	assert.Equal(t, w, WeekOf(date(2025, 6, 8)))

	// Time-of-day is irrelevant.
	assert.Equal(t, w, WeekOf(time.Date(2025, 6, 4, 23, 59, 0, 0, time.UTC)))
}

func TestWindowPrev(t *testing.T) {
	w := WeekOf(date(2025, 6, 4))
	p := w.Prev()
	assert.Equal(t, date(2025, 5, 26), p.Start)
	assert.Equal(t, date(2025, 6, 1), p.End)
}

func TestWindowLookback(t *testing.T) {
	w := WeekOf(date(2025, 6, 4))
	lb := w.Lookback()
	assert.Equal(t, date(2025, 5, 5), lb.Start)
	assert.Equal(t, date(2025, 6, 1), lb.End)
}

func TestWindowContains(t *testing.T) {
	w := WeekOf(date(2025, 6, 4))
	assert.True(t, w.Contains(date(2025, 6, 2)))
	assert.True(t, w.Contains(date(2025, 6, 8)))
	assert.False(t, w.Contains(date(2025, 6, 1)))
	assert.False(t, w.Contains(date(2025, 6, 9)))
}

func TestWindowString(t *testing.T) {
	assert.Equal(t, "2025-06-02~2025-06-08", WeekOf(date(2025, 6, 4)).String())
}

func TestLatestDateAndFilter(t *testing.T) {
	rows := []snapshot.Row{
		{Date: date(2025, 6, 1), Key: "A"},
		{Date: date(2025, 6, 7), Key: "B"},
		{Date: date(2025, 6, 3), Key: "C"},
	}
	assert.Equal(t, date(2025, 6, 7), LatestDate(rows))
	assert.True(t, LatestDate(nil).IsZero())

	w := WeekOf(date(2025, 6, 7))
	kept := Filter(rows, w)
	assert.Len(t, kept, 2)
}

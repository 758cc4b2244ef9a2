package weekly

import (
	"testing"

	"github.com/elonfeng/rankweekly/pkg/snapshot"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMovementLabel(t *testing.T) {
	assert.Equal(t, "NEW", Movement{New: true}.Label())
	assert.Equal(t, "유지", Movement{Delta: 0}.Label())
	assert.Equal(t, "유지", Movement{Delta: 0.4}.Label(), "rounds to zero")
	assert.Equal(t, "↑3", Movement{Delta: 2.6}.Label())
	assert.Equal(t, "↓2", Movement{Delta: -2.4}.Label())
}

func TestCompareItems(t *testing.T) {
	cur := WeekOf(date(2025, 6, 9))
	prev := cur.Prev()

	var rows []snapshot.Row
	rows = append(rows, weekRows(cur.Start, "BETTER", 2, 2, 2)...)
	rows = append(rows, weekRows(prev.Start, "BETTER", 5, 5, 5)...)
	rows = append(rows, weekRows(cur.Start, "FRESH", 1, 1, 1)...)
	rows = append(rows, weekRows(cur.Start, "BRIEFLY", 3, 3, 3)...)
	rows = append(rows, weekRows(prev.Start, "BRIEFLY", 1)...) // below the gate last week

	curStats := Aggregate(cur, 100, rows)
	prevStats := Aggregate(prev, 100, rows)

	moves := CompareItems(curStats, prevStats, 3)

	assert.Equal(t, 3.0, moves["BETTER"].Delta, "positive delta means improved")
	assert.False(t, moves["BETTER"].New)
	assert.True(t, moves["FRESH"].New, "absent last week")
	assert.True(t, moves["BRIEFLY"].New, "present last week but below min_days")
}

func TestCompareItems_EmptyPrevWeek(t *testing.T) {
	cur := WeekOf(date(2025, 6, 9))
	rows := weekRows(cur.Start, "A", 1, 1, 1)

	moves := CompareItems(Aggregate(cur, 100, rows), Aggregate(cur.Prev(), 100, nil), 3)
	assert.True(t, moves["A"].New)
}

func TestCompareBrands(t *testing.T) {
	cur := WeekOf(date(2025, 6, 9))
	day1, day2 := cur.Start, cur.Start.AddDate(0, 0, 1)

	rows := []snapshot.Row{
		{Date: day1, Key: "A1", Rank: 1, Brand: "알파"},
		{Date: day1, Key: "A2", Rank: 2, Brand: "알파"},
		{Date: day2, Key: "A1", Rank: 1, Brand: "알파"},
		{Date: day1, Key: "B1", Rank: 3, Brand: "베타"},
	}

	trends := CompareBrands(Aggregate(cur, 100, rows), Aggregate(cur.Prev(), 100, nil))
	require.Len(t, trends, 2)

	assert.Equal(t, "알파", trends[0].Brand)
	assert.Equal(t, 1.5, trends[0].PerDay, "3 appearances over 2 days")
	assert.Equal(t, 1.5, trends[0].Delta, "no previous week")

	assert.Equal(t, "베타", trends[1].Brand)
	assert.Equal(t, 0.5, trends[1].PerDay)
}

func TestTurnoverAvg_SingleSwap(t *testing.T) {
	cur := WeekOf(date(2025, 6, 9))
	day1, day2 := cur.Start, cur.Start.AddDate(0, 0, 1)

	rows := []snapshot.Row{
		{Date: day1, Key: "A", Rank: 1},
		{Date: day1, Key: "B", Rank: 2},
		{Date: day2, Key: "A", Rank: 1},
		{Date: day2, Key: "C", Rank: 2},
	}

	assert.Equal(t, 1.0, TurnoverAvg(Aggregate(cur, 100, rows)))
}

func TestTurnoverAvg_SkipsGapDays(t *testing.T) {
	cur := WeekOf(date(2025, 6, 9))
	day1 := cur.Start
	day2 := cur.Start.AddDate(0, 0, 1)
	day4 := cur.Start.AddDate(0, 0, 3) // no snapshot on day 3

	rows := []snapshot.Row{
		{Date: day1, Key: "A", Rank: 1},
		{Date: day2, Key: "A", Rank: 1},
		{Date: day2, Key: "B", Rank: 2},
		// Everything changed on day 4, but its predecessor is missing, so
		// the pair is excluded rather than counted as churn.
		{Date: day4, Key: "X", Rank: 1},
		{Date: day4, Key: "Y", Rank: 2},
	}

	assert.Equal(t, 1.0, TurnoverAvg(Aggregate(cur, 100, rows)))
}

func TestTurnoverAvg_NotEnoughDays(t *testing.T) {
	cur := WeekOf(date(2025, 6, 9))
	rows := []snapshot.Row{{Date: cur.Start, Key: "A", Rank: 1}}
	assert.Equal(t, 0.0, TurnoverAvg(Aggregate(cur, 100, rows)))
	assert.Equal(t, 0.0, TurnoverAvg(Aggregate(cur, 100, nil)))
}

func TestTurnoverAvg_IdenticalDays(t *testing.T) {
	cur := WeekOf(date(2025, 6, 9))
	var rows []snapshot.Row
	rows = append(rows, weekRows(cur.Start, "A", 1, 1, 1)...)
	rows = append(rows, weekRows(cur.Start, "B", 2, 2, 2)...)

	assert.Equal(t, 0.0, TurnoverAvg(Aggregate(cur, 100, rows)))
}

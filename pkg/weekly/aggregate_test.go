package weekly

import (
	"testing"
	"time"

	"github.com/elonfeng/rankweekly/pkg/snapshot"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func weekRows(start time.Time, key string, ranks ...int) []snapshot.Row {
	rows := make([]snapshot.Row, 0, len(ranks))
	for i, r := range ranks {
		if r == 0 {
			continue // absent that day
		}
		rows = append(rows, snapshot.Row{
			Date: start.AddDate(0, 0, i),
			Key:  key,
			Rank: r,
			Name: key + " 제품",
		})
	}
	return rows
}

func TestAggregate_FullWeekAtRankOne(t *testing.T) {
	w := WeekOf(date(2025, 6, 2))
	rows := weekRows(w.Start, "A", 1, 1, 1, 1, 1, 1, 1)

	stats := Aggregate(w, 100, rows)
	require.False(t, stats.Empty())

	it := stats.Items["A"]
	assert.Equal(t, 7, it.Days)
	assert.Equal(t, 1.0, it.MeanRank)
	assert.Equal(t, 1, it.BestRank)
	assert.Equal(t, 700, it.Score, "7 days × (100+1−1)")
}

func TestAggregate_DedupesSameDayByBestRank(t *testing.T) {
	w := WeekOf(date(2025, 6, 2))
	rows := []snapshot.Row{
		{Date: w.Start, Key: "A", Rank: 5},
		{Date: w.Start, Key: "A", Rank: 3},
		{Date: w.Start, Key: "A", Rank: 9},
	}

	stats := Aggregate(w, 100, rows)
	it := stats.Items["A"]
	assert.Equal(t, 1, it.Days)
	assert.Equal(t, 3.0, it.MeanRank)
	assert.Equal(t, 98, it.Score, "one day counted once at the best rank")
}

func TestAggregate_CutoffAndWindowFilter(t *testing.T) {
	w := WeekOf(date(2025, 6, 2))
	rows := []snapshot.Row{
		{Date: w.Start, Key: "IN", Rank: 100},
		{Date: w.Start, Key: "OUT", Rank: 101},
		{Date: w.Start.AddDate(0, 0, -1), Key: "LASTWEEK", Rank: 1},
		{Date: w.Start, Key: "", Rank: 2},
	}

	stats := Aggregate(w, 100, rows)
	assert.Len(t, stats.Items, 1)
	assert.Contains(t, stats.Items, "IN")
	assert.Equal(t, 1, stats.Items["IN"].Score, "rank at the cutoff is worth 1")
}

func TestAggregate_RepresentativeIsLatestDay(t *testing.T) {
	w := WeekOf(date(2025, 6, 2))
	rows := []snapshot.Row{
		{Date: w.Start, Key: "A", Rank: 1, Name: "구버전 이름"},
		{Date: w.Start.AddDate(0, 0, 3), Key: "A", Rank: 2, Name: "올영픽 신버전", Brand: "브랜드A"},
	}

	stats := Aggregate(w, 100, rows)
	it := stats.Items["A"]
	assert.Equal(t, "올영픽 신버전", it.Name)
	assert.Equal(t, "브랜드A", it.Brand)
}

func TestAggregate_DaysBounded(t *testing.T) {
	w := WeekOf(date(2025, 6, 2))
	rows := weekRows(w.Start, "A", 1, 1, 1, 1, 1, 1, 1)

	stats := Aggregate(w, 100, rows)
	for _, it := range stats.Items {
		assert.GreaterOrEqual(t, it.Days, 1)
		assert.LessOrEqual(t, it.Days, 7)
	}
}

func TestAggregate_ScoreMonotonicWithBetterRanks(t *testing.T) {
	w := WeekOf(date(2025, 6, 2))
	var rows []snapshot.Row
	rows = append(rows, weekRows(w.Start, "BETTER", 2, 3, 4)...)
	rows = append(rows, weekRows(w.Start, "WORSE", 5, 6, 7)...)

	stats := Aggregate(w, 100, rows)
	better, worse := stats.Items["BETTER"], stats.Items["WORSE"]

	require.Equal(t, better.Days, worse.Days)
	assert.Greater(t, better.Score, worse.Score, "strictly better daily ranks mean a strictly higher score")
}

func TestAggregate_EmptyResult(t *testing.T) {
	w := WeekOf(date(2025, 6, 2))
	stats := Aggregate(w, 100, nil)
	assert.True(t, stats.Empty())
	assert.Equal(t, 0, stats.UniqueCount())
	assert.Equal(t, 0.0, stats.KeepDaysMean())
	assert.Empty(t, stats.TopItems(3, 10))
}

func TestTopItems_StabilityGateAndOrder(t *testing.T) {
	w := WeekOf(date(2025, 6, 2))
	var rows []snapshot.Row
	rows = append(rows, weekRows(w.Start, "STEADY", 5, 5, 5, 5, 5, 5, 5)...) // score 7×96=672
	rows = append(rows, weekRows(w.Start, "SPIKE", 1)...)                    // score 100, 1 day
	rows = append(rows, weekRows(w.Start, "MID", 2, 2, 2)...)                // score 3×99=297

	stats := Aggregate(w, 100, rows)
	top := stats.TopItems(3, 10)

	require.Len(t, top, 2, "1-day spike fails the stability gate")
	assert.Equal(t, "STEADY", top[0].Key, "sustained presence beats a single #1 day")
	assert.Equal(t, "MID", top[1].Key)
}

func TestTopItems_TieBreaks(t *testing.T) {
	w := WeekOf(date(2025, 6, 2))
	var rows []snapshot.Row
	// Same score 297: B via 3 days at rank 2, A via 3 days at rank 2.
	rows = append(rows, weekRows(w.Start, "B", 2, 2, 2)...)
	rows = append(rows, weekRows(w.Start, "A", 2, 2, 2)...)
	// Same score but fewer days: 2 days, ranks 1 and 4 → 100+97=197.
	rows = append(rows, weekRows(w.Start, "C", 1, 4)...)

	stats := Aggregate(w, 100, rows)
	top := stats.TopItems(2, 10)

	require.Len(t, top, 3)
	assert.Equal(t, "A", top[0].Key, "key breaks a full tie")
	assert.Equal(t, "B", top[1].Key)
	assert.Equal(t, "C", top[2].Key)
}

func TestTopItems_Deterministic(t *testing.T) {
	w := WeekOf(date(2025, 6, 2))
	var rows []snapshot.Row
	for _, key := range []string{"E", "A", "C", "B", "D"} {
		rows = append(rows, weekRows(w.Start, key, 3, 3, 3)...)
	}

	first := Aggregate(w, 100, rows).TopItems(3, 10)
	for i := 0; i < 10; i++ {
		again := Aggregate(w, 100, rows).TopItems(3, 10)
		require.Equal(t, first, again)
	}
}

func TestKeepDaysMeanAndUniqueCount(t *testing.T) {
	w := WeekOf(date(2025, 6, 2))
	var rows []snapshot.Row
	rows = append(rows, weekRows(w.Start, "A", 1, 1, 1, 1)...) // 4 days
	rows = append(rows, weekRows(w.Start, "B", 2, 2)...)       // 2 days

	stats := Aggregate(w, 100, rows)
	assert.Equal(t, 2, stats.UniqueCount())
	assert.Equal(t, 3.0, stats.KeepDaysMean())
}

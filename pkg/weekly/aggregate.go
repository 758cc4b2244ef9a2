package weekly

import (
	"sort"

	"github.com/elonfeng/rankweekly/pkg/snapshot"
)

// ItemStat is one product's weekly aggregate inside the Top-N cutoff.
type ItemStat struct {
	Key   string
	Name  string
	Brand string
	URL   string

	Days     int     // distinct days present, 1..7
	MeanRank float64 // arithmetic mean of daily ranks
	BestRank int     // min daily rank

	// Score is Σ over days of (topn + 1 − rank): a persistence-weighted
	// value where sustained mid-rank presence beats a single #1 day.
	Score int
}

// WeekStats is the per-source weekly aggregate. A zero-item WeekStats is
// the explicit "no data" result; callers check Empty() instead of
// handling errors.
type WeekStats struct {
	Window Window
	TopN   int
	Items  map[string]ItemStat

	days        []string
	dailyKeys   map[string]map[string]struct{}
	brandTotals map[string]int
}

// Aggregate builds the weekly stats for rows inside the window:
// cap filter, (day, key) best-rank dedupe, then per-key persistence,
// mean/best rank and score, with latest-day representative attributes.
func Aggregate(w Window, topn int, rows []snapshot.Row) *WeekStats {
	stats := &WeekStats{
		Window:      w,
		TopN:        topn,
		Items:       make(map[string]ItemStat),
		dailyKeys:   make(map[string]map[string]struct{}),
		brandTotals: make(map[string]int),
	}

	type dayKey struct{ day, key string }
	best := make(map[dayKey]snapshot.Row)
	for _, r := range rows {
		if r.Rank > topn || r.Key == "" || !w.Contains(r.Date) {
			continue
		}
		dk := dayKey{r.Day(), r.Key}
		if prev, ok := best[dk]; !ok || r.Rank < prev.Rank {
			best[dk] = r
		}
	}
	if len(best) == 0 {
		return stats
	}

	type acc struct {
		days     int
		rankSum  int
		bestRank int
		score    int
		rep      snapshot.Row // latest-day row, promo text is time-sensitive
	}
	byKey := make(map[string]*acc)
	for dk, r := range best {
		a := byKey[dk.key]
		if a == nil {
			a = &acc{bestRank: r.Rank, rep: r}
			byKey[dk.key] = a
		}
		a.days++
		a.rankSum += r.Rank
		a.score += topn + 1 - r.Rank
		if r.Rank < a.bestRank {
			a.bestRank = r.Rank
		}
		if r.Date.After(a.rep.Date) {
			a.rep = r
		}

		keys := stats.dailyKeys[dk.day]
		if keys == nil {
			keys = make(map[string]struct{})
			stats.dailyKeys[dk.day] = keys
		}
		keys[dk.key] = struct{}{}
		if r.Brand != "" {
			stats.brandTotals[r.Brand]++
		}
	}

	for key, a := range byKey {
		stats.Items[key] = ItemStat{
			Key:      key,
			Name:     a.rep.Name,
			Brand:    a.rep.Brand,
			URL:      a.rep.URL,
			Days:     a.days,
			MeanRank: float64(a.rankSum) / float64(a.days),
			BestRank: a.bestRank,
			Score:    a.score,
		}
	}

	for day := range stats.dailyKeys {
		stats.days = append(stats.days, day)
	}
	sort.Strings(stats.days)
	return stats
}

// Empty reports the "no data" sentinel state.
func (s *WeekStats) Empty() bool {
	return s == nil || len(s.Items) == 0
}

// Days returns the sorted distinct days with data.
func (s *WeekStats) Days() []string {
	return s.days
}

// KeysOn returns the Top-N key set observed on a day, nil when the day
// has no snapshot.
func (s *WeekStats) KeysOn(day string) map[string]struct{} {
	return s.dailyKeys[day]
}

// UniqueCount is the number of distinct keys seen this week.
func (s *WeekStats) UniqueCount() int {
	return len(s.Items)
}

// KeepDaysMean is the average persistence across all keys.
func (s *WeekStats) KeepDaysMean() float64 {
	if len(s.Items) == 0 {
		return 0
	}
	total := 0
	for _, it := range s.Items {
		total += it.Days
	}
	return float64(total) / float64(len(s.Items))
}

// TopItems applies the stability gate (days ≥ minDays) and returns up to
// n items in the canonical order: score desc, days desc, best rank asc,
// key asc. The key tie-break makes re-runs byte-identical.
func (s *WeekStats) TopItems(minDays, n int) []ItemStat {
	var items []ItemStat
	for _, it := range s.Items {
		if it.Days >= minDays {
			items = append(items, it)
		}
	}
	sort.Slice(items, func(i, j int) bool { return lessByScore(items[i], items[j]) })
	if len(items) > n {
		items = items[:n]
	}
	return items
}

func lessByScore(a, b ItemStat) bool {
	if a.Score != b.Score {
		return a.Score > b.Score
	}
	if a.Days != b.Days {
		return a.Days > b.Days
	}
	if a.BestRank != b.BestRank {
		return a.BestRank < b.BestRank
	}
	return a.Key < b.Key
}

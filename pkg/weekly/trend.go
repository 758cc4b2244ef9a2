package weekly

import (
	"fmt"
	"math"
	"sort"
	"time"
)

// Movement is one item's week-over-week shift. Delta is
// prev.MeanRank − cur.MeanRank, so positive means improved.
type Movement struct {
	New   bool
	Delta float64
}

// Label renders the display label: NEW for first-time entries, 유지 when
// the rounded delta is zero, otherwise an arrow with the rounded
// magnitude.
func (m Movement) Label() string {
	if m.New {
		return "NEW"
	}
	n := int(math.Round(math.Abs(m.Delta)))
	if n == 0 {
		return "유지"
	}
	if m.Delta > 0 {
		return fmt.Sprintf("↑%d", n)
	}
	return fmt.Sprintf("↓%d", n)
}

// CompareItems computes per-key movements for the current week. A key
// absent last week, or present but below the stability gate, counts as
// NEW.
func CompareItems(cur, prev *WeekStats, minDays int) map[string]Movement {
	moves := make(map[string]Movement, len(cur.Items))
	for key, it := range cur.Items {
		if prev.Empty() {
			moves[key] = Movement{New: true}
			continue
		}
		p, ok := prev.Items[key]
		if !ok || p.Days < minDays {
			moves[key] = Movement{New: true}
			continue
		}
		moves[key] = Movement{Delta: p.MeanRank - it.MeanRank}
	}
	return moves
}

// BrandTrend is a brand's daily-average appearance count with its delta
// against the previous week.
type BrandTrend struct {
	Brand  string
	PerDay float64
	Delta  float64
}

// CompareBrands computes per-brand daily averages for the current week
// and their deltas, ordered by count desc then brand name.
func CompareBrands(cur, prev *WeekStats) []BrandTrend {
	curAvg := brandDailyAvg(cur)
	prevAvg := brandDailyAvg(prev)

	trends := make([]BrandTrend, 0, len(curAvg))
	for brand, avg := range curAvg {
		trends = append(trends, BrandTrend{
			Brand:  brand,
			PerDay: avg,
			Delta:  round1(avg - prevAvg[brand]),
		})
	}
	sort.Slice(trends, func(i, j int) bool {
		if trends[i].PerDay != trends[j].PerDay {
			return trends[i].PerDay > trends[j].PerDay
		}
		return trends[i].Brand < trends[j].Brand
	})
	return trends
}

func brandDailyAvg(s *WeekStats) map[string]float64 {
	avg := make(map[string]float64)
	if s.Empty() || len(s.days) == 0 {
		return avg
	}
	days := float64(len(s.days))
	for brand, total := range s.brandTotals {
		avg[brand] = round1(float64(total) / days)
	}
	return avg
}

// TurnoverAvg returns the average number of products swapped between
// consecutive days. For a fixed-size list entering and leaving counts
// are equal, so a single swap count is reported. Only day-pairs whose
// calendar predecessor has a snapshot are evaluated; missing days are
// skipped, never assumed to be zero-change.
func TurnoverAvg(s *WeekStats) float64 {
	if s.Empty() || len(s.days) < 2 {
		return 0
	}

	var swaps, pairs int
	for _, day := range s.days {
		d, err := time.Parse("2006-01-02", day)
		if err != nil {
			continue
		}
		prevKeys := s.dailyKeys[d.AddDate(0, 0, -1).Format("2006-01-02")]
		if prevKeys == nil {
			continue
		}
		entered := 0
		for key := range s.dailyKeys[day] {
			if _, ok := prevKeys[key]; !ok {
				entered++
			}
		}
		swaps += entered
		pairs++
	}
	if pairs == 0 {
		return 0
	}
	return round1(float64(swaps) / float64(pairs))
}

func round1(f float64) float64 {
	return math.Round(f*10) / 10
}

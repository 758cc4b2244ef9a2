package weekly

import (
	"sort"

	"github.com/elonfeng/rankweekly/pkg/snapshot"
)

const (
	// HeroMinDays is the in-window persistence a new entrant needs to
	// count as a hero rather than a fluke.
	HeroMinDays = 3
	// FlashMaxDays is the persistence ceiling for a one-off spike.
	FlashMaxDays = 2
)

// LookbackKeys collects every key observed in the history rows,
// regardless of rank. Used as the absence test for heroes.
func LookbackKeys(rows []snapshot.Row) map[string]struct{} {
	keys := make(map[string]struct{})
	for _, r := range rows {
		if r.Key != "" {
			keys[r.Key] = struct{}{}
		}
	}
	return keys
}

// Heroes returns genuinely new, immediately-sustained entrants: present
// ≥ HeroMinDays this week and entirely absent from the 4-week lookback.
// Ordered by the Top-10 tie-break.
func Heroes(cur *WeekStats, history map[string]struct{}, limit int) []ItemStat {
	var heroes []ItemStat
	for key, it := range cur.Items {
		if it.Days < HeroMinDays {
			continue
		}
		if _, seen := history[key]; seen {
			continue
		}
		heroes = append(heroes, it)
	}
	sort.Slice(heroes, func(i, j int) bool { return lessByScore(heroes[i], heroes[j]) })
	if len(heroes) > limit {
		heroes = heroes[:limit]
	}
	return heroes
}

// Flashes returns transient spikes: present ≤ FlashMaxDays this week,
// regardless of history. Shortest-lived first, then the Top-10
// tie-break.
func Flashes(cur *WeekStats, limit int) []ItemStat {
	var flashes []ItemStat
	for _, it := range cur.Items {
		if it.Days <= FlashMaxDays {
			flashes = append(flashes, it)
		}
	}
	sort.Slice(flashes, func(i, j int) bool {
		if flashes[i].Days != flashes[j].Days {
			return flashes[i].Days < flashes[j].Days
		}
		return lessByScore(flashes[i], flashes[j])
	})
	if len(flashes) > limit {
		flashes = flashes[:limit]
	}
	return flashes
}

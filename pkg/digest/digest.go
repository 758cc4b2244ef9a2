package digest

import (
	"fmt"
	"math"

	"github.com/elonfeng/rankweekly/pkg/keyword"
	"github.com/elonfeng/rankweekly/pkg/snapshot"
	"github.com/elonfeng/rankweekly/pkg/weekly"
)

// noData is the literal placeholder rendered for any section that has
// nothing to show. Sections fail independently; a missing section never
// fails the report.
const noData = "데이터 없음"

const (
	topLimit      = 10
	brandLimit    = 15
	lifecycleList = 5
	lifecycleKeep = 10
)

// Entry is one product line in the structured summary record.
type Entry struct {
	Idx   int     `json:"idx,omitempty"`
	Name  string  `json:"name"`
	URL   string  `json:"url,omitempty"`
	Days  int     `json:"days"`
	Avg   float64 `json:"avg"`
	Best  int     `json:"best"`
	Score int     `json:"score"`
	Arrow string  `json:"arrow,omitempty"`
}

// Summary is the structured weekly record consumed by HTML rendering
// and archived per source per run.
type Summary struct {
	Source       string          `json:"source"`
	Range        string          `json:"range"`
	Title        string          `json:"title"`
	TopN         int             `json:"topn"`
	Top10        []Entry         `json:"top10_items"`
	BrandLines   []string        `json:"brand_lines"`
	InOutAvg     float64         `json:"inout_avg"`
	Heroes       []Entry         `json:"heroes"`
	Flashes      []Entry         `json:"flashes"`
	KW           keyword.Summary `json:"kw"`
	UniqueCnt    int             `json:"unique_cnt"`
	KeepDaysMean float64         `json:"keep_days_mean"`
}

// Build assembles the structured summary for one source week. Every
// input may be empty; the result always renders.
func Build(
	spec snapshot.Spec,
	window weekly.Window,
	stats *weekly.WeekStats,
	moves map[string]weekly.Movement,
	brands []weekly.BrandTrend,
	inoutAvg float64,
	heroes, flashes []weekly.ItemStat,
	kw keyword.Summary,
	minDays int,
) *Summary {
	s := &Summary{
		Source:   string(spec.ID),
		Range:    noData,
		Title:    spec.Title,
		TopN:     spec.TopN,
		InOutAvg: inoutAvg,
		KW:       kw,
	}
	if !window.IsZero() {
		s.Range = window.String()
	}
	if stats.Empty() {
		return s
	}

	for i, it := range stats.TopItems(minDays, topLimit) {
		s.Top10 = append(s.Top10, itemEntry(it, i+1, moves[it.Key].Label()))
	}
	for _, b := range brands {
		if len(s.BrandLines) == brandLimit {
			break
		}
		s.BrandLines = append(s.BrandLines, fmt.Sprintf("%s %.1f개/일 %s", b.Brand, b.PerDay, deltaLabel(b.Delta)))
	}
	for _, it := range heroes {
		if len(s.Heroes) == lifecycleKeep {
			break
		}
		s.Heroes = append(s.Heroes, itemEntry(it, 0, ""))
	}
	for _, it := range flashes {
		if len(s.Flashes) == lifecycleKeep {
			break
		}
		s.Flashes = append(s.Flashes, itemEntry(it, 0, ""))
	}
	s.UniqueCnt = stats.UniqueCount()
	s.KeepDaysMean = math.Round(stats.KeepDaysMean()*10) / 10
	return s
}

func itemEntry(it weekly.ItemStat, idx int, arrow string) Entry {
	return Entry{
		Idx:   idx,
		Name:  displayName(it),
		URL:   it.URL,
		Days:  it.Days,
		Avg:   math.Round(it.MeanRank*10) / 10,
		Best:  it.BestRank,
		Score: it.Score,
		Arrow: arrow,
	}
}

// displayName falls back to brand, then key, since promo text columns
// are often missing mid-week.
func displayName(it weekly.ItemStat) string {
	if it.Name != "" {
		return it.Name
	}
	if it.Brand != "" {
		return it.Brand
	}
	return it.Key
}

func deltaLabel(delta float64) string {
	switch {
	case delta > 0:
		return fmt.Sprintf("▲%.1f", delta)
	case delta < 0:
		return fmt.Sprintf("▼%.1f", -delta)
	default:
		return "—"
	}
}

// link renders the <url|label> hyperlink convention; a bare label when
// there is no URL.
func link(url, label string) string {
	if url == "" {
		return label
	}
	return fmt.Sprintf("<%s|%s>", url, label)
}

package digest

import (
	"fmt"
	"strings"

	"github.com/elonfeng/rankweekly/pkg/keyword"
)

// BuildText renders the plain-text digest in the fixed section order:
// header, Top10, brand counts, turnover, heroes, flashes, stats,
// keyword summary. UTF-8, Slack-style <url|label> links.
func BuildText(s *Summary) string {
	var lines []string
	push := func(format string, args ...any) {
		lines = append(lines, fmt.Sprintf(format, args...))
	}

	push("📈 *주간 리포트 · %s (%s)*", s.Title, s.Range)
	push("")

	push("🏆 *Top10*")
	if len(s.Top10) == 0 {
		push(noData)
	}
	for _, e := range s.Top10 {
		push("%d. %s (유지 %d일 · 평균 %.1f위) (%s)", e.Idx, link(e.URL, e.Name), e.Days, e.Avg, e.Arrow)
	}
	push("")

	push("📦 *브랜드 개수(일평균)*")
	if len(s.BrandLines) == 0 {
		push(noData)
	}
	lines = append(lines, s.BrandLines...)
	push("")

	push("🔁 *인앤아웃(교체)*")
	push("- 일평균 %.1f개", s.InOutAvg)
	push("")

	push("🆕 *신규 히어로(≥3일 유지)*")
	lines = append(lines, lifecycleLines(s.Heroes)...)
	push("✨ *반짝 아이템(≤2일)*")
	lines = append(lines, lifecycleLines(s.Flashes)...)
	push("")

	push("📌 *통계*")
	push("- Top%d 등극 SKU : %d개", s.TopN, s.UniqueCnt)
	push("- Top %d 유지 평균 : %.1f일", s.TopN, s.KeepDaysMean)
	push("")

	lines = append(lines, keywordLines(s.KW)...)

	return strings.Join(lines, "\n")
}

func lifecycleLines(entries []Entry) []string {
	if len(entries) == 0 {
		return []string{"없음"}
	}
	out := make([]string, 0, lifecycleList)
	for _, e := range entries {
		if len(out) == lifecycleList {
			break
		}
		out = append(out, fmt.Sprintf("- %s (유지 %d일 · 평균 %.1f위)", link(e.URL, e.Name), e.Days, e.Avg))
	}
	return out
}

func keywordLines(kw keyword.Summary) []string {
	lines := []string{"📊 *주간 키워드 분석*"}
	if kw.Unique == 0 {
		return append(lines, noData)
	}
	lines = append(lines, fmt.Sprintf("- 유니크 SKU: %d개", kw.Unique))

	pct := func(n int) float64 {
		return float64(n) * 100 / float64(kw.Unique)
	}
	if counts := keyword.SortedCounts(kw.Marketing); len(counts) > 0 {
		parts := make([]string, 0, len(counts))
		for _, c := range counts {
			parts = append(parts, fmt.Sprintf("%s %d개(%.1f%%)", c.Name, c.N, pct(c.N)))
		}
		lines = append(lines, "• *마케팅 키워드* "+strings.Join(parts, " · "))
	}
	if counts := keyword.SortedCounts(kw.Influencers); len(counts) > 0 {
		parts := make([]string, 0, len(counts))
		for _, c := range counts {
			parts = append(parts, fmt.Sprintf("%s %d개", c.Name, c.N))
		}
		lines = append(lines, "• *인플루언서* "+strings.Join(parts, " · "))
	}
	if counts := keyword.SortedCounts(kw.Ingredients); len(counts) > 0 {
		parts := make([]string, 0, len(counts))
		for _, c := range counts {
			parts = append(parts, fmt.Sprintf("%s %d개", c.Name, c.N))
		}
		lines = append(lines, "• *성분 키워드* "+strings.Join(parts, " · "))
	}
	return lines
}

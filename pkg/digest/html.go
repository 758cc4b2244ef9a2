package digest

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"

	"github.com/elonfeng/rankweekly/pkg/keyword"
)

// BuildHTML renders every source section into a single report page for
// downstream upload. Returns the conventional file name
// (weekly_YYYY_MM_DD_YYYY_MM_DD.html) and the document.
func BuildHTML(summaries []*Summary) (string, []byte, error) {
	page := reportPage{Range: noData}
	for _, s := range summaries {
		if page.Range == noData && s.Range != noData {
			page.Range = s.Range
		}
		page.Sections = append(page.Sections, newSectionView(s))
	}

	var buf bytes.Buffer
	if err := reportTemplate.Execute(&buf, page); err != nil {
		return "", nil, fmt.Errorf("render html report: %w", err)
	}

	name := "weekly_report.html"
	if page.Range != noData {
		r := strings.NewReplacer("-", "_", "~", "_")
		name = fmt.Sprintf("weekly_%s.html", r.Replace(page.Range))
	}
	return name, buf.Bytes(), nil
}

type reportPage struct {
	Range    string
	Sections []sectionView
}

type sectionView struct {
	Title        string
	Range        string
	TopN         int
	Top10        []Entry
	BrandLines   []string
	InOutAvg     float64
	Heroes       []Entry
	Flashes      []Entry
	Unique       int
	Marketing    []kwCount
	Influencers  []kwCount
	Ingredients  []kwCount
	UniqueCnt    int
	KeepDaysMean float64
}

type kwCount struct {
	Name string
	N    int
	Pct  float64
}

func newSectionView(s *Summary) sectionView {
	v := sectionView{
		Title:        s.Title,
		Range:        s.Range,
		TopN:         s.TopN,
		Top10:        s.Top10,
		BrandLines:   s.BrandLines,
		InOutAvg:     s.InOutAvg,
		Heroes:       s.Heroes,
		Flashes:      s.Flashes,
		Unique:       s.KW.Unique,
		UniqueCnt:    s.UniqueCnt,
		KeepDaysMean: s.KeepDaysMean,
	}
	for _, c := range keyword.SortedCounts(s.KW.Marketing) {
		pct := float64(c.N) * 100 / float64(max(1, s.KW.Unique))
		v.Marketing = append(v.Marketing, kwCount{Name: c.Name, N: c.N, Pct: pct})
	}
	for _, c := range keyword.SortedCounts(s.KW.Influencers) {
		v.Influencers = append(v.Influencers, kwCount{Name: c.Name, N: c.N})
	}
	for _, c := range keyword.SortedCounts(s.KW.Ingredients) {
		v.Ingredients = append(v.Ingredients, kwCount{Name: c.Name, N: c.N})
	}
	return v
}

var reportTemplate = template.Must(template.New("report").Parse(`<!doctype html>
<html lang="ko">
<head>
<meta charset="utf-8">
<title>주간 리포트</title>
<style>
body{font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, 'Noto Sans KR', Arial, sans-serif; padding:24px; line-height:1.56;}
h1{margin-top:0}
h2{margin-top:32px; border-top:1px solid #eee; padding-top:16px}
h3{margin:16px 0 8px}
small{color:#888}
ul,ol{margin:8px 0 16px 20px}
</style>
</head>
<body>
<h1><b>주간 리포트</b> <small>({{.Range}})</small></h1>
{{range .Sections}}
<h2>📈 {{.Title}} <small>({{.Range}})</small></h2>
<h3><b>Top10</b></h3>
{{if .Top10}}<ol>
{{range .Top10}}<li>{{if .URL}}<a href="{{.URL}}" target="_blank" rel="noopener">{{.Name}}</a>{{else}}{{.Name}}{{end}} (유지 {{.Days}}일 · 평균 {{printf "%.1f" .Avg}}위) ({{.Arrow}})</li>
{{end}}</ol>{{else}}<p>데이터 없음</p>{{end}}
<h3><b>브랜드 개수(일평균)</b></h3>
{{if .BrandLines}}<ul>
{{range .BrandLines}}<li>{{.}}</li>
{{end}}</ul>{{else}}<p>데이터 없음</p>{{end}}
<h3><b>인앤아웃(교체)</b></h3>
<p>일평균 {{printf "%.1f" .InOutAvg}}개</p>
<h3><b>신규 히어로(≥3일 유지)</b></h3>
{{if .Heroes}}<ul>
{{range .Heroes}}<li>{{if .URL}}<a href="{{.URL}}" target="_blank" rel="noopener">{{.Name}}</a>{{else}}{{.Name}}{{end}} (유지 {{.Days}}일 · 평균 {{printf "%.1f" .Avg}}위)</li>
{{end}}</ul>{{else}}<p>없음</p>{{end}}
<h3><b>반짝 아이템(≤2일)</b></h3>
{{if .Flashes}}<ul>
{{range .Flashes}}<li>{{if .URL}}<a href="{{.URL}}" target="_blank" rel="noopener">{{.Name}}</a>{{else}}{{.Name}}{{end}} (유지 {{.Days}}일 · 평균 {{printf "%.1f" .Avg}}위)</li>
{{end}}</ul>{{else}}<p>없음</p>{{end}}
<h3><b>통계</b></h3>
<ul>
<li>Top{{.TopN}} 등극 SKU : {{.UniqueCnt}}개</li>
<li>Top {{.TopN}} 유지 평균 : {{printf "%.1f" .KeepDaysMean}}일</li>
</ul>
<h3><b>주간 키워드 분석</b></h3>
{{if gt .Unique 0}}<p>유니크 SKU: {{.Unique}}개</p>
{{if .Marketing}}<p><b>마케팅 키워드</b></p><ul>
{{range .Marketing}}<li>{{.Name}}: {{.N}}개 ({{printf "%.1f" .Pct}}%)</li>
{{end}}</ul>{{end}}
{{if .Influencers}}<p><b>인플루언서</b></p><ul>
{{range .Influencers}}<li>{{.Name}}: {{.N}}개</li>
{{end}}</ul>{{end}}
{{if .Ingredients}}<p><b>성분 키워드</b></p><ul>
{{range .Ingredients}}<li>{{.Name}}: {{.N}}개</li>
{{end}}</ul>{{end}}
{{else}}<p>데이터 없음</p>{{end}}
{{end}}
</body></html>
`))

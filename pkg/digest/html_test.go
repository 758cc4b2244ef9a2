package digest

import (
	"strings"
	"testing"

	"github.com/elonfeng/rankweekly/pkg/keyword"
	"github.com/elonfeng/rankweekly/pkg/snapshot"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildHTML(t *testing.T) {
	stats, w := sampleStats(t)
	kw := keyword.Summary{Unique: 2, Marketing: map[string]int{"올영픽": 1}}
	s := Build(oySpec(t), w, stats, nil, nil, 1.5, stats.TopItems(3, 10), nil, kw, 3)

	name, doc, err := BuildHTML([]*Summary{s})
	require.NoError(t, err)

	assert.Equal(t, "weekly_2025_06_02_2025_06_08.html", name)

	html := string(doc)
	assert.Contains(t, html, "<h2>📈 올리브영 국내 Top100")
	assert.Contains(t, html, `<a href="https://example.com/a" target="_blank" rel="noopener">올영픽 수분크림</a>`)
	assert.Contains(t, html, "올영픽: 1개 (50.0%)")
	assert.Contains(t, html, "일평균 1.5개")
}

func TestBuildHTML_MultipleSections(t *testing.T) {
	stats, w := sampleStats(t)
	a := Build(oySpec(t), w, stats, nil, nil, 0, nil, nil, keyword.Summary{}, 3)

	gl, ok := snapshot.Lookup(snapshot.SourceOliveYoungGL)
	require.True(t, ok)
	b := Build(gl, w, stats, nil, nil, 0, nil, nil, keyword.Summary{}, 3)

	_, doc, err := BuildHTML([]*Summary{a, b})
	require.NoError(t, err)
	assert.Equal(t, 2, strings.Count(string(doc), "<h2>"))
}

func TestBuildHTML_Empty(t *testing.T) {
	name, doc, err := BuildHTML(nil)
	require.NoError(t, err)
	assert.Equal(t, "weekly_report.html", name)
	assert.Contains(t, string(doc), "데이터 없음")
}

package snapshot

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveSchema_KoreanHeaders(t *testing.T) {
	spec, _ := Lookup(SourceOliveYoungKR)
	header := []string{"날짜", "순위", "브랜드", "제품명", "상품url", "판매가", "상품번호"}

	s := resolveSchema(header, spec)

	assert.Equal(t, 0, s.date)
	assert.Equal(t, 1, s.rank)
	assert.Equal(t, 2, s.brand)
	assert.Equal(t, 3, s.name)
	assert.Equal(t, 4, s.url)
	assert.Equal(t, 5, s.price)
	assert.Equal(t, 6, s.id)
	assert.Equal(t, -1, s.source)
}

func TestResolveSchema_CaseInsensitiveFirstHitWins(t *testing.T) {
	spec, _ := Lookup(SourceAmazonUS)
	header := []string{"Rank", "Title", "product_name", "ASIN", "URL"}

	s := resolveSchema(header, spec)

	assert.Equal(t, 0, s.rank)
	// Both "Title" and "product_name" are name synonyms; the earlier
	// synonym wins, not the earlier column.
	assert.Equal(t, 1, s.name)
	assert.Equal(t, 3, s.id)
	assert.Equal(t, 4, s.url)
}

func TestRowNormalization(t *testing.T) {
	spec, _ := Lookup(SourceOliveYoungKR)
	header := []string{"순위", "제품명", "브랜드", "가격", "할인율", "날짜"}
	s := resolveSchema(header, spec)

	row, ok := s.row([]string{"3위", "올영픽 수분크림", "브랜드A", "₩12,900", "25%", "2025-06-04"}, spec, time.Time{})
	require.True(t, ok)

	assert.Equal(t, 3, row.Rank)
	assert.Equal(t, "올영픽 수분크림", row.Name)
	assert.Equal(t, "브랜드A", row.Brand)
	require.NotNil(t, row.Price)
	assert.Equal(t, 12900.0, *row.Price)
	require.NotNil(t, row.DiscountRate)
	assert.Equal(t, 25.0, *row.DiscountRate)
	assert.Equal(t, "2025-06-04", row.Day())
	assert.Equal(t, SourceOliveYoungKR, row.Source)
}

func TestRowFallsBackToFileDate(t *testing.T) {
	spec, _ := Lookup(SourceOliveYoungKR)
	s := resolveSchema([]string{"rank", "name"}, spec)
	fileDate := time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)

	row, ok := s.row([]string{"1", "크림"}, spec, fileDate)
	require.True(t, ok)
	assert.Equal(t, "2025-06-02", row.Day())
}

func TestRowRejectsUnusableRankOrDate(t *testing.T) {
	spec, _ := Lookup(SourceOliveYoungKR)
	s := resolveSchema([]string{"rank", "name", "date"}, spec)

	_, ok := s.row([]string{"", "크림", "2025-06-04"}, spec, time.Time{})
	assert.False(t, ok, "empty rank")

	_, ok = s.row([]string{"abc", "크림", "2025-06-04"}, spec, time.Time{})
	assert.False(t, ok, "non-numeric rank")

	_, ok = s.row([]string{"0", "크림", "2025-06-04"}, spec, time.Time{})
	assert.False(t, ok, "rank zero")

	_, ok = s.row([]string{"1", "크림", "invalid"}, spec, time.Time{})
	assert.False(t, ok, "bad date and no file date")
}

func TestParseRankVariants(t *testing.T) {
	for raw, want := range map[string]int{
		"1":    1,
		"12.0": 12,
		"7위":   7,
		" 42 ": 42,
	} {
		got, err := parseRank(raw)
		require.NoError(t, err, raw)
		assert.Equal(t, want, got, raw)
	}
}

func TestParseDateLayouts(t *testing.T) {
	want := time.Date(2025, 6, 4, 0, 0, 0, 0, time.UTC)
	for _, raw := range []string{"2025-06-04", "2025/06/04", "2025.06.04", "2025_06_04", "2025-06-04T09:30:00Z"} {
		got, err := parseDate(raw)
		require.NoError(t, err, raw)
		assert.True(t, got.Equal(want), raw)
	}
}

func TestDateFromFilename(t *testing.T) {
	want := time.Date(2025, 6, 4, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, want, DateFromFilename("올리브영_랭킹_2025-06-04.csv"))
	assert.Equal(t, want, DateFromFilename("amazon_us_2025_06_04.csv"))
	assert.Equal(t, want, DateFromFilename("daiso.2025.06.04.csv"))

	assert.True(t, DateFromFilename("oy_kor_latest.csv").IsZero(), "no date")
	assert.True(t, DateFromFilename("oy_2025-13-01.csv").IsZero(), "month out of range")
	assert.True(t, DateFromFilename("oy_2025-02-30.csv").IsZero(), "non-existent day")
}

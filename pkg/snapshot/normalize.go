package snapshot

import (
	"errors"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Per-file errors. Both mean the whole file is dropped; neither aborts
// the run.
var (
	ErrNoRankColumn = errors.New("snapshot: no rank column")
	ErrNoDate       = errors.New("snapshot: no usable date")
)

// Column synonym tables. Source exports disagree wildly on header
// names, so each canonical field carries an ordered candidate list and
// the first case-insensitive hit wins. Unmatched fields stay unset.
var (
	rankColumns      = []string{"rank", "순위", "랭킹", "ranking", "순번"}
	nameColumns      = []string{"raw_name", "제품명", "상품명", "name", "title", "displayname", "product_name", "item_name", "상품", "품목명", "모델명"}
	brandColumns     = []string{"brand", "브랜드", "상표", "제조사/브랜드"}
	urlColumns       = []string{"url", "link", "주소", "링크", "상품url", "product_url", "page_url", "detail_url"}
	priceColumns     = []string{"price", "가격", "판매가", "sale_price"}
	origPriceColumns = []string{"orig_price", "정가", "원가", "original_price", "list_price"}
	discountColumns  = []string{"discount_rate", "할인율", "discount"}
	dateColumns      = []string{"date", "날짜", "수집일", "crawl_date"}
	sourceColumns    = []string{"source", "소스", "platform", "플랫폼"}
)

// tableSchema maps one file's header onto canonical column indexes.
// Resolved once per table; -1 means the column is absent.
type tableSchema struct {
	rank, name, brand, url     int
	price, origPrice, discount int
	date, source, id           int
}

// resolveSchema matches a raw header row against the synonym tables and
// the spec's explicit ID columns. It never fails: a file without a rank
// column is rejected later by the loader, everything else degrades to
// absent columns.
func resolveSchema(header []string, spec Spec) tableSchema {
	index := make(map[string]int, len(header))
	for i, col := range header {
		key := strings.ToLower(strings.TrimSpace(col))
		if _, seen := index[key]; !seen {
			index[key] = i
		}
	}
	find := func(candidates []string) int {
		for _, c := range candidates {
			if i, ok := index[strings.ToLower(c)]; ok {
				return i
			}
		}
		return -1
	}
	return tableSchema{
		rank:      find(rankColumns),
		name:      find(nameColumns),
		brand:     find(brandColumns),
		url:       find(urlColumns),
		price:     find(priceColumns),
		origPrice: find(origPriceColumns),
		discount:  find(discountColumns),
		date:      find(dateColumns),
		source:    find(sourceColumns),
		id:        find(spec.IDColumns),
	}
}

func (s tableSchema) field(record []string, idx int) string {
	if idx < 0 || idx >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[idx])
}

// row normalizes one record. ok is false when the record has no usable
// rank or date; such rows are skipped, never fatal.
func (s tableSchema) row(record []string, spec Spec, fileDate time.Time) (Row, bool) {
	rank, err := parseRank(s.field(record, s.rank))
	if err != nil || rank <= 0 {
		return Row{}, false
	}

	day := fileDate
	if raw := s.field(record, s.date); raw != "" {
		if d, err := parseDate(raw); err == nil {
			day = d
		}
	}
	if day.IsZero() {
		return Row{}, false
	}

	return Row{
		Date:         day,
		Source:       spec.ID,
		Rank:         rank,
		Name:         s.field(record, s.name),
		Brand:        s.field(record, s.brand),
		URL:          s.field(record, s.url),
		Price:        parseOptionalFloat(s.field(record, s.price)),
		OrigPrice:    parseOptionalFloat(s.field(record, s.origPrice)),
		DiscountRate: parseOptionalFloat(s.field(record, s.discount)),
	}, true
}

func parseRank(raw string) (int, error) {
	if raw == "" {
		return 0, strconv.ErrSyntax
	}
	// Rank columns occasionally come through as "12.0" or "12위".
	raw = strings.TrimSuffix(raw, "위")
	f, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return 0, err
	}
	return int(f), nil
}

func parseOptionalFloat(raw string) *float64 {
	if raw == "" {
		return nil
	}
	raw = strings.NewReplacer(",", "", "%", "", "₩", "", "$", "", "¥", "").Replace(raw)
	f, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return nil
	}
	return &f
}

var dateLayouts = []string{"2006-01-02", "2006/01/02", "2006.01.02", "2006_01_02"}

func parseDate(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if len(raw) > 10 {
		if t, err := time.Parse(time.RFC3339, raw); err == nil {
			return t.UTC().Truncate(24 * time.Hour), nil
		}
		raw = raw[:10]
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, nil
		}
	}
	return time.Time{}, ErrNoDate
}

var filenameDatePattern = regexp.MustCompile(`(20\d{2})[-_.](\d{2})[-_.](\d{2})`)

// DateFromFilename extracts a YYYY-MM-DD date (also _ and . separated)
// from a snapshot filename. Zero time when absent or invalid.
func DateFromFilename(name string) time.Time {
	m := filenameDatePattern.FindStringSubmatch(name)
	if m == nil {
		return time.Time{}
	}
	year, _ := strconv.Atoi(m[1])
	month, _ := strconv.Atoi(m[2])
	day, _ := strconv.Atoi(m[3])
	if month < 1 || month > 12 || day < 1 || day > 31 {
		return time.Time{}
	}
	d := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	if d.Day() != day || d.Month() != time.Month(month) {
		return time.Time{}
	}
	return d
}

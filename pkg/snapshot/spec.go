package snapshot

import (
	"regexp"
	"strings"
)

// SourceID identifies which marketplace a ranking snapshot came from.
type SourceID string

const (
	SourceOliveYoungKR SourceID = "oy_kor"
	SourceOliveYoungGL SourceID = "oy_global"
	SourceAmazonUS     SourceID = "amazon_us"
	SourceQoo10JP      SourceID = "qoo10_jp"
	SourceDaisoKR      SourceID = "daiso_kr"
)

// Spec describes one ranking source: its Top-N cutoff, how a stable
// product key is derived, and how its snapshot files are recognized.
// Specs are immutable and loaded once via the package registry.
type Spec struct {
	ID       SourceID
	Title    string
	TopN     int
	Currency string

	// Identity resolution, tried in order by ResolveKey.
	IDColumns   []string       // explicit ID columns in the raw table
	QueryParam  string         // product URL query parameter carrying the ID
	PathPattern *regexp.Regexp // URL path fallback

	// Filename fragments that attribute a snapshot file to this source.
	FilenameHints []string

	// Alternate spellings seen in source columns.
	Aliases []string
}

var registry = map[SourceID]Spec{
	SourceOliveYoungKR: {
		ID:            SourceOliveYoungKR,
		Title:         "올리브영 국내 Top100",
		TopN:          100,
		Currency:      "KRW",
		IDColumns:     []string{"goodsNo", "goods_no", "goodsno", "상품번호", "상품코드"},
		QueryParam:    "goodsNo",
		FilenameHints: []string{"올리브영_랭킹", "올리브영국내", "올리브영 국내", "oy_kor", "oliveyoung_kor"},
		Aliases:       []string{"oliveyoung_korea", "oliveyoung_kr", "oy_korea"},
	},
	SourceOliveYoungGL: {
		ID:            SourceOliveYoungGL,
		Title:         "올리브영 글로벌 Top100",
		TopN:          100,
		Currency:      "USD",
		IDColumns:     []string{"productId", "product_id", "prdtNo", "상품ID", "상품아이디", "상품코드"},
		QueryParam:    "productId",
		FilenameHints: []string{"올리브영글로벌", "oy_global", "oliveyoung_global"},
		Aliases:       []string{"oliveyoung_global"},
	},
	SourceAmazonUS: {
		ID:            SourceAmazonUS,
		Title:         "아마존 US Top100",
		TopN:          100,
		Currency:      "USD",
		IDColumns:     []string{"asin", "ASIN"},
		PathPattern:   regexp.MustCompile(`(?i)/([A-Z0-9]{10})(?:[/?#]|$)`),
		FilenameHints: []string{"아마존US", "amazon_us", "amazon"},
		Aliases:       []string{"amazon"},
	},
	SourceQoo10JP: {
		ID:            SourceQoo10JP,
		Title:         "큐텐 재팬 뷰티 Top200",
		TopN:          200,
		Currency:      "JPY",
		IDColumns:     []string{"product_code", "productCode", "상품코드", "item_code"},
		QueryParam:    "product_code",
		PathPattern:   regexp.MustCompile(`/(\d{6,})(?:[/?#]|$)`),
		FilenameHints: []string{"큐텐재팬", "큐텐 재팬", "qoo10_jp", "qoo10"},
		Aliases:       []string{"qoo10"},
	},
	SourceDaisoKR: {
		ID:            SourceDaisoKR,
		Title:         "다이소몰 뷰티/위생 Top200",
		TopN:          200,
		Currency:      "KRW",
		IDColumns:     []string{"pdNo", "pdno", "상품번호", "상품코드"},
		QueryParam:    "pdNo",
		FilenameHints: []string{"다이소몰", "다이소", "daiso_kr", "daiso"},
		Aliases:       []string{"daiso"},
	},
}

// sourceOrder is the fixed report order.
var sourceOrder = []SourceID{
	SourceOliveYoungKR,
	SourceOliveYoungGL,
	SourceAmazonUS,
	SourceQoo10JP,
	SourceDaisoKR,
}

// Lookup returns the spec for a source ID.
func Lookup(id SourceID) (Spec, bool) {
	s, ok := registry[id]
	return s, ok
}

// All returns every known spec in report order.
func All() []Spec {
	specs := make([]Spec, 0, len(sourceOrder))
	for _, id := range sourceOrder {
		specs = append(specs, registry[id])
	}
	return specs
}

// AllSourceIDs returns every known source ID in report order.
func AllSourceIDs() []SourceID {
	ids := make([]SourceID, len(sourceOrder))
	copy(ids, sourceOrder)
	return ids
}

// NormalizeSource maps a raw source label (from a source column or config)
// onto a known SourceID. Returns "" when the label is not recognized.
func NormalizeSource(raw string) SourceID {
	label := strings.ToLower(strings.TrimSpace(raw))
	if label == "" {
		return ""
	}
	if _, ok := registry[SourceID(label)]; ok {
		return SourceID(label)
	}
	for id, spec := range registry {
		for _, alias := range spec.Aliases {
			if label == alias {
				return id
			}
		}
	}
	return ""
}

// GuessSource attributes a snapshot filename to a source via the
// per-source filename hints. Returns "" when no hint matches.
func GuessSource(filename string) SourceID {
	key := squash(filename)
	for _, id := range sourceOrder {
		for _, hint := range registry[id].FilenameHints {
			if strings.Contains(key, squash(hint)) {
				return id
			}
		}
	}
	return ""
}

// squash lowercases and removes whitespace so hint matching ignores
// the spacing differences seen across exported filenames.
func squash(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), "")
}

package keyword

import (
	"regexp"
	"sort"
	"strings"

	"github.com/elonfeng/rankweekly/pkg/snapshot"
)

// Item is one unique SKU's representative name. Classification counts
// "does this SKU ever carry this tag", so callers pass exactly one entry
// per key, not one per day.
type Item struct {
	Key  string
	Name string
}

// Summary is the weekly keyword breakdown for a source. Unique is the
// percentage denominator for all tag counts.
type Summary struct {
	Unique      int            `json:"unique"`
	Marketing   map[string]int `json:"marketing"`
	Influencers map[string]int `json:"influencers"`
	Ingredients map[string]int `json:"ingredients"`
}

// Classifier tags representative names with marketing, promoter and
// ingredient terms. The pattern tables are immutable; the ingredient
// list is fixed at construction.
type Classifier struct {
	ingredients []ingredientWord
}

type ingredientWord struct {
	word string
	re   *regexp.Regexp
}

// NewClassifier builds a classifier over an ingredient word list
// (LoadIngredients supplies one).
func NewClassifier(ingredients []string) *Classifier {
	c := &Classifier{}
	for _, w := range ingredients {
		w = strings.TrimSpace(w)
		if w == "" {
			continue
		}
		c.ingredients = append(c.ingredients, ingredientWord{
			word: w,
			re:   regexp.MustCompile(`(?i)` + regexp.QuoteMeta(w)),
		})
	}
	return c
}

// Summarize classifies one week's unique SKUs for a source. Promoter
// extraction is source-gated: only the domestic source carries
// influencer-pick listings.
func (c *Classifier) Summarize(src snapshot.SourceID, items []Item) Summary {
	out := Summary{
		Marketing:   make(map[string]int),
		Influencers: make(map[string]int),
		Ingredients: make(map[string]int),
	}

	seen := make(map[string]struct{}, len(items))
	for _, it := range items {
		if it.Key == "" {
			continue
		}
		if _, dup := seen[it.Key]; dup {
			continue
		}
		seen[it.Key] = struct{}{}

		for _, p := range marketingPatterns {
			if p.re.MatchString(it.Name) {
				out.Marketing[p.Name]++
			}
		}

		if src == snapshot.SourceOliveYoungKR {
			if promoter := ExtractPromoter(it.Name); promoter != "" {
				out.Influencers[promoter]++
			}
		}

		for _, ing := range c.ingredients {
			if ing.re.MatchString(it.Name) {
				out.Ingredients[ing.word]++
			}
		}
	}

	out.Unique = len(seen)
	return out
}

// Count is a (tag, count) pair for display.
type Count struct {
	Name string
	N    int
}

// SortedCounts orders a tag-count map by count desc then name asc for
// deterministic rendering.
func SortedCounts(m map[string]int) []Count {
	counts := make([]Count, 0, len(m))
	for name, n := range m {
		counts = append(counts, Count{Name: name, N: n})
	}
	sort.Slice(counts, func(i, j int) bool {
		if counts[i].N != counts[j].N {
			return counts[i].N > counts[j].N
		}
		return counts[i].Name < counts[j].Name
	})
	return counts
}

package snapshot

import (
	"regexp"
	"time"
)

// KeyPattern is the charset every resolved SKU key satisfies.
var KeyPattern = regexp.MustCompile(`^[A-Z0-9_-]+$`)

// Row is one canonical ranking observation: a product seen at a rank on
// a given day. Optional fields are nil/empty when the raw table did not
// carry them; only Date, Source, Rank and Key are guaranteed.
type Row struct {
	Date   time.Time
	Source SourceID
	Rank   int
	Name   string
	Brand  string
	URL    string

	Price        *float64
	OrigPrice    *float64
	DiscountRate *float64

	// Key is the stable per-product identity, see ResolveKey.
	Key string
}

// Day returns the observation date as a YYYY-MM-DD string, the grouping
// unit for days_present and turnover.
func (r Row) Day() string {
	return r.Date.Format("2006-01-02")
}

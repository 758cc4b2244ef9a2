package snapshot

import (
	"fmt"
	"io"
	"time"

	"github.com/jszwec/csvutil"
)

// canonicalRow is the fixed on-disk schema for normalized snapshot
// exports. Unlike the raw per-source files this header never varies.
type canonicalRow struct {
	Date         string   `csv:"date"`
	Source       string   `csv:"source"`
	Rank         int      `csv:"rank"`
	Product      string   `csv:"product"`
	Brand        string   `csv:"brand"`
	URL          string   `csv:"url"`
	Price        *float64 `csv:"price"`
	OrigPrice    *float64 `csv:"orig_price"`
	DiscountRate *float64 `csv:"discount_rate"`
	Key          string   `csv:"key"`
}

// WriteCanonical writes rows as canonical CSV, the unified format other
// tooling (and ReadCanonical) consumes.
func WriteCanonical(w io.Writer, rows []Row) error {
	records := make([]canonicalRow, len(rows))
	for i, r := range rows {
		records[i] = canonicalRow{
			Date:         r.Day(),
			Source:       string(r.Source),
			Rank:         r.Rank,
			Product:      r.Name,
			Brand:        r.Brand,
			URL:          r.URL,
			Price:        r.Price,
			OrigPrice:    r.OrigPrice,
			DiscountRate: r.DiscountRate,
			Key:          r.Key,
		}
	}
	data, err := csvutil.Marshal(records)
	if err != nil {
		return fmt.Errorf("marshal canonical rows: %w", err)
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("write canonical rows: %w", err)
	}
	return nil
}

// ReadCanonical parses canonical CSV back into rows. Records with a bad
// date or an unknown source are dropped, consistent with the loader's
// recovery policy.
func ReadCanonical(r io.Reader) ([]Row, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read canonical rows: %w", err)
	}
	var records []canonicalRow
	if err := csvutil.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("unmarshal canonical rows: %w", err)
	}

	rows := make([]Row, 0, len(records))
	for _, rec := range records {
		day, err := time.Parse("2006-01-02", rec.Date)
		if err != nil {
			continue
		}
		src := NormalizeSource(rec.Source)
		if src == "" {
			continue
		}
		rows = append(rows, Row{
			Date:         day,
			Source:       src,
			Rank:         rec.Rank,
			Name:         rec.Product,
			Brand:        rec.Brand,
			URL:          rec.URL,
			Price:        rec.Price,
			OrigPrice:    rec.OrigPrice,
			DiscountRate: rec.DiscountRate,
			Key:          rec.Key,
		})
	}
	return rows, nil
}

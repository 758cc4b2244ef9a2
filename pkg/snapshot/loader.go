package snapshot

import (
	"bufio"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
)

// Loader reads day-partitioned snapshot tables from a flat directory.
// One file is one source-day export; files are attributed to sources by
// filename hints, with a source column as fallback. Upstream scraping is
// imperfect, so every per-file and per-row problem is recovered locally:
// the loader logs and moves on, it never fails the run for one bad day.
type Loader struct {
	dir string
}

// NewLoader creates a loader over a snapshot directory.
func NewLoader(dir string) *Loader {
	return &Loader{dir: dir}
}

// LoadSource reads every snapshot file attributable to the spec's source
// and returns the normalized rows with resolved keys. Rows whose
// identity cannot be resolved are dropped (grouping requires a key).
func (l *Loader) LoadSource(ctx context.Context, spec Spec) ([]Row, error) {
	logger := zerolog.Ctx(ctx)

	entries, err := os.ReadDir(l.dir)
	if err != nil {
		return nil, fmt.Errorf("read snapshot dir %s: %w", l.dir, err)
	}

	var rows []Row
	files := 0
	for _, entry := range entries {
		if entry.IsDir() || !strings.EqualFold(filepath.Ext(entry.Name()), ".csv") {
			continue
		}
		guessed := GuessSource(entry.Name())
		if guessed != "" && guessed != spec.ID {
			continue
		}

		path := filepath.Join(l.dir, entry.Name())
		fileRows, err := l.parseFile(path, spec, guessed)
		if err != nil {
			if errors.Is(err, ErrNoRankColumn) || errors.Is(err, ErrNoDate) {
				logger.Warn().Str("file", entry.Name()).Err(err).Msg("snapshot file dropped")
				continue
			}
			logger.Warn().Str("file", entry.Name()).Err(err).Msg("snapshot file unreadable")
			continue
		}
		if len(fileRows) > 0 {
			files++
			rows = append(rows, fileRows...)
		}
	}

	logger.Debug().
		Str("source", string(spec.ID)).
		Int("files", files).
		Int("rows", len(rows)).
		Msg("snapshots loaded")
	return rows, nil
}

func (l *Loader) parseFile(path string, spec Spec, guessed SourceID) ([]Row, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	reader := csv.NewReader(stripBOM(f))
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	schema := resolveSchema(header, spec)
	if schema.rank < 0 {
		return nil, ErrNoRankColumn
	}

	// Files without both a date column and a dated filename carry no
	// usable observation date and are dropped whole.
	fileDate := DateFromFilename(filepath.Base(path))
	if schema.date < 0 && fileDate.IsZero() {
		return nil, ErrNoDate
	}

	// Without a filename hint the file must carry a source column to be
	// attributed at all.
	if guessed == "" && schema.source < 0 {
		return nil, nil
	}

	var rows []Row
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			// Ragged or corrupt line: skip, keep the rest of the file.
			continue
		}

		src := guessed
		if schema.source >= 0 {
			if fromCol := NormalizeSource(schema.field(record, schema.source)); fromCol != "" {
				src = fromCol
			}
		}
		if src != spec.ID {
			continue
		}

		row, ok := schema.row(record, spec, fileDate)
		if !ok {
			continue
		}
		row.Key = ResolveKey(spec, schema.field(record, schema.id), row.URL, row.Name)
		if row.Key == "" {
			continue
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// stripBOM removes a UTF-8 byte order mark so exports from spreadsheet
// tools parse like any other file.
func stripBOM(r io.Reader) io.Reader {
	br := bufio.NewReader(r)
	if b, err := br.Peek(3); err == nil && b[0] == 0xEF && b[1] == 0xBB && b[2] == 0xBF {
		br.Discard(3)
	}
	return br
}

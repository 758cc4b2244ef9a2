package runner

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/elonfeng/rankweekly/internal/config"
	"github.com/elonfeng/rankweekly/internal/store"
	"github.com/elonfeng/rankweekly/pkg/alert"
	"github.com/elonfeng/rankweekly/pkg/digest"
	"github.com/elonfeng/rankweekly/pkg/keyword"
	"github.com/elonfeng/rankweekly/pkg/snapshot"
	"github.com/elonfeng/rankweekly/pkg/weekly"
)

// Runner executes the weekly reporting pipeline. Each source reads only
// its own day-partitioned files and writes its own outputs, so sources
// fan out in parallel with no coordination.
type Runner struct {
	cfg        *config.Config
	loader     *snapshot.Loader
	archive    store.Store // optional
	alerts     *alert.Manager
	classifier *keyword.Classifier
}

// New builds a runner. archive and alerts may be nil/empty; the
// pipeline itself has no hard dependency on either.
func New(ctx context.Context, cfg *config.Config, archive store.Store, alerts *alert.Manager) *Runner {
	ingredients, err := keyword.LoadIngredients(cfg.Report.IngredientsPath)
	if err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Msg("ingredient list unreadable, using defaults")
	}
	return &Runner{
		cfg:        cfg,
		loader:     snapshot.NewLoader(cfg.Data.Dir),
		archive:    archive,
		alerts:     alerts,
		classifier: keyword.NewClassifier(ingredients),
	}
}

// Sources resolves the configured source subset, defaulting to all.
func (r *Runner) Sources(ctx context.Context) []snapshot.Spec {
	if len(r.cfg.Report.Sources) == 0 {
		return snapshot.All()
	}
	wanted := make(map[snapshot.SourceID]struct{})
	for _, raw := range r.cfg.Report.Sources {
		id := snapshot.NormalizeSource(raw)
		if id == "" {
			zerolog.Ctx(ctx).Warn().Str("source", raw).Msg("unknown source in config, skipped")
			continue
		}
		wanted[id] = struct{}{}
	}
	var specs []snapshot.Spec
	for _, spec := range snapshot.All() {
		if _, ok := wanted[spec.ID]; ok {
			specs = append(specs, spec)
		}
	}
	return specs
}

// RunAll processes every configured source, writes the per-source
// digests plus the combined HTML report, and archives the summaries.
// One failing source never aborts the others.
func (r *Runner) RunAll(ctx context.Context) ([]*digest.Summary, error) {
	logger := zerolog.Ctx(ctx)
	specs := r.Sources(ctx)
	started := time.Now().UTC()

	var (
		mu        sync.Mutex
		summaries = make(map[snapshot.SourceID]*digest.Summary)
		failed    int
	)
	var wg sync.WaitGroup
	for _, spec := range specs {
		wg.Add(1)
		go func(spec snapshot.Spec) {
			defer wg.Done()
			summary, err := r.RunSource(ctx, spec)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				logger.Error().Str("source", string(spec.ID)).Err(err).Msg("source run failed")
				failed++
				return
			}
			summaries[spec.ID] = summary
		}(spec)
	}
	wg.Wait()

	// Fixed report order regardless of completion order.
	var ordered []*digest.Summary
	for _, spec := range specs {
		if s, ok := summaries[spec.ID]; ok {
			ordered = append(ordered, s)
		}
	}

	if len(ordered) > 0 {
		if err := r.writeHTML(ordered); err != nil {
			logger.Warn().Err(err).Msg("html report not written")
		}
	}

	if r.archive != nil {
		names := make([]string, 0, len(specs))
		for _, spec := range specs {
			names = append(names, string(spec.ID))
		}
		sort.Strings(names)
		run := &store.RunRecord{
			StartedAt:  started,
			FinishedAt: time.Now().UTC(),
			Sources:    strings.Join(names, ","),
			Reported:   len(ordered),
			Failed:     failed,
		}
		if err := r.archive.RecordRun(ctx, run); err != nil {
			logger.Warn().Err(err).Msg("run not recorded")
		}
	}

	if len(ordered) == 0 && failed > 0 {
		return nil, fmt.Errorf("all %d sources failed", failed)
	}
	return ordered, nil
}

// RunSource executes the pipeline for one source: load, window, and
// aggregate, compare, classify, format, then emit and archive. An empty
// window yields a "no data" summary, not an error.
func (r *Runner) RunSource(ctx context.Context, spec snapshot.Spec) (*digest.Summary, error) {
	logger := zerolog.Ctx(ctx).With().Str("source", string(spec.ID)).Logger()
	ctx = logger.WithContext(ctx)
	minDays := r.cfg.Report.MinDays

	rows, err := r.loader.LoadSource(ctx, spec)
	if err != nil {
		return nil, err
	}

	var (
		window   weekly.Window
		cur      = weekly.Aggregate(weekly.Window{}, spec.TopN, nil)
		moves    map[string]weekly.Movement
		brands   []weekly.BrandTrend
		inoutAvg float64
		heroes   []weekly.ItemStat
		flashes  []weekly.ItemStat
		kw       keyword.Summary
	)
	if latest := weekly.LatestDate(rows); !latest.IsZero() {
		window = weekly.WeekOf(latest)
		cur = weekly.Aggregate(window, spec.TopN, rows)
		prev := weekly.Aggregate(window.Prev(), spec.TopN, rows)
		moves = weekly.CompareItems(cur, prev, minDays)
		brands = weekly.CompareBrands(cur, prev)
		inoutAvg = weekly.TurnoverAvg(cur)
		history := weekly.LookbackKeys(weekly.Filter(rows, window.Lookback()))
		heroes = weekly.Heroes(cur, history, 10)
		flashes = weekly.Flashes(cur, 10)
		kw = r.classifier.Summarize(spec.ID, keywordItems(cur))
	}

	summary := digest.Build(spec, window, cur, moves, brands, inoutAvg, heroes, flashes, kw, minDays)
	text := digest.BuildText(summary)

	if err := r.emit(summary, text); err != nil {
		return nil, err
	}
	r.archiveSummary(ctx, summary)
	r.deliver(ctx, summary, text)

	logger.Info().
		Str("range", summary.Range).
		Int("unique", summary.UniqueCnt).
		Int("top10", len(summary.Top10)).
		Msg("weekly report generated")
	return summary, nil
}

// keywordItems passes exactly one representative name per unique key;
// tag counts are per SKU, not per day.
func keywordItems(cur *weekly.WeekStats) []keyword.Item {
	items := make([]keyword.Item, 0, len(cur.Items))
	for key, it := range cur.Items {
		items = append(items, keyword.Item{Key: key, Name: it.Name})
	}
	return items
}

func (r *Runner) emit(summary *digest.Summary, text string) error {
	dir := r.cfg.Report.OutputDir
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create output dir %s: %w", dir, err)
	}

	txtPath := filepath.Join(dir, fmt.Sprintf("slack_%s.txt", summary.Source))
	if err := os.WriteFile(txtPath, []byte(text), 0o644); err != nil {
		return fmt.Errorf("write digest %s: %w", txtPath, err)
	}

	payload, err := json.MarshalIndent(summary, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal summary %s: %w", summary.Source, err)
	}
	jsonPath := filepath.Join(dir, fmt.Sprintf("weekly_summary_%s.json", summary.Source))
	if err := os.WriteFile(jsonPath, payload, 0o644); err != nil {
		return fmt.Errorf("write summary %s: %w", jsonPath, err)
	}
	return nil
}

func (r *Runner) writeHTML(summaries []*digest.Summary) error {
	name, doc, err := digest.BuildHTML(summaries)
	if err != nil {
		return err
	}
	path := filepath.Join(r.cfg.Report.OutputDir, name)
	if err := os.WriteFile(path, doc, 0o644); err != nil {
		return fmt.Errorf("write html report %s: %w", path, err)
	}
	return nil
}

func (r *Runner) archiveSummary(ctx context.Context, summary *digest.Summary) {
	if r.archive == nil {
		return
	}
	payload, err := json.Marshal(summary)
	if err != nil {
		return
	}
	rec := &store.SummaryRecord{
		Source:    summary.Source,
		WeekRange: summary.Range,
		Title:     summary.Title,
		Payload:   string(payload),
	}
	if err := r.archive.UpsertSummary(ctx, rec); err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Msg("summary not archived")
	}
}

func (r *Runner) deliver(ctx context.Context, summary *digest.Summary, text string) {
	if r.alerts == nil || !r.alerts.HasNotifiers() {
		return
	}
	record, _ := json.Marshal(summary)
	d := &alert.Digest{
		Source: summary.Source,
		Title:  summary.Title,
		Range:  summary.Range,
		Text:   text,
		Record: record,
	}
	if err := r.alerts.Broadcast(ctx, d); err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Msg("digest delivery failed")
	}
}

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/rs/zerolog"

	"github.com/elonfeng/rankweekly/internal/config"
	"github.com/elonfeng/rankweekly/internal/runner"
	"github.com/elonfeng/rankweekly/internal/store"
	"github.com/elonfeng/rankweekly/pkg/alert"
	"github.com/elonfeng/rankweekly/pkg/digest"
	"github.com/elonfeng/rankweekly/pkg/server"
	"github.com/elonfeng/rankweekly/pkg/snapshot"
)

func loadConfig() (*config.Config, error) {
	path := cfgFile
	if path == "" {
		if _, err := os.Stat("config.yaml"); err == nil {
			path = "config.yaml"
		}
	}
	return config.Load(path)
}

func rootContext() (context.Context, context.CancelFunc) {
	level := zerolog.InfoLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
		Level(level).
		With().Timestamp().Logger()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	return logger.WithContext(ctx), cancel
}

func buildAlertManager(cfg *config.Config) *alert.Manager {
	var notifiers []alert.Notifier

	if cfg.Alerts.Slack.Enabled && cfg.Alerts.Slack.WebhookURL != "" {
		notifiers = append(notifiers, alert.NewSlack(cfg.Alerts.Slack.WebhookURL))
	}
	if cfg.Alerts.Webhook.Enabled && cfg.Alerts.Webhook.URL != "" {
		notifiers = append(notifiers, alert.NewWebhook(cfg.Alerts.Webhook.URL, cfg.Alerts.Webhook.Secret))
	}

	return alert.NewManager(notifiers)
}

func runReport(sources []string, noAlerts bool) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if len(sources) > 0 {
		cfg.Report.Sources = sources
	}

	ctx, cancel := rootContext()
	defer cancel()

	db, err := store.New(cfg.Database.Path)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer db.Close()

	alerts := buildAlertManager(cfg)
	if noAlerts {
		alerts = alert.NewManager(nil)
	}

	summaries, err := runner.New(ctx, cfg, db, alerts).RunAll(ctx)
	if err != nil {
		return err
	}

	for _, s := range summaries {
		fmt.Fprintf(os.Stderr, "%s  %s  unique=%d top10=%d\n", s.Source, s.Range, s.UniqueCnt, len(s.Top10))
	}
	fmt.Fprintf(os.Stderr, "\nreports written to %s\n", cfg.Report.OutputDir)
	return nil
}

func runExport(source, out string) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	id := snapshot.NormalizeSource(source)
	if id == "" {
		return fmt.Errorf("unknown source: %s", source)
	}
	spec, _ := snapshot.Lookup(id)

	ctx, cancel := rootContext()
	defer cancel()

	rows, err := snapshot.NewLoader(cfg.Data.Dir).LoadSource(ctx, spec)
	if err != nil {
		return err
	}

	var w io.Writer = os.Stdout
	if out != "" {
		f, err := os.Create(out)
		if err != nil {
			return fmt.Errorf("create %s: %w", out, err)
		}
		defer f.Close()
		w = f
	}
	if err := snapshot.WriteCanonical(w, rows); err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "%d rows exported for %s\n", len(rows), id)
	return nil
}

func runRender(out string) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	ctx, cancel := rootContext()
	defer cancel()

	db, err := store.New(cfg.Database.Path)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer db.Close()

	recs, err := db.LatestSummaries(ctx)
	if err != nil {
		return fmt.Errorf("load summaries: %w", err)
	}
	if len(recs) == 0 {
		return fmt.Errorf("no summaries archived (run: rankweekly report)")
	}

	var summaries []*digest.Summary
	for _, rec := range recs {
		var s digest.Summary
		if err := json.Unmarshal([]byte(rec.Payload), &s); err != nil {
			zerolog.Ctx(ctx).Warn().Str("source", rec.Source).Err(err).Msg("bad archived payload, skipped")
			continue
		}
		summaries = append(summaries, &s)
	}

	name, doc, err := digest.BuildHTML(summaries)
	if err != nil {
		return fmt.Errorf("render html: %w", err)
	}

	path := out
	if path == "" {
		if err := os.MkdirAll(cfg.Report.OutputDir, 0o755); err != nil {
			return fmt.Errorf("create output dir: %w", err)
		}
		path = filepath.Join(cfg.Report.OutputDir, name)
	}
	if err := os.WriteFile(path, doc, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	fmt.Fprintf(os.Stderr, "html report written to %s\n", path)
	return nil
}

func runServe(port int) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if port == 0 {
		port = cfg.Server.Port
	}

	db, err := store.New(cfg.Database.Path)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer db.Close()

	srv := server.New(db, port)
	return srv.ListenAndServe()
}

package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Equal(t, "./data/daily", cfg.Data.Dir)
	assert.Equal(t, "./dist", cfg.Report.OutputDir)
	assert.Equal(t, 3, cfg.Report.MinDays)
	assert.Equal(t, "./rankweekly.db", cfg.Database.Path)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.False(t, cfg.Alerts.Slack.Enabled)
}

func TestLoadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
data:
  dir: /srv/snapshots
report:
  output_dir: /srv/dist
  min_days: 2
  sources: [oy_kor, amazon_us]
  ingredients_path: /srv/ingredients.txt
database:
  path: /srv/rankweekly.db
alerts:
  slack:
    enabled: true
    webhook_url: https://hooks.slack.com/services/T/B/X
server:
  port: 9090
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "/srv/snapshots", cfg.Data.Dir)
	assert.Equal(t, "/srv/dist", cfg.Report.OutputDir)
	assert.Equal(t, 2, cfg.Report.MinDays)
	assert.Equal(t, []string{"oy_kor", "amazon_us"}, cfg.Report.Sources)
	assert.Equal(t, "/srv/ingredients.txt", cfg.Report.IngredientsPath)
	assert.Equal(t, "/srv/rankweekly.db", cfg.Database.Path)
	assert.True(t, cfg.Alerts.Slack.Enabled)
	assert.Equal(t, 9090, cfg.Server.Port)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("RANKWEEKLY_DATA_DIR", "/env/data")
	t.Setenv("RANKWEEKLY_MIN_DAYS", "5")
	t.Setenv("SLACK_WEBHOOK_URL", "https://hooks.slack.com/services/env")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "/env/data", cfg.Data.Dir)
	assert.Equal(t, 5, cfg.Report.MinDays)
	assert.True(t, cfg.Alerts.Slack.Enabled, "webhook env var enables slack")
	assert.Equal(t, "https://hooks.slack.com/services/env", cfg.Alerts.Slack.WebhookURL)
}

func TestLoadClampsMinDays(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("report:\n  min_days: -1\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 3, cfg.Report.MinDays)
}

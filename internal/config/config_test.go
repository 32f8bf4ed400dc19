package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "ridelens/internal/errors"
)

func TestDefaultValidates(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "2006-01-02 15:04:05", cfg.Input.TimestampLayout)
	assert.Equal(t, "reject", cfg.Input.OnParseError)
	assert.Equal(t, 1.5, cfg.Analysis.IQRMultiplier)
	assert.Equal(t, "png", cfg.Charts.Format)
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `
input:
  on_parse_error: abort
analysis:
  iqr_multiplier: 3.0
charts:
  format: svg
logging:
  level: debug
  output: console
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "abort", cfg.Input.OnParseError)
	assert.Equal(t, 3.0, cfg.Analysis.IQRMultiplier)
	assert.Equal(t, "svg", cfg.Charts.Format)
	assert.Equal(t, "debug", cfg.Logging.Level)
	// Defaults survive for keys the file does not set
	assert.Equal(t, "2006-01-02 15:04:05", cfg.Input.TimestampLayout)
	assert.Equal(t, "data", cfg.Paths.DataDir)
}

func TestLoadEnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("charts:\n  format: svg\n"), 0644))

	t.Setenv("RIDE_CHARTS_FORMAT", "png")
	t.Setenv("RIDE_ANALYSIS_IQR_MULTIPLIER", "2.5")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "png", cfg.Charts.Format)
	assert.Equal(t, 2.5, cfg.Analysis.IQRMultiplier)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{name: "bad parse policy", content: "input:\n  on_parse_error: ignore\n"},
		{name: "bad chart format", content: "charts:\n  format: jpeg\n"},
		{name: "non-positive multiplier", content: "analysis:\n  iqr_multiplier: 0\n"},
		{name: "bad log level", content: "logging:\n  level: verbose\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			path := filepath.Join(dir, "config.yaml")
			require.NoError(t, os.WriteFile(path, []byte(tt.content), 0644))

			_, err := Load(path)
			require.Error(t, err)
			assert.True(t, apperrors.IsType(err, apperrors.ErrTypeConfig))
		})
	}
}

func TestLoadMissingFileErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrTypeConfig))
}

func TestLoadConfiguredPaths(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `
paths:
  data_dir: /srv/trips
logging:
  file_path: /var/log/trips.log
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	t.Setenv("RIDE_PATHS_LOGS_DIR", "/srv/trip-logs")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "/srv/trips", cfg.Paths.DataDir)
	assert.Equal(t, "/srv/trip-logs", cfg.Paths.LogsDir)
	assert.Equal(t, "/var/log/trips.log", cfg.Logging.FilePath)

	// The configured directories flow through to the resolved path layout
	paths, err := ResolvePaths(cfg.Paths)
	require.NoError(t, err)
	assert.Equal(t, "/srv/trips", paths.DataDir)
	assert.Equal(t, filepath.Join("/srv/trips", "reports"), paths.ReportsDir)
	assert.Equal(t, "/srv/trip-logs", paths.LogsDir)
}

func TestValidateAllowsEmptyLogFilePath(t *testing.T) {
	// Empty means the commands derive it under the logs directory
	cfg := Default()
	cfg.Logging.Output = "both"
	cfg.Logging.FilePath = ""

	require.NoError(t, cfg.Validate())
}

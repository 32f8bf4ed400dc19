package infrastructure

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ridelens/internal/config"
)

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		level string
		want  slog.Level
	}{
		{level: "debug", want: slog.LevelDebug},
		{level: "info", want: slog.LevelInfo},
		{level: "warn", want: slog.LevelWarn},
		{level: "warning", want: slog.LevelWarn},
		{level: "error", want: slog.LevelError},
		{level: "ERROR", want: slog.LevelError},
		{level: "unknown", want: slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			assert.Equal(t, tt.want, parseLogLevel(tt.level))
		})
	}
}

func TestRunIDContext(t *testing.T) {
	ctx := context.Background()
	assert.Empty(t, GetRunID(ctx))

	ctx = WithRunID(ctx, "run-123")
	assert.Equal(t, "run-123", GetRunID(ctx))
}

func TestInitializeLoggerWritesFile(t *testing.T) {
	ResetLoggerForTesting()
	t.Cleanup(ResetLoggerForTesting)

	logPath := filepath.Join(t.TempDir(), "logs", "test.log")
	logger, err := InitializeLogger(config.LoggingConfig{
		Level:    "debug",
		Format:   "json",
		Output:   "file",
		FilePath: logPath,
	})
	require.NoError(t, err)
	require.NotNil(t, logger)

	ctx := WithRunID(context.Background(), "run-abc")
	logger.InfoContext(ctx, "pipeline started", slog.Int("rows", 42))
	require.NoError(t, CloseLogFile())

	data, err := os.ReadFile(logPath)
	require.NoError(t, err)

	content := string(data)
	assert.Contains(t, content, `"msg":"pipeline started"`)
	assert.Contains(t, content, `"rows":42`)
	assert.Contains(t, content, `"run_id":"run-abc"`)
}

func TestInitializeLoggerRejectsEmptyFilePath(t *testing.T) {
	for _, output := range []string{"file", "both"} {
		t.Run(output, func(t *testing.T) {
			ResetLoggerForTesting()
			t.Cleanup(ResetLoggerForTesting)

			_, err := InitializeLogger(config.LoggingConfig{Level: "info", Output: output})
			require.Error(t, err)
			assert.Contains(t, err.Error(), "requires a file path")
		})
	}
}

func TestInitializeLoggerOnce(t *testing.T) {
	ResetLoggerForTesting()
	t.Cleanup(ResetLoggerForTesting)

	logPath := filepath.Join(t.TempDir(), "once.log")
	first, err := InitializeLogger(config.LoggingConfig{Level: "info", Output: "file", FilePath: logPath})
	require.NoError(t, err)

	second, err := InitializeLogger(config.LoggingConfig{Level: "error", Output: "console"})
	require.NoError(t, err)

	assert.Same(t, first, second)
}

func TestLoggerFromContext(t *testing.T) {
	ResetLoggerForTesting()
	t.Cleanup(ResetLoggerForTesting)

	// Without a run ID the global logger comes back untouched
	logger := LoggerFromContext(context.Background())
	require.NotNil(t, logger)

	withID := LoggerFromContext(WithRunID(context.Background(), "run-xyz"))
	require.NotNil(t, withID)
	assert.NotSame(t, logger, withID)
}

func TestGetLoggerFallsBackToDefault(t *testing.T) {
	ResetLoggerForTesting()
	t.Cleanup(ResetLoggerForTesting)

	logger := GetLogger()
	require.NotNil(t, logger)
	assert.Equal(t, slog.Default(), logger)
}

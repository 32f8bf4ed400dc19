package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
)

// Paths contains all the application paths.
// This is the single source of truth for where artifacts are read and written.
type Paths struct {
	ExecutableDir string
	DataDir       string
	ReportsDir    string
	ChartsDir     string
	LogsDir       string
}

// GetPaths returns the application paths relative to the executable location.
// Paths are resolved against the executable directory, never the current
// working directory, so double-clicked and scripted runs behave the same.
func GetPaths() (*Paths, error) {
	execDir, err := executableDir()
	if err != nil {
		return nil, err
	}
	return GetPathsFrom(execDir), nil
}

// ResolvePaths builds the path layout from the configured directories.
// Relative directories resolve against the executable directory, absolute
// ones are used as given. Reports and charts live under the data directory.
func ResolvePaths(cfg PathsConfig) (*Paths, error) {
	execDir, err := executableDir()
	if err != nil {
		return nil, err
	}

	dataDir := cfg.DataDir
	if !filepath.IsAbs(dataDir) {
		dataDir = filepath.Join(execDir, dataDir)
	}
	logsDir := cfg.LogsDir
	if !filepath.IsAbs(logsDir) {
		logsDir = filepath.Join(execDir, logsDir)
	}

	return &Paths{
		ExecutableDir: execDir,
		DataDir:       dataDir,
		ReportsDir:    filepath.Join(dataDir, "reports"),
		ChartsDir:     filepath.Join(dataDir, "charts"),
		LogsDir:       logsDir,
	}, nil
}

// executableDir returns the directory of the running executable with
// symlinks resolved
func executableDir() (string, error) {
	exe, err := os.Executable()
	if err != nil {
		return "", fmt.Errorf("failed to get executable path: %v", err)
	}

	exe, err = filepath.EvalSymlinks(exe)
	if err != nil {
		return "", fmt.Errorf("failed to resolve executable symlinks: %v", err)
	}

	return filepath.Dir(exe), nil
}

// GetPathsFrom builds the path layout under an explicit base directory.
// Used by the -output flag and by tests.
func GetPathsFrom(baseDir string) *Paths {
	dataDir := filepath.Join(baseDir, "data")
	return &Paths{
		ExecutableDir: baseDir,
		DataDir:       dataDir,
		ReportsDir:    filepath.Join(dataDir, "reports"),
		ChartsDir:     filepath.Join(dataDir, "charts"),
		LogsDir:       filepath.Join(baseDir, "logs"),
	}
}

// EnsureDirectories creates all output directories if they don't exist
func (p *Paths) EnsureDirectories() error {
	dirs := []string{
		p.DataDir,
		p.ReportsDir,
		p.ChartsDir,
		p.LogsDir,
	}

	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	return nil
}

// GetReportPath returns the full path for a report file (CSV, xlsx)
func (p *Paths) GetReportPath(filename string) string {
	return filepath.Join(p.ReportsDir, filename)
}

// GetChartPath returns the full path for a rendered chart image
func (p *Paths) GetChartPath(filename string) string {
	return filepath.Join(p.ChartsDir, filename)
}

// GetLogPath returns the full path for a log file
func (p *Paths) GetLogPath(filename string) string {
	return filepath.Join(p.LogsDir, filename)
}

// GetWorkbookPath returns the path of the Excel report workbook
func (p *Paths) GetWorkbookPath() string {
	return p.GetReportPath("trip_report.xlsx")
}

// FileExists checks if a file exists at the given path
func FileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir()
}

// LogPathResolution logs the resolved paths for debugging
func (p *Paths) LogPathResolution() {
	slog.Debug("resolved application paths",
		slog.String("executable_dir", p.ExecutableDir),
		slog.String("data_dir", p.DataDir),
		slog.String("reports_dir", p.ReportsDir),
		slog.String("charts_dir", p.ChartsDir),
		slog.String("logs_dir", p.LogsDir))
}

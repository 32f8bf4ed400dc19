package config

import (
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"

	apperrors "ridelens/internal/errors"
)

// Config represents the complete application configuration.
// Precedence, lowest to highest: Default() values, YAML config file,
// RIDE_* environment variables. Command-line flags override on top in main.
type Config struct {
	Input    InputConfig    `yaml:"input" envconfig:"INPUT"`
	Analysis AnalysisConfig `yaml:"analysis" envconfig:"ANALYSIS"`
	Charts   ChartsConfig   `yaml:"charts" envconfig:"CHARTS"`
	Logging  LoggingConfig  `yaml:"logging" envconfig:"LOGGING"`
	Paths    PathsConfig    `yaml:"paths" envconfig:"PATHS"`
}

// InputConfig describes the trip data input file and its parsing rules
type InputConfig struct {
	// File is the path to the monthly trip CSV. Empty means discover the
	// newest *tripdata*.csv in Paths.DataDir.
	File string `yaml:"file" envconfig:"FILE"`
	// TimestampLayout is the Go reference layout for started_at/ended_at text
	TimestampLayout string `yaml:"timestamp_layout" envconfig:"TIMESTAMP_LAYOUT" validate:"required"`
	// OnParseError selects what a timestamp parse failure does:
	// "reject" drops the row and counts it, "abort" fails the run.
	OnParseError string `yaml:"on_parse_error" envconfig:"ON_PARSE_ERROR" validate:"oneof=reject abort"`
}

// AnalysisConfig contains statistical analysis configuration
type AnalysisConfig struct {
	// IQRMultiplier is the k in the outlier fences [Q1-k*IQR, Q3+k*IQR]
	IQRMultiplier float64 `yaml:"iqr_multiplier" envconfig:"IQR_MULTIPLIER" validate:"gt=0"`
	// MaxOutlierRows caps how many flagged rows the workbook outlier sheet lists
	MaxOutlierRows int `yaml:"max_outlier_rows" envconfig:"MAX_OUTLIER_ROWS" validate:"gte=0"`
}

// ChartsConfig contains chart rendering configuration
type ChartsConfig struct {
	Format       string  `yaml:"format" envconfig:"FORMAT" validate:"oneof=png svg"`
	WidthInches  float64 `yaml:"width_inches" envconfig:"WIDTH_INCHES" validate:"gt=0"`
	HeightInches float64 `yaml:"height_inches" envconfig:"HEIGHT_INCHES" validate:"gt=0"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level  string `yaml:"level" envconfig:"LEVEL" validate:"oneof=debug info warn warning error"`
	Format string `yaml:"format" envconfig:"FORMAT"`
	Output string `yaml:"output" envconfig:"OUTPUT" validate:"oneof=console file both"`
	// FilePath is the log file for the file and both output modes. Empty
	// means the commands derive ridelens.log under the resolved logs directory.
	FilePath string `yaml:"file_path" envconfig:"FILE_PATH"`
}

// PathsConfig contains file system paths configuration
type PathsConfig struct {
	// DataDir holds input trip CSVs and, underneath it, the written reports
	DataDir string `yaml:"data_dir" envconfig:"DATA_DIR" validate:"required"`
	LogsDir string `yaml:"logs_dir" envconfig:"LOGS_DIR" validate:"required"`
}

// Load loads configuration from the given YAML file (optional) and RIDE_*
// environment variables, layered over the defaults. An empty path searches
// the usual config file locations.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path == "" {
		path = findConfigFile()
	}
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, apperrors.NewConfigError(fmt.Sprintf("failed to read config file %s", path), err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, apperrors.NewConfigError(fmt.Sprintf("failed to parse config file %s", path), err)
		}
	}

	// Environment variables override file values
	if err := envconfig.Process("RIDE", cfg); err != nil {
		return nil, apperrors.NewConfigError("failed to load config from environment", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks the configuration via struct tags plus cross-field rules
func (c *Config) Validate() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		return apperrors.NewConfigError("config validation failed", err)
	}

	// JSON is the only log format the handler emits; normalize rather than fail
	if c.Logging.Format != "json" {
		c.Logging.Format = "json"
	}

	return nil
}

// findConfigFile returns the first config file found in the usual locations
func findConfigFile() string {
	locations := []string{
		"config.yaml",
		"configs/config.yaml",
	}

	for _, location := range locations {
		if FileExists(location) {
			return location
		}
	}

	return "" // No config file found, use env vars and defaults only
}

// Default returns the default configuration. The defaults reproduce the
// original monthly analysis: fixed timestamp layout, 1.5x IQR fences,
// rejected (not aborted) parse failures.
func Default() *Config {
	return &Config{
		Input: InputConfig{
			TimestampLayout: "2006-01-02 15:04:05",
			OnParseError:    "reject",
		},
		Analysis: AnalysisConfig{
			IQRMultiplier:  1.5,
			MaxOutlierRows: 100,
		},
		Charts: ChartsConfig{
			Format:       "png",
			WidthInches:  8,
			HeightInches: 6,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Output: "both",
		},
		Paths: PathsConfig{
			DataDir: "data",
			LogsDir: "logs",
		},
	}
}

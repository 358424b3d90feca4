package config

import (
	"fmt"
	"os"
	"runtime"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"

	"dendrocli/internal/dataprocessing"
	"dendrocli/internal/exporter"
)

// Config represents the complete application configuration.
// Leaf fields must not carry envconfig name tags: envconfig would also read the
// bare name (FORMAT, LEVEL), which is shared across sections.
type Config struct {
	Logging LoggingConfig `yaml:"logging" envconfig:"LOGGING"`
	Parse   ParseConfig   `yaml:"parse" envconfig:"PARSE"`
	Export  ExportConfig  `yaml:"export" envconfig:"EXPORT"`
	Batch   BatchConfig   `yaml:"batch" envconfig:"BATCH"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level    string `yaml:"level" split_words:"true" validate:"oneof=debug info warn error"`
	Format   string `yaml:"format" split_words:"true" validate:"oneof=json text"`
	Output   string `yaml:"output" split_words:"true" validate:"oneof=stderr stdout file both"`
	FilePath string `yaml:"file_path" split_words:"true" validate:"required_if=Output file,required_if=Output both"`
}

// ParseConfig controls how input files are interpreted
type ParseConfig struct {
	Scale           float64 `yaml:"scale" split_words:"true" validate:"gt=0"`
	DropStopMarkers bool    `yaml:"drop_stop_markers" split_words:"true"`
	SheetName       string  `yaml:"sheet_name" split_words:"true" validate:"max=31"`
}

// ExportConfig controls how aligned tables are written
type ExportConfig struct {
	Format      string `yaml:"format" split_words:"true" validate:"oneof=csv xlsx"`
	MissingText string `yaml:"missing_text" split_words:"true"`
	Precision   int    `yaml:"precision" split_words:"true" validate:"min=-1,max=15"`
	BOMPrefix   bool   `yaml:"bom_prefix" split_words:"true"`
	SheetName   string `yaml:"sheet_name" split_words:"true" validate:"required,max=31"`
}

// BatchConfig controls directory conversion
type BatchConfig struct {
	Workers   int    `yaml:"workers" split_words:"true" validate:"min=1,max=64"`
	OutputDir string `yaml:"output_dir" split_words:"true" validate:"required"`
}

// Options converts the parse section into parser options
func (p ParseConfig) Options() dataprocessing.Options {
	return dataprocessing.Options{
		Scale:           p.Scale,
		DropStopMarkers: p.DropStopMarkers,
		SheetName:       p.SheetName,
	}
}

// TableOptions converts the export section into exporter options
func (e ExportConfig) TableOptions() exporter.TableOptions {
	return exporter.TableOptions{
		MissingText: e.MissingText,
		Precision:   e.Precision,
		BOMPrefix:   e.BOMPrefix,
		SheetName:   e.SheetName,
	}
}

// Load builds the configuration from defaults, then the YAML file, then the
// environment, so environment variables win. An empty path searches the
// default locations; a missing default file is not an error.
func Load(path string) (*Config, error) {
	cfg := Default()

	configFile := path
	if configFile == "" {
		configFile = getConfigFilePath()
	}
	if configFile != "" {
		if err := loadFromFile(configFile, cfg); err != nil {
			return nil, fmt.Errorf("failed to load config from file: %w", err)
		}
	}

	if err := envconfig.Process(EnvPrefix, cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// loadFromFile overlays the keys present in a YAML file onto cfg
func loadFromFile(filePath string, cfg *Config) error {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return err
	}
	if err := yaml.UnmarshalStrict(data, cfg); err != nil {
		return fmt.Errorf("%s: %w", filePath, err)
	}
	return nil
}

// Validate checks ranges and enumerations
func (c *Config) Validate() error {
	validate := validator.New(validator.WithRequiredStructEnabled())
	if err := validate.Struct(c); err != nil {
		return err
	}
	return nil
}

// getConfigFilePath returns the first default config file that exists
func getConfigFilePath() string {
	for _, location := range configFileLocations {
		if _, err := os.Stat(location); err == nil {
			return location
		}
	}
	return ""
}

// Default returns default configuration
func Default() *Config {
	return &Config{
		Logging: LoggingConfig{
			Level:    DefaultLogLevel,
			Format:   DefaultLogFormat,
			Output:   DefaultLogOutput,
			FilePath: DefaultLogFile,
		},
		Parse: ParseConfig{
			Scale: dataprocessing.DefaultScale,
		},
		Export: ExportConfig{
			Format:      DefaultExportFormat,
			MissingText: exporter.DefaultMissingText,
			Precision:   DefaultPrecision,
			SheetName:   exporter.DefaultSeriesSheet,
		},
		Batch: BatchConfig{
			Workers:   min(runtime.NumCPU(), MaxBatchWorkers),
			OutputDir: DefaultOutputDir,
		},
	}
}

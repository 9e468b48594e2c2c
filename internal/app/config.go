package app

import (
	"errors"
	"fmt"
	"io"
	"os"
	"slices"

	"github.com/hashicorp/go-multierror"
	"gopkg.in/yaml.v3"

	"github.com/vk/modelgraph/internal/discover"
	"github.com/vk/modelgraph/internal/modeltype"
)

// Output formats understood by the report writer.
const (
	OutputText = "text"
	OutputJSON = "json"
	OutputYAML = "yaml"
)

var (
	logLevels  = []string{"debug", "info", "warn", "error"}
	logFormats = []string{"text", "json"}
	outputs    = []string{OutputText, OutputJSON, OutputYAML}
)

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	ModelPath string `yaml:"model_path"` // hcl file or directory

	// Type limits discovery to candidates of this type and its subtypes.
	Type string `yaml:"type"`
	// Element, when set, resolves a single element instead of discovering
	// every candidate of Type.
	Element  string `yaml:"element"`
	Finalize bool   `yaml:"finalize"`
	MaxDepth int    `yaml:"max_depth"`

	Output    string `yaml:"output"`
	LogFormat string `yaml:"log_format"`
	LogLevel  string `yaml:"log_level"`
}

// NewConfig fills in defaults and validates cfg.
func NewConfig(cfg Config) (*Config, error) {
	if cfg.Type == "" {
		cfg.Type = modeltype.Object.Name()
	}
	if cfg.MaxDepth == 0 {
		cfg.MaxDepth = discover.DefaultMaxDepth
	}
	if cfg.Output == "" {
		cfg.Output = OutputText
	}
	if cfg.LogFormat == "" {
		cfg.LogFormat = "text"
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}

	var errs *multierror.Error
	if cfg.ModelPath == "" {
		errs = multierror.Append(errs, errors.New("ModelPath is a required configuration field and cannot be empty"))
	}
	if cfg.MaxDepth < 0 {
		errs = multierror.Append(errs, fmt.Errorf("max depth must be positive, got %d", cfg.MaxDepth))
	}
	if !slices.Contains(outputs, cfg.Output) {
		errs = multierror.Append(errs, fmt.Errorf("unknown output format %q, expected one of %v", cfg.Output, outputs))
	}
	if !slices.Contains(logFormats, cfg.LogFormat) {
		errs = multierror.Append(errs, fmt.Errorf("unknown log format %q, expected one of %v", cfg.LogFormat, logFormats))
	}
	if !slices.Contains(logLevels, cfg.LogLevel) {
		errs = multierror.Append(errs, fmt.Errorf("unknown log level %q, expected one of %v", cfg.LogLevel, logLevels))
	}
	if err := errs.ErrorOrNil(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadConfigFile reads a YAML config file. Unknown keys are rejected.
func LoadConfigFile(path string) (Config, error) {
	var cfg Config
	f, err := os.Open(path)
	if err != nil {
		return cfg, fmt.Errorf("failed to open config file: %w", err)
	}
	defer f.Close()

	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return cfg, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return cfg, nil
}

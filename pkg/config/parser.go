package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/keycanary/keycanary/pkg/common"
)

// ExperimentConfiguration is immutable for the duration of one run. The
// driver and all components hold it by reference and never write to it.
type ExperimentConfiguration struct {
	Seed int64 `json:"Seed" toml:"seed"`

	PatternLength      int `json:"PatternLength" toml:"pattern_length"`
	IntervalDurationMs int `json:"IntervalDurationMs" toml:"interval_duration_ms"`
	SettleDelayMs      int `json:"SettleDelayMs" toml:"settle_delay_ms"`

	KeystrokeMin int `json:"KeystrokeMin" toml:"keystroke_min"`
	KeystrokeMax int `json:"KeystrokeMax" toml:"keystroke_max"`

	GeneratorVariant string `json:"GeneratorVariant" toml:"generator_variant"`

	DetectionThreshold     float64 `json:"DetectionThreshold" toml:"detection_threshold"`
	MinAvgBytesPerInterval float64 `json:"MinAvgBytesPerInterval" toml:"min_avg_bytes_per_interval"`

	ExcludedProcessNames []string `json:"ExcludedProcessNames" toml:"excluded_process_names"`
	ExcludedPathPrefixes []string `json:"ExcludedPathPrefixes" toml:"excluded_path_prefixes"`

	OutputPathPrefix string `json:"OutputPathPrefix" toml:"output_path_prefix"`
	OutputFormat     string `json:"OutputFormat" toml:"output_format"`
	PlotPath         string `json:"PlotPath" toml:"plot_path"`
}

// ReadConfigurationFile loads an experiment configuration, dispatching on the
// file extension: .json or .toml.
func ReadConfigurationFile(path string) (*ExperimentConfiguration, error) {
	byteValue, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg ExperimentConfiguration

	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		err = json.Unmarshal(byteValue, &cfg)
	case ".toml":
		err = toml.Unmarshal(byteValue, &cfg)
	default:
		return nil, fmt.Errorf("unsupported configuration format %q", filepath.Ext(path))
	}

	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}

	applyDefaults(&cfg)

	return &cfg, nil
}

func applyDefaults(cfg *ExperimentConfiguration) {
	if cfg.GeneratorVariant == "" {
		cfg.GeneratorVariant = common.GeneratorRamp
	}
	if cfg.OutputFormat == "" {
		cfg.OutputFormat = common.OutputFormatCSV
	}
	if cfg.OutputPathPrefix == "" {
		cfg.OutputPathPrefix = "keycanary"
	}
}

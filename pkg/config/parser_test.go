package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/keycanary/keycanary/pkg/common"
)

const jsonConfig = `{
	"Seed": 7,
	"PatternLength": 12,
	"IntervalDurationMs": 500,
	"SettleDelayMs": 50,
	"KeystrokeMin": 5,
	"KeystrokeMax": 25,
	"GeneratorVariant": "impulse",
	"DetectionThreshold": 0.7,
	"MinAvgBytesPerInterval": 200,
	"ExcludedProcessNames": ["keycanary"],
	"ExcludedPathPrefixes": ["/usr/lib/systemd"],
	"OutputPathPrefix": "out/run",
	"OutputFormat": "csv"
}`

const tomlConfig = `
seed = 7
pattern_length = 12
interval_duration_ms = 500
settle_delay_ms = 50
keystroke_min = 5
keystroke_max = 25
generator_variant = "impulse"
detection_threshold = 0.7
min_avg_bytes_per_interval = 200.0
excluded_process_names = ["keycanary"]
excluded_path_prefixes = ["/usr/lib/systemd"]
output_path_prefix = "out/run"
output_format = "csv"
`

func writeTempConfig(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestReadConfigurationFile(t *testing.T) {
	tests := []struct {
		testName string
		fileName string
		content  string
	}{
		{testName: "json", fileName: "config.json", content: jsonConfig},
		{testName: "toml", fileName: "config.toml", content: tomlConfig},
	}

	for _, test := range tests {
		t.Run(test.testName, func(t *testing.T) {
			cfg, err := ReadConfigurationFile(writeTempConfig(t, test.fileName, test.content))
			require.NoError(t, err)

			assert.Equal(t, int64(7), cfg.Seed)
			assert.Equal(t, 12, cfg.PatternLength)
			assert.Equal(t, 500, cfg.IntervalDurationMs)
			assert.Equal(t, 5, cfg.KeystrokeMin)
			assert.Equal(t, 25, cfg.KeystrokeMax)
			assert.Equal(t, common.GeneratorImpulse, cfg.GeneratorVariant)
			assert.Equal(t, 0.7, cfg.DetectionThreshold)
			assert.Equal(t, 200.0, cfg.MinAvgBytesPerInterval)
			assert.Equal(t, []string{"keycanary"}, cfg.ExcludedProcessNames)
			assert.NoError(t, cfg.Validate())
		})
	}
}

func TestReadConfigurationFileUnsupportedFormat(t *testing.T) {
	_, err := ReadConfigurationFile(writeTempConfig(t, "config.yaml", "a: b"))
	assert.Error(t, err)
}

func TestDefaultsApplied(t *testing.T) {
	cfg, err := ReadConfigurationFile(writeTempConfig(t, "c.json",
		`{"PatternLength": 3, "IntervalDurationMs": 100, "KeystrokeMin": 1, "KeystrokeMax": 5}`))
	require.NoError(t, err)

	assert.Equal(t, common.GeneratorRamp, cfg.GeneratorVariant)
	assert.Equal(t, common.OutputFormatCSV, cfg.OutputFormat)
	assert.NotEmpty(t, cfg.OutputPathPrefix)
}

func TestValidate(t *testing.T) {
	valid := ExperimentConfiguration{
		PatternLength:      10,
		IntervalDurationMs: 1000,
		KeystrokeMin:       5,
		KeystrokeMax:       25,
		GeneratorVariant:   common.GeneratorRamp,
		OutputFormat:       common.OutputFormatCSV,
		DetectionThreshold: 0.7,
	}

	tests := []struct {
		testName string
		mutate   func(*ExperimentConfiguration)
		wantErr  bool
	}{
		{testName: "valid", mutate: func(*ExperimentConfiguration) {}, wantErr: false},
		{testName: "zero_pattern_length", mutate: func(c *ExperimentConfiguration) { c.PatternLength = 0 }, wantErr: true},
		{testName: "zero_interval", mutate: func(c *ExperimentConfiguration) { c.IntervalDurationMs = 0 }, wantErr: true},
		{testName: "negative_settle", mutate: func(c *ExperimentConfiguration) { c.SettleDelayMs = -1 }, wantErr: true},
		{testName: "equal_keystroke_range", mutate: func(c *ExperimentConfiguration) { c.KeystrokeMax = c.KeystrokeMin }, wantErr: true},
		{testName: "inverted_keystroke_range", mutate: func(c *ExperimentConfiguration) { c.KeystrokeMin = 30 }, wantErr: true},
		{testName: "negative_keystroke_min", mutate: func(c *ExperimentConfiguration) { c.KeystrokeMin = -1 }, wantErr: true},
		{testName: "unknown_variant", mutate: func(c *ExperimentConfiguration) { c.GeneratorVariant = "sawtooth" }, wantErr: true},
		{testName: "unknown_format", mutate: func(c *ExperimentConfiguration) { c.OutputFormat = "xml" }, wantErr: true},
		{testName: "negative_floor", mutate: func(c *ExperimentConfiguration) { c.MinAvgBytesPerInterval = -5 }, wantErr: true},
	}

	for _, test := range tests {
		t.Run(test.testName, func(t *testing.T) {
			cfg := valid
			test.mutate(&cfg)

			err := cfg.Validate()
			if test.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

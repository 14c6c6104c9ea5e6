package config

import (
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/keycanary/keycanary/pkg/common"
)

var generatorVariants = map[string]bool{
	common.GeneratorUniform: true,
	common.GeneratorRamp:    true,
	common.GeneratorImpulse: true,
	common.GeneratorSine:    true,
}

// Validate fails fast on configuration errors. These are never coerced into
// something runnable; a bad configuration aborts before the first phase.
func (cfg *ExperimentConfiguration) Validate() error {
	if cfg.PatternLength <= 0 {
		return fmt.Errorf("pattern length must be positive, got %d", cfg.PatternLength)
	}
	if cfg.IntervalDurationMs <= 0 {
		return fmt.Errorf("interval duration must be positive, got %d ms", cfg.IntervalDurationMs)
	}
	if cfg.SettleDelayMs < 0 {
		return fmt.Errorf("settle delay must not be negative, got %d ms", cfg.SettleDelayMs)
	}
	if cfg.KeystrokeMax <= cfg.KeystrokeMin {
		return fmt.Errorf("keystroke range invalid: max %d <= min %d", cfg.KeystrokeMax, cfg.KeystrokeMin)
	}
	if cfg.KeystrokeMin < 0 {
		return fmt.Errorf("keystroke minimum must not be negative, got %d", cfg.KeystrokeMin)
	}
	if !generatorVariants[cfg.GeneratorVariant] {
		return fmt.Errorf("unknown generator variant %q", cfg.GeneratorVariant)
	}
	if cfg.OutputFormat != common.OutputFormatCSV && cfg.OutputFormat != common.OutputFormatSQLite {
		return fmt.Errorf("unknown output format %q", cfg.OutputFormat)
	}
	if cfg.MinAvgBytesPerInterval < 0 {
		return fmt.Errorf("minimum average write rate must not be negative, got %f", cfg.MinAvgBytesPerInterval)
	}

	if cfg.DetectionThreshold <= -1 || cfg.DetectionThreshold > 1 {
		log.Warnf("Detection threshold %.3f lies outside the meaningful correlation range.", cfg.DetectionThreshold)
	}

	return nil
}

// IntervalDuration returns the configured interval length as a duration.
func (cfg *ExperimentConfiguration) IntervalDuration() time.Duration {
	return time.Duration(cfg.IntervalDurationMs) * time.Millisecond
}

// SettleDelay returns the extra per-interval settle delay as a duration.
func (cfg *ExperimentConfiguration) SettleDelay() time.Duration {
	return time.Duration(cfg.SettleDelayMs) * time.Millisecond
}

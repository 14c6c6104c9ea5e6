package translator

import (
	"fmt"
	"math"
	"time"

	"github.com/keycanary/keycanary/pkg/common"
)

// Translator maps between the normalized [0,1] sample domain of a probe
// pattern and the two stream domains of a run: keystrokes per interval on the
// injection side and bytes per interval on the analysis side. Both directions
// use the same Kmin/Kmax denormalization range.
type Translator struct {
	patternLength int
	keyMin        int
	keyMax        int
	interval      time.Duration
}

// NewTranslator fails fast on the construction invariants: the pattern length
// must be positive and the denormalization range non-empty (Kmax > Kmin).
func NewTranslator(patternLength, keyMin, keyMax int, interval time.Duration) (*Translator, error) {
	if patternLength <= 0 {
		return nil, fmt.Errorf("pattern length must be positive, got %d", patternLength)
	}
	if keyMax <= keyMin {
		return nil, fmt.Errorf("denormalization range invalid: max %d <= min %d", keyMax, keyMin)
	}

	return &Translator{
		patternLength: patternLength,
		keyMin:        keyMin,
		keyMax:        keyMax,
		interval:      interval,
	}, nil
}

// ToInjectionSchedule denormalizes each sample p to round(p*(Kmax-Kmin)+Kmin)
// keystrokes. Rounding is half away from zero (math.Round); the round-trip
// tests pin that choice. Fails if the pattern length differs from the
// configured one.
func (t *Translator) ToInjectionSchedule(pattern common.ProbePattern) (*common.InjectionSchedule, error) {
	if len(pattern) != t.patternLength {
		return nil, fmt.Errorf("pattern has %d samples, expected %d", len(pattern), t.patternLength)
	}

	keys := make([]int, len(pattern))
	span := float64(t.keyMax - t.keyMin)
	for i, p := range pattern {
		keys[i] = int(math.Round(p*span + float64(t.keyMin)))
	}

	return &common.InjectionSchedule{
		KeysPerInterval: keys,
		Interval:        t.interval,
	}, nil
}

// FromByteSeries normalizes each per-interval byte count b back to
// (b-Kmin)/(Kmax-Kmin). Outputs are deliberately not clamped: byte counts
// outside the denormalization range produce samples outside [0,1], and the
// detector tolerates them. Fails if the series length differs from the
// configured one.
func (t *Translator) FromByteSeries(bytesPerInterval []float64) (common.ProbePattern, error) {
	if len(bytesPerInterval) != t.patternLength {
		return nil, fmt.Errorf("byte series has %d entries, expected %d", len(bytesPerInterval), t.patternLength)
	}

	pattern := make(common.ProbePattern, len(bytesPerInterval))
	span := float64(t.keyMax - t.keyMin)
	for i, b := range bytesPerInterval {
		if span == 0 {
			// Cannot happen through NewTranslator; kept so a hand-built
			// zero-span translator still degrades to a step function.
			if b >= float64(t.keyMin) {
				pattern[i] = 1.0
			}
			continue
		}
		pattern[i] = (b - float64(t.keyMin)) / span
	}

	return pattern, nil
}

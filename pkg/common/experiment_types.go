package common

import "time"

// ProbePattern is the normalized reference signal driving keystroke injection.
// Samples are expected, but not enforced, to lie in [0,1]; translating an
// observed byte series back through the same range can legitimately produce
// out-of-range samples, which the detector tolerates.
type ProbePattern []float64

// InjectionSchedule holds the number of synthetic keystrokes to emit per
// interval, derived once per run from the probe pattern.
type InjectionSchedule struct {
	KeysPerInterval []int
	Interval        time.Duration
}

// Intervals returns the number of intervals the schedule spans.
func (s *InjectionSchedule) Intervals() int {
	return len(s.KeysPerInterval)
}

// AsByteCounts reinterprets the keystroke schedule as a byte series, one byte
// per keystroke. Useful for round-trip checks against the translator's
// byte-side normalization.
func (s *InjectionSchedule) AsByteCounts() []float64 {
	bytes := make([]float64, len(s.KeysPerInterval))
	for i, k := range s.KeysPerInterval {
		bytes[i] = float64(k)
	}
	return bytes
}

// ProcessInfo is one row of a process-universe snapshot: identity plus the
// cumulative write-byte counter at sampling time. Pid is the identity key,
// but the OS may reuse pids within a run; that risk is accepted, not solved.
type ProcessInfo struct {
	Pid        int
	Name       string
	Path       string
	WriteBytes uint64
}

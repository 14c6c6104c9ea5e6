package detector

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCorrelateSelf(t *testing.T) {
	x := []float64{0.1, 0.9, 0.3, 0.7, 0.5}
	assert.InDelta(t, 1.0, Correlate(x, x), 1e-12)
}

func TestCorrelateConstantSeriesIsNaN(t *testing.T) {
	x := []float64{0.0, 1.0, 0.0, 1.0}
	constant := []float64{5, 5, 5, 5}

	assert.True(t, math.IsNaN(Correlate(x, constant)))
	assert.True(t, math.IsNaN(Correlate(constant, x)))
	assert.True(t, math.IsNaN(Correlate(constant, constant)))
}

func TestCorrelateDegenerateInputs(t *testing.T) {
	assert.True(t, math.IsNaN(Correlate(nil, nil)))
	assert.True(t, math.IsNaN(Correlate([]float64{1}, []float64{1})))
	assert.True(t, math.IsNaN(Correlate([]float64{1, 2}, []float64{1, 2, 3})))
}

// Perfect negative correlation is not a detection regardless of threshold:
// only positive tracking counts as evidence of keystroke-driven writes.
func TestNegativeCorrelationNeverDetected(t *testing.T) {
	x := []float64{0.0, 1.0, 0.2, 0.8}
	mirrored := make([]float64, len(x))
	for i, v := range x {
		mirrored[i] = 1.0 - v
	}

	r := Correlate(x, mirrored)
	assert.InDelta(t, -1.0, r, 1e-12)
	assert.LessOrEqual(t, r, 0.0)

	for _, threshold := range []float64{-2.0, -1.0, 0.0, 0.7} {
		assert.False(t, Detected(r, threshold), "threshold %f", threshold)
	}
}

func TestDetectedBoundaries(t *testing.T) {
	tests := []struct {
		testName    string
		correlation float64
		threshold   float64
		want        bool
	}{
		{testName: "above_threshold", correlation: 0.71, threshold: 0.7, want: true},
		{testName: "exactly_threshold", correlation: 0.7, threshold: 0.7, want: false},
		{testName: "below_threshold", correlation: 0.69, threshold: 0.7, want: false},
		{testName: "nan_never_detected", correlation: math.NaN(), threshold: -1000, want: false},
		{testName: "perfect_positive", correlation: 1.0, threshold: 0.7, want: true},
	}

	for _, test := range tests {
		t.Run(test.testName, func(t *testing.T) {
			assert.Equal(t, test.want, Detected(test.correlation, test.threshold))
		})
	}
}

func TestAverageDelta(t *testing.T) {
	assert.Equal(t, 0.0, AverageDelta(nil))
	assert.InDelta(t, 20.0/3.0, AverageDelta([]float64{5, 10, 5}), 1e-12)
}

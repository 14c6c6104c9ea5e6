package detector

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

// Correlate computes the Pearson correlation coefficient between the probe
// pattern and an observed pattern over paired samples. It returns NaN, never
// an error and never zero, when the coefficient is undefined: mismatched or
// too-short inputs, or zero variance in either series. The NaN propagates
// into a negative verdict downstream.
func Correlate(probe, observed []float64) float64 {
	if len(probe) != len(observed) || len(probe) < 2 {
		return math.NaN()
	}

	// gonum yields NaN on zero variance (0/0), which is exactly the
	// degenerate-input contract here.
	return stat.Correlation(probe, observed, nil)
}

// Detected derives the verdict from a correlation coefficient. Only strictly
// positive tracking above the threshold counts: NaN is never a detection, a
// coefficient exactly at the threshold is not a detection, and perfect
// negative correlation is not a detection regardless of magnitude.
func Detected(correlation, threshold float64) bool {
	return !math.IsNaN(correlation) && correlation > threshold
}

// AverageDelta returns the mean per-interval byte delta of a series, used by
// the pre-filter that keeps low-rate writers away from the correlation test.
func AverageDelta(series []float64) float64 {
	if len(series) == 0 {
		return 0
	}
	return stat.Mean(series, nil)
}

package generator

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/keycanary/keycanary/pkg/common"
)

// PatternStrategy produces a probe pattern of the requested length. Samples
// are expected to lie in [0,1]. Generate fails for negative n.
type PatternStrategy interface {
	Generate(n int) (common.ProbePattern, error)
	Name() string
}

// PatternGenerator wraps the strategy chosen for a run. It carries no state
// of its own; reproducibility comes from the seeded random source handed to
// the strategy at construction.
type PatternGenerator struct {
	strategy PatternStrategy
}

// NewPatternGenerator builds a generator for the named variant, drawing all
// randomness from a source seeded with the given seed.
func NewPatternGenerator(variant string, seed int64) (*PatternGenerator, error) {
	patternRand := rand.New(rand.NewSource(seed))

	var strategy PatternStrategy
	switch variant {
	case common.GeneratorUniform:
		strategy = &UniformStrategy{rand: patternRand}
	case common.GeneratorRamp:
		strategy = &RampStrategy{rand: patternRand}
	case common.GeneratorImpulse:
		strategy = &ImpulseStrategy{}
	case common.GeneratorSine:
		strategy = &SineStrategy{}
	default:
		return nil, fmt.Errorf("unknown pattern generator variant %q", variant)
	}

	return &PatternGenerator{strategy: strategy}, nil
}

func (g *PatternGenerator) Generate(n int) (common.ProbePattern, error) {
	return g.strategy.Generate(n)
}

func (g *PatternGenerator) Variant() string {
	return g.strategy.Name()
}

func checkLength(n int) error {
	if n < 0 {
		return fmt.Errorf("pattern length must not be negative, got %d", n)
	}
	return nil
}

//////////////////////////////////////////////////
// UNIFORM RANDOM
//////////////////////////////////////////////////

// UniformStrategy draws n independent samples from a uniform [0,1) source.
type UniformStrategy struct {
	rand *rand.Rand
}

func (s *UniformStrategy) Name() string { return common.GeneratorUniform }

func (s *UniformStrategy) Generate(n int) (common.ProbePattern, error) {
	if err := checkLength(n); err != nil {
		return nil, err
	}

	pattern := make(common.ProbePattern, n)
	for i := 0; i < n; i++ {
		pattern[i] = s.rand.Float64()
	}

	return pattern, nil
}

//////////////////////////////////////////////////
// SHUFFLED LINEAR RAMP
//////////////////////////////////////////////////

// RampStrategy emits the n evenly spaced values {0, 1/(n-1), ..., 1} in a
// random order. Every value of the full range appears exactly once; only the
// order varies between runs.
type RampStrategy struct {
	rand *rand.Rand
}

func (s *RampStrategy) Name() string { return common.GeneratorRamp }

func (s *RampStrategy) Generate(n int) (common.ProbePattern, error) {
	if err := checkLength(n); err != nil {
		return nil, err
	}

	if n == 0 {
		return common.ProbePattern{}, nil
	}
	if n == 1 {
		return common.ProbePattern{0.5}, nil
	}

	pattern := make(common.ProbePattern, n)
	step := 1.0 / float64(n-1)
	for i := 0; i < n; i++ {
		pattern[i] = float64(i) * step
	}

	s.rand.Shuffle(n, func(i, j int) {
		pattern[i], pattern[j] = pattern[j], pattern[i]
	})

	return pattern, nil
}

//////////////////////////////////////////////////
// IMPULSE
//////////////////////////////////////////////////

// ImpulseStrategy alternates 0 and 1 strictly. This maximizes adjacent-sample
// variance, stressing the translator and detector at both range extremes.
type ImpulseStrategy struct{}

func (s *ImpulseStrategy) Name() string { return common.GeneratorImpulse }

func (s *ImpulseStrategy) Generate(n int) (common.ProbePattern, error) {
	if err := checkLength(n); err != nil {
		return nil, err
	}

	pattern := make(common.ProbePattern, n)
	for i := 0; i < n; i++ {
		if i%2 == 1 {
			pattern[i] = 1.0
		}
	}

	return pattern, nil
}

//////////////////////////////////////////////////
// DISCRETE SINE
//////////////////////////////////////////////////

// SineStrategy samples one full sine cycle at n points over [0, 2π) and
// rescales it from [-1,1] to [0,1].
type SineStrategy struct{}

func (s *SineStrategy) Name() string { return common.GeneratorSine }

func (s *SineStrategy) Generate(n int) (common.ProbePattern, error) {
	if err := checkLength(n); err != nil {
		return nil, err
	}

	if n == 1 {
		return common.ProbePattern{0.5}, nil
	}

	pattern := make(common.ProbePattern, n)
	for i := 0; i < n; i++ {
		angle := 2 * math.Pi * float64(i) / float64(n)
		pattern[i] = (math.Sin(angle) + 1) / 2
	}

	return pattern, nil
}

package common

const (
	// ProbeAlphabet is the character pool for synthetic keystrokes. Lowercase
	// letters only, so injected input stays harmless in whatever window has
	// focus during a run.
	ProbeAlphabet = "abcdefghijklmnopqrstuvwxyz"

	// OrchestratorPhases is the number of top-level experiment phases
	// reported through progress events.
	OrchestratorPhases = 6
)

// Generator variant names accepted in configuration files.
const (
	GeneratorUniform = "uniform"
	GeneratorRamp    = "ramp"
	GeneratorImpulse = "impulse"
	GeneratorSine    = "sine"
)

// Experiment phases in execution order.
const (
	PhaseGeneratePattern = iota + 1
	PhaseTranslateSchedule
	PhaseEnumerateCandidates
	PhaseRunSamplingLoop
	PhaseAnalyzeSeries
	PhasePersistResults
)

// Output formats for the result sink.
const (
	OutputFormatCSV    = "csv"
	OutputFormatSQLite = "sqlite"
)

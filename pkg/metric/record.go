package metric

// DetectionResult is the per-process outcome of one run. Correlation is
// serialized as a float and may be NaN; Detected is derived once at analysis
// time and never recomputed.
type DetectionResult struct {
	RunID               string  `csv:"run_id"`
	Pid                 int     `csv:"pid"`
	Name                string  `csv:"name"`
	Path                string  `csv:"path"`
	Correlation         float64 `csv:"correlation"`
	AvgBytesPerInterval float64 `csv:"avg_bytes_per_interval"`
	Threshold           float64 `csv:"threshold"`
	Detected            bool    `csv:"detected"`
}

// IntervalRecord captures the operational shape of one sampling interval:
// how many keystrokes the schedule asked for, how many were delivered, how
// many processes were tracked, and how the wall-clock budget was spent.
type IntervalRecord struct {
	RunID            string `csv:"run_id"`
	IntervalIdx      int    `csv:"index"`
	KeysRequested    int    `csv:"keys_requested"`
	KeysSent         int    `csv:"keys_sent"`
	TrackedProcesses int    `csv:"tracked_processes"`
	DurationMs       int64  `csv:"duration_ms"`
	IdleDurationMs   int64  `csv:"idle_duration_ms"`
}

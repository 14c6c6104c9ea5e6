package driver

import (
	"github.com/keycanary/keycanary/pkg/metric"
)

// Event is the observability surface of a run. Any caller (CLI, GUI, test
// harness) subscribes to the driver's event channel; the core has no direct
// UI coupling. Exactly one CompletionEvent is delivered per run, whether the
// run succeeded, failed, or was cancelled.
type Event interface {
	event()
}

// StatusEvent carries human-readable phase and interval narration.
type StatusEvent struct {
	Text string
}

// ProgressEvent reports orchestrator progress: Step out of Total phases.
type ProgressEvent struct {
	Step  int
	Total int
}

// IntervalProgressEvent reports sampling-loop progress within phase four.
type IntervalProgressEvent struct {
	Interval int
	Total    int
}

// DetectionEvent fires as soon as a process crosses the detection threshold,
// before the remaining series are analyzed.
type DetectionEvent struct {
	Result metric.DetectionResult
}

// CompletionEvent terminates a run. Err is set for run-level failures and nil
// for both success and cancellation; cancellation is distinguishable only by
// the preceding status narration.
type CompletionEvent struct {
	Results []metric.DetectionResult
	Err     error
}

func (StatusEvent) event()           {}
func (ProgressEvent) event()         {}
func (IntervalProgressEvent) event() {}
func (DetectionEvent) event()        {}
func (CompletionEvent) event()       {}

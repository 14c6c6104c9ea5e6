package driver

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/keycanary/keycanary/pkg/common"
	"github.com/keycanary/keycanary/pkg/config"
	"github.com/keycanary/keycanary/pkg/detector"
	"github.com/keycanary/keycanary/pkg/generator"
	"github.com/keycanary/keycanary/pkg/injector"
	"github.com/keycanary/keycanary/pkg/metric"
	"github.com/keycanary/keycanary/pkg/notify"
	"github.com/keycanary/keycanary/pkg/process"
	"github.com/keycanary/keycanary/pkg/translator"
)

// ExperimentDriver sequences the six phases of a run: generate the probe
// pattern, translate it to an injection schedule, enumerate and filter
// candidates, drive the sampling loop, correlate every surviving series, and
// persist the results. Phases run forward only; any failure or cancellation
// transitions directly to completion with whatever partial results exist.
type ExperimentDriver struct {
	cfg        *config.ExperimentConfiguration
	enumerator process.Enumerator
	keyer      injector.Keyer
	notifier   notify.Notifier

	events  chan Event
	running atomic.Bool

	cancelMutex sync.Mutex
	cancel      context.CancelFunc
}

func NewExperimentDriver(cfg *config.ExperimentConfiguration, enumerator process.Enumerator,
	keyer injector.Keyer, notifier notify.Notifier) *ExperimentDriver {

	return &ExperimentDriver{
		cfg:        cfg,
		enumerator: enumerator,
		keyer:      keyer,
		notifier:   notifier,
		events:     make(chan Event, 256),
	}
}

// Events is the observability surface of the driver. Callers must drain it
// while a run is active.
func (d *ExperimentDriver) Events() <-chan Event {
	return d.events
}

// Start launches a run. Only one run may be active at a time: starting while
// busy is a no-op reported through a status event, never queued.
func (d *ExperimentDriver) Start() {
	if !d.running.CompareAndSwap(false, true) {
		d.send(StatusEvent{Text: "An experiment is already running."})
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	d.cancelMutex.Lock()
	d.cancel = cancel
	d.cancelMutex.Unlock()

	go d.run(ctx)
}

// RequestStop asks the active run to stop cooperatively. Idempotent; a no-op
// when nothing is running.
func (d *ExperimentDriver) RequestStop() {
	d.cancelMutex.Lock()
	defer d.cancelMutex.Unlock()

	if d.cancel != nil {
		d.cancel()
	}
}

func (d *ExperimentDriver) send(ev Event) {
	d.events <- ev
}

func (d *ExperimentDriver) phase(step int, narration string) {
	log.Info(narration)
	d.send(StatusEvent{Text: narration})
	d.send(ProgressEvent{Step: step, Total: common.OrchestratorPhases})
}

func intervalNarration(interval, total, keys int) string {
	return fmt.Sprintf("Interval %d/%d: injecting %d keystrokes.", interval+1, total, keys)
}

func (d *ExperimentDriver) run(ctx context.Context) {
	runID := uuid.NewString()
	exporter := metric.NewExporter()

	var results []metric.DetectionResult
	var runErr error

	defer func() {
		if runErr != nil {
			log.Errorf("Experiment %s failed: %v", runID, runErr)
			d.send(StatusEvent{Text: fmt.Sprintf("Experiment failed: %v", runErr)})
		}
		if results == nil {
			// Failure or cancellation mid-analysis still surfaces whatever
			// results were produced before the cut.
			results = exporter.Results()
		}
		d.send(CompletionEvent{Results: results, Err: runErr})
		d.running.Store(false)
	}()

	cancelled := func() bool {
		if ctx.Err() != nil {
			d.send(StatusEvent{Text: "Experiment cancelled."})
			return true
		}
		return false
	}

	// Phase 1: probe pattern.
	gen, err := generator.NewPatternGenerator(d.cfg.GeneratorVariant, d.cfg.Seed)
	if err != nil {
		runErr = err
		return
	}
	d.phase(common.PhaseGeneratePattern, fmt.Sprintf("Generating %q probe pattern of length %d.", gen.Variant(), d.cfg.PatternLength))

	probe, err := gen.Generate(d.cfg.PatternLength)
	if err != nil {
		runErr = err
		return
	}

	// Phase 2: injection schedule.
	d.phase(common.PhaseTranslateSchedule, "Translating probe pattern to injection schedule.")

	trans, err := translator.NewTranslator(d.cfg.PatternLength, d.cfg.KeystrokeMin, d.cfg.KeystrokeMax, d.cfg.IntervalDuration())
	if err != nil {
		runErr = err
		return
	}
	schedule, err := trans.ToInjectionSchedule(probe)
	if err != nil {
		runErr = err
		return
	}

	if cancelled() {
		return
	}

	// Phase 3: candidate universe. A dead enumerator here is a run-level
	// failure; a transient failure later in the loop is not.
	d.phase(common.PhaseEnumerateCandidates, "Enumerating candidate processes.")

	listFiltered := func() ([]common.ProcessInfo, error) {
		procs, err := d.enumerator.List()
		if err != nil {
			return nil, err
		}
		return process.Filter(procs, d.cfg.ExcludedProcessNames, d.cfg.ExcludedPathPrefixes), nil
	}

	candidates, err := listFiltered()
	if err != nil {
		runErr = fmt.Errorf("process enumeration unavailable: %w", err)
		return
	}
	log.Infof("Tracking %d candidate processes.", len(candidates))

	if cancelled() {
		return
	}

	// Phase 4: the interval loop.
	d.phase(common.PhaseRunSamplingLoop, fmt.Sprintf("Running %d sampling intervals of %v.", schedule.Intervals(), schedule.Interval))

	loop := NewSamplingLoop(schedule, listFiltered, d.keyer, d.cfg.SettleDelay(),
		d.cfg.Seed, runID, exporter, d.send, candidates)
	if err := loop.Run(ctx); err != nil {
		// Cancellation is not an error: partial tracking state is discarded
		// and the completion event carries no results.
		d.send(StatusEvent{Text: "Experiment cancelled."})
		return
	}

	// Phase 5: correlation.
	d.phase(common.PhaseAnalyzeSeries, fmt.Sprintf("Correlating %d process series against the probe pattern.", len(loop.Series())))

	series := loop.Series()
	pids := make([]int, 0, len(series))
	for pid := range series {
		pids = append(pids, pid)
	}
	sort.Ints(pids)

	for _, pid := range pids {
		if cancelled() {
			return
		}

		avg := detector.AverageDelta(series[pid])
		if avg < d.cfg.MinAvgBytesPerInterval {
			log.Debugf("Skipping pid %d: average %.1f B/interval below floor %.1f.", pid, avg, d.cfg.MinAvgBytesPerInterval)
			continue
		}

		observed, err := trans.FromByteSeries(series[pid])
		if err != nil {
			runErr = err
			return
		}

		info := loop.Info(pid)
		correlation := detector.Correlate(probe, observed)

		result := metric.DetectionResult{
			RunID:               runID,
			Pid:                 pid,
			Name:                info.Name,
			Path:                info.Path,
			Correlation:         correlation,
			AvgBytesPerInterval: avg,
			Threshold:           d.cfg.DetectionThreshold,
			Detected:            detector.Detected(correlation, d.cfg.DetectionThreshold),
		}
		exporter.ReportResult(result)

		if result.Detected {
			d.reportDetection(result, probe, observed)
		}
	}

	results = exporter.Results()

	// Phase 6: persistence.
	d.phase(common.PhasePersistResults, fmt.Sprintf("Persisting %d results to %s (%s).", len(results), d.cfg.OutputPathPrefix, d.cfg.OutputFormat))

	if err := exporter.FinishAndSave(d.cfg.OutputPathPrefix, d.cfg.OutputFormat); err != nil {
		runErr = fmt.Errorf("persisting results: %w", err)
		return
	}

	d.send(StatusEvent{Text: "Experiment completed."})
}

// reportDetection fires the per-process detection event the moment a result
// crosses the threshold, together with a desktop notification and, when
// configured, a probe-vs-observed plot.
func (d *ExperimentDriver) reportDetection(result metric.DetectionResult, probe, observed []float64) {
	log.Warnf("Detected keylogger-like process %s (pid %d): correlation %.3f > %.3f.",
		result.Name, result.Pid, result.Correlation, result.Threshold)
	d.send(DetectionEvent{Result: result})

	body := fmt.Sprintf("%s (pid %d) tracks the probe pattern at r=%.3f.", result.Name, result.Pid, result.Correlation)
	if err := d.notifier.Notify("Possible keylogger detected", body); err != nil {
		log.Warnf("Notification delivery failed: %v", err)
	}

	if d.cfg.PlotPath != "" {
		plotFile := filepath.Join(d.cfg.PlotPath, fmt.Sprintf("pid%d_%s.png", result.Pid, result.RunID[:8]))
		title := fmt.Sprintf("%s (pid %d), r=%.3f", result.Name, result.Pid, result.Correlation)
		if err := metric.PlotPatterns(probe, observed, title, plotFile); err != nil {
			log.Warnf("Plot rendering failed: %v", err)
		}
	}
}

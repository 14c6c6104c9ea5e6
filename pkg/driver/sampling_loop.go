package driver

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/keycanary/keycanary/pkg/common"
	"github.com/keycanary/keycanary/pkg/injector"
	"github.com/keycanary/keycanary/pkg/metric"
)

// ListFunc yields the current candidate universe. The experiment driver hands
// the loop a pre-filtered view, so every process the loop sees is eligible
// for tracking.
type ListFunc func() ([]common.ProcessInfo, error)

// SamplingLoop drives the N intervals of a run. Per interval it refreshes the
// tracked-process set, emits the scheduled keystrokes spread across the
// interval, re-samples every tracked write counter, and pads the interval to
// its configured wall-clock duration. It is the sole owner of the baseline
// table and the delta series; nothing else reads or writes them while the
// loop runs.
type SamplingLoop struct {
	schedule *common.InjectionSchedule
	list     ListFunc
	keyer    injector.Keyer
	settle   time.Duration
	charRand *rand.Rand
	runID    string
	exporter *metric.Exporter
	emit     func(Event)

	n         int
	baselines map[int]uint64
	series    map[int][]float64
	info      map[int]common.ProcessInfo
}

// NewSamplingLoop seeds the tracking table with the candidate processes the
// driver enumerated in phase three. charSeed makes the injected character
// sequence reproducible; it does not influence timing.
func NewSamplingLoop(schedule *common.InjectionSchedule, list ListFunc, keyer injector.Keyer,
	settle time.Duration, charSeed int64, runID string, exporter *metric.Exporter,
	emit func(Event), candidates []common.ProcessInfo) *SamplingLoop {

	l := &SamplingLoop{
		schedule:  schedule,
		list:      list,
		keyer:     keyer,
		settle:    settle,
		charRand:  rand.New(rand.NewSource(charSeed)),
		runID:     runID,
		exporter:  exporter,
		emit:      emit,
		n:         schedule.Intervals(),
		baselines: make(map[int]uint64),
		series:    make(map[int][]float64),
		info:      make(map[int]common.ProcessInfo),
	}

	for _, p := range candidates {
		l.track(p)
	}

	return l
}

func (l *SamplingLoop) track(p common.ProcessInfo) {
	l.info[p.Pid] = p
	if _, tracked := l.baselines[p.Pid]; !tracked {
		l.baselines[p.Pid] = p.WriteBytes
		if _, ok := l.series[p.Pid]; !ok {
			l.series[p.Pid] = []float64{}
		}
	}
}

// Run executes all N intervals. On cancellation it unwinds immediately; the
// partial tracking state it leaves behind is discarded by the caller.
func (l *SamplingLoop) Run(ctx context.Context) error {
	for i := 0; i < l.n; i++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		intervalStart := time.Now()
		l.emit(IntervalProgressEvent{Interval: i, Total: l.n})
		l.emit(StatusEvent{Text: intervalNarration(i, l.n, l.schedule.KeysPerInterval[i])})

		l.refreshTracked()

		sent, err := l.injectKeys(ctx, l.schedule.KeysPerInterval[i])
		if err != nil {
			return err
		}

		l.resample()

		idle := l.padInterval(intervalStart)

		l.exporter.ReportInterval(metric.IntervalRecord{
			RunID:            l.runID,
			IntervalIdx:      i,
			KeysRequested:    l.schedule.KeysPerInterval[i],
			KeysSent:         sent,
			TrackedProcesses: len(l.baselines),
			DurationMs:       time.Since(intervalStart).Milliseconds(),
			IdleDurationMs:   idle.Milliseconds(),
		})
	}

	l.finalize()

	return nil
}

// refreshTracked discovers newly appeared processes and drops vanished ones
// from the baseline table. Vanished processes keep whatever series they have
// accumulated; the series is zero-padded at termination. An enumeration
// failure leaves the table untouched, so the interval degrades to stale
// zero deltas instead of forgetting every baseline.
func (l *SamplingLoop) refreshTracked() {
	procs, err := l.list()
	if err != nil {
		log.Warnf("Process enumeration failed, keeping the current tracking table: %v", err)
		l.emit(StatusEvent{Text: fmt.Sprintf("Enumeration failed this interval: %v", err)})
		return
	}

	present := make(map[int]bool, len(procs))
	for _, p := range procs {
		present[p.Pid] = true
		l.track(p)
	}

	for pid := range l.baselines {
		if !present[pid] {
			log.Debugf("Process %d (%s) vanished.", pid, l.info[pid].Name)
			delete(l.baselines, pid)
		}
	}
}

// injectKeys emits k keystrokes at an even cadence across the interval. The
// fractional remainder of the inter-key delay is carried into the next key
// instead of being truncated per key, so cumulative drift stays below one
// millisecond. A failed send is logged and skipped; only cancellation aborts.
func (l *SamplingLoop) injectKeys(ctx context.Context, k int) (int, error) {
	if k <= 0 {
		return 0, nil
	}

	delayMs := float64(l.schedule.Interval.Milliseconds()) / float64(k)
	carry := 0.0
	sent := 0

	for j := 0; j < k; j++ {
		if err := ctx.Err(); err != nil {
			return sent, err
		}

		ch := rune(common.ProbeAlphabet[l.charRand.Intn(len(common.ProbeAlphabet))])
		if err := l.keyer.SendKeystroke(ch); err != nil {
			log.Warnf("Dropping keystroke %d/%d: %v", j+1, k, err)
		} else {
			sent++
		}

		target := delayMs + carry
		wholeMs := math.Floor(target)
		carry = target - wholeMs

		time.Sleep(time.Duration(wholeMs) * time.Millisecond)
	}

	return sent, nil
}

// resample reads every tracked process's cumulative write counter and appends
// the per-interval delta to its series. A counter that decreased (process
// restart, counter wrap) yields 0, not a negative delta. A process that
// cannot be resampled this round also records 0 and keeps its old baseline.
func (l *SamplingLoop) resample() {
	current := make(map[int]uint64)

	procs, err := l.list()
	if err != nil {
		log.Warnf("Resampling failed, recording zero deltas for this interval: %v", err)
		l.emit(StatusEvent{Text: fmt.Sprintf("Resampling failed this interval: %v", err)})
	} else {
		for _, p := range procs {
			current[p.Pid] = p.WriteBytes
		}
	}

	for pid, baseline := range l.baselines {
		delta := 0.0
		if cur, ok := current[pid]; ok {
			if cur > baseline {
				delta = float64(cur - baseline)
			}
			l.baselines[pid] = cur
		}

		if len(l.series[pid]) < l.n {
			l.series[pid] = append(l.series[pid], delta)
		}
	}
}

// padInterval sleeps out the remainder of the interval duration plus the
// settle delay, holding wall-clock interval length constant regardless of how
// long injection and sampling took.
func (l *SamplingLoop) padInterval(intervalStart time.Time) time.Duration {
	idle := l.settle

	if remaining := l.schedule.Interval - time.Since(intervalStart); remaining > 0 {
		idle += remaining
	}
	time.Sleep(idle)

	return idle
}

// finalize right-pads every series with zeros to length N and drops series
// whose zero entries reach half their length: such a process produced no real
// signal and is not worth correlating.
func (l *SamplingLoop) finalize() {
	for pid, series := range l.series {
		for len(series) < l.n {
			series = append(series, 0)
		}
		l.series[pid] = series

		zeros := 0
		for _, d := range series {
			if d == 0 {
				zeros++
			}
		}
		if zeros*2 >= l.n {
			log.Debugf("Dropping process %d (%s): %d of %d intervals without writes.", pid, l.info[pid].Name, zeros, l.n)
			delete(l.series, pid)
		}
	}
}

// Series exposes the retained delta series after a completed run. Every
// retained series has exactly N entries.
func (l *SamplingLoop) Series() map[int][]float64 {
	return l.series
}

// Info returns the last-seen process record for a pid.
func (l *SamplingLoop) Info(pid int) common.ProcessInfo {
	return l.info[pid]
}

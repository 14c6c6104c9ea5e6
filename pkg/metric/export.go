package metric

import (
	"fmt"
	"os"
	"sync"

	"github.com/gocarina/gocsv"

	"github.com/keycanary/keycanary/pkg/common"
)

// Exporter accumulates interval and detection records during a run and
// persists them once the run completes. The sink format is decided by the
// caller at save time; the records themselves are format-agnostic.
type Exporter struct {
	mutex           sync.Mutex
	intervalRecords []IntervalRecord
	resultRecords   []DetectionResult
}

func NewExporter() *Exporter {
	return &Exporter{
		intervalRecords: []IntervalRecord{},
		resultRecords:   []DetectionResult{},
	}
}

func (ep *Exporter) ReportInterval(record IntervalRecord) {
	ep.mutex.Lock()
	defer ep.mutex.Unlock()
	ep.intervalRecords = append(ep.intervalRecords, record)
}

func (ep *Exporter) ReportResult(record DetectionResult) {
	ep.mutex.Lock()
	defer ep.mutex.Unlock()
	ep.resultRecords = append(ep.resultRecords, record)
}

// Results returns a copy of the detection records reported so far.
func (ep *Exporter) Results() []DetectionResult {
	ep.mutex.Lock()
	defer ep.mutex.Unlock()

	out := make([]DetectionResult, len(ep.resultRecords))
	copy(out, ep.resultRecords)
	return out
}

func (ep *Exporter) IntervalRecordLen() int {
	ep.mutex.Lock()
	defer ep.mutex.Unlock()
	return len(ep.intervalRecords)
}

// FinishAndSave writes everything reported so far to the configured sink.
// CSV produces <prefix>_results.csv and <prefix>_intervals.csv; SQLite
// produces <prefix>.db with one table per record kind.
func (ep *Exporter) FinishAndSave(pathPrefix, format string) error {
	ep.mutex.Lock()
	defer ep.mutex.Unlock()

	switch format {
	case common.OutputFormatCSV:
		return ep.saveCSV(pathPrefix)
	case common.OutputFormatSQLite:
		return ep.saveSQLite(pathPrefix + ".db")
	default:
		return fmt.Errorf("unknown output format %q", format)
	}
}

func (ep *Exporter) saveCSV(pathPrefix string) error {
	resultsFile, err := os.Create(pathPrefix + "_results.csv")
	if err != nil {
		return err
	}
	defer resultsFile.Close()

	if err := gocsv.MarshalFile(&ep.resultRecords, resultsFile); err != nil {
		return fmt.Errorf("writing results: %w", err)
	}

	intervalsFile, err := os.Create(pathPrefix + "_intervals.csv")
	if err != nil {
		return err
	}
	defer intervalsFile.Close()

	if err := gocsv.MarshalFile(&ep.intervalRecords, intervalsFile); err != nil {
		return fmt.Errorf("writing interval records: %w", err)
	}

	return nil
}

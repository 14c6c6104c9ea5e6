package metric

import (
	"database/sql"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/keycanary/keycanary/pkg/common"
)

func sampleRecords() (DetectionResult, IntervalRecord) {
	result := DetectionResult{
		RunID:               "run-1",
		Pid:                 1234,
		Name:                "logger",
		Path:                "/tmp/logger",
		Correlation:         0.93,
		AvgBytesPerInterval: 512,
		Threshold:           0.7,
		Detected:            true,
	}
	interval := IntervalRecord{
		RunID:            "run-1",
		IntervalIdx:      0,
		KeysRequested:    10,
		KeysSent:         9,
		TrackedProcesses: 42,
		DurationMs:       1000,
		IdleDurationMs:   350,
	}
	return result, interval
}

func TestExporterSavesCSV(t *testing.T) {
	ep := NewExporter()
	result, interval := sampleRecords()
	ep.ReportResult(result)
	ep.ReportInterval(interval)

	prefix := filepath.Join(t.TempDir(), "run")
	require.NoError(t, ep.FinishAndSave(prefix, common.OutputFormatCSV))

	resultsData, err := os.ReadFile(prefix + "_results.csv")
	require.NoError(t, err)
	assert.Contains(t, string(resultsData), "run_id,pid,name,path,correlation,avg_bytes_per_interval,threshold,detected")
	assert.Contains(t, string(resultsData), "logger")

	intervalsData, err := os.ReadFile(prefix + "_intervals.csv")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(intervalsData)), "\n")
	assert.Len(t, lines, 2)
}

func TestExporterSavesSQLite(t *testing.T) {
	ep := NewExporter()
	result, interval := sampleRecords()
	ep.ReportResult(result)
	ep.ReportInterval(interval)

	prefix := filepath.Join(t.TempDir(), "run")
	require.NoError(t, ep.FinishAndSave(prefix, common.OutputFormatSQLite))

	db, err := sql.Open("sqlite3", prefix+".db")
	require.NoError(t, err)
	defer db.Close()

	var pid int
	var correlation float64
	var detected bool
	row := db.QueryRow(`SELECT pid, correlation, detected FROM results WHERE run_id = ?`, "run-1")
	require.NoError(t, row.Scan(&pid, &correlation, &detected))
	assert.Equal(t, 1234, pid)
	assert.InDelta(t, 0.93, correlation, 1e-12)
	assert.True(t, detected)

	var keysSent, tracked int
	row = db.QueryRow(`SELECT keys_sent, tracked_processes FROM intervals WHERE run_id = ? AND idx = 0`, "run-1")
	require.NoError(t, row.Scan(&keysSent, &tracked))
	assert.Equal(t, 9, keysSent)
	assert.Equal(t, 42, tracked)
}

func TestExporterUnknownFormat(t *testing.T) {
	ep := NewExporter()
	assert.Error(t, ep.FinishAndSave(filepath.Join(t.TempDir(), "run"), "xml"))
}

func TestExporterResultsCopy(t *testing.T) {
	ep := NewExporter()
	result, _ := sampleRecords()
	ep.ReportResult(result)

	results := ep.Results()
	require.Len(t, results, 1)

	results[0].Pid = 9999
	assert.Equal(t, 1234, ep.Results()[0].Pid)
}

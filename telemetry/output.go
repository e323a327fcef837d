package telemetry

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gocarina/gocsv"

	"github.com/pthm-cable/backdrop/config"
)

// FrameRecord is a row of frames.csv.
type FrameRecord struct {
	Scene  string  `csv:"scene"`
	Frame  uint64  `csv:"frame"`
	NowMs  float64 `csv:"now_ms"`
	TookUS int64   `csv:"took_us"`
}

// OutputManager writes run output (perf.csv, frames.csv, config.yaml) to a directory.
// A nil manager discards everything.
type OutputManager struct {
	dir        string
	perfFile   *os.File
	framesFile *os.File

	perfHeaderWritten   bool
	framesHeaderWritten bool
}

// NewOutputManager creates dir and opens the CSV files.
// Returns nil if dir is empty (output disabled).
func NewOutputManager(dir string) (*OutputManager, error) {
	if dir == "" {
		return nil, nil
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	om := &OutputManager{dir: dir}

	f, err := os.Create(filepath.Join(dir, "perf.csv"))
	if err != nil {
		return nil, fmt.Errorf("creating perf.csv: %w", err)
	}
	om.perfFile = f

	f, err = os.Create(filepath.Join(dir, "frames.csv"))
	if err != nil {
		om.perfFile.Close()
		return nil, fmt.Errorf("creating frames.csv: %w", err)
	}
	om.framesFile = f

	return om, nil
}

// WriteConfig saves the effective configuration as YAML.
func (om *OutputManager) WriteConfig(cfg *config.Config) error {
	if om == nil {
		return nil
	}
	return cfg.WriteYAML(filepath.Join(om.dir, "config.yaml"))
}

// WritePerf appends a window summary to perf.csv.
func (om *OutputManager) WritePerf(row PerfStatsCSV) error {
	if om == nil {
		return nil
	}
	if err := writeRows(om.perfFile, []PerfStatsCSV{row}, &om.perfHeaderWritten); err != nil {
		return fmt.Errorf("writing perf: %w", err)
	}
	return nil
}

// WriteFrames appends per-frame timings to frames.csv.
func (om *OutputManager) WriteFrames(rows []FrameRecord) error {
	if om == nil || len(rows) == 0 {
		return nil
	}
	if err := writeRows(om.framesFile, rows, &om.framesHeaderWritten); err != nil {
		return fmt.Errorf("writing frames: %w", err)
	}
	return nil
}

// writeRows writes the header only on the first call per file.
func writeRows(f *os.File, rows any, headerWritten *bool) error {
	if *headerWritten {
		return gocsv.MarshalWithoutHeaders(rows, f)
	}
	if err := gocsv.Marshal(rows, f); err != nil {
		return err
	}
	*headerWritten = true
	return nil
}

// Dir returns the output directory path.
func (om *OutputManager) Dir() string {
	if om == nil {
		return ""
	}
	return om.dir
}

// Close closes all output files.
func (om *OutputManager) Close() error {
	if om == nil {
		return nil
	}
	var firstErr error
	for _, f := range []*os.File{om.perfFile, om.framesFile} {
		if f == nil {
			continue
		}
		if err := f.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// Package recorder persists run parameters and training metrics to a
// run's output directory.
package recorder

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"sync"

	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"

	"github.com/dojo-rl/dojo/internal/config"
)

// MetricsName is the CSV file metric rows are appended to.
const MetricsName = "metrics.csv"

// Aware is implemented by trainers that want access to the run
// recorder, e.g. to place checkpoints under the output directory.
type Aware interface {
	AttachRecorder(*Recorder)
}

// Recorder is the logging collaborator of a run. It is an explicit
// value with an Initialize/Close lifecycle bound to one run, not an
// ambient singleton.
type Recorder struct {
	logger zerolog.Logger

	mu          sync.Mutex
	outputDir   string
	entryPoint  string
	file        *os.File
	csv         *csv.Writer
	header      []string
	initialized bool
}

// New creates a recorder.
func New(logger zerolog.Logger) *Recorder {
	return &Recorder{
		logger: logger.With().Str("component", "recorder").Logger(),
	}
}

// Initialize binds the recorder to an output directory, records the
// invoking entry point, and persists the effective experiment as
// config.yaml so a later run can resume from this one.
func (r *Recorder) Initialize(outputDir, entryPoint string, exp *config.Experiment) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.initialized {
		return fmt.Errorf("recorder already initialized")
	}
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	snapshot, err := yaml.Marshal(exp)
	if err != nil {
		return fmt.Errorf("failed to serialize experiment: %w", err)
	}
	snapshotPath := filepath.Join(outputDir, config.SnapshotName)
	if err := os.WriteFile(snapshotPath, snapshot, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", snapshotPath, err)
	}

	file, err := os.Create(filepath.Join(outputDir, MetricsName))
	if err != nil {
		return fmt.Errorf("failed to create metrics file: %w", err)
	}

	r.outputDir = outputDir
	r.entryPoint = entryPoint
	r.file = file
	r.csv = csv.NewWriter(file)
	r.initialized = true

	r.logger.Info().
		Str("output_dir", outputDir).
		Str("entry_point", entryPoint).
		Interface("args", exp.Args()).
		Msg("Run recording initialized")
	return nil
}

// OutputDir returns the bound output directory.
func (r *Recorder) OutputDir() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.outputDir
}

// Record appends one metric row. The column set is fixed by the first
// row recorded.
func (r *Recorder) Record(row map[string]float64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.initialized {
		return fmt.Errorf("recorder not initialized")
	}

	if r.header == nil {
		r.header = make([]string, 0, len(row))
		for key := range row {
			r.header = append(r.header, key)
		}
		sort.Strings(r.header)
		if err := r.csv.Write(r.header); err != nil {
			return err
		}
	}

	record := make([]string, len(r.header))
	for i, key := range r.header {
		record[i] = strconv.FormatFloat(row[key], 'g', -1, 64)
	}
	if err := r.csv.Write(record); err != nil {
		return err
	}
	r.csv.Flush()
	return r.csv.Error()
}

// Close flushes and closes the metrics file.
func (r *Recorder) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.initialized {
		return nil
	}
	r.csv.Flush()
	r.initialized = false
	return r.file.Close()
}

package config

import (
	"fmt"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/spf13/viper"
)

// SnapshotName is the file a run recorder writes next to its output,
// and the file a resumed run reads its prior configuration from.
const SnapshotName = "config.yaml"

// Reconcile merges the current experiment with the one persisted under
// checkpoint_output_dir. Only the descriptor fields and the header are
// merged, first non-empty wins; run-control fields (parallel,
// sequential, seed, checkpoint, hooks) always come from the current
// experiment. When checkpoint_output_dir is unset the current
// experiment is returned unchanged without touching the filesystem.
//
// An unreadable or malformed persisted snapshot is a fatal
// configuration error.
func Reconcile(cur *Experiment, log zerolog.Logger) (*Experiment, error) {
	if cur.CheckpointOutputDir == "" {
		return cur, nil
	}

	snapshotPath := filepath.Join(cur.CheckpointOutputDir, SnapshotName)
	log.Info().Str("path", snapshotPath).Msg("Loading prior experiment configuration")

	prev, err := loadSnapshot(snapshotPath)
	if err != nil {
		return nil, err
	}

	merged := *cur
	if merged.Header == "" {
		merged.Header = prev.Header
	}
	if merged.Agent.IsZero() {
		merged.Agent = prev.Agent
	}
	if merged.Environment.IsZero() {
		merged.Environment = prev.Environment
	}
	if merged.TestEnvironment.IsZero() {
		merged.TestEnvironment = prev.TestEnvironment
	}
	if merged.Trainer.IsZero() {
		merged.Trainer = prev.Trainer
	}
	return &merged, nil
}

func loadSnapshot(path string) (*Experiment, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read persisted configuration %s: %w", path, err)
	}

	var prev Experiment
	if err := v.Unmarshal(&prev); err != nil {
		return nil, fmt.Errorf("failed to unmarshal persisted configuration %s: %w", path, err)
	}
	return &prev, nil
}

// Package checkpoint locates saved agent weights from prior runs.
package checkpoint

import (
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"github.com/dojo-rl/dojo/internal/config"
)

// StepPrefix names checkpoint entries: step_<id> with an optional
// extension after the id.
const StepPrefix = "step_"

// CheckpointsDir is the subdirectory of a run's output holding the
// saved steps.
const CheckpointsDir = "checkpoints"

// Resolver selects a checkpoint from a prior run's output directory.
type Resolver struct {
	logger zerolog.Logger
}

// NewResolver creates a checkpoint resolver.
func NewResolver(logger zerolog.Logger) *Resolver {
	return &Resolver{
		logger: logger.With().Str("component", "checkpoint").Logger(),
	}
}

// Resolve returns the checkpoint directory matching the selector, or
// ok=false when no checkpoint should be loaded. Missing directories,
// empty checkpoint sets, and selector mismatches are logged and
// degrade to no checkpoint; they are never fatal here.
//
// agentSupplied marks that the caller provided an explicit agent
// descriptor: the agent is freshly created and no weights are loaded
// even when a resumable run exists.
func (r *Resolver) Resolve(outputDir, selector string, agentSupplied bool) (string, bool) {
	if outputDir == "" {
		return "", false
	}

	r.logger.Info().Str("dir", outputDir).Msg("Loading experiment from prior run")

	if selector == config.CheckpointNone || agentSupplied {
		r.logger.Info().Msg("Not loading any weights")
		return "", false
	}

	checkpointsDir := filepath.Join(outputDir, CheckpointsDir)
	info, err := os.Stat(checkpointsDir)
	if err != nil || !info.IsDir() {
		r.logger.Error().Str("path", checkpointsDir).Msg("Not a checkpoint directory")
		return "", false
	}

	ids, err := scanSteps(checkpointsDir)
	if err != nil {
		r.logger.Error().Err(err).Str("path", checkpointsDir).Msg("Failed to scan checkpoint directory")
		return "", false
	}
	if len(ids) == 0 {
		r.logger.Error().Str("path", checkpointsDir).Msg("No checkpoint found")
		return "", false
	}

	var selected int
	switch selector {
	case config.CheckpointLast:
		selected = ids[len(ids)-1]
	case config.CheckpointFirst:
		selected = ids[0]
	default:
		want, err := strconv.Atoi(selector)
		if err != nil {
			r.logger.Error().Str("selector", selector).Msg("Invalid checkpoint selector")
			return "", false
		}
		found := false
		for _, id := range ids {
			if id == want {
				found = true
				break
			}
		}
		if !found {
			r.logger.Error().Int("step", want).Str("path", checkpointsDir).Msg("Checkpoint not found")
			return "", false
		}
		selected = want
	}

	path := filepath.Join(checkpointsDir, StepPrefix+strconv.Itoa(selected))
	r.logger.Info().Str("path", path).Msg("Resolved checkpoint")
	return path, true
}

// scanSteps lists the step ids saved under dir, ascending. Entries
// that do not parse as step_<int> are skipped.
func scanSteps(dir string) ([]int, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var ids []int
	for _, entry := range entries {
		name := entry.Name()
		if !strings.HasPrefix(name, StepPrefix) {
			continue
		}
		stem, _, _ := strings.Cut(name, ".")
		id, err := strconv.Atoi(stem[len(StepPrefix):])
		if err != nil {
			continue
		}
		ids = append(ids, id)
	}

	sort.Ints(ids)
	return ids, nil
}

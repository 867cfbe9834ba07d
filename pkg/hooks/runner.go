// Package hooks executes user-supplied shell snippets at fixed points
// of a training run.
package hooks

import (
	"fmt"
	"os"
	"os/exec"
	"sort"
	"strings"

	"github.com/rs/zerolog"
)

// Stages at which a snippet may run.
const (
	StageHeader         = "header"
	StageBeforeTraining = "before_training"
	StageAfterTraining  = "after_training"
)

// Runner executes experiment snippets synchronously via the shell,
// exposing the assembled session through DOJO_* environment
// variables. A snippet failure is fatal to the run; there is no
// isolation or retry.
type Runner struct {
	logger zerolog.Logger
}

// NewRunner creates a hook runner.
func NewRunner(logger zerolog.Logger) *Runner {
	return &Runner{
		logger: logger.With().Str("component", "hooks").Logger(),
	}
}

// Run executes the snippet for a stage. An empty snippet is a no-op.
// data is exposed to the snippet as DOJO_<KEY> variables.
func (r *Runner) Run(stage, snippet string, data map[string]string) error {
	if strings.TrimSpace(snippet) == "" {
		return nil
	}

	cmd := exec.Command("/bin/sh", "-c", snippet)
	cmd.Env = buildEnvironment(stage, data)

	output, err := cmd.CombinedOutput()
	outputText := strings.TrimSpace(string(output))
	if err != nil {
		if outputText != "" {
			return fmt.Errorf("%s snippet failed: %w: %s", stage, err, outputText)
		}
		return fmt.Errorf("%s snippet failed: %w", stage, err)
	}

	if outputText != "" {
		r.logger.Info().
			Str("stage", stage).
			Str("output", outputText).
			Msg("Snippet executed")
	} else {
		r.logger.Debug().Str("stage", stage).Msg("Snippet executed")
	}
	return nil
}

func buildEnvironment(stage string, data map[string]string) []string {
	environ := append([]string{}, os.Environ()...)
	environ = append(environ, "DOJO_HOOK_STAGE="+stage)

	keys := make([]string, 0, len(data))
	for key := range data {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		environ = append(environ, "DOJO_"+normalizeEnvKey(key)+"="+data[key])
	}
	return environ
}

func normalizeEnvKey(key string) string {
	upper := strings.ToUpper(strings.TrimSpace(key))
	builder := strings.Builder{}
	builder.Grow(len(upper))
	for _, r := range upper {
		if (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			builder.WriteRune(r)
			continue
		}
		builder.WriteRune('_')
	}
	return builder.String()
}

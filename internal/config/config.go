package config

import (
	"fmt"
	"strconv"
)

// Selector values understood by the checkpoint resolver, besides a
// plain non-negative step id.
const (
	CheckpointLast  = "last"
	CheckpointFirst = "first"
	CheckpointNone  = "none"
)

// Descriptor is a typed, opaque specification of an object to
// construct: a registered type name plus named constructor arguments.
type Descriptor struct {
	Type string         `json:"type" yaml:"type" mapstructure:"type"`
	Args map[string]any `json:"args,omitempty" yaml:"args,omitempty" mapstructure:"args"`
}

// IsZero reports whether the descriptor is absent.
func (d Descriptor) IsZero() bool {
	return d.Type == ""
}

// Experiment is the declarative description of one training run.
type Experiment struct {
	// Header is a shell snippet executed before any construction,
	// e.g. to prepare an external backend.
	Header string `json:"header,omitempty" yaml:"header,omitempty" mapstructure:"header"`

	Agent           Descriptor `json:"agent,omitempty" yaml:"agent,omitempty" mapstructure:"agent"`
	Environment     Descriptor `json:"environment" yaml:"environment" mapstructure:"environment"`
	TestEnvironment Descriptor `json:"test_environment,omitempty" yaml:"test_environment,omitempty" mapstructure:"test_environment"`
	Trainer         Descriptor `json:"trainer" yaml:"trainer" mapstructure:"trainer"`

	BeforeTraining string `json:"before_training,omitempty" yaml:"before_training,omitempty" mapstructure:"before_training"`
	AfterTraining  string `json:"after_training,omitempty" yaml:"after_training,omitempty" mapstructure:"after_training"`

	// Parallel is the number of environment workers, Sequential the
	// number of environment copies per worker.
	Parallel   int `json:"parallel" yaml:"parallel" mapstructure:"parallel"`
	Sequential int `json:"sequential" yaml:"sequential" mapstructure:"sequential"`

	Seed int64 `json:"seed" yaml:"seed" mapstructure:"seed"`

	// Checkpoint selects which saved step to resume from: "last",
	// "first", "none", or a non-negative step id.
	Checkpoint          string `json:"checkpoint" yaml:"checkpoint" mapstructure:"checkpoint"`
	CheckpointOutputDir string `json:"checkpoint_output_dir,omitempty" yaml:"checkpoint_output_dir,omitempty" mapstructure:"checkpoint_output_dir"`
}

// Default returns an experiment with default values.
func Default() *Experiment {
	return &Experiment{
		Parallel:   1,
		Sequential: 1,
		Seed:       0,
		Checkpoint: CheckpointLast,
	}
}

// Validate checks that the experiment is internally consistent.
func (e *Experiment) Validate() error {
	if e.Environment.IsZero() {
		return fmt.Errorf("environment is required")
	}
	if e.Trainer.IsZero() {
		return fmt.Errorf("trainer is required")
	}
	if e.Parallel < 1 {
		return fmt.Errorf("parallel must be >= 1, got %d", e.Parallel)
	}
	if e.Sequential < 1 {
		return fmt.Errorf("sequential must be >= 1, got %d", e.Sequential)
	}
	switch e.Checkpoint {
	case CheckpointLast, CheckpointFirst, CheckpointNone:
	default:
		id, err := strconv.Atoi(e.Checkpoint)
		if err != nil || id < 0 {
			return fmt.Errorf("invalid checkpoint selector %q (want last, first, none, or a non-negative step id)", e.Checkpoint)
		}
	}
	return nil
}

// Args flattens the resolved top-level fields into an audit mapping,
// recorded alongside run output so a later run can be replayed or
// resumed.
func (e *Experiment) Args() map[string]any {
	return map[string]any{
		"header":                e.Header,
		"agent":                 e.Agent,
		"environment":           e.Environment,
		"test_environment":      e.TestEnvironment,
		"trainer":               e.Trainer,
		"before_training":       e.BeforeTraining,
		"after_training":        e.AfterTraining,
		"parallel":              e.Parallel,
		"sequential":            e.Sequential,
		"seed":                  e.Seed,
		"checkpoint":            e.Checkpoint,
		"checkpoint_output_dir": e.CheckpointOutputDir,
	}
}

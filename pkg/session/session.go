// Package session assembles an experiment into a fully wired training
// session and drives it to completion.
package session

import (
	"fmt"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/dojo-rl/dojo/internal/config"
	"github.com/dojo-rl/dojo/pkg/agent"
	"github.com/dojo-rl/dojo/pkg/checkpoint"
	"github.com/dojo-rl/dojo/pkg/env"
	"github.com/dojo-rl/dojo/pkg/hooks"
	"github.com/dojo-rl/dojo/pkg/recorder"
	"github.com/dojo-rl/dojo/pkg/trainer"
)

// Session is the fully wired runtime state of one training run. It is
// owned by a single run and never shared.
type Session struct {
	Experiment      *config.Experiment
	Environment     env.Environment
	TestEnvironment env.Environment
	Agent           agent.Agent
	Trainer         trainer.Trainer

	// CheckpointPath is the resolved checkpoint directory, empty when
	// no weights were loaded.
	CheckpointPath string
	// Args is the flat audit mapping of every resolved top-level
	// field.
	Args map[string]any
	// OutputDir is where this run records its own output.
	OutputDir string

	hooks    *hooks.Runner
	recorder *recorder.Recorder
}

// TestSeedOffset separates the test environment's seed from the
// training seed so evaluation trajectories stay independent.
const TestSeedOffset = 10000

// Assembler turns a declarative experiment into a Session, resolving
// checkpoints and persisted configuration along the way.
type Assembler struct {
	logger   zerolog.Logger
	resolver *checkpoint.Resolver
	hooks    *hooks.Runner
	recorder *recorder.Recorder
}

// NewAssembler creates a session assembler.
func NewAssembler(logger zerolog.Logger) *Assembler {
	return &Assembler{
		logger:   logger.With().Str("component", "session").Logger(),
		resolver: checkpoint.NewResolver(logger),
		hooks:    hooks.NewRunner(logger),
		recorder: recorder.New(logger),
	}
}

// Assemble resolves and wires a session in dependency order:
// checkpoint resolution, configuration reconciliation, header hook,
// training environment, test environment, agent (plus weight load),
// run recorder, trainer. Construction, weight-load, and hook failures
// are fatal; an unresolvable checkpoint alone is not.
func (a *Assembler) Assemble(current *config.Experiment, outputDir, entryPoint string) (*Session, error) {
	// The opt-out on an explicitly supplied agent is judged on the
	// incoming experiment, before persisted descriptors are merged in.
	checkpointPath, loaded := a.resolver.Resolve(
		current.CheckpointOutputDir, current.Checkpoint, !current.Agent.IsZero())

	exp, err := config.Reconcile(current, a.logger)
	if err != nil {
		return nil, err
	}
	if err := exp.Validate(); err != nil {
		return nil, fmt.Errorf("invalid experiment: %w", err)
	}
	if exp.Agent.IsZero() {
		return nil, fmt.Errorf("agent is required: none supplied and none persisted")
	}

	hookData := map[string]string{
		"output_dir":      outputDir,
		"seed":            strconv.FormatInt(exp.Seed, 10),
		"checkpoint_path": checkpointPath,
		"environment":     exp.Environment.Type,
		"trainer":         exp.Trainer.Type,
	}

	// The header runs before any construction, e.g. to prepare an
	// external backend.
	if err := a.hooks.Run(hooks.StageHeader, exp.Header, hookData); err != nil {
		return nil, err
	}

	envDesc := exp.Environment
	environment, err := env.Distribute(func() (env.Environment, error) {
		return env.Build(envDesc)
	}, exp.Parallel, exp.Sequential)
	if err != nil {
		return nil, err
	}
	if err := environment.Initialize(exp.Seed); err != nil {
		return nil, fmt.Errorf("failed to initialize environment: %w", err)
	}

	testDesc := exp.TestEnvironment
	if testDesc.IsZero() {
		testDesc = envDesc
	}
	testEnvironment, err := env.Distribute(func() (env.Environment, error) {
		return env.Build(testDesc)
	}, 1, 1)
	if err != nil {
		return nil, err
	}
	if err := testEnvironment.Initialize(exp.Seed + TestSeedOffset); err != nil {
		return nil, fmt.Errorf("failed to initialize test environment: %w", err)
	}

	agentInstance, err := agent.Build(exp.Agent)
	if err != nil {
		return nil, err
	}
	if err := agentInstance.Initialize(
		environment.ObservationSpace(), environment.ActionSpace(), exp.Seed); err != nil {
		return nil, fmt.Errorf("failed to initialize agent: %w", err)
	}

	if loaded {
		if err := agentInstance.Load(checkpointPath); err != nil {
			return nil, fmt.Errorf("failed to load agent weights: %w", err)
		}
		a.logger.Info().Str("path", checkpointPath).Msg("Agent weights loaded")
	}

	// The recorder comes up after agent construction and before the
	// trainer, which may emit metrics from Initialize onwards.
	if err := a.recorder.Initialize(outputDir, entryPoint, exp); err != nil {
		return nil, err
	}

	trainerInstance, err := trainer.Build(exp.Trainer)
	if err != nil {
		return nil, err
	}
	if aware, ok := trainerInstance.(recorder.Aware); ok {
		aware.AttachRecorder(a.recorder)
	}
	if err := trainerInstance.Initialize(agentInstance, environment, testEnvironment); err != nil {
		return nil, fmt.Errorf("failed to initialize trainer: %w", err)
	}

	return &Session{
		Experiment:      exp,
		Environment:     environment,
		TestEnvironment: testEnvironment,
		Agent:           agentInstance,
		Trainer:         trainerInstance,
		CheckpointPath:  checkpointPath,
		Args:            exp.Args(),
		OutputDir:       outputDir,
		hooks:           a.hooks,
		recorder:        a.recorder,
	}, nil
}

// Run executes the before-training hook, the trainer, and the
// after-training hook, in that order.
func (s *Session) Run() error {
	hookData := map[string]string{
		"output_dir":      s.OutputDir,
		"seed":            strconv.FormatInt(s.Experiment.Seed, 10),
		"checkpoint_path": s.CheckpointPath,
		"environment":     s.Experiment.Environment.Type,
		"trainer":         s.Experiment.Trainer.Type,
	}

	if err := s.hooks.Run(hooks.StageBeforeTraining, s.Experiment.BeforeTraining, hookData); err != nil {
		return err
	}
	if err := s.Trainer.Run(); err != nil {
		return fmt.Errorf("training failed: %w", err)
	}
	return s.hooks.Run(hooks.StageAfterTraining, s.Experiment.AfterTraining, hookData)
}

// Close releases the run recorder.
func (s *Session) Close() error {
	return s.recorder.Close()
}

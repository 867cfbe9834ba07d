package trainer

import (
	"fmt"
	"path/filepath"
	"strconv"

	"github.com/rs/zerolog/log"

	"github.com/dojo-rl/dojo/pkg/agent"
	"github.com/dojo-rl/dojo/pkg/checkpoint"
	"github.com/dojo-rl/dojo/pkg/descriptor"
	"github.com/dojo-rl/dojo/pkg/env"
	"github.com/dojo-rl/dojo/pkg/recorder"
)

func init() {
	Register("basic", buildBasic)
}

const basicSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "additionalProperties": false,
  "properties": {
    "steps": {
      "type": "integer",
      "minimum": 1,
      "description": "Total environment steps to train for"
    },
    "test_episodes": {
      "type": "integer",
      "minimum": 0,
      "description": "Episodes per evaluation round"
    },
    "test_interval": {
      "type": "integer",
      "minimum": 1,
      "description": "Steps between evaluation rounds"
    },
    "checkpoint_interval": {
      "type": "integer",
      "minimum": 1,
      "description": "Steps between checkpoint saves"
    }
  }
}`

type basicArgs struct {
	Steps              int `mapstructure:"steps"`
	TestEpisodes       int `mapstructure:"test_episodes"`
	TestInterval       int `mapstructure:"test_interval"`
	CheckpointInterval int `mapstructure:"checkpoint_interval"`
}

func buildBasic(args map[string]any) (Trainer, error) {
	if err := descriptor.ValidateArgs(basicSchema, args); err != nil {
		return nil, err
	}
	decoded := basicArgs{
		Steps:              1000,
		TestEpisodes:       5,
		TestInterval:       500,
		CheckpointInterval: 500,
	}
	if err := descriptor.DecodeArgs(args, &decoded); err != nil {
		return nil, err
	}
	return &basicTrainer{args: decoded}, nil
}

// basicTrainer runs a fixed number of environment steps, evaluating on
// the test environment and saving checkpoints at fixed intervals.
type basicTrainer struct {
	args basicArgs

	agent   agent.Agent
	env     env.Environment
	testEnv env.Environment
	rec     *recorder.Recorder
}

// AttachRecorder gives the trainer access to the run recorder for
// metric rows and checkpoint placement.
func (t *basicTrainer) AttachRecorder(rec *recorder.Recorder) {
	t.rec = rec
}

func (t *basicTrainer) Initialize(a agent.Agent, environment, testEnvironment env.Environment) error {
	if a == nil || environment == nil || testEnvironment == nil {
		return fmt.Errorf("trainer requires an agent, an environment, and a test environment")
	}
	t.agent = a
	t.env = environment
	t.testEnv = testEnvironment
	log.Info().Int("steps", t.args.Steps).Msg("Trainer initialized")
	return nil
}

func (t *basicTrainer) Run() error {
	if t.agent == nil {
		return fmt.Errorf("trainer not initialized")
	}

	obs, err := t.env.Reset()
	if err != nil {
		return fmt.Errorf("failed to reset environment: %w", err)
	}

	var episodeReturn float64
	for step := 1; step <= t.args.Steps; step++ {
		action, err := t.agent.Act(obs)
		if err != nil {
			return fmt.Errorf("agent failed to act at step %d: %w", step, err)
		}
		result, err := t.env.Step(action)
		if err != nil {
			return fmt.Errorf("environment failed at step %d: %w", step, err)
		}
		episodeReturn += result.Reward
		obs = result.Observation

		if result.Done {
			t.record(map[string]float64{
				"step":           float64(step),
				"episode_return": episodeReturn,
				"test_return":    0,
			})
			episodeReturn = 0
			if obs, err = t.env.Reset(); err != nil {
				return fmt.Errorf("failed to reset environment: %w", err)
			}
		}

		if t.args.TestEpisodes > 0 && step%t.args.TestInterval == 0 {
			testReturn, err := t.evaluate()
			if err != nil {
				return err
			}
			log.Info().Int("step", step).Float64("test_return", testReturn).Msg("Evaluation round")
			t.record(map[string]float64{
				"step":           float64(step),
				"episode_return": 0,
				"test_return":    testReturn,
			})
		}

		if t.rec != nil && step%t.args.CheckpointInterval == 0 {
			if err := t.saveCheckpoint(step); err != nil {
				return err
			}
		}
	}
	return nil
}

// evaluate runs test episodes and returns the mean episode return.
func (t *basicTrainer) evaluate() (float64, error) {
	var total float64
	for episode := 0; episode < t.args.TestEpisodes; episode++ {
		obs, err := t.testEnv.Reset()
		if err != nil {
			return 0, fmt.Errorf("failed to reset test environment: %w", err)
		}
		for {
			action, err := t.agent.Act(obs)
			if err != nil {
				return 0, err
			}
			result, err := t.testEnv.Step(action)
			if err != nil {
				return 0, err
			}
			total += result.Reward
			obs = result.Observation
			if result.Done {
				break
			}
		}
	}
	return total / float64(t.args.TestEpisodes), nil
}

func (t *basicTrainer) saveCheckpoint(step int) error {
	dir := filepath.Join(t.rec.OutputDir(), checkpoint.CheckpointsDir, checkpoint.StepPrefix+strconv.Itoa(step))
	if err := t.agent.Save(dir); err != nil {
		return fmt.Errorf("failed to save checkpoint at step %d: %w", step, err)
	}
	log.Info().Int("step", step).Str("path", dir).Msg("Checkpoint saved")
	return nil
}

func (t *basicTrainer) record(row map[string]float64) {
	if t.rec == nil {
		return
	}
	if err := t.rec.Record(row); err != nil {
		log.Warn().Err(err).Msg("Failed to record metrics row")
	}
}

package env

import (
	"fmt"
	"math/rand"

	"github.com/dojo-rl/dojo/pkg/descriptor"
)

func init() {
	Register("chain", buildChain)
	Register("bandit", buildBandit)
}

const chainSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "additionalProperties": false,
  "properties": {
    "length": {
      "type": "integer",
      "minimum": 2,
      "description": "Number of states in the corridor"
    }
  }
}`

type chainArgs struct {
	Length int `mapstructure:"length"`
}

func buildChain(args map[string]any) (Environment, error) {
	if err := descriptor.ValidateArgs(chainSchema, args); err != nil {
		return nil, err
	}
	decoded := chainArgs{Length: 10}
	if err := descriptor.DecodeArgs(args, &decoded); err != nil {
		return nil, err
	}
	return &chainEnv{length: decoded.Length}, nil
}

// chainEnv is a corridor of length states. The agent starts at the
// left end and receives reward 1 for reaching the right end, which
// terminates the episode.
type chainEnv struct {
	length   int
	position int
	rng      *rand.Rand
}

func (c *chainEnv) ObservationSpace() Space { return Box(c.length) }
func (c *chainEnv) ActionSpace() Space      { return Discrete(2) }

func (c *chainEnv) Initialize(seed int64) error {
	c.rng = rand.New(rand.NewSource(seed))
	c.position = 0
	return nil
}

func (c *chainEnv) Reset() (Observation, error) {
	if c.rng == nil {
		return nil, fmt.Errorf("environment not initialized")
	}
	c.position = 0
	return c.observe(), nil
}

func (c *chainEnv) Step(action int) (StepResult, error) {
	if c.rng == nil {
		return StepResult{}, fmt.Errorf("environment not initialized")
	}
	switch action {
	case 0:
		if c.position > 0 {
			c.position--
		}
	case 1:
		c.position++
	default:
		return StepResult{}, fmt.Errorf("invalid action %d", action)
	}

	if c.position >= c.length-1 {
		return StepResult{Observation: c.observe(), Reward: 1, Done: true}, nil
	}
	return StepResult{Observation: c.observe()}, nil
}

func (c *chainEnv) observe() Observation {
	obs := make(Observation, c.length)
	obs[c.position] = 1
	return obs
}

const banditSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "additionalProperties": false,
  "properties": {
    "arms": {
      "type": "array",
      "minItems": 1,
      "items": {
        "type": "number",
        "minimum": 0,
        "maximum": 1
      },
      "description": "Per-arm payout probabilities"
    }
  }
}`

type banditArgs struct {
	Arms []float64 `mapstructure:"arms"`
}

func buildBandit(args map[string]any) (Environment, error) {
	if err := descriptor.ValidateArgs(banditSchema, args); err != nil {
		return nil, err
	}
	decoded := banditArgs{Arms: []float64{0.2, 0.8}}
	if err := descriptor.DecodeArgs(args, &decoded); err != nil {
		return nil, err
	}
	return &banditEnv{arms: decoded.Arms}, nil
}

// banditEnv is a multi-armed bandit: single-step episodes, Bernoulli
// payout per arm.
type banditEnv struct {
	arms []float64
	rng  *rand.Rand
}

func (b *banditEnv) ObservationSpace() Space { return Box(1) }
func (b *banditEnv) ActionSpace() Space      { return Discrete(len(b.arms)) }

func (b *banditEnv) Initialize(seed int64) error {
	b.rng = rand.New(rand.NewSource(seed))
	return nil
}

func (b *banditEnv) Reset() (Observation, error) {
	if b.rng == nil {
		return nil, fmt.Errorf("environment not initialized")
	}
	return Observation{0}, nil
}

func (b *banditEnv) Step(action int) (StepResult, error) {
	if b.rng == nil {
		return StepResult{}, fmt.Errorf("environment not initialized")
	}
	if action < 0 || action >= len(b.arms) {
		return StepResult{}, fmt.Errorf("invalid action %d", action)
	}
	var reward float64
	if b.rng.Float64() < b.arms[action] {
		reward = 1
	}
	return StepResult{Observation: Observation{0}, Reward: reward, Done: true}, nil
}

package agent

import (
	"encoding/json"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"

	"github.com/dojo-rl/dojo/pkg/descriptor"
	"github.com/dojo-rl/dojo/pkg/env"
)

func init() {
	Register("random", buildRandom)
}

// weightsFile holds the persisted state inside a checkpoint directory.
const weightsFile = "weights.json"

const randomSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "additionalProperties": false,
  "properties": {}
}`

func buildRandom(args map[string]any) (Agent, error) {
	if err := descriptor.ValidateArgs(randomSchema, args); err != nil {
		return nil, err
	}
	var decoded struct{}
	if err := descriptor.DecodeArgs(args, &decoded); err != nil {
		return nil, err
	}
	return &randomAgent{}, nil
}

// randomAgent samples actions uniformly. Its "weights" are only the
// action-space cardinality, which makes checkpoint compatibility
// checkable on load.
type randomAgent struct {
	actions int
	rng     *rand.Rand
}

type randomWeights struct {
	Actions int `json:"actions"`
}

func (a *randomAgent) Initialize(observationSpace, actionSpace env.Space, seed int64) error {
	if actionSpace.Kind != env.SpaceDiscrete || actionSpace.N < 1 {
		return fmt.Errorf("random agent requires a discrete action space")
	}
	a.actions = actionSpace.N
	a.rng = rand.New(rand.NewSource(seed))
	return nil
}

func (a *randomAgent) Act(obs env.Observation) (int, error) {
	if a.rng == nil {
		return 0, fmt.Errorf("agent not initialized")
	}
	return a.rng.Intn(a.actions), nil
}

func (a *randomAgent) Load(path string) error {
	data, err := os.ReadFile(filepath.Join(path, weightsFile))
	if err != nil {
		return fmt.Errorf("failed to read checkpoint %s: %w", path, err)
	}
	var weights randomWeights
	if err := json.Unmarshal(data, &weights); err != nil {
		return fmt.Errorf("corrupt checkpoint %s: %w", path, err)
	}
	if weights.Actions != a.actions {
		return fmt.Errorf("incompatible checkpoint %s: %d actions, agent has %d", path, weights.Actions, a.actions)
	}
	return nil
}

func (a *randomAgent) Save(path string) error {
	if err := os.MkdirAll(path, 0755); err != nil {
		return fmt.Errorf("failed to create checkpoint directory: %w", err)
	}
	data, err := json.Marshal(randomWeights{Actions: a.actions})
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(path, weightsFile), data, 0644)
}

package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoaderLoad(t *testing.T) {
	t.Run("empty path yields defaults", func(t *testing.T) {
		exp, err := NewLoader("").Load()
		require.NoError(t, err)
		assert.Equal(t, Default(), exp)
	})

	t.Run("missing file is an error", func(t *testing.T) {
		_, err := NewLoader(filepath.Join(t.TempDir(), "nope.yaml")).Load()
		require.Error(t, err)
	})

	t.Run("loads experiment from yaml", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "experiment.yaml")
		content := `environment:
  type: chain
  args:
    length: 12
trainer:
  type: basic
agent:
  type: random
parallel: 4
sequential: 2
seed: 17
checkpoint: none
before_training: "echo before"
`
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))

		exp, err := Load(path)
		require.NoError(t, err)
		assert.Equal(t, "chain", exp.Environment.Type)
		assert.EqualValues(t, 12, exp.Environment.Args["length"])
		assert.Equal(t, "basic", exp.Trainer.Type)
		assert.Equal(t, "random", exp.Agent.Type)
		assert.Equal(t, 4, exp.Parallel)
		assert.Equal(t, 2, exp.Sequential)
		assert.Equal(t, int64(17), exp.Seed)
		assert.Equal(t, CheckpointNone, exp.Checkpoint)
		assert.Equal(t, "echo before", exp.BeforeTraining)
	})

	t.Run("unset fields keep defaults", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "experiment.yaml")
		content := `environment:
  type: bandit
trainer:
  type: basic
`
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))

		exp, err := Load(path)
		require.NoError(t, err)
		assert.Equal(t, 1, exp.Parallel)
		assert.Equal(t, 1, exp.Sequential)
		assert.Equal(t, CheckpointLast, exp.Checkpoint)
	})
}

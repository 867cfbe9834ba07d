package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validExperiment() *Experiment {
	exp := Default()
	exp.Environment = Descriptor{Type: "chain"}
	exp.Trainer = Descriptor{Type: "basic"}
	return exp
}

func TestDefault(t *testing.T) {
	exp := Default()
	assert.Equal(t, 1, exp.Parallel)
	assert.Equal(t, 1, exp.Sequential)
	assert.Equal(t, int64(0), exp.Seed)
	assert.Equal(t, CheckpointLast, exp.Checkpoint)
}

func TestDescriptorIsZero(t *testing.T) {
	assert.True(t, Descriptor{}.IsZero())
	assert.True(t, Descriptor{Args: map[string]any{"length": 5}}.IsZero())
	assert.False(t, Descriptor{Type: "chain"}.IsZero())
}

func TestValidate(t *testing.T) {
	t.Run("valid experiment passes", func(t *testing.T) {
		require.NoError(t, validExperiment().Validate())
	})

	t.Run("environment is required", func(t *testing.T) {
		exp := validExperiment()
		exp.Environment = Descriptor{}
		assert.ErrorContains(t, exp.Validate(), "environment is required")
	})

	t.Run("trainer is required", func(t *testing.T) {
		exp := validExperiment()
		exp.Trainer = Descriptor{}
		assert.ErrorContains(t, exp.Validate(), "trainer is required")
	})

	t.Run("parallel must be positive", func(t *testing.T) {
		exp := validExperiment()
		exp.Parallel = 0
		assert.ErrorContains(t, exp.Validate(), "parallel")
	})

	t.Run("sequential must be positive", func(t *testing.T) {
		exp := validExperiment()
		exp.Sequential = -1
		assert.ErrorContains(t, exp.Validate(), "sequential")
	})

	t.Run("checkpoint selectors", func(t *testing.T) {
		for _, selector := range []string{CheckpointLast, CheckpointFirst, CheckpointNone, "0", "42"} {
			exp := validExperiment()
			exp.Checkpoint = selector
			assert.NoError(t, exp.Validate(), selector)
		}
		for _, selector := range []string{"", "-1", "latest", "1.5"} {
			exp := validExperiment()
			exp.Checkpoint = selector
			assert.Error(t, exp.Validate(), selector)
		}
	})
}

func TestArgsCapturesEveryTopLevelField(t *testing.T) {
	exp := validExperiment()
	exp.Seed = 7
	exp.CheckpointOutputDir = "/prior/run"

	args := exp.Args()
	assert.Equal(t, int64(7), args["seed"])
	assert.Equal(t, "/prior/run", args["checkpoint_output_dir"])
	for _, key := range []string{
		"header", "agent", "environment", "test_environment", "trainer",
		"before_training", "after_training", "parallel", "sequential",
		"seed", "checkpoint", "checkpoint_output_dir",
	} {
		assert.Contains(t, args, key)
	}
}

package env

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dojo-rl/dojo/internal/config"
)

func TestBuildUnknownType(t *testing.T) {
	_, err := Build(config.Descriptor{Type: "holodeck"})
	assert.ErrorContains(t, err, "unknown environment type")
}

func TestChainEnvironment(t *testing.T) {
	t.Run("walks to the goal", func(t *testing.T) {
		environment, err := Build(config.Descriptor{
			Type: "chain",
			Args: map[string]any{"length": 4},
		})
		require.NoError(t, err)
		require.NoError(t, environment.Initialize(1))

		obs, err := environment.Reset()
		require.NoError(t, err)
		assert.Equal(t, Observation{1, 0, 0, 0}, obs)

		// Two steps right, then the goal step terminates with reward.
		result, err := environment.Step(1)
		require.NoError(t, err)
		assert.False(t, result.Done)

		result, err = environment.Step(1)
		require.NoError(t, err)
		assert.False(t, result.Done)

		result, err = environment.Step(1)
		require.NoError(t, err)
		assert.True(t, result.Done)
		assert.Equal(t, 1.0, result.Reward)
	})

	t.Run("left edge clamps", func(t *testing.T) {
		environment, err := Build(config.Descriptor{Type: "chain"})
		require.NoError(t, err)
		require.NoError(t, environment.Initialize(1))
		_, err = environment.Reset()
		require.NoError(t, err)

		result, err := environment.Step(0)
		require.NoError(t, err)
		assert.Equal(t, 1.0, result.Observation[0])
	})

	t.Run("rejects unknown args", func(t *testing.T) {
		_, err := Build(config.Descriptor{
			Type: "chain",
			Args: map[string]any{"lenght": 4},
		})
		assert.Error(t, err)
	})

	t.Run("rejects invalid length", func(t *testing.T) {
		_, err := Build(config.Descriptor{
			Type: "chain",
			Args: map[string]any{"length": 1},
		})
		assert.Error(t, err)
	})

	t.Run("requires initialization", func(t *testing.T) {
		environment, err := Build(config.Descriptor{Type: "chain"})
		require.NoError(t, err)
		_, err = environment.Reset()
		assert.Error(t, err)
	})
}

func TestBanditEnvironment(t *testing.T) {
	t.Run("episodes are single step", func(t *testing.T) {
		environment, err := Build(config.Descriptor{
			Type: "bandit",
			Args: map[string]any{"arms": []any{0.0, 1.0}},
		})
		require.NoError(t, err)
		require.NoError(t, environment.Initialize(3))

		assert.Equal(t, Discrete(2), environment.ActionSpace())

		_, err = environment.Reset()
		require.NoError(t, err)

		result, err := environment.Step(1)
		require.NoError(t, err)
		assert.True(t, result.Done)
		assert.Equal(t, 1.0, result.Reward)

		result, err = environment.Step(0)
		require.NoError(t, err)
		assert.Equal(t, 0.0, result.Reward)
	})

	t.Run("rejects out-of-range actions", func(t *testing.T) {
		environment, err := Build(config.Descriptor{Type: "bandit"})
		require.NoError(t, err)
		require.NoError(t, environment.Initialize(3))
		_, err = environment.Step(5)
		assert.Error(t, err)
	})

	t.Run("rejects invalid probabilities", func(t *testing.T) {
		_, err := Build(config.Descriptor{
			Type: "bandit",
			Args: map[string]any{"arms": []any{1.5}},
		})
		assert.Error(t, err)
	})
}

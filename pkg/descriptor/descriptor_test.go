package descriptor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSchema = `{
  "type": "object",
  "additionalProperties": false,
  "properties": {
    "count": {"type": "integer", "minimum": 1},
    "name": {"type": "string"}
  }
}`

func TestDecodeArgs(t *testing.T) {
	type params struct {
		Count int    `mapstructure:"count"`
		Name  string `mapstructure:"name"`
	}

	t.Run("binds named arguments", func(t *testing.T) {
		var out params
		err := DecodeArgs(map[string]any{"count": 3, "name": "run"}, &out)
		require.NoError(t, err)
		assert.Equal(t, params{Count: 3, Name: "run"}, out)
	})

	t.Run("keeps defaults for absent arguments", func(t *testing.T) {
		out := params{Count: 10}
		require.NoError(t, DecodeArgs(nil, &out))
		assert.Equal(t, 10, out.Count)
	})

	t.Run("rejects unknown keys", func(t *testing.T) {
		var out params
		assert.Error(t, DecodeArgs(map[string]any{"cuont": 3}, &out))
	})
}

func TestValidateArgs(t *testing.T) {
	t.Run("accepts conforming arguments", func(t *testing.T) {
		assert.NoError(t, ValidateArgs(testSchema, map[string]any{"count": 2}))
	})

	t.Run("accepts nil arguments", func(t *testing.T) {
		assert.NoError(t, ValidateArgs(testSchema, nil))
	})

	t.Run("rejects violations with detail", func(t *testing.T) {
		err := ValidateArgs(testSchema, map[string]any{"count": 0})
		assert.ErrorContains(t, err, "invalid arguments")
	})

	t.Run("rejects unknown properties", func(t *testing.T) {
		assert.Error(t, ValidateArgs(testSchema, map[string]any{"other": 1}))
	})
}

package recorder

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/dojo-rl/dojo/internal/config"
)

func testExperiment() *config.Experiment {
	exp := config.Default()
	exp.Environment = config.Descriptor{Type: "chain", Args: map[string]any{"length": 6}}
	exp.Agent = config.Descriptor{Type: "random"}
	exp.Trainer = config.Descriptor{Type: "basic"}
	exp.Seed = 11
	return exp
}

func TestInitializeWritesResumableSnapshot(t *testing.T) {
	outputDir := filepath.Join(t.TempDir(), "run")
	rec := New(zerolog.Nop())
	require.NoError(t, rec.Initialize(outputDir, "dojo", testExperiment()))
	defer rec.Close()

	assert.Equal(t, outputDir, rec.OutputDir())

	data, err := os.ReadFile(filepath.Join(outputDir, config.SnapshotName))
	require.NoError(t, err)

	var restored config.Experiment
	require.NoError(t, yaml.Unmarshal(data, &restored))
	assert.Equal(t, "chain", restored.Environment.Type)
	assert.Equal(t, "random", restored.Agent.Type)
	assert.Equal(t, "basic", restored.Trainer.Type)
	assert.Equal(t, int64(11), restored.Seed)
}

func TestInitializeTwiceFails(t *testing.T) {
	rec := New(zerolog.Nop())
	require.NoError(t, rec.Initialize(t.TempDir(), "dojo", testExperiment()))
	defer rec.Close()

	assert.Error(t, rec.Initialize(t.TempDir(), "dojo", testExperiment()))
}

func TestRecordAppendsCSVRows(t *testing.T) {
	outputDir := t.TempDir()
	rec := New(zerolog.Nop())
	require.NoError(t, rec.Initialize(outputDir, "dojo", testExperiment()))

	require.NoError(t, rec.Record(map[string]float64{"step": 1, "episode_return": 0.5}))
	require.NoError(t, rec.Record(map[string]float64{"step": 2, "episode_return": 1}))
	require.NoError(t, rec.Close())

	data, err := os.ReadFile(filepath.Join(outputDir, MetricsName))
	require.NoError(t, err)
	assert.Equal(t, "episode_return,step\n0.5,1\n1,2\n", string(data))
}

func TestRecordBeforeInitializeFails(t *testing.T) {
	rec := New(zerolog.Nop())
	assert.Error(t, rec.Record(map[string]float64{"step": 1}))
}

func TestCloseWithoutInitializeIsNoop(t *testing.T) {
	assert.NoError(t, New(zerolog.Nop()).Close())
}

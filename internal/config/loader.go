package config

import (
	"fmt"
	"os"

	"github.com/spf13/viper"
)

// Loader handles experiment configuration loading.
type Loader struct {
	configPath string
}

// NewLoader creates a new experiment loader.
func NewLoader(configPath string) *Loader {
	return &Loader{
		configPath: configPath,
	}
}

// Load loads the experiment description from file, layered with
// DOJO_-prefixed environment variables. A missing path yields the
// defaults so flags alone can describe a run.
func (l *Loader) Load() (*Experiment, error) {
	exp := Default()
	if l.configPath == "" {
		return exp, nil
	}

	if _, err := os.Stat(l.configPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("experiment file not found: %s", l.configPath)
	}

	v := viper.New()
	v.SetConfigFile(l.configPath)
	v.SetConfigType("yaml")

	v.SetEnvPrefix("DOJO")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read experiment file: %w", err)
	}

	if err := v.Unmarshal(exp); err != nil {
		return nil, fmt.Errorf("failed to unmarshal experiment: %w", err)
	}

	return exp, nil
}

// Load is a convenience function that creates a loader and loads the
// experiment.
func Load(configPath string) (*Experiment, error) {
	return NewLoader(configPath).Load()
}

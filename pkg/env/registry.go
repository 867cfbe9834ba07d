package env

import (
	"fmt"
	"sync"

	"github.com/dojo-rl/dojo/internal/config"
)

// Builder constructs an environment from descriptor arguments.
type Builder func(args map[string]any) (Environment, error)

var (
	registryMu sync.RWMutex
	registry   = make(map[string]Builder)
)

// Register registers an environment builder under a type name.
// Registering a duplicate name panics; registration happens at init
// time and a collision is a programming error.
func Register(name string, builder Builder) {
	registryMu.Lock()
	defer registryMu.Unlock()

	if _, exists := registry[name]; exists {
		panic(fmt.Sprintf("env: type %q already registered", name))
	}
	registry[name] = builder
}

// Build resolves a descriptor into an environment instance.
func Build(desc config.Descriptor) (Environment, error) {
	registryMu.RLock()
	builder, exists := registry[desc.Type]
	registryMu.RUnlock()

	if !exists {
		return nil, fmt.Errorf("unknown environment type %q", desc.Type)
	}

	environment, err := builder(desc.Args)
	if err != nil {
		return nil, fmt.Errorf("failed to build environment %q: %w", desc.Type, err)
	}
	return environment, nil
}

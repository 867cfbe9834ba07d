package agent

import (
	"fmt"
	"sync"

	"github.com/dojo-rl/dojo/internal/config"
)

// Builder constructs an agent from descriptor arguments.
type Builder func(args map[string]any) (Agent, error)

var (
	registryMu sync.RWMutex
	registry   = make(map[string]Builder)
)

// Register registers an agent builder under a type name. Duplicate
// registration panics.
func Register(name string, builder Builder) {
	registryMu.Lock()
	defer registryMu.Unlock()

	if _, exists := registry[name]; exists {
		panic(fmt.Sprintf("agent: type %q already registered", name))
	}
	registry[name] = builder
}

// Build resolves a descriptor into an agent instance.
func Build(desc config.Descriptor) (Agent, error) {
	registryMu.RLock()
	builder, exists := registry[desc.Type]
	registryMu.RUnlock()

	if !exists {
		return nil, fmt.Errorf("unknown agent type %q", desc.Type)
	}

	instance, err := builder(desc.Args)
	if err != nil {
		return nil, fmt.Errorf("failed to build agent %q: %w", desc.Type, err)
	}
	return instance, nil
}

// Package trainer defines the trainer capability and its registry.
package trainer

import (
	"fmt"
	"sync"

	"github.com/dojo-rl/dojo/internal/config"
	"github.com/dojo-rl/dojo/pkg/agent"
	"github.com/dojo-rl/dojo/pkg/env"
)

// Trainer is the capability constructed from a trainer descriptor.
// Initialize wires the assembled agent and environments; Run blocks
// for the duration of training.
type Trainer interface {
	Initialize(a agent.Agent, environment, testEnvironment env.Environment) error
	Run() error
}

// Builder constructs a trainer from descriptor arguments.
type Builder func(args map[string]any) (Trainer, error)

var (
	registryMu sync.RWMutex
	registry   = make(map[string]Builder)
)

// Register registers a trainer builder under a type name. Duplicate
// registration panics.
func Register(name string, builder Builder) {
	registryMu.Lock()
	defer registryMu.Unlock()

	if _, exists := registry[name]; exists {
		panic(fmt.Sprintf("trainer: type %q already registered", name))
	}
	registry[name] = builder
}

// Build resolves a descriptor into a trainer instance.
func Build(desc config.Descriptor) (Trainer, error) {
	registryMu.RLock()
	builder, exists := registry[desc.Type]
	registryMu.RUnlock()

	if !exists {
		return nil, fmt.Errorf("unknown trainer type %q", desc.Type)
	}

	instance, err := builder(desc.Args)
	if err != nil {
		return nil, fmt.Errorf("failed to build trainer %q: %w", desc.Type, err)
	}
	return instance, nil
}

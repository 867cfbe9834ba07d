// Package agent defines the agent capability and its registry.
package agent

import (
	"github.com/dojo-rl/dojo/pkg/env"
)

// Agent is the capability constructed from an agent descriptor.
// Initialize must be called with the training environment's spaces
// before any other operation.
type Agent interface {
	Initialize(observationSpace, actionSpace env.Space, seed int64) error

	// Act selects an action for an observation.
	Act(obs env.Observation) (int, error)

	// Load restores weights from a checkpoint directory; it fails on
	// an unreadable or incompatible checkpoint.
	Load(path string) error

	// Save persists weights into a checkpoint directory.
	Save(path string) error
}

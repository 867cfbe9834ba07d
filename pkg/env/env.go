// Package env defines the environment capability and the distribution
// strategy that unifies parallel replicas behind one interface.
package env

// SpaceKind discriminates observation/action space shapes.
type SpaceKind string

const (
	// SpaceDiscrete is a space of n distinct values.
	SpaceDiscrete SpaceKind = "discrete"
	// SpaceBox is a real-valued vector space.
	SpaceBox SpaceKind = "box"
)

// Space describes an observation or action space.
type Space struct {
	Kind SpaceKind
	// N is the cardinality of a discrete space.
	N int
	// Shape is the dimensionality of a box space.
	Shape []int
}

// Discrete returns a discrete space of n values.
func Discrete(n int) Space {
	return Space{Kind: SpaceDiscrete, N: n}
}

// Box returns a real-valued vector space with the given shape.
func Box(shape ...int) Space {
	return Space{Kind: SpaceBox, Shape: shape}
}

// Observation is a flat feature vector.
type Observation []float64

// StepResult is the outcome of one environment transition.
type StepResult struct {
	Observation Observation
	Reward      float64
	Done        bool
}

// Environment is the capability constructed from an environment
// descriptor. Initialize must be called before Reset or Step and
// blocks until every underlying replica is ready.
type Environment interface {
	ObservationSpace() Space
	ActionSpace() Space
	Initialize(seed int64) error
	Reset() (Observation, error)
	Step(action int) (StepResult, error)
}

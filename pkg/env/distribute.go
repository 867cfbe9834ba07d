package env

import (
	"errors"
	"fmt"
	"sync"
)

// Distribute constructs parallel x sequential environment replicas
// unified behind a single Environment. With parallel = sequential = 1
// the single instance is returned directly, with no wrapper between
// the caller and the environment.
func Distribute(build func() (Environment, error), parallel, sequential int) (Environment, error) {
	if parallel < 1 || sequential < 1 {
		return nil, fmt.Errorf("parallel and sequential must be >= 1, got %d x %d", parallel, sequential)
	}

	if parallel == 1 && sequential == 1 {
		return build()
	}

	workers := make([][]Environment, parallel)
	for w := range workers {
		workers[w] = make([]Environment, sequential)
		for s := range workers[w] {
			replica, err := build()
			if err != nil {
				return nil, fmt.Errorf("failed to build replica %d/%d: %w", w, s, err)
			}
			workers[w][s] = replica
		}
	}

	return &distributed{
		workers:    workers,
		sequential: sequential,
	}, nil
}

// distributed fans Initialize out to one goroutine per worker and
// serves episodes round-robin across replicas.
type distributed struct {
	workers    [][]Environment
	sequential int

	mu     sync.Mutex
	cursor int
}

func (d *distributed) ObservationSpace() Space {
	return d.workers[0][0].ObservationSpace()
}

func (d *distributed) ActionSpace() Space {
	return d.workers[0][0].ActionSpace()
}

// Initialize seeds every replica with a distinct offset of the base
// seed and blocks until all workers are ready.
func (d *distributed) Initialize(seed int64) error {
	var wg sync.WaitGroup
	errs := make([]error, len(d.workers))

	for w, group := range d.workers {
		wg.Add(1)
		go func(w int, group []Environment) {
			defer wg.Done()
			for s, replica := range group {
				offset := int64(w*d.sequential + s)
				if err := replica.Initialize(seed + offset); err != nil {
					errs[w] = fmt.Errorf("worker %d replica %d: %w", w, s, err)
					return
				}
			}
		}(w, group)
	}
	wg.Wait()

	return errors.Join(errs...)
}

func (d *distributed) Reset() (Observation, error) {
	d.mu.Lock()
	d.cursor = (d.cursor + 1) % (len(d.workers) * d.sequential)
	replica := d.current()
	d.mu.Unlock()
	return replica.Reset()
}

func (d *distributed) Step(action int) (StepResult, error) {
	d.mu.Lock()
	replica := d.current()
	d.mu.Unlock()
	return replica.Step(action)
}

func (d *distributed) current() Environment {
	return d.workers[d.cursor/d.sequential][d.cursor%d.sequential]
}

package plug

import (
	"context"
	"fmt"
	"log/slog"
)

// Pipeline is a named, ordered sequence of steps. Immutable after
// construction; composing pipelines concatenates their step sequences.
type Pipeline struct {
	name  string
	steps []Step
}

// NewPipeline validates the step list and returns an immutable pipeline.
func NewPipeline(name string, steps ...Step) (*Pipeline, error) {
	if name == "" {
		return nil, fmt.Errorf("pipeline name cannot be empty")
	}
	for i, s := range steps {
		if s == nil {
			return nil, fmt.Errorf("pipeline %s: step %d is nil", name, i)
		}
	}
	p := &Pipeline{name: name, steps: make([]Step, len(steps))}
	copy(p.steps, steps)
	return p, nil
}

// Name returns the pipeline's identifier.
func (p *Pipeline) Name() string { return p.name }

// Steps returns a copy of the step sequence.
func (p *Pipeline) Steps() []Step {
	out := make([]Step, len(p.steps))
	copy(out, p.steps)
	return out
}

// Run executes each step in order, reassigning the exchange to each step's
// return value. The runner is the sole enforcer of the short-circuit
// guarantee: as soon as the exchange is halted, no further step executes.
// Step failures wrap into *StepError and propagate; they are not swallowed.
func (p *Pipeline) Run(ctx context.Context, ex *Exchange) (*Exchange, error) {
	current := ex
	for _, s := range p.steps {
		if current.Halted() {
			break
		}

		next, err := s.Call(ctx, current)
		if err != nil {
			return current, &StepError{Pipeline: p.name, Step: s.Name(), Err: err}
		}
		if next != nil {
			current = next
		}

		slog.Debug("pipeline step completed",
			slog.String("pipeline", p.name),
			slog.String("step", s.Name()),
			slog.Bool("halted", current.Halted()),
		)
	}

	// A step that halts without producing a response breaks the halt
	// contract; surface it rather than letting the entry point write an
	// empty reply.
	if current.Halted() && current.Response() == nil {
		return current, &HaltError{Pipeline: p.name}
	}

	return current, nil
}

// Combine concatenates the step sequences of the given pipelines, in order,
// into a new pipeline with the given name.
func Combine(name string, pipelines ...*Pipeline) *Pipeline {
	var steps []Step
	for _, p := range pipelines {
		if p == nil {
			continue
		}
		steps = append(steps, p.steps...)
	}
	return &Pipeline{name: name, steps: steps}
}

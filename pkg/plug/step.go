package plug

import "context"

// Step is one unit of transformation in a pipeline. Steps are stateless
// across invocations; per-request state lives only in Exchange assigns.
// Options are validated once by the step's constructor at pipeline-build
// time, never per request.
type Step interface {
	// Name returns the identifier used in logs and errors.
	Name() string

	// Call transforms the exchange. It may read prior assigns, attach new
	// ones, or halt with a response. Expected collaborator failures are
	// converted into halts deliberately; unexpected failures are returned
	// and propagate out of the pipeline run.
	Call(ctx context.Context, ex *Exchange) (*Exchange, error)
}

type funcStep struct {
	name string
	fn   func(ctx context.Context, ex *Exchange) (*Exchange, error)
}

func (s funcStep) Name() string { return s.name }

func (s funcStep) Call(ctx context.Context, ex *Exchange) (*Exchange, error) {
	return s.fn(ctx, ex)
}

// StepFunc adapts a plain function into a named Step.
func StepFunc(name string, fn func(ctx context.Context, ex *Exchange) (*Exchange, error)) Step {
	return funcStep{name: name, fn: fn}
}

package plug

import (
	"errors"
	"fmt"
)

// StepError wraps an unexpected failure raised by a step. It propagates out
// of Pipeline.Run so the entry point can convert it into a 500-equivalent
// response for this exchange only.
type StepError struct {
	Pipeline string
	Step     string
	Err      error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("pipeline %s: step %s: %v", e.Pipeline, e.Step, e.Err)
}

func (e *StepError) Unwrap() error { return e.Err }

// HaltError reports a step that halted the exchange without setting a
// response, which violates the halt contract.
type HaltError struct {
	Pipeline string
}

func (e *HaltError) Error() string {
	return fmt.Sprintf("pipeline %s: exchange halted without a response", e.Pipeline)
}

// UnhandledResultError reports a tagged result that no fallback clause
// matched. This is a programming or configuration error; it fails the single
// exchange loudly rather than defaulting.
type UnhandledResultError struct {
	Result Result
}

func (e *UnhandledResultError) Error() string {
	return fmt.Sprintf("no fallback clause matches result %s", e.Result)
}

// IsUnhandledResult reports whether err is an UnhandledResultError.
func IsUnhandledResult(err error) bool {
	var ure *UnhandledResultError
	return errors.As(err, &ure)
}

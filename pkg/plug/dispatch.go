package plug

import (
	"context"
	"fmt"
)

// Outcome is what an action produces: either a finalized exchange, or a
// tagged result the dispatcher hands to the fallback table.
type Outcome struct {
	ex  *Exchange
	res Result
}

// Finalized wraps an exchange the action has already finalized (response set
// or view attached).
func Finalized(ex *Exchange) Outcome {
	return Outcome{ex: ex}
}

// Tagged wraps a result for fallback resolution.
func Tagged(res Result) Outcome {
	return Outcome{res: res}
}

// Action is the two-argument action shape: (exchange, params).
type Action func(ctx context.Context, ex *Exchange, params Params) Outcome

// ActorAction additionally receives the current actor resolved from the
// exchange assigns (nil when absent).
type ActorAction func(ctx context.Context, ex *Exchange, params Params, actor any) Outcome

// DefaultActorKey is the assign the dispatcher reads the current actor from.
const DefaultActorKey = "current_user"

// Dispatcher invokes matched actions and resolves their tagged results
// against a fallback table.
type Dispatcher struct {
	fallback *Table
	actorKey string
}

// DispatcherOption configures a Dispatcher.
type DispatcherOption func(*Dispatcher)

// WithActorKey overrides the assign key the actor is resolved from.
func WithActorKey(key string) DispatcherOption {
	return func(d *Dispatcher) { d.actorKey = key }
}

// NewDispatcher creates a dispatcher backed by the given fallback table.
func NewDispatcher(fallback *Table, opts ...DispatcherOption) *Dispatcher {
	d := &Dispatcher{fallback: fallback, actorKey: DefaultActorKey}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Dispatch invokes the action with the exchange and its params. When the
// pipeline leading here already halted, the action is not invoked and the
// exchange passes through unchanged. Actions may be either arity: plain
// (exchange, params) or (exchange, params, actor).
func (d *Dispatcher) Dispatch(ctx context.Context, ex *Exchange, action any) (*Exchange, error) {
	if ex.Halted() {
		return ex, nil
	}

	var out Outcome
	switch a := action.(type) {
	case Action:
		out = a(ctx, ex, ex.Params())
	case func(context.Context, *Exchange, Params) Outcome:
		out = a(ctx, ex, ex.Params())
	case ActorAction:
		actor, _ := ex.Assign(d.actorKey)
		out = a(ctx, ex, ex.Params(), actor)
	case func(context.Context, *Exchange, Params, any) Outcome:
		actor, _ := ex.Assign(d.actorKey)
		out = a(ctx, ex, ex.Params(), actor)
	default:
		return ex, fmt.Errorf("unsupported action type %T", action)
	}

	if out.ex != nil {
		if !out.ex.Finalized() {
			return ex, fmt.Errorf("action returned an unfinalized exchange")
		}
		return out.ex, nil
	}
	if out.res.IsZero() {
		return ex, fmt.Errorf("action returned an empty outcome")
	}

	return d.fallback.Resolve(ctx, ex, out.res)
}

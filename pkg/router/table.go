package router

import (
	"errors"
	"fmt"
)

// DuplicateRouteError reports a route whose (method, pattern) shape is
// already registered. The later route would be permanently unreachable, so
// table construction refuses it outright rather than shadowing silently.
type DuplicateRouteError struct {
	Method  string
	Pattern string
}

func (e *DuplicateRouteError) Error() string {
	return fmt.Sprintf("duplicate route %s %s: earlier registration always wins", e.Method, e.Pattern)
}

// Table is the immutable, flattened route table.
type Table struct {
	routes []Route
}

// Build flattens the declared scopes into a table, validating that no route
// shadows an earlier identical one. Build failures are meant to fail fast at
// startup; an ambiguous table is a latent correctness bug.
func (r *Router) Build() (*Table, error) {
	routes, errs := r.root.flatten("", nil)

	seen := make(map[string]bool, len(routes))
	for _, rt := range routes {
		key := rt.Method + " " + shapeOf(rt.Pattern)
		if seen[key] {
			errs = append(errs, &DuplicateRouteError{Method: rt.Method, Pattern: rt.Pattern})
			continue
		}
		seen[key] = true
	}

	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return &Table{routes: routes}, nil
}

// Routes returns a copy of the flattened route list in registration order.
func (t *Table) Routes() []Route {
	out := make([]Route, len(t.routes))
	copy(out, t.routes)
	return out
}

// Resolve returns the first route matching (method, path) in registration
// order, with its captured path parameters. ok is false when nothing
// matches; the entry point turns that into a 404-equivalent response.
func (t *Table) Resolve(method, path string) (*Match, bool) {
	for _, rt := range t.routes {
		if rt.Method != method {
			continue
		}
		if params, ok := matchPattern(rt.Pattern, path); ok {
			return &Match{Route: rt, Params: params}, true
		}
	}
	return nil, false
}

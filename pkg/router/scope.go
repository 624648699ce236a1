package router

import (
	"net/http"

	"github.com/askohn/plugweb/pkg/plug"
)

// Router is the top-level route declaration surface. Declare scopes, then
// Build the immutable table.
type Router struct {
	root *Scope
}

// New returns an empty router.
func New() *Router {
	return &Router{root: &Scope{}}
}

// Scope declares a top-level scope. See Scope.Scope.
func (r *Router) Scope(prefix string, pipelines []*plug.Pipeline, fn func(*Scope)) {
	r.root.Scope(prefix, pipelines, fn)
}

// scopeEntry keeps routes and child scopes in one ordered list so that
// flattening preserves strict declaration order across nesting.
type scopeEntry struct {
	route *Route
	child *Scope
}

// Scope is a path-prefixed, pipeline-attached grouping of routes. Prefixes
// and pipeline lists compose by concatenation across nested scopes. Two
// scopes may legally register overlapping path spaces; resolution stays in
// registration order.
type Scope struct {
	prefix    string
	pipelines []*plug.Pipeline
	entries   []scopeEntry
	errs      []error
}

// Scope declares a nested scope under this one.
func (s *Scope) Scope(prefix string, pipelines []*plug.Pipeline, fn func(*Scope)) {
	child := &Scope{prefix: prefix, pipelines: pipelines}
	s.entries = append(s.entries, scopeEntry{child: child})
	fn(child)
}

// Handle registers a route for an arbitrary method.
func (s *Scope) Handle(method, pattern string, action any) {
	s.entries = append(s.entries, scopeEntry{route: &Route{
		Method:  method,
		Pattern: pattern,
		Action:  action,
	}})
}

// Get registers a GET route.
func (s *Scope) Get(pattern string, action any) { s.Handle(http.MethodGet, pattern, action) }

// Post registers a POST route.
func (s *Scope) Post(pattern string, action any) { s.Handle(http.MethodPost, pattern, action) }

// Put registers a PUT route.
func (s *Scope) Put(pattern string, action any) { s.Handle(http.MethodPut, pattern, action) }

// Patch registers a PATCH route.
func (s *Scope) Patch(pattern string, action any) { s.Handle(http.MethodPatch, pattern, action) }

// Delete registers a DELETE route.
func (s *Scope) Delete(pattern string, action any) { s.Handle(http.MethodDelete, pattern, action) }

// flatten walks the scope tree depth-first in declaration order, producing
// the final route list with concatenated prefixes and pipeline lists.
func (s *Scope) flatten(prefix string, pipelines []*plug.Pipeline) ([]Route, []error) {
	fullPrefix := joinPath(prefix, s.prefix)

	combined := make([]*plug.Pipeline, 0, len(pipelines)+len(s.pipelines))
	combined = append(combined, pipelines...)
	combined = append(combined, s.pipelines...)

	var out []Route
	errs := append([]error(nil), s.errs...)
	for _, e := range s.entries {
		switch {
		case e.route != nil:
			r := *e.route
			r.Pattern = joinPath(fullPrefix, r.Pattern)
			r.Pipelines = combined
			out = append(out, r)
		case e.child != nil:
			routes, childErrs := e.child.flatten(fullPrefix, combined)
			out = append(out, routes...)
			errs = append(errs, childErrs...)
		}
	}
	return out, errs
}

// Package router maps (method, path) pairs onto (pipeline list, action)
// pairs. Routes are declared inside nested scopes whose prefixes and
// pipeline lists concatenate, then flattened into an immutable table that
// resolves strictly in declaration order.
package router

import (
	"strings"

	"github.com/askohn/plugweb/pkg/plug"
)

// Route binds an HTTP method and path pattern to a pipeline list and an
// action. Patterns consist of static segments and named captures (":id").
type Route struct {
	Method    string
	Pattern   string
	Pipelines []*plug.Pipeline
	Action    any
}

// Match is the result of resolving a request against the table.
type Match struct {
	Route  Route
	Params plug.Params
}

// splitPath breaks a path into its non-empty segments.
func splitPath(p string) []string {
	var segs []string
	for _, s := range strings.Split(p, "/") {
		if s != "" {
			segs = append(segs, s)
		}
	}
	return segs
}

// joinPath concatenates a scope prefix and a pattern into a normalized
// pattern rooted at "/".
func joinPath(prefix, pattern string) string {
	segs := append(splitPath(prefix), splitPath(pattern)...)
	if len(segs) == 0 {
		return "/"
	}
	return "/" + strings.Join(segs, "/")
}

// matchPattern matches a concrete request path against a pattern, returning
// the named captures on success.
func matchPattern(pattern, path string) (plug.Params, bool) {
	ps := splitPath(pattern)
	xs := splitPath(path)
	if len(ps) != len(xs) {
		return nil, false
	}

	params := plug.Params{}
	for i, seg := range ps {
		if strings.HasPrefix(seg, ":") {
			params[seg[1:]] = xs[i]
			continue
		}
		if seg != xs[i] {
			return nil, false
		}
	}
	return params, true
}

// shapeOf normalizes a pattern for duplicate detection: capture names do not
// distinguish patterns, so "/posts/:id" and "/posts/:slug" shadow each other.
func shapeOf(pattern string) string {
	segs := splitPath(pattern)
	for i, s := range segs {
		if strings.HasPrefix(s, ":") {
			segs[i] = ":"
		}
	}
	return "/" + strings.Join(segs, "/")
}

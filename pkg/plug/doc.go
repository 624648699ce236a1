// Package plug implements a small middleware pipeline kernel for HTTP-facing
// applications: an Exchange value threaded through an ordered chain of Steps,
// cooperative halting, action dispatch, and ordered fallback resolution that
// translates tagged action results into responses.
//
// The package is transport-agnostic. An entry point (see internal/server)
// constructs an Exchange from an inbound request, resolves a route, runs the
// route's pipeline, dispatches the action, and writes the finalized response
// back out. Everything in between is plain sequential function composition
// over the Exchange value; there is no hidden global state.
package plug

package plug

import (
	"context"
	"fmt"
)

// Handler converts a tagged result into a finalized exchange.
type Handler func(ctx context.Context, ex *Exchange, res Result) (*Exchange, error)

type clause struct {
	label string
	match func(Result) bool
	fn    Handler
}

// Table is an ordered fallback table: (pattern, handler) pairs scanned in
// declaration order. More specific clauses should precede general ones;
// the first structural match wins and later clauses are never consulted.
type Table struct {
	clauses []clause
}

// NewTable returns an empty fallback table.
func NewTable() *Table {
	return &Table{}
}

// OnError appends a clause matching error results with the given reason.
func (t *Table) OnError(reason string, fn Handler) *Table {
	return t.on(fmt.Sprintf("error(%s)", reason), func(r Result) bool {
		return r.Kind == KindError && r.Reason == reason
	}, fn)
}

// OnOk appends a clause matching any ok result.
func (t *Table) OnOk(fn Handler) *Table {
	return t.on("ok", func(r Result) bool { return r.Kind == KindOK }, fn)
}

// On appends a clause with an arbitrary structural predicate.
func (t *Table) On(label string, match func(Result) bool, fn Handler) *Table {
	return t.on(label, match, fn)
}

func (t *Table) on(label string, match func(Result) bool, fn Handler) *Table {
	t.clauses = append(t.clauses, clause{label: label, match: match, fn: fn})
	return t
}

// Resolve scans the table in order and invokes the first matching clause's
// handler, which must return a finalized exchange. When nothing matches, the
// result is a programming error and resolution fails with
// *UnhandledResultError; it never defaults silently.
func (t *Table) Resolve(ctx context.Context, ex *Exchange, res Result) (*Exchange, error) {
	for _, c := range t.clauses {
		if !c.match(res) {
			continue
		}

		out, err := c.fn(ctx, ex, res)
		if err != nil {
			return ex, fmt.Errorf("fallback clause %s: %w", c.label, err)
		}
		if out == nil || !out.Finalized() {
			return ex, fmt.Errorf("fallback clause %s returned an unfinalized exchange for %s", c.label, res)
		}
		return out, nil
	}

	return ex, &UnhandledResultError{Result: res}
}

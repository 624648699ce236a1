package plug

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func render404(ctx context.Context, ex *Exchange, res Result) (*Exchange, error) {
	return ex.RespondText(http.StatusNotFound, "not found"), nil
}

func render403(ctx context.Context, ex *Exchange, res Result) (*Exchange, error) {
	return ex.RespondText(http.StatusForbidden, "forbidden"), nil
}

func TestFallbackFirstMatchWins(t *testing.T) {
	var hits []string
	tbl := NewTable().
		OnError(ReasonNotFound, func(ctx context.Context, ex *Exchange, res Result) (*Exchange, error) {
			hits = append(hits, "specific")
			return ex.RespondText(http.StatusNotFound, "not found"), nil
		}).
		On("any error", func(r Result) bool { return r.IsError() }, func(ctx context.Context, ex *Exchange, res Result) (*Exchange, error) {
			hits = append(hits, "general")
			return ex.RespondText(http.StatusInternalServerError, "oops"), nil
		})

	ex, err := tbl.Resolve(context.Background(), NewExchange("GET", "/", nil), ErrorResult(ReasonNotFound))
	require.NoError(t, err)
	assert.Equal(t, []string{"specific"}, hits, "later matching clauses must not be consulted")
	assert.Equal(t, http.StatusNotFound, ex.Response().Status)
}

func TestFallbackUnhandledResult(t *testing.T) {
	tbl := NewTable().
		OnError(ReasonNotFound, render404).
		OnError(ReasonUnauthorized, render403)

	_, err := tbl.Resolve(context.Background(), NewExchange("GET", "/", nil), ErrorResult("rate_limited"))
	require.Error(t, err)
	assert.True(t, IsUnhandledResult(err))

	var ure *UnhandledResultError
	require.ErrorAs(t, err, &ure)
	assert.Equal(t, "rate_limited", ure.Result.Reason)
}

func TestFallbackRejectsUnfinalizedHandler(t *testing.T) {
	tbl := NewTable().OnOk(func(ctx context.Context, ex *Exchange, res Result) (*Exchange, error) {
		return ex, nil // never finalizes
	})

	_, err := tbl.Resolve(context.Background(), NewExchange("GET", "/", nil), Ok(nil))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unfinalized")
}

func TestDispatchNotFoundThroughFallback(t *testing.T) {
	tbl := NewTable().
		OnError(ReasonNotFound, render404).
		OnError(ReasonUnauthorized, render403)
	d := NewDispatcher(tbl)

	show := Action(func(ctx context.Context, ex *Exchange, params Params) Outcome {
		return Tagged(ErrorResult(ReasonNotFound))
	})

	ex, err := d.Dispatch(context.Background(), NewExchange("GET", "/posts/9", Params{"id": "9"}), show)
	require.NoError(t, err)
	require.NotNil(t, ex.Response())
	assert.Equal(t, http.StatusNotFound, ex.Response().Status)
}

func TestDispatchSkipsHaltedExchange(t *testing.T) {
	called := false
	action := Action(func(ctx context.Context, ex *Exchange, params Params) Outcome {
		called = true
		return Finalized(ex.RespondText(http.StatusOK, "ok"))
	})

	halted := NewExchange("GET", "/", nil).RespondText(http.StatusFound, "").Halt()
	d := NewDispatcher(NewTable())

	ex, err := d.Dispatch(context.Background(), halted, action)
	require.NoError(t, err)
	assert.False(t, called, "dispatch must not invoke the action after a halt")
	assert.Same(t, halted, ex)
}

func TestDispatchActorArity(t *testing.T) {
	type user struct{ Name string }

	var got any
	action := ActorAction(func(ctx context.Context, ex *Exchange, params Params, actor any) Outcome {
		got = actor
		return Finalized(ex.RespondText(http.StatusOK, "ok"))
	})

	ex := NewExchange("GET", "/", nil).PutAssign(DefaultActorKey, user{Name: "ada"})
	d := NewDispatcher(NewTable())

	_, err := d.Dispatch(context.Background(), ex, action)
	require.NoError(t, err)
	assert.Equal(t, user{Name: "ada"}, got)
}

func TestDispatchPlainFuncShapes(t *testing.T) {
	d := NewDispatcher(NewTable())

	ex, err := d.Dispatch(context.Background(), NewExchange("GET", "/", nil),
		func(ctx context.Context, ex *Exchange, params Params) Outcome {
			return Finalized(ex.RespondText(http.StatusOK, "plain"))
		})
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, ex.Response().Status)

	_, err = d.Dispatch(context.Background(), NewExchange("GET", "/", nil), "not an action")
	require.Error(t, err)
}

func TestDispatchRejectsUnfinalizedAction(t *testing.T) {
	d := NewDispatcher(NewTable())
	_, err := d.Dispatch(context.Background(), NewExchange("GET", "/", nil),
		Action(func(ctx context.Context, ex *Exchange, params Params) Outcome {
			return Finalized(ex)
		}))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unfinalized")
}

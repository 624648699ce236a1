package plug

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordStep appends its name to a shared trace so tests can assert ordering
// and short-circuiting.
func recordStep(name string, trace *[]string) Step {
	return StepFunc(name, func(ctx context.Context, ex *Exchange) (*Exchange, error) {
		*trace = append(*trace, name)
		return ex, nil
	})
}

func haltStep(name string) Step {
	return StepFunc(name, func(ctx context.Context, ex *Exchange) (*Exchange, error) {
		return ex.RespondText(http.StatusForbidden, "stop").Halt(), nil
	})
}

func TestNewPipelineValidation(t *testing.T) {
	_, err := NewPipeline("")
	require.Error(t, err)

	_, err = NewPipeline("browser", nil)
	require.Error(t, err)

	p, err := NewPipeline("browser", haltStep("halt"))
	require.NoError(t, err)
	assert.Equal(t, "browser", p.Name())
	assert.Len(t, p.Steps(), 1)
}

func TestRunExecutesStepsInOrder(t *testing.T) {
	var trace []string
	p, err := NewPipeline("browser",
		recordStep("one", &trace),
		recordStep("two", &trace),
		recordStep("three", &trace),
	)
	require.NoError(t, err)

	ex, err := p.Run(context.Background(), NewExchange("GET", "/", nil))
	require.NoError(t, err)
	assert.Equal(t, []string{"one", "two", "three"}, trace)
	assert.False(t, ex.Halted())
}

func TestRunShortCircuitsOnHalt(t *testing.T) {
	var trace []string
	p, err := NewPipeline("browser",
		recordStep("before", &trace),
		haltStep("halt"),
		recordStep("after", &trace),
	)
	require.NoError(t, err)

	ex, err := p.Run(context.Background(), NewExchange("GET", "/", nil))
	require.NoError(t, err)

	assert.Equal(t, []string{"before"}, trace, "no step after the halt may run")
	assert.True(t, ex.Halted())
	require.NotNil(t, ex.Response())
	assert.Equal(t, http.StatusForbidden, ex.Response().Status)
}

func TestRunHaltWithoutResponseIsContractViolation(t *testing.T) {
	bad := StepFunc("bad_halt", func(ctx context.Context, ex *Exchange) (*Exchange, error) {
		return ex.Halt(), nil
	})
	p, err := NewPipeline("browser", bad)
	require.NoError(t, err)

	_, err = p.Run(context.Background(), NewExchange("GET", "/", nil))
	var he *HaltError
	require.ErrorAs(t, err, &he)
	assert.Equal(t, "browser", he.Pipeline)
}

func TestRunPropagatesStepFailure(t *testing.T) {
	boom := errors.New("store unavailable")
	failing := StepFunc("lookup", func(ctx context.Context, ex *Exchange) (*Exchange, error) {
		return nil, boom
	})

	var trace []string
	p, err := NewPipeline("api", recordStep("first", &trace), failing, recordStep("last", &trace))
	require.NoError(t, err)

	_, err = p.Run(context.Background(), NewExchange("GET", "/", nil))
	var se *StepError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, "api", se.Pipeline)
	assert.Equal(t, "lookup", se.Step)
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, []string{"first"}, trace)
}

func TestCombineConcatenatesInOrder(t *testing.T) {
	var trace []string
	a, err := NewPipeline("a", recordStep("a1", &trace), recordStep("a2", &trace))
	require.NoError(t, err)
	b, err := NewPipeline("b", recordStep("b1", &trace))
	require.NoError(t, err)

	combined := Combine("a+b", a, nil, b)
	_, err = combined.Run(context.Background(), NewExchange("GET", "/", nil))
	require.NoError(t, err)
	assert.Equal(t, []string{"a1", "a2", "b1"}, trace)
}

func TestExchangeAssignsAndFlash(t *testing.T) {
	ex := NewExchange("GET", "/posts/1", Params{"id": "1"})
	assert.Equal(t, "1", ex.Param("id"))
	assert.Equal(t, "", ex.Param("missing"))

	ex.PutAssign("locale", "fr").PutFlash("error", "nope")

	v, ok := ex.Assign("locale")
	require.True(t, ok)
	assert.Equal(t, "fr", v)

	msg, ok := ex.Flash("error")
	require.True(t, ok)
	assert.Equal(t, "nope", msg)
}

func TestExchangeFinalized(t *testing.T) {
	ex := NewExchange("GET", "/", nil)
	assert.False(t, ex.Finalized())

	ex.Render("home", map[string]any{"title": "Home"})
	assert.True(t, ex.Finalized(), "a pending view counts as finalized")

	ex2 := NewExchange("GET", "/", nil).Redirect("/login", http.StatusFound)
	assert.True(t, ex2.Finalized())
	assert.Equal(t, "/login", ex2.Response().Header.Get("Location"))
}

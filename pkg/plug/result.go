package plug

import "fmt"

// Kind is the top-level tag of a Result.
type Kind string

const (
	// KindOK tags a successful result, optionally carrying a payload.
	KindOK Kind = "ok"
	// KindError tags a failed result with a reason code.
	KindError Kind = "error"
)

// Conventional reason codes shared by actions and fallback tables. Actions
// are free to use their own codes; these cover the common HTTP translations.
const (
	ReasonNotFound     = "not_found"
	ReasonUnauthorized = "unauthorized"
	ReasonForbidden    = "forbidden"
	ReasonInvalid      = "invalid"
)

// Result is a tagged action outcome: a closed sum over KindOK and KindError
// with a reason code and an optional payload. The fallback table matches
// results structurally, in declaration order.
type Result struct {
	Kind    Kind
	Reason  string
	Payload any
}

// Ok returns a success result carrying the given payload.
func Ok(payload any) Result {
	return Result{Kind: KindOK, Payload: payload}
}

// ErrorResult returns a failure result with the given reason code.
func ErrorResult(reason string) Result {
	return Result{Kind: KindError, Reason: reason}
}

// ErrorWith returns a failure result with a reason code and payload,
// typically validation details.
func ErrorWith(reason string, payload any) Result {
	return Result{Kind: KindError, Reason: reason, Payload: payload}
}

// IsOK reports whether the result is tagged ok.
func (r Result) IsOK() bool { return r.Kind == KindOK }

// IsError reports whether the result is tagged error.
func (r Result) IsError() bool { return r.Kind == KindError }

// IsZero reports whether the result carries no tag at all.
func (r Result) IsZero() bool { return r.Kind == "" }

func (r Result) String() string {
	if r.Reason != "" {
		return fmt.Sprintf("%s(%s)", r.Kind, r.Reason)
	}
	return string(r.Kind)
}

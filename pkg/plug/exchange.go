package plug

import (
	"net/http"
)

// Params holds the request parameters for one exchange, merged from path
// captures, the query string, and the form body. Read-only for the duration
// of the exchange.
type Params map[string]string

// Response is a finalized HTTP response. Once set on an Exchange the
// exchange is terminal.
type Response struct {
	Status int
	Header http.Header
	Body   []byte
}

// View is a deferred render: a template selector plus the variables the
// render collaborator needs to produce a body. Body production itself is
// outside the kernel.
type View struct {
	Template string
	Status   int
	Assigns  map[string]any
}

// Exchange is the per-request state threaded through every Step and the
// action. One exchange belongs to exactly one request; concurrent exchanges
// share nothing through it.
type Exchange struct {
	method string
	path   string
	header http.Header

	params   Params
	assigns  map[string]any
	flash    map[string]string
	halted   bool
	response *Response
	view     *View
}

// NewExchange creates an exchange for one inbound request. The params map is
// copied; callers may not mutate parameters after construction.
func NewExchange(method, path string, params Params) *Exchange {
	p := make(Params, len(params))
	for k, v := range params {
		p[k] = v
	}
	return &Exchange{
		method:  method,
		path:    path,
		header:  make(http.Header),
		params:  p,
		assigns: make(map[string]any),
		flash:   make(map[string]string),
	}
}

// Method returns the HTTP method of the request.
func (e *Exchange) Method() string { return e.method }

// Path returns the request path.
func (e *Exchange) Path() string { return e.path }

// Header returns the request header snapshot. Steps may read it; the entry
// point populates it before the pipeline runs.
func (e *Exchange) Header() http.Header { return e.header }

// Param returns the named request parameter, or "" when absent.
func (e *Exchange) Param(key string) string { return e.params[key] }

// Params returns the parameter map. Treat it as read-only.
func (e *Exchange) Params() Params { return e.params }

// Assign returns a value previously stored with PutAssign.
func (e *Exchange) Assign(key string) (any, bool) {
	v, ok := e.assigns[key]
	return v, ok
}

// PutAssign stores a computed value (current user, fetched resource, locale)
// for later steps and the action. Returns the exchange for chaining.
func (e *Exchange) PutAssign(key string, value any) *Exchange {
	e.assigns[key] = value
	return e
}

// Flash returns the flash message of the given kind, if any.
func (e *Exchange) Flash(kind string) (string, bool) {
	v, ok := e.flash[kind]
	return v, ok
}

// PutFlash records a one-shot user-facing message ("error", "info") for the
// render layer to surface.
func (e *Exchange) PutFlash(kind, message string) *Exchange {
	e.flash[kind] = message
	return e
}

// Flashes returns all flash messages recorded on the exchange.
func (e *Exchange) Flashes() map[string]string { return e.flash }

// Halt marks the exchange halted: no further steps run and the action is not
// invoked. A step that halts must also set a response; the pipeline runner
// enforces that contract.
func (e *Exchange) Halt() *Exchange {
	e.halted = true
	return e
}

// Halted reports whether the exchange has been halted.
func (e *Exchange) Halted() bool { return e.halted }

// Respond sets the finalized response with the given status and body.
func (e *Exchange) Respond(status int, body []byte) *Exchange {
	e.response = &Response{Status: status, Header: make(http.Header), Body: body}
	return e
}

// RespondText sets a text/plain response.
func (e *Exchange) RespondText(status int, body string) *Exchange {
	e.Respond(status, []byte(body))
	e.response.Header.Set("Content-Type", "text/plain; charset=utf-8")
	return e
}

// Redirect sets a redirect response to the given location.
func (e *Exchange) Redirect(location string, status int) *Exchange {
	e.Respond(status, nil)
	e.response.Header.Set("Location", location)
	return e
}

// Render attaches a deferred view with status 200. The render collaborator
// produces the body at the edge of the exchange.
func (e *Exchange) Render(template string, assigns map[string]any) *Exchange {
	return e.RenderStatus(http.StatusOK, template, assigns)
}

// RenderStatus attaches a deferred view with an explicit status code.
func (e *Exchange) RenderStatus(status int, template string, assigns map[string]any) *Exchange {
	e.view = &View{Template: template, Status: status, Assigns: assigns}
	return e
}

// Response returns the finalized response, or nil.
func (e *Exchange) Response() *Response { return e.response }

// View returns the pending deferred view, or nil.
func (e *Exchange) View() *View { return e.view }

// Finalized reports whether the exchange carries a response or a pending
// view. Only the render collaborator remains after a view is attached, so a
// view-pending exchange counts as finalized for dispatch purposes.
func (e *Exchange) Finalized() bool {
	return e.response != nil || e.view != nil
}

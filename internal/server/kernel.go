// Package server is the exchange boundary: it bridges net/http to the plug
// kernel, owns the outer middleware stack, and is the only place a network
// transport is touched.
package server

import (
	"log/slog"
	"net/http"

	"github.com/askohn/plugweb/internal/core/ports"
	"github.com/askohn/plugweb/internal/render"
	"github.com/askohn/plugweb/pkg/plug"
	"github.com/askohn/plugweb/pkg/router"
)

// Kernel runs one exchange end to end: resolve the route, run its pipeline,
// dispatch the action, resolve tagged results, render the pending view, and
// write the response. All broad failures are caught here, per exchange.
type Kernel struct {
	table      *router.Table
	dispatcher *plug.Dispatcher
	renderer   ports.Renderer
	logger     *slog.Logger
}

// NewKernel assembles a kernel from a built route table, a dispatcher, and a
// renderer.
func NewKernel(table *router.Table, dispatcher *plug.Dispatcher, renderer ports.Renderer, logger *slog.Logger) *Kernel {
	if logger == nil {
		logger = slog.Default()
	}
	return &Kernel{table: table, dispatcher: dispatcher, renderer: renderer, logger: logger}
}

var _ http.Handler = (*Kernel)(nil)

func (k *Kernel) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	match, ok := k.table.Resolve(r.Method, r.URL.Path)

	// Query and form parameters first; path captures override on clash.
	params := requestParams(r)
	if ok {
		for key, val := range match.Params {
			params[key] = val
		}
	}
	ex := newExchange(r, params)

	if !ok {
		k.renderStatus(w, r, ex, http.StatusNotFound, "not_found")
		return
	}

	pipeline := plug.Combine("route", match.Route.Pipelines...)
	ex, err := pipeline.Run(ctx, ex)
	if err != nil {
		k.logger.Error("pipeline failure",
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.String("error", err.Error()),
		)
		k.renderStatus(w, r, ex, http.StatusInternalServerError, "server_error")
		return
	}

	if !ex.Halted() {
		ex, err = k.dispatcher.Dispatch(ctx, ex, match.Route.Action)
		if err != nil {
			msg := "dispatch failure"
			if plug.IsUnhandledResult(err) {
				msg = "unhandled action result"
			}
			k.logger.Error(msg,
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.String("error", err.Error()),
			)
			k.renderStatus(w, r, ex, http.StatusInternalServerError, "server_error")
			return
		}
	}

	// A pending view still needs a body from the render collaborator.
	if ex.Response() == nil && ex.View() != nil {
		view := *ex.View()
		body, contentType, err := k.renderer.Render(ctx, ex, view, render.Negotiate(ex))
		if err != nil {
			k.logger.Error("render failure",
				slog.String("view", view.Template),
				slog.String("error", err.Error()),
			)
			k.renderStatus(w, r, ex, http.StatusInternalServerError, "server_error")
			return
		}
		ex.Respond(view.Status, body)
		ex.Response().Header.Set("Content-Type", contentType)
	}

	k.write(w, ex)
}

// requestParams flattens query and form values into the params map, keeping
// the first value of each key.
func requestParams(r *http.Request) plug.Params {
	params := plug.Params{}
	_ = r.ParseForm()
	for key, vals := range r.Form {
		if len(vals) > 0 {
			params[key] = vals[0]
		}
	}
	return params
}

// newExchange builds the exchange for one request, snapshotting the header.
func newExchange(r *http.Request, params plug.Params) *plug.Exchange {
	ex := plug.NewExchange(r.Method, r.URL.Path, params)
	for key, vals := range r.Header {
		for _, v := range vals {
			ex.Header().Add(key, v)
		}
	}
	return ex
}

// renderStatus writes an error page through the renderer, falling back to
// plain text when rendering itself fails.
func (k *Kernel) renderStatus(w http.ResponseWriter, r *http.Request, ex *plug.Exchange, status int, template string) {
	view := plug.View{Template: template, Status: status}
	body, contentType, err := k.renderer.Render(r.Context(), ex, view, render.Negotiate(ex))
	if err != nil {
		http.Error(w, http.StatusText(status), status)
		return
	}
	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(status)
	w.Write(body)
}

func (k *Kernel) write(w http.ResponseWriter, ex *plug.Exchange) {
	resp := ex.Response()
	if resp == nil {
		// The action neither responded nor rendered. Programming error.
		k.logger.Error("exchange finished without a response", slog.String("path", ex.Path()))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	for key, vals := range resp.Header {
		for _, v := range vals {
			w.Header().Add(key, v)
		}
	}
	w.WriteHeader(resp.Status)
	if len(resp.Body) > 0 {
		w.Write(resp.Body)
	}
}

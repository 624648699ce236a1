package blog

import (
	"context"
	"fmt"
	"net/http"

	"github.com/askohn/plugweb/internal/core/ports"
	"github.com/askohn/plugweb/internal/steps"
	"github.com/askohn/plugweb/pkg/plug"
	"github.com/askohn/plugweb/pkg/router"
)

// Deps are the collaborators the route table needs.
type Deps struct {
	Store ports.PostStore
	Auth  ports.Authenticator
	Authz ports.Authorizer

	DefaultLocale  string
	AllowedLocales []string
	// AuthRedirectTo is where unauthenticated admin requests are sent.
	AuthRedirectTo string
}

// NewFallback builds the application's fallback table: the single place
// tagged action results become HTTP semantics.
func NewFallback() *plug.Table {
	return plug.NewTable().
		OnError(plug.ReasonNotFound, func(ctx context.Context, ex *plug.Exchange, res plug.Result) (*plug.Exchange, error) {
			return ex.RenderStatus(http.StatusNotFound, "not_found", nil), nil
		}).
		OnError(plug.ReasonUnauthorized, func(ctx context.Context, ex *plug.Exchange, res plug.Result) (*plug.Exchange, error) {
			return ex.RenderStatus(http.StatusForbidden, "forbidden", nil), nil
		}).
		OnError(plug.ReasonInvalid, func(ctx context.Context, ex *plug.Exchange, res plug.Result) (*plug.Exchange, error) {
			reason, _ := res.Payload.(string)
			return ex.RenderStatus(http.StatusUnprocessableEntity, "invalid", map[string]any{"reason": reason}), nil
		}).
		OnError(ReasonInternal, func(ctx context.Context, ex *plug.Exchange, res plug.Result) (*plug.Exchange, error) {
			return ex.RenderStatus(http.StatusInternalServerError, "server_error", nil), nil
		})
}

// NewRouter declares the application's routes: public pages and posts under
// the browser pipeline, the management surface under browser plus admin.
func NewRouter(deps Deps) (*router.Table, *plug.Dispatcher, error) {
	locale, err := steps.Locale(steps.LocaleOptions{
		Default: deps.DefaultLocale,
		Allowed: deps.AllowedLocales,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("build locale step: %w", err)
	}
	requireUser, err := steps.RequireUser(deps.Auth, deps.AuthRedirectTo)
	if err != nil {
		return nil, nil, fmt.Errorf("build require_user step: %w", err)
	}
	authorize, err := steps.Authorize(deps.Authz, "")
	if err != nil {
		return nil, nil, fmt.Errorf("build authorize step: %w", err)
	}

	browser, err := plug.NewPipeline("browser", locale)
	if err != nil {
		return nil, nil, err
	}
	admin, err := plug.NewPipeline("admin", requireUser, authorize)
	if err != nil {
		return nil, nil, err
	}

	pages := PageController{}
	posts := NewPostController(deps.Store, deps.Authz)

	r := router.New()
	r.Scope("/", []*plug.Pipeline{browser}, func(s *router.Scope) {
		s.Get("/", pages.Home)
		s.Get("/about", pages.About)

		s.Resources("/posts", router.ResourceActions{
			Index: posts.Index,
			Show:  posts.Show,
		}, router.Only(router.ActionIndex, router.ActionShow))

		s.Scope("/admin", []*plug.Pipeline{admin}, func(s *router.Scope) {
			s.Resources("/posts", router.ResourceActions{
				New:    posts.New,
				Create: posts.Create,
				Edit:   posts.Edit,
				Update: posts.Update,
				Delete: posts.Delete,
			}, router.Except(router.ActionIndex, router.ActionShow))
		})
	})

	table, err := r.Build()
	if err != nil {
		return nil, nil, fmt.Errorf("build route table: %w", err)
	}
	return table, plug.NewDispatcher(NewFallback()), nil
}

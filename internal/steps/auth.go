package steps

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/askohn/plugweb/internal/core/domain"
	"github.com/askohn/plugweb/internal/core/ports"
	"github.com/askohn/plugweb/pkg/plug"
)

// AssignCurrentUser is the assign key the authentication step writes. The
// dispatcher reads the same key when invoking actor-arity actions.
const AssignCurrentUser = plug.DefaultActorKey

type requireUserStep struct {
	auth       ports.Authenticator
	redirectTo string
}

// RequireUser builds a step that resolves the current user via the
// authenticator. When no user can be found it records a flash message,
// redirects to the configured target, and halts; the downstream action is
// never invoked. Unexpected authenticator failures propagate.
func RequireUser(auth ports.Authenticator, redirectTo string) (plug.Step, error) {
	if auth == nil {
		return nil, fmt.Errorf("require_user step: authenticator cannot be nil")
	}
	if redirectTo == "" {
		redirectTo = "/"
	}
	return requireUserStep{auth: auth, redirectTo: redirectTo}, nil
}

func (s requireUserStep) Name() string { return "require_user" }

func (s requireUserStep) Call(ctx context.Context, ex *plug.Exchange) (*plug.Exchange, error) {
	user, err := s.auth.FindUser(ctx, ex)
	switch {
	case errors.Is(err, ports.ErrNoUser):
		return ex.
			PutFlash("error", "You must be signed in to access that page.").
			Redirect(s.redirectTo, http.StatusFound).
			Halt(), nil
	case err != nil:
		return nil, err
	}
	return ex.PutAssign(AssignCurrentUser, user), nil
}

type authorizeStep struct {
	authz       ports.Authorizer
	resourceKey string
}

// Authorize builds a step that asks the authorizer whether the current user
// may access the resource stored under resourceKey (nil resource when the
// key is empty or unset). Denial halts with a 403; the step makes no
// assumption about its pipeline position beyond reading prior assigns.
func Authorize(authz ports.Authorizer, resourceKey string) (plug.Step, error) {
	if authz == nil {
		return nil, fmt.Errorf("authorize step: authorizer cannot be nil")
	}
	return authorizeStep{authz: authz, resourceKey: resourceKey}, nil
}

func (s authorizeStep) Name() string { return "authorize" }

func (s authorizeStep) Call(ctx context.Context, ex *plug.Exchange) (*plug.Exchange, error) {
	var user *domain.User
	if v, ok := ex.Assign(AssignCurrentUser); ok {
		user, _ = v.(*domain.User)
	}

	var resource any
	if s.resourceKey != "" {
		resource, _ = ex.Assign(s.resourceKey)
	}

	if !s.authz.CanAccess(user, resource) {
		return ex.
			PutFlash("error", "You are not authorized to access that page.").
			RespondText(http.StatusForbidden, "Forbidden").
			Halt(), nil
	}
	return ex, nil
}

// Package ports defines the collaborator interfaces the kernel and steps
// depend on. Adapters under internal/ provide the implementations; the
// kernel never touches a concrete store, auth scheme, or template engine.
package ports

import (
	"context"
	"errors"

	"github.com/askohn/plugweb/internal/core/domain"
	"github.com/askohn/plugweb/pkg/plug"
)

// ErrNoUser is the expected failure of Authenticator.FindUser: the exchange
// carries no identifiable user. Steps convert it into a redirect-and-halt;
// any other error propagates as a step failure.
var ErrNoUser = errors.New("no authenticated user")

// Authenticator resolves the current user from an in-flight exchange.
type Authenticator interface {
	FindUser(ctx context.Context, ex *plug.Exchange) (*domain.User, error)
}

// Authorizer decides access questions. CanAccess is the simple predicate
// form; Authorize reports a reason when it denies.
type Authorizer interface {
	CanAccess(user *domain.User, resource any) bool
	Authorize(actor *domain.User, action string, resource any) error
}

// ErrPostNotFound is the expected miss of the post store lookups.
var ErrPostNotFound = errors.New("post not found")

// PostStore is the blog's resource store. Implementations provide their own
// concurrency guarantees; the kernel assumes none.
type PostStore interface {
	GetPost(ctx context.Context, id string) (*domain.Post, error)
	ListPosts(ctx context.Context) ([]*domain.Post, error)
	CreatePost(ctx context.Context, post *domain.Post) error
	UpdatePost(ctx context.Context, post *domain.Post) error
	DeletePost(ctx context.Context, id string) error
	Close() error
}

// Renderer turns a pending view into a response body. Format is the
// negotiated representation ("html", "json").
type Renderer interface {
	Render(ctx context.Context, ex *plug.Exchange, view plug.View, format string) (body []byte, contentType string, err error)
}

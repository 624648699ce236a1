// Package blog wires the instructional application together: page and post
// controllers, the fallback table translating tagged results into HTTP
// semantics, and the route table binding pipelines to actions.
package blog

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"

	"github.com/askohn/plugweb/internal/core/domain"
	"github.com/askohn/plugweb/internal/core/ports"
	"github.com/askohn/plugweb/pkg/plug"
)

// ReasonInternal tags unexpected collaborator failures inside actions, which
// have no error channel of their own. The fallback table maps it to a 500.
const ReasonInternal = "internal"

// PageController serves the static pages.
type PageController struct{}

// Home renders the landing page.
func (PageController) Home(ctx context.Context, ex *plug.Exchange, params plug.Params) plug.Outcome {
	return plug.Finalized(ex.Render("home", nil))
}

// About renders the about page.
func (PageController) About(ctx context.Context, ex *plug.Exchange, params plug.Params) plug.Outcome {
	return plug.Finalized(ex.Render("about", nil))
}

// PostController serves the public post pages and the admin management
// surface. Expected store misses become tagged results for the fallback
// table; success paths render or redirect directly.
type PostController struct {
	store ports.PostStore
	authz ports.Authorizer
}

// NewPostController builds the post controller.
func NewPostController(store ports.PostStore, authz ports.Authorizer) *PostController {
	return &PostController{store: store, authz: authz}
}

// Index lists all posts.
func (c *PostController) Index(ctx context.Context, ex *plug.Exchange, params plug.Params) plug.Outcome {
	posts, err := c.store.ListPosts(ctx)
	if err != nil {
		return plug.Tagged(plug.ErrorWith(ReasonInternal, err))
	}
	return plug.Finalized(ex.Render("post_index", map[string]any{"posts": posts}))
}

// Show renders one post, or tags not_found.
func (c *PostController) Show(ctx context.Context, ex *plug.Exchange, params plug.Params) plug.Outcome {
	post, err := c.fetch(ctx, params["id"])
	if err != nil {
		return plug.Tagged(toResult(err))
	}
	return plug.Finalized(ex.PutAssign("post", post).Render("post_show", map[string]any{"post": post}))
}

// New renders the empty post form.
func (c *PostController) New(ctx context.Context, ex *plug.Exchange, params plug.Params, actor any) plug.Outcome {
	return plug.Finalized(ex.Render("post_new", map[string]any{"title": "", "body": ""}))
}

// Create validates the form and stores a new post owned by the actor.
func (c *PostController) Create(ctx context.Context, ex *plug.Exchange, params plug.Params, actor any) plug.Outcome {
	title := strings.TrimSpace(params["title"])
	body := strings.TrimSpace(params["body"])
	if title == "" || body == "" {
		return plug.Tagged(plug.ErrorWith(plug.ReasonInvalid, "title and body are required"))
	}

	post := &domain.Post{
		ID:        uuid.New().String(),
		Title:     title,
		Body:      body,
		AuthorID:  actorID(actor),
		Published: true,
	}
	if err := c.store.CreatePost(ctx, post); err != nil {
		return plug.Tagged(plug.ErrorWith(ReasonInternal, err))
	}

	return plug.Finalized(ex.
		PutFlash("info", "Post created successfully.").
		Redirect("/posts/"+post.ID, 302))
}

// Edit renders the edit form for a post the actor may manage.
func (c *PostController) Edit(ctx context.Context, ex *plug.Exchange, params plug.Params, actor any) plug.Outcome {
	post, err := c.fetch(ctx, params["id"])
	if err != nil {
		return plug.Tagged(toResult(err))
	}
	if err := c.authz.Authorize(asUser(actor), "edit", post); err != nil {
		return plug.Tagged(plug.ErrorResult(plug.ReasonUnauthorized))
	}
	return plug.Finalized(ex.Render("post_edit", map[string]any{"post": post}))
}

// Update validates the form and rewrites the post.
func (c *PostController) Update(ctx context.Context, ex *plug.Exchange, params plug.Params, actor any) plug.Outcome {
	post, err := c.fetch(ctx, params["id"])
	if err != nil {
		return plug.Tagged(toResult(err))
	}
	if err := c.authz.Authorize(asUser(actor), "edit", post); err != nil {
		return plug.Tagged(plug.ErrorResult(plug.ReasonUnauthorized))
	}

	title := strings.TrimSpace(params["title"])
	body := strings.TrimSpace(params["body"])
	if title == "" || body == "" {
		return plug.Tagged(plug.ErrorWith(plug.ReasonInvalid, "title and body are required"))
	}

	post.Title = title
	post.Body = body
	if err := c.store.UpdatePost(ctx, post); err != nil {
		return plug.Tagged(toResult(err))
	}

	return plug.Finalized(ex.
		PutFlash("info", "Post updated successfully.").
		Redirect("/posts/"+post.ID, 302))
}

// Delete removes the post and returns to the index.
func (c *PostController) Delete(ctx context.Context, ex *plug.Exchange, params plug.Params, actor any) plug.Outcome {
	post, err := c.fetch(ctx, params["id"])
	if err != nil {
		return plug.Tagged(toResult(err))
	}
	if err := c.authz.Authorize(asUser(actor), "delete", post); err != nil {
		return plug.Tagged(plug.ErrorResult(plug.ReasonUnauthorized))
	}
	if err := c.store.DeletePost(ctx, post.ID); err != nil {
		return plug.Tagged(toResult(err))
	}

	return plug.Finalized(ex.
		PutFlash("info", "Post deleted.").
		Redirect("/posts", 302))
}

func (c *PostController) fetch(ctx context.Context, id string) (*domain.Post, error) {
	if id == "" {
		return nil, ports.ErrPostNotFound
	}
	return c.store.GetPost(ctx, id)
}

// toResult converts an expected store failure into its tag; anything else
// is tagged internal.
func toResult(err error) plug.Result {
	if errors.Is(err, ports.ErrPostNotFound) {
		return plug.ErrorResult(plug.ReasonNotFound)
	}
	return plug.ErrorWith(ReasonInternal, err)
}

func asUser(actor any) *domain.User {
	u, _ := actor.(*domain.User)
	return u
}

func actorID(actor any) string {
	if u := asUser(actor); u != nil {
		return u.ID
	}
	return ""
}

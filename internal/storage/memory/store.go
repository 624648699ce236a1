// Package memory provides an in-memory post store for development and tests.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/askohn/plugweb/internal/core/domain"
	"github.com/askohn/plugweb/internal/core/ports"
)

// Store is a map-backed ports.PostStore. Safe for concurrent exchanges.
type Store struct {
	mu    sync.RWMutex
	posts map[string]*domain.Post
}

var _ ports.PostStore = (*Store)(nil)

// New returns an empty in-memory store.
func New() *Store {
	return &Store{posts: make(map[string]*domain.Post)}
}

// GetPost returns a copy of the post, or ports.ErrPostNotFound.
func (s *Store) GetPost(ctx context.Context, id string) (*domain.Post, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.posts[id]
	if !ok {
		return nil, ports.ErrPostNotFound
	}
	out := *p
	return &out, nil
}

// ListPosts returns copies of all posts, newest first.
func (s *Store) ListPosts(ctx context.Context) ([]*domain.Post, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*domain.Post, 0, len(s.posts))
	for _, p := range s.posts {
		cp := *p
		out = append(out, &cp)
	}
	// Newest first, with id as tiebreaker for deterministic ordering.
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})
	return out, nil
}

// CreatePost stores a copy of the post, stamping created/updated times.
func (s *Store) CreatePost(ctx context.Context, post *domain.Post) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UTC()
	post.CreatedAt = now
	post.UpdatedAt = now

	cp := *post
	s.posts[post.ID] = &cp
	return nil
}

// UpdatePost rewrites a stored post, or returns ports.ErrPostNotFound.
func (s *Store) UpdatePost(ctx context.Context, post *domain.Post) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.posts[post.ID]
	if !ok {
		return ports.ErrPostNotFound
	}
	post.CreatedAt = existing.CreatedAt
	post.UpdatedAt = time.Now().UTC()

	cp := *post
	s.posts[post.ID] = &cp
	return nil
}

// DeletePost removes a post, or returns ports.ErrPostNotFound.
func (s *Store) DeletePost(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.posts[id]; !ok {
		return ports.ErrPostNotFound
	}
	delete(s.posts, id)
	return nil
}

// Close is a no-op for the in-memory store.
func (s *Store) Close() error { return nil }

// Package sqlite provides the SQLite-backed post store.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/askohn/plugweb/internal/core/domain"
	"github.com/askohn/plugweb/internal/core/ports"
)

// Store is a SQLite implementation of ports.PostStore.
type Store struct {
	db *sql.DB
}

var _ ports.PostStore = (*Store)(nil)

// New opens (or creates) the database at path and initializes the schema.
func New(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL; PRAGMA synchronous=NORMAL;"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
	}

	s := &Store{db: db}
	if err := s.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	return s, nil
}

func (s *Store) initSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS posts (
			id TEXT PRIMARY KEY,
			title TEXT NOT NULL,
			body TEXT NOT NULL,
			author_id TEXT NOT NULL,
			published INTEGER NOT NULL DEFAULT 0,
			created_at TIMESTAMP NOT NULL,
			updated_at TIMESTAMP NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_posts_author ON posts(author_id)`,
		`CREATE INDEX IF NOT EXISTS idx_posts_published ON posts(published)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// GetPost returns the post with the given id, or ports.ErrPostNotFound.
func (s *Store) GetPost(ctx context.Context, id string) (*domain.Post, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, title, body, author_id, published, created_at, updated_at
		 FROM posts WHERE id = ?`, id)

	var p domain.Post
	var published int
	err := row.Scan(&p.ID, &p.Title, &p.Body, &p.AuthorID, &published, &p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ports.ErrPostNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get post %s: %w", id, err)
	}
	p.Published = published != 0
	return &p, nil
}

// ListPosts returns all posts, newest first.
func (s *Store) ListPosts(ctx context.Context) ([]*domain.Post, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, title, body, author_id, published, created_at, updated_at
		 FROM posts ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}
	defer rows.Close()

	var posts []*domain.Post
	for rows.Next() {
		var p domain.Post
		var published int
		if err := rows.Scan(&p.ID, &p.Title, &p.Body, &p.AuthorID, &published, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan post: %w", err)
		}
		p.Published = published != 0
		posts = append(posts, &p)
	}
	return posts, rows.Err()
}

// CreatePost inserts a post, stamping created/updated times.
func (s *Store) CreatePost(ctx context.Context, post *domain.Post) error {
	now := time.Now().UTC()
	post.CreatedAt = now
	post.UpdatedAt = now

	published := 0
	if post.Published {
		published = 1
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO posts (id, title, body, author_id, published, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		post.ID, post.Title, post.Body, post.AuthorID, published, post.CreatedAt, post.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create post %s: %w", post.ID, err)
	}
	return nil
}

// UpdatePost rewrites a post's mutable fields, or returns
// ports.ErrPostNotFound for an unknown id.
func (s *Store) UpdatePost(ctx context.Context, post *domain.Post) error {
	post.UpdatedAt = time.Now().UTC()

	published := 0
	if post.Published {
		published = 1
	}
	res, err := s.db.ExecContext(ctx,
		`UPDATE posts SET title = ?, body = ?, published = ?, updated_at = ? WHERE id = ?`,
		post.Title, post.Body, published, post.UpdatedAt, post.ID)
	if err != nil {
		return fmt.Errorf("update post %s: %w", post.ID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update post %s: %w", post.ID, err)
	}
	if n == 0 {
		return ports.ErrPostNotFound
	}
	return nil
}

// DeletePost removes a post, or returns ports.ErrPostNotFound.
func (s *Store) DeletePost(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM posts WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete post %s: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete post %s: %w", id, err)
	}
	if n == 0 {
		return ports.ErrPostNotFound
	}
	return nil
}

// Close closes the underlying database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

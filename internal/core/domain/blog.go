// Package domain holds the application-level types shared by ports and
// adapters.
package domain

import "time"

// Role classifies what a user may do. Authorization decisions compare roles,
// never identities.
type Role string

const (
	// RoleReader may view published content.
	RoleReader Role = "reader"
	// RoleAuthor may manage their own posts.
	RoleAuthor Role = "author"
	// RoleAdmin may manage everything.
	RoleAdmin Role = "admin"
)

// User is an authenticated principal.
type User struct {
	ID   string
	Name string
	Role Role
}

// Post is a blog entry.
type Post struct {
	ID        string
	Title     string
	Body      string
	AuthorID  string
	Published bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

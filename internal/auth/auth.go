// Package auth provides the API-key authenticator and the role-based
// authorizer backing the authentication and authorization steps.
package auth

import (
	"context"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/askohn/plugweb/internal/core/domain"
	"github.com/askohn/plugweb/internal/core/ports"
	"github.com/askohn/plugweb/pkg/plug"
)

// Key declares one accepted API key. KeyHash is the hex-encoded sha256 of
// the raw key; raw keys never appear in configuration.
type Key struct {
	KeyHash string
	User    domain.User
}

// Authenticator resolves users from a hashed-key table.
type Authenticator struct {
	keys []Key
}

// NewAuthenticator builds an authenticator from the declared keys.
func NewAuthenticator(keys []Key) *Authenticator {
	a := &Authenticator{keys: make([]Key, len(keys))}
	copy(a.keys, keys)
	return a
}

// HashKey returns the hex-encoded sha256 of a raw key, for generating
// configuration entries.
func HashKey(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}

// FindUser implements ports.Authenticator. The key is taken from the
// Authorization header ("Bearer <key>") or, failing that, the "api_key"
// request parameter. A missing or unknown key is the expected ErrNoUser
// failure, never a hard error.
func (a *Authenticator) FindUser(ctx context.Context, ex *plug.Exchange) (*domain.User, error) {
	raw := extractKey(ex)
	if raw == "" {
		return nil, ports.ErrNoUser
	}
	keyHash := HashKey(raw)

	// Constant-time comparison to prevent timing attacks.
	for _, k := range a.keys {
		if subtle.ConstantTimeCompare([]byte(keyHash), []byte(strings.ToLower(k.KeyHash))) == 1 {
			u := k.User
			return &u, nil
		}
	}
	return nil, ports.ErrNoUser
}

func extractKey(ex *plug.Exchange) string {
	if h := ex.Header().Get("Authorization"); h != "" {
		parts := strings.SplitN(h, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "bearer") {
			return parts[1]
		}
		return ""
	}
	return ex.Param("api_key")
}

var _ ports.Authenticator = (*Authenticator)(nil)

// RoleAuthorizer implements ports.Authorizer over the role model: admins may
// do anything, authors may manage their own posts, readers manage nothing.
type RoleAuthorizer struct{}

// NewRoleAuthorizer returns the role-based authorizer.
func NewRoleAuthorizer() *RoleAuthorizer {
	return &RoleAuthorizer{}
}

// CanAccess reports whether user may access resource. A nil resource asks
// about the management surface in general rather than a concrete post.
func (z *RoleAuthorizer) CanAccess(user *domain.User, resource any) bool {
	if user == nil {
		return false
	}
	switch user.Role {
	case domain.RoleAdmin:
		return true
	case domain.RoleAuthor:
		post, ok := resource.(*domain.Post)
		if !ok || post == nil {
			return true
		}
		return post.AuthorID == "" || post.AuthorID == user.ID
	default:
		return false
	}
}

// Authorize reports a reason when it denies.
func (z *RoleAuthorizer) Authorize(actor *domain.User, action string, resource any) error {
	if z.CanAccess(actor, resource) {
		return nil
	}
	who := "anonymous"
	if actor != nil {
		who = actor.ID
	}
	return fmt.Errorf("user %s may not %s this resource", who, action)
}

var _ ports.Authorizer = (*RoleAuthorizer)(nil)

package auth

import (
	"context"
	"errors"
	"testing"

	"github.com/askohn/plugweb/internal/core/domain"
	"github.com/askohn/plugweb/internal/core/ports"
	"github.com/askohn/plugweb/pkg/plug"
)

func testAuthenticator() *Authenticator {
	return NewAuthenticator([]Key{
		{KeyHash: HashKey("ada-key"), User: domain.User{ID: "u1", Name: "ada", Role: domain.RoleAuthor}},
		{KeyHash: HashKey("root-key"), User: domain.User{ID: "u2", Name: "root", Role: domain.RoleAdmin}},
	})
}

func TestFindUserByBearerHeader(t *testing.T) {
	a := testAuthenticator()
	ex := plug.NewExchange("GET", "/", nil)
	ex.Header().Set("Authorization", "Bearer ada-key")

	user, err := a.FindUser(context.Background(), ex)
	if err != nil {
		t.Fatalf("FindUser() error = %v", err)
	}
	if user.ID != "u1" || user.Role != domain.RoleAuthor {
		t.Errorf("user = %+v, want u1/author", user)
	}
}

func TestFindUserByParam(t *testing.T) {
	a := testAuthenticator()
	ex := plug.NewExchange("GET", "/", plug.Params{"api_key": "root-key"})

	user, err := a.FindUser(context.Background(), ex)
	if err != nil {
		t.Fatalf("FindUser() error = %v", err)
	}
	if user.Role != domain.RoleAdmin {
		t.Errorf("role = %v, want admin", user.Role)
	}
}

func TestFindUserFailures(t *testing.T) {
	a := testAuthenticator()

	tests := []struct {
		name  string
		setup func(*plug.Exchange)
	}{
		{"no credentials", func(ex *plug.Exchange) {}},
		{"unknown key", func(ex *plug.Exchange) { ex.Header().Set("Authorization", "Bearer nope") }},
		{"bad scheme", func(ex *plug.Exchange) { ex.Header().Set("Authorization", "Basic abc") }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ex := plug.NewExchange("GET", "/", nil)
			tt.setup(ex)
			if _, err := a.FindUser(context.Background(), ex); !errors.Is(err, ports.ErrNoUser) {
				t.Errorf("err = %v, want ErrNoUser", err)
			}
		})
	}
}

func TestRoleAuthorizer(t *testing.T) {
	z := NewRoleAuthorizer()
	admin := &domain.User{ID: "u2", Role: domain.RoleAdmin}
	author := &domain.User{ID: "u1", Role: domain.RoleAuthor}
	reader := &domain.User{ID: "u3", Role: domain.RoleReader}

	ownPost := &domain.Post{ID: "p1", AuthorID: "u1"}
	otherPost := &domain.Post{ID: "p2", AuthorID: "u9"}

	tests := []struct {
		name     string
		user     *domain.User
		resource any
		want     bool
	}{
		{"nil user denied", nil, nil, false},
		{"admin allowed anywhere", admin, otherPost, true},
		{"author allowed on own post", author, ownPost, true},
		{"author denied on someone else's post", author, otherPost, false},
		{"author allowed without concrete resource", author, nil, true},
		{"reader denied", reader, nil, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := z.CanAccess(tt.user, tt.resource); got != tt.want {
				t.Errorf("CanAccess() = %v, want %v", got, tt.want)
			}
		})
	}

	if err := z.Authorize(reader, "edit", ownPost); err == nil {
		t.Error("Authorize() should deny a reader")
	}
	if err := z.Authorize(admin, "edit", ownPost); err != nil {
		t.Errorf("Authorize() admin error = %v", err)
	}
}

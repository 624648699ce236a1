package render

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/askohn/plugweb/internal/core/domain"
	"github.com/askohn/plugweb/pkg/plug"
)

func TestNegotiate(t *testing.T) {
	tests := []struct {
		name   string
		format string
		accept string
		want   string
	}{
		{"default html", "", "", FormatHTML},
		{"query param json", "json", "", FormatJSON},
		{"query param html beats accept", "html", "application/json", FormatHTML},
		{"accept json", "", "application/json", FormatJSON},
		{"unknown param ignored", "xml", "", FormatHTML},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			params := plug.Params{}
			if tt.format != "" {
				params["_format"] = tt.format
			}
			ex := plug.NewExchange("GET", "/", params)
			if tt.accept != "" {
				ex.Header().Set("Accept", tt.accept)
			}
			if got := Negotiate(ex); got != tt.want {
				t.Errorf("Negotiate() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRenderHTMLWithLayoutAndFlash(t *testing.T) {
	r, err := New()
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	ex := plug.NewExchange("GET", "/", nil)
	ex.PutAssign("locale", "fr")
	ex.PutFlash("error", "nope")

	body, ct, err := r.Render(context.Background(), ex, plug.View{Template: "home"}, FormatHTML)
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if !strings.Contains(ct, "text/html") {
		t.Errorf("content type = %q, want text/html", ct)
	}
	html := string(body)
	if !strings.Contains(html, `lang="fr"`) {
		t.Error("layout should carry the assigned locale")
	}
	if !strings.Contains(html, "flash-error") || !strings.Contains(html, "nope") {
		t.Error("layout should surface flash messages")
	}
	if !strings.Contains(html, "Welcome to the blog") {
		t.Error("view content missing")
	}
}

func TestRenderPostShow(t *testing.T) {
	r, err := New()
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	view := plug.View{
		Template: "post_show",
		Assigns:  map[string]any{"post": &domain.Post{ID: "p1", Title: "Hi", Body: "there"}},
	}
	body, _, err := r.Render(context.Background(), plug.NewExchange("GET", "/posts/p1", nil), view, FormatHTML)
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if !strings.Contains(string(body), "<h1>Hi</h1>") {
		t.Errorf("body = %s, want post title", body)
	}
}

func TestRenderJSON(t *testing.T) {
	r, err := New()
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	view := plug.View{Template: "post_show", Assigns: map[string]any{"post": map[string]string{"title": "Hi"}}}
	body, ct, err := r.Render(context.Background(), plug.NewExchange("GET", "/", nil), view, FormatJSON)
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if !strings.Contains(ct, "application/json") {
		t.Errorf("content type = %q, want application/json", ct)
	}

	var decoded map[string]any
	if err := json.Unmarshal(body, &decoded); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if decoded["view"] != "post_show" {
		t.Errorf("view = %v, want post_show", decoded["view"])
	}
}

func TestRenderUnknownTemplate(t *testing.T) {
	r, err := New()
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if _, _, err := r.Render(context.Background(), plug.NewExchange("GET", "/", nil), plug.View{Template: "nope"}, FormatHTML); err == nil {
		t.Error("expected error for unknown template")
	}
}

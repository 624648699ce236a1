// Package render produces response bodies for pending views. The kernel
// attaches a template selector plus variables to the exchange; this package
// turns that pair into HTML or, when negotiated, JSON.
package render

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"html/template"
	"strings"

	"github.com/askohn/plugweb/internal/core/ports"
	"github.com/askohn/plugweb/pkg/plug"
)

// Formats the renderer can negotiate.
const (
	FormatHTML = "html"
	FormatJSON = "json"
)

// Negotiate picks the response format for an exchange: the "_format" query
// parameter wins, then the Accept header, then HTML.
func Negotiate(ex *plug.Exchange) string {
	switch ex.Param("_format") {
	case FormatJSON:
		return FormatJSON
	case FormatHTML:
		return FormatHTML
	}
	if strings.Contains(ex.Header().Get("Accept"), "application/json") {
		return FormatJSON
	}
	return FormatHTML
}

const layoutTemplate = `<!DOCTYPE html>
<html lang="{{.Locale}}">
<head><meta charset="utf-8"><title>plugweb blog</title></head>
<body>
{{range $kind, $msg := .Flashes}}<p class="flash flash-{{$kind}}">{{$msg}}</p>
{{end}}{{template "content" .}}
</body>
</html>
`

// Built-in views. Each defines the "content" block the layout embeds.
var viewTemplates = map[string]string{
	"home": `{{define "content"}}<h1>Welcome to the blog</h1>
<p>Locale: {{.Locale}}</p>{{end}}`,

	"about": `{{define "content"}}<h1>About</h1>
<p>A small pipeline-driven blog.</p>{{end}}`,

	"post_index": `{{define "content"}}<h1>Posts</h1>
<ul>{{range .Assigns.posts}}<li><a href="/posts/{{.ID}}">{{.Title}}</a></li>{{end}}</ul>{{end}}`,

	"post_show": `{{define "content"}}{{with .Assigns.post}}<h1>{{.Title}}</h1>
<p>{{.Body}}</p>{{end}}{{end}}`,

	"post_new": `{{define "content"}}<h1>New post</h1>
<form method="post" action="/admin/posts">
<input name="title" value="{{.Assigns.title}}"><textarea name="body">{{.Assigns.body}}</textarea>
<button>Create</button>
</form>{{end}}`,

	"post_edit": `{{define "content"}}{{with .Assigns.post}}<h1>Edit {{.Title}}</h1>
<form method="post" action="/admin/posts/{{.ID}}">
<input name="title" value="{{.Title}}"><textarea name="body">{{.Body}}</textarea>
<button>Update</button>
</form>{{end}}{{end}}`,

	"invalid": `{{define "content"}}<h1>Could not save post</h1>
<p>{{.Assigns.reason}}</p>{{end}}`,

	"not_found": `{{define "content"}}<h1>Not Found</h1>{{end}}`,

	"forbidden": `{{define "content"}}<h1>Forbidden</h1>{{end}}`,

	"server_error": `{{define "content"}}<h1>Something went wrong</h1>{{end}}`,
}

// templateData is what every view template executes against.
type templateData struct {
	Locale  string
	Flashes map[string]string
	Assigns map[string]any
}

// HTMLRenderer implements ports.Renderer over the built-in template set.
type HTMLRenderer struct {
	views map[string]*template.Template
}

var _ ports.Renderer = (*HTMLRenderer)(nil)

// New parses the layout and every view template once, at startup.
func New() (*HTMLRenderer, error) {
	layout, err := template.New("layout").Parse(layoutTemplate)
	if err != nil {
		return nil, fmt.Errorf("parse layout: %w", err)
	}

	views := make(map[string]*template.Template, len(viewTemplates))
	for name, body := range viewTemplates {
		t, err := layout.Clone()
		if err != nil {
			return nil, err
		}
		if _, err := t.Parse(body); err != nil {
			return nil, fmt.Errorf("parse view %s: %w", name, err)
		}
		views[name] = t
	}
	return &HTMLRenderer{views: views}, nil
}

// Render produces the body for a pending view in the negotiated format. An
// unknown template is an error; the kernel answers 500 for it.
func (r *HTMLRenderer) Render(ctx context.Context, ex *plug.Exchange, view plug.View, format string) ([]byte, string, error) {
	if format == FormatJSON {
		body, err := json.Marshal(map[string]any{
			"view": view.Template,
			"data": view.Assigns,
		})
		if err != nil {
			return nil, "", fmt.Errorf("encode view %s: %w", view.Template, err)
		}
		return body, "application/json; charset=utf-8", nil
	}

	t, ok := r.views[view.Template]
	if !ok {
		return nil, "", fmt.Errorf("unknown view template %q", view.Template)
	}

	locale := ""
	if v, ok := ex.Assign("locale"); ok {
		locale, _ = v.(string)
	}

	var buf bytes.Buffer
	err := t.Execute(&buf, templateData{
		Locale:  locale,
		Flashes: ex.Flashes(),
		Assigns: view.Assigns,
	})
	if err != nil {
		return nil, "", fmt.Errorf("render view %s: %w", view.Template, err)
	}
	return buf.Bytes(), "text/html; charset=utf-8", nil
}

// Package steps provides the reusable pipeline steps of the application:
// locale selection, authentication gating, and authorization gating. Each
// step validates its options once at pipeline-build time and keeps all
// per-request state in exchange assigns.
package steps

import (
	"context"
	"fmt"
	"slices"

	"github.com/askohn/plugweb/pkg/plug"
)

// AssignLocale is the assign key the locale step writes.
const AssignLocale = "locale"

// LocaleOptions configures the locale step.
type LocaleOptions struct {
	// Default is used when the request carries no acceptable locale.
	Default string
	// Allowed is the locale allow-list. Must contain Default.
	Allowed []string
}

type localeStep struct {
	opts LocaleOptions
}

// Locale builds a step that inspects params["locale"] against the allow-list
// and assigns the chosen value, falling back to the configured default.
func Locale(opts LocaleOptions) (plug.Step, error) {
	if opts.Default == "" {
		return nil, fmt.Errorf("locale step: default locale cannot be empty")
	}
	if !slices.Contains(opts.Allowed, opts.Default) {
		return nil, fmt.Errorf("locale step: default %q not in allow-list %v", opts.Default, opts.Allowed)
	}
	return localeStep{opts: opts}, nil
}

func (s localeStep) Name() string { return "set_locale" }

func (s localeStep) Call(ctx context.Context, ex *plug.Exchange) (*plug.Exchange, error) {
	locale := ex.Param("locale")
	if !slices.Contains(s.opts.Allowed, locale) {
		locale = s.opts.Default
	}
	return ex.PutAssign(AssignLocale, locale), nil
}

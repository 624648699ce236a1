package router

import (
	"fmt"
	"net/http"
)

// Conventional resource action names.
const (
	ActionIndex  = "index"
	ActionNew    = "new"
	ActionCreate = "create"
	ActionShow   = "show"
	ActionEdit   = "edit"
	ActionUpdate = "update"
	ActionDelete = "delete"
)

// resourceOrder fixes the expansion order of the seven conventional routes.
// Static segments precede captures so "/posts/new" is not swallowed by
// "/posts/:id".
var resourceOrder = []string{
	ActionIndex, ActionNew, ActionCreate, ActionShow, ActionEdit, ActionUpdate, ActionDelete,
}

var resourceRoutes = map[string]struct {
	method  string
	pattern string
}{
	ActionIndex:  {http.MethodGet, "/"},
	ActionNew:    {http.MethodGet, "/new"},
	ActionCreate: {http.MethodPost, "/"},
	ActionShow:   {http.MethodGet, "/:id"},
	ActionEdit:   {http.MethodGet, "/:id/edit"},
	ActionUpdate: {http.MethodPatch, "/:id"},
	ActionDelete: {http.MethodDelete, "/:id"},
}

// ResourceActions supplies the handlers for a resource declaration. Only the
// actions selected by the filter need to be set.
type ResourceActions struct {
	Index  any
	New    any
	Create any
	Show   any
	Edit   any
	Update any
	Delete any
}

func (a ResourceActions) forName(name string) any {
	switch name {
	case ActionIndex:
		return a.Index
	case ActionNew:
		return a.New
	case ActionCreate:
		return a.Create
	case ActionShow:
		return a.Show
	case ActionEdit:
		return a.Edit
	case ActionUpdate:
		return a.Update
	case ActionDelete:
		return a.Delete
	}
	return nil
}

// ResourceFilter restricts which of the seven conventional routes a resource
// declaration expands to.
type ResourceFilter func(name string) bool

// All includes every conventional action.
func All() ResourceFilter {
	return func(string) bool { return true }
}

// Only includes just the named actions.
func Only(names ...string) ResourceFilter {
	set := toSet(names)
	return func(name string) bool { return set[name] }
}

// Except includes every conventional action but the named ones.
func Except(names ...string) ResourceFilter {
	set := toSet(names)
	return func(name string) bool { return !set[name] }
}

func toSet(names []string) map[string]bool {
	set := make(map[string]bool, len(names))
	for _, n := range names {
		set[n] = true
	}
	return set
}

// ExpandResources deterministically expands a resource declaration into its
// conventional route list. It is a pure function: same inputs, same routes.
func ExpandResources(base string, actions ResourceActions, filter ResourceFilter) ([]Route, error) {
	if filter == nil {
		filter = All()
	}

	var out []Route
	for _, name := range resourceOrder {
		if !filter(name) {
			continue
		}
		action := actions.forName(name)
		if action == nil {
			return nil, fmt.Errorf("resources %s: action %s selected but no handler given", base, name)
		}
		conv := resourceRoutes[name]
		out = append(out, Route{
			Method:  conv.method,
			Pattern: joinPath(base, conv.pattern),
			Action:  action,
		})
	}
	return out, nil
}

// Resources declares a resource under this scope, expanding to the
// conventional index/new/create/show/edit/update/delete routes, optionally
// filtered with Only or Except.
func (s *Scope) Resources(base string, actions ResourceActions, filter ResourceFilter) {
	routes, err := ExpandResources(base, actions, filter)
	if err != nil {
		s.errs = append(s.errs, err)
		return
	}
	for _, r := range routes {
		s.Handle(r.Method, r.Pattern, r.Action)
	}
}

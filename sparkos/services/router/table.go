package router

import (
	"path"

	"sparkcalc/sparkos/kernel"
)

// FallbackPath is where unknown paths are redirected.
const FallbackPath = "/"

// Route binds an exact path to the endpoint of the page task serving it.
type Route struct {
	Path string
	Page kernel.Capability
}

// Table resolves paths against a fixed route list.
type Table struct {
	routes []Route
}

func NewTable(routes []Route) *Table {
	t := &Table{}
	for _, r := range routes {
		t.routes = append(t.routes, Route{Path: CleanPath(r.Path), Page: r.Page})
	}
	return t
}

// Paths lists the registered paths in registration order.
func (t *Table) Paths() []string {
	out := make([]string, 0, len(t.routes))
	for _, r := range t.routes {
		out = append(out, r.Path)
	}
	return out
}

func (t *Table) index(p string) int {
	for i, r := range t.routes {
		if r.Path == p {
			return i
		}
	}
	return -1
}

// Resolve returns the route index for p. Unknown paths resolve to the
// fallback with redirected set; ok is false when the fallback is missing too.
func (t *Table) Resolve(p string) (idx int, redirected bool, ok bool) {
	if i := t.index(CleanPath(p)); i >= 0 {
		return i, false, true
	}
	if i := t.index(FallbackPath); i >= 0 {
		return i, true, true
	}
	return -1, true, false
}

func (t *Table) Route(idx int) Route { return t.routes[idx] }
func (t *Table) Len() int            { return len(t.routes) }

// CleanPath makes p absolute and lexically clean. The empty path is "/".
func CleanPath(p string) string {
	if p == "" {
		return "/"
	}
	if p[0] != '/' {
		p = "/" + p
	}
	return path.Clean(p)
}

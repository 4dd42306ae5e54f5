// Package router maps CLI locations such as "/edit-recipe/7" to views.
//
// The table is static (see Routes). Views are created on first use by the
// loader registered for their component and reused afterwards.
package router

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"sync"

	"golang.org/x/sync/singleflight"
)

var (
	ErrNoRoute      = errors.New("no route matches path")
	ErrUnknownRoute = errors.New("unknown route name")
	ErrMissingParam = errors.New("missing route parameter")
	ErrNoLoader     = errors.New("no loader registered for component")
)

// Route declares a path and the component rendered for it. A child path
// starting with "/" is absolute; otherwise it is relative to the parent.
// Segments of the form ":name" capture a parameter.
type Route struct {
	Path      string
	Name      string
	Component string
	Children  []Route
}

// Params holds captured path parameters.
type Params map[string]string

// Match is the result of resolving a path.
type Match struct {
	Name      string
	Path      string
	Component string
	// Layouts are the components of the enclosing routes, outermost first.
	Layouts []string
	Params  Params
	// Query holds the parsed query string of the resolved path, if any.
	Query url.Values
}

// View renders one screen.
type View interface {
	Show(ctx context.Context, m Match) error
}

// ViewFunc adapts a function to View.
type ViewFunc func(ctx context.Context, m Match) error

func (f ViewFunc) Show(ctx context.Context, m Match) error {
	return f(ctx, m)
}

// Loader builds a view on first use.
type Loader func() (View, error)

type entry struct {
	name      string
	pattern   string
	segments  []string
	component string
	layouts   []string
}

// Router resolves paths against a route table and loads views lazily.
type Router struct {
	entries []entry
	byName  map[string]entry

	mu      sync.Mutex
	loaders map[string]Loader
	views   map[string]View
	group   singleflight.Group
}

// New flattens routes into a router. Route names must be unique.
func New(routes []Route) (*Router, error) {
	r := &Router{
		byName:  make(map[string]entry),
		loaders: make(map[string]Loader),
		views:   make(map[string]View),
	}
	if err := r.add(routes, "/", nil); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *Router) add(routes []Route, parent string, layouts []string) error {
	for _, rt := range routes {
		pattern := joinPath(parent, rt.Path)

		if len(rt.Children) > 0 {
			nested := append(append([]string(nil), layouts...), rt.Component)
			if err := r.add(rt.Children, pattern, nested); err != nil {
				return err
			}
			if rt.Name == "" {
				continue
			}
		}

		e := entry{
			name:      rt.Name,
			pattern:   pattern,
			segments:  split(pattern),
			component: rt.Component,
			layouts:   layouts,
		}
		if e.name != "" {
			if _, dup := r.byName[e.name]; dup {
				return fmt.Errorf("duplicate route name %q", e.name)
			}
			r.byName[e.name] = e
		}
		r.entries = append(r.entries, e)
	}
	return nil
}

func joinPath(parent, p string) string {
	if strings.HasPrefix(p, "/") {
		return normalize(p)
	}
	if p == "" {
		return normalize(parent)
	}
	return normalize(strings.TrimRight(parent, "/") + "/" + p)
}

// normalize drops the query, fragment and trailing slash.
func normalize(p string) string {
	if i := strings.IndexAny(p, "?#"); i >= 0 {
		p = p[:i]
	}
	p = "/" + strings.Trim(p, "/")
	return p
}

func split(p string) []string {
	p = strings.Trim(p, "/")
	if p == "" {
		return nil
	}
	return strings.Split(p, "/")
}

// Resolve finds the first route matching path.
func (r *Router) Resolve(path string) (Match, error) {
	query := url.Values{}
	if _, raw, ok := strings.Cut(path, "?"); ok {
		raw, _, _ = strings.Cut(raw, "#")
		q, err := url.ParseQuery(raw)
		if err != nil {
			return Match{}, fmt.Errorf("%w: %v", ErrNoRoute, err)
		}
		query = q
	}
	path = normalize(path)
	segs := split(path)

	for _, e := range r.entries {
		params, ok := matchSegments(e.segments, segs)
		if !ok {
			continue
		}
		return Match{
			Name:      e.name,
			Path:      path,
			Component: e.component,
			Layouts:   e.layouts,
			Params:    params,
			Query:     query,
		}, nil
	}
	return Match{}, fmt.Errorf("%w: %s", ErrNoRoute, path)
}

func matchSegments(pattern, segs []string) (Params, bool) {
	if len(pattern) != len(segs) {
		return nil, false
	}
	params := Params{}
	for i, p := range pattern {
		if name, ok := strings.CutPrefix(p, ":"); ok {
			v, err := url.PathUnescape(segs[i])
			if err != nil || v == "" {
				return nil, false
			}
			params[name] = v
			continue
		}
		if p != segs[i] {
			return nil, false
		}
	}
	return params, true
}

// Path builds the location of the named route.
func (r *Router) Path(name string, params Params) (string, error) {
	e, ok := r.byName[name]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnknownRoute, name)
	}
	if len(e.segments) == 0 {
		return "/", nil
	}
	out := make([]string, len(e.segments))
	for i, s := range e.segments {
		if pname, ok := strings.CutPrefix(s, ":"); ok {
			v := params[pname]
			if v == "" {
				return "", fmt.Errorf("%w: %s needs %s", ErrMissingParam, name, pname)
			}
			out[i] = url.PathEscape(v)
			continue
		}
		out[i] = s
	}
	return "/" + strings.Join(out, "/"), nil
}

// Register sets the loader of a component. A view already loaded for it is
// dropped.
func (r *Router) Register(component string, l Loader) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.loaders[component] = l
	delete(r.views, component)
}

// View returns the view of component, loading it on first use. Concurrent
// first calls share one load; failed loads are retried on the next call.
func (r *Router) View(component string) (View, error) {
	r.mu.Lock()
	if v, ok := r.views[component]; ok {
		r.mu.Unlock()
		return v, nil
	}
	loader, ok := r.loaders[component]
	r.mu.Unlock()
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNoLoader, component)
	}

	v, err, _ := r.group.Do(component, func() (any, error) {
		view, err := loader()
		if err != nil {
			return nil, fmt.Errorf("load %s: %w", component, err)
		}
		r.mu.Lock()
		r.views[component] = view
		r.mu.Unlock()
		return view, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(View), nil
}

// Navigate resolves path and shows its layouts and view in order. Layouts
// without a registered loader are skipped.
func (r *Router) Navigate(ctx context.Context, path string) (Match, error) {
	m, err := r.Resolve(path)
	if err != nil {
		return m, err
	}

	for _, layout := range m.Layouts {
		v, err := r.View(layout)
		if errors.Is(err, ErrNoLoader) {
			continue
		}
		if err != nil {
			return m, err
		}
		if err := v.Show(ctx, m); err != nil {
			return m, err
		}
	}

	v, err := r.View(m.Component)
	if err != nil {
		return m, err
	}
	return m, v.Show(ctx, m)
}

// Package navigation resolves application paths to pages and guards them
// against the current authentication state.
package navigation

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/jrsteele09/go-booking-client/booking"
	bookerrors "github.com/jrsteele09/go-booking-client/internal/errors"
	"github.com/rs/zerolog"
)

// AuthState is the derived session state the guard consults.
// *store.Store satisfies it.
type AuthState interface {
	IsAuthenticated() bool
	UserRole() booking.RoleType
}

// Decision is the outcome of a navigation attempt. When Redirect is set the
// navigation was refused and the caller should go there instead.
type Decision struct {
	Path     string
	Page     Page
	Params   map[string]string
	Query    url.Values
	Redirect string
	Title    string
}

// Allowed reports whether the navigation may proceed to Page.
func (d Decision) Allowed() bool {
	return d.Redirect == ""
}

type entry struct {
	page Page
	meta Meta
}

type Navigator struct {
	auth    AuthState
	mux     *chi.Mux
	entries map[string]entry
	logger  zerolog.Logger
}

// NavigatorOption defines a function type to modify the Navigator instance.
type NavigatorOption func(*Navigator)

func WithLogger(logger zerolog.Logger) NavigatorOption {
	return func(n *Navigator) {
		n.logger = logger
	}
}

// New builds a navigator over routes. Patterns use chi syntax.
func New(auth AuthState, routes []Route, opts ...NavigatorOption) (*Navigator, error) {
	if auth == nil {
		return nil, bookerrors.Wrapf(bookerrors.ErrInvalidInput, "auth state is required")
	}
	n := &Navigator{
		auth:    auth,
		mux:     chi.NewRouter(),
		entries: make(map[string]entry),
		logger:  zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(n)
	}
	if err := n.register("", Meta{}, routes); err != nil {
		return nil, err
	}
	return n, nil
}

// register flattens nested routes into full patterns so a match carries the
// union of its ancestors' requirements.
func (n *Navigator) register(prefix string, parent Meta, routes []Route) error {
	for _, r := range routes {
		if !strings.HasPrefix(r.Pattern, "/") {
			return bookerrors.Wrapf(bookerrors.ErrInvalidInput, "route pattern %q must begin with '/'", r.Pattern)
		}
		pattern := joinPattern(prefix, r.Pattern)
		meta := parent.merge(r.Meta)
		if _, exists := n.entries[pattern]; exists {
			return bookerrors.Wrapf(bookerrors.ErrInvalidInput, "duplicate route %q", pattern)
		}
		if r.Page != "" {
			n.entries[pattern] = entry{page: r.Page, meta: meta}
			n.mux.Get(pattern, http.NotFound)
		}
		if err := n.register(pattern, meta, r.Children); err != nil {
			return err
		}
	}
	return nil
}

func joinPattern(prefix, pattern string) string {
	if prefix == "" || prefix == "/" {
		return pattern
	}
	if pattern == "/" {
		return prefix
	}
	return prefix + pattern
}

// Navigate resolves target and applies the guard. Unknown paths return
// ErrRouteNotFound.
func (n *Navigator) Navigate(target string) (Decision, error) {
	u, err := url.Parse(target)
	if err != nil {
		return Decision{}, bookerrors.Wrapf(bookerrors.ErrInvalidInput, "path %q: %v", target, err)
	}
	path := u.Path
	if path == "" {
		path = HomePath
	}
	if len(path) > 1 {
		path = strings.TrimSuffix(path, "/")
	}

	rctx := chi.NewRouteContext()
	pattern := n.mux.Find(rctx, http.MethodGet, path)
	e, ok := n.entries[pattern]
	if pattern == "" || !ok {
		return Decision{}, bookerrors.Wrapf(bookerrors.ErrRouteNotFound, "%s", path)
	}

	d := Decision{
		Path:  path,
		Page:  e.page,
		Query: u.Query(),
		Title: e.meta.Title,
	}
	if d.Title == "" {
		d.Title = DefaultTitle
	}
	if len(rctx.URLParams.Keys) > 0 {
		d.Params = make(map[string]string, len(rctx.URLParams.Keys))
		for i, k := range rctx.URLParams.Keys {
			d.Params[k] = rctx.URLParams.Values[i]
		}
	}

	switch {
	case e.meta.RequiresAuth && !n.auth.IsAuthenticated():
		d.Redirect = LoginPath
	case e.meta.RequiresSuperadmin && n.auth.UserRole() != booking.RoleSuperAdmin:
		d.Redirect = HomePath
	}

	if d.Redirect != "" {
		n.logger.Debug().Str("path", path).Str("redirect", d.Redirect).Msg("Navigation redirected")
	}
	return d, nil
}

// Resolve navigates to target and follows redirects until a page is allowed.
func (n *Navigator) Resolve(target string) (Decision, error) {
	seen := make(map[string]bool)
	for {
		d, err := n.Navigate(target)
		if err != nil || d.Allowed() {
			return d, err
		}
		if seen[d.Redirect] {
			return d, bookerrors.Wrapf(bookerrors.ErrInternal, "redirect loop at %s", d.Redirect)
		}
		seen[d.Redirect] = true
		target = d.Redirect
	}
}

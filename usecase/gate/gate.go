// Package gate decides whether a session may reach a client route.
package gate

import (
	"strings"

	"github.com/fastygo/foodshare/domain"
)

// Well-known client routes.
const (
	RouteLogin     = "/login"
	RouteRegister  = "/register"
	RouteNotFound  = "/not-found"
	RouteDashboard = "/dashboard"
)

// Rule is one entry of the route table. Pattern segments written as {name}
// match exactly one path segment.
type Rule struct {
	Pattern   string
	Protected bool
}

// Table is an immutable route table.
type Table struct {
	rules   []Rule
	aliases map[string]string
}

// Decision is the gate's verdict for one navigation.
type Decision struct {
	Allowed    bool
	RedirectTo string
	// ReturnTo is the path the user asked for before being sent to log in.
	ReturnTo string
	// Route is the matched pattern; unknown paths resolve to RouteNotFound.
	Route  string
	Params map[string]string
}

// NewTable builds a table. aliases map a path to the path it redirects to.
func NewTable(rules []Rule, aliases map[string]string) Table {
	t := Table{
		rules:   append([]Rule(nil), rules...),
		aliases: make(map[string]string, len(aliases)),
	}
	for from, to := range aliases {
		t.aliases[clean(from)] = to
	}
	return t
}

var defaultTable = NewTable([]Rule{
	{Pattern: RouteDashboard, Protected: true},
	{Pattern: "/profile", Protected: true},
	{Pattern: "/food/add", Protected: true},
	{Pattern: "/food/my", Protected: true},
	{Pattern: "/food/edit/{id}", Protected: true},
	{Pattern: "/requests/add", Protected: true},
	{Pattern: "/requests/my", Protected: true},
	{Pattern: "/transactions", Protected: true},
	{Pattern: RouteLogin},
	{Pattern: RouteRegister},
	{Pattern: RouteNotFound},
}, map[string]string{"/": RouteDashboard})

// DefaultTable returns the Food Share client route table.
func DefaultTable() Table {
	return defaultTable
}

// CanAccess evaluates route against the default table.
func CanAccess(route string, s domain.Session) Decision {
	return defaultTable.CanAccess(route, s)
}

// CanAccess is pure: it reads nothing but its arguments.
func (t Table) CanAccess(route string, s domain.Session) Decision {
	path := clean(route)

	if target, ok := t.aliases[path]; ok {
		return Decision{RedirectTo: target, Route: path}
	}

	rule, params, ok := t.match(path)
	if !ok {
		return Decision{Allowed: true, Route: RouteNotFound}
	}
	if rule.Protected && !s.IsAuthenticated() {
		return Decision{RedirectTo: RouteLogin, ReturnTo: returnPath(route), Route: rule.Pattern}
	}
	return Decision{Allowed: true, Route: rule.Pattern, Params: params}
}

// Protected reports whether pattern is a protected route of t.
func (t Table) Protected(pattern string) bool {
	for _, r := range t.rules {
		if r.Pattern == pattern {
			return r.Protected
		}
	}
	return false
}

// Rules returns a copy of the table entries.
func (t Table) Rules() []Rule {
	return append([]Rule(nil), t.rules...)
}

func (t Table) match(path string) (Rule, map[string]string, bool) {
	segments := split(path)
	for _, r := range t.rules {
		if params, ok := matchPattern(split(r.Pattern), segments); ok {
			return r, params, true
		}
	}
	return Rule{}, nil, false
}

func matchPattern(pattern, segments []string) (map[string]string, bool) {
	if len(pattern) != len(segments) {
		return nil, false
	}
	var params map[string]string
	for i, p := range pattern {
		if strings.HasPrefix(p, "{") && strings.HasSuffix(p, "}") {
			if segments[i] == "" {
				return nil, false
			}
			if params == nil {
				params = make(map[string]string)
			}
			params[p[1:len(p)-1]] = segments[i]
			continue
		}
		if p != segments[i] {
			return nil, false
		}
	}
	return params, true
}

// clean drops the query and fragment and normalizes slashes.
func clean(route string) string {
	if i := strings.IndexAny(route, "?#"); i >= 0 {
		route = route[:i]
	}
	route = strings.TrimSpace(route)
	if !strings.HasPrefix(route, "/") {
		route = "/" + route
	}
	if len(route) > 1 {
		route = strings.TrimRight(route, "/")
		if route == "" {
			route = "/"
		}
	}
	return route
}

func returnPath(route string) string {
	route = strings.TrimSpace(route)
	if !strings.HasPrefix(route, "/") {
		route = "/" + route
	}
	return route
}

func split(path string) []string {
	if path == "/" {
		return nil
	}
	return strings.Split(strings.Trim(path, "/"), "/")
}

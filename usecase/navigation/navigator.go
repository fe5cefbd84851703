// Package navigation routes navigation requests through the gate to the
// registered screen handlers.
package navigation

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/fastygo/foodshare/domain"
	"github.com/fastygo/foodshare/usecase/gate"
)

const maxRedirects = 3

var (
	ErrScreenNotRegistered = errors.New("screen not registered")
	ErrTooManyRedirects    = errors.New("too many redirects")
)

type Sessions interface {
	Current() domain.Session
}

// Request is what a screen handler receives.
type Request struct {
	Path    string
	Route   string
	Params  map[string]string
	Session domain.Session
}

type ScreenFunc func(ctx context.Context, req Request) error

// Result describes where a navigation ended.
type Result struct {
	Path       string
	Route      string
	Redirected []string
	ReturnTo   string
}

type Navigator struct {
	sessions Sessions
	table    gate.Table
	logger   *zap.Logger

	mu       sync.RWMutex
	screens  map[string]ScreenFunc
	returnTo string
}

func New(sessions Sessions, table gate.Table, logger *zap.Logger) *Navigator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Navigator{
		sessions: sessions,
		table:    table,
		logger:   logger,
		screens:  make(map[string]ScreenFunc),
	}
}

// Register binds a handler to a route pattern of the table.
func (n *Navigator) Register(route string, fn ScreenFunc) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.screens[route] = fn
}

// Navigate asks the gate about path with the current session, follows
// redirects and runs the handler of the route it lands on.
func (n *Navigator) Navigate(ctx context.Context, path string) (Result, error) {
	res := Result{Path: path}
	for hop := 0; ; hop++ {
		sess := n.sessions.Current()
		d := n.table.CanAccess(res.Path, sess)
		if !d.Allowed {
			if hop >= maxRedirects {
				return res, fmt.Errorf("navigate %s: %w", path, ErrTooManyRedirects)
			}
			if d.ReturnTo != "" {
				res.ReturnTo = d.ReturnTo
				n.mu.Lock()
				n.returnTo = d.ReturnTo
				n.mu.Unlock()
			}
			n.logger.Debug("navigation redirected", zap.String("from", res.Path), zap.String("to", d.RedirectTo))
			res.Redirected = append(res.Redirected, res.Path)
			res.Path = d.RedirectTo
			continue
		}

		res.Route = d.Route
		n.mu.RLock()
		handler, ok := n.screens[d.Route]
		n.mu.RUnlock()
		if !ok {
			return res, fmt.Errorf("navigate %s: %w: %s", path, ErrScreenNotRegistered, d.Route)
		}
		return res, handler(ctx, Request{Path: res.Path, Route: d.Route, Params: d.Params, Session: sess})
	}
}

// TakeReturnTo returns and forgets the path remembered by the last redirect
// to the login screen.
func (n *Navigator) TakeReturnTo() string {
	n.mu.Lock()
	defer n.mu.Unlock()
	p := n.returnTo
	n.returnTo = ""
	return p
}

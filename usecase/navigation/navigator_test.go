package navigation

import (
	"context"
	"errors"
	"testing"

	"github.com/fastygo/foodshare/domain"
	"github.com/fastygo/foodshare/usecase/gate"
)

type fakeSessions struct {
	current domain.Session
}

func (f *fakeSessions) Current() domain.Session { return f.current }

func TestNavigateRedirectsAnonymousToLogin(t *testing.T) {
	sessions := &fakeSessions{}
	nav := New(sessions, gate.DefaultTable(), nil)

	var visited []string
	record := func(_ context.Context, req Request) error {
		visited = append(visited, req.Route)
		return nil
	}
	nav.Register(gate.RouteLogin, record)
	nav.Register(gate.RouteDashboard, record)

	res, err := nav.Navigate(context.Background(), "/")
	if err != nil {
		t.Fatalf("Navigate: %v", err)
	}
	if res.Route != gate.RouteLogin || res.ReturnTo != gate.RouteDashboard {
		t.Fatalf("unexpected result %+v", res)
	}
	if len(res.Redirected) != 2 || res.Redirected[0] != "/" || res.Redirected[1] != gate.RouteDashboard {
		t.Fatalf("redirect chain = %v", res.Redirected)
	}
	if nav.TakeReturnTo() != gate.RouteDashboard || nav.TakeReturnTo() != "" {
		t.Fatal("return-to should be remembered once")
	}

	sessions.current = domain.Session{UserID: "1"}
	if _, err := nav.Navigate(context.Background(), "/dashboard"); err != nil {
		t.Fatalf("Navigate: %v", err)
	}
	if len(visited) != 2 || visited[1] != gate.RouteDashboard {
		t.Fatalf("visited = %v", visited)
	}
}

func TestNavigatePassesParams(t *testing.T) {
	nav := New(&fakeSessions{current: domain.Session{UserID: "1"}}, gate.DefaultTable(), nil)
	var got string
	nav.Register("/food/edit/{id}", func(_ context.Context, req Request) error {
		got = req.Params["id"]
		return nil
	})

	if _, err := nav.Navigate(context.Background(), "/food/edit/12"); err != nil {
		t.Fatalf("Navigate: %v", err)
	}
	if got != "12" {
		t.Fatalf("id = %q", got)
	}
}

func TestNavigateErrors(t *testing.T) {
	nav := New(&fakeSessions{current: domain.Session{UserID: "1"}}, gate.DefaultTable(), nil)
	if _, err := nav.Navigate(context.Background(), "/transactions"); !errors.Is(err, ErrScreenNotRegistered) {
		t.Fatalf("expected ErrScreenNotRegistered, got %v", err)
	}

	boom := errors.New("render failed")
	nav.Register(gate.RouteNotFound, func(context.Context, Request) error { return boom })
	res, err := nav.Navigate(context.Background(), "/nowhere")
	if !errors.Is(err, boom) || res.Route != gate.RouteNotFound {
		t.Fatalf("got %+v, %v", res, err)
	}

	loop := gate.NewTable(nil, map[string]string{"/a": "/b", "/b": "/a"})
	if _, err := New(&fakeSessions{}, loop, nil).Navigate(context.Background(), "/a"); !errors.Is(err, ErrTooManyRedirects) {
		t.Fatalf("expected ErrTooManyRedirects, got %v", err)
	}
}

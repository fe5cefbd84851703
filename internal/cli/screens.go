package cli

import (
	"context"
	"flag"
	"fmt"

	"go.uber.org/zap"

	"github.com/fastygo/foodshare/domain"
	"github.com/fastygo/foodshare/usecase/gate"
	"github.com/fastygo/foodshare/usecase/navigation"
)

const (
	routeProfile      = "/profile"
	routeAddFood      = "/food/add"
	routeMyFoods      = "/food/my"
	routeEditFood     = "/food/edit/{id}"
	routeAddRequest   = "/requests/add"
	routeMyRequests   = "/requests/my"
	routeTransactions = "/transactions"
)

func (a *App) registerScreens() {
	a.nav.Register(gate.RouteLogin, func(context.Context, navigation.Request) error {
		fmt.Fprintln(a.out, "Not logged in. Run: foodshare login -email EMAIL -password PASSWORD")
		return nil
	})
	a.nav.Register(gate.RouteRegister, func(context.Context, navigation.Request) error {
		fmt.Fprintln(a.out, "Create an account with: foodshare register -name NAME -email EMAIL -password PASSWORD -roles donor,receiver")
		return nil
	})
	a.nav.Register(gate.RouteNotFound, func(_ context.Context, req navigation.Request) error {
		fmt.Fprintf(a.out, "Page not found: %s\n", req.Path)
		return nil
	})

	a.nav.Register(gate.RouteDashboard, func(ctx context.Context, _ navigation.Request) error {
		screen := a.rec.Dashboard()
		if err := screen.Reload(ctx); err != nil {
			return err
		}
		renderDashboard(a.out, screen.Snapshot().Data)
		return nil
	})
	a.nav.Register(routeProfile, func(ctx context.Context, _ navigation.Request) error {
		screen := a.rec.Profile()
		if err := screen.Reload(ctx); err != nil {
			return err
		}
		renderProfile(a.out, screen.Snapshot().Data)
		return nil
	})
	a.nav.Register(routeMyFoods, func(ctx context.Context, _ navigation.Request) error {
		screen := a.rec.MyFoods()
		if err := screen.Reload(ctx); err != nil {
			return err
		}
		renderFoods(a.out, screen.Snapshot().Data)
		return nil
	})
	a.nav.Register(routeEditFood, func(ctx context.Context, req navigation.Request) error {
		screen := a.rec.MyFoods()
		if err := screen.Reload(ctx); err != nil {
			return err
		}
		id := req.Params["id"]
		for _, f := range screen.Snapshot().Data {
			if f.ID == id {
				renderFoods(a.out, []domain.FoodItem{f})
				fmt.Fprintf(a.out, "Edit with: foodshare update-food %s -name NAME -quantity Q -expiry YYYY-MM-DD\n", id)
				return nil
			}
		}
		fmt.Fprintf(a.out, "Food item %s not found\n", id)
		return nil
	})
	a.nav.Register(routeMyRequests, func(ctx context.Context, _ navigation.Request) error {
		screen := a.rec.MyRequests()
		if err := screen.Reload(ctx); err != nil {
			return err
		}
		renderRequests(a.out, screen.Snapshot().Data)
		return nil
	})
	a.nav.Register(routeTransactions, func(ctx context.Context, _ navigation.Request) error {
		screen := a.rec.Transactions()
		if err := screen.Reload(ctx); err != nil {
			return err
		}
		renderTransactions(a.out, screen.Snapshot().Data)
		return nil
	})
	a.nav.Register(routeAddFood, func(context.Context, navigation.Request) error {
		fmt.Fprintln(a.out, "List food with: foodshare add-food -name NAME -quantity Q -expiry YYYY-MM-DD")
		return nil
	})
	a.nav.Register(routeAddRequest, func(context.Context, navigation.Request) error {
		fmt.Fprintln(a.out, "Post a request with: foodshare add-request -type TYPE -quantity Q -urgency low|medium|high")
		return nil
	})
}

// navigate opens path through the gate and reports redirects on stderr.
func (a *App) navigate(ctx context.Context, path string) error {
	res, err := a.nav.Navigate(ctx, path)
	if len(res.Redirected) > 0 {
		a.logger.Debug("navigation redirected", zap.Strings("from", res.Redirected), zap.String("to", res.Path))
		fmt.Fprintf(a.err, "redirected: %s -> %s\n", res.Redirected[0], res.Path)
	}
	if res.ReturnTo != "" && res.Route == gate.RouteLogin {
		fmt.Fprintf(a.err, "log in to continue to %s\n", res.ReturnTo)
	}
	return err
}

// setFlags reports which flags were given on the command line.
func setFlags(fs *flag.FlagSet) map[string]bool {
	set := make(map[string]bool)
	fs.Visit(func(f *flag.Flag) { set[f.Name] = true })
	return set
}

package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/fastygo/foodshare/api/transport"
	"github.com/fastygo/foodshare/domain"
	"github.com/fastygo/foodshare/internal/services"
	"github.com/fastygo/foodshare/usecase/gate"
	"github.com/fastygo/foodshare/usecase/reconcile"
)

func (a *App) commandTable() map[string]command {
	return map[string]command{
		"login":          {usage: "login -email E -password P [-open ROUTE]", summary: "log in and remember the session", run: a.login},
		"register":       {usage: "register -name N -email E -password P -roles donor,receiver [-phone] [-lat] [-long]", summary: "create an account", run: a.register},
		"logout":         {usage: "logout", summary: "forget the session", run: a.logout},
		"whoami":         {usage: "whoami", summary: "show the current session", run: a.whoami},
		"open":           {usage: "open ROUTE", summary: "navigate to a client route", run: a.open},
		"dashboard":      {usage: "dashboard", summary: "show the role dashboard", run: a.dashboard},
		"foods":          {usage: "foods", summary: "list my food items", run: a.foods},
		"add-food":       {usage: "add-food -name N -quantity Q -expiry YYYY-MM-DD", summary: "list a food item", run: a.addFood},
		"update-food":    {usage: "update-food ID [-name N] [-quantity Q] [-expiry YYYY-MM-DD]", summary: "change a food item", run: a.updateFood},
		"delete-food":    {usage: "delete-food ID", summary: "remove a food item", run: a.deleteFood},
		"nearby":         {usage: "nearby", summary: "list nearby requests", run: a.nearby},
		"match":          {usage: "match FOOD_ID REQUEST_ID", summary: "match a food item with a request", run: a.match},
		"requests":       {usage: "requests", summary: "list my requests", run: a.requests},
		"add-request":    {usage: "add-request -type T -quantity Q -urgency low|medium|high [-deadline TIME]", summary: "post a food request", run: a.addRequest},
		"update-request": {usage: "update-request ID [-quantity Q] [-urgency U] [-status S]", summary: "change a request", run: a.updateRequest},
		"cancel-request": {usage: "cancel-request ID", summary: "cancel a request", run: a.cancelRequest},
		"accept":         {usage: "accept FOOD_ID [-request REQUEST_ID]", summary: "claim a food item", run: a.accept},
		"claim":          {usage: "claim FOOD_ID -donor DONOR_ID [-receiver RECEIVER_ID]", summary: "record a direct transaction for a food item", run: a.claim},
		"transactions":   {usage: "transactions [-donor | -all]", summary: "list transactions", run: a.transactions},
		"txn-status":     {usage: "txn-status ID STATUS", summary: "update a transaction status", run: a.txnStatus},
		"profile":        {usage: "profile", summary: "show my profile", run: a.profile},
		"update-profile": {usage: "update-profile [-name N] [-phone P] [-lat X] [-long Y]", summary: "change my profile", run: a.updateProfile},
		"watch":          {usage: "watch [-screens dashboard,foods,...] [-interval 30s]", summary: "reload screens periodically", run: a.watchScreens},
	}
}

func (a *App) login(ctx context.Context, args []string) error {
	fs := a.flags("login")
	email := fs.String("email", "", "account email")
	password := fs.String("password", "", "account password")
	next := fs.String("open", "", "route to open after logging in")
	if err := parse(fs, args); err != nil {
		return err
	}
	if *email == "" || *password == "" {
		return usagef("email and password are required")
	}

	sess, err := a.sessions.Login(ctx, *email, *password)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Logged in as user %s (%s)\n", sess.UserID, sess.Roles.Label())

	target := a.nav.TakeReturnTo()
	if target == "" {
		target = *next
	}
	if target == "" {
		return nil
	}
	return a.navigate(ctx, target)
}

func (a *App) register(ctx context.Context, args []string) error {
	fs := a.flags("register")
	var r domain.Registration
	var roles string
	fs.StringVar(&r.Name, "name", "", "full name")
	fs.StringVar(&r.Email, "email", "", "email")
	fs.StringVar(&r.Password, "password", "", "password")
	fs.StringVar(&r.Phone, "phone", "", "phone number")
	fs.Float64Var(&r.Latitude, "lat", 0, "location latitude")
	fs.Float64Var(&r.Longitude, "long", 0, "location longitude")
	fs.StringVar(&roles, "roles", "", "comma separated roles: donor, receiver")
	if err := parse(fs, args); err != nil {
		return err
	}
	r.Roles = domain.ParseRoles(roles)
	if err := r.Validate(); err != nil {
		return usagef("%s", reconcile.Message(err))
	}

	if err := a.sessions.Register(ctx, r); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Registration successful. Log in with: foodshare login -email", r.Email)
	return nil
}

func (a *App) logout(ctx context.Context, _ []string) error {
	a.sessions.Logout(ctx)
	fmt.Fprintln(a.out, "Logged out")
	return nil
}

func (a *App) whoami(context.Context, []string) error {
	s := a.sessions.Current()
	if !s.IsAuthenticated() {
		fmt.Fprintln(a.out, "anonymous")
		return nil
	}
	fmt.Fprintf(a.out, "user %s (%s)\n", s.UserID, s.Roles.Label())
	return nil
}

func (a *App) open(ctx context.Context, args []string) error {
	pos, _, err := positional(args, 1, "ROUTE")
	if err != nil {
		return err
	}
	return a.navigate(ctx, pos[0])
}

func (a *App) dashboard(ctx context.Context, _ []string) error {
	return a.navigate(ctx, gate.RouteDashboard)
}

func (a *App) foods(ctx context.Context, _ []string) error {
	return a.navigate(ctx, routeMyFoods)
}

func (a *App) requests(ctx context.Context, _ []string) error {
	return a.navigate(ctx, routeMyRequests)
}

func (a *App) profile(ctx context.Context, _ []string) error {
	return a.navigate(ctx, routeProfile)
}

func (a *App) nearby(ctx context.Context, _ []string) error {
	screen := a.rec.Nearby()
	if err := screen.Reload(ctx); err != nil {
		return err
	}
	renderRequests(a.out, screen.Snapshot().Data)
	return nil
}

func (a *App) addFood(ctx context.Context, args []string) error {
	fs := a.flags("add-food")
	name := fs.String("name", "", "food name")
	quantity := fs.Int("quantity", 0, "quantity")
	expiry := fs.String("expiry", "", "expiry date")
	if err := parse(fs, args); err != nil {
		return err
	}
	expiresAt, err := parseTime("expiry", *expiry)
	if err != nil {
		return err
	}
	return a.rec.AddFood(ctx, domain.NewFood{Name: *name, Quantity: *quantity, ExpiryDate: expiresAt})
}

func (a *App) updateFood(ctx context.Context, args []string) error {
	pos, rest, err := positional(args, 1, "ID")
	if err != nil {
		return err
	}
	fs := a.flags("update-food")
	name := fs.String("name", "", "food name")
	quantity := fs.Int("quantity", 0, "quantity")
	expiry := fs.String("expiry", "", "expiry date")
	if err := parse(fs, rest); err != nil {
		return err
	}

	var u domain.FoodUpdate
	set := setFlags(fs)
	if set["name"] {
		u.Name = name
	}
	if set["quantity"] {
		u.Quantity = quantity
	}
	if set["expiry"] {
		t, err := parseTime("expiry", *expiry)
		if err != nil {
			return err
		}
		u.ExpiryDate = &t
	}
	return a.rec.UpdateFood(ctx, pos[0], u)
}

func (a *App) deleteFood(ctx context.Context, args []string) error {
	pos, _, err := positional(args, 1, "ID")
	if err != nil {
		return err
	}
	return a.rec.DeleteFood(ctx, pos[0])
}

func (a *App) match(ctx context.Context, args []string) error {
	pos, _, err := positional(args, 2, "FOOD_ID", "REQUEST_ID")
	if err != nil {
		return err
	}
	if err := a.rec.Match(ctx, pos[0], pos[1], a.rec.MyFoods(), a.rec.Nearby(), a.rec.Transactions()); err != nil {
		return err
	}
	renderFoods(a.out, a.rec.MyFoods().Snapshot().Data)
	return nil
}

func (a *App) addRequest(ctx context.Context, args []string) error {
	fs := a.flags("add-request")
	foodType := fs.String("type", "", "food type")
	quantity := fs.Int("quantity", 0, "quantity")
	urgency := fs.String("urgency", string(domain.UrgencyMedium), "low, medium or high")
	deadline := fs.String("deadline", "", "optional deadline")
	if err := parse(fs, args); err != nil {
		return err
	}
	req := domain.NewRequest{
		FoodType: *foodType,
		Quantity: *quantity,
		Urgency:  domain.Urgency(strings.ToLower(*urgency)),
	}
	if *deadline != "" {
		t, err := parseTime("deadline", *deadline)
		if err != nil {
			return err
		}
		req.Deadline = t
	}
	return a.rec.CreateRequest(ctx, req)
}

func (a *App) updateRequest(ctx context.Context, args []string) error {
	pos, rest, err := positional(args, 1, "ID")
	if err != nil {
		return err
	}
	fs := a.flags("update-request")
	quantity := fs.Int("quantity", 0, "quantity")
	urgency := fs.String("urgency", "", "low, medium or high")
	status := fs.String("status", "", "request status")
	if err := parse(fs, rest); err != nil {
		return err
	}

	var u domain.RequestUpdate
	set := setFlags(fs)
	if set["quantity"] {
		u.Quantity = quantity
	}
	if set["urgency"] {
		v := domain.Urgency(strings.ToLower(*urgency))
		u.Urgency = &v
	}
	if set["status"] {
		v := domain.ParseRequestStatus(*status)
		u.Status = &v
	}
	return a.rec.UpdateRequest(ctx, pos[0], u)
}

func (a *App) cancelRequest(ctx context.Context, args []string) error {
	pos, _, err := positional(args, 1, "ID")
	if err != nil {
		return err
	}
	return a.rec.CancelRequest(ctx, pos[0])
}

func (a *App) accept(ctx context.Context, args []string) error {
	pos, rest, err := positional(args, 1, "FOOD_ID")
	if err != nil {
		return err
	}
	fs := a.flags("accept")
	requestID := fs.String("request", "", "request the food fulfils")
	if err := parse(fs, rest); err != nil {
		return err
	}
	return a.rec.AcceptFood(ctx, pos[0], *requestID)
}

func (a *App) claim(ctx context.Context, args []string) error {
	pos, rest, err := positional(args, 1, "FOOD_ID")
	if err != nil {
		return err
	}
	fs := a.flags("claim")
	t := domain.NewTransaction{FoodID: pos[0]}
	fs.StringVar(&t.DonorID, "donor", "", "donor of the food item")
	fs.StringVar(&t.ReceiverID, "receiver", "", "receiving user, defaults to me")
	if err := parse(fs, rest); err != nil {
		return err
	}
	if err := a.rec.CreateTransaction(ctx, t); err != nil {
		return err
	}
	renderTransactions(a.out, a.rec.Transactions().Snapshot().Data)
	return nil
}

func (a *App) transactions(ctx context.Context, args []string) error {
	fs := a.flags("transactions")
	donor := fs.Bool("donor", false, "only transactions I donated")
	all := fs.Bool("all", false, "every transaction")
	if err := parse(fs, args); err != nil {
		return err
	}
	switch {
	case *donor && *all:
		return usagef("-donor and -all are exclusive")
	case *donor:
		txns, err := a.rec.LoadDonorTransactions(ctx)
		if err != nil {
			return err
		}
		renderTransactions(a.out, txns)
		return nil
	case *all:
		txns, err := a.rec.LoadAllTransactions(ctx)
		if err != nil {
			return err
		}
		renderTransactions(a.out, txns)
		return nil
	default:
		return a.navigate(ctx, routeTransactions)
	}
}

func (a *App) txnStatus(ctx context.Context, args []string) error {
	pos, _, err := positional(args, 2, "ID", "STATUS")
	if err != nil {
		return err
	}
	return a.rec.UpdateTransactionStatus(ctx, pos[0], strings.ToLower(pos[1]))
}

func (a *App) updateProfile(ctx context.Context, args []string) error {
	fs := a.flags("update-profile")
	name := fs.String("name", "", "full name")
	phone := fs.String("phone", "", "phone number")
	lat := fs.Float64("lat", 0, "location latitude")
	long := fs.Float64("long", 0, "location longitude")
	if err := parse(fs, args); err != nil {
		return err
	}

	var u domain.ProfileUpdate
	set := setFlags(fs)
	if set["name"] {
		u.Name = name
	}
	if set["phone"] {
		u.Phone = phone
	}
	if set["lat"] {
		u.Latitude = lat
	}
	if set["long"] {
		u.Longitude = long
	}
	if err := a.rec.UpdateProfile(ctx, u); err != nil {
		return err
	}
	renderProfile(a.out, a.rec.Profile().Snapshot().Data)
	return nil
}

// watchScreens reloads the chosen screens on a schedule until ctx ends.
func (a *App) watchScreens(ctx context.Context, args []string) error {
	fs := a.flags("watch")
	names := fs.String("screens", "dashboard", "comma separated: dashboard, foods, requests, nearby, transactions, profile")
	interval := fs.Duration("interval", a.watch.Interval, "reload interval")
	if err := parse(fs, args); err != nil {
		return err
	}
	if !a.sessions.Current().IsAuthenticated() {
		return domain.ErrNoSession
	}

	var screens []reconcile.Reloader
	for _, name := range strings.Split(*names, ",") {
		s, ok := a.watchable(strings.TrimSpace(name))
		if !ok {
			return usagef("unknown screen %q", name)
		}
		screens = append(screens, s)
	}

	refresher, err := services.NewRefresher(a.logger, services.RefresherConfig{Interval: *interval}, func(context.Context) {
		a.renderWatched(screens)
	}, screens...)
	if err != nil {
		return err
	}
	refresher.Tick(ctx)
	refresher.Start()
	<-ctx.Done()

	stopCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()
	return refresher.Stop(stopCtx)
}

func (a *App) watchable(name string) (reconcile.Reloader, bool) {
	switch name {
	case "dashboard":
		return a.rec.Dashboard(), true
	case "foods":
		return a.rec.MyFoods(), true
	case "requests":
		return a.rec.MyRequests(), true
	case "nearby":
		return a.rec.Nearby(), true
	case "transactions":
		return a.rec.Transactions(), true
	case "profile":
		return a.rec.Profile(), true
	}
	return nil, false
}

func (a *App) renderWatched(screens []reconcile.Reloader) {
	fmt.Fprintf(a.out, "-- %s --\n", time.Now().Format(time.TimeOnly))
	for _, s := range screens {
		switch s.Name() {
		case reconcile.ScreenDashboard:
			renderDashboard(a.out, a.rec.Dashboard().Snapshot().Data)
		case reconcile.ScreenMyFoods:
			renderFoods(a.out, a.rec.MyFoods().Snapshot().Data)
		case reconcile.ScreenMyRequests:
			renderRequests(a.out, a.rec.MyRequests().Snapshot().Data)
		case reconcile.ScreenNearby:
			renderRequests(a.out, a.rec.Nearby().Snapshot().Data)
		case reconcile.ScreenTransactions:
			renderTransactions(a.out, a.rec.Transactions().Snapshot().Data)
		case reconcile.ScreenProfile:
			renderProfile(a.out, a.rec.Profile().Snapshot().Data)
		}
	}
	a.flushNotifications()
}

func parseTime(name, value string) (time.Time, error) {
	if strings.TrimSpace(value) == "" {
		return time.Time{}, usagef("-%s is required", name)
	}
	t, ok := transport.ParseTime(value)
	if !ok {
		return time.Time{}, usagef("-%s: cannot parse %q", name, value)
	}
	return t, nil
}

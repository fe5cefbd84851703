// Package reconcile keeps per-screen data in sync with the remote API. It
// loads and normalizes server payloads, derives view aggregates and reloads
// affected screens after every mutation. It never patches data locally.
package reconcile

import (
	"context"
	"encoding/json"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/fastygo/foodshare/domain"
)

// API is the subset of the remote client the reconciler calls.
type API interface {
	GetProfile(ctx context.Context, userID string) (domain.User, error)
	UpdateProfile(ctx context.Context, userID string, u domain.ProfileUpdate) error
	AddFood(ctx context.Context, f domain.NewFood) (string, error)
	MyFoods(ctx context.Context, donorID string) (json.RawMessage, error)
	UpdateFood(ctx context.Context, foodID string, u domain.FoodUpdate) error
	DeleteFood(ctx context.Context, foodID string) error
	NearbyRequests(ctx context.Context) (json.RawMessage, error)
	Match(ctx context.Context, foodID, requestID string) error
	DonorTransactions(ctx context.Context, donorID string) (json.RawMessage, error)
	CreateRequest(ctx context.Context, r domain.NewRequest) (string, error)
	AllRequests(ctx context.Context) (json.RawMessage, error)
	UpdateRequest(ctx context.Context, requestID string, u domain.RequestUpdate) error
	CancelRequest(ctx context.Context, requestID string) error
	AcceptFood(ctx context.Context, foodID, receiverID, requestID string) error
	UserTransactions(ctx context.Context, userID string) (json.RawMessage, error)
	CreateTransaction(ctx context.Context, t domain.NewTransaction) (string, error)
	AllTransactions(ctx context.Context) (json.RawMessage, error)
	UpdateTransactionStatus(ctx context.Context, txnID, status string) error
}

// Sessions is the view of the session store the reconciler needs.
type Sessions interface {
	Current() domain.Session
	Invalidate(ctx context.Context, reason string)
}

// Options tune read behaviour. Mutations are never retried.
type Options struct {
	ReadRetries  int
	RetryBackoff time.Duration
}

// Screen names.
const (
	ScreenDashboard    = "dashboard"
	ScreenMyFoods      = "my-foods"
	ScreenMyRequests   = "my-requests"
	ScreenNearby       = "nearby-requests"
	ScreenTransactions = "transactions"
	ScreenProfile      = "profile"
)

type Reconciler struct {
	api      API
	sessions Sessions
	notifier Notifier
	logger   *zap.Logger
	opts     Options

	dashboard    *Screen[Dashboard]
	myFoods      *Screen[[]domain.FoodItem]
	myRequests   *Screen[[]domain.FoodRequest]
	nearby       *Screen[[]domain.FoodRequest]
	transactions *Screen[[]domain.Transaction]
	profile      *Screen[domain.User]
}

func New(api API, sessions Sessions, notifier Notifier, logger *zap.Logger, opts Options) *Reconciler {
	if logger == nil {
		logger = zap.NewNop()
	}
	if notifier == nil {
		notifier = nopNotifier{}
	}
	if opts.ReadRetries < 0 {
		opts.ReadRetries = 0
	}
	if opts.RetryBackoff <= 0 {
		opts.RetryBackoff = 200 * time.Millisecond
	}

	r := &Reconciler{
		api:      api,
		sessions: sessions,
		notifier: notifier,
		logger:   logger,
		opts:     opts,
	}
	r.dashboard = NewScreen(ScreenDashboard, observed(r, ScreenDashboard, r.LoadDashboard))
	r.myFoods = NewScreen(ScreenMyFoods, observed(r, ScreenMyFoods, r.LoadMyFoods))
	r.myRequests = NewScreen(ScreenMyRequests, observed(r, ScreenMyRequests, r.LoadMyRequests))
	r.nearby = NewScreen(ScreenNearby, observed(r, ScreenNearby, r.LoadNearbyRequests))
	r.transactions = NewScreen(ScreenTransactions, observed(r, ScreenTransactions, r.LoadTransactions))
	r.profile = NewScreen(ScreenProfile, observed(r, ScreenProfile, r.LoadProfile))
	return r
}

func (r *Reconciler) Dashboard() *Screen[Dashboard]               { return r.dashboard }
func (r *Reconciler) MyFoods() *Screen[[]domain.FoodItem]         { return r.myFoods }
func (r *Reconciler) MyRequests() *Screen[[]domain.FoodRequest]   { return r.myRequests }
func (r *Reconciler) Nearby() *Screen[[]domain.FoodRequest]       { return r.nearby }
func (r *Reconciler) Transactions() *Screen[[]domain.Transaction] { return r.transactions }
func (r *Reconciler) Profile() *Screen[domain.User]               { return r.profile }

// observed turns every load failure of a screen into a notification.
func observed[T any](r *Reconciler, screen string, load LoadFunc[T]) LoadFunc[T] {
	return func(ctx context.Context) (T, error) {
		data, err := load(ctx)
		if err != nil {
			r.logger.Debug("screen load failed", zap.String("screen", screen), zap.Error(err))
			r.notifier.Notify(Notification{Level: LevelError, Message: Message(err), Screen: screen, Err: err})
		}
		return data, err
	}
}

func (r *Reconciler) session() (domain.Session, error) {
	s := r.sessions.Current()
	if !s.IsAuthenticated() {
		return s, domain.ErrNoSession
	}
	return s, nil
}

// fetch performs an authenticated read, retrying transient failures and
// invalidating the session when the server rejects it.
func fetch[T any](ctx context.Context, r *Reconciler, name string, call func(ctx context.Context) (T, error)) (T, error) {
	var (
		zero    T
		lastErr error
	)
	for attempt := 0; attempt <= r.opts.ReadRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return zero, lastErr
			case <-time.After(r.opts.RetryBackoff * time.Duration(attempt)):
			}
			r.logger.Debug("retrying read", zap.String("call", name), zap.Int("attempt", attempt))
		}
		data, err := call(ctx)
		if err == nil {
			return data, nil
		}
		lastErr = err
		if r.checkUnauthorized(ctx, err) || !retryable(err) {
			break
		}
	}
	return zero, lastErr
}

func (r *Reconciler) checkUnauthorized(ctx context.Context, err error) bool {
	if !domain.IsDomainError(err, domain.ErrCodeUnauthorized) {
		return false
	}
	if r.sessions.Current().IsAuthenticated() {
		r.sessions.Invalidate(ctx, Message(err))
	}
	return true
}

func retryable(err error) bool {
	switch {
	case domain.IsDomainError(err, domain.ErrCodeTransport),
		domain.IsDomainError(err, domain.ErrCodeTimeout):
		return true
	default:
		return domain.StatusOf(err) >= 500
	}
}

func (r *Reconciler) LoadMyFoods(ctx context.Context) ([]domain.FoodItem, error) {
	s, err := r.session()
	if err != nil {
		return nil, err
	}
	raw, err := fetch(ctx, r, "my-foods", func(ctx context.Context) (json.RawMessage, error) {
		return r.api.MyFoods(ctx, s.UserID)
	})
	if err != nil {
		return nil, err
	}
	return Foods(raw), nil
}

func (r *Reconciler) LoadNearbyRequests(ctx context.Context) ([]domain.FoodRequest, error) {
	if _, err := r.session(); err != nil {
		return nil, err
	}
	raw, err := fetch(ctx, r, "nearby-requests", r.api.NearbyRequests)
	if err != nil {
		return nil, err
	}
	return Requests(raw), nil
}

// LoadMyRequests fetches every request and keeps the caller's own.
func (r *Reconciler) LoadMyRequests(ctx context.Context) ([]domain.FoodRequest, error) {
	s, err := r.session()
	if err != nil {
		return nil, err
	}
	raw, err := fetch(ctx, r, "all-requests", r.api.AllRequests)
	if err != nil {
		return nil, err
	}
	return OwnRequests(Requests(raw), s.UserID), nil
}

// LoadTransactions treats a 404 as "no transactions yet".
func (r *Reconciler) LoadTransactions(ctx context.Context) ([]domain.Transaction, error) {
	s, err := r.session()
	if err != nil {
		return nil, err
	}
	raw, err := fetch(ctx, r, "user-transactions", func(ctx context.Context) (json.RawMessage, error) {
		return r.api.UserTransactions(ctx, s.UserID)
	})
	if domain.IsDomainError(err, domain.ErrCodeNotFound) {
		return []domain.Transaction{}, nil
	}
	if err != nil {
		return nil, err
	}
	return Transactions(raw), nil
}

// LoadDonorTransactions lists transactions where the caller donated.
func (r *Reconciler) LoadDonorTransactions(ctx context.Context) ([]domain.Transaction, error) {
	s, err := r.session()
	if err != nil {
		return nil, err
	}
	raw, err := fetch(ctx, r, "donor-transactions", func(ctx context.Context) (json.RawMessage, error) {
		return r.api.DonorTransactions(ctx, s.UserID)
	})
	if domain.IsDomainError(err, domain.ErrCodeNotFound) {
		return []domain.Transaction{}, nil
	}
	if err != nil {
		return nil, err
	}
	return Transactions(raw), nil
}

// LoadAllTransactions lists every transaction the backend knows about.
func (r *Reconciler) LoadAllTransactions(ctx context.Context) ([]domain.Transaction, error) {
	if _, err := r.session(); err != nil {
		return nil, err
	}
	raw, err := fetch(ctx, r, "all-transactions", r.api.AllTransactions)
	if err != nil {
		return nil, err
	}
	return Transactions(raw), nil
}

func (r *Reconciler) LoadProfile(ctx context.Context) (domain.User, error) {
	s, err := r.session()
	if err != nil {
		return domain.User{}, err
	}
	user, err := fetch(ctx, r, "profile", func(ctx context.Context) (domain.User, error) {
		return r.api.GetProfile(ctx, s.UserID)
	})
	if err != nil {
		return domain.User{}, err
	}
	if user.Roles.Empty() {
		user.Roles = s.Roles
	}
	return user, nil
}

// LoadDonorDashboard fetches own foods and nearby requests concurrently. Both
// must succeed.
func (r *Reconciler) LoadDonorDashboard(ctx context.Context) (DonorDashboard, error) {
	var d DonorDashboard
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		foods, err := r.LoadMyFoods(gctx)
		d.Foods = foods
		return err
	})
	g.Go(func() error {
		nearby, err := r.LoadNearbyRequests(gctx)
		d.Nearby = nearby
		return err
	})
	if err := g.Wait(); err != nil {
		return DonorDashboard{}, err
	}
	return d, nil
}

func (r *Reconciler) LoadReceiverDashboard(ctx context.Context) (ReceiverDashboard, error) {
	requests, err := r.LoadMyRequests(ctx)
	if err != nil {
		return ReceiverDashboard{}, err
	}
	return ReceiverDashboard{Requests: requests}, nil
}

// LoadDashboard selects the variant from the session's roles once and loads
// it. A session without roles gets an empty dashboard.
func (r *Reconciler) LoadDashboard(ctx context.Context) (Dashboard, error) {
	s, err := r.session()
	if err != nil {
		return Dashboard{}, err
	}
	view, ok := SelectView(s.Roles)
	if !ok {
		return Dashboard{Kind: ViewNone, Roles: s.Roles}, nil
	}

	d := Dashboard{Kind: view, Roles: s.Roles}
	switch view {
	case DonorView:
		d.Donor, err = r.LoadDonorDashboard(ctx)
	case ReceiverView:
		d.Receiver, err = r.LoadReceiverDashboard(ctx)
	case CombinedView:
		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			var err error
			d.Donor, err = r.LoadDonorDashboard(gctx)
			return err
		})
		g.Go(func() error {
			var err error
			d.Receiver, err = r.LoadReceiverDashboard(gctx)
			return err
		})
		err = g.Wait()
	}
	if err != nil {
		return Dashboard{}, err
	}
	return d, nil
}

package reconcile_test

import (
	"context"
	"net"
	"strconv"
	"testing"
	"time"

	"github.com/valyala/fasthttp"
	"github.com/valyala/fasthttp/fasthttputil"
	"golang.org/x/crypto/bcrypt"

	"github.com/fastygo/foodshare/api/client"
	"github.com/fastygo/foodshare/domain"
	"github.com/fastygo/foodshare/internal/router"
	"github.com/fastygo/foodshare/internal/stubapi"
	"github.com/fastygo/foodshare/repository/memory"
	"github.com/fastygo/foodshare/usecase/reconcile"
	"github.com/fastygo/foodshare/usecase/session"
)

type stack struct {
	store    *stubapi.Store
	api      *client.Client
	sessions *session.Store
	rec      *reconcile.Reconciler
	inbox    *reconcile.Inbox
}

func newStack(t *testing.T) *stack {
	t.Helper()
	store := stubapi.NewStore(stubapi.WithHashCost(bcrypt.MinCost))
	ln := fasthttputil.NewInmemoryListener()
	go func() { _ = fasthttp.Serve(ln, router.NewStub(store, nil, nil)) }()
	t.Cleanup(func() { _ = ln.Close() })

	s := &stack{store: store, inbox: &reconcile.Inbox{}}
	hc := &fasthttp.Client{Dial: func(string) (net.Conn, error) { return ln.Dial() }}
	s.api = client.New(client.Config{BaseURL: "http://stub.test", Timeout: time.Second},
		client.IdentityFunc(func() string { return s.sessions.UserID() }), nil,
		client.WithHTTPClient(hc))
	s.sessions = session.New(memory.NewSessionStorage(), s.api, nil)
	s.rec = reconcile.New(s.api, s.sessions, s.inbox, nil, reconcile.Options{})
	return s
}

func (s *stack) login(t *testing.T, email string) domain.Session {
	t.Helper()
	sess, err := s.sessions.Login(context.Background(), email, "pw")
	if err != nil {
		t.Fatalf("login %s: %v", email, err)
	}
	return sess
}

func register(t *testing.T, s *stubapi.Store, email string, roles ...domain.Role) stubapi.User {
	t.Helper()
	u, err := s.Register(stubapi.User{Name: email, Email: email, Roles: domain.NewRoleSet(roles...)}, "pw")
	if err != nil {
		t.Fatalf("register %s: %v", email, err)
	}
	return u
}

func TestMatchThenReloadAgainstStub(t *testing.T) {
	s := newStack(t)
	ctx := context.Background()
	donor := register(t, s.store, "d@x", domain.RoleDonor)
	receiver := register(t, s.store, "r@x", domain.RoleReceiver)
	food, _ := s.store.AddFood(stubapi.Food{DonorID: donor.ID, Name: "Rice", Quantity: 4, Expiry: time.Now().Add(48 * time.Hour)})
	req, _ := s.store.AddRequest(stubapi.Request{ReceiverID: receiver.ID, FoodType: "rice", Quantity: 4, Urgency: "high"})

	s.login(t, "d@x")
	foods, err := s.rec.LoadMyFoods(ctx)
	if err != nil || len(foods) != 1 || !foods[0].IsAvailable() {
		t.Fatalf("before match: %+v, %v", foods, err)
	}

	foodID, reqID := itoa(food.ID), itoa(req.ID)
	if err := s.rec.Match(ctx, foodID, reqID, s.rec.MyFoods(), s.rec.Transactions()); err != nil {
		t.Fatalf("Match: %v", err)
	}

	after := s.rec.MyFoods().Snapshot()
	if after.Err != nil || len(after.Data) != 1 {
		t.Fatalf("my foods after match: %+v", after)
	}
	if after.Data[0].IsAvailable() {
		t.Fatal("matched food still shown as available")
	}

	txns := s.rec.Transactions().Snapshot()
	if txns.Err != nil {
		t.Fatalf("transactions reload: %v", txns.Err)
	}
	found := false
	for _, txn := range txns.Data {
		if txn.References(foodID, reqID) {
			found = true
		}
	}
	if !found {
		t.Fatalf("no transaction references food %s and request %s: %+v", foodID, reqID, txns.Data)
	}

	notes := s.inbox.Drain()
	if len(notes) == 0 || notes[0].Level != reconcile.LevelSuccess {
		t.Fatalf("expected a success notification, got %+v", notes)
	}
}

func TestReceiverScopeAndDashboard(t *testing.T) {
	s := newStack(t)
	ctx := context.Background()
	a := register(t, s.store, "a@x", domain.RoleReceiver)
	b := register(t, s.store, "b@x", domain.RoleReceiver)
	_, _ = s.store.AddRequest(stubapi.Request{ReceiverID: a.ID, FoodType: "bread", Quantity: 1, Urgency: "low"})
	_, _ = s.store.AddRequest(stubapi.Request{ReceiverID: b.ID, FoodType: "milk", Quantity: 2, Urgency: "medium"})

	s.login(t, "a@x")
	mine, err := s.rec.LoadMyRequests(ctx)
	if err != nil {
		t.Fatalf("LoadMyRequests: %v", err)
	}
	if len(mine) != 1 || mine[0].FoodType != "bread" {
		t.Fatalf("scope filter failed: %+v", mine)
	}

	dash, err := s.rec.LoadDashboard(ctx)
	if err != nil {
		t.Fatalf("LoadDashboard: %v", err)
	}
	if dash.Kind != reconcile.ReceiverView || dash.Receiver.Stats().TotalRequests != 1 {
		t.Fatalf("unexpected dashboard %+v", dash)
	}

	txns, err := s.rec.LoadTransactions(ctx)
	if err != nil || len(txns) != 0 {
		t.Fatalf("no transactions should load as empty: %+v, %v", txns, err)
	}
}

func TestCreateTransactionClaimsFood(t *testing.T) {
	s := newStack(t)
	ctx := context.Background()
	donor := register(t, s.store, "d@x", domain.RoleDonor)
	receiver := register(t, s.store, "r@x", domain.RoleReceiver)
	food, _ := s.store.AddFood(stubapi.Food{DonorID: donor.ID, Name: "Soup", Quantity: 1, Expiry: time.Now()})

	s.login(t, "r@x")
	id, err := s.api.CreateTransaction(ctx, domain.NewTransaction{
		DonorID:    itoa(donor.ID),
		ReceiverID: itoa(receiver.ID),
		FoodID:     itoa(food.ID),
	})
	if err != nil || id == "" {
		t.Fatalf("CreateTransaction = %q, %v", id, err)
	}
	_, err = s.api.CreateTransaction(ctx, domain.NewTransaction{
		DonorID:    itoa(donor.ID),
		ReceiverID: itoa(receiver.ID),
		FoodID:     itoa(food.ID),
	})
	if !domain.IsDomainError(err, domain.ErrCodeConflict) {
		t.Fatalf("second claim: want conflict, got %v", err)
	}
}

func TestLogoutStopsAuthenticatedCalls(t *testing.T) {
	s := newStack(t)
	register(t, s.store, "d@x", domain.RoleDonor)
	s.login(t, "d@x")
	s.sessions.Logout(context.Background())

	if _, err := s.rec.LoadMyFoods(context.Background()); !domain.IsDomainError(err, domain.ErrCodeNoSession) {
		t.Fatalf("load after logout: want no session, got %v", err)
	}
}

func itoa(id int64) string {
	return strconv.FormatInt(id, 10)
}

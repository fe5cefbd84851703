package router

import (
	"encoding/json"
	"net"
	"strconv"
	"testing"
	"time"

	"github.com/valyala/fasthttp"
	"github.com/valyala/fasthttp/fasthttputil"
	"golang.org/x/crypto/bcrypt"

	"github.com/fastygo/foodshare/domain"
	"github.com/fastygo/foodshare/internal/middleware"
	"github.com/fastygo/foodshare/internal/stubapi"
)

type harness struct {
	t      *testing.T
	client *fasthttp.Client
	store  *stubapi.Store
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	store := stubapi.NewStore(stubapi.WithHashCost(bcrypt.MinCost))
	ln := fasthttputil.NewInmemoryListener()
	go func() { _ = fasthttp.Serve(ln, NewStub(store, nil, nil)) }()
	t.Cleanup(func() { _ = ln.Close() })
	return &harness{
		t:      t,
		store:  store,
		client: &fasthttp.Client{Dial: func(string) (net.Conn, error) { return ln.Dial() }},
	}
}

func (h *harness) do(method, path string, userID int64, body string) (int, []byte) {
	h.t.Helper()
	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI("http://stub.test" + path)
	req.Header.SetMethod(method)
	if userID != 0 {
		req.Header.Set(middleware.UserHeader, strconv.FormatInt(userID, 10))
	}
	if body != "" {
		req.Header.SetContentType("application/json")
		req.SetBodyString(body)
	}
	if err := h.client.DoTimeout(req, resp, time.Second); err != nil {
		h.t.Fatalf("%s %s: %v", method, path, err)
	}
	return resp.StatusCode(), append([]byte(nil), resp.Body()...)
}

func (h *harness) register(email, roles string) int64 {
	h.t.Helper()
	status, body := h.do("POST", "/register", 0,
		`{"name":"n","email":"`+email+`","password":"pw","roles":`+roles+`}`)
	if status != fasthttp.StatusCreated {
		h.t.Fatalf("register %s: %d %s", email, status, body)
	}
	var out struct {
		UserID int64 `json:"user_id"`
	}
	_ = json.Unmarshal(body, &out)
	return out.UserID
}

func TestAuthFlow(t *testing.T) {
	h := newHarness(t)
	id := h.register("a@x", `["donor","receiver"]`)

	status, body := h.do("POST", "/login", 0, `{"email":"a@x","password":"pw"}`)
	if status != fasthttp.StatusOK {
		t.Fatalf("login: %d %s", status, body)
	}
	var login struct {
		UserID int64    `json:"user_id"`
		Roles  []string `json:"roles"`
	}
	if err := json.Unmarshal(body, &login); err != nil {
		t.Fatalf("decode login: %v", err)
	}
	if login.UserID != id || len(login.Roles) != 2 {
		t.Fatalf("unexpected login %+v", login)
	}

	if status, _ := h.do("POST", "/login", 0, `{"email":"a@x","password":"bad"}`); status != fasthttp.StatusUnauthorized {
		t.Fatalf("bad password: %d", status)
	}
	if status, _ := h.do("POST", "/register", 0, `{"name":"n","email":"a@x","password":"pw","role":"donor"}`); status != fasthttp.StatusConflict {
		t.Fatalf("duplicate register: %d", status)
	}
	if status, _ := h.do("POST", "/login", 0, `not json`); status != fasthttp.StatusBadRequest {
		t.Fatalf("invalid payload: %d", status)
	}
}

func TestLegacyRoleField(t *testing.T) {
	h := newHarness(t)
	status, body := h.do("POST", "/register", 0, `{"name":"n","email":"l@x","password":"pw","role":"receiver"}`)
	if status != fasthttp.StatusCreated {
		t.Fatalf("register: %d %s", status, body)
	}
	u, err := h.store.Authenticate("l@x", "pw")
	if err != nil || !u.Roles.Has(domain.RoleReceiver) {
		t.Fatalf("legacy role lost: %+v %v", u, err)
	}
}

func TestProtectedRoutesRequireUser(t *testing.T) {
	h := newHarness(t)
	for _, path := range []string{"/food/requests/nearby", "/requests/all", "/transactions/all"} {
		if status, _ := h.do("GET", path, 0, ""); status != fasthttp.StatusUnauthorized {
			t.Errorf("%s without identity: %d", path, status)
		}
		if status, _ := h.do("GET", path, 999, ""); status != fasthttp.StatusUnauthorized {
			t.Errorf("%s with unknown identity: %d", path, status)
		}
	}
}

func TestEnvelopes(t *testing.T) {
	h := newHarness(t)
	donor := h.register("d@x", `["donor"]`)
	receiver := h.register("r@x", `["receiver"]`)

	status, body := h.do("POST", "/food/add", donor, `{"user_id":`+strconv.FormatInt(donor, 10)+`,"food_name":"Rice","quantity":3,"expiry_date":"2030-01-02"}`)
	if status != fasthttp.StatusCreated {
		t.Fatalf("add food: %d %s", status, body)
	}
	var added struct {
		FoodID int64 `json:"food_id"`
	}
	_ = json.Unmarshal(body, &added)
	if added.FoodID == 0 {
		t.Fatalf("add food returned no id: %s", body)
	}

	status, body = h.do("POST", "/requests/add_request", receiver, `{"receiver_id":"`+strconv.FormatInt(receiver, 10)+`","food_type":"rice","quantity":1,"urgency_level":"medium"}`)
	if status != fasthttp.StatusCreated {
		t.Fatalf("add request: %d %s", status, body)
	}

	_, body = h.do("GET", "/food/my/"+strconv.FormatInt(donor, 10), donor, "")
	if len(body) == 0 || body[0] != '[' {
		t.Fatalf("/food/my should be a bare array: %s", body)
	}
	_, body = h.do("GET", "/food/requests/nearby", donor, "")
	if body[0] != '[' {
		t.Fatalf("nearby should be a bare array: %s", body)
	}
	_, body = h.do("GET", "/requests/all", receiver, "")
	var wrapped map[string]json.RawMessage
	if err := json.Unmarshal(body, &wrapped); err != nil || wrapped["requests"] == nil {
		t.Fatalf("/requests/all should be wrapped: %s", body)
	}

	status, _ = h.do("GET", "/transactions/user/"+strconv.FormatInt(receiver, 10), receiver, "")
	if status != fasthttp.StatusNotFound {
		t.Fatalf("no transactions should answer 404, got %d", status)
	}
}

func TestMatchOverHTTP(t *testing.T) {
	h := newHarness(t)
	donor := h.register("d@x", `["donor"]`)
	receiver := h.register("r@x", `["receiver"]`)
	food, _ := h.store.AddFood(stubapi.Food{DonorID: donor, Name: "Soup", Quantity: 2, Expiry: time.Now()})
	req, _ := h.store.AddRequest(stubapi.Request{ReceiverID: receiver, FoodType: "soup", Quantity: 2, Urgency: "high"})

	path := "/food/match/" + strconv.FormatInt(food.ID, 10) + "/" + strconv.FormatInt(req.ID, 10)
	if status, _ := h.do("POST", path, receiver, ""); status != fasthttp.StatusForbidden {
		t.Fatalf("match by receiver: %d", status)
	}
	status, body := h.do("POST", path, donor, "")
	if status != fasthttp.StatusOK {
		t.Fatalf("match: %d %s", status, body)
	}
	status, body = h.do("POST", path, donor, "")
	if status != fasthttp.StatusConflict {
		t.Fatalf("second match: %d %s", status, body)
	}
	var errBody map[string]string
	if err := json.Unmarshal(body, &errBody); err != nil || errBody["error"] == "" {
		t.Fatalf("errors should use the error key: %s", body)
	}

	_, body = h.do("GET", "/transactions/user/"+strconv.FormatInt(receiver, 10), receiver, "")
	var txns struct {
		Transactions []struct {
			TxnID    int64  `json:"txn_id"`
			FoodID   int64  `json:"food_id"`
			FoodName string `json:"food_name"`
		} `json:"transactions"`
	}
	if err := json.Unmarshal(body, &txns); err != nil || len(txns.Transactions) != 1 {
		t.Fatalf("user transactions: %s", body)
	}
	if txns.Transactions[0].FoodID != food.ID || txns.Transactions[0].FoodName != "Soup" {
		t.Fatalf("unexpected transaction %+v", txns.Transactions[0])
	}

	_, body = h.do("GET", "/food/transactions/donor/"+strconv.FormatInt(donor, 10), donor, "")
	var donorTxns []map[string]interface{}
	if err := json.Unmarshal(body, &donorTxns); err != nil || len(donorTxns) != 1 {
		t.Fatalf("donor transactions: %s", body)
	}
	if _, ok := donorTxns[0]["transaction_id"]; !ok {
		t.Fatalf("donor transactions should use transaction_id: %s", body)
	}
}

func TestProfileUpdateIsSelfOnly(t *testing.T) {
	h := newHarness(t)
	a := h.register("a@x", `["donor"]`)
	b := h.register("b@x", `["receiver"]`)

	if status, _ := h.do("PUT", "/profile/"+strconv.FormatInt(b, 10), a, `{"name":"x"}`); status != fasthttp.StatusForbidden {
		t.Fatalf("foreign profile update: %d", status)
	}
	if status, _ := h.do("PUT", "/profile/"+strconv.FormatInt(a, 10), a, `{"name":"Ana","location_lat":1.5}`); status != fasthttp.StatusOK {
		t.Fatalf("own profile update: %d", status)
	}
	_, body := h.do("GET", "/profile/"+strconv.FormatInt(a, 10), a, "")
	var p struct {
		Name string  `json:"name"`
		Lat  float64 `json:"location_lat"`
	}
	if err := json.Unmarshal(body, &p); err != nil || p.Name != "Ana" || p.Lat != 1.5 {
		t.Fatalf("profile after update: %s", body)
	}
	if status, _ := h.do("GET", "/profile/abc", a, ""); status != fasthttp.StatusNotFound {
		t.Fatalf("non-numeric id: %d", status)
	}
}

func TestHealth(t *testing.T) {
	h := newHarness(t)
	if status, _ := h.do("GET", "/health", 0, ""); status != fasthttp.StatusOK {
		t.Fatalf("health: %d", status)
	}
}

package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"

	"github.com/fastygo/foodshare/api/transport"
	"github.com/fastygo/foodshare/domain"
)

func seg(id string) string {
	return url.PathEscape(id)
}

// Register creates an account. It never authenticates.
func (c *Client) Register(ctx context.Context, r domain.Registration) error {
	return c.call(ctx, operation{
		method: http.MethodPost,
		route:  "/register",
		path:   "/register",
		body:   transport.NewRegisterRequest(r),
	}, nil)
}

// Login exchanges credentials for a session.
func (c *Client) Login(ctx context.Context, cred domain.Credentials) (domain.Session, error) {
	var resp transport.LoginResponse
	err := c.call(ctx, operation{
		method: http.MethodPost,
		route:  "/login",
		path:   "/login",
		body:   transport.LoginRequest{Email: cred.Email, Password: cred.Password},
	}, &resp)
	if err != nil {
		return domain.Session{}, err
	}
	s := resp.Session()
	if !s.IsAuthenticated() {
		return domain.Session{}, domain.NewError(domain.ErrCodeRemote, "login response carried no user id")
	}
	return s, nil
}

func (c *Client) GetProfile(ctx context.Context, userID string) (domain.User, error) {
	var rec transport.UserRecord
	err := c.call(ctx, operation{
		method:        http.MethodGet,
		route:         "/profile/{userId}",
		path:          "/profile/" + seg(userID),
		authenticated: true,
	}, &rec)
	if err != nil {
		return domain.User{}, err
	}
	u := rec.ToDomain()
	if u.ID == "" {
		u.ID = userID
	}
	return u, nil
}

func (c *Client) UpdateProfile(ctx context.Context, userID string, u domain.ProfileUpdate) error {
	return c.call(ctx, operation{
		method:        http.MethodPut,
		route:         "/profile/{userId}",
		path:          "/profile/" + seg(userID),
		body:          transport.NewProfileUpdateRequest(u),
		authenticated: true,
	}, nil)
}

// AddFood lists a new food item and returns its id when the server reports one.
func (c *Client) AddFood(ctx context.Context, f domain.NewFood) (string, error) {
	var resp struct {
		transport.MessageBody
		FoodID transport.FlexID `json:"food_id"`
	}
	err := c.call(ctx, operation{
		method:        http.MethodPost,
		route:         "/food/add",
		path:          "/food/add",
		body:          transport.NewFoodAddRequest(f),
		authenticated: true,
	}, &resp)
	return resp.FoodID.String(), err
}

func (c *Client) MyFoods(ctx context.Context, donorID string) (json.RawMessage, error) {
	return c.raw(ctx, operation{
		method:        http.MethodGet,
		route:         "/food/my/{donorId}",
		path:          "/food/my/" + seg(donorID),
		authenticated: true,
	})
}

func (c *Client) UpdateFood(ctx context.Context, foodID string, u domain.FoodUpdate) error {
	return c.call(ctx, operation{
		method:        http.MethodPut,
		route:         "/food/update/{foodId}",
		path:          "/food/update/" + seg(foodID),
		body:          transport.NewFoodUpdateRequest(u),
		authenticated: true,
	}, nil)
}

func (c *Client) DeleteFood(ctx context.Context, foodID string) error {
	return c.call(ctx, operation{
		method:        http.MethodDelete,
		route:         "/food/delete/{foodId}",
		path:          "/food/delete/" + seg(foodID),
		authenticated: true,
	}, nil)
}

// NearbyRequests returns the requests the server ranks near the caller.
func (c *Client) NearbyRequests(ctx context.Context) (json.RawMessage, error) {
	return c.raw(ctx, operation{
		method:        http.MethodGet,
		route:         "/food/requests/nearby",
		path:          "/food/requests/nearby",
		authenticated: true,
	})
}

// Match pairs a food item with a request. The server applies the resulting
// state changes as one unit.
func (c *Client) Match(ctx context.Context, foodID, requestID string) error {
	return c.call(ctx, operation{
		method:        http.MethodPost,
		route:         "/food/match/{foodId}/{requestId}",
		path:          "/food/match/" + seg(foodID) + "/" + seg(requestID),
		authenticated: true,
	}, nil)
}

func (c *Client) DonorTransactions(ctx context.Context, donorID string) (json.RawMessage, error) {
	return c.raw(ctx, operation{
		method:        http.MethodGet,
		route:         "/food/transactions/donor/{donorId}",
		path:          "/food/transactions/donor/" + seg(donorID),
		authenticated: true,
	})
}

// CreateRequest posts a new food request and returns its id when reported.
func (c *Client) CreateRequest(ctx context.Context, r domain.NewRequest) (string, error) {
	var resp transport.MessageBody
	err := c.call(ctx, operation{
		method:        http.MethodPost,
		route:         "/requests/add_request",
		path:          "/requests/add_request",
		body:          transport.NewRequestCreateRequest(r),
		authenticated: true,
	}, &resp)
	return resp.RequestID.String(), err
}

func (c *Client) AllRequests(ctx context.Context) (json.RawMessage, error) {
	return c.raw(ctx, operation{
		method:        http.MethodGet,
		route:         "/requests/all",
		path:          "/requests/all",
		authenticated: true,
	})
}

func (c *Client) UpdateRequest(ctx context.Context, requestID string, u domain.RequestUpdate) error {
	return c.call(ctx, operation{
		method:        http.MethodPut,
		route:         "/requests/update/{requestId}",
		path:          "/requests/update/" + seg(requestID),
		body:          transport.NewRequestUpdateRequest(u),
		authenticated: true,
	}, nil)
}

func (c *Client) CancelRequest(ctx context.Context, requestID string) error {
	return c.call(ctx, operation{
		method:        http.MethodDelete,
		route:         "/requests/cancel/{requestId}",
		path:          "/requests/cancel/" + seg(requestID),
		authenticated: true,
	}, nil)
}

// AcceptFood claims a food item for the receiver, optionally against one of
// their requests.
func (c *Client) AcceptFood(ctx context.Context, foodID, receiverID, requestID string) error {
	return c.call(ctx, operation{
		method:        http.MethodPost,
		route:         "/requests/accept/{foodId}",
		path:          "/requests/accept/" + seg(foodID),
		body:          transport.AcceptRequest{ReceiverID: transport.FlexID(receiverID), RequestID: transport.FlexID(requestID)},
		authenticated: true,
	}, nil)
}

func (c *Client) CreateTransaction(ctx context.Context, t domain.NewTransaction) (string, error) {
	var resp transport.MessageBody
	err := c.call(ctx, operation{
		method: http.MethodPost,
		route:  "/transactions/create",
		path:   "/transactions/create",
		body: transport.TransactionCreateRequest{
			DonorID:    transport.FlexID(t.DonorID),
			ReceiverID: transport.FlexID(t.ReceiverID),
			FoodID:     transport.FlexID(t.FoodID),
		},
		authenticated: true,
	}, &resp)
	return resp.TransactionID.String(), err
}

func (c *Client) AllTransactions(ctx context.Context) (json.RawMessage, error) {
	return c.raw(ctx, operation{
		method:        http.MethodGet,
		route:         "/transactions/all",
		path:          "/transactions/all",
		authenticated: true,
	})
}

func (c *Client) UserTransactions(ctx context.Context, userID string) (json.RawMessage, error) {
	return c.raw(ctx, operation{
		method:        http.MethodGet,
		route:         "/transactions/user/{userId}",
		path:          "/transactions/user/" + seg(userID),
		authenticated: true,
	})
}

func (c *Client) UpdateTransactionStatus(ctx context.Context, txnID, status string) error {
	return c.call(ctx, operation{
		method:        http.MethodPut,
		route:         "/transactions/update/{txnId}",
		path:          "/transactions/update/" + seg(txnID),
		body:          transport.TransactionStatusRequest{Status: status},
		authenticated: true,
	}, nil)
}

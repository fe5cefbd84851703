package handler

import (
	"github.com/fastygo/foodshare/api/transport"
	"github.com/fastygo/foodshare/internal/stubapi"
)

// Wire shapes of the reference backend. They deliberately differ per
// endpoint the way the production backend does.

type userJSON struct {
	UserID    int64    `json:"user_id"`
	Name      string   `json:"name"`
	Email     string   `json:"email"`
	Phone     string   `json:"phone"`
	Latitude  float64  `json:"location_lat"`
	Longitude float64  `json:"location_long"`
	Roles     []string `json:"roles"`
}

func newUserJSON(u stubapi.User) userJSON {
	return userJSON{
		UserID:    u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Phone:     u.Phone,
		Latitude:  u.Latitude,
		Longitude: u.Longitude,
		Roles:     u.Roles.Strings(),
	}
}

type foodJSON struct {
	FoodID     int64  `json:"food_id"`
	FoodName   string `json:"food_name"`
	Quantity   int    `json:"quantity"`
	ExpiryDate string `json:"expiry_date"`
	Status     string `json:"status"`
}

func newFoodJSON(f stubapi.Food) foodJSON {
	return foodJSON{
		FoodID:     f.ID,
		FoodName:   f.Name,
		Quantity:   f.Quantity,
		ExpiryDate: f.Expiry.Format(transport.DateLayout),
		Status:     string(f.Status),
	}
}

type requestJSON struct {
	RequestID  int64   `json:"request_id"`
	ReceiverID int64   `json:"receiver_id"`
	FoodType   string  `json:"food_type"`
	Quantity   int     `json:"quantity"`
	Urgency    string  `json:"urgency_level"`
	Deadline   *string `json:"deadline"`
	Status     string  `json:"status,omitempty"`
	CreatedAt  string  `json:"created_at,omitempty"`
}

func newRequestJSON(r stubapi.Request, withStatus bool) requestJSON {
	out := requestJSON{
		RequestID:  r.ID,
		ReceiverID: r.ReceiverID,
		FoodType:   r.FoodType,
		Quantity:   r.Quantity,
		Urgency:    r.Urgency,
	}
	if r.Deadline != nil {
		d := r.Deadline.Format(transport.DateTimeLayout)
		out.Deadline = &d
	}
	if withStatus {
		out.Status = string(r.Status)
		out.CreatedAt = r.CreatedAt.Format(transport.DateTimeLayout)
	}
	return out
}

type txnJSON struct {
	TxnID      int64  `json:"txn_id"`
	DonorID    int64  `json:"donor_id"`
	ReceiverID int64  `json:"receiver_id"`
	FoodID     int64  `json:"food_id"`
	RequestID  *int64 `json:"request_id"`
	FoodName   string `json:"food_name,omitempty"`
	Date       string `json:"date"`
	Status     string `json:"status"`
}

func newTxnJSON(t stubapi.Transaction, foodName string) txnJSON {
	out := txnJSON{
		TxnID:      t.ID,
		DonorID:    t.DonorID,
		ReceiverID: t.ReceiverID,
		FoodID:     t.FoodID,
		FoodName:   foodName,
		Date:       t.CreatedAt.Format(transport.DateTimeLayout),
		Status:     t.Status,
	}
	if t.RequestID != 0 {
		id := t.RequestID
		out.RequestID = &id
	}
	return out
}

// donorTxnJSON is the shape of /food/transactions/donor/{id}.
type donorTxnJSON struct {
	TransactionID int64  `json:"transaction_id"`
	ReceiverID    int64  `json:"receiver_id"`
	FoodID        int64  `json:"food_id"`
	RequestID     *int64 `json:"request_id"`
	Timestamp     string `json:"timestamp"`
	Status        string `json:"status"`
}

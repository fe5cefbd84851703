package transport

import (
	"strings"

	"github.com/fastygo/foodshare/domain"
)

// ErrorBody is the error payload; the backend uses either key.
type ErrorBody struct {
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}

// Text returns the first non-empty message.
func (e ErrorBody) Text() string {
	if strings.TrimSpace(e.Message) != "" {
		return e.Message
	}
	return strings.TrimSpace(e.Error)
}

// MessageBody is returned by most mutations.
type MessageBody struct {
	Message       string `json:"message,omitempty"`
	RequestID     FlexID `json:"request_id,omitempty"`
	TransactionID FlexID `json:"transaction_id,omitempty"`
}

// LoginResponse carries the authenticated identity. Older backends return a
// single role under "role".
type LoginResponse struct {
	UserID  FlexID         `json:"user_id"`
	Roles   domain.RoleSet `json:"roles"`
	Role    string         `json:"role,omitempty"`
	Message string         `json:"message,omitempty"`
}

// Session converts the response into a domain session.
func (r LoginResponse) Session() domain.Session {
	roles := r.Roles
	if roles.Empty() && r.Role != "" {
		roles = domain.ParseRoles(r.Role)
	}
	return domain.Session{UserID: r.UserID.String(), Roles: roles}
}

// UserRecord is a profile as returned by /profile/{id}.
type UserRecord struct {
	ID        FlexID         `json:"id,omitempty"`
	UserID    FlexID         `json:"user_id,omitempty"`
	Name      string         `json:"name"`
	Email     string         `json:"email,omitempty"`
	Phone     string         `json:"phone,omitempty"`
	Latitude  float64        `json:"location_lat"`
	Longitude float64        `json:"location_long"`
	Roles     domain.RoleSet `json:"roles"`
	Role      string         `json:"role,omitempty"`
}

func (r UserRecord) ToDomain() domain.User {
	roles := r.Roles
	if roles.Empty() && r.Role != "" {
		roles = domain.ParseRoles(r.Role)
	}
	return domain.User{
		ID:        firstID(r.ID, r.UserID),
		Name:      r.Name,
		Email:     r.Email,
		Phone:     r.Phone,
		Latitude:  r.Latitude,
		Longitude: r.Longitude,
		Roles:     roles,
	}
}

// FoodRecord is a food item as any endpoint may return it.
type FoodRecord struct {
	ID         FlexID    `json:"id,omitempty"`
	FoodID     FlexID    `json:"food_id,omitempty"`
	DonorID    FlexID    `json:"donor_id,omitempty"`
	Name       string    `json:"name,omitempty"`
	FoodName   string    `json:"food_name,omitempty"`
	Quantity   FlexInt   `json:"quantity"`
	ExpiryDate *FlexTime `json:"expiry_date,omitempty"`
	Status     string    `json:"status,omitempty"`
}

func (r FoodRecord) ToDomain() domain.FoodItem {
	name := r.FoodName
	if name == "" {
		name = r.Name
	}
	return domain.FoodItem{
		ID:         firstID(r.ID, r.FoodID),
		DonorID:    r.DonorID.String(),
		Name:       name,
		Quantity:   int(r.Quantity),
		ExpiryDate: timeOf(r.ExpiryDate),
		Status:     domain.ParseFoodStatus(r.Status),
	}
}

// RequestRecord is a food request as any endpoint may return it.
type RequestRecord struct {
	ID         FlexID    `json:"id,omitempty"`
	RequestID  FlexID    `json:"request_id,omitempty"`
	ReceiverID FlexID    `json:"receiver_id,omitempty"`
	FoodType   string    `json:"food_type"`
	Quantity   FlexInt   `json:"quantity"`
	Urgency    string    `json:"urgency_level"`
	Deadline   *FlexTime `json:"deadline,omitempty"`
	Status     string    `json:"status,omitempty"`
}

func (r RequestRecord) ToDomain() domain.FoodRequest {
	req := domain.FoodRequest{
		ID:         firstID(r.ID, r.RequestID),
		ReceiverID: r.ReceiverID.String(),
		FoodType:   r.FoodType,
		Quantity:   int(r.Quantity),
		Urgency:    domain.Urgency(strings.ToLower(strings.TrimSpace(r.Urgency))),
		Status:     domain.ParseRequestStatus(r.Status),
	}
	if deadline := timeOf(r.Deadline); !deadline.IsZero() {
		req.Deadline = &deadline
	}
	return req
}

// TransactionRecord is a transaction as any endpoint may return it.
type TransactionRecord struct {
	ID            FlexID    `json:"id,omitempty"`
	TxnID         FlexID    `json:"txn_id,omitempty"`
	TransactionID FlexID    `json:"transaction_id,omitempty"`
	DonorID       FlexID    `json:"donor_id,omitempty"`
	ReceiverID    FlexID    `json:"receiver_id,omitempty"`
	FoodID        FlexID    `json:"food_id,omitempty"`
	RequestID     FlexID    `json:"request_id,omitempty"`
	FoodName      string    `json:"food_name,omitempty"`
	Status        string    `json:"status,omitempty"`
	CreatedAt     *FlexTime `json:"created_at,omitempty"`
	Date          *FlexTime `json:"date,omitempty"`
	Timestamp     *FlexTime `json:"timestamp,omitempty"`
}

func (r TransactionRecord) ToDomain() domain.Transaction {
	return domain.Transaction{
		ID:         firstID(r.ID, r.TxnID, r.TransactionID),
		DonorID:    r.DonorID.String(),
		ReceiverID: r.ReceiverID.String(),
		FoodID:     r.FoodID.String(),
		RequestID:  r.RequestID.String(),
		FoodName:   r.FoodName,
		Status:     strings.ToLower(strings.TrimSpace(r.Status)),
		CreatedAt:  timeOf(r.CreatedAt, r.Date, r.Timestamp),
	}
}

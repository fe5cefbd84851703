package transport

import (
	"github.com/fastygo/foodshare/domain"
)

type RegisterRequest struct {
	Name      string   `json:"name"`
	Email     string   `json:"email"`
	Password  string   `json:"password"`
	Phone     string   `json:"phone"`
	Latitude  float64  `json:"location_lat"`
	Longitude float64  `json:"location_long"`
	Roles     []string `json:"roles"`
	Role      string   `json:"role,omitempty"`
}

// NewRegisterRequest also fills the legacy single "role" field.
func NewRegisterRequest(r domain.Registration) RegisterRequest {
	roles := r.Roles.Strings()
	req := RegisterRequest{
		Name:      r.Name,
		Email:     r.Email,
		Password:  r.Password,
		Phone:     r.Phone,
		Latitude:  r.Latitude,
		Longitude: r.Longitude,
		Roles:     roles,
	}
	if len(roles) > 0 {
		req.Role = roles[0]
	}
	return req
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type ProfileUpdateRequest struct {
	Name      *string  `json:"name,omitempty"`
	Phone     *string  `json:"phone,omitempty"`
	Latitude  *float64 `json:"location_lat,omitempty"`
	Longitude *float64 `json:"location_long,omitempty"`
}

func NewProfileUpdateRequest(u domain.ProfileUpdate) ProfileUpdateRequest {
	return ProfileUpdateRequest{Name: u.Name, Phone: u.Phone, Latitude: u.Latitude, Longitude: u.Longitude}
}

type FoodAddRequest struct {
	UserID     FlexID    `json:"user_id"`
	FoodName   string    `json:"food_name"`
	Quantity   int       `json:"quantity"`
	ExpiryDate *FlexTime `json:"expiry_date"`
}

func NewFoodAddRequest(f domain.NewFood) FoodAddRequest {
	return FoodAddRequest{
		UserID:     FlexID(f.DonorID),
		FoodName:   f.Name,
		Quantity:   f.Quantity,
		ExpiryDate: NewFlexTime(f.ExpiryDate, DateLayout),
	}
}

type FoodUpdateRequest struct {
	FoodName   *string   `json:"food_name,omitempty"`
	Quantity   *int      `json:"quantity,omitempty"`
	ExpiryDate *FlexTime `json:"expiry_date,omitempty"`
}

func NewFoodUpdateRequest(u domain.FoodUpdate) FoodUpdateRequest {
	req := FoodUpdateRequest{FoodName: u.Name, Quantity: u.Quantity}
	if u.ExpiryDate != nil {
		req.ExpiryDate = NewFlexTime(*u.ExpiryDate, DateLayout)
	}
	return req
}

type RequestCreateRequest struct {
	ReceiverID FlexID    `json:"receiver_id"`
	FoodType   string    `json:"food_type"`
	Quantity   int       `json:"quantity"`
	Urgency    string    `json:"urgency_level"`
	Deadline   *FlexTime `json:"deadline,omitempty"`
}

func NewRequestCreateRequest(r domain.NewRequest) RequestCreateRequest {
	req := RequestCreateRequest{
		ReceiverID: FlexID(r.ReceiverID),
		FoodType:   r.FoodType,
		Quantity:   r.Quantity,
		Urgency:    string(r.Urgency),
	}
	if !r.Deadline.IsZero() {
		req.Deadline = NewFlexTime(r.Deadline, DateTimeLayout)
	}
	return req
}

type RequestUpdateRequest struct {
	Quantity *int    `json:"quantity,omitempty"`
	Urgency  *string `json:"urgency_level,omitempty"`
	Status   *string `json:"status,omitempty"`
}

func NewRequestUpdateRequest(u domain.RequestUpdate) RequestUpdateRequest {
	req := RequestUpdateRequest{Quantity: u.Quantity}
	if u.Urgency != nil {
		v := string(*u.Urgency)
		req.Urgency = &v
	}
	if u.Status != nil {
		v := string(*u.Status)
		req.Status = &v
	}
	return req
}

type AcceptRequest struct {
	ReceiverID FlexID `json:"receiver_id"`
	RequestID  FlexID `json:"request_id,omitempty"`
}

type TransactionCreateRequest struct {
	DonorID    FlexID `json:"donor_id"`
	ReceiverID FlexID `json:"receiver_id"`
	FoodID     FlexID `json:"food_id"`
}

type TransactionStatusRequest struct {
	Status string `json:"status"`
}

package domain

import (
	"strings"
	"time"
)

// Urgency ranks how soon a receiver needs food.
type Urgency string

const (
	UrgencyLow    Urgency = "low"
	UrgencyMedium Urgency = "medium"
	UrgencyHigh   Urgency = "high"
)

func (u Urgency) Valid() bool {
	return u == UrgencyLow || u == UrgencyMedium || u == UrgencyHigh
}

// RequestStatus is the lifecycle state of a food request.
type RequestStatus string

const (
	RequestPending   RequestStatus = "pending"
	RequestFulfilled RequestStatus = "fulfilled"
	RequestCancelled RequestStatus = "cancelled"
)

// ParseRequestStatus normalizes a server status. Empty means pending.
func ParseRequestStatus(s string) RequestStatus {
	v := strings.ToLower(strings.TrimSpace(s))
	if v == "" {
		return RequestPending
	}
	return RequestStatus(v)
}

// FoodRequest is a receiver's posted need.
type FoodRequest struct {
	ID         string        `json:"id"`
	ReceiverID string        `json:"receiver_id"`
	FoodType   string        `json:"food_type"`
	Quantity   int           `json:"quantity"`
	Urgency    Urgency       `json:"urgency_level"`
	Deadline   *time.Time    `json:"deadline,omitempty"`
	Status     RequestStatus `json:"status"`
}

// NewRequest is the receiver's input for a new request.
type NewRequest struct {
	ReceiverID string
	FoodType   string
	Quantity   int
	Urgency    Urgency
	Deadline   time.Time
}

func (n NewRequest) Validate() error {
	switch {
	case n.ReceiverID == "":
		return ErrNoSession
	case strings.TrimSpace(n.FoodType) == "":
		return Invalid("food type is required")
	case n.Quantity <= 0:
		return Invalid("quantity must be a positive integer")
	case !n.Urgency.Valid():
		return Invalid("urgency must be one of low, medium, high")
	}
	return nil
}

// RequestUpdate carries the fields to change; nil means unchanged.
type RequestUpdate struct {
	Quantity *int
	Urgency  *Urgency
	Status   *RequestStatus
}

func (u RequestUpdate) Validate() error {
	if u.Quantity == nil && u.Urgency == nil && u.Status == nil {
		return Invalid("nothing to update")
	}
	if u.Quantity != nil && *u.Quantity <= 0 {
		return Invalid("quantity must be a positive integer")
	}
	if u.Urgency != nil && !u.Urgency.Valid() {
		return Invalid("urgency must be one of low, medium, high")
	}
	return nil
}

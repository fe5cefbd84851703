package domain

import (
	"strings"
	"time"
)

// FoodStatus is the lifecycle state of a listed food item.
type FoodStatus string

const (
	FoodAvailable FoodStatus = "available"
	FoodMatched   FoodStatus = "matched"
	FoodExpired   FoodStatus = "expired"
)

// ParseFoodStatus normalizes a server status. Empty means available, the
// server default for new listings.
func ParseFoodStatus(s string) FoodStatus {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", string(FoodAvailable):
		return FoodAvailable
	case string(FoodMatched), "claimed":
		return FoodMatched
	case string(FoodExpired):
		return FoodExpired
	default:
		return FoodStatus(strings.ToLower(strings.TrimSpace(s)))
	}
}

// FoodItem is surplus food listed by a donor.
type FoodItem struct {
	ID         string     `json:"id"`
	DonorID    string     `json:"donor_id"`
	Name       string     `json:"name"`
	Quantity   int        `json:"quantity"`
	ExpiryDate time.Time  `json:"expiry_date"`
	Status     FoodStatus `json:"status"`
}

func (f FoodItem) IsAvailable() bool {
	return f.Status == FoodAvailable
}

// NewFood is the donor's input for a new listing.
type NewFood struct {
	DonorID    string
	Name       string
	Quantity   int
	ExpiryDate time.Time
}

func (n NewFood) Validate() error {
	switch {
	case strings.TrimSpace(n.Name) == "":
		return Invalid("food name is required")
	case n.Quantity <= 0:
		return Invalid("quantity must be a positive integer")
	case n.ExpiryDate.IsZero():
		return Invalid("expiry date is required")
	}
	return nil
}

// FoodUpdate carries the fields to change; nil means unchanged.
type FoodUpdate struct {
	Name       *string
	Quantity   *int
	ExpiryDate *time.Time
}

func (u FoodUpdate) Validate() error {
	if u.Name == nil && u.Quantity == nil && u.ExpiryDate == nil {
		return Invalid("nothing to update")
	}
	if u.Quantity != nil && *u.Quantity <= 0 {
		return Invalid("quantity must be a positive integer")
	}
	return nil
}

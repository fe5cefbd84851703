package domain

import "time"

// Transaction links one food item, its donor and a receiver. It is created
// by the server as the side effect of a match or accept.
type Transaction struct {
	ID         string    `json:"id"`
	DonorID    string    `json:"donor_id"`
	ReceiverID string    `json:"receiver_id"`
	FoodID     string    `json:"food_id"`
	RequestID  string    `json:"request_id,omitempty"`
	FoodName   string    `json:"food_name,omitempty"`
	Status     string    `json:"status"`
	CreatedAt  time.Time `json:"created_at"`
}

// References reports whether the transaction links food and request.
func (t Transaction) References(foodID, requestID string) bool {
	if t.FoodID != foodID {
		return false
	}
	return requestID == "" || t.RequestID == "" || t.RequestID == requestID
}

// NewTransaction is the body of a direct transaction creation.
type NewTransaction struct {
	DonorID    string
	ReceiverID string
	FoodID     string
}

func (n NewTransaction) Validate() error {
	if n.DonorID == "" || n.ReceiverID == "" || n.FoodID == "" {
		return Invalid("donor, receiver and food are required")
	}
	return nil
}

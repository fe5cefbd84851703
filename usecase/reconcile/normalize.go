package reconcile

import (
	"bytes"
	"encoding/json"

	"github.com/fastygo/foodshare/api/transport"
	"github.com/fastygo/foodshare/domain"
)

// Envelope keys used when a list arrives wrapped in an object.
const (
	KeyFoods        = "foods"
	KeyRequests     = "requests"
	KeyTransactions = "transactions"
)

var jsonNull = []byte("null")

// NormalizeList turns a list response of any shape into a slice. A bare array
// yields its elements, an object yields the array under key, anything else
// yields an empty slice. Elements that do not decode into T are skipped. The
// result is never nil.
func NormalizeList[T any](raw json.RawMessage, key string) []T {
	out := make([]T, 0)
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return out
	}

	var items []json.RawMessage
	switch trimmed[0] {
	case '[':
		if err := json.Unmarshal(trimmed, &items); err != nil {
			return out
		}
	case '{':
		var envelope map[string]json.RawMessage
		if err := json.Unmarshal(trimmed, &envelope); err != nil {
			return out
		}
		inner := bytes.TrimSpace(envelope[key])
		if len(inner) == 0 || inner[0] != '[' {
			return out
		}
		if err := json.Unmarshal(inner, &items); err != nil {
			return out
		}
	default:
		return out
	}

	for _, item := range items {
		if bytes.Equal(bytes.TrimSpace(item), jsonNull) {
			continue
		}
		var v T
		if err := json.Unmarshal(item, &v); err != nil {
			continue
		}
		out = append(out, v)
	}
	return out
}

// Foods normalizes a food list response.
func Foods(raw json.RawMessage) []domain.FoodItem {
	records := NormalizeList[transport.FoodRecord](raw, KeyFoods)
	out := make([]domain.FoodItem, 0, len(records))
	for _, rec := range records {
		out = append(out, rec.ToDomain())
	}
	return out
}

// Requests normalizes a request list response.
func Requests(raw json.RawMessage) []domain.FoodRequest {
	records := NormalizeList[transport.RequestRecord](raw, KeyRequests)
	out := make([]domain.FoodRequest, 0, len(records))
	for _, rec := range records {
		out = append(out, rec.ToDomain())
	}
	return out
}

// Transactions normalizes a transaction list response.
func Transactions(raw json.RawMessage) []domain.Transaction {
	records := NormalizeList[transport.TransactionRecord](raw, KeyTransactions)
	out := make([]domain.Transaction, 0, len(records))
	for _, rec := range records {
		out = append(out, rec.ToDomain())
	}
	return out
}

// OwnRequests keeps the requests posted by receiverID.
func OwnRequests(all []domain.FoodRequest, receiverID string) []domain.FoodRequest {
	out := make([]domain.FoodRequest, 0, len(all))
	for _, r := range all {
		if r.ReceiverID == receiverID {
			out = append(out, r)
		}
	}
	return out
}

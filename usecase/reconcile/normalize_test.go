package reconcile

import (
	"encoding/json"
	"testing"

	"github.com/fastygo/foodshare/domain"
)

func TestNormalizeListShapes(t *testing.T) {
	type item struct {
		ID int `json:"id"`
	}
	cases := []struct {
		name string
		raw  string
		want []int
	}{
		{"bare array", `[{"id":1},{"id":2}]`, []int{1, 2}},
		{"wrapped", `{"foods":[{"id":3}],"count":1}`, []int{3}},
		{"wrapped under other key", `{"items":[{"id":3}]}`, nil},
		{"wrapped non-array", `{"foods":{"id":3}}`, nil},
		{"wrapped null", `{"foods":null}`, nil},
		{"string", `"no foods"`, nil},
		{"number", `42`, nil},
		{"null", `null`, nil},
		{"empty body", ``, nil},
		{"truncated", `[{"id":1},`, nil},
		{"bad elements skipped", `[{"id":1},"oops",null,{"id":"x"},{"id":5}]`, []int{1, 5}},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got := NormalizeList[item](json.RawMessage(tc.raw), KeyFoods)
			if got == nil {
				t.Fatal("NormalizeList returned nil")
			}
			if len(got) != len(tc.want) {
				t.Fatalf("got %v, want ids %v", got, tc.want)
			}
			for i, id := range tc.want {
				if got[i].ID != id {
					t.Fatalf("got %v, want ids %v", got, tc.want)
				}
			}
		})
	}
}

func TestFoodsAndRequestsNormalizeRecords(t *testing.T) {
	foods := Foods(json.RawMessage(`[
		{"food_id": 7, "donor_id": 2, "food_name": "Rice", "quantity": "3", "expiry_date": "2025-05-01"},
		{"id": "8", "name": "Milk", "quantity": 1, "status": "matched"}
	]`))
	if len(foods) != 2 {
		t.Fatalf("got %d foods", len(foods))
	}
	if foods[0].ID != "7" || foods[0].Name != "Rice" || foods[0].Quantity != 3 || foods[0].Status != domain.FoodAvailable {
		t.Fatalf("unexpected first food %+v", foods[0])
	}
	if foods[1].ID != "8" || foods[1].IsAvailable() {
		t.Fatalf("unexpected second food %+v", foods[1])
	}

	requests := Requests(json.RawMessage(`{"requests":[{"request_id":4,"receiver_id":9,"food_type":"Bread","quantity":2,"urgency_level":"High"}]}`))
	if len(requests) != 1 || requests[0].ID != "4" || requests[0].Status != domain.RequestPending || requests[0].Urgency != domain.UrgencyHigh {
		t.Fatalf("unexpected requests %+v", requests)
	}

	txns := Transactions(json.RawMessage(`{"transactions":[{"txn_id":1,"food_id":7,"request_id":4,"status":"pending"}]}`))
	if len(txns) != 1 || !txns[0].References("7", "4") {
		t.Fatalf("unexpected transactions %+v", txns)
	}
}

func TestFractionalQuantitySkipsElement(t *testing.T) {
	foods := Foods(json.RawMessage(`[{"food_id": 1, "quantity": 2.7}, {"food_id": 2, "quantity": 2}]`))
	if len(foods) != 1 || foods[0].ID != "2" || foods[0].Quantity != 2 {
		t.Fatalf("unexpected foods %+v", foods)
	}
}

func TestOwnRequests(t *testing.T) {
	all := []domain.FoodRequest{{ID: "1", ReceiverID: "5"}, {ID: "2", ReceiverID: "6"}, {ID: "3", ReceiverID: "5"}}
	own := OwnRequests(all, "5")
	if len(own) != 2 || own[0].ID != "1" || own[1].ID != "3" {
		t.Fatalf("unexpected filter result %+v", own)
	}
	if got := OwnRequests(nil, "5"); got == nil || len(got) != 0 {
		t.Fatalf("expected empty non-nil slice, got %#v", got)
	}
}

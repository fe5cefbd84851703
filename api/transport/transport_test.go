package transport

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/fastygo/foodshare/domain"
)

func TestFlexIDDecodesNumbersAndStrings(t *testing.T) {
	t.Parallel()

	cases := []struct {
		raw  string
		want FlexID
	}{
		{raw: `7`, want: "7"},
		{raw: `"7"`, want: "7"},
		{raw: `" abc "`, want: "abc"},
		{raw: `null`, want: ""},
		{raw: `12345678901`, want: "12345678901"},
	}
	for _, tc := range cases {
		var id FlexID
		if err := json.Unmarshal([]byte(tc.raw), &id); err != nil {
			t.Fatalf("unmarshal %s: %v", tc.raw, err)
		}
		if id != tc.want {
			t.Errorf("FlexID(%s) = %q, want %q", tc.raw, id, tc.want)
		}
	}
}

func TestFlexIDEncodesNumericAsNumber(t *testing.T) {
	out, _ := json.Marshal(struct {
		A FlexID `json:"a"`
		B FlexID `json:"b"`
		C FlexID `json:"c,omitempty"`
	}{A: "12", B: "u-1"})
	if string(out) != `{"a":12,"b":"u-1"}` {
		t.Fatalf("unexpected encoding %s", out)
	}

	cases := []struct {
		id   FlexID
		want string
	}{
		{id: "42", want: `42`},
		{id: "-3", want: `-3`},
		{id: "0", want: `0`},
		{id: "007", want: `"007"`},
		{id: "+5", want: `"+5"`},
		{id: "-0", want: `"-0"`},
		{id: "0012", want: `"0012"`},
		{id: "99999999999999999999", want: `"99999999999999999999"`},
	}
	for _, tc := range cases {
		t.Run(string(tc.id), func(t *testing.T) {
			got, err := json.Marshal(tc.id)
			if err != nil {
				t.Fatalf("Marshal(%q): %v", tc.id, err)
			}
			if string(got) != tc.want {
				t.Fatalf("Marshal(%q) = %s, want %s", tc.id, got, tc.want)
			}
		})
	}
}

func TestAcceptRequestKeepsLeadingZeroIDs(t *testing.T) {
	out, err := json.Marshal(AcceptRequest{ReceiverID: "1", RequestID: "007"})
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if string(out) != `{"receiver_id":1,"request_id":"007"}` {
		t.Fatalf("unexpected body %s", out)
	}
}

func TestFlexIntRejectsFractions(t *testing.T) {
	cases := []struct {
		raw     string
		want    FlexInt
		wantErr bool
	}{
		{raw: `3`, want: 3},
		{raw: `3.0`, want: 3},
		{raw: `"4"`, want: 4},
		{raw: `null`, want: 0},
		{raw: `2.7`, wantErr: true},
		{raw: `"2.7"`, wantErr: true},
	}
	for _, tc := range cases {
		t.Run(tc.raw, func(t *testing.T) {
			var n FlexInt
			err := json.Unmarshal([]byte(tc.raw), &n)
			if tc.wantErr {
				if err == nil {
					t.Fatalf("Unmarshal(%s) = %d, want error", tc.raw, n)
				}
				return
			}
			if err != nil || n != tc.want {
				t.Fatalf("Unmarshal(%s) = %d, %v; want %d", tc.raw, n, err, tc.want)
			}
		})
	}
}

func TestFoodRecordAcceptsBackendShapes(t *testing.T) {
	raw := `{"food_id": 3, "food_name": "Rice", "quantity": "5", "expiry_date": "2025-01-31"}`
	var rec FoodRecord
	if err := json.Unmarshal([]byte(raw), &rec); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	food := rec.ToDomain()
	if food.ID != "3" || food.Name != "Rice" || food.Quantity != 5 {
		t.Fatalf("unexpected food %+v", food)
	}
	if food.Status != domain.FoodAvailable {
		t.Fatalf("missing status should default to available, got %q", food.Status)
	}
	if !food.ExpiryDate.Equal(time.Date(2025, 1, 31, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("unexpected expiry %v", food.ExpiryDate)
	}
}

func TestRequestRecordDeadlineLayouts(t *testing.T) {
	for _, raw := range []string{
		`{"request_id": 1, "receiver_id": 2, "deadline": "2025-02-01 10:30:00"}`,
		`{"id": "1", "receiver_id": "2", "deadline": "2025-02-01T10:30:00Z"}`,
	} {
		var rec RequestRecord
		if err := json.Unmarshal([]byte(raw), &rec); err != nil {
			t.Fatalf("unmarshal %s: %v", raw, err)
		}
		req := rec.ToDomain()
		if req.ID != "1" || req.ReceiverID != "2" {
			t.Fatalf("unexpected ids %+v", req)
		}
		if req.Deadline == nil || req.Deadline.Hour() != 10 || req.Deadline.Minute() != 30 {
			t.Fatalf("unexpected deadline %v", req.Deadline)
		}
		if req.Status != domain.RequestPending {
			t.Fatalf("missing status should default to pending, got %q", req.Status)
		}
	}
}

func TestTransactionRecordIDAliases(t *testing.T) {
	cases := []string{
		`{"txn_id": 9, "food_id": 3, "date": "2025-01-01 08:00:00"}`,
		`{"transaction_id": 9, "food_id": 3, "timestamp": "2025-01-01 08:00:00"}`,
		`{"id": 9, "food_id": 3, "created_at": "2025-01-01T08:00:00Z"}`,
	}
	for _, raw := range cases {
		var rec TransactionRecord
		if err := json.Unmarshal([]byte(raw), &rec); err != nil {
			t.Fatalf("unmarshal %s: %v", raw, err)
		}
		txn := rec.ToDomain()
		if txn.ID != "9" || txn.FoodID != "3" || txn.CreatedAt.IsZero() {
			t.Fatalf("unexpected transaction from %s: %+v", raw, txn)
		}
	}
}

func TestLoginResponseLegacyRole(t *testing.T) {
	var resp LoginResponse
	if err := json.Unmarshal([]byte(`{"user_id": 4, "role": "donor"}`), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	s := resp.Session()
	if s.UserID != "4" || !s.Roles.Has(domain.RoleDonor) {
		t.Fatalf("unexpected session %+v", s)
	}
}

func TestFoodAddRequestEncoding(t *testing.T) {
	req := NewFoodAddRequest(domain.NewFood{
		DonorID:    "5",
		Name:       "Bread",
		Quantity:   2,
		ExpiryDate: time.Date(2025, 3, 4, 0, 0, 0, 0, time.UTC),
	})
	out, err := json.Marshal(req)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	want := `{"user_id":5,"food_name":"Bread","quantity":2,"expiry_date":"2025-03-04"}`
	if string(out) != want {
		t.Fatalf("encoding = %s, want %s", out, want)
	}
}

func TestErrorBodyText(t *testing.T) {
	if (ErrorBody{Error: "boom"}).Text() != "boom" {
		t.Fatal("expected error key fallback")
	}
	if (ErrorBody{Message: "m", Error: "e"}).Text() != "m" {
		t.Fatal("message key takes precedence")
	}
}

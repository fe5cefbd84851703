package domain

import "testing"

func TestComputeDonorStats(t *testing.T) {
	t.Parallel()

	nearby := []FoodRequest{{ID: "1"}, {ID: "2"}}
	cases := []struct {
		name   string
		foods  []FoodItem
		active int
		total  int
	}{
		{name: "none", foods: nil, active: 0, total: 0},
		{name: "one available", foods: []FoodItem{{ID: "1", Status: FoodAvailable}}, active: 1, total: 1},
		{name: "one matched", foods: []FoodItem{{ID: "1", Status: FoodMatched}}, active: 0, total: 1},
		{
			name: "mixed",
			foods: []FoodItem{
				{ID: "1", Status: FoodAvailable},
				{ID: "2", Status: FoodMatched},
				{ID: "3", Status: FoodExpired},
				{ID: "4", Status: FoodAvailable},
			},
			active: 2,
			total:  4,
		},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			stats := ComputeDonorStats(tc.foods, nearby)
			if stats.ActiveDonations != tc.active {
				t.Errorf("ActiveDonations = %d, want %d", stats.ActiveDonations, tc.active)
			}
			if stats.TotalDonated != tc.total {
				t.Errorf("TotalDonated = %d, want %d", stats.TotalDonated, tc.total)
			}
			if stats.NearbyRequests != 2 {
				t.Errorf("NearbyRequests = %d, want 2", stats.NearbyRequests)
			}
		})
	}
}

func TestComputeReceiverStats(t *testing.T) {
	stats := ComputeReceiverStats([]FoodRequest{
		{Status: RequestPending},
		{Status: RequestFulfilled},
		{Status: RequestCancelled},
		{Status: RequestPending},
	})
	if stats.ActiveRequests != 2 || stats.Fulfilled != 1 || stats.TotalRequests != 4 {
		t.Fatalf("unexpected stats %+v", stats)
	}
}

func TestParseFoodStatus(t *testing.T) {
	if ParseFoodStatus("") != FoodAvailable {
		t.Fatal("empty status should default to available")
	}
	if ParseFoodStatus("claimed") != FoodMatched {
		t.Fatal("claimed should map to matched")
	}
	if ParseFoodStatus(" Expired ") != FoodExpired {
		t.Fatal("expected expired")
	}
}

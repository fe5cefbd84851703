package domain

// DonorStats are the donor dashboard counters.
type DonorStats struct {
	ActiveDonations int `json:"active_donations"`
	NearbyRequests  int `json:"nearby_requests"`
	TotalDonated    int `json:"total_donated"`
}

// ComputeDonorStats derives counters from freshly fetched collections.
func ComputeDonorStats(foods []FoodItem, nearby []FoodRequest) DonorStats {
	stats := DonorStats{
		NearbyRequests: len(nearby),
		TotalDonated:   len(foods),
	}
	for _, f := range foods {
		if f.IsAvailable() {
			stats.ActiveDonations++
		}
	}
	return stats
}

// ReceiverStats are the receiver dashboard counters.
type ReceiverStats struct {
	ActiveRequests int `json:"active_requests"`
	Fulfilled      int `json:"fulfilled"`
	TotalRequests  int `json:"total_requests"`
}

// ComputeReceiverStats derives counters from the receiver's own requests.
func ComputeReceiverStats(requests []FoodRequest) ReceiverStats {
	stats := ReceiverStats{TotalRequests: len(requests)}
	for _, r := range requests {
		switch r.Status {
		case RequestPending:
			stats.ActiveRequests++
		case RequestFulfilled:
			stats.Fulfilled++
		}
	}
	return stats
}

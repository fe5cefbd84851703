package reconcile

import "github.com/fastygo/foodshare/domain"

// Sizes of the dashboard "recent" panels.
const (
	recentFoods    = 2
	recentNearby   = 4
	recentRequests = 4
)

// DashboardView is the closed set of dashboard variants.
type DashboardView int

const (
	ViewNone DashboardView = iota
	DonorView
	ReceiverView
	CombinedView
)

func (v DashboardView) String() string {
	switch v {
	case DonorView:
		return "donor"
	case ReceiverView:
		return "receiver"
	case CombinedView:
		return "combined"
	default:
		return "none"
	}
}

// SelectView picks the dashboard variant for roles. It reports false when
// the role set is empty.
func SelectView(roles domain.RoleSet) (DashboardView, bool) {
	donor, receiver := roles.Has(domain.RoleDonor), roles.Has(domain.RoleReceiver)
	switch {
	case donor && receiver:
		return CombinedView, true
	case donor:
		return DonorView, true
	case receiver:
		return ReceiverView, true
	default:
		return ViewNone, false
	}
}

type DonorDashboard struct {
	Foods  []domain.FoodItem
	Nearby []domain.FoodRequest
}

// Stats is derived on every call.
func (d DonorDashboard) Stats() domain.DonorStats {
	return domain.ComputeDonorStats(d.Foods, d.Nearby)
}

func (d DonorDashboard) RecentFoods() []domain.FoodItem {
	return head(d.Foods, recentFoods)
}

func (d DonorDashboard) RecentNearby() []domain.FoodRequest {
	return head(d.Nearby, recentNearby)
}

type ReceiverDashboard struct {
	Requests []domain.FoodRequest
}

func (d ReceiverDashboard) Stats() domain.ReceiverStats {
	return domain.ComputeReceiverStats(d.Requests)
}

func (d ReceiverDashboard) RecentRequests() []domain.FoodRequest {
	return head(d.Requests, recentRequests)
}

// Dashboard is the role-dispatched landing view. Only the halves selected by
// Kind are populated.
type Dashboard struct {
	Kind     DashboardView
	Roles    domain.RoleSet
	Donor    DonorDashboard
	Receiver ReceiverDashboard
}

func (d Dashboard) HasDonor() bool {
	return d.Kind == DonorView || d.Kind == CombinedView
}

func (d Dashboard) HasReceiver() bool {
	return d.Kind == ReceiverView || d.Kind == CombinedView
}

func head[T any](items []T, n int) []T {
	if len(items) <= n {
		return items
	}
	return items[:n]
}

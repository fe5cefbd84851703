package stubapi

import (
	"fmt"
	"time"

	"github.com/fastygo/foodshare/domain"
)

// DemoPassword is the password of every seeded account.
const DemoPassword = "foodshare"

// Seed loads demo accounts and a few listings: a donor, a receiver and a
// member holding both roles.
func Seed(s *Store) error {
	donor, err := s.Register(User{Name: "Dana Donor", Email: "donor@example.org", Phone: "555-0100",
		Latitude: 12.97, Longitude: 77.59, Roles: domain.NewRoleSet(domain.RoleDonor)}, DemoPassword)
	if err != nil {
		return fmt.Errorf("seed donor: %w", err)
	}
	receiver, err := s.Register(User{Name: "Riley Receiver", Email: "receiver@example.org", Phone: "555-0101",
		Latitude: 12.98, Longitude: 77.60, Roles: domain.NewRoleSet(domain.RoleReceiver)}, DemoPassword)
	if err != nil {
		return fmt.Errorf("seed receiver: %w", err)
	}
	if _, err := s.Register(User{Name: "Bo Both", Email: "both@example.org",
		Roles: domain.NewRoleSet(domain.RoleDonor, domain.RoleReceiver)}, DemoPassword); err != nil {
		return fmt.Errorf("seed combined: %w", err)
	}

	tomorrow := time.Now().AddDate(0, 0, 1).Truncate(24 * time.Hour)
	for _, f := range []Food{
		{DonorID: donor.ID, Name: "Vegetable curry", Quantity: 10, Expiry: tomorrow},
		{DonorID: donor.ID, Name: "Bread loaves", Quantity: 6, Expiry: tomorrow.AddDate(0, 0, 2)},
	} {
		if _, err := s.AddFood(f); err != nil {
			return fmt.Errorf("seed food: %w", err)
		}
	}
	for _, r := range []Request{
		{ReceiverID: receiver.ID, FoodType: "Cooked meals", Quantity: 8, Urgency: "high"},
		{ReceiverID: receiver.ID, FoodType: "Bakery", Quantity: 4, Urgency: "low"},
	} {
		if _, err := s.AddRequest(r); err != nil {
			return fmt.Errorf("seed request: %w", err)
		}
	}
	return nil
}

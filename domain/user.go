package domain

import "strings"

// User is the profile of a platform member.
type User struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	Email     string  `json:"email,omitempty"`
	Phone     string  `json:"phone,omitempty"`
	Latitude  float64 `json:"location_lat"`
	Longitude float64 `json:"location_long"`
	Roles     RoleSet `json:"roles"`
}

// Registration is the profile submitted when creating an account.
type Registration struct {
	Name      string
	Email     string
	Password  string
	Phone     string
	Latitude  float64
	Longitude float64
	Roles     RoleSet
}

func (r Registration) Validate() error {
	switch {
	case strings.TrimSpace(r.Name) == "":
		return Invalid("name is required")
	case strings.TrimSpace(r.Email) == "":
		return Invalid("email is required")
	case r.Password == "":
		return Invalid("password is required")
	case r.Roles.Empty():
		return Invalid("at least one role is required")
	}
	return nil
}

// ProfileUpdate carries the fields to change; nil means unchanged.
type ProfileUpdate struct {
	Name      *string
	Phone     *string
	Latitude  *float64
	Longitude *float64
}

func (p ProfileUpdate) Empty() bool {
	return p.Name == nil && p.Phone == nil && p.Latitude == nil && p.Longitude == nil
}

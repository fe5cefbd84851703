package domain

import (
	"encoding/json"
	"sort"
	"strings"
)

// Role is a capability a user holds on the platform.
type Role string

const (
	RoleDonor    Role = "donor"
	RoleReceiver Role = "receiver"
)

// Valid reports whether r belongs to the closed role set.
func (r Role) Valid() bool {
	return r == RoleDonor || r == RoleReceiver
}

// RoleSet is a subset of {donor, receiver}. The zero value is the empty set.
type RoleSet struct {
	donor    bool
	receiver bool
}

// NewRoleSet keeps only known roles.
func NewRoleSet(roles ...Role) RoleSet {
	var s RoleSet
	for _, r := range roles {
		switch Role(strings.ToLower(strings.TrimSpace(string(r)))) {
		case RoleDonor:
			s.donor = true
		case RoleReceiver:
			s.receiver = true
		}
	}
	return s
}

// ParseRoles decodes stored role data. Accepted forms are a JSON array of
// names, a single JSON string, or a bare comma separated list. Anything else
// yields the empty set.
func ParseRoles(raw string) RoleSet {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return RoleSet{}
	}
	switch raw[0] {
	case '[':
		var names []string
		if err := json.Unmarshal([]byte(raw), &names); err != nil {
			return RoleSet{}
		}
		return fromNames(names)
	case '"':
		var name string
		if err := json.Unmarshal([]byte(raw), &name); err != nil {
			return RoleSet{}
		}
		return fromNames(strings.Split(name, ","))
	case '{':
		return RoleSet{}
	default:
		return fromNames(strings.Split(raw, ","))
	}
}

func fromNames(names []string) RoleSet {
	roles := make([]Role, 0, len(names))
	for _, n := range names {
		roles = append(roles, Role(n))
	}
	return NewRoleSet(roles...)
}

func (s RoleSet) Has(r Role) bool {
	switch r {
	case RoleDonor:
		return s.donor
	case RoleReceiver:
		return s.receiver
	}
	return false
}

func (s RoleSet) Empty() bool { return !s.donor && !s.receiver }

// Slice returns the roles in a stable order.
func (s RoleSet) Slice() []Role {
	out := make([]Role, 0, 2)
	if s.donor {
		out = append(out, RoleDonor)
	}
	if s.receiver {
		out = append(out, RoleReceiver)
	}
	return out
}

// Strings returns role names sorted alphabetically.
func (s RoleSet) Strings() []string {
	out := make([]string, 0, 2)
	for _, r := range s.Slice() {
		out = append(out, string(r))
	}
	sort.Strings(out)
	return out
}

// MarshalJSON encodes the set as an array of names.
func (s RoleSet) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Strings())
}

// UnmarshalJSON accepts an array, a string or null; unknown names are dropped.
func (s *RoleSet) UnmarshalJSON(data []byte) error {
	*s = ParseRoles(string(data))
	return nil
}

// Label is the human readable role summary shown in the dashboard header.
func (s RoleSet) Label() string {
	switch {
	case s.donor && s.receiver:
		return "Donor & Receiver"
	case s.donor:
		return "Donor"
	case s.receiver:
		return "Receiver"
	default:
		return "No role"
	}
}

// Session is the client's record of the current identity.
type Session struct {
	UserID string  `json:"user_id,omitempty"`
	Roles  RoleSet `json:"roles"`
}

// IsAuthenticated holds exactly when a user id is present.
func (s Session) IsAuthenticated() bool {
	return s.UserID != ""
}

// Credentials are used for the duration of a login call and never stored.
type Credentials struct {
	Email    string
	Password string
}

func (c Credentials) Validate() error {
	if strings.TrimSpace(c.Email) == "" || c.Password == "" {
		return Invalid("email and password are required")
	}
	return nil
}

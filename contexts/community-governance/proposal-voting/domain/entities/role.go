package entities

import (
	"sort"
	"strings"
)

// Role is a platform role as carried in the caller's token claims.
type Role string

const (
	RoleAdmin     Role = "Admin"
	RoleManager   Role = "Manager"
	RoleHomeowner Role = "Homeowner"
	RoleRenter    Role = "Renter"
	RoleHOAMember Role = "HOA Member"
)

var knownRoles = []Role{
	RoleAdmin,
	RoleManager,
	RoleHomeowner,
	RoleRenter,
	RoleHOAMember,
}

// ParseRole matches raw against the known roles, ignoring case and
// surrounding whitespace.
func ParseRole(raw string) (Role, bool) {
	value := strings.TrimSpace(raw)
	for _, role := range knownRoles {
		if strings.EqualFold(value, string(role)) {
			return role, true
		}
	}
	return "", false
}

// RoleSet is a sorted, duplicate-free set of roles.
type RoleSet []Role

func NewRoleSet(roles ...Role) RoleSet {
	seen := make(map[Role]struct{}, len(roles))
	set := make(RoleSet, 0, len(roles))
	for _, role := range roles {
		if _, ok := seen[role]; ok {
			continue
		}
		seen[role] = struct{}{}
		set = append(set, role)
	}
	sort.Slice(set, func(i, j int) bool { return set[i] < set[j] })
	return set
}

// ParseRoleSet is strict: every value must name a known role.
func ParseRoleSet(values []string) (RoleSet, bool) {
	roles := make([]Role, 0, len(values))
	for _, value := range values {
		role, ok := ParseRole(value)
		if !ok {
			return nil, false
		}
		roles = append(roles, role)
	}
	return NewRoleSet(roles...), true
}

// RoleSetFromClaims keeps the known roles and drops anything else a token
// happens to carry.
func RoleSetFromClaims(values []string) RoleSet {
	roles := make([]Role, 0, len(values))
	for _, value := range values {
		if role, ok := ParseRole(value); ok {
			roles = append(roles, role)
		}
	}
	return NewRoleSet(roles...)
}

func (s RoleSet) Contains(role Role) bool {
	for _, item := range s {
		if item == role {
			return true
		}
	}
	return false
}

func (s RoleSet) Intersects(other RoleSet) bool {
	for _, role := range s {
		if other.Contains(role) {
			return true
		}
	}
	return false
}

func (s RoleSet) Strings() []string {
	items := make([]string, 0, len(s))
	for _, role := range s {
		items = append(items, string(role))
	}
	return items
}

// String renders the comma-separated storage form.
func (s RoleSet) String() string {
	return strings.Join(s.Strings(), ",")
}

// ParseStoredRoleSet reads the comma-separated storage form.
func ParseStoredRoleSet(raw string) RoleSet {
	if strings.TrimSpace(raw) == "" {
		return RoleSet{}
	}
	return RoleSetFromClaims(strings.Split(raw, ","))
}

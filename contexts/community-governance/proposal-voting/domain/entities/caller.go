package entities

// Caller is the authenticated identity acting on the engine.
type Caller struct {
	UserID string
	Roles  RoleSet
}

func (c Caller) IsAdmin() bool {
	return c.Roles.Contains(RoleAdmin)
}

// CanGovern reports whether the caller may create and tally proposals.
func (c Caller) CanGovern() bool {
	return c.Roles.Contains(RoleAdmin) || c.Roles.Contains(RoleManager)
}

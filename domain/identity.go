package domain

import "slices"

const RoleAdmin = "admin"
const RoleUser = "user"

// Identity is what authentication hands to the relay for a connected client.
type Identity struct {
	UserID   UserID
	Username string
	Roles    []string
}

func (i Identity) HasRole(role string) bool {
	return slices.Contains(i.Roles, role)
}

package model

import (
	"slices"
	"time"
)

const (
	RoleAdmin = "admin"
)

// rolePermissions is the static role -> permissions policy mapping.
// Permission checks are a pure function over this table and the user's
// role set; nothing is resolved dynamically.
var rolePermissions = map[string][]string{
	RoleAdmin: {"manage-roles", "view-reports"},
}

type User struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	Email          string    `json:"email"`
	HashedPassword string    `json:"-"` // Not exposed
	Country        string    `json:"country,omitempty"`
	Roles          []string  `json:"roles"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// HasRole reports whether the user carries the named role.
func (u *User) HasRole(role string) bool {
	return slices.Contains(u.Roles, role)
}

// Can reports whether any of the user's roles grants the permission.
func (u *User) Can(permission string) bool {
	for _, role := range u.Roles {
		if slices.Contains(rolePermissions[role], permission) {
			return true
		}
	}
	return false
}

// Clone returns a deep copy so stores can hand out records without
// sharing mutable state with callers.
func (u *User) Clone() *User {
	c := *u
	c.Roles = slices.Clone(u.Roles)
	return &c
}

package model

import "time"

// Role represents a row in the `roles` table. A role is a named
// permission group created by administrators; users acquire
// permissions by being granted roles.
//
// Fields:
//  ID          – numeric identifier of the role.
//  Name        – unique role name (e.g. admin, user).
//  Description – optional free-text description.
type Role struct {
	ID          uint64 // roles.id
	Name        string // roles.name
	Description string // roles.description
}

// UserRole models an entry in the `user_roles` join table linking a
// user to a role. The (UserID, RoleID) pair is unique: a user holds
// a given role at most once. A user may hold any number of roles and
// their effective permissions are the union across all of them.
//
// Fields:
//  ID        – primary key identifier.
//  UserID    – the user being granted the role.
//  RoleID    – the granted role.
//  CreatedAt – timestamp of the grant.
type UserRole struct {
	ID        uint64    // user_roles.id
	UserID    uint64    // user_roles.user_id
	RoleID    uint64    // user_roles.role_id
	CreatedAt time.Time // user_roles.created_at
}

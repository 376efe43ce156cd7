package model

import "time"

// Permission joins a role to a resource with an access flag. At most
// one row exists per (RoleID, ResourceID) pair; the absence of a row
// is equivalent to CanAccess=false (default-deny).
//
// Fields:
//  ID         – primary key identifier.
//  RoleID     – the role being granted (or denied) access.
//  ResourceID – the protected resource.
//  CanAccess  – true grants access, false denies it.
//  CreatedAt  – timestamp of creation.
type Permission struct {
	ID         uint64    // permissions.id
	RoleID     uint64    // permissions.role_id
	ResourceID uint64    // permissions.resource_id
	CanAccess  bool      // permissions.can_access
	CreatedAt  time.Time // permissions.created_at
}

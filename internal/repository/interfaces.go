package repository

import (
	"context"
	"time"

	"github.com/iliyamo/access-control/internal/model"
)

// UserStore persists user accounts.
type UserStore interface {
	// Create inserts a user and fills in its ID. Returns
	// ErrEmailExists when the email is taken.
	Create(ctx context.Context, u *model.User) error
	// GetByEmail fetches a user by normalized email. Returns
	// ErrNotFound when no row matches.
	GetByEmail(ctx context.Context, email string) (model.User, error)
	// GetByID fetches a user by id. Returns ErrNotFound when no row
	// matches.
	GetByID(ctx context.Context, id uint64) (model.User, error)
	// UpdateProfile updates the mutable profile fields (names).
	UpdateProfile(ctx context.Context, u model.User) error
	// SetLastLogin records a successful login instant.
	SetLastLogin(ctx context.Context, id uint64, at time.Time) error
	// Deactivate flips is_active to false. The caller is responsible
	// for revoking the user's tokens as well; there is no database
	// cascade for the flag-based path.
	Deactivate(ctx context.Context, id uint64) error
}

// TokenStore persists session tokens. Tokens are never deleted,
// only deactivated.
type TokenStore interface {
	// Insert stores a freshly issued token and fills in its ID.
	// Returns ErrDuplicate when the token value collides with an
	// existing row so the issuer can regenerate and retry.
	Insert(ctx context.Context, t *model.SessionToken) error
	// GetByValue fetches a token row by its exact value, regardless
	// of its active/expiry state. Returns ErrNotFound when no row
	// matches.
	GetByValue(ctx context.Context, token string) (model.SessionToken, error)
	// Deactivate flips is_active to false for the token iff it
	// belongs to userID. A token that is absent or owned by someone
	// else is a no-op, not an error.
	Deactivate(ctx context.Context, token string, userID uint64) error
	// DeactivateAllForUser flips is_active to false for every token
	// owned by userID.
	DeactivateAllForUser(ctx context.Context, userID uint64) error
}

// RoleStore persists roles and the user-role grants.
type RoleStore interface {
	Create(ctx context.Context, r *model.Role) error
	GetByID(ctx context.Context, id uint64) (model.Role, error)
	GetByName(ctx context.Context, name string) (model.Role, error)
	List(ctx context.Context) ([]model.Role, error)
	Update(ctx context.Context, r model.Role) error
	Delete(ctx context.Context, id uint64) error
	// ListForUser returns the roles held by a user. An empty slice
	// means the user holds no roles.
	ListForUser(ctx context.Context, userID uint64) ([]model.Role, error)
	// Grant links a user to a role. Granting an already-held role
	// returns ErrDuplicate.
	Grant(ctx context.Context, userID, roleID uint64) error
	// Revoke removes a user-role grant. Absent grants are a no-op.
	Revoke(ctx context.Context, userID, roleID uint64) error
}

// ResourceStore persists protected resources.
type ResourceStore interface {
	Create(ctx context.Context, r *model.Resource) error
	GetByID(ctx context.Context, id uint64) (model.Resource, error)
	// GetByNameMethod fetches the resource matching the (name,
	// method) pair exactly. Returns ErrNotFound when no row matches.
	GetByNameMethod(ctx context.Context, name, method string) (model.Resource, error)
	List(ctx context.Context) ([]model.Resource, error)
	Delete(ctx context.Context, id uint64) error
}

// PermissionStore persists role-resource permissions.
type PermissionStore interface {
	Create(ctx context.Context, p *model.Permission) error
	List(ctx context.Context) ([]model.Permission, error)
	Delete(ctx context.Context, id uint64) error
	// AnyAllows reports whether at least one of the given roles has
	// a can_access=true permission on the resource. An empty role
	// list always reports false.
	AnyAllows(ctx context.Context, roleIDs []uint64, resourceID uint64) (bool, error)
}

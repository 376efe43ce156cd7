// Package auth implements the authentication and authorization
// engine: session token lifecycle, resource-key resolution and the
// role-based permission evaluation that decides allow/deny for each
// request. Persistence goes through the repository interfaces so the
// engine runs the same against MySQL or the in-memory stores.
package auth

import "github.com/iliyamo/access-control/internal/model"

// Principal is the identity attached to a request after
// authentication. The zero value is the anonymous principal.
type Principal struct {
	User  *model.User
	Token *model.SessionToken
}

// Anonymous reports whether no valid token backed this principal.
func (p Principal) Anonymous() bool { return p.User == nil }

package model

import "time"

// SessionToken models an entry in the `session_tokens` table. Each
// token belongs to exactly one user and carries an opaque 256-bit
// random value encoded as 64 hexadecimal characters. Tokens are
// never deleted, only deactivated, so the table doubles as an
// append-only record of issued sessions.
//
// A token authenticates a request iff IsActive is true and the
// current time is before ExpiresAt.
//
// Fields:
//  ID        – primary key identifier.
//  UserID    – owner of the token.
//  Token     – unique 64-char hex value presented by clients.
//  ExpiresAt – expiration timestamp (UTC).
//  CreatedAt – timestamp of issuance.
//  IsActive  – false after logout or account deactivation.
type SessionToken struct {
	ID        uint64    // session_tokens.id
	UserID    uint64    // session_tokens.user_id
	Token     string    // session_tokens.token
	ExpiresAt time.Time // session_tokens.expires_at
	CreatedAt time.Time // session_tokens.created_at
	IsActive  bool      // session_tokens.is_active
}

// Valid reports whether the token is usable for authentication at
// the given instant.
func (t SessionToken) Valid(now time.Time) bool {
	return t.IsActive && now.Before(t.ExpiresAt)
}

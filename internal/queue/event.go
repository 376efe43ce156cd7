// Package queue defines message payloads exchanged over the message
// broker.
package queue

// SessionsRevokedEvent is published when every session of a user is
// revoked at once, i.e. on account deactivation. It carries enough
// information for downstream consumers to notify the user or tear
// down derived state without querying the primary database.
type SessionsRevokedEvent struct {
	UserID    uint64 `json:"user_id"`
	Email     string `json:"email"`
	Reason    string `json:"reason"`
	RevokedAt string `json:"revoked_at"`
}

// Package repository defines the persistence interfaces consumed by
// the auth engine together with their MySQL implementations. The
// sentinel errors below let higher layers distinguish failure
// scenarios without inspecting driver-specific error strings.
package repository

import "errors"

// ErrNotFound is returned when a lookup matches no row. Callers in
// the auth engine translate it into their own typed outcomes (e.g.
// an unknown resource becomes a Deny, an unknown token becomes an
// authentication failure).
var ErrNotFound = errors.New("not found")

// ErrDuplicate is returned when an insert violates a uniqueness
// constraint, such as two session tokens sharing a value or two
// resources sharing a (name, method) pair.
var ErrDuplicate = errors.New("duplicate")

// ErrEmailExists is returned by UserStore.Create when the email is
// already registered. Handlers translate this into an HTTP 409.
var ErrEmailExists = errors.New("email already exists")

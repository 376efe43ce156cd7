package auth

import "errors"

// ErrInvalidCredentials is returned by Login for an unknown email,
// an inactive account, or a wrong password. The three causes are
// deliberately indistinguishable to the caller.
var ErrInvalidCredentials = errors.New("invalid credentials")

// ErrTokenNotFound is returned when a presented token cannot be used
// for authentication. A token that never existed, an expired token,
// a deactivated token and a token of an inactive user all produce
// this same value so responses leak nothing about which case it was.
var ErrTokenNotFound = errors.New("token not found")

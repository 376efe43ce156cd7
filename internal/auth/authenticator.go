package auth

import (
	"context"
	"errors"
	"strings"
)

// bearerPrefix is the credential scheme stripped from the
// Authorization header. The prefix is optional: a bare token value
// is accepted too.
const bearerPrefix = "Bearer "

// Authenticator establishes the identity of a request from its raw
// Authorization header value. It never decides allow/deny itself; an
// unusable token simply yields the anonymous principal and the
// permission evaluator takes it from there.
type Authenticator struct {
	sessions *Sessions
}

func NewAuthenticator(sessions *Sessions) *Authenticator {
	return &Authenticator{sessions: sessions}
}

// Authenticate resolves the header value to a principal. Only an
// infrastructure failure produces an error; every authentication
// failure (missing, unknown, expired or revoked token, inactive
// owner) comes back as the anonymous principal with a nil error.
func (a *Authenticator) Authenticate(ctx context.Context, header string) (Principal, error) {
	raw := strings.TrimSpace(header)
	raw = strings.TrimPrefix(raw, bearerPrefix)
	if raw == "" {
		return Principal{}, nil
	}
	u, t, err := a.sessions.Resolve(ctx, raw)
	if err != nil {
		if errors.Is(err, ErrTokenNotFound) {
			return Principal{}, nil
		}
		return Principal{}, err
	}
	return Principal{User: &u, Token: &t}, nil
}

package auth

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/iliyamo/access-control/internal/model"
	"github.com/iliyamo/access-control/internal/repository"
)

// Session tokens carry 256 bits of entropy, encoded as 64 hex chars.
const tokenBytes = 32

// DefaultSessionTTL is how long a token issued at login stays valid
// unless configured otherwise.
const DefaultSessionTTL = 30 * 24 * time.Hour

// How many times Issue regenerates on a token value collision before
// giving up. A collision needs two identical 256-bit draws, so more
// than one retry already means the random source is broken.
const maxIssueAttempts = 3

// randomHex returns a hex-encoded string generated from n bytes of
// cryptographically secure random data.
func randomHex(n int) (string, error) {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}

// Sessions owns the session token lifecycle: issue, resolve, revoke.
// Both issuance and validation read the same UTC clock, which is
// injectable for tests.
type Sessions struct {
	tokens repository.TokenStore
	users  repository.UserStore
	now    func() time.Time
}

func NewSessions(tokens repository.TokenStore, users repository.UserStore) *Sessions {
	return &Sessions{
		tokens: tokens,
		users:  users,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// SetClock replaces the time source. Tests use it to move time past
// a token's expiry without sleeping.
func (s *Sessions) SetClock(now func() time.Time) { s.now = now }

// Issue generates a fresh unique token for the user, valid for ttl
// from now, persists it and returns the stored record. Generation is
// retried on the (astronomically unlikely) unique-constraint
// collision.
func (s *Sessions) Issue(ctx context.Context, userID uint64, ttl time.Duration) (model.SessionToken, error) {
	now := s.now()
	for attempt := 0; attempt < maxIssueAttempts; attempt++ {
		raw, err := randomHex(tokenBytes)
		if err != nil {
			return model.SessionToken{}, fmt.Errorf("issue token: %w", err)
		}
		t := model.SessionToken{
			UserID:    userID,
			Token:     raw,
			ExpiresAt: now.Add(ttl),
			CreatedAt: now,
			IsActive:  true,
		}
		err = s.tokens.Insert(ctx, &t)
		if err == nil {
			return t, nil
		}
		if !errors.Is(err, repository.ErrDuplicate) {
			return model.SessionToken{}, fmt.Errorf("issue token: %w", err)
		}
	}
	return model.SessionToken{}, errors.New("issue token: exhausted retries on value collision")
}

// Resolve looks a token up by exact value and returns its owner. A
// missing row, a deactivated or expired token and an inactive owner
// all return ErrTokenNotFound; callers cannot tell the cases apart.
// Any other error is an infrastructure failure.
func (s *Sessions) Resolve(ctx context.Context, raw string) (model.User, model.SessionToken, error) {
	t, err := s.tokens.GetByValue(ctx, raw)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return model.User{}, model.SessionToken{}, ErrTokenNotFound
		}
		return model.User{}, model.SessionToken{}, fmt.Errorf("resolve token: %w", err)
	}
	if !t.Valid(s.now()) {
		return model.User{}, model.SessionToken{}, ErrTokenNotFound
	}
	u, err := s.users.GetByID(ctx, t.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return model.User{}, model.SessionToken{}, ErrTokenNotFound
		}
		return model.User{}, model.SessionToken{}, fmt.Errorf("resolve token owner: %w", err)
	}
	if !u.IsActive {
		return model.User{}, model.SessionToken{}, ErrTokenNotFound
	}
	return u, t, nil
}

// Revoke deactivates one token iff it belongs to userID. Unknown or
// foreign tokens are a silent no-op so logout never fails from the
// client's point of view.
func (s *Sessions) Revoke(ctx context.Context, raw string, userID uint64) error {
	return s.tokens.Deactivate(ctx, raw, userID)
}

// RevokeAll deactivates every token the user holds. Called on
// account deactivation so no session survives it.
func (s *Sessions) RevokeAll(ctx context.Context, userID uint64) error {
	return s.tokens.DeactivateAllForUser(ctx, userID)
}

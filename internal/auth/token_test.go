package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/iliyamo/access-control/internal/model"
	"github.com/iliyamo/access-control/internal/repository"
	"github.com/iliyamo/access-control/internal/repository/memory"
)

func seedUser(t *testing.T, users *memory.Users, email string, active bool) model.User {
	t.Helper()
	u := model.User{Email: email, PasswordHash: "x", IsActive: active}
	if err := users.Create(context.Background(), &u); err != nil {
		t.Fatalf("seeding user: %v", err)
	}
	return u
}

func TestSessions_IssueAndResolve(t *testing.T) {
	users := memory.NewUsers()
	tokens := memory.NewTokens()
	s := NewSessions(tokens, users)
	ctx := context.Background()
	u := seedUser(t, users, "issue@example.com", true)

	tok, err := s.Issue(ctx, u.ID, time.Hour)
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}
	if len(tok.Token) != 64 {
		t.Errorf("token length = %d, want 64 hex chars", len(tok.Token))
	}
	if !tok.IsActive {
		t.Error("issued token should be active")
	}

	gotUser, gotTok, err := s.Resolve(ctx, tok.Token)
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if gotUser.ID != u.ID {
		t.Errorf("Resolve() user = %d, want %d", gotUser.ID, u.ID)
	}
	if gotTok.Token != tok.Token {
		t.Errorf("Resolve() token = %q, want %q", gotTok.Token, tok.Token)
	}
}

func TestSessions_IssuedTokensAreUnique(t *testing.T) {
	users := memory.NewUsers()
	tokens := memory.NewTokens()
	s := NewSessions(tokens, users)
	ctx := context.Background()
	u := seedUser(t, users, "unique@example.com", true)

	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		tok, err := s.Issue(ctx, u.ID, time.Hour)
		if err != nil {
			t.Fatalf("Issue() #%d error = %v", i, err)
		}
		if seen[tok.Token] {
			t.Fatalf("duplicate token value issued: %q", tok.Token)
		}
		seen[tok.Token] = true
	}
}

func TestSessions_ExpiryWithoutWrite(t *testing.T) {
	users := memory.NewUsers()
	tokens := memory.NewTokens()
	s := NewSessions(tokens, users)
	ctx := context.Background()
	u := seedUser(t, users, "expiry@example.com", true)

	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	now := base
	s.SetClock(func() time.Time { return now })

	tok, err := s.Issue(ctx, u.ID, time.Hour)
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}
	if _, _, err := s.Resolve(ctx, tok.Token); err != nil {
		t.Fatalf("Resolve() before expiry error = %v", err)
	}

	// Advance time to exactly expires_at: now >= expires_at rejects.
	now = base.Add(time.Hour)
	if _, _, err := s.Resolve(ctx, tok.Token); !errors.Is(err, ErrTokenNotFound) {
		t.Errorf("Resolve() at expiry error = %v, want ErrTokenNotFound", err)
	}
}

func TestSessions_RevokeOnlyOwnToken(t *testing.T) {
	users := memory.NewUsers()
	tokens := memory.NewTokens()
	s := NewSessions(tokens, users)
	ctx := context.Background()
	owner := seedUser(t, users, "owner@example.com", true)
	other := seedUser(t, users, "other@example.com", true)

	tok, err := s.Issue(ctx, owner.ID, time.Hour)
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}

	// A different user revoking the token is a no-op.
	if err := s.Revoke(ctx, tok.Token, other.ID); err != nil {
		t.Fatalf("Revoke() by non-owner error = %v", err)
	}
	if _, _, err := s.Resolve(ctx, tok.Token); err != nil {
		t.Fatalf("token should survive a foreign revoke, got %v", err)
	}

	if err := s.Revoke(ctx, tok.Token, owner.ID); err != nil {
		t.Fatalf("Revoke() error = %v", err)
	}
	if _, _, err := s.Resolve(ctx, tok.Token); !errors.Is(err, ErrTokenNotFound) {
		t.Errorf("Resolve() after revoke error = %v, want ErrTokenNotFound", err)
	}
}

func TestSessions_InactiveOwnerRejected(t *testing.T) {
	users := memory.NewUsers()
	tokens := memory.NewTokens()
	s := NewSessions(tokens, users)
	ctx := context.Background()
	u := seedUser(t, users, "inactive@example.com", true)

	tok, err := s.Issue(ctx, u.ID, time.Hour)
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}
	if err := users.Deactivate(ctx, u.ID); err != nil {
		t.Fatalf("Deactivate() error = %v", err)
	}
	if _, _, err := s.Resolve(ctx, tok.Token); !errors.Is(err, ErrTokenNotFound) {
		t.Errorf("Resolve() for inactive owner error = %v, want ErrTokenNotFound", err)
	}
}

// collidingTokens forces value collisions for the first n inserts.
type collidingTokens struct {
	*memory.Tokens
	remaining int
}

func (c *collidingTokens) Insert(ctx context.Context, tok *model.SessionToken) error {
	if c.remaining > 0 {
		c.remaining--
		return repository.ErrDuplicate
	}
	return c.Tokens.Insert(ctx, tok)
}

func TestSessions_IssueRetriesOnCollision(t *testing.T) {
	users := memory.NewUsers()
	tokens := &collidingTokens{Tokens: memory.NewTokens(), remaining: 2}
	s := NewSessions(tokens, users)
	ctx := context.Background()
	u := seedUser(t, users, "collide@example.com", true)

	tok, err := s.Issue(ctx, u.ID, time.Hour)
	if err != nil {
		t.Fatalf("Issue() should survive %d collisions, got %v", 2, err)
	}
	if tok.Token == "" {
		t.Error("Issue() returned empty token after retries")
	}

	tokens.remaining = maxIssueAttempts
	if _, err := s.Issue(ctx, u.ID, time.Hour); err == nil {
		t.Error("Issue() should fail after exhausting collision retries")
	}
}

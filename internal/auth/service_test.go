package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/iliyamo/access-control/internal/queue"
	"github.com/iliyamo/access-control/internal/repository"
	"github.com/iliyamo/access-control/internal/repository/memory"
)

type serviceFixture struct {
	users    *memory.Users
	tokens   *memory.Tokens
	sessions *Sessions
	svc      *Service
	authn    *Authenticator
}

func newServiceFixture() *serviceFixture {
	f := &serviceFixture{
		users:  memory.NewUsers(),
		tokens: memory.NewTokens(),
	}
	f.sessions = NewSessions(f.tokens, f.users)
	f.svc = NewService(f.users, f.sessions, DefaultSessionTTL, bcrypt.MinCost)
	f.authn = NewAuthenticator(f.sessions)
	return f
}

func TestService_LoginThenAuthenticate(t *testing.T) {
	f := newServiceFixture()
	ctx := context.Background()

	u, err := f.svc.Register(ctx, "alice@example.com", "s3cret", "Alice", "", "")
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	tok, loggedIn, err := f.svc.Login(ctx, "alice@example.com", "s3cret")
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}
	if loggedIn.ID != u.ID {
		t.Errorf("Login() user = %d, want %d", loggedIn.ID, u.ID)
	}
	if loggedIn.LastLogin == nil {
		t.Error("Login() should set last_login")
	}

	p, err := f.authn.Authenticate(ctx, "Bearer "+tok.Token)
	if err != nil {
		t.Fatalf("Authenticate() error = %v", err)
	}
	if p.Anonymous() || p.User.ID != u.ID {
		t.Errorf("Authenticate() principal = %+v, want user %d", p, u.ID)
	}

	// The scheme prefix is optional.
	p, err = f.authn.Authenticate(ctx, tok.Token)
	if err != nil {
		t.Fatalf("Authenticate() without prefix error = %v", err)
	}
	if p.Anonymous() {
		t.Error("Authenticate() without Bearer prefix should still resolve")
	}
}

func TestService_LoginWrongPassword(t *testing.T) {
	f := newServiceFixture()
	ctx := context.Background()

	if _, err := f.svc.Register(ctx, "bob@example.com", "right", "", "", ""); err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	_, _, err := f.svc.Login(ctx, "bob@example.com", "wrong")
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("Login() error = %v, want ErrInvalidCredentials", err)
	}

	u, err := f.users.GetByEmail(ctx, "bob@example.com")
	if err != nil {
		t.Fatalf("GetByEmail() error = %v", err)
	}
	if u.LastLogin != nil {
		t.Error("failed login must not touch last_login")
	}
}

func TestService_LoginUnknownOrInactive(t *testing.T) {
	f := newServiceFixture()
	ctx := context.Background()

	if _, _, err := f.svc.Login(ctx, "ghost@example.com", "pw"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("Login() unknown email error = %v, want ErrInvalidCredentials", err)
	}

	u, err := f.svc.Register(ctx, "gone@example.com", "pw", "", "", "")
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	if err := f.users.Deactivate(ctx, u.ID); err != nil {
		t.Fatalf("Deactivate() error = %v", err)
	}
	if _, _, err := f.svc.Login(ctx, "gone@example.com", "pw"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("Login() inactive user error = %v, want ErrInvalidCredentials", err)
	}
}

func TestService_RegisterDuplicateEmail(t *testing.T) {
	f := newServiceFixture()
	ctx := context.Background()

	if _, err := f.svc.Register(ctx, "dup@example.com", "pw", "", "", ""); err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	_, err := f.svc.Register(ctx, "Dup@Example.com", "pw", "", "", "")
	if !errors.Is(err, repository.ErrEmailExists) {
		t.Errorf("Register() duplicate error = %v, want ErrEmailExists", err)
	}
}

func TestService_LogoutUnknownTokenIsNoop(t *testing.T) {
	f := newServiceFixture()
	ctx := context.Background()

	u, err := f.svc.Register(ctx, "noop@example.com", "pw", "", "", "")
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	p := Principal{User: &u}

	if err := f.svc.Logout(ctx, "deadbeef", p); err != nil {
		t.Errorf("Logout() with never-issued token error = %v, want nil", err)
	}
	if err := f.svc.Logout(ctx, "", Principal{}); err != nil {
		t.Errorf("Logout() anonymous error = %v, want nil", err)
	}
}

func TestService_DeactivateAccountRevokesEverything(t *testing.T) {
	f := newServiceFixture()
	ctx := context.Background()

	u, err := f.svc.Register(ctx, "leaving@example.com", "pw", "", "", "")
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	var toks []string
	for i := 0; i < 3; i++ {
		tok, _, err := f.svc.Login(ctx, "leaving@example.com", "pw")
		if err != nil {
			t.Fatalf("Login() #%d error = %v", i, err)
		}
		toks = append(toks, tok.Token)
	}

	var published []queue.SessionsRevokedEvent
	f.svc.SetPublisher(func(ctx context.Context, ev queue.SessionsRevokedEvent) error {
		published = append(published, ev)
		return nil
	})

	if err := f.svc.DeactivateAccount(ctx, Principal{User: &u}); err != nil {
		t.Fatalf("DeactivateAccount() error = %v", err)
	}

	for _, raw := range toks {
		p, err := f.authn.Authenticate(ctx, "Bearer "+raw)
		if err != nil {
			t.Fatalf("Authenticate() error = %v", err)
		}
		if !p.Anonymous() {
			t.Errorf("token %q still authenticates after account deactivation", raw)
		}
	}

	if len(published) != 1 || published[0].UserID != u.ID {
		t.Errorf("published events = %+v, want one sessions-revoked event for user %d", published, u.ID)
	}
}

func TestService_UpdateProfile(t *testing.T) {
	f := newServiceFixture()
	ctx := context.Background()

	u, err := f.svc.Register(ctx, "profile@example.com", "pw", "Old", "Name", "")
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	got, err := f.svc.UpdateProfile(ctx, Principal{User: &u}, "New", "Name", "Patro")
	if err != nil {
		t.Fatalf("UpdateProfile() error = %v", err)
	}
	if got.FirstName != "New" || got.Patronymic != "Patro" {
		t.Errorf("UpdateProfile() = %+v, want updated names", got)
	}
	if got.Email != "profile@example.com" {
		t.Errorf("UpdateProfile() must not change email, got %q", got.Email)
	}
}

func TestAuthenticator_GarbageHeader(t *testing.T) {
	f := newServiceFixture()
	ctx := context.Background()

	for _, header := range []string{"", "Bearer ", "Bearer not-a-real-token", "deadbeef"} {
		p, err := f.authn.Authenticate(ctx, header)
		if err != nil {
			t.Fatalf("Authenticate(%q) error = %v", header, err)
		}
		if !p.Anonymous() {
			t.Errorf("Authenticate(%q) = identified principal, want anonymous", header)
		}
	}
}

func TestService_TokenExpiresAfterTTL(t *testing.T) {
	f := newServiceFixture()
	ctx := context.Background()

	base := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	now := base
	clock := func() time.Time { return now }
	f.sessions.SetClock(clock)
	f.svc.SetClock(clock)

	if _, err := f.svc.Register(ctx, "ttl@example.com", "pw", "", "", ""); err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	tok, _, err := f.svc.Login(ctx, "ttl@example.com", "pw")
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}

	now = base.Add(DefaultSessionTTL - time.Minute)
	if p, _ := f.authn.Authenticate(ctx, tok.Token); p.Anonymous() {
		t.Error("token should still work just before the TTL")
	}

	now = base.Add(DefaultSessionTTL + time.Minute)
	if p, _ := f.authn.Authenticate(ctx, tok.Token); !p.Anonymous() {
		t.Error("token should be rejected after the TTL with no explicit write")
	}
}

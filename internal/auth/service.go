package auth

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/iliyamo/access-control/internal/model"
	"github.com/iliyamo/access-control/internal/queue"
	"github.com/iliyamo/access-control/internal/repository"
)

// PublishFunc delivers an event to the message broker. Publishing is
// best effort: failures are logged by the publisher and never fail
// the request that triggered the event.
type PublishFunc func(ctx context.Context, ev queue.SessionsRevokedEvent) error

// Service orchestrates the account-facing operations: registration,
// login, logout, profile updates and account deactivation. It is the
// single write path for users and sessions; the evaluator and
// authenticator only read.
type Service struct {
	users      repository.UserStore
	sessions   *Sessions
	ttl        time.Duration
	bcryptCost int
	now        func() time.Time
	publish    PublishFunc
}

func NewService(users repository.UserStore, sessions *Sessions, ttl time.Duration, bcryptCost int) *Service {
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	return &Service{
		users:      users,
		sessions:   sessions,
		ttl:        ttl,
		bcryptCost: bcryptCost,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

// SetPublisher wires the broker publisher. A nil func disables
// event publishing.
func (s *Service) SetPublisher(fn PublishFunc) { s.publish = fn }

// SetClock replaces the time source, for tests.
func (s *Service) SetClock(now func() time.Time) { s.now = now }

// Register creates an active, non-superuser account. Returns
// repository.ErrEmailExists when the email is taken.
func (s *Service) Register(ctx context.Context, email, password, firstName, lastName, patronymic string) (model.User, error) {
	hash, err := HashPassword(password, s.bcryptCost)
	if err != nil {
		return model.User{}, fmt.Errorf("register: %w", err)
	}
	u := model.User{
		Email:        email,
		PasswordHash: hash,
		FirstName:    firstName,
		LastName:     lastName,
		Patronymic:   patronymic,
		IsActive:     true,
	}
	if err := s.users.Create(ctx, &u); err != nil {
		return model.User{}, err
	}
	return u, nil
}

// Login verifies the credentials and issues a session token. The
// email must belong to an active account and the password must
// match; any other combination returns ErrInvalidCredentials with no
// token issued and last_login untouched.
func (s *Service) Login(ctx context.Context, email, password string) (model.SessionToken, model.User, error) {
	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return model.SessionToken{}, model.User{}, ErrInvalidCredentials
		}
		return model.SessionToken{}, model.User{}, fmt.Errorf("login: %w", err)
	}
	if !u.IsActive || !VerifyPassword(u.PasswordHash, password) {
		return model.SessionToken{}, model.User{}, ErrInvalidCredentials
	}

	t, err := s.sessions.Issue(ctx, u.ID, s.ttl)
	if err != nil {
		return model.SessionToken{}, model.User{}, err
	}

	now := s.now()
	if err := s.users.SetLastLogin(ctx, u.ID, now); err != nil {
		// The session is already usable; losing the timestamp is not
		// worth failing the login over.
		log.Printf("login: set last_login for user %d: %v", u.ID, err)
	} else {
		u.LastLogin = &now
	}
	return t, u, nil
}

// Logout revokes one token of the principal. A token that was never
// issued, already revoked, or owned by someone else is a silent
// no-op: logout never fails from the client's point of view.
func (s *Service) Logout(ctx context.Context, rawToken string, p Principal) error {
	if p.Anonymous() || rawToken == "" {
		return nil
	}
	return s.sessions.Revoke(ctx, rawToken, p.User.ID)
}

// Profile returns the current account record for the principal.
func (s *Service) Profile(ctx context.Context, p Principal) (model.User, error) {
	return s.users.GetByID(ctx, p.User.ID)
}

// UpdateProfile rewrites the principal's name fields and returns the
// updated record.
func (s *Service) UpdateProfile(ctx context.Context, p Principal, firstName, lastName, patronymic string) (model.User, error) {
	u := *p.User
	u.FirstName = firstName
	u.LastName = lastName
	u.Patronymic = patronymic
	if err := s.users.UpdateProfile(ctx, u); err != nil {
		return model.User{}, err
	}
	return s.users.GetByID(ctx, u.ID)
}

// DeactivateAccount soft-deletes the principal's account and revokes
// every session token the user holds. Both steps are explicit; there
// is no database cascade for the flag-based path. The flag is
// flipped first so that even if the bulk revoke fails midway, token
// resolution already rejects the inactive owner.
func (s *Service) DeactivateAccount(ctx context.Context, p Principal) error {
	if err := s.users.Deactivate(ctx, p.User.ID); err != nil {
		return fmt.Errorf("deactivate account: %w", err)
	}
	if err := s.sessions.RevokeAll(ctx, p.User.ID); err != nil {
		return fmt.Errorf("deactivate account: revoke sessions: %w", err)
	}
	if s.publish != nil {
		_ = s.publish(ctx, queue.SessionsRevokedEvent{
			UserID:    p.User.ID,
			Email:     p.User.Email,
			Reason:    "account_deactivated",
			RevokedAt: s.now().Format(time.RFC3339),
		})
	}
	return nil
}

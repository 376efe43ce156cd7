// Package memory provides in-memory implementations of the
// repository interfaces. They back the engine's tests and allow the
// server to run without a MySQL instance. All stores are safe for
// concurrent use.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/iliyamo/access-control/internal/model"
	"github.com/iliyamo/access-control/internal/repository"
)

// Users is an in-memory repository.UserStore.
type Users struct {
	mu      sync.RWMutex
	nextID  uint64
	byID    map[uint64]*model.User
	byEmail map[string]uint64
}

func NewUsers() *Users {
	return &Users{
		byID:    make(map[uint64]*model.User),
		byEmail: make(map[string]uint64),
	}
}

func (s *Users) Create(ctx context.Context, u *model.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	email := repository.NormalizeEmail(u.Email)
	if _, ok := s.byEmail[email]; ok {
		return repository.ErrEmailExists
	}
	s.nextID++
	u.ID = s.nextID
	u.Email = email
	u.CreatedAt = time.Now().UTC()
	u.UpdatedAt = u.CreatedAt
	cp := *u
	s.byID[u.ID] = &cp
	s.byEmail[email] = u.ID
	return nil
}

func (s *Users) GetByEmail(ctx context.Context, email string) (model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.byEmail[repository.NormalizeEmail(email)]
	if !ok {
		return model.User{}, repository.ErrNotFound
	}
	return *s.byID[id], nil
}

func (s *Users) GetByID(ctx context.Context, id uint64) (model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.byID[id]
	if !ok {
		return model.User{}, repository.ErrNotFound
	}
	return *u, nil
}

func (s *Users) UpdateProfile(ctx context.Context, u model.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cur, ok := s.byID[u.ID]
	if !ok {
		return repository.ErrNotFound
	}
	cur.FirstName = u.FirstName
	cur.LastName = u.LastName
	cur.Patronymic = u.Patronymic
	cur.UpdatedAt = time.Now().UTC()
	return nil
}

func (s *Users) SetLastLogin(ctx context.Context, id uint64, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.byID[id]
	if !ok {
		return repository.ErrNotFound
	}
	t := at.UTC()
	u.LastLogin = &t
	return nil
}

func (s *Users) Deactivate(ctx context.Context, id uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.byID[id]
	if !ok {
		return repository.ErrNotFound
	}
	u.IsActive = false
	return nil
}

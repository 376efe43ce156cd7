package memory

import (
	"context"
	"sync"
	"time"

	"github.com/iliyamo/access-control/internal/model"
	"github.com/iliyamo/access-control/internal/repository"
)

// Tokens is an in-memory repository.TokenStore. Rows are kept after
// deactivation, matching the append-only semantics of the SQL store.
type Tokens struct {
	mu      sync.RWMutex
	nextID  uint64
	byValue map[string]*model.SessionToken
}

func NewTokens() *Tokens {
	return &Tokens{byValue: make(map[string]*model.SessionToken)}
}

func (s *Tokens) Insert(ctx context.Context, t *model.SessionToken) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.byValue[t.Token]; ok {
		return repository.ErrDuplicate
	}
	s.nextID++
	t.ID = s.nextID
	if t.CreatedAt.IsZero() {
		t.CreatedAt = time.Now().UTC()
	}
	cp := *t
	s.byValue[t.Token] = &cp
	return nil
}

func (s *Tokens) GetByValue(ctx context.Context, token string) (model.SessionToken, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.byValue[token]
	if !ok {
		return model.SessionToken{}, repository.ErrNotFound
	}
	return *t, nil
}

func (s *Tokens) Deactivate(ctx context.Context, token string, userID uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if t, ok := s.byValue[token]; ok && t.UserID == userID {
		t.IsActive = false
	}
	return nil
}

func (s *Tokens) DeactivateAllForUser(ctx context.Context, userID uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, t := range s.byValue {
		if t.UserID == userID {
			t.IsActive = false
		}
	}
	return nil
}

package memory

import (
	"context"
	"sync"
	"time"

	"github.com/iliyamo/access-control/internal/model"
	"github.com/iliyamo/access-control/internal/repository"
)

// Roles is an in-memory repository.RoleStore covering both the role
// table and the user-role grants.
type Roles struct {
	mu     sync.RWMutex
	nextID uint64
	byID   map[uint64]*model.Role
	grants map[uint64]map[uint64]bool // userID -> set of roleIDs
}

func NewRoles() *Roles {
	return &Roles{
		byID:   make(map[uint64]*model.Role),
		grants: make(map[uint64]map[uint64]bool),
	}
}

func (s *Roles) Create(ctx context.Context, r *model.Role) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.byID {
		if existing.Name == r.Name {
			return repository.ErrDuplicate
		}
	}
	s.nextID++
	r.ID = s.nextID
	cp := *r
	s.byID[r.ID] = &cp
	return nil
}

func (s *Roles) GetByID(ctx context.Context, id uint64) (model.Role, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.byID[id]
	if !ok {
		return model.Role{}, repository.ErrNotFound
	}
	return *r, nil
}

func (s *Roles) GetByName(ctx context.Context, name string) (model.Role, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, r := range s.byID {
		if r.Name == name {
			return *r, nil
		}
	}
	return model.Role{}, repository.ErrNotFound
}

func (s *Roles) List(ctx context.Context) ([]model.Role, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.Role, 0, len(s.byID))
	for _, r := range s.byID {
		out = append(out, *r)
	}
	return out, nil
}

func (s *Roles) Update(ctx context.Context, r model.Role) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cur, ok := s.byID[r.ID]
	if !ok {
		return repository.ErrNotFound
	}
	cur.Name = r.Name
	cur.Description = r.Description
	return nil
}

func (s *Roles) Delete(ctx context.Context, id uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.byID, id)
	for _, set := range s.grants {
		delete(set, id)
	}
	return nil
}

func (s *Roles) ListForUser(ctx context.Context, userID uint64) ([]model.Role, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []model.Role
	for roleID := range s.grants[userID] {
		if r, ok := s.byID[roleID]; ok {
			out = append(out, *r)
		}
	}
	return out, nil
}

func (s *Roles) Grant(ctx context.Context, userID, roleID uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	set := s.grants[userID]
	if set == nil {
		set = make(map[uint64]bool)
		s.grants[userID] = set
	}
	if set[roleID] {
		return repository.ErrDuplicate
	}
	set[roleID] = true
	return nil
}

func (s *Roles) Revoke(ctx context.Context, userID, roleID uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.grants[userID], roleID)
	return nil
}

// Resources is an in-memory repository.ResourceStore.
type Resources struct {
	mu     sync.RWMutex
	nextID uint64
	byID   map[uint64]*model.Resource
}

func NewResources() *Resources {
	return &Resources{byID: make(map[uint64]*model.Resource)}
}

func (s *Resources) Create(ctx context.Context, r *model.Resource) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.byID {
		if existing.Name == r.Name && existing.Method == r.Method {
			return repository.ErrDuplicate
		}
	}
	s.nextID++
	r.ID = s.nextID
	cp := *r
	s.byID[r.ID] = &cp
	return nil
}

func (s *Resources) GetByID(ctx context.Context, id uint64) (model.Resource, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.byID[id]
	if !ok {
		return model.Resource{}, repository.ErrNotFound
	}
	return *r, nil
}

func (s *Resources) GetByNameMethod(ctx context.Context, name, method string) (model.Resource, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, r := range s.byID {
		if r.Name == name && r.Method == method {
			return *r, nil
		}
	}
	return model.Resource{}, repository.ErrNotFound
}

func (s *Resources) List(ctx context.Context) ([]model.Resource, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.Resource, 0, len(s.byID))
	for _, r := range s.byID {
		out = append(out, *r)
	}
	return out, nil
}

func (s *Resources) Delete(ctx context.Context, id uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.byID, id)
	return nil
}

// Permissions is an in-memory repository.PermissionStore.
type Permissions struct {
	mu     sync.RWMutex
	nextID uint64
	byID   map[uint64]*model.Permission
}

func NewPermissions() *Permissions {
	return &Permissions{byID: make(map[uint64]*model.Permission)}
}

func (s *Permissions) Create(ctx context.Context, p *model.Permission) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.byID {
		if existing.RoleID == p.RoleID && existing.ResourceID == p.ResourceID {
			return repository.ErrDuplicate
		}
	}
	s.nextID++
	p.ID = s.nextID
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now().UTC()
	}
	cp := *p
	s.byID[p.ID] = &cp
	return nil
}

func (s *Permissions) List(ctx context.Context) ([]model.Permission, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.Permission, 0, len(s.byID))
	for _, p := range s.byID {
		out = append(out, *p)
	}
	return out, nil
}

func (s *Permissions) Delete(ctx context.Context, id uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.byID, id)
	return nil
}

func (s *Permissions) AnyAllows(ctx context.Context, roleIDs []uint64, resourceID uint64) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, p := range s.byID {
		if p.ResourceID != resourceID || !p.CanAccess {
			continue
		}
		for _, id := range roleIDs {
			if p.RoleID == id {
				return true, nil
			}
		}
	}
	return false, nil
}

package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/access-control/internal/repository"
)

// Decision is the outcome of an authorization check. Deny is a
// normal result, not an error; only infrastructure failures are
// reported through the error return.
type Decision int

const (
	Deny Decision = iota
	Allow
)

func (d Decision) String() string {
	if d == Allow {
		return "allow"
	}
	return "deny"
}

// Evaluator decides allow/deny for a principal and a resource key by
// consulting the role-permission table. Lookups are default-deny:
// unknown resource, empty role set or missing permission row all
// deny.
//
// An optional Redis cache shortcuts repeated lookups for the same
// (user, resource key). Permission-table reads tolerate a change
// becoming visible on a later request, so a short TTL is safe; token
// validity is never cached here.
type Evaluator struct {
	resources repository.ResourceStore
	roles     repository.RoleStore
	perms     repository.PermissionStore

	cache       *redis.Client
	cacheTTL    time.Duration
	cachePrefix string
}

func NewEvaluator(resources repository.ResourceStore, roles repository.RoleStore, perms repository.PermissionStore) *Evaluator {
	return &Evaluator{resources: resources, roles: roles, perms: perms}
}

// EnableCache turns on the Redis decision cache. A nil client leaves
// caching disabled; callers can pass the possibly-nil result of the
// config constructor directly.
func (e *Evaluator) EnableCache(rdb *redis.Client, ttl time.Duration, prefix string) {
	if rdb == nil || ttl <= 0 {
		return
	}
	e.cache = rdb
	e.cacheTTL = ttl
	e.cachePrefix = prefix
}

func (e *Evaluator) cacheKey(userID uint64, key ResourceKey) string {
	return fmt.Sprintf("%s:%d:%s:%s", e.cachePrefix, userID, key.Name, key.Method)
}

// Authorize returns Allow iff the principal may act on the resource
// key. Superusers bypass the table entirely; anonymous principals
// are always denied (public endpoints never reach the evaluator).
// A non-nil error means the store was unreachable and the request
// must fail as a server error, not as a deny.
func (e *Evaluator) Authorize(ctx context.Context, p Principal, key ResourceKey) (Decision, error) {
	if p.Anonymous() {
		return Deny, nil
	}
	if p.User.IsSuperuser {
		return Allow, nil
	}

	if e.cache != nil {
		if v, err := e.cache.Get(ctx, e.cacheKey(p.User.ID, key)).Result(); err == nil {
			if v == "1" {
				return Allow, nil
			}
			return Deny, nil
		}
		// Cache miss or Redis failure: fall through to the store.
	}

	d, err := e.evaluate(ctx, p.User.ID, key)
	if err != nil {
		return Deny, err
	}

	if e.cache != nil {
		v := "0"
		if d == Allow {
			v = "1"
		}
		// Best effort; a failed write only costs a future lookup.
		e.cache.Set(ctx, e.cacheKey(p.User.ID, key), v, e.cacheTTL)
	}
	return d, nil
}

func (e *Evaluator) evaluate(ctx context.Context, userID uint64, key ResourceKey) (Decision, error) {
	res, err := e.resources.GetByNameMethod(ctx, key.Name, key.Method)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return Deny, nil
		}
		return Deny, fmt.Errorf("authorize: resource lookup: %w", err)
	}

	roles, err := e.roles.ListForUser(ctx, userID)
	if err != nil {
		return Deny, fmt.Errorf("authorize: role lookup: %w", err)
	}
	if len(roles) == 0 {
		return Deny, nil
	}

	ids := make([]uint64, len(roles))
	for i, r := range roles {
		ids[i] = r.ID
	}

	ok, err := e.perms.AnyAllows(ctx, ids, res.ID)
	if err != nil {
		return Deny, fmt.Errorf("authorize: permission lookup: %w", err)
	}
	if ok {
		return Allow, nil
	}
	return Deny, nil
}

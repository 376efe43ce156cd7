package config

import "time"

// PermCacheConfig defines settings for the Redis permission-decision
// cache used by the evaluator. Permission-table reads tolerate an
// administrative change becoming visible on a later request, so a
// short TTL is safe. Token validity is never cached; revocation must
// be immediately visible.
type PermCacheConfig struct {
	Enabled bool
	TTL     time.Duration
	Prefix  string
}

// LoadPermCacheConfig reads environment variables to build a
// PermCacheConfig. Defaults: enabled, 30s TTL, "perm" prefix.
func LoadPermCacheConfig() PermCacheConfig {
	return PermCacheConfig{
		Enabled: envBool("PERM_CACHE_ENABLED", true),
		TTL:     envDur("PERM_CACHE_TTL", 30*time.Second),
		Prefix:  envStr("PERM_CACHE_PREFIX", "perm"),
	}
}

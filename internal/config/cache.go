package config

import (
	"strings"
	"time"
)

// CacheConfig controls the Redis response cache that sits in front of
// the public event and stand browse endpoints.  Those listings change
// rarely between assignment runs, so short-TTL caching absorbs most of
// the exhibitor browsing traffic.  Methods lists the HTTP methods
// worth caching (mutating endpoints never are), KeyStrategy picks
// which request parts feed the cache key, and MaxBodyBytes caps how
// large a listing payload may be before it is stored truncated.
type CacheConfig struct {
	Enabled      bool
	Methods      map[string]bool
	TTL          time.Duration
	KeyStrategy  string
	Prefix       string
	MaxBodyBytes int
}

// LoadCacheConfig builds a CacheConfig from CACHE_* environment
// variables, falling back to defaults tuned for the browse endpoints.
func LoadCacheConfig() CacheConfig {
	return CacheConfig{
		Enabled:      envBool("CACHE_ENABLED", true),
		Methods:      parseMethods(envStr("CACHE_METHODS", "GET")),
		TTL:          envDur("CACHE_TTL", 30*time.Second),
		KeyStrategy:  envStr("CACHE_KEY_STRATEGY", "route_query"),
		Prefix:       envStr("CACHE_PREFIX", "cache"),
		MaxBodyBytes: envInt("CACHE_MAX_BODY_BYTES", 1<<20),
	}
}

func parseMethods(s string) map[string]bool {
	m := map[string]bool{}
	for _, p := range strings.Split(s, ",") {
		p = strings.TrimSpace(strings.ToUpper(p))
		if p != "" {
			m[p] = true
		}
	}
	return m
}

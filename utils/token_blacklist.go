package utils

import (
	"context"
	"sync"
	"time"
)

// Logout revokes tokens before their natural expiry. Redis holds the
// blacklist with a TTL matching the token; the map is the fallback.

var (
	memBlacklist   = map[string]time.Time{}
	memBlacklistMu sync.RWMutex
)

// BlacklistToken marks a token revoked until expiresAt.
func BlacklistToken(token string, expiresAt time.Time) {
	ttl := time.Until(expiresAt)
	if ttl <= 0 {
		return
	}
	if rc := GetRedis(); rc != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if rc.Set(ctx, "jwt:blacklist:"+token, "1", ttl).Err() == nil {
			return
		}
	}
	memBlacklistMu.Lock()
	memBlacklist[token] = expiresAt
	memBlacklistMu.Unlock()
}

// IsTokenBlacklisted reports whether a token was revoked. Redis errors fail
// open so a cache outage cannot lock every user out.
func IsTokenBlacklisted(token string) bool {
	if rc := GetRedis(); rc != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if n, err := rc.Exists(ctx, "jwt:blacklist:"+token).Result(); err == nil {
			return n > 0
		}
	}
	memBlacklistMu.RLock()
	exp, ok := memBlacklist[token]
	memBlacklistMu.RUnlock()
	return ok && time.Now().Before(exp)
}

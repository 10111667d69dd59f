package utils

import (
	"context"
	"sync"
	"time"
)

// OAuth state tokens are single-use CSRF guards. Redis keeps them valid
// across instances; the in-memory map is the single-instance fallback.

var (
	memStates   = map[string]time.Time{}
	memStatesMu sync.Mutex
)

// SaveState stores an OAuth state token for ttl.
func SaveState(state string, ttl time.Duration) {
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	if rc := GetRedis(); rc != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if rc.Set(ctx, "oauth:state:"+state, "1", ttl).Err() == nil {
			return
		}
	}
	memStatesMu.Lock()
	memStates[state] = time.Now().Add(ttl)
	memStatesMu.Unlock()
}

// ConsumeState validates and removes a state token, returning whether it
// was present and unexpired.
func ConsumeState(state string) bool {
	if rc := GetRedis(); rc != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if n, err := rc.Del(ctx, "oauth:state:"+state).Result(); err == nil {
			return n > 0
		}
	}
	memStatesMu.Lock()
	defer memStatesMu.Unlock()
	exp, ok := memStates[state]
	if !ok {
		return false
	}
	delete(memStates, state)
	return time.Now().Before(exp)
}

package utils

import (
	"context"
	"sync"
	"time"
)

var (
	blacklist   = map[string]time.Time{}
	blacklistMu sync.RWMutex
)

func blacklistKey(tokenID string) string {
	return "jwt:blacklist:" + tokenID
}

// BlacklistToken revokes a token id until its natural expiration.
func BlacklistToken(tokenID string, expiresAt time.Time) {
	ttl := time.Until(expiresAt)
	if tokenID == "" || ttl <= 0 {
		return
	}
	if rc := GetRedis(); rc != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		err := rc.Set(ctx, blacklistKey(tokenID), "1", ttl).Err()
		if err == nil {
			return
		}
		Sugar.Warnf("redis blacklist set failed, falling back to memory: %v", err)
	}
	blacklistMu.Lock()
	blacklist[tokenID] = expiresAt
	pruneBlacklistLocked()
	blacklistMu.Unlock()
}

// IsTokenBlacklisted checks if a token id was revoked before natural expiration.
func IsTokenBlacklisted(tokenID string) bool {
	if rc := GetRedis(); rc != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		n, err := rc.Exists(ctx, blacklistKey(tokenID)).Result()
		if err == nil && n > 0 {
			return true
		}
	}
	blacklistMu.RLock()
	expiresAt, ok := blacklist[tokenID]
	blacklistMu.RUnlock()
	return ok && time.Now().Before(expiresAt)
}

func pruneBlacklistLocked() {
	now := time.Now()
	for id, exp := range blacklist {
		if now.After(exp) {
			delete(blacklist, id)
		}
	}
}

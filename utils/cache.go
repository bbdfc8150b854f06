package utils

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const defaultCacheTTL = 10 * time.Minute

// CacheGetBytes returns cached bytes for a key from Redis.
func CacheGetBytes(key string) ([]byte, bool) {
	rc := GetRedis()
	if rc == nil {
		return nil, false
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	b, err := rc.Get(ctx, key).Bytes()
	if err != nil {
		Sugar.Debugf("cache get miss key=%s err=%v", key, err)
		return nil, false
	}
	return b, true
}

// CacheSetJSON marshals v and stores it with ttl, or the default TTL when ttl <= 0.
func CacheSetJSON(key string, v interface{}, ttl time.Duration) {
	rc := GetRedis()
	if rc == nil {
		return
	}
	b, err := json.Marshal(v)
	if err != nil {
		return
	}
	if ttl <= 0 {
		ttl = defaultCacheTTL
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := rc.Set(ctx, key, b, ttl).Err(); err != nil {
		Sugar.Warnf("cache set failed key=%s err=%v", key, err)
	}
}

const cacheVersionPrefix = "cachever:"

// VersionedKey names the entry for one generation of a cache namespace.
func VersionedKey(ns string, version int64) string {
	return fmt.Sprintf("%s:v%d", ns, version)
}

// CacheVersion returns the current generation of ns, 0 when unset or without Redis.
// Readers fetch it before querying; a fill that races a write lands under a
// generation that is never read again.
func CacheVersion(ns string) int64 {
	rc := GetRedis()
	if rc == nil {
		return 0
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	v, err := rc.Get(ctx, cacheVersionPrefix+ns).Int64()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			Sugar.Warnf("cache version read failed ns=%s err=%v", ns, err)
		}
		return 0
	}
	return v
}

// BumpCacheVersion invalidates every entry of ns.
func BumpCacheVersion(ns string) {
	rc := GetRedis()
	if rc == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := rc.Incr(ctx, cacheVersionPrefix+ns).Err(); err != nil {
		Sugar.Warnf("cache version bump failed ns=%s err=%v", ns, err)
	}
}

package session

import (
	"context"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// Revoker 记录已登出的令牌 id，保留到令牌过期
type Revoker interface {
	Revoke(ctx context.Context, id string, ttl time.Duration) error
	IsRevoked(ctx context.Context, id string) (bool, error)
}

const redisKeyPrefix = "happyfans:session:revoked:"

// RedisRevoker 多实例部署共享吊销名单
type RedisRevoker struct{ client redis.UniversalClient }

func NewRedisRevoker(client redis.UniversalClient) *RedisRevoker { return &RedisRevoker{client: client} }

func (r *RedisRevoker) Revoke(ctx context.Context, id string, ttl time.Duration) error {
	return r.client.Set(ctx, redisKeyPrefix+id, 1, ttl).Err()
}

func (r *RedisRevoker) IsRevoked(ctx context.Context, id string) (bool, error) {
	n, err := r.client.Exists(ctx, redisKeyPrefix+id).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// MemoryRevoker 单进程吊销名单，访问时顺带清理过期项
type MemoryRevoker struct {
	mu      sync.Mutex
	entries map[string]time.Time
	now     func() time.Time
}

func NewMemoryRevoker() *MemoryRevoker {
	return &MemoryRevoker{entries: make(map[string]time.Time), now: time.Now}
}

func (r *MemoryRevoker) Revoke(_ context.Context, id string, ttl time.Duration) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := r.now()
	r.sweep(now)
	r.entries[id] = now.Add(ttl)
	return nil
}

func (r *MemoryRevoker) IsRevoked(_ context.Context, id string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	exp, ok := r.entries[id]
	if !ok {
		return false, nil
	}
	if !r.now().Before(exp) {
		delete(r.entries, id)
		return false, nil
	}
	return true, nil
}

func (r *MemoryRevoker) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}

func (r *MemoryRevoker) sweep(now time.Time) {
	for id, exp := range r.entries {
		if !now.Before(exp) {
			delete(r.entries, id)
		}
	}
}

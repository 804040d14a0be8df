package cache

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/cbonilla3189/happyfans/internal/model"
	"github.com/cbonilla3189/happyfans/internal/repository"
	"github.com/cbonilla3189/happyfans/pkg/logger"
)

const (
	fanListVersionKey = "happyfans:fans:version"
	fanListKeyPrefix  = "happyfans:fans:list:"
)

func listKey(version int64) string {
	return fanListKeyPrefix + strconv.FormatInt(version, 10)
}

// FanRepository 留言列表的读穿缓存
// 列表按版本号存放，写入成功后递增版本；旧版本的键由 TTL 回收
// 递增失败时在重新递增成功前不读缓存；Redis 故障时退回数据库
type FanRepository struct {
	inner  repository.FanRepository
	client redis.UniversalClient
	ttl    time.Duration

	// 版本递增失败尚未补上
	stale atomic.Bool

	hits   atomic.Int64
	misses atomic.Int64
}

func NewFanRepository(inner repository.FanRepository, client redis.UniversalClient, ttl time.Duration) *FanRepository {
	return &FanRepository{inner: inner, client: client, ttl: ttl}
}

func (r *FanRepository) Create(ctx context.Context, name, message string, photo *string, ownerID *uint) (*model.Fan, error) {
	f, err := r.inner.Create(ctx, name, message, photo, ownerID)
	if err != nil {
		return nil, err
	}
	r.bump(ctx)
	return f, nil
}

func (r *FanRepository) bump(ctx context.Context) bool {
	if err := r.client.Incr(ctx, fanListVersionKey).Err(); err != nil {
		r.stale.Store(true)
		logger.Warn("invalidate fan list cache failed", zap.Error(err))
		return false
	}
	r.stale.Store(false)
	return true
}

// version 读取失败时 ok 为 false，调用方直接查库
func (r *FanRepository) version(ctx context.Context) (int64, bool) {
	if r.stale.Load() && !r.bump(ctx) {
		return 0, false
	}
	v, err := r.client.Get(ctx, fanListVersionKey).Int64()
	switch {
	case err == nil:
		return v, true
	case errors.Is(err, redis.Nil):
		return 0, true
	default:
		logger.Warn("read fan list version failed", zap.Error(err))
		return 0, false
	}
}

func (r *FanRepository) List(ctx context.Context) ([]*model.Fan, error) {
	v, ok := r.version(ctx)
	if ok {
		data, err := r.client.Get(ctx, listKey(v)).Bytes()
		switch {
		case err == nil:
			var out []*model.Fan
			if uErr := json.Unmarshal(data, &out); uErr == nil {
				r.hits.Add(1)
				return out, nil
			}
		case !errors.Is(err, redis.Nil):
			logger.Warn("read fan list cache failed", zap.Error(err))
		}
	}
	r.misses.Add(1)

	// 版本在查库之前读取，并发写入只会让这次回填落在旧版本上
	list, err := r.inner.List(ctx)
	if err != nil {
		return nil, err
	}
	if !ok {
		return list, nil
	}
	if payload, mErr := json.Marshal(list); mErr == nil {
		if sErr := r.client.Set(ctx, listKey(v), payload, r.ttl).Err(); sErr != nil {
			logger.Warn("write fan list cache failed", zap.Error(sErr))
		}
	}
	return list, nil
}

// Stats 命中与未命中次数
func (r *FanRepository) Stats() (hits, misses int64) {
	return r.hits.Load(), r.misses.Load()
}

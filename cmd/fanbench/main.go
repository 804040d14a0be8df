package main

import (
	"context"
	"fmt"
	"math"
	"os"
	"sort"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/cbonilla3189/happyfans/config"
	"github.com/cbonilla3189/happyfans/internal/cache"
	"github.com/cbonilla3189/happyfans/internal/model"
	"github.com/cbonilla3189/happyfans/internal/repository"
	"github.com/cbonilla3189/happyfans/internal/service"
	"github.com/cbonilla3189/happyfans/internal/storage"
	"github.com/cbonilla3189/happyfans/pkg/database"
)

func must[T any](v T, err error) T {
	if err != nil {
		panic(err)
	}
	return v
}

func envInt(name string, def int) int {
	if s := os.Getenv(name); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n > 0 {
			return n
		}
	}
	return def
}

func pct(vs []time.Duration, p float64) time.Duration {
	if len(vs) == 0 {
		return 0
	}
	xs := append([]time.Duration(nil), vs...)
	sort.Slice(xs, func(i, j int) bool { return xs[i] < xs[j] })
	k := int(math.Ceil(p*float64(len(xs)))) - 1
	if k < 0 {
		k = 0
	}
	if k >= len(xs) {
		k = len(xs) - 1
	}
	return xs[k]
}

// 向留言墙写入 N 条留言（CONC 并发），再测列表读取；配置了 Redis 时对比缓存读取
func main() {
	cfg := must(config.Load())
	ctx := context.Background()

	N := envInt("N", 2000)
	CONC := envInt("CONC", 4)
	LOOPS := envInt("LOOPS", 50)

	store := database.NewStore(cfg, &model.User{}, &model.Fan{})
	defer store.Close()
	fanRepo := repository.NewFanRepository(store)
	fans := service.NewFanService(fanRepo, storage.NewUploads(cfg.Upload.Dir))

	workers := CONC
	if workers > N {
		workers = N
	}
	feed := make(chan int, N)
	for i := 0; i < N; i++ {
		feed <- i
	}
	close(feed)

	lat := make(chan time.Duration, N)
	errs := make(chan error, N)
	done := make(chan struct{}, workers)
	t0 := time.Now()
	for w := 0; w < workers; w++ {
		go func() {
			for i := range feed {
				st := time.Now()
				_, err := fans.Submit(ctx, service.SubmitInput{
					Name:    "fan-" + uuid.NewString()[:8],
					Message: fmt.Sprintf("mensaje %d", i),
				})
				if err != nil {
					errs <- err
					continue
				}
				lat <- time.Since(st)
			}
			done <- struct{}{}
		}()
	}
	for w := 0; w < workers; w++ {
		<-done
	}
	submitDur := time.Since(t0)
	close(lat)
	close(errs)

	submits := make([]time.Duration, 0, N)
	for d := range lat {
		submits = append(submits, d)
	}
	failed := 0
	for range errs {
		failed++
	}

	measure := func(repo repository.FanRepository) []time.Duration {
		out := make([]time.Duration, 0, LOOPS)
		for i := 0; i < LOOPS; i++ {
			st := time.Now()
			_ = must(repo.List(ctx))
			out = append(out, time.Since(st))
		}
		return out
	}
	plain := measure(fanRepo)

	fmt.Printf("N=%d, CONC=%d, LOOPS=%d\n", N, CONC, LOOPS)
	fmt.Printf("Submit total: %v, per op: %v, p50: %v, p95: %v, p99: %v, failed: %d\n",
		submitDur, submitDur/time.Duration(N), pct(submits, 0.50), pct(submits, 0.95), pct(submits, 0.99), failed)
	fmt.Printf("List (db) p50: %v, p95: %v\n", pct(plain, 0.50), pct(plain, 0.95))

	if !cfg.Redis.Enabled() {
		return
	}
	rdb := must(database.NewRedis(ctx, cfg.Redis))
	defer rdb.Close()
	ttl := cfg.Redis.ListCacheTTL
	if ttl <= 0 {
		ttl = time.Minute
	}
	cached := cache.NewFanRepository(fanRepo, rdb, ttl)
	withCache := measure(cached)
	hits, misses := cached.Stats()
	fmt.Printf("List (cache) p50: %v, p95: %v, hits: %d, misses: %d\n", pct(withCache, 0.50), pct(withCache, 0.95), hits, misses)
}

// Package limiter 用 redis 实现固定窗口的排期次数限制
package limiter

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

type Limiter struct {
	rdb    redis.Cmdable
	limit  int
	window time.Duration
	prefix string
}

func New(rdb redis.Cmdable, limit int, window time.Duration) *Limiter {
	return &Limiter{
		rdb:    rdb,
		limit:  limit,
		window: window,
		prefix: "scheduling_runs",
	}
}

// Allow 记录一次请求，并返回在当前窗口内是否仍允许运行
// limit <= 0 或窗口不足 1ms 表示不限制
func (l *Limiter) Allow(ctx context.Context, client string) (bool, error) {
	if l.limit <= 0 || l.window < time.Millisecond {
		return true, nil
	}

	bucket := time.Now().UnixMilli() / l.window.Milliseconds()
	key := fmt.Sprintf("%s_%s_%d", l.prefix, client, bucket)

	pipe := l.rdb.TxPipeline()
	incr := pipe.Incr(ctx, key)
	pipe.PExpire(ctx, key, l.window)
	if _, err := pipe.Exec(ctx); err != nil {
		return false, err
	}

	return incr.Val() <= int64(l.limit), nil
}

package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	ScoreTTL       = 10 * time.Minute
	ScoreKeyPrefix = "score" // score:post:<id> / score:comment:<id>
)

// ScoreCacheRepository 热点目标的 score 读缓存。
// 权威值永远在 MySQL 的原子计数列里；缓存不一致时宁可删 key 交给读侧回源。
type ScoreCacheRepository struct {
	scoreTTL time.Duration
}

func NewScoreCacheRepository() *ScoreCacheRepository {
	return &ScoreCacheRepository{scoreTTL: ScoreTTL}
}

func (r *ScoreCacheRepository) key(kind string, id uint64) string {
	return fmt.Sprintf("%s:%s:%d", ScoreKeyPrefix, kind, id)
}

// Get 命中返回 (score, true)
func (r *ScoreCacheRepository) Get(ctx context.Context, kind string, id uint64) (int64, bool, error) {
	val, err := Client.Get(ctx, r.key(kind, id)).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, false, nil
	}
	return val, err == nil, err
}

// Set 回填库内权威值
func (r *ScoreCacheRepository) Set(ctx context.Context, kind string, id uint64, score int64) error {
	return Client.Set(ctx, r.key(kind, id), score, r.scoreTTL).Err()
}

// Adjust 投票写库成功后对缓存做同向增量；key 不存在则不创建，等读侧回源
func (r *ScoreCacheRepository) Adjust(ctx context.Context, kind string, id uint64, delta int64) error {
	k := r.key(kind, id)
	if ok, _ := Client.Exists(ctx, k).Result(); ok == 0 {
		return nil
	}
	if err := Client.IncrBy(ctx, k, delta).Err(); err != nil {
		return err
	}
	return Client.Expire(ctx, k, r.scoreTTL).Err()
}

// Delete 立即删 key；delay>0 时延迟二删，抵消并发回填窗口
func (r *ScoreCacheRepository) Delete(ctx context.Context, kind string, id uint64, delay ...time.Duration) error {
	k := r.key(kind, id)
	if err := Client.Del(ctx, k).Err(); err != nil && !errors.Is(err, redis.Nil) {
		return err
	}
	if len(delay) > 0 && delay[0] > 0 {
		d := delay[0]
		go func() {
			t := time.NewTimer(d)
			defer t.Stop()
			<-t.C
			_ = Client.Del(context.Background(), k).Err()
		}()
	}
	return nil
}

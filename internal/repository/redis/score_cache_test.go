package redis

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
)

func setupRedis(t *testing.T) {
	t.Helper()
	mr := miniredis.RunT(t)
	if err := Init(mr.Addr(), "", 0); err != nil {
		t.Fatalf("init redis: %v", err)
	}
}

// 未回填过的 key 调整是空操作，读侧 miss 后由调用方回源重建
func TestScoreCacheAdjustWithoutSeed(t *testing.T) {
	setupRedis(t)
	repo := NewScoreCacheRepository()
	ctx := context.Background()

	if err := repo.Adjust(ctx, "post", 1, 2); err != nil {
		t.Fatalf("adjust: %v", err)
	}
	if _, ok, err := repo.Get(ctx, "post", 1); err != nil || ok {
		t.Fatalf("unseeded key must stay absent: ok=%v err=%v", ok, err)
	}
}

// 回填之后增量立刻可见
func TestScoreCacheAdjustAfterSeed(t *testing.T) {
	setupRedis(t)
	repo := NewScoreCacheRepository()
	ctx := context.Background()

	if err := repo.Set(ctx, "post", 1, 5); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := repo.Adjust(ctx, "post", 1, -2); err != nil {
		t.Fatalf("adjust: %v", err)
	}
	score, ok, err := repo.Get(ctx, "post", 1)
	if err != nil || !ok {
		t.Fatalf("get after seed: ok=%v err=%v", ok, err)
	}
	if score != 3 {
		t.Errorf("score = %d, want 3", score)
	}
}

func TestScoreCacheDelete(t *testing.T) {
	setupRedis(t)
	repo := NewScoreCacheRepository()
	ctx := context.Background()

	if err := repo.Set(ctx, "comment", 9, 7); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := repo.Delete(ctx, "comment", 9); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, ok, _ := repo.Get(ctx, "comment", 9); ok {
		t.Errorf("key must be gone after delete")
	}
}

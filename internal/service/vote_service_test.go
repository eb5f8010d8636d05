package service

import (
	"context"
	"errors"
	"testing"

	"commune/internal/model"
	"commune/internal/pkg"
	"commune/internal/repository/mysql"
	"commune/internal/repository/redis"

	"github.com/alicebob/miniredis/v2"
)

// 已删除或不存在的评论不可投票
func TestVoteCommentDeletedTargetMissing(t *testing.T) {
	setupDB(t)
	c := seedCommunity(t, model.CommunityPublic)
	p := seedPost(t, c.ID, 7)
	deleted := &model.Comment{PostID: p.ID, AuthorID: 7, Content: "gone", IsDeleted: true}
	if err := mysql.DB.Create(deleted).Error; err != nil {
		t.Fatalf("seed comment: %v", err)
	}

	svc := NewVoteService()
	ctx := context.Background()

	_, err := svc.VoteComment(ctx, 9, deleted.ID, model.VoteUp)
	if !errors.Is(err, pkg.ErrNotFound) {
		t.Errorf("deleted comment: got %v, want not found", err)
	}
	_, err = svc.VoteComment(ctx, 9, 9999, model.VoteUp)
	if !errors.Is(err, pkg.ErrNotFound) {
		t.Errorf("missing comment: got %v, want not found", err)
	}
}

// 读侧 cache-aside：miss 回源 MySQL 并回填，之后的增量直接落在缓存上
func TestFreshScoreSeedsCache(t *testing.T) {
	setupDB(t)
	mr := miniredis.RunT(t)
	if err := redis.Init(mr.Addr(), "", 0); err != nil {
		t.Fatalf("init redis: %v", err)
	}
	c := seedCommunity(t, model.CommunityPublic)
	p := seedPost(t, c.ID, 7)
	if err := mysql.DB.Model(&model.Post{}).Where("id = ?", p.ID).Update("score", 5).Error; err != nil {
		t.Fatalf("seed score: %v", err)
	}

	svc := NewVoteService()
	ctx := context.Background()

	score, err := svc.freshScore(ctx, "post", p.ID)
	if err != nil || score != 5 {
		t.Fatalf("first read = (%d, %v), want (5, nil)", score, err)
	}
	cached, ok, err := svc.scoreCache.Get(ctx, "post", p.ID)
	if err != nil || !ok || cached != 5 {
		t.Fatalf("cache after miss = (%d, %v, %v), want seeded 5", cached, ok, err)
	}

	svc.touchCache(ctx, "post", p.ID, 2)
	score, err = svc.freshScore(ctx, "post", p.ID)
	if err != nil || score != 7 {
		t.Errorf("read after adjust = (%d, %v), want (7, nil)", score, err)
	}
}

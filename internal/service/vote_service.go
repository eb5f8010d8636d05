package service

import (
	"context"

	"commune/internal/model"
	"commune/internal/pkg"
	"commune/internal/repository/mysql"
	"commune/internal/repository/redis"
)

type VoteService struct {
	communities *mysql.CommunityRepository
	posts       *mysql.PostRepository
	comments    *mysql.CommentRepository
	votes       *mysql.VoteRepository
	scoreCache  *redis.ScoreCacheRepository
	guard       *GuardService
}

func NewVoteService() *VoteService {
	return &VoteService{
		communities: &mysql.CommunityRepository{DB: mysql.DB},
		posts:       &mysql.PostRepository{DB: mysql.DB},
		comments:    &mysql.CommentRepository{DB: mysql.DB},
		votes:       &mysql.VoteRepository{DB: mysql.DB},
		scoreCache:  redis.NewScoreCacheRepository(),
		guard:       NewGuardService(),
	}
}

// VotePost 投票先过社区写权限（封禁者不能投），再走账本事务。
// 返回应用增量后的目标 score
func (s *VoteService) VotePost(ctx context.Context, actorID, postID uint64, voteType model.VoteType) (int64, error) {
	post, err := s.posts.FindVisible(ctx, postID)
	if err != nil {
		if mysql.IsNotFound(err) {
			return 0, pkg.NotFoundf("post %d", postID)
		}
		return 0, err
	}
	if err := s.checkVote(ctx, post.CommunityID, actorID, voteType); err != nil {
		return 0, err
	}

	delta, err := s.votes.Apply(ctx, actorID, mysql.TargetPost, postID, voteType)
	if err != nil {
		return 0, err
	}
	s.touchCache(ctx, "post", postID, delta)
	score, err := s.freshScore(ctx, "post", postID)
	if err != nil {
		// 票已落库，回源失败就用投票前的读数加增量兜底
		return post.Score + delta, nil
	}
	return score, nil
}

func (s *VoteService) VoteComment(ctx context.Context, actorID, commentID uint64, voteType model.VoteType) (int64, error) {
	comment, err := s.comments.FindByID(ctx, commentID)
	if err != nil {
		if mysql.IsNotFound(err) {
			return 0, pkg.NotFoundf("comment %d", commentID)
		}
		return 0, err
	}
	if comment.IsDeleted {
		return 0, pkg.NotFoundf("comment %d", commentID)
	}
	post, err := s.posts.FindVisible(ctx, comment.PostID)
	if err != nil {
		if mysql.IsNotFound(err) {
			return 0, pkg.NotFoundf("post")
		}
		return 0, err
	}
	if err := s.checkVote(ctx, post.CommunityID, actorID, voteType); err != nil {
		return 0, err
	}

	delta, err := s.votes.Apply(ctx, actorID, mysql.TargetComment, commentID, voteType)
	if err != nil {
		return 0, err
	}
	s.touchCache(ctx, "comment", commentID, delta)
	score, err := s.freshScore(ctx, "comment", commentID)
	if err != nil {
		return comment.Score + delta, nil
	}
	return score, nil
}

// freshScore 读侧 cache-aside：缓存命中直接回，未命中回源 MySQL 并回填，
// 之后的投票增量就能通过 Adjust 直接落在缓存上
func (s *VoteService) freshScore(ctx context.Context, kind string, id uint64) (int64, error) {
	if score, ok, err := s.scoreCache.Get(ctx, kind, id); err == nil && ok {
		return score, nil
	}
	var score int64
	if kind == "post" {
		post, err := s.posts.FindByID(ctx, id)
		if err != nil {
			return 0, err
		}
		score = post.Score
	} else {
		comment, err := s.comments.FindByID(ctx, id)
		if err != nil {
			return 0, err
		}
		score = comment.Score
	}
	// 回填失败只影响下次命中率
	_ = s.scoreCache.Set(ctx, kind, id, score)
	return score, nil
}

func (s *VoteService) checkVote(ctx context.Context, communityID, actorID uint64, voteType model.VoteType) error {
	switch voteType {
	case model.VoteUp, model.VoteDown, model.VoteNone:
	default:
		return pkg.Invalidf("vote type must be UP, DOWN or NONE")
	}
	community, err := s.communities.FindByID(ctx, communityID)
	if err != nil {
		if mysql.IsNotFound(err) {
			return pkg.NotFoundf("community")
		}
		return err
	}
	return s.guard.CheckWrite(ctx, community, actorID)
}

// touchCache 写库成功后同向调缓存；空操作不碰缓存
func (s *VoteService) touchCache(ctx context.Context, kind string, id uint64, delta int64) {
	if delta == 0 {
		return
	}
	if err := s.scoreCache.Adjust(ctx, kind, id, delta); err != nil {
		// 调不动就删 key，读侧回源重建
		_ = s.scoreCache.Delete(ctx, kind, id)
	}
}

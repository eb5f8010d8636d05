package service

import (
	"context"
	"log"
	"strings"

	"commune/internal/model"
	"commune/internal/pkg"
	"commune/internal/repository/mysql"
)

type CommentService struct {
	communities *mysql.CommunityRepository
	posts       *mysql.PostRepository
	comments    *mysql.CommentRepository
	votes       *mysql.VoteRepository
	outbox      *mysql.OutboxRepository
	guard       *GuardService
}

func NewCommentService() *CommentService {
	return &CommentService{
		communities: &mysql.CommunityRepository{DB: mysql.DB},
		posts:       &mysql.PostRepository{DB: mysql.DB},
		comments:    &mysql.CommentRepository{DB: mysql.DB},
		votes:       &mysql.VoteRepository{DB: mysql.DB},
		outbox:      &mysql.OutboxRepository{DB: mysql.DB},
		guard:       NewGuardService(),
	}
}

type CommentPage struct {
	Comments []*CommentNode `json:"comments"`
	Total    int            `json:"total"`
}

// ListComments 一次取整个帖子的平铺评论（量级受单帖评论数约束），
// 排序决定平铺顺序，树形组装交给 BuildTree
func (s *CommentService) ListComments(ctx context.Context, postID uint64, sort string, actorID uint64) (*CommentPage, error) {
	post, err := s.posts.FindVisible(ctx, postID)
	if err != nil {
		if mysql.IsNotFound(err) {
			return nil, pkg.NotFoundf("post %d", postID)
		}
		return nil, err
	}
	community, err := s.communities.FindByID(ctx, post.CommunityID)
	if err != nil {
		if mysql.IsNotFound(err) {
			return nil, pkg.NotFoundf("community")
		}
		return nil, err
	}
	if err := s.guard.CheckRead(ctx, community, actorID); err != nil {
		return nil, err
	}

	switch sort {
	case "best", "new", "old", "controversial":
	default:
		sort = "best"
	}

	flat, err := s.comments.ListByPost(ctx, postID, sort)
	if err != nil {
		return nil, err
	}
	redactDeleted(flat)
	if err := s.annotateVotes(ctx, actorID, flat); err != nil {
		return nil, err
	}

	return &CommentPage{Comments: BuildTree(flat), Total: len(flat)}, nil
}

// redactDeleted 已删除的评论保留占位与子树，正文不再返回
func redactDeleted(flat []model.Comment) {
	for i := range flat {
		if flat[i].IsDeleted {
			flat[i].Content = ""
		}
	}
}

func (s *CommentService) annotateVotes(ctx context.Context, actorID uint64, comments []model.Comment) error {
	if actorID == 0 || len(comments) == 0 {
		return nil
	}
	ids := make([]uint64, len(comments))
	for i := range comments {
		ids[i] = comments[i].ID
	}
	votes, err := s.votes.FindForComments(ctx, actorID, ids)
	if err != nil {
		return err
	}
	for i := range comments {
		if t, ok := votes[comments[i].ID]; ok {
			vt := t
			comments[i].MyVote = &vt
		}
	}
	return nil
}

type CreateCommentInput struct {
	Content  string  `json:"content"`
	ParentID *uint64 `json:"parent_id"`
}

const maxCommentLen = 10000

// CreateComment 校验顺序：帖子可见 → 未锁 → 社区写权限 → 内容 → 父评论同帖。
// 全部通过后评论、作者自赞、评论计数在一个事务里落库；
// 回复通知走 outbox，失败只打日志
func (s *CommentService) CreateComment(ctx context.Context, postID, actorID uint64, in CreateCommentInput) (*model.Comment, error) {
	post, err := s.posts.FindVisible(ctx, postID)
	if err != nil {
		if mysql.IsNotFound(err) {
			return nil, pkg.NotFoundf("post %d", postID)
		}
		return nil, err
	}
	if post.IsLocked {
		return nil, pkg.Forbiddenf("post is locked")
	}
	community, err := s.communities.FindByID(ctx, post.CommunityID)
	if err != nil {
		if mysql.IsNotFound(err) {
			return nil, pkg.NotFoundf("community")
		}
		return nil, err
	}
	if err := s.guard.CheckWrite(ctx, community, actorID); err != nil {
		return nil, err
	}

	content := strings.TrimSpace(in.Content)
	if content == "" {
		return nil, pkg.Invalidf("content required")
	}
	content = truncateRunes(content, maxCommentLen)

	var parent *model.Comment
	if in.ParentID != nil {
		parent, err = s.comments.FindByID(ctx, *in.ParentID)
		if err != nil {
			if mysql.IsNotFound(err) {
				return nil, pkg.Invalidf("parent comment does not belong to this post")
			}
			return nil, err
		}
		if parent.PostID != postID {
			return nil, pkg.Invalidf("parent comment does not belong to this post")
		}
	}

	comment := &model.Comment{
		PostID:   postID,
		AuthorID: actorID,
		ParentID: in.ParentID,
		Content:  content,
	}
	if err := s.comments.Create(ctx, comment); err != nil {
		return nil, err
	}

	s.notifyReply(ctx, post, parent, comment)
	return comment, nil
}

// DeleteComment 作者软删除：行保留成占位，子树完整存活，重复删除幂等
func (s *CommentService) DeleteComment(ctx context.Context, commentID, actorID uint64) error {
	comment, err := s.comments.FindByID(ctx, commentID)
	if err != nil {
		if mysql.IsNotFound(err) {
			return pkg.NotFoundf("comment %d", commentID)
		}
		return err
	}
	if comment.IsDeleted {
		return nil
	}
	if err := CanModify(comment.AuthorID, actorID); err != nil {
		return err
	}
	return s.comments.SetDeleted(ctx, commentID, true)
}

// notifyReply 尽力而为：通知失败不影响评论结果
func (s *CommentService) notifyReply(ctx context.Context, post *model.Post, parent *model.Comment, comment *model.Comment) {
	payload := map[string]any{
		"post_id":    post.ID,
		"comment_id": comment.ID,
		"author_id":  comment.AuthorID,
	}
	if post.AuthorID != comment.AuthorID {
		if err := s.outbox.InsertNotify(ctx, post.AuthorID, "comment_reply", payload); err != nil {
			log.Printf("notify outbox insert err: %v", err)
		}
	}
	if parent != nil && parent.AuthorID != comment.AuthorID && parent.AuthorID != post.AuthorID {
		if err := s.outbox.InsertNotify(ctx, parent.AuthorID, "comment_reply", payload); err != nil {
			log.Printf("notify outbox insert err: %v", err)
		}
	}
}

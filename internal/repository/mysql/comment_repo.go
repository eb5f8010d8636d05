package mysql

import (
	"context"

	"commune/internal/model"

	"gorm.io/gorm"
)

type CommentRepository struct {
	DB *gorm.DB
}

// ListByPost 返回已排序的平铺列表，树形结构在 service 层内存中组装
func (r *CommentRepository) ListByPost(ctx context.Context, postID uint64, sort string) ([]model.Comment, error) {
	order := "score DESC, id ASC" // best
	switch sort {
	case "new":
		order = "created_at DESC, id DESC"
	case "old":
		order = "created_at ASC, id ASC"
	case "controversial":
		order = "score ASC, id ASC"
	}

	var comments []model.Comment
	err := r.DB.WithContext(ctx).
		Where("post_id = ?", postID).
		Order(order).
		Find(&comments).Error
	return comments, err
}

func (r *CommentRepository) FindByID(ctx context.Context, id uint64) (*model.Comment, error) {
	var comment model.Comment
	err := r.DB.WithContext(ctx).First(&comment, id).Error
	if err != nil {
		return nil, err
	}
	return &comment, nil
}

// SetDeleted 作者软删除标记；行保留，子树不受影响
func (r *CommentRepository) SetDeleted(ctx context.Context, id uint64, value bool) error {
	return r.DB.WithContext(ctx).Model(&model.Comment{}).
		Where("id = ?", id).
		UpdateColumn("is_deleted", value).Error
}

// Create 评论、作者自赞、帖子评论计数在同一事务内落库
func (r *CommentRepository) Create(ctx context.Context, comment *model.Comment) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(comment).Error; err != nil {
			return err
		}
		selfVote := model.Vote{
			UserID:    comment.AuthorID,
			CommentID: &comment.ID,
			Type:      model.VoteUp,
		}
		if err := tx.Create(&selfVote).Error; err != nil {
			return err
		}
		if err := tx.Model(&model.Comment{}).
			Where("id = ?", comment.ID).
			UpdateColumn("score", gorm.Expr("score + ?", 1)).Error; err != nil {
			return err
		}
		comment.Score = 1
		// 评论计数只走原子自增，绝不读改写
		return tx.Model(&model.Post{}).
			Where("id = ?", comment.PostID).
			UpdateColumn("comment_count", gorm.Expr("comment_count + 1")).Error
	})
}

package mysql

import (
	"context"
	"errors"

	"commune/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type VoteRepository struct {
	DB *gorm.DB
}

// TargetKind 投票目标：帖子或评论
type TargetKind string

const (
	TargetPost    TargetKind = "post"
	TargetComment TargetKind = "comment"
)

func (k TargetKind) column() string {
	if k == TargetComment {
		return "comment_id"
	}
	return "post_id"
}

// Apply 在单个事务内完成账本行变更与目标 score 的原子增量。
// 行上 SELECT FOR UPDATE，并发投同一目标时各事务串行化各自的那一行；
// score 只用 gorm.Expr 增减，多个投票者之间无需全局顺序。
func (r *VoteRepository) Apply(ctx context.Context, userID uint64, kind TargetKind, targetID uint64, requested model.VoteType) (int64, error) {
	var delta int64
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing *model.Vote
		var row model.Vote
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("user_id = ? AND "+kind.column()+" = ?", userID, targetID).
			First(&row).Error
		if err == nil {
			existing = &row
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		op, d := model.ApplyVote(existing, requested)
		delta = d

		switch op {
		case model.VoteOpNone:
			return nil
		case model.VoteOpInsert:
			vote := model.Vote{UserID: userID, Type: requested}
			if kind == TargetComment {
				vote.CommentID = &targetID
			} else {
				vote.PostID = &targetID
			}
			if err := tx.Create(&vote).Error; err != nil {
				return err
			}
		case model.VoteOpUpdate:
			if err := tx.Model(&model.Vote{}).
				Where("id = ?", row.ID).
				Update("type", requested).Error; err != nil {
				return err
			}
		case model.VoteOpDelete:
			if err := tx.Delete(&model.Vote{}, row.ID).Error; err != nil {
				return err
			}
		}

		if delta == 0 {
			return nil
		}
		target := tx.Model(&model.Post{})
		if kind == TargetComment {
			target = tx.Model(&model.Comment{})
		}
		return target.Where("id = ?", targetID).
			UpdateColumn("score", gorm.Expr("score + ?", delta)).Error
	})
	return delta, err
}

// FindForPosts 批量取某用户对一组帖子的投票，一次 IN 查询
func (r *VoteRepository) FindForPosts(ctx context.Context, userID uint64, postIDs []uint64) (map[uint64]model.VoteType, error) {
	result := make(map[uint64]model.VoteType, len(postIDs))
	if userID == 0 || len(postIDs) == 0 {
		return result, nil
	}
	var votes []model.Vote
	err := r.DB.WithContext(ctx).
		Where("user_id = ? AND post_id IN ?", userID, postIDs).
		Find(&votes).Error
	if err != nil {
		return nil, err
	}
	for _, v := range votes {
		if v.PostID != nil {
			result[*v.PostID] = v.Type
		}
	}
	return result, nil
}

// FindForComments 同上，针对评论
func (r *VoteRepository) FindForComments(ctx context.Context, userID uint64, commentIDs []uint64) (map[uint64]model.VoteType, error) {
	result := make(map[uint64]model.VoteType, len(commentIDs))
	if userID == 0 || len(commentIDs) == 0 {
		return result, nil
	}
	var votes []model.Vote
	err := r.DB.WithContext(ctx).
		Where("user_id = ? AND comment_id IN ?", userID, commentIDs).
		Find(&votes).Error
	if err != nil {
		return nil, err
	}
	for _, v := range votes {
		if v.CommentID != nil {
			result[*v.CommentID] = v.Type
		}
	}
	return result, nil
}

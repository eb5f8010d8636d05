package mysql

import (
	"context"
	"time"

	"commune/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type PostRepository struct {
	DB *gorm.DB
}

// ListFilter 列表查询条件；Cursor 为上一页最后一条的 id
type ListFilter struct {
	CommunityID uint64
	Sort        string // hot / new / top
	TimeRange   string // today / week / month / year / all，仅 top 生效
	FlairID     uint64
	Cursor      uint64
	Limit       int
}

var timeRangeDays = map[string]int{
	"today": 1,
	"week":  7,
	"month": 30,
	"year":  365,
}

// List 取 limit+1 条，多出的一条用于判断是否还有下一页。
// hot 与 top 共用存储序 (score, created_at)，hot 的页内重排在 service 层完成。
func (r *PostRepository) List(ctx context.Context, f ListFilter) ([]model.Post, error) {
	q := r.DB.WithContext(ctx).
		Where("community_id = ? AND is_removed = ? AND is_deleted = ?", f.CommunityID, false, false)

	if f.FlairID != 0 {
		q = q.Where("flair_id = ?", f.FlairID)
	}
	if f.Sort == "top" {
		if days, ok := timeRangeDays[f.TimeRange]; ok {
			q = q.Where("created_at >= ?", time.Now().AddDate(0, 0, -days))
		}
	}
	if f.Cursor != 0 {
		q = q.Where("id < ?", f.Cursor)
	}

	order := "is_pinned DESC, created_at DESC, id DESC"
	if f.Sort == "top" || f.Sort == "hot" {
		order = "is_pinned DESC, score DESC, created_at DESC"
	}

	var posts []model.Post
	err := q.Preload("Flair").Order(order).Limit(f.Limit + 1).Find(&posts).Error
	return posts, err
}

// FindVisible 软删除/下架的帖子等同不存在
func (r *PostRepository) FindVisible(ctx context.Context, id uint64) (*model.Post, error) {
	var post model.Post
	err := r.DB.WithContext(ctx).First(&post, id).Error
	if err != nil {
		return nil, err
	}
	if !post.Visible() {
		return nil, gorm.ErrRecordNotFound
	}
	return &post, nil
}

func (r *PostRepository) FindByID(ctx context.Context, id uint64) (*model.Post, error) {
	var post model.Post
	err := r.DB.WithContext(ctx).First(&post, id).Error
	if err != nil {
		return nil, err
	}
	return &post, nil
}

// Create 建帖、投票选项、作者自赞一票在同一事务内完成，score 从 1 起步
func (r *PostRepository) Create(ctx context.Context, post *model.Post, options []model.PollOption) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(post).Error; err != nil {
			return err
		}
		for i := range options {
			options[i].PostID = post.ID
		}
		if len(options) > 0 {
			if err := tx.Create(&options).Error; err != nil {
				return err
			}
		}
		selfVote := model.Vote{
			UserID: post.AuthorID,
			PostID: &post.ID,
			Type:   model.VoteUp,
		}
		if err := tx.Create(&selfVote).Error; err != nil {
			return err
		}
		post.Score = 1
		return tx.Model(&model.Post{}).
			Where("id = ?", post.ID).
			UpdateColumn("score", gorm.Expr("score + ?", 1)).Error
	})
}

// SetFlag 版主操作用：is_removed / is_locked / is_pinned / is_deleted
func (r *PostRepository) SetFlag(ctx context.Context, postID uint64, column string, value bool) error {
	return r.DB.WithContext(ctx).Model(&model.Post{}).
		Where("id = ?", postID).
		UpdateColumn(column, value).Error
}

// VotePoll 每人每帖一票：冲突时不改行即视为已投过，选项计数原子自增。
// changed 表示本次是否真的记了一票
func (r *PostRepository) VotePoll(ctx context.Context, postID, userID, optionID uint64) (bool, error) {
	var changed bool
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "post_id"}, {Name: "user_id"}},
			DoNothing: true,
		}).Create(&model.PollVote{PostID: postID, UserID: userID, OptionID: optionID})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return nil
		}
		changed = true
		return tx.Model(&model.PollOption{}).
			Where("id = ?", optionID).
			UpdateColumn("vote_count", gorm.Expr("vote_count + 1")).Error
	})
	return changed, err
}

func (r *PostRepository) ListPollOptions(ctx context.Context, postID uint64) ([]model.PollOption, error) {
	var options []model.PollOption
	err := r.DB.WithContext(ctx).
		Where("post_id = ?", postID).
		Order("sort_order ASC").
		Find(&options).Error
	return options, err
}

package model

import "time"

type Comment struct {
	ID        uint64    `gorm:"primaryKey" json:"id"`
	PostID    uint64    `gorm:"not null;index" json:"post_id"`
	AuthorID  uint64    `gorm:"not null;index" json:"author_id"`
	ParentID  *uint64   `gorm:"index" json:"parent_id,omitempty"` // 空表示楼顶评论；父评论必须属于同一帖子
	Content   string    `gorm:"type:text;not null" json:"content"`
	Score     int64     `gorm:"not null;default:0" json:"score"`
	IsDeleted bool      `gorm:"not null;default:false" json:"is_deleted"`
	CreatedAt time.Time `json:"created_at"`

	MyVote *VoteType `gorm:"-" json:"my_vote,omitempty"`
}

package model

import "time"

type VoteType string

const (
	VoteUp   VoteType = "UP"
	VoteDown VoteType = "DOWN"
	// VoteNone 仅作为请求值出现，表示撤销已有投票，不落库
	VoteNone VoteType = "NONE"
)

// Delta 该票对目标 score 的符号贡献
func (t VoteType) Delta() int64 {
	switch t {
	case VoteUp:
		return 1
	case VoteDown:
		return -1
	}
	return 0
}

// Vote 每个 (用户, 目标) 至多一行；PostID 和 CommentID 恰好一个非空
type Vote struct {
	ID        uint64    `gorm:"primaryKey" json:"id"`
	UserID    uint64    `gorm:"not null;index;uniqueIndex:uk_vote_user_post;uniqueIndex:uk_vote_user_comment" json:"user_id"`
	PostID    *uint64   `gorm:"uniqueIndex:uk_vote_user_post" json:"post_id,omitempty"`
	CommentID *uint64   `gorm:"uniqueIndex:uk_vote_user_comment" json:"comment_id,omitempty"`
	Type      VoteType  `gorm:"size:8;not null" json:"type"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

package model

import "time"

type PostType string

const (
	PostText  PostType = "TEXT"
	PostLink  PostType = "LINK"
	PostImage PostType = "IMAGE"
	PostPoll  PostType = "POLL"
	PostVideo PostType = "VIDEO"
)

func (t PostType) Valid() bool {
	switch t {
	case PostText, PostLink, PostImage, PostPoll, PostVideo:
		return true
	}
	return false
}

type Post struct {
	ID          uint64    `gorm:"primaryKey;index:idx_post_comm_time,priority:3,sort:desc" json:"id"`
	CommunityID uint64    `gorm:"not null;index:idx_post_comm_time,priority:1" json:"community_id"`
	AuthorID    uint64    `gorm:"not null;index" json:"author_id"`
	Title       string    `gorm:"size:300;not null" json:"title"`
	Type        PostType  `gorm:"size:16;not null;default:TEXT" json:"type"`
	Content     string    `gorm:"type:text" json:"content"`
	LinkURL     string    `gorm:"size:2000" json:"link_url,omitempty"`
	Images      string    `gorm:"type:text" json:"images,omitempty"` // JSON 数组，最多 10 张
	VideoURL    string    `gorm:"size:2000" json:"video_url,omitempty"`
	FlairID     *uint64   `gorm:"index" json:"flair_id,omitempty"`
	Score       int64     `gorm:"not null;default:0" json:"score"`         // 投票增量之和，作者自赞后从 1 起步
	CommentCount int64     `gorm:"not null;default:0" json:"comment_count"` // 缓存计数，原子增减
	IsRemoved   bool      `gorm:"not null;default:false" json:"is_removed"` // 版主下架
	IsDeleted   bool      `gorm:"not null;default:false" json:"is_deleted"` // 作者删除
	IsLocked    bool      `gorm:"not null;default:false" json:"is_locked"`
	IsPinned    bool      `gorm:"not null;default:false" json:"is_pinned"`
	CreatedAt   time.Time `gorm:"index:idx_post_comm_time,priority:2,sort:desc" json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	Flair  *Flair    `gorm:"foreignKey:FlairID" json:"flair,omitempty"`
	MyVote *VoteType `gorm:"-" json:"my_vote,omitempty"` // 查询时按当前用户批量回填
}

// Visible 列表与详情均排除软删除的帖子
func (p *Post) Visible() bool {
	return !p.IsRemoved && !p.IsDeleted
}

type PollOption struct {
	ID        uint64 `gorm:"primaryKey" json:"id"`
	PostID    uint64 `gorm:"not null;index" json:"post_id"`
	Text      string `gorm:"size:200;not null" json:"text"`
	SortOrder int    `gorm:"not null;default:0" json:"sort_order"`
	VoteCount int64  `gorm:"not null;default:0" json:"vote_count"`
}

// PollVote 每个用户对一个投票帖至多一行，选项不可换
type PollVote struct {
	ID        uint64    `gorm:"primaryKey" json:"id"`
	PostID    uint64    `gorm:"not null;index;uniqueIndex:uk_pollvote_post_user" json:"post_id"`
	UserID    uint64    `gorm:"not null;uniqueIndex:uk_pollvote_post_user" json:"user_id"`
	OptionID  uint64    `gorm:"not null;index" json:"option_id"`
	CreatedAt time.Time `json:"created_at"`
}

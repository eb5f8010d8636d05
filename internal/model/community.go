package model

import "time"

type CommunityType string

const (
	CommunityPublic     CommunityType = "PUBLIC"
	CommunityRestricted CommunityType = "RESTRICTED"
	CommunityPrivate    CommunityType = "PRIVATE"
)

func (t CommunityType) Valid() bool {
	switch t {
	case CommunityPublic, CommunityRestricted, CommunityPrivate:
		return true
	}
	return false
}

type Community struct {
	ID          uint64        `gorm:"primaryKey" json:"id"`
	Slug        string        `gorm:"uniqueIndex;size:64;not null" json:"slug"`
	Name        string        `gorm:"size:64;not null" json:"name"`
	Description string        `gorm:"type:text" json:"description"`
	Type        CommunityType `gorm:"size:16;not null;default:PUBLIC" json:"type"`
	MemberCount int64         `gorm:"not null;default:0" json:"member_count"` // 缓存值，加入/退出/封禁时维护
	IsArchived  bool          `gorm:"not null;default:false" json:"is_archived"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`
}

// Flair 帖子的分类标签，归属于单个社区
type Flair struct {
	ID          uint64    `gorm:"primaryKey" json:"id"`
	CommunityID uint64    `gorm:"not null;index" json:"community_id"`
	Name        string    `gorm:"size:64;not null" json:"name"`
	Color       string    `gorm:"size:16" json:"color"`
	CreatedAt   time.Time `json:"created_at"`
}

package model

import "time"

type MemberRole string

const (
	RoleOwner     MemberRole = "OWNER"
	RoleModerator MemberRole = "MODERATOR"
	RoleMember    MemberRole = "MEMBER"
)

type CommunityMember struct {
	ID          uint64     `gorm:"primaryKey" json:"id"`
	CommunityID uint64     `gorm:"not null;index;uniqueIndex:uk_member_community_user" json:"community_id"`
	UserID      uint64     `gorm:"not null;index;uniqueIndex:uk_member_community_user" json:"user_id"`
	Role        MemberRole `gorm:"size:16;not null;default:MEMBER" json:"role"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// IsModerator OWNER 同样具备版主权限
func (m *CommunityMember) IsModerator() bool {
	return m != nil && (m.Role == RoleModerator || m.Role == RoleOwner)
}

type BanStatus string

const (
	BanPermanent BanStatus = "PERMANENT"
	BanTemporary BanStatus = "TEMPORARY"
)

type CommunityBan struct {
	ID          uint64     `gorm:"primaryKey" json:"id"`
	CommunityID uint64     `gorm:"not null;index;uniqueIndex:uk_ban_community_user" json:"community_id"`
	UserID      uint64     `gorm:"not null;index;uniqueIndex:uk_ban_community_user" json:"user_id"`
	BannedByID  uint64     `gorm:"not null" json:"banned_by_id"`
	Status      BanStatus  `gorm:"size:16;not null;default:PERMANENT" json:"status"`
	Reason      string     `gorm:"size:500" json:"reason"`
	ExpiresAt   *time.Time `json:"expires_at"` // TEMPORARY 必填
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// Active 过期的临时封禁视为不存在
func (b *CommunityBan) Active(now time.Time) bool {
	if b == nil {
		return false
	}
	if b.Status == BanTemporary && b.ExpiresAt != nil && b.ExpiresAt.Before(now) {
		return false
	}
	return true
}

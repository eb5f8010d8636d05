package model

import "time"

type ModAction string

const (
	ActionBanUser     ModAction = "BAN_USER"
	ActionUnbanUser   ModAction = "UNBAN_USER"
	ActionRemovePost  ModAction = "REMOVE_POST"
	ActionRestorePost ModAction = "RESTORE_POST"
	ActionLockPost    ModAction = "LOCK_POST"
	ActionUnlockPost  ModAction = "UNLOCK_POST"
	ActionPinPost     ModAction = "PIN_POST"
	ActionUnpinPost   ModAction = "UNPIN_POST"
)

// ModerationLog 版主操作审计，只追加，不更新不删除
type ModerationLog struct {
	ID           uint64    `gorm:"primaryKey" json:"id"`
	CommunityID  uint64    `gorm:"not null;index" json:"community_id"`
	ModeratorID  uint64    `gorm:"not null" json:"moderator_id"`
	Action       ModAction `gorm:"size:32;not null" json:"action"`
	TargetUserID *uint64   `json:"target_user_id,omitempty"`
	TargetPostID *uint64   `json:"target_post_id,omitempty"`
	Reason       string    `gorm:"size:500" json:"reason,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

// NotifyOutbox 通知事件先落库，由后台投递到 kafka，失败只影响自身重试
type NotifyOutbox struct {
	ID        uint64    `gorm:"primaryKey"`
	UserID    uint64    `gorm:"not null;index"`
	Kind      string    `gorm:"size:32;not null"` // community_ban / community_unban / comment_reply
	Payload   string    `gorm:"type:json;not null"`
	Status    int8      `gorm:"not null;default:0;comment:'0=pending,1=sent,2=failed'"`
	Retry     int       `gorm:"not null;default:0"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (NotifyOutbox) TableName() string { return "notify_outbox" }

package mysql

import (
	"context"
	"errors"
	"time"

	"commune/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type MemberRepository struct {
	DB *gorm.DB
}

// Find 返回成员关系，不存在时返回 (nil, nil)
func (r *MemberRepository) Find(ctx context.Context, communityID, userID uint64) (*model.CommunityMember, error) {
	if userID == 0 {
		return nil, nil
	}
	var member model.CommunityMember
	err := r.DB.WithContext(ctx).
		Where("community_id = ? AND user_id = ?", communityID, userID).
		First(&member).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &member, nil
}

// Join 幂等插入：已存在 (community_id, user_id) 则不报错；changed 表示本次是否新增
func (r *MemberRepository) Join(ctx context.Context, member *model.CommunityMember) (bool, error) {
	var changed bool
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "community_id"}, {Name: "user_id"}},
			DoNothing: true,
		}).Create(member)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return nil
		}
		changed = true
		return RecountMembers(tx, member.CommunityID)
	})
	return changed, err
}

// Leave 幂等删除；成员计数在同一事务内回写
func (r *MemberRepository) Leave(ctx context.Context, communityID, userID uint64) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("community_id = ? AND user_id = ?", communityID, userID).
			Delete(&model.CommunityMember{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return nil
		}
		return RecountMembers(tx, communityID)
	})
}

// FindBan 返回封禁记录；过期的临时封禁顺手清理并视为不存在
func (r *MemberRepository) FindBan(ctx context.Context, communityID, userID uint64) (*model.CommunityBan, error) {
	if userID == 0 {
		return nil, nil
	}
	var ban model.CommunityBan
	err := r.DB.WithContext(ctx).
		Where("community_id = ? AND user_id = ?", communityID, userID).
		First(&ban).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if !ban.Active(time.Now()) {
		// 清理失败不影响判定结果
		_ = r.DB.WithContext(ctx).Delete(&model.CommunityBan{}, ban.ID).Error
		return nil, nil
	}
	return &ban, nil
}

// UpsertBan 重复封禁更新原因/类型/到期时间，而不是报错
func UpsertBan(tx *gorm.DB, ban *model.CommunityBan) error {
	return tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "community_id"}, {Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"banned_by_id", "status", "reason", "expires_at", "updated_at"}),
	}).Create(ban).Error
}

// DeleteBan 解封幂等：记录不存在同样视为成功
func DeleteBan(tx *gorm.DB, communityID, userID uint64) error {
	return tx.Where("community_id = ? AND user_id = ?", communityID, userID).
		Delete(&model.CommunityBan{}).Error
}

func (r *MemberRepository) ListBans(ctx context.Context, communityID uint64) ([]model.CommunityBan, error) {
	var bans []model.CommunityBan
	err := r.DB.WithContext(ctx).
		Where("community_id = ?", communityID).
		Order("created_at DESC").
		Find(&bans).Error
	return bans, err
}

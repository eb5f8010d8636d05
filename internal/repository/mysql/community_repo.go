package mysql

import (
	"context"
	"errors"

	"commune/internal/model"

	"gorm.io/gorm"
)

type CommunityRepository struct {
	DB *gorm.DB
}

// FindBySlug 归档社区对外等同不存在
func (r *CommunityRepository) FindBySlug(ctx context.Context, slug string) (*model.Community, error) {
	var community model.Community
	err := r.DB.WithContext(ctx).Where("slug = ?", slug).First(&community).Error
	if err != nil {
		return nil, err
	}
	if community.IsArchived {
		return nil, gorm.ErrRecordNotFound
	}
	return &community, nil
}

func (r *CommunityRepository) FindByID(ctx context.Context, id uint64) (*model.Community, error) {
	var community model.Community
	err := r.DB.WithContext(ctx).First(&community, id).Error
	if err != nil {
		return nil, err
	}
	if community.IsArchived {
		return nil, gorm.ErrRecordNotFound
	}
	return &community, nil
}

func (r *CommunityRepository) List(ctx context.Context, offset, limit int) ([]model.Community, error) {
	var list []model.Community
	err := r.DB.WithContext(ctx).
		Where("is_archived = ?", false).
		Order("member_count DESC, id DESC").
		Offset(offset).Limit(limit).
		Find(&list).Error
	return list, err
}

// FindFlair flair 必须属于指定社区
func (r *CommunityRepository) FindFlair(ctx context.Context, communityID, flairID uint64) (*model.Flair, error) {
	var flair model.Flair
	err := r.DB.WithContext(ctx).
		Where("id = ? AND community_id = ?", flairID, communityID).
		First(&flair).Error
	if err != nil {
		return nil, err
	}
	return &flair, nil
}

// RecountMembers 重算并回写 member_count；在封禁/进出社区事务内调用
func RecountMembers(tx *gorm.DB, communityID uint64) error {
	var count int64
	if err := tx.Model(&model.CommunityMember{}).
		Where("community_id = ?", communityID).
		Count(&count).Error; err != nil {
		return err
	}
	return tx.Model(&model.Community{}).
		Where("id = ?", communityID).
		UpdateColumn("member_count", count).Error
}

// IsNotFound gorm 的记录缺失判断集中在仓储层
func IsNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}

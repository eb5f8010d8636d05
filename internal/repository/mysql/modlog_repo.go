package mysql

import (
	"context"

	"commune/internal/model"

	"gorm.io/gorm"
)

type ModLogRepository struct {
	DB *gorm.DB
}

// Append 审计日志只追加；传入 tx 时与触发它的变更同属一个事务
func Append(tx *gorm.DB, entry *model.ModerationLog) error {
	return tx.Create(entry).Error
}

func (r *ModLogRepository) List(ctx context.Context, communityID uint64, limit int) ([]model.ModerationLog, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	var entries []model.ModerationLog
	err := r.DB.WithContext(ctx).
		Where("community_id = ?", communityID).
		Order("id DESC").
		Limit(limit).
		Find(&entries).Error
	return entries, err
}

package mysql

import (
	"context"
	"encoding/json"

	"commune/internal/model"

	"gorm.io/gorm"
)

type OutboxRepository struct {
	DB *gorm.DB
}

// InsertNotify 通知事件落库；与业务变更不同事务，失败只记日志
func (r *OutboxRepository) InsertNotify(ctx context.Context, userID uint64, kind string, payload any) error {
	raw, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	return r.DB.WithContext(ctx).Create(&model.NotifyOutbox{
		UserID:  userID,
		Kind:    kind,
		Payload: string(raw),
	}).Error
}

// ListPending 取待投递事件，失败重试过多的不再捞起
func (r *OutboxRepository) ListPending(ctx context.Context, limit int) ([]model.NotifyOutbox, error) {
	var rows []model.NotifyOutbox
	err := r.DB.WithContext(ctx).
		Where("status = 0 AND retry < ?", 5).
		Order("id ASC").
		Limit(limit).
		Find(&rows).Error
	return rows, err
}

func (r *OutboxRepository) MarkSent(ctx context.Context, id uint64) error {
	return r.DB.WithContext(ctx).Model(&model.NotifyOutbox{}).
		Where("id = ?", id).
		Update("status", 1).Error
}

func (r *OutboxRepository) MarkRetry(ctx context.Context, id uint64) error {
	return r.DB.WithContext(ctx).Model(&model.NotifyOutbox{}).
		Where("id = ?", id).
		UpdateColumn("retry", gorm.Expr("retry + 1")).Error
}

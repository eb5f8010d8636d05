package service

import (
	"context"
	"log"
	"time"

	"commune/internal/model"
	"commune/internal/pkg"
	"commune/internal/repository/mysql"
)

// Sender 把一条 outbox 事件投递出去；返回错误则等待重试
type Sender func(ctx context.Context, ob *model.NotifyOutbox) error

// NotifyRelayer 定时扫 outbox 表，把待发通知交给 kafka。
// 投递失败只累加重试计数，永远不回头影响触发它的调用方
type NotifyRelayer struct {
	repo      *mysql.OutboxRepository
	batchSize int
	interval  time.Duration
	sender    Sender
}

func NewNotifyRelayer(sender Sender) *NotifyRelayer {
	return &NotifyRelayer{
		repo:      &mysql.OutboxRepository{DB: mysql.DB},
		batchSize: 200,
		interval:  time.Second,
		sender:    sender,
	}
}

func (r *NotifyRelayer) Run(ctx context.Context) {
	t := time.NewTicker(r.interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			r.drainOnce(ctx)
		}
	}
}

func (r *NotifyRelayer) drainOnce(ctx context.Context) {
	rows, err := r.repo.ListPending(ctx, r.batchSize)
	if err != nil {
		log.Printf("notify outbox query err: %v", err)
		return
	}
	for i := range rows {
		ob := rows[i]
		if err := r.sender(ctx, &ob); err != nil {
			_ = r.repo.MarkRetry(ctx, ob.ID)
			continue
		}
		_ = r.repo.MarkSent(ctx, ob.ID)
	}
}

// KafkaSender 生产环境使用的投递实现
func KafkaSender(producer *pkg.KafkaProducer) Sender {
	return func(ctx context.Context, ob *model.NotifyOutbox) error {
		return producer.Send(ctx, ob.UserID, []byte(ob.Payload))
	}
}

// LogSender 本地联调用：只打印，不投递
func LogSender(ctx context.Context, ob *model.NotifyOutbox) error {
	log.Printf("NOTIFY kind=%s user=%d payload=%s", ob.Kind, ob.UserID, ob.Payload)
	return nil
}

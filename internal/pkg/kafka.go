package pkg

import (
	"context"
	"strconv"

	"github.com/segmentio/kafka-go"
)

// KafkaProducer 通知事件的投递出口；不可用时由 outbox 兜底重试
type KafkaProducer struct {
	writer *kafka.Writer
	topic  string
}

type KafkaConfig struct {
	Brokers []string
	Topic   string
}

func NewKafkaProducer(cfg KafkaConfig) (*KafkaProducer, error) {
	w := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers...),
		Topic:        cfg.Topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireAll,
		Async:        false,
	}
	return &KafkaProducer{writer: w, topic: cfg.Topic}, nil
}

func (p *KafkaProducer) Close() error {
	if p == nil || p.writer == nil {
		return nil
	}
	return p.writer.Close()
}

// Send 按用户 ID 作 key，保证同一用户的通知有序
func (p *KafkaProducer) Send(ctx context.Context, userID uint64, value []byte) error {
	msg := kafka.Message{
		Key:   []byte(strconv.FormatUint(userID, 10)),
		Value: value,
	}
	return p.writer.WriteMessages(ctx, msg)
}

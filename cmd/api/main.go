package main

import (
	"context"
	"log"
	"os"
	"strings"

	"commune/internal/pkg"
	"commune/internal/repository/mysql"
	"commune/internal/repository/redis"
	"commune/internal/router"
	"commune/internal/service"

	"github.com/joho/godotenv"
)

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, reading env vars from system")
	}

	dsn := envOr("DATABASE_DSN", "user:password@tcp(127.0.0.1:3306)/commune?charset=utf8mb4&parseTime=True")
	if err := mysql.InitDB(dsn); err != nil {
		log.Fatalf("mysql init: %v", err)
	}

	if err := redis.Init(envOr("REDIS_ADDR", "127.0.0.1:6379"), os.Getenv("REDIS_PASSWORD"), 0); err != nil {
		log.Fatalf("redis init: %v", err)
	}
	defer redis.Close()

	// 自动建表（开发阶段 OK）
	if err := mysql.AutoMigrate(); err != nil {
		log.Fatalf("migrate: %v", err)
	}

	// 通知投递：配置了 kafka 就走消息队列，否则只打日志
	sender := service.Sender(service.LogSender)
	if brokers := os.Getenv("KAFKA_BROKERS"); brokers != "" {
		producer, err := pkg.NewKafkaProducer(pkg.KafkaConfig{
			Brokers: strings.Split(brokers, ","),
			Topic:   envOr("KAFKA_NOTIFY_TOPIC", "commune.notify"),
		})
		if err != nil {
			log.Fatalf("kafka init: %v", err)
		}
		defer producer.Close()
		sender = service.KafkaSender(producer)
	}
	relayCtx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go service.NewNotifyRelayer(sender).Run(relayCtx)

	r := router.InitRouter()
	port := envOr("PORT", "8080")
	log.Printf("commune api starting on :%s", port)
	if err := r.Run(":" + port); err != nil {
		log.Fatal(err)
	}
}

package mysql

import (
	"log"

	"commune/internal/model"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

var DB *gorm.DB

func InitDB(dsn string) error {
	var err error
	DB, err = gorm.Open(mysql.Open(dsn), &gorm.Config{})
	if err != nil {
		return err
	}
	log.Println("mysql connected")
	return nil
}

// AutoMigrate 开发阶段自动建表
func AutoMigrate() error {
	return DB.AutoMigrate(
		&model.Community{},
		&model.Flair{},
		&model.CommunityMember{},
		&model.CommunityBan{},
		&model.Post{},
		&model.PollOption{},
		&model.PollVote{},
		&model.Comment{},
		&model.Vote{},
		&model.ModerationLog{},
		&model.NotifyOutbox{},
	)
}

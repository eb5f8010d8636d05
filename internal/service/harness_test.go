package service

import (
	"testing"

	"commune/internal/model"
	"commune/internal/repository/mysql"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupDB 给服务层测试一个干净的内存库，建表沿用正式的模型定义。
// 测试串行跑，直接换掉包级连接即可。
func setupDB(t *testing.T) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Discard})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	mysql.DB = db
	if err := mysql.AutoMigrate(); err != nil {
		t.Fatalf("migrate: %v", err)
	}
}

// seedCommunity 建社区并让用户 1 当 OWNER
func seedCommunity(t *testing.T, typ model.CommunityType) *model.Community {
	t.Helper()
	c := &model.Community{Slug: "golang", Name: "Go", Type: typ, MemberCount: 1}
	if err := mysql.DB.Create(c).Error; err != nil {
		t.Fatalf("seed community: %v", err)
	}
	member := &model.CommunityMember{CommunityID: c.ID, UserID: 1, Role: model.RoleOwner}
	if err := mysql.DB.Create(member).Error; err != nil {
		t.Fatalf("seed owner: %v", err)
	}
	return c
}

func seedPost(t *testing.T, communityID, authorID uint64) *model.Post {
	t.Helper()
	p := &model.Post{CommunityID: communityID, AuthorID: authorID, Title: "hello", Type: model.PostText}
	if err := mysql.DB.Create(p).Error; err != nil {
		t.Fatalf("seed post: %v", err)
	}
	return p
}

func seedComment(t *testing.T, postID, authorID uint64, parentID *uint64) *model.Comment {
	t.Helper()
	c := &model.Comment{PostID: postID, AuthorID: authorID, ParentID: parentID, Content: "words"}
	if err := mysql.DB.Create(c).Error; err != nil {
		t.Fatalf("seed comment: %v", err)
	}
	return c
}

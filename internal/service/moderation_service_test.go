package service

import (
	"context"
	"errors"
	"testing"

	"commune/internal/model"
	"commune/internal/pkg"
	"commune/internal/repository/mysql"
)

// 封禁名单仅版主可见
func TestListBansModeratorOnly(t *testing.T) {
	setupDB(t)
	c := seedCommunity(t, model.CommunityPublic)
	ban := &model.CommunityBan{CommunityID: c.ID, UserID: 5, BannedByID: 1, Status: model.BanPermanent}
	if err := mysql.DB.Create(ban).Error; err != nil {
		t.Fatalf("seed ban: %v", err)
	}

	svc := NewModerationService()
	ctx := context.Background()

	bans, err := svc.ListBans(ctx, "golang", 1)
	if err != nil {
		t.Fatalf("owner list: %v", err)
	}
	if len(bans) != 1 || bans[0].UserID != 5 {
		t.Errorf("bans = %+v, want the single seeded entry", bans)
	}

	if _, err := svc.ListBans(ctx, "golang", 5); !errors.Is(err, pkg.ErrForbidden) {
		t.Errorf("non-moderator list: got %v, want forbidden", err)
	}
}

package service

import (
	"context"
	"log"
	"time"

	"commune/internal/model"
	"commune/internal/pkg"
	"commune/internal/repository/mysql"

	"gorm.io/gorm"
)

type ModerationService struct {
	communities *mysql.CommunityRepository
	members     *mysql.MemberRepository
	posts       *mysql.PostRepository
	modlog      *mysql.ModLogRepository
	outbox      *mysql.OutboxRepository
	guard       *GuardService
}

func NewModerationService() *ModerationService {
	return &ModerationService{
		communities: &mysql.CommunityRepository{DB: mysql.DB},
		members:     &mysql.MemberRepository{DB: mysql.DB},
		posts:       &mysql.PostRepository{DB: mysql.DB},
		modlog:      &mysql.ModLogRepository{DB: mysql.DB},
		outbox:      &mysql.OutboxRepository{DB: mysql.DB},
		guard:       NewGuardService(),
	}
}

type BanInput struct {
	TargetUserID uint64 `json:"user_id"`
	Reason       string `json:"reason"`
	Status       string `json:"status"` // PERMANENT / TEMPORARY
	DurationDays int    `json:"days"`
}

// BanUser 封禁 upsert（重复封禁更新原因/时限）、移除成员、重算成员数、
// 写审计日志，四步一个事务；落库成功后的通知走 outbox，尽力而为
func (s *ModerationService) BanUser(ctx context.Context, slug string, moderatorID uint64, in BanInput) error {
	community, err := s.findCommunity(ctx, slug)
	if err != nil {
		return err
	}
	if _, err := s.guard.Moderator(ctx, community.ID, moderatorID); err != nil {
		return err
	}
	if in.TargetUserID == 0 {
		return pkg.Invalidf("user_id required")
	}
	if in.TargetUserID == moderatorID {
		return pkg.Invalidf("cannot ban yourself")
	}
	targetMember, err := s.members.Find(ctx, community.ID, in.TargetUserID)
	if err != nil {
		return err
	}
	if targetMember != nil && targetMember.Role == model.RoleOwner {
		return pkg.Invalidf("owner cannot be banned")
	}

	status := model.BanPermanent
	var expiresAt *time.Time
	if in.Status == string(model.BanTemporary) {
		if in.DurationDays <= 0 {
			return pkg.Invalidf("days required for temporary ban")
		}
		status = model.BanTemporary
		t := time.Now().AddDate(0, 0, in.DurationDays)
		expiresAt = &t
	}
	in.Reason = truncateRunes(in.Reason, 500)

	err = mysql.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		ban := &model.CommunityBan{
			CommunityID: community.ID,
			UserID:      in.TargetUserID,
			BannedByID:  moderatorID,
			Status:      status,
			Reason:      in.Reason,
			ExpiresAt:   expiresAt,
		}
		if err := mysql.UpsertBan(tx, ban); err != nil {
			return err
		}
		if err := tx.Where("community_id = ? AND user_id = ?", community.ID, in.TargetUserID).
			Delete(&model.CommunityMember{}).Error; err != nil {
			return err
		}
		if err := mysql.RecountMembers(tx, community.ID); err != nil {
			return err
		}
		targetID := in.TargetUserID
		return mysql.Append(tx, &model.ModerationLog{
			CommunityID:  community.ID,
			ModeratorID:  moderatorID,
			Action:       model.ActionBanUser,
			TargetUserID: &targetID,
			Reason:       in.Reason,
		})
	})
	if err != nil {
		return err
	}

	if err := s.outbox.InsertNotify(ctx, in.TargetUserID, "community_ban", map[string]any{
		"community_slug": community.Slug,
		"reason":         in.Reason,
		"status":         string(status),
	}); err != nil {
		log.Printf("ban notify outbox insert err: %v", err)
	}
	return nil
}

// UnbanUser 解封幂等：封禁记录不存在也算成功，审计照写
func (s *ModerationService) UnbanUser(ctx context.Context, slug string, moderatorID, targetUserID uint64) error {
	community, err := s.findCommunity(ctx, slug)
	if err != nil {
		return err
	}
	if _, err := s.guard.Moderator(ctx, community.ID, moderatorID); err != nil {
		return err
	}
	if targetUserID == 0 {
		return pkg.Invalidf("user_id required")
	}

	return mysql.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := mysql.DeleteBan(tx, community.ID, targetUserID); err != nil {
			return err
		}
		targetID := targetUserID
		return mysql.Append(tx, &model.ModerationLog{
			CommunityID:  community.ID,
			ModeratorID:  moderatorID,
			Action:       model.ActionUnbanUser,
			TargetUserID: &targetID,
		})
	})
}

// Join 公开与受限社区可自由加入；私有社区不接受自助加入；被封禁者拒绝
func (s *ModerationService) Join(ctx context.Context, slug string, userID uint64) error {
	community, err := s.findCommunity(ctx, slug)
	if err != nil {
		return err
	}
	if community.Type == model.CommunityPrivate {
		return pkg.Forbiddenf("private community is invite only")
	}
	ban, err := s.members.FindBan(ctx, community.ID, userID)
	if err != nil {
		return err
	}
	if ban.Active(time.Now()) {
		return pkg.Forbiddenf("banned from this community")
	}
	_, err = s.members.Join(ctx, &model.CommunityMember{
		CommunityID: community.ID,
		UserID:      userID,
		Role:        model.RoleMember,
	})
	return err
}

// Leave OWNER 不能退出自己的社区
func (s *ModerationService) Leave(ctx context.Context, slug string, userID uint64) error {
	community, err := s.findCommunity(ctx, slug)
	if err != nil {
		return err
	}
	member, err := s.members.Find(ctx, community.ID, userID)
	if err != nil {
		return err
	}
	if member == nil {
		return nil
	}
	if member.Role == model.RoleOwner {
		return pkg.Invalidf("owner cannot leave the community")
	}
	return s.members.Leave(ctx, community.ID, userID)
}

// ListBans 封禁名单仅版主可见
func (s *ModerationService) ListBans(ctx context.Context, slug string, moderatorID uint64) ([]model.CommunityBan, error) {
	community, err := s.findCommunity(ctx, slug)
	if err != nil {
		return nil, err
	}
	if _, err := s.guard.Moderator(ctx, community.ID, moderatorID); err != nil {
		return nil, err
	}
	return s.members.ListBans(ctx, community.ID)
}

// ListModLog 审计日志仅版主可见
func (s *ModerationService) ListModLog(ctx context.Context, slug string, moderatorID uint64, limit int) ([]model.ModerationLog, error) {
	community, err := s.findCommunity(ctx, slug)
	if err != nil {
		return nil, err
	}
	if _, err := s.guard.Moderator(ctx, community.ID, moderatorID); err != nil {
		return nil, err
	}
	return s.modlog.List(ctx, community.ID, limit)
}

// postFlagActions 帖子类版主操作到 (列名, 目标值, 审计动作) 的映射
var postFlagActions = map[string]struct {
	column string
	value  bool
	action model.ModAction
}{
	"remove":  {"is_removed", true, model.ActionRemovePost},
	"restore": {"is_removed", false, model.ActionRestorePost},
	"lock":    {"is_locked", true, model.ActionLockPost},
	"unlock":  {"is_locked", false, model.ActionUnlockPost},
	"pin":     {"is_pinned", true, model.ActionPinPost},
	"unpin":   {"is_pinned", false, model.ActionUnpinPost},
}

// ModeratePost 下架/恢复/锁定/解锁/置顶，标志位更新与审计同事务
func (s *ModerationService) ModeratePost(ctx context.Context, postID, moderatorID uint64, op, reason string) error {
	act, ok := postFlagActions[op]
	if !ok {
		return pkg.Invalidf("unknown moderation op %q", op)
	}
	post, err := s.posts.FindByID(ctx, postID)
	if err != nil {
		if mysql.IsNotFound(err) {
			return pkg.NotFoundf("post %d", postID)
		}
		return err
	}
	community, err := s.findCommunityByID(ctx, post.CommunityID)
	if err != nil {
		return err
	}
	if _, err := s.guard.Moderator(ctx, community.ID, moderatorID); err != nil {
		return err
	}

	return mysql.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&model.Post{}).
			Where("id = ?", postID).
			UpdateColumn(act.column, act.value).Error; err != nil {
			return err
		}
		pid := postID
		return mysql.Append(tx, &model.ModerationLog{
			CommunityID:  community.ID,
			ModeratorID:  moderatorID,
			Action:       act.action,
			TargetPostID: &pid,
			Reason:       reason,
		})
	})
}

func (s *ModerationService) findCommunity(ctx context.Context, slug string) (*model.Community, error) {
	community, err := s.communities.FindBySlug(ctx, slug)
	if err != nil {
		if mysql.IsNotFound(err) {
			return nil, pkg.NotFoundf("community %s", slug)
		}
		return nil, err
	}
	return community, nil
}

func (s *ModerationService) findCommunityByID(ctx context.Context, id uint64) (*model.Community, error) {
	community, err := s.communities.FindByID(ctx, id)
	if err != nil {
		if mysql.IsNotFound(err) {
			return nil, pkg.NotFoundf("community")
		}
		return nil, err
	}
	return community, nil
}

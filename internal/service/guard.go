package service

import (
	"context"
	"time"

	"commune/internal/model"
	"commune/internal/pkg"
	"commune/internal/repository/mysql"
)

// 访问裁决是纯函数：只看已加载的行，不碰存储、不产生副作用。
// GuardService 负责把行取出来再喂给它们。

// CanRead PUBLIC 任何人可读；RESTRICTED/PRIVATE 仅成员可读
func CanRead(community *model.Community, userID uint64, member *model.CommunityMember) error {
	if community == nil || community.IsArchived {
		return pkg.NotFoundf("community")
	}
	if community.Type == model.CommunityPublic {
		return nil
	}
	if userID == 0 {
		return pkg.Forbiddenf("private community")
	}
	if member == nil {
		return pkg.Forbiddenf("private community")
	}
	return nil
}

// CanWrite 发帖/评论：PUBLIC 任何登录用户；RESTRICTED/PRIVATE 仅成员；
// 不论社区类型，有生效封禁一律拒绝
func CanWrite(community *model.Community, userID uint64, member *model.CommunityMember, ban *model.CommunityBan, now time.Time) error {
	if community == nil || community.IsArchived {
		return pkg.NotFoundf("community")
	}
	if userID == 0 {
		return pkg.Forbiddenf("login required")
	}
	if ban.Active(now) {
		return pkg.Forbiddenf("banned from this community")
	}
	if community.Type != model.CommunityPublic && member == nil {
		return pkg.Forbiddenf("membership required")
	}
	return nil
}

// CanModify 作者本人才能删除自己的内容
func CanModify(authorID, actorID uint64) error {
	if actorID == 0 || actorID != authorID {
		return pkg.Forbiddenf("author only")
	}
	return nil
}

// RequireModerator 版主操作门槛：OWNER 或 MODERATOR
func RequireModerator(member *model.CommunityMember) error {
	if !member.IsModerator() {
		return pkg.Forbiddenf("moderator role required")
	}
	return nil
}

type GuardService struct {
	members *mysql.MemberRepository
}

func NewGuardService() *GuardService {
	return &GuardService{members: &mysql.MemberRepository{DB: mysql.DB}}
}

func (s *GuardService) CheckRead(ctx context.Context, community *model.Community, userID uint64) error {
	member, err := s.members.Find(ctx, community.ID, userID)
	if err != nil {
		return err
	}
	return CanRead(community, userID, member)
}

func (s *GuardService) CheckWrite(ctx context.Context, community *model.Community, userID uint64) error {
	member, err := s.members.Find(ctx, community.ID, userID)
	if err != nil {
		return err
	}
	ban, err := s.members.FindBan(ctx, community.ID, userID)
	if err != nil {
		return err
	}
	return CanWrite(community, userID, member, ban, time.Now())
}

// Moderator 取成员关系并校验版主角色
func (s *GuardService) Moderator(ctx context.Context, communityID, userID uint64) (*model.CommunityMember, error) {
	member, err := s.members.Find(ctx, communityID, userID)
	if err != nil {
		return nil, err
	}
	if err := RequireModerator(member); err != nil {
		return nil, err
	}
	return member, nil
}

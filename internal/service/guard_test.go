package service

import (
	"errors"
	"testing"
	"time"

	"commune/internal/model"
	"commune/internal/pkg"
)

func community(t model.CommunityType) *model.Community {
	return &model.Community{ID: 1, Slug: "golang", Type: t}
}

func TestCanReadPublic(t *testing.T) {
	if err := CanRead(community(model.CommunityPublic), 0, nil); err != nil {
		t.Errorf("anonymous read of public community: %v", err)
	}
}

// 匿名读私有社区必须拒绝，不泄露内容
func TestCanReadPrivateGating(t *testing.T) {
	err := CanRead(community(model.CommunityPrivate), 0, nil)
	if !errors.Is(err, pkg.ErrForbidden) {
		t.Errorf("anonymous read of private community: got %v, want forbidden", err)
	}
	// 已登录但非成员同样拒绝
	err = CanRead(community(model.CommunityPrivate), 42, nil)
	if !errors.Is(err, pkg.ErrForbidden) {
		t.Errorf("non-member read of private community: got %v, want forbidden", err)
	}
	// 成员放行
	member := &model.CommunityMember{CommunityID: 1, UserID: 42, Role: model.RoleMember}
	if err := CanRead(community(model.CommunityPrivate), 42, member); err != nil {
		t.Errorf("member read of private community: %v", err)
	}
}

func TestCanReadArchived(t *testing.T) {
	c := community(model.CommunityPublic)
	c.IsArchived = true
	err := CanRead(c, 0, nil)
	if !errors.Is(err, pkg.ErrNotFound) {
		t.Errorf("archived community must look missing: got %v", err)
	}
}

// 被封禁者即使成员记录已被删除，写操作也要拒绝
func TestCanWriteBannedBlocked(t *testing.T) {
	now := time.Now()
	ban := &model.CommunityBan{CommunityID: 1, UserID: 42, Status: model.BanPermanent}
	err := CanWrite(community(model.CommunityPublic), 42, nil, ban, now)
	if !errors.Is(err, pkg.ErrForbidden) {
		t.Errorf("banned user write: got %v, want forbidden", err)
	}
}

// 过期的临时封禁视为不存在
func TestCanWriteExpiredTempBan(t *testing.T) {
	now := time.Now()
	expired := now.Add(-time.Hour)
	ban := &model.CommunityBan{CommunityID: 1, UserID: 42, Status: model.BanTemporary, ExpiresAt: &expired}
	if err := CanWrite(community(model.CommunityPublic), 42, nil, ban, now); err != nil {
		t.Errorf("expired temp ban should not block: %v", err)
	}
	// 未过期的临时封禁仍然拦截
	active := now.Add(time.Hour)
	ban.ExpiresAt = &active
	err := CanWrite(community(model.CommunityPublic), 42, nil, ban, now)
	if !errors.Is(err, pkg.ErrForbidden) {
		t.Errorf("active temp ban: got %v, want forbidden", err)
	}
}

func TestCanWriteMembershipRules(t *testing.T) {
	// PUBLIC 任何登录用户可写
	if err := CanWrite(community(model.CommunityPublic), 42, nil, nil, time.Now()); err != nil {
		t.Errorf("public write by non-member: %v", err)
	}
	// RESTRICTED 非成员不可写
	err := CanWrite(community(model.CommunityRestricted), 42, nil, nil, time.Now())
	if !errors.Is(err, pkg.ErrForbidden) {
		t.Errorf("restricted write by non-member: got %v, want forbidden", err)
	}
	// 匿名一律不可写
	err = CanWrite(community(model.CommunityPublic), 0, nil, nil, time.Now())
	if !errors.Is(err, pkg.ErrForbidden) {
		t.Errorf("anonymous write: got %v, want forbidden", err)
	}
}

// 只有作者本人能删自己的内容，匿名一律拒绝
func TestCanModify(t *testing.T) {
	if err := CanModify(7, 7); err != nil {
		t.Errorf("author modifying own content: %v", err)
	}
	if err := CanModify(7, 8); !errors.Is(err, pkg.ErrForbidden) {
		t.Errorf("other user: got %v, want forbidden", err)
	}
	if err := CanModify(7, 0); !errors.Is(err, pkg.ErrForbidden) {
		t.Errorf("anonymous: got %v, want forbidden", err)
	}
}

func TestRequireModerator(t *testing.T) {
	cases := []struct {
		role model.MemberRole
		ok   bool
	}{
		{model.RoleOwner, true},
		{model.RoleModerator, true},
		{model.RoleMember, false},
	}
	for _, tc := range cases {
		member := &model.CommunityMember{Role: tc.role}
		err := RequireModerator(member)
		if tc.ok && err != nil {
			t.Errorf("role %s should pass: %v", tc.role, err)
		}
		if !tc.ok && !errors.Is(err, pkg.ErrForbidden) {
			t.Errorf("role %s should be forbidden, got %v", tc.role, err)
		}
	}
	if err := RequireModerator(nil); !errors.Is(err, pkg.ErrForbidden) {
		t.Errorf("nil member should be forbidden, got %v", err)
	}
}

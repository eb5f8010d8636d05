package service

import (
	"context"
	"regexp"
	"strings"

	"commune/internal/model"
	"commune/internal/pkg"
	"commune/internal/repository/mysql"

	"gorm.io/gorm"
)

type CommunityService struct {
	communities *mysql.CommunityRepository
	guard       *GuardService
}

func NewCommunityService() *CommunityService {
	return &CommunityService{
		communities: &mysql.CommunityRepository{DB: mysql.DB},
		guard:       NewGuardService(),
	}
}

var slugCleaner = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify 生成 URL 友好的唯一标识
func Slugify(input string) string {
	s := strings.ToLower(input)
	s = slugCleaner.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}

type CreateCommunityInput struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Type        string `json:"type"`
}

// Create 创建者自动成为唯一 OWNER，成员数从 1 起步，同一事务完成
func (s *CommunityService) Create(ctx context.Context, actorID uint64, in CreateCommunityInput) (*model.Community, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, pkg.Invalidf("name required")
	}
	slug := Slugify(name)
	if slug == "" {
		return nil, pkg.Invalidf("name must contain letters or digits")
	}
	communityType := model.CommunityType(in.Type)
	if in.Type == "" {
		communityType = model.CommunityPublic
	}
	if !communityType.Valid() {
		return nil, pkg.Invalidf("type must be PUBLIC, RESTRICTED or PRIVATE")
	}

	community := &model.Community{
		Slug:        slug,
		Name:        name,
		Description: in.Description,
		Type:        communityType,
		MemberCount: 1,
	}
	err := mysql.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(community).Error; err != nil {
			return err
		}
		return tx.Create(&model.CommunityMember{
			CommunityID: community.ID,
			UserID:      actorID,
			Role:        model.RoleOwner,
		}).Error
	})
	if err != nil {
		return nil, err
	}
	return community, nil
}

// Get 读详情同样走访问裁决，PRIVATE 不泄露给非成员
func (s *CommunityService) Get(ctx context.Context, slug string, actorID uint64) (*model.Community, error) {
	community, err := s.communities.FindBySlug(ctx, slug)
	if err != nil {
		if mysql.IsNotFound(err) {
			return nil, pkg.NotFoundf("community %s", slug)
		}
		return nil, err
	}
	if err := s.guard.CheckRead(ctx, community, actorID); err != nil {
		return nil, err
	}
	return community, nil
}

// List 发现页只展示未归档社区
func (s *CommunityService) List(ctx context.Context, page, size int) ([]model.Community, error) {
	if page <= 0 {
		page = 1
	}
	if size <= 0 || size > 50 {
		size = 20
	}
	return s.communities.List(ctx, (page-1)*size, size)
}

package service

import (
	"context"
	"encoding/json"
	"strings"
	"unicode/utf8"

	"commune/internal/model"
	"commune/internal/pkg"
	"commune/internal/repository/mysql"
)

type PostService struct {
	communities *mysql.CommunityRepository
	posts       *mysql.PostRepository
	votes       *mysql.VoteRepository
	guard       *GuardService
}

func NewPostService() *PostService {
	return &PostService{
		communities: &mysql.CommunityRepository{DB: mysql.DB},
		posts:       &mysql.PostRepository{DB: mysql.DB},
		votes:       &mysql.VoteRepository{DB: mysql.DB},
		guard:       NewGuardService(),
	}
}

// ListOptions 列表入参；ActorID 为 0 表示匿名
type ListOptions struct {
	Sort      string
	TimeRange string
	FlairID   uint64
	Cursor    uint64
	Limit     int
	ActorID   uint64
}

type PostPage struct {
	Posts      []model.Post   `json:"posts"`
	NextCursor *uint64        `json:"next_cursor"`
	Community  CommunityBrief `json:"community"`
}

type CommunityBrief struct {
	ID   uint64 `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// ListPosts 先做访问裁决，再按 limit+1 取页、裁出游标，
// hot 排序只对当前页做内存重排，最后一次 IN 查询回填当前用户的投票
func (s *PostService) ListPosts(ctx context.Context, slug string, opts ListOptions) (*PostPage, error) {
	community, err := s.communities.FindBySlug(ctx, slug)
	if err != nil {
		if mysql.IsNotFound(err) {
			return nil, pkg.NotFoundf("community %s", slug)
		}
		return nil, err
	}
	if err := s.guard.CheckRead(ctx, community, opts.ActorID); err != nil {
		return nil, err
	}

	if opts.Limit <= 0 {
		opts.Limit = 25
	}
	if opts.Limit > 50 {
		opts.Limit = 50
	}
	switch opts.Sort {
	case "hot", "new", "top":
	default:
		opts.Sort = "hot"
	}

	posts, err := s.posts.List(ctx, mysql.ListFilter{
		CommunityID: community.ID,
		Sort:        opts.Sort,
		TimeRange:   opts.TimeRange,
		FlairID:     opts.FlairID,
		Cursor:      opts.Cursor,
		Limit:       opts.Limit,
	})
	if err != nil {
		return nil, err
	}

	items, nextCursor := TrimPage(posts, opts.Limit)
	if opts.Sort == "hot" {
		SortPageByHot(items)
	}
	if err := s.annotateVotes(ctx, opts.ActorID, items); err != nil {
		return nil, err
	}

	return &PostPage{
		Posts:      items,
		NextCursor: nextCursor,
		Community:  CommunityBrief{ID: community.ID, Name: community.Name, Slug: community.Slug},
	}, nil
}

// TrimPage limit+1 取回的行裁成一页；多出的那行只用来判断还有没有下一页。
// 游标是裁剪后最后一条的 id，所以必须在 hot 重排之前裁剪
func TrimPage(posts []model.Post, limit int) ([]model.Post, *uint64) {
	if len(posts) <= limit {
		return posts, nil
	}
	items := posts[:limit]
	cursor := items[len(items)-1].ID
	return items, &cursor
}

func (s *PostService) annotateVotes(ctx context.Context, actorID uint64, posts []model.Post) error {
	if actorID == 0 || len(posts) == 0 {
		return nil
	}
	ids := make([]uint64, len(posts))
	for i := range posts {
		ids[i] = posts[i].ID
	}
	votes, err := s.votes.FindForPosts(ctx, actorID, ids)
	if err != nil {
		return err
	}
	for i := range posts {
		if t, ok := votes[posts[i].ID]; ok {
			vt := t
			posts[i].MyVote = &vt
		}
	}
	return nil
}

type CreatePostInput struct {
	Title       string   `json:"title"`
	Type        string   `json:"type"`
	Content     string   `json:"content"`
	LinkURL     string   `json:"link_url"`
	Images      []string `json:"images"`
	VideoURL    string   `json:"video_url"`
	FlairID     uint64   `json:"flair_id"`
	PollOptions []string `json:"poll_options"`
}

const (
	maxTitleLen   = 300
	maxContentLen = 40000
	maxImages     = 10
	maxPollOpts   = 6
	minPollOpts   = 2
)

// truncateRunes 按字符截断，不会把多字节字符劈成无效的半截
func truncateRunes(s string, limit int) string {
	if utf8.RuneCountInString(s) <= limit {
		return s
	}
	return string([]rune(s)[:limit])
}

// CreatePost 校验全部在落库之前完成；建帖与作者自赞同属一个事务（仓储层保证）
func (s *PostService) CreatePost(ctx context.Context, slug string, actorID uint64, in CreatePostInput) (*model.Post, error) {
	community, err := s.communities.FindBySlug(ctx, slug)
	if err != nil {
		if mysql.IsNotFound(err) {
			return nil, pkg.NotFoundf("community %s", slug)
		}
		return nil, err
	}
	if err := s.guard.CheckWrite(ctx, community, actorID); err != nil {
		return nil, err
	}

	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, pkg.Invalidf("title required")
	}
	title = truncateRunes(title, maxTitleLen)
	postType := model.PostType(in.Type)
	if !postType.Valid() {
		postType = model.PostText
	}
	in.Content = truncateRunes(in.Content, maxContentLen)

	post := &model.Post{
		CommunityID: community.ID,
		AuthorID:    actorID,
		Title:       title,
		Type:        postType,
		Content:     in.Content,
	}

	switch postType {
	case model.PostLink:
		if in.LinkURL == "" {
			return nil, pkg.Invalidf("link_url required for LINK post")
		}
		post.LinkURL = in.LinkURL
	case model.PostVideo:
		if in.VideoURL == "" {
			return nil, pkg.Invalidf("video_url required for VIDEO post")
		}
		post.VideoURL = in.VideoURL
	case model.PostImage:
		if len(in.Images) == 0 {
			return nil, pkg.Invalidf("images required for IMAGE post")
		}
		if len(in.Images) > maxImages {
			in.Images = in.Images[:maxImages]
		}
		raw, err := json.Marshal(in.Images)
		if err != nil {
			return nil, err
		}
		post.Images = string(raw)
	}

	if in.FlairID != 0 {
		if _, err := s.communities.FindFlair(ctx, community.ID, in.FlairID); err != nil {
			if mysql.IsNotFound(err) {
				return nil, pkg.Invalidf("flair does not belong to this community")
			}
			return nil, err
		}
		flairID := in.FlairID
		post.FlairID = &flairID
	}

	var options []model.PollOption
	if postType == model.PostPoll {
		options, err = buildPollOptions(in.PollOptions)
		if err != nil {
			return nil, err
		}
	}

	if err := s.posts.Create(ctx, post, options); err != nil {
		return nil, err
	}
	return post, nil
}

func buildPollOptions(texts []string) ([]model.PollOption, error) {
	cleaned := make([]string, 0, len(texts))
	for _, t := range texts {
		t = strings.TrimSpace(t)
		if t == "" {
			continue
		}
		cleaned = append(cleaned, truncateRunes(t, 200))
	}
	if len(cleaned) < minPollOpts {
		return nil, pkg.Invalidf("poll needs at least %d options", minPollOpts)
	}
	if len(cleaned) > maxPollOpts {
		cleaned = cleaned[:maxPollOpts]
	}
	options := make([]model.PollOption, len(cleaned))
	for i, t := range cleaned {
		options[i] = model.PollOption{Text: t, SortOrder: i}
	}
	return options, nil
}

// DeletePost 作者软删除；重复删除是幂等空操作，版主下架的帖子对作者等同不存在
func (s *PostService) DeletePost(ctx context.Context, postID, actorID uint64) error {
	post, err := s.posts.FindByID(ctx, postID)
	if err != nil {
		if mysql.IsNotFound(err) {
			return pkg.NotFoundf("post %d", postID)
		}
		return err
	}
	if post.IsRemoved {
		return pkg.NotFoundf("post %d", postID)
	}
	if post.IsDeleted {
		return nil
	}
	if err := CanModify(post.AuthorID, actorID); err != nil {
		return err
	}
	return s.posts.SetFlag(ctx, postID, "is_deleted", true)
}

// VotePoll 投票帖选项计票；同一用户的第二票是幂等空操作，选项不可换。
// 返回最新的选项计数
func (s *PostService) VotePoll(ctx context.Context, postID, actorID, optionID uint64) ([]model.PollOption, error) {
	post, err := s.posts.FindVisible(ctx, postID)
	if err != nil {
		if mysql.IsNotFound(err) {
			return nil, pkg.NotFoundf("post %d", postID)
		}
		return nil, err
	}
	if post.Type != model.PostPoll {
		return nil, pkg.Invalidf("post is not a poll")
	}
	community, err := s.communities.FindByID(ctx, post.CommunityID)
	if err != nil {
		if mysql.IsNotFound(err) {
			return nil, pkg.NotFoundf("community")
		}
		return nil, err
	}
	if err := s.guard.CheckWrite(ctx, community, actorID); err != nil {
		return nil, err
	}

	options, err := s.posts.ListPollOptions(ctx, postID)
	if err != nil {
		return nil, err
	}
	if _, err := pickPollOption(options, optionID); err != nil {
		return nil, err
	}
	if _, err := s.posts.VotePoll(ctx, postID, actorID, optionID); err != nil {
		return nil, err
	}
	return s.posts.ListPollOptions(ctx, postID)
}

// pickPollOption 选项必须属于该帖
func pickPollOption(options []model.PollOption, optionID uint64) (*model.PollOption, error) {
	for i := range options {
		if options[i].ID == optionID {
			return &options[i], nil
		}
	}
	return nil, pkg.Invalidf("option does not belong to this poll")
}

package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"unicode/utf8"

	"commune/internal/model"
	"commune/internal/pkg"
	"commune/internal/repository/mysql"
)

func descPosts(ids ...uint64) []model.Post {
	posts := make([]model.Post, len(ids))
	for i, id := range ids {
		posts[i] = model.Post{ID: id}
	}
	return posts
}

// 取 limit+1 条后裁掉多余的一条，游标指向页内最后一条
func TestTrimPage(t *testing.T) {
	posts := descPosts(50, 40, 30, 20)
	items, cursor := TrimPage(posts, 3)
	if len(items) != 3 {
		t.Fatalf("page size = %d, want 3", len(items))
	}
	if cursor == nil || *cursor != 30 {
		t.Fatalf("cursor = %v, want 30", cursor)
	}
}

// 不足一页时没有下一页游标
func TestTrimPageLastPage(t *testing.T) {
	items, cursor := TrimPage(descPosts(10, 5), 3)
	if len(items) != 2 {
		t.Fatalf("page size = %d, want 2", len(items))
	}
	if cursor != nil {
		t.Fatalf("cursor = %d, want nil", *cursor)
	}
	items, cursor = TrimPage(nil, 3)
	if len(items) != 0 || cursor != nil {
		t.Fatalf("empty input: items=%d cursor=%v", len(items), cursor)
	}
}

// 沿游标逐页翻完，拼接结果等于完整的降序列表，无重复无遗漏
func TestTrimPageCompleteness(t *testing.T) {
	all := descPosts(90, 80, 70, 60, 50, 40, 30, 20, 10)
	const limit = 4

	// 模拟 id < cursor 的查询，每次取 limit+1
	fetch := func(cursor *uint64) []model.Post {
		var out []model.Post
		for _, p := range all {
			if cursor != nil && p.ID >= *cursor {
				continue
			}
			out = append(out, p)
			if len(out) == limit+1 {
				break
			}
		}
		return out
	}

	var got []uint64
	var cursor *uint64
	for {
		items, next := TrimPage(fetch(cursor), limit)
		for _, p := range items {
			got = append(got, p.ID)
		}
		if next == nil {
			break
		}
		cursor = next
	}

	if len(got) != len(all) {
		t.Fatalf("collected %d ids, want %d", len(got), len(all))
	}
	for i, p := range all {
		if got[i] != p.ID {
			t.Fatalf("position %d: got %d, want %d", i, got[i], p.ID)
		}
	}
}

func TestBuildPollOptions(t *testing.T) {
	options, err := buildPollOptions([]string{" Yes ", "", "No"})
	if err != nil {
		t.Fatalf("buildPollOptions: %v", err)
	}
	if len(options) != 2 {
		t.Fatalf("got %d options, want 2", len(options))
	}
	if options[0].Text != "Yes" || options[0].SortOrder != 0 {
		t.Errorf("option 0 = %+v", options[0])
	}
	if options[1].Text != "No" || options[1].SortOrder != 1 {
		t.Errorf("option 1 = %+v", options[1])
	}

	// 空白选项被剔除后不足两个算参数错误
	if _, err := buildPollOptions([]string{"only", "  "}); !errors.Is(err, pkg.ErrValidation) {
		t.Errorf("single option: got %v, want validation error", err)
	}

	// 超长选项截断，超量选项丢弃
	long := strings.Repeat("x", 300)
	options, err = buildPollOptions([]string{long, "a", "b", "c", "d", "e", "f", "g"})
	if err != nil {
		t.Fatalf("buildPollOptions: %v", err)
	}
	if len(options) != maxPollOpts {
		t.Errorf("got %d options, want %d", len(options), maxPollOpts)
	}
	if utf8.RuneCountInString(options[0].Text) != 200 {
		t.Errorf("option 0 length = %d runes, want 200", utf8.RuneCountInString(options[0].Text))
	}
}

// 截断按字符数算，多字节字符不会被劈成无效的半截
func TestTruncateRunes(t *testing.T) {
	if got := truncateRunes("abc", 5); got != "abc" {
		t.Errorf("short input changed: %q", got)
	}
	long := strings.Repeat("社", 10)
	got := truncateRunes(long, 8)
	if utf8.RuneCountInString(got) != 8 {
		t.Errorf("rune count = %d, want 8", utf8.RuneCountInString(got))
	}
	if !utf8.ValidString(got) {
		t.Errorf("truncated string is not valid utf-8: %q", got)
	}
}

func TestPickPollOption(t *testing.T) {
	options := []model.PollOption{{ID: 10, Text: "a"}, {ID: 11, Text: "b"}}
	opt, err := pickPollOption(options, 11)
	if err != nil || opt.Text != "b" {
		t.Errorf("pick = (%+v, %v), want option b", opt, err)
	}
	if _, err := pickPollOption(options, 99); !errors.Is(err, pkg.ErrValidation) {
		t.Errorf("foreign option: got %v, want validation error", err)
	}
}

// 作者软删除：他人不可删，重复删幂等，删后帖子对外不可见
func TestDeletePostAuthorOnly(t *testing.T) {
	setupDB(t)
	c := seedCommunity(t, model.CommunityPublic)
	p := seedPost(t, c.ID, 7)

	svc := NewPostService()
	ctx := context.Background()

	if err := svc.DeletePost(ctx, p.ID, 8); !errors.Is(err, pkg.ErrForbidden) {
		t.Fatalf("non-author delete: got %v, want forbidden", err)
	}
	if err := svc.DeletePost(ctx, p.ID, 7); err != nil {
		t.Fatalf("author delete: %v", err)
	}
	if err := svc.DeletePost(ctx, p.ID, 7); err != nil {
		t.Fatalf("repeat delete: %v", err)
	}

	var reloaded model.Post
	if err := mysql.DB.First(&reloaded, p.ID).Error; err != nil {
		t.Fatalf("reload: %v", err)
	}
	if !reloaded.IsDeleted || reloaded.Visible() {
		t.Errorf("post must be soft-deleted and invisible: %+v", reloaded)
	}
}

// 每人一票：重复投或换选项都不再计票，外来选项拒绝，非投票帖拒绝
func TestVotePollOncePerUser(t *testing.T) {
	setupDB(t)
	seedCommunity(t, model.CommunityPublic)

	svc := NewPostService()
	ctx := context.Background()

	poll, err := svc.CreatePost(ctx, "golang", 7, CreatePostInput{
		Title:       "favorite",
		Type:        "POLL",
		PollOptions: []string{"red", "blue"},
	})
	if err != nil {
		t.Fatalf("create poll: %v", err)
	}
	repo := &mysql.PostRepository{DB: mysql.DB}
	opts, err := repo.ListPollOptions(ctx, poll.ID)
	if err != nil || len(opts) != 2 {
		t.Fatalf("options = (%d, %v), want 2", len(opts), err)
	}

	after, err := svc.VotePoll(ctx, poll.ID, 9, opts[0].ID)
	if err != nil {
		t.Fatalf("first vote: %v", err)
	}
	if after[0].VoteCount != 1 || after[1].VoteCount != 0 {
		t.Fatalf("counts = %d/%d, want 1/0", after[0].VoteCount, after[1].VoteCount)
	}

	// 同一用户再投另一个选项不改任何计数
	after, err = svc.VotePoll(ctx, poll.ID, 9, opts[1].ID)
	if err != nil {
		t.Fatalf("second vote: %v", err)
	}
	if after[0].VoteCount != 1 || after[1].VoteCount != 0 {
		t.Errorf("counts after repeat = %d/%d, want 1/0", after[0].VoteCount, after[1].VoteCount)
	}

	if _, err := svc.VotePoll(ctx, poll.ID, 9, 9999); !errors.Is(err, pkg.ErrValidation) {
		t.Errorf("foreign option: got %v, want validation error", err)
	}

	text := seedPost(t, poll.CommunityID, 7)
	if _, err := svc.VotePoll(ctx, text.ID, 9, opts[0].ID); !errors.Is(err, pkg.ErrValidation) {
		t.Errorf("non-poll post: got %v, want validation error", err)
	}
}

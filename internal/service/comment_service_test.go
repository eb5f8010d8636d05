package service

import (
	"context"
	"errors"
	"testing"

	"commune/internal/model"
	"commune/internal/pkg"
)

// 父评论必须属于同一帖子；不存在的父评论按参数错误处理
func TestCreateCommentParentMustMatchPost(t *testing.T) {
	setupDB(t)
	c := seedCommunity(t, model.CommunityPublic)
	p1 := seedPost(t, c.ID, 7)
	p2 := seedPost(t, c.ID, 7)
	parent := seedComment(t, p1.ID, 7, nil)

	svc := NewCommentService()
	ctx := context.Background()

	_, err := svc.CreateComment(ctx, p2.ID, 9, CreateCommentInput{Content: "hi", ParentID: &parent.ID})
	if !errors.Is(err, pkg.ErrValidation) {
		t.Errorf("cross-post parent: got %v, want validation error", err)
	}

	missing := uint64(9999)
	_, err = svc.CreateComment(ctx, p1.ID, 9, CreateCommentInput{Content: "hi", ParentID: &missing})
	if !errors.Is(err, pkg.ErrValidation) {
		t.Errorf("missing parent: got %v, want validation error", err)
	}

	reply, err := svc.CreateComment(ctx, p1.ID, 9, CreateCommentInput{Content: "hi", ParentID: &parent.ID})
	if err != nil {
		t.Fatalf("valid reply: %v", err)
	}
	if reply.ParentID == nil || *reply.ParentID != parent.ID {
		t.Errorf("reply parent = %v, want %d", reply.ParentID, parent.ID)
	}
}

// 作者删除评论后占位保留，回复子树完整，正文被隐藏
func TestDeleteCommentKeepsReplies(t *testing.T) {
	setupDB(t)
	c := seedCommunity(t, model.CommunityPublic)
	p := seedPost(t, c.ID, 7)
	parent := seedComment(t, p.ID, 7, nil)
	seedComment(t, p.ID, 9, &parent.ID)

	svc := NewCommentService()
	ctx := context.Background()

	if err := svc.DeleteComment(ctx, parent.ID, 9); !errors.Is(err, pkg.ErrForbidden) {
		t.Fatalf("non-author delete: got %v, want forbidden", err)
	}
	if err := svc.DeleteComment(ctx, parent.ID, 7); err != nil {
		t.Fatalf("author delete: %v", err)
	}
	// 重复删除幂等
	if err := svc.DeleteComment(ctx, parent.ID, 7); err != nil {
		t.Fatalf("repeat delete: %v", err)
	}

	page, err := svc.ListComments(ctx, p.ID, "old", 0)
	if err != nil {
		t.Fatalf("list after delete: %v", err)
	}
	if len(page.Comments) != 1 {
		t.Fatalf("roots = %d, want 1", len(page.Comments))
	}
	root := page.Comments[0]
	if !root.IsDeleted || root.Content != "" {
		t.Errorf("deleted root must be a redacted placeholder: deleted=%v content=%q", root.IsDeleted, root.Content)
	}
	if len(root.Children) != 1 {
		t.Errorf("children = %d, want 1", len(root.Children))
	}
}

func TestRedactDeleted(t *testing.T) {
	flat := []model.Comment{
		{ID: 1, Content: "keep"},
		{ID: 2, Content: "hide", IsDeleted: true},
	}
	redactDeleted(flat)
	if flat[0].Content != "keep" {
		t.Errorf("live comment content changed: %q", flat[0].Content)
	}
	if flat[1].Content != "" {
		t.Errorf("deleted comment content leaked: %q", flat[1].Content)
	}
}

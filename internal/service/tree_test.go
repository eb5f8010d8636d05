package service

import (
	"testing"

	"commune/internal/model"
)

func uptr(v uint64) *uint64 { return &v }

// 父评论不在结果集里的评论降级为根，而不是被丢弃
func TestBuildTreeOrphanBecomesRoot(t *testing.T) {
	flat := []model.Comment{
		{ID: 1},
		{ID: 2, ParentID: uptr(1)},
		{ID: 3, ParentID: uptr(99)}, // 99 不存在
	}
	roots := BuildTree(flat)
	if len(roots) != 2 {
		t.Fatalf("expected 2 roots, got %d", len(roots))
	}
	if roots[0].ID != 1 || roots[1].ID != 3 {
		t.Errorf("unexpected roots: %d, %d", roots[0].ID, roots[1].ID)
	}
	if len(roots[0].Children) != 1 || roots[0].Children[0].ID != 2 {
		t.Errorf("comment 2 should be child of 1")
	}
	if len(roots[1].Children) != 0 {
		t.Errorf("orphan root should have no children")
	}
}

// 每层 children 保持平铺列表的顺序
func TestBuildTreeKeepsFlatOrder(t *testing.T) {
	flat := []model.Comment{
		{ID: 10},
		{ID: 30, ParentID: uptr(10)},
		{ID: 20, ParentID: uptr(10)},
		{ID: 40},
	}
	roots := BuildTree(flat)
	if len(roots) != 2 || roots[0].ID != 10 || roots[1].ID != 40 {
		t.Fatalf("unexpected root order")
	}
	children := roots[0].Children
	if len(children) != 2 || children[0].ID != 30 || children[1].ID != 20 {
		t.Errorf("children must keep flat order, got %v, %v", children[0].ID, children[1].ID)
	}
}

func TestBuildTreeEmpty(t *testing.T) {
	if roots := BuildTree(nil); len(roots) != 0 {
		t.Errorf("empty input should give empty forest")
	}
}

// 深层嵌套：链式回复逐级挂接
func TestBuildTreeDeepChain(t *testing.T) {
	flat := []model.Comment{
		{ID: 1},
		{ID: 2, ParentID: uptr(1)},
		{ID: 3, ParentID: uptr(2)},
		{ID: 4, ParentID: uptr(3)},
	}
	roots := BuildTree(flat)
	if len(roots) != 1 {
		t.Fatalf("expected single root, got %d", len(roots))
	}
	node := roots[0]
	for want := uint64(2); want <= 4; want++ {
		if len(node.Children) != 1 {
			t.Fatalf("depth %d: expected one child", want-1)
		}
		node = node.Children[0]
		if node.ID != want {
			t.Fatalf("expected id %d at depth, got %d", want, node.ID)
		}
	}
}

package service

import "commune/internal/model"

// CommentNode 嵌套回复树的节点
type CommentNode struct {
	model.Comment
	Children []*CommentNode `json:"children"`
}

// BuildTree 把按调用方要求排好序的平铺评论组装成森林。
// 两遍扫描：先建 id→节点索引，再挂父子关系。父评论不在结果集里
// （比如被过滤掉）的评论降级为根节点，而不是丢弃或报错。
// 每层 children 的顺序就是平铺列表的顺序，不再按层重排。
// 纯内存变换，不访问存储。
func BuildTree(flat []model.Comment) []*CommentNode {
	nodes := make(map[uint64]*CommentNode, len(flat))
	ordered := make([]*CommentNode, 0, len(flat))
	for i := range flat {
		n := &CommentNode{Comment: flat[i], Children: []*CommentNode{}}
		nodes[flat[i].ID] = n
		ordered = append(ordered, n)
	}

	roots := make([]*CommentNode, 0, len(flat))
	for _, n := range ordered {
		if n.ParentID != nil {
			if parent, ok := nodes[*n.ParentID]; ok {
				parent.Children = append(parent.Children, n)
				continue
			}
		}
		roots = append(roots, n)
	}
	return roots
}

package model

// VoteOp 账本行需要执行的动作
type VoteOp int

const (
	VoteOpNone   VoteOp = iota // 幂等命中，不动
	VoteOpInsert               // 首次投票
	VoteOpUpdate               // 换方向
	VoteOpDelete               // 撤销
)

// ApplyVote 纯函数：由已有票与请求票推导账本动作和 score 增量。
// 同向重复为幂等空操作；换方向需要抵消旧票再计新票，所以增量是新票符号的两倍；
// NONE 撤销已有票，增量为旧票符号的相反数。
func ApplyVote(existing *Vote, requested VoteType) (VoteOp, int64) {
	if requested == VoteNone {
		if existing == nil {
			return VoteOpNone, 0
		}
		return VoteOpDelete, -existing.Type.Delta()
	}
	if existing == nil {
		return VoteOpInsert, requested.Delta()
	}
	if existing.Type == requested {
		return VoteOpNone, 0
	}
	return VoteOpUpdate, 2 * requested.Delta()
}

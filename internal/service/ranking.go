package service

import (
	"math"
	"sort"
	"time"

	"commune/internal/model"
)

// hotEpoch 热度公式的时间基准。越新的帖子距基准的秒数越大，
// 热度值越高，等效于按发布时间衰减
var hotEpoch = time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

// hotDecayDivisor 约 12.5 小时抵消一个数量级的票数差；
// 除数越大衰减越慢，旧帖能撑得越久
const hotDecayDivisor = 45000.0

// HotScore 简化版 Reddit 热度：sign(score)*log10(max(|score|,1)) + 秒数/45000。
// 依赖读取时刻的墙钟语义（通过 createdAt 与固定基准的差），不允许落库缓存。
func HotScore(score int64, createdAt time.Time) float64 {
	order := math.Log10(math.Max(math.Abs(float64(score)), 1))
	var sign float64
	if score > 0 {
		sign = 1
	} else if score < 0 {
		sign = -1
	}
	seconds := createdAt.Sub(hotEpoch).Seconds()
	return sign*order + seconds/hotDecayDivisor
}

// SortPageByHot 只对取回的一页做热度重排，置顶帖保持在前。
// 已知缺口：页边界外按原始 score 序被截掉的帖子不参与重排，
// 跨页的全局热度序并不保证（沿用原始设计，不在此处修正）。
func SortPageByHot(posts []model.Post) {
	sort.SliceStable(posts, func(i, j int) bool {
		if posts[i].IsPinned != posts[j].IsPinned {
			return posts[i].IsPinned
		}
		return HotScore(posts[i].Score, posts[i].CreatedAt) > HotScore(posts[j].Score, posts[j].CreatedAt)
	})
}

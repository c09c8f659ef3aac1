// Package cluster 把像素缓冲区分割成颜色一致的连通区域.
// 可以一次运行完成, 也可以按 Tick 分步推进, 两种方式结果相同.
package cluster

import (
	"math"

	vttypes "vectrace/type"
)

// KeyingAction 键色聚类的处理方式
type KeyingAction int

const (
	// Keep 与普通聚类一样输出
	Keep KeyingAction = iota
	// Discard 从输出中丢弃
	Discard
)

// HierarchicalMax 分层合并不限面积
const HierarchicalMax = math.MaxInt32

// DefaultBatchSize 每次 Tick 处理的像素数
const DefaultBatchSize = 25600

// Config 一次分割的参数
type Config struct {
	// Diagonal 只有角相接的像素也连通
	Diagonal bool
	// Hierarchical 允许分层合并的最大面积
	Hierarchical int
	BatchSize    int
	// GoodMinArea 和 GoodMaxArea 限定输出聚类的面积, 小于 GoodMinArea 的先并入最相似的邻居
	GoodMinArea int
	GoodMaxArea int
	// 每个通道都满足 |c1>>SameColorA - c2>>SameColorA| < SameColorB 时视为同色
	SameColorA int
	SameColorB int
	// DeepenDiff 相邻聚类合并为同一层的最大平均色差
	DeepenDiff int
	// KeyColor 代表透明的像素颜色, 零值表示不抠色
	KeyColor     vttypes.Color
	KeyingAction KeyingAction
}

func (c Config) batchSize() int {
	if c.BatchSize <= 0 {
		return DefaultBatchSize
	}
	return c.BatchSize
}

func (c Config) keyed() bool {
	return !c.KeyColor.IsZero()
}

func channelSame(a, b uint8, shift, tolerance int) bool {
	d := int(a>>shift) - int(b>>shift)
	if d < 0 {
		d = -d
	}
	return d < tolerance
}

// sameColor 相似判定, 键色像素只与键色像素匹配
func (c Config) sameColor(p, q vttypes.Color) bool {
	if c.keyed() && c.KeyColor.SameRGB(p) != c.KeyColor.SameRGB(q) {
		return false
	}
	shift := c.SameColorA
	if shift < 0 {
		shift = 0
	}
	tol := c.SameColorB
	if tol < 1 {
		tol = 1
	}
	return channelSame(p.R, q.R, shift, tol) &&
		channelSame(p.G, q.G, shift, tol) &&
		channelSame(p.B, q.B, shift, tol)
}

// colorDiff 各通道差值的最大值
func colorDiff(a, b vttypes.Color) int {
	d := 0
	for _, v := range [3]int{
		int(a.R) - int(b.R),
		int(a.G) - int(b.G),
		int(a.B) - int(b.B),
	} {
		if v < 0 {
			v = -v
		}
		if v > d {
			d = v
		}
	}
	return d
}

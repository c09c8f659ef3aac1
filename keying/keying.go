// Package keying 把全透明像素改写为图中未出现的颜色,
// 使不理会 alpha 的聚类把透明当作一种普通颜色.
package keying

import (
	"errors"
	"math/rand/v2"

	vttypes "vectrace/type"
)

const (
	// ThresholdPercent 采样像素中透明像素达到两行宽度的该百分比时才抠色
	ThresholdPercent = 20
	// RandomCandidates 固定候选色之后尝试的随机颜色数
	RandomCandidates = 6
)

// ErrNoUnusedColor 所有候选键色都已在图中出现
var ErrNoUnusedColor = errors.New("unable to find unused color in image to use as key")

// NoKey 表示不抠色
var NoKey = vttypes.Color{}

var canonical = []vttypes.Color{
	vttypes.RGB(255, 0, 0),
	vttypes.RGB(0, 255, 0),
	vttypes.RGB(0, 0, 255),
	vttypes.RGB(255, 255, 0),
	vttypes.RGB(0, 255, 255),
	vttypes.RGB(255, 0, 255),
}

// RandomSource 随机候选色的字节来源
type RandomSource interface {
	Uint8() uint8
}

type pcgSource struct {
	r *rand.Rand
}

func (s pcgSource) Uint8() uint8 {
	return uint8(s.r.UintN(256))
}

// NewRandomSource 带种子的来源, 用于可复现的运行
func NewRandomSource(seed uint64) RandomSource {
	return pcgSource{r: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

type globalSource struct{}

func (globalSource) Uint8() uint8 {
	return uint8(rand.UintN(256))
}

// threshold 整数运算的 ceil(2*width*ThresholdPercent%)
func threshold(width int) int {
	return (2*width*ThresholdPercent + 99) / 100
}

// ShouldKey 采样首行, 高度 25%/50%/75% 处的行和末行, 判断全透明像素是否足够多. 耗时 O(width).
func ShouldKey(buf *vttypes.PixelBuffer) bool {
	if buf.Empty() {
		return false
	}
	limit := threshold(buf.Width)
	rows := [5]int{0, buf.Height / 4, buf.Height / 2, 3 * buf.Height / 4, buf.Height - 1}
	transparent := 0
	for _, y := range rows {
		for x := 0; x < buf.Width; x++ {
			if buf.Alpha(x, y) == 0 {
				transparent++
			}
			if transparent >= limit {
				return true
			}
		}
	}
	return false
}

// Contains 是否有像素的 r,g,b 与 c 相同
func Contains(buf *vttypes.PixelBuffer, c vttypes.Color) bool {
	p := buf.Pixels
	for i := 0; i+3 < len(p); i += 4 {
		if p[i] == c.R && p[i+1] == c.G && p[i+2] == c.B {
			return true
		}
	}
	return false
}

// FindUnusedColor 依次尝试六种饱和色和 RandomCandidates 个随机色, 返回第一个图中没有的颜色.
// src 为 nil 时使用全局随机数.
func FindUnusedColor(buf *vttypes.PixelBuffer, src RandomSource) (vttypes.Color, error) {
	for _, c := range canonical {
		if !Contains(buf, c) {
			return c, nil
		}
	}
	if src == nil {
		src = globalSource{}
	}
	for i := 0; i < RandomCandidates; i++ {
		c := vttypes.RGB(src.Uint8(), src.Uint8(), src.Uint8())
		if !Contains(buf, c) {
			return c, nil
		}
	}
	return NoKey, ErrNoUnusedColor
}

// Apply 把全透明像素的 r,g,b 改写为 key, alpha 不变
func Apply(buf *vttypes.PixelBuffer, key vttypes.Color) {
	p := buf.Pixels
	for i := 0; i+3 < len(p); i += 4 {
		if p[i+3] == 0 {
			p[i] = key.R
			p[i+1] = key.G
			p[i+2] = key.B
		}
	}
}

// Key 原地完成抠色预处理, 返回键色; 不需要抠色时返回 NoKey
func Key(buf *vttypes.PixelBuffer, src RandomSource) (vttypes.Color, error) {
	if !ShouldKey(buf) {
		return NoKey, nil
	}
	key, err := FindUnusedColor(buf, src)
	if err != nil {
		return NoKey, err
	}
	Apply(buf, key)
	return key, nil
}

package pipeline

import (
	vttypes "vectrace/type"
)

// Collector 按绘制顺序累积 (路径, 颜色)
type Collector struct {
	out vttypes.Output
}

// NewCollector 为 width x height 的画布创建空输出
func NewCollector(width, height int, precision *uint) *Collector {
	return &Collector{out: vttypes.Output{Width: width, Height: height, PathPrecision: precision}}
}

// Append 在末尾追加一条并返回是否保留. 空路径不绘制任何内容, 直接丢弃.
func (c *Collector) Append(path vttypes.Path, color vttypes.Color) bool {
	if path == nil || path.Empty() {
		return false
	}
	c.out.Entries = append(c.out.Entries, vttypes.Entry{Path: path, Color: color})
	return true
}

func (c *Collector) Len() int {
	return len(c.out.Entries)
}

// Output 返回快照, 之后的追加不影响它
func (c *Collector) Output() vttypes.Output {
	out := c.out
	out.Entries = append([]vttypes.Entry(nil), c.out.Entries...)
	return out
}

// Since 前 n 条之后追加的条目, 返回的切片不可修改
func (c *Collector) Since(n int) []vttypes.Entry {
	if n >= len(c.out.Entries) {
		return nil
	}
	return c.out.Entries[n:]
}

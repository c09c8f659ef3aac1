package cluster

import (
	vttypes "vectrace/type"
)

// Threshold128 二值模式的前景判定: 红色通道小于 128
func Threshold128(c vttypes.Color) bool {
	return c.R < 128
}

// Binary 把前景像素按 4 连通分组, 全部输出为黑色, 顺序为首个像素的光栅顺序
func Binary(img *vttypes.PixelBuffer, foreground func(vttypes.Color) bool) *Clusters {
	fg := make([]bool, img.Width*img.Height)
	for i := range fg {
		p := img.Pixels[i*4 : i*4+4]
		fg[i] = foreground(vttypes.Color{R: p[0], G: p[1], B: p[2], A: p[3]})
	}
	b := newBuilder(Config{BatchSize: len(fg) + 1}, img)
	b.include = func(i int) bool { return fg[i] }
	b.same = func(i, j int) bool { return true }
	b.output = func() []int {
		out := make([]int, len(b.list))
		for i, c := range b.list {
			c.Residue = vttypes.RGB(0, 0, 0)
			out[i] = i
		}
		return out
	}
	b.start()
	for !b.Tick() {
	}
	return b.Result()
}

package cluster

import (
	"image"
	"image/color"

	"vectrace/mask2path"
	vttypes "vectrace/type"
)

// Cluster 一个连通区域
type Cluster struct {
	ID      int
	Area    int
	Rect    image.Rectangle
	Pixels  []int // 下标 y*width+x
	Residue vttypes.Color
	// Key 由键色像素组成
	Key bool

	sum    [3]int
	width  int
	merged bool
}

// Size 像素数
func (c *Cluster) Size() int {
	return c.Area
}

// Color 填充色
func (c *Cluster) Color() vttypes.Color {
	return c.Residue
}

// Mask 在包围盒内绘制区域掩码, 内部为黑, 外部为白
func (c *Cluster) Mask() *image.Gray {
	mask := image.NewGray(c.Rect)
	for i := range mask.Pix {
		mask.Pix[i] = 0xff
	}
	for _, p := range c.Pixels {
		mask.SetGray(p%c.width, p/c.width, color.Gray{Y: 0})
	}
	return mask
}

// Path 为区域拟合复合路径
func (c *Cluster) Path(opts mask2path.Options) (*mask2path.CompoundPath, error) {
	return mask2path.Fit(c.Mask(), opts)
}

func (c *Cluster) add(idx, x, y int, col vttypes.Color) {
	c.Pixels = append(c.Pixels, idx)
	c.Area++
	c.sum[0] += int(col.R)
	c.sum[1] += int(col.G)
	c.sum[2] += int(col.B)
	c.Rect = c.Rect.Union(image.Rect(x, y, x+1, y+1))
}

func (c *Cluster) finish() {
	if c.Area == 0 {
		return
	}
	c.Residue = vttypes.RGB(
		uint8(c.sum[0]/c.Area),
		uint8(c.sum[1]/c.Area),
		uint8(c.sum[2]/c.Area),
	)
}

// Clusters 一次分割的结果
type Clusters struct {
	Width  int
	Height int
	// Output 按面积升序的聚类 id, 逆序绘制时大区域在先
	Output []int

	labels []int32
	list   []*Cluster
}

// Len 聚类总数, 包括已合并和被过滤的
func (cs *Clusters) Len() int {
	return len(cs.list)
}

// Cluster 按 id 取聚类
func (cs *Clusters) Cluster(id int) *Cluster {
	return cs.list[id]
}

// Label 像素 (x, y) 所属的聚类 id, 没有时为 -1
func (cs *Clusters) Label(x, y int) int {
	return int(cs.labels[y*cs.Width+x])
}

// OutputClusters 按自然顺序返回输出的聚类
func (cs *Clusters) OutputClusters() []*Cluster {
	out := make([]*Cluster, len(cs.Output))
	for i, id := range cs.Output {
		out[i] = cs.list[id]
	}
	return out
}

// ToColorImage 用合并后所属聚类的颜色绘制每个像素, 未归类的像素保持透明
func (cs *Clusters) ToColorImage() *vttypes.PixelBuffer {
	buf := vttypes.NewPixelBuffer(cs.Width, cs.Height)
	for i, l := range cs.labels {
		if l < 0 {
			continue
		}
		c := cs.list[l].Residue
		o := i * 4
		buf.Pixels[o] = c.R
		buf.Pixels[o+1] = c.G
		buf.Pixels[o+2] = c.B
		buf.Pixels[o+3] = 0xff
	}
	return buf
}

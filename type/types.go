package vttypes

import (
	"fmt"
	"image"
	"image/color"
)

// PixelBuffer 是带宽高的 RGBA 字节缓冲区, len(Pixels) == Width*Height*4
type PixelBuffer struct {
	Width  int
	Height int
	Pixels []byte
}

// NewPixelBuffer 分配全透明缓冲区
func NewPixelBuffer(width, height int) *PixelBuffer {
	return &PixelBuffer{
		Width:  width,
		Height: height,
		Pixels: make([]byte, width*height*4),
	}
}

// FromImage 把任意 image.Image 复制为非预乘 RGBA 缓冲区
func FromImage(img image.Image) *PixelBuffer {
	bounds := img.Bounds()
	buf := NewPixelBuffer(bounds.Dx(), bounds.Dy())
	i := 0
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			c := color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)
			buf.Pixels[i] = c.R
			buf.Pixels[i+1] = c.G
			buf.Pixels[i+2] = c.B
			buf.Pixels[i+3] = c.A
			i += 4
		}
	}
	return buf
}

// Validate 检查长度不变式
func (b *PixelBuffer) Validate() error {
	if b.Width < 0 || b.Height < 0 {
		return fmt.Errorf("invalid buffer size %dx%d", b.Width, b.Height)
	}
	if want := b.Width * b.Height * 4; len(b.Pixels) != want {
		return fmt.Errorf("pixel buffer holds %d bytes, want %d (%d * %d * 4)", len(b.Pixels), want, b.Width, b.Height)
	}
	return nil
}

// Empty 面积为 0
func (b *PixelBuffer) Empty() bool {
	return b.Width == 0 || b.Height == 0
}

// Clone 深拷贝, keying 会原地修改缓冲区
func (b *PixelBuffer) Clone() *PixelBuffer {
	pixels := make([]byte, len(b.Pixels))
	copy(pixels, b.Pixels)
	return &PixelBuffer{Width: b.Width, Height: b.Height, Pixels: pixels}
}

func (b *PixelBuffer) offset(x, y int) int {
	return (y*b.Width + x) * 4
}

// At 读取 (x, y) 像素
func (b *PixelBuffer) At(x, y int) Color {
	i := b.offset(x, y)
	return Color{R: b.Pixels[i], G: b.Pixels[i+1], B: b.Pixels[i+2], A: b.Pixels[i+3]}
}

func (b *PixelBuffer) Alpha(x, y int) uint8 {
	return b.Pixels[b.offset(x, y)+3]
}

// Set 写入 (x, y) 的四个通道
func (b *PixelBuffer) Set(x, y int, c Color) {
	i := b.offset(x, y)
	b.Pixels[i] = c.R
	b.Pixels[i+1] = c.G
	b.Pixels[i+2] = c.B
	b.Pixels[i+3] = c.A
}

// Color 颜色, 比较时只看 RGB
type Color struct {
	R, G, B, A uint8
}

// RGB 不透明颜色
func RGB(r, g, b uint8) Color {
	return Color{R: r, G: g, B: b, A: 255}
}

// SameRGB 只比较 RGB, 忽略 alpha
func (c Color) SameRGB(o Color) bool {
	return c.R == o.R && c.G == o.G && c.B == o.B
}

// IsZero 全零颜色表示不做 keying
func (c Color) IsZero() bool {
	return c.R == 0 && c.G == 0 && c.B == 0
}

// Hex 格式化为 #rrggbb
func (c Color) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// Path 是一个可以序列化为 SVG 的复合路径
type Path interface {
	// SVG 返回路径数据和 translate 偏移
	SVG(precision *uint) (d string, offsetX, offsetY float64)
	// Empty 没有可绘制的内容
	Empty() bool
}

// Entry 表示一条 (路径, 填充色)
type Entry struct {
	Path  Path
	Color Color
}

// Output 封装输出的数据结构, Entries 按绘制顺序排列
type Output struct {
	Width         int
	Height        int
	PathPrecision *uint
	Entries       []Entry
}

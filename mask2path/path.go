package mask2path

import (
	"fmt"
	"image"
	"math"
	"strconv"
	"strings"
)

// Mode 曲线拟合模式
type Mode int

const (
	// ModeNone 保留像素阶梯轮廓
	ModeNone Mode = iota
	ModePolygon
	ModeSpline
)

func (m Mode) String() string {
	switch m {
	case ModeNone:
		return "pixel"
	case ModePolygon:
		return "polygon"
	case ModeSpline:
		return "spline"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// Valid 是否为已知模式
func (m Mode) Valid() bool {
	return m == ModeNone || m == ModePolygon || m == ModeSpline
}

// Options 拟合参数, 角度单位为弧度
type Options struct {
	Mode            Mode
	CornerThreshold float64
	LengthThreshold float64
	MaxIterations   int
	SpliceThreshold float64
}

// Point 平面上的点
type Point struct {
	X, Y float64
}

// SegmentKind 线段类型
type SegmentKind int

const (
	Line SegmentKind = iota
	Cubic
)

// Segment 从上一个端点画到 To; Cubic 使用 C1, C2 控制点
type Segment struct {
	Kind   SegmentKind
	C1, C2 Point
	To     Point
}

// Subpath 闭合子路径
type Subpath struct {
	Start    Point
	Segments []Segment
}

// CompoundPath 复合路径, 坐标相对于 Offset
type CompoundPath struct {
	Offset   image.Point
	Subpaths []Subpath
}

// Empty 没有任何子路径
func (p *CompoundPath) Empty() bool {
	return len(p.Subpaths) == 0
}

// SVG 生成 d 属性和 translate 偏移; precision 为 nil 时保留全部精度
func (p *CompoundPath) SVG(precision *uint) (string, float64, float64) {
	var b strings.Builder
	pt := func(q Point) {
		b.WriteString(formatFloat(q.X, precision))
		b.WriteByte(',')
		b.WriteString(formatFloat(q.Y, precision))
	}
	for _, sp := range p.Subpaths {
		b.WriteString("M")
		pt(sp.Start)
		for _, s := range sp.Segments {
			switch s.Kind {
			case Line:
				b.WriteString(" L")
				pt(s.To)
			case Cubic:
				b.WriteString(" C")
				pt(s.C1)
				b.WriteByte(' ')
				pt(s.C2)
				b.WriteByte(' ')
				pt(s.To)
			}
		}
		b.WriteString(" Z ")
	}
	return strings.TrimSuffix(b.String(), " "), float64(p.Offset.X), float64(p.Offset.Y)
}

// maxRoundingPrecision 超过该位数时 float64 已无可舍入的有效数字
const maxRoundingPrecision = 15

func formatFloat(v float64, precision *uint) string {
	if precision != nil && *precision <= maxRoundingPrecision {
		scale := math.Pow(10, float64(*precision))
		v = math.Round(v*scale) / scale
	}
	if v == 0 {
		// 避免输出 -0
		v = 0
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func polygonSubpath(points []Point) Subpath {
	sp := Subpath{Start: points[0]}
	for _, q := range points[1:] {
		sp.Segments = append(sp.Segments, Segment{Kind: Line, To: q})
	}
	return sp
}

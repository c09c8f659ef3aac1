package mask2path

import (
	"image"
	"math"

	"github.com/dennwc/gotrace"
)

// traceSpline 使用 gotrace 拟合贝塞尔曲线
func traceSpline(mask *image.Gray, opts Options) ([]Subpath, error) {
	b := mask.Bounds()
	bm := gotrace.NewBitmap(b.Dx(), b.Dy())
	for y := 0; y < b.Dy(); y++ {
		for x := 0; x < b.Dx(); x++ {
			bm.Set(x, y, inside(mask, b.Min.X+x, b.Min.Y+y))
		}
	}

	paths, err := gotrace.Trace(bm, &gotrace.Params{
		TurdSize:     0,
		TurnPolicy:   gotrace.TurnMinority,
		AlphaMax:     opts.CornerThreshold / math.Pi * 4 / 3,
		OptiCurve:    true,
		OptTolerance: opts.SpliceThreshold / math.Pi,
	})
	if err != nil {
		return nil, err
	}

	var res []Subpath
	for _, p := range paths {
		if len(p.Curve) == 0 {
			continue
		}
		last := p.Curve[len(p.Curve)-1].Pnt[2]
		sp := Subpath{Start: Point{last.X, last.Y}}
		for _, s := range p.Curve {
			switch s.Type {
			case gotrace.TypeCorner:
				sp.Segments = append(sp.Segments,
					Segment{Kind: Line, To: Point{s.Pnt[1].X, s.Pnt[1].Y}},
					Segment{Kind: Line, To: Point{s.Pnt[2].X, s.Pnt[2].Y}},
				)
			default:
				sp.Segments = append(sp.Segments, Segment{
					Kind: Cubic,
					C1:   Point{s.Pnt[0].X, s.Pnt[0].Y},
					C2:   Point{s.Pnt[1].X, s.Pnt[1].Y},
					To:   Point{s.Pnt[2].X, s.Pnt[2].Y},
				})
			}
		}
		res = append(res, subdivide(sp, opts.LengthThreshold, opts.MaxIterations))
	}
	return res, nil
}

// subdivide 把弦长超过 maxLen 的三次曲线从中点拆开, 最多 rounds 轮
func subdivide(sp Subpath, maxLen float64, rounds int) Subpath {
	if maxLen <= 0 {
		return sp
	}
	for r := 0; r < rounds; r++ {
		split := false
		from := sp.Start
		out := make([]Segment, 0, len(sp.Segments))
		for _, s := range sp.Segments {
			if s.Kind == Cubic && math.Sqrt(dist2(from, s.To)) > maxLen {
				a, b := splitCubic(from, s)
				out = append(out, a, b)
				split = true
			} else {
				out = append(out, s)
			}
			from = s.To
		}
		sp.Segments = out
		if !split {
			break
		}
	}
	return sp
}

// splitCubic de Casteljau 在 t=0.5 处拆分
func splitCubic(from Point, s Segment) (Segment, Segment) {
	mid := func(a, b Point) Point { return Point{(a.X + b.X) / 2, (a.Y + b.Y) / 2} }
	p01, p12, p23 := mid(from, s.C1), mid(s.C1, s.C2), mid(s.C2, s.To)
	p012, p123 := mid(p01, p12), mid(p12, p23)
	m := mid(p012, p123)
	return Segment{Kind: Cubic, C1: p01, C2: p012, To: m},
		Segment{Kind: Cubic, C1: p123, C2: p23, To: s.To}
}

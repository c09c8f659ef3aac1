package mask2path

import "math"

// polygonTolerance 多边形简化允许的最大偏差(像素)
const polygonTolerance = 1.0

// simplifyClosed 对闭合折线做 Douglas-Peucker 简化, 至少保留三个顶点
func simplifyClosed(points []Point, tolerance float64) []Point {
	n := len(points)
	if n <= 3 {
		return points
	}
	far, best := 0, -1.0
	for i := 1; i < n; i++ {
		if d := dist2(points[0], points[i]); d > best {
			far, best = i, d
		}
	}
	ring := append(append([]Point{}, points...), points[0])
	first := douglasPeucker(ring[:far+1], tolerance)
	second := douglasPeucker(ring[far:], tolerance)
	res := append(first, second[1:len(second)-1]...)
	if len(res) < 3 {
		return points
	}
	return res
}

// douglasPeucker 保留首尾两点
func douglasPeucker(points []Point, tolerance float64) []Point {
	if len(points) < 3 {
		return append([]Point{}, points...)
	}
	a, b := points[0], points[len(points)-1]
	idx, maxDist := 0, 0.0
	for i := 1; i < len(points)-1; i++ {
		if d := segmentDistance(points[i], a, b); d > maxDist {
			idx, maxDist = i, d
		}
	}
	if maxDist <= tolerance {
		return []Point{a, b}
	}
	left := douglasPeucker(points[:idx+1], tolerance)
	right := douglasPeucker(points[idx:], tolerance)
	return append(left[:len(left)-1], right...)
}

func dist2(a, b Point) float64 {
	dx, dy := a.X-b.X, a.Y-b.Y
	return dx*dx + dy*dy
}

func segmentDistance(p, a, b Point) float64 {
	l2 := dist2(a, b)
	if l2 == 0 {
		return math.Sqrt(dist2(p, a))
	}
	t := ((p.X-a.X)*(b.X-a.X) + (p.Y-a.Y)*(b.Y-a.Y)) / l2
	t = math.Max(0, math.Min(1, t))
	return math.Sqrt(dist2(p, Point{a.X + t*(b.X-a.X), a.Y + t*(b.Y-a.Y)}))
}

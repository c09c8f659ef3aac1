package mask2path

import (
	"image"
)

type ipoint struct {
	X, Y int
}

// 方向: 东 南 西 北, 顺时针排列
var steps = [4]ipoint{{1, 0}, {0, 1}, {-1, 0}, {0, -1}}

type edge struct {
	from, to ipoint
	dir      int
	used     bool
}

// inside 掩码中黑色像素属于区域
func inside(mask *image.Gray, x, y int) bool {
	b := mask.Bounds()
	if x < b.Min.X || y < b.Min.Y || x >= b.Max.X || y >= b.Max.Y {
		return false
	}
	return mask.GrayAt(x, y).Y < 128
}

// outlines 提取区域边界, 区域始终在前进方向右侧, 坐标相对于掩码左上角.
// 外轮廓为顺时针, 孔洞为逆时针.
func outlines(mask *image.Gray) [][]ipoint {
	b := mask.Bounds()
	var edges []edge
	out := map[ipoint][]int{}
	add := func(from ipoint, dir int) {
		s := steps[dir]
		out[from] = append(out[from], len(edges))
		edges = append(edges, edge{from: from, to: ipoint{from.X + s.X, from.Y + s.Y}, dir: dir})
	}
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if !inside(mask, x, y) {
				continue
			}
			lx, ly := x-b.Min.X, y-b.Min.Y
			if !inside(mask, x, y-1) {
				add(ipoint{lx, ly}, 0)
			}
			if !inside(mask, x+1, y) {
				add(ipoint{lx + 1, ly}, 1)
			}
			if !inside(mask, x, y+1) {
				add(ipoint{lx + 1, ly + 1}, 2)
			}
			if !inside(mask, x-1, y) {
				add(ipoint{lx, ly + 1}, 3)
			}
		}
	}

	// 对角相接时优先右转, 与四连通的区域划分一致
	pick := func(v ipoint, dir int) int {
		for _, d := range [3]int{(dir + 1) % 4, dir, (dir + 3) % 4} {
			for _, i := range out[v] {
				if !edges[i].used && edges[i].dir == d {
					return i
				}
			}
		}
		return -1
	}

	var loops [][]ipoint
	for i := range edges {
		if edges[i].used {
			continue
		}
		start := &edges[i]
		start.used = true
		loop := []ipoint{start.from}
		cur := start
		for cur.to != start.from {
			loop = append(loop, cur.to)
			next := pick(cur.to, cur.dir)
			if next < 0 {
				break
			}
			edges[next].used = true
			cur = &edges[next]
		}
		loops = append(loops, mergeCollinear(loop))
	}
	return loops
}

// mergeCollinear 去掉直线中间的顶点
func mergeCollinear(loop []ipoint) []ipoint {
	n := len(loop)
	if n < 3 {
		return loop
	}
	var res []ipoint
	for i := 0; i < n; i++ {
		prev, cur, next := loop[(i+n-1)%n], loop[i], loop[(i+1)%n]
		cross := (cur.X-prev.X)*(next.Y-cur.Y) - (cur.Y-prev.Y)*(next.X-cur.X)
		if cross != 0 {
			res = append(res, cur)
		}
	}
	return res
}

func toPoints(loop []ipoint) []Point {
	pts := make([]Point, len(loop))
	for i, q := range loop {
		pts[i] = Point{float64(q.X), float64(q.Y)}
	}
	return pts
}

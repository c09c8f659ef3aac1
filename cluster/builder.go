package cluster

import (
	"sort"

	vttypes "vectrace/type"
)

type phase int

const (
	phaseLabel phase = iota
	phaseCollect
	phaseMerge
	phaseDone
)

// Runner 尚未开始的一次分割任务
type Runner struct {
	config Config
	image  *vttypes.PixelBuffer
}

// NewRunner 准备对 img 的一次分割, 只读不写
func NewRunner(config Config, img *vttypes.PixelBuffer) *Runner {
	return &Runner{config: config, image: img}
}

// Run 一次调用完成整幅图像的分割
func (r *Runner) Run() *Clusters {
	b := r.Start()
	for !b.Tick() {
	}
	return b.Result()
}

// Start 返回用 Tick 逐步推进的 Builder
func (r *Runner) Start() *Builder {
	b := newBuilder(r.config, r.image)
	b.same = func(i, j int) bool {
		return b.config.sameColor(b.pixel(i), b.pixel(j))
	}
	return b.start()
}

func newBuilder(config Config, img *vttypes.PixelBuffer) *Builder {
	n := img.Width * img.Height
	b := &Builder{
		config: config,
		image:  img,
		n:      n,
		parent: make([]int32, n),
		labels: make([]int32, n),
		root:   make([]int32, n),
	}
	for i := range b.parent {
		b.parent[i] = int32(i)
		b.root[i] = -1
	}
	b.neighbours = b.colorNeighbours
	return b
}

func (b *Builder) start() *Builder {
	if b.n == 0 {
		b.finishOutput()
	}
	return b
}

// Builder 进行中的分割, 每次 Tick 只做有限的工作
type Builder struct {
	config Config
	image  *vttypes.PixelBuffer
	n      int

	phase phase
	next  int

	parent []int32 // 像素并查集
	root   []int32 // 根像素 -> 聚类 id
	labels []int32
	list   []*Cluster

	order  []int // 合并顺序
	merged int

	// same 判断相邻像素是否同属一类; include 为 nil 时保留全部像素
	same       func(i, j int) bool
	include    func(i int) bool
	neighbours func(x, y int) []int
	output     func() []int

	result *Clusters
}

func (b *Builder) pixel(i int) vttypes.Color {
	p := b.image.Pixels[i*4 : i*4+4]
	return vttypes.Color{R: p[0], G: p[1], B: p[2], A: p[3]}
}

func (b *Builder) find(i int32) int32 {
	for b.parent[i] != i {
		b.parent[i] = b.parent[b.parent[i]]
		i = b.parent[i]
	}
	return i
}

// union 以较小下标为根, 根即连通块在光栅顺序中的第一个像素
func (b *Builder) union(i, j int) {
	ri, rj := b.find(int32(i)), b.find(int32(j))
	switch {
	case ri < rj:
		b.parent[rj] = ri
	case rj < ri:
		b.parent[ri] = rj
	}
}

// colorNeighbours (x, y) 已访问过的邻居
func (b *Builder) colorNeighbours(x, y int) []int {
	w := b.image.Width
	var out [4]int
	k := 0
	if x > 0 {
		out[k] = y*w + x - 1
		k++
	}
	if y > 0 {
		out[k] = (y-1)*w + x
		k++
		if b.config.Diagonal {
			if x > 0 {
				out[k] = (y-1)*w + x - 1
				k++
			}
			if x+1 < w {
				out[k] = (y-1)*w + x + 1
				k++
			}
		}
	}
	return out[:k]
}

func (b *Builder) included(i int) bool {
	return b.include == nil || b.include(i)
}

// Tick 推进一步, 返回是否完成
func (b *Builder) Tick() bool {
	switch b.phase {
	case phaseLabel:
		b.tickLabel()
	case phaseCollect:
		b.tickCollect()
	case phaseMerge:
		b.tickMerge()
	}
	return b.phase == phaseDone
}

func (b *Builder) tickLabel() {
	w := b.image.Width
	end := min(b.next+b.config.batchSize(), b.n)
	for i := b.next; i < end; i++ {
		if !b.included(i) {
			continue
		}
		for _, j := range b.neighbours(i%w, i/w) {
			if b.included(j) && b.same(i, j) {
				b.union(i, j)
			}
		}
	}
	b.next = end
	if b.next == b.n {
		b.phase, b.next = phaseCollect, 0
	}
}

func (b *Builder) tickCollect() {
	w := b.image.Width
	end := min(b.next+b.config.batchSize(), b.n)
	for i := b.next; i < end; i++ {
		if !b.included(i) {
			b.labels[i] = -1
			continue
		}
		r := b.find(int32(i))
		id := b.root[r]
		if id < 0 {
			id = int32(len(b.list))
			b.root[r] = id
			b.list = append(b.list, &Cluster{ID: int(id), width: w})
		}
		b.labels[i] = id
		b.list[id].add(i, i%w, i/w, b.pixel(i))
	}
	b.next = end
	if b.next < b.n {
		return
	}
	for _, c := range b.list {
		c.finish()
		c.Key = b.config.keyed() && c.Residue.SameRGB(b.config.KeyColor)
	}
	b.order = make([]int, len(b.list))
	for i := range b.order {
		b.order[i] = i
	}
	sort.SliceStable(b.order, func(i, j int) bool {
		return b.list[b.order[i]].Area < b.list[b.order[j]].Area
	})
	b.phase, b.next = phaseMerge, 0
	if b.output != nil {
		// 二值模式不合并
		b.finishOutput()
	}
}

func (b *Builder) tickMerge() {
	budget := b.config.batchSize()
	for b.merged < len(b.order) && budget > 0 {
		c := b.list[b.order[b.merged]]
		b.merged++
		if c.merged || c.Key {
			continue
		}
		budget -= c.Area
		b.mergeOne(c)
	}
	if b.merged == len(b.order) {
		b.finishOutput()
	}
}

// mergeOne 面积过小或颜色足够接近时, 把 c 并入最相似的邻居
func (b *Builder) mergeOne(c *Cluster) {
	small := c.Area < b.config.GoodMinArea
	deepen := c.Area <= b.config.Hierarchical
	if !small && !deepen {
		return
	}
	target := b.bestNeighbour(c)
	if target == nil {
		return
	}
	if !small && colorDiff(c.Residue, target.Residue) > b.config.DeepenDiff {
		return
	}
	for _, p := range c.Pixels {
		b.labels[p] = int32(target.ID)
	}
	target.Pixels = append(target.Pixels, c.Pixels...)
	target.Area += c.Area
	target.Rect = target.Rect.Union(c.Rect)
	c.Pixels = nil
	c.Area = 0
	c.merged = true
}

// bestNeighbour 颜色最接近的相邻非键色聚类, 相同时取面积大的, 再取先出现的
func (b *Builder) bestNeighbour(c *Cluster) *Cluster {
	w, h := b.image.Width, b.image.Height
	var best *Cluster
	bestDiff := 0
	seen := map[int32]struct{}{}
	consider := func(p int) {
		l := b.labels[p]
		if l < 0 || int(l) == c.ID {
			return
		}
		if _, ok := seen[l]; ok {
			return
		}
		seen[l] = struct{}{}
		n := b.list[l]
		if n.Key {
			return
		}
		d := colorDiff(c.Residue, n.Residue)
		if best == nil || d < bestDiff ||
			(d == bestDiff && (n.Area > best.Area || (n.Area == best.Area && n.ID < best.ID))) {
			best, bestDiff = n, d
		}
	}
	for _, p := range c.Pixels {
		x, y := p%w, p/w
		if x > 0 {
			consider(p - 1)
		}
		if x+1 < w {
			consider(p + 1)
		}
		if y > 0 {
			consider(p - w)
		}
		if y+1 < h {
			consider(p + w)
		}
	}
	return best
}

func (b *Builder) colorOutput() []int {
	var out []int
	for _, id := range b.order {
		c := b.list[id]
		if c.merged || c.Area < b.config.GoodMinArea || c.Area > b.config.GoodMaxArea {
			continue
		}
		if c.Key && b.config.KeyingAction == Discard {
			continue
		}
		out = append(out, id)
	}
	// order 在合并前已按面积排序
	sort.SliceStable(out, func(i, j int) bool {
		ci, cj := b.list[out[i]], b.list[out[j]]
		if ci.Area != cj.Area {
			return ci.Area < cj.Area
		}
		return ci.ID < cj.ID
	})
	return out
}

func (b *Builder) finishOutput() {
	var out []int
	if b.output != nil {
		out = b.output()
	} else {
		out = b.colorOutput()
	}
	b.result = &Clusters{
		Width:  b.image.Width,
		Height: b.image.Height,
		Output: out,
		labels: b.labels,
		list:   b.list,
	}
	b.phase = phaseDone
	b.parent, b.root, b.order = nil, nil, nil
}

// Progress 完成度 [0,100], 单调不减
func (b *Builder) Progress() int {
	if b.phase == phaseDone || b.n == 0 {
		return 100
	}
	switch b.phase {
	case phaseLabel:
		return 50 * b.next / b.n
	case phaseCollect:
		return 50 + 20*b.next/b.n
	default:
		if len(b.order) == 0 {
			return 100
		}
		return 70 + 30*b.merged/len(b.order)
	}
}

// Result 完成后的聚类结果, 未完成时为 nil
func (b *Builder) Result() *Clusters {
	return b.result
}

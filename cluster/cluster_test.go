package cluster

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	vttypes "vectrace/type"
)

var (
	red   = vttypes.RGB(255, 0, 0)
	green = vttypes.RGB(0, 255, 0)
	blue  = vttypes.RGB(0, 0, 255)
	black = vttypes.RGB(0, 0, 0)
	white = vttypes.RGB(255, 255, 255)
)

func fill(w, h int, c vttypes.Color) *vttypes.PixelBuffer {
	buf := vttypes.NewPixelBuffer(w, h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			buf.Set(x, y, c)
		}
	}
	return buf
}

func exact(w, h int) Config {
	return Config{
		SameColorA:  0,
		SameColorB:  1,
		GoodMaxArea: w * h,
	}
}

func TestTwoColors(t *testing.T) {
	buf := fill(3, 2, blue)
	buf.Set(0, 0, red)
	buf.Set(0, 1, red)

	cs := NewRunner(exact(3, 2), buf).Run()
	require.Equal(t, []int{0, 1}, cs.Output)
	assert.Equal(t, red, cs.Cluster(0).Color())
	assert.Equal(t, 2, cs.Cluster(0).Size())
	assert.Equal(t, blue, cs.Cluster(1).Color())
	assert.Equal(t, 4, cs.Cluster(1).Size())
	assert.Equal(t, 1, cs.Label(2, 1))
}

func TestSpeckleIsMerged(t *testing.T) {
	buf := fill(5, 5, red)
	buf.Set(2, 2, green)
	cfg := exact(5, 5)
	cfg.GoodMinArea = 2

	cs := NewRunner(cfg, buf).Run()
	require.Equal(t, []int{0}, cs.Output)
	assert.Equal(t, 25, cs.Cluster(0).Size())
	img := cs.ToColorImage()
	assert.Equal(t, red, img.At(2, 2))
}

func TestKeyingAction(t *testing.T) {
	buf := fill(3, 3, red)
	for x := 0; x < 3; x++ {
		buf.Set(x, 0, vttypes.Color{G: 255})
	}
	cfg := exact(3, 3)
	cfg.KeyColor = green

	cfg.KeyingAction = Discard
	cs := NewRunner(cfg, buf).Run()
	assert.Equal(t, []int{1}, cs.Output)
	assert.True(t, cs.Cluster(0).Key)

	cfg.KeyingAction = Keep
	cs = NewRunner(cfg, buf).Run()
	assert.Equal(t, []int{0, 1}, cs.Output)
}

func TestKeyPixelsNeverJoinOthers(t *testing.T) {
	buf := fill(2, 1, vttypes.RGB(0, 254, 0))
	buf.Set(0, 0, green)
	cfg := exact(2, 1)
	cfg.SameColorA = 4
	cfg.KeyColor = green

	cs := NewRunner(cfg, buf).Run()
	assert.Equal(t, 2, cs.Len())
}

func TestDiagonal(t *testing.T) {
	buf := fill(2, 2, white)
	buf.Set(0, 0, black)
	buf.Set(1, 1, black)

	cfg := exact(2, 2)
	assert.Equal(t, 4, NewRunner(cfg, buf).Run().Len())

	cfg.Diagonal = true
	assert.Equal(t, 2, NewRunner(cfg, buf).Run().Len())
}

func TestDeepenMergesCloseColors(t *testing.T) {
	buf := fill(4, 1, vttypes.RGB(110, 100, 100))
	buf.Set(0, 0, vttypes.RGB(100, 100, 100))
	buf.Set(1, 0, vttypes.RGB(100, 100, 100))
	cfg := exact(4, 1)
	cfg.Hierarchical = HierarchicalMax
	cfg.DeepenDiff = 16

	cs := NewRunner(cfg, buf).Run()
	require.Equal(t, []int{1}, cs.Output)
	assert.Equal(t, 4, cs.Cluster(1).Size())
	assert.Equal(t, vttypes.RGB(110, 100, 100), cs.Cluster(1).Color())

	cfg.DeepenDiff = 5
	cs = NewRunner(cfg, buf).Run()
	assert.Len(t, cs.Output, 2)
}

func TestColorPrecisionLoss(t *testing.T) {
	buf := fill(2, 1, vttypes.RGB(200, 200, 200))
	buf.Set(1, 0, vttypes.RGB(203, 201, 202))
	cfg := exact(2, 1)
	assert.Len(t, NewRunner(cfg, buf).Run().Output, 2)

	cfg.SameColorA = 2
	cs := NewRunner(cfg, buf).Run()
	require.Len(t, cs.Output, 1)
	assert.Equal(t, vttypes.RGB(201, 200, 201), cs.Cluster(0).Color())
}

func TestAreaBounds(t *testing.T) {
	buf := fill(3, 1, red)
	cfg := exact(3, 1)
	cfg.GoodMaxArea = 2
	assert.Empty(t, NewRunner(cfg, buf).Run().Output)

	cfg = exact(3, 1)
	cfg.GoodMinArea = 4
	assert.Empty(t, NewRunner(cfg, buf).Run().Output)
}

func patterned(w, h int) *vttypes.PixelBuffer {
	palette := []vttypes.Color{red, green, blue, white, vttypes.RGB(250, 5, 3)}
	buf := vttypes.NewPixelBuffer(w, h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			buf.Set(x, y, palette[(x/3*7+y/2*13+x*y%3)%len(palette)])
		}
	}
	return buf
}

func TestTickedMatchesRun(t *testing.T) {
	buf := patterned(17, 13)
	cfg := exact(17, 13)
	cfg.GoodMinArea = 3
	cfg.DeepenDiff = 20
	cfg.SameColorA = 2
	cfg.Hierarchical = HierarchicalMax

	want := NewRunner(cfg, buf).Run()

	cfg.BatchSize = 7
	b := NewRunner(cfg, buf).Start()
	ticks, last := 0, 0
	for !b.Tick() {
		ticks++
		p := b.Progress()
		assert.GreaterOrEqual(t, p, last)
		assert.LessOrEqual(t, p, 100)
		last = p
		assert.Nil(t, b.Result())
	}
	assert.Equal(t, 100, b.Progress())
	assert.Greater(t, ticks, 10)

	got := b.Result()
	assert.Equal(t, want.Output, got.Output)
	assert.Equal(t, want.ToColorImage().Pixels, got.ToColorImage().Pixels)
	for _, id := range want.Output {
		assert.Equal(t, want.Cluster(id).Pixels, got.Cluster(id).Pixels)
	}
}

func TestEmptyImage(t *testing.T) {
	b := NewRunner(exact(0, 0), vttypes.NewPixelBuffer(0, 0)).Start()
	assert.True(t, b.Tick())
	assert.Equal(t, 100, b.Progress())
	assert.Empty(t, b.Result().Output)
}

func TestBinary(t *testing.T) {
	buf := fill(5, 3, white)
	buf.Set(0, 0, black)
	buf.Set(1, 0, black)
	buf.Set(4, 2, vttypes.RGB(100, 255, 255))

	cs := Binary(buf, Threshold128)
	require.Equal(t, []int{0, 1}, cs.Output)
	assert.Equal(t, 2, cs.Cluster(0).Size())
	assert.Equal(t, 1, cs.Cluster(1).Size())
	assert.Equal(t, black, cs.Cluster(1).Color())
	assert.Equal(t, -1, cs.Label(2, 1))
}

func TestClusterMask(t *testing.T) {
	buf := fill(4, 4, white)
	buf.Set(1, 1, black)
	buf.Set(2, 1, black)
	buf.Set(2, 2, black)

	cs := Binary(buf, Threshold128)
	c := cs.Cluster(0)
	mask := c.Mask()
	assert.Equal(t, c.Rect, mask.Bounds())
	assert.Equal(t, 1, mask.Bounds().Min.X)
	assert.Equal(t, uint8(0), mask.GrayAt(2, 2).Y)
	assert.Equal(t, uint8(0xff), mask.GrayAt(1, 2).Y)
}

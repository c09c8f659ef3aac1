package keying

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	vttypes "vectrace/type"
)

type fixedSource struct {
	bytes []uint8
	i     int
}

func (s *fixedSource) Uint8() uint8 {
	b := s.bytes[s.i%len(s.bytes)]
	s.i++
	return b
}

func opaque(w, h int, c vttypes.Color) *vttypes.PixelBuffer {
	buf := vttypes.NewPixelBuffer(w, h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			buf.Set(x, y, c)
		}
	}
	return buf
}

func TestShouldKeyZeroArea(t *testing.T) {
	assert.False(t, ShouldKey(vttypes.NewPixelBuffer(0, 10)))
	assert.False(t, ShouldKey(vttypes.NewPixelBuffer(10, 0)))
	assert.False(t, ShouldKey(vttypes.NewPixelBuffer(0, 0)))
}

func TestShouldKeyOpaqueAndTransparent(t *testing.T) {
	assert.False(t, ShouldKey(opaque(8, 8, vttypes.RGB(10, 20, 30))))
	assert.True(t, ShouldKey(vttypes.NewPixelBuffer(8, 8)))
}

func TestShouldKeyBoundary(t *testing.T) {
	// 宽 10: 阈值为 ceil(0.2 * 2 * 10) = 4 个透明像素
	// 高 5 时采样行为 0..4
	assert.Equal(t, 4, threshold(10))
	assert.Equal(t, 3, threshold(7))

	below := opaque(10, 5, vttypes.RGB(1, 2, 3))
	below.Set(0, 0, vttypes.Color{})
	below.Set(9, 2, vttypes.Color{})
	below.Set(5, 4, vttypes.Color{})
	assert.False(t, ShouldKey(below))

	at := below.Clone()
	at.Set(3, 3, vttypes.Color{})
	assert.True(t, ShouldKey(at))
}

func TestShouldKeyIgnoresUnsampledRows(t *testing.T) {
	// 高 9 时采样 0, 2, 4, 6, 8 行
	buf := opaque(4, 9, vttypes.RGB(1, 1, 1))
	for x := 0; x < 4; x++ {
		buf.Set(x, 1, vttypes.Color{})
		buf.Set(x, 3, vttypes.Color{})
	}
	assert.False(t, ShouldKey(buf))
	buf.Set(0, 8, vttypes.Color{})
	buf.Set(1, 8, vttypes.Color{})
	assert.True(t, ShouldKey(buf))
}

func TestFindUnusedColorCanonical(t *testing.T) {
	buf := opaque(2, 2, vttypes.RGB(255, 0, 0))
	c, err := FindUnusedColor(buf, nil)
	require.NoError(t, err)
	assert.Equal(t, vttypes.RGB(0, 255, 0), c)
	assert.False(t, Contains(buf, c))
}

func canonicalImage() *vttypes.PixelBuffer {
	buf := vttypes.NewPixelBuffer(len(canonical), 1)
	for i, c := range canonical {
		buf.Set(i, 0, c)
	}
	return buf
}

func TestFindUnusedColorFallsThroughToRandom(t *testing.T) {
	buf := canonicalImage()
	src := &fixedSource{bytes: []uint8{12, 34, 56}}
	c, err := FindUnusedColor(buf, src)
	require.NoError(t, err)
	assert.Equal(t, vttypes.RGB(12, 34, 56), c)
	assert.False(t, Contains(buf, c))
}

func TestFindUnusedColorSkipsCollidingRandom(t *testing.T) {
	buf := canonicalImage()
	// 第一次随机抽到红色, 第二次可用
	src := &fixedSource{bytes: []uint8{255, 0, 0, 7, 8, 9}}
	c, err := FindUnusedColor(buf, src)
	require.NoError(t, err)
	assert.Equal(t, vttypes.RGB(7, 8, 9), c)
}

func TestFindUnusedColorExhausted(t *testing.T) {
	buf := canonicalImage()
	src := &fixedSource{bytes: []uint8{255, 0, 0}}
	_, err := FindUnusedColor(buf, src)
	assert.ErrorIs(t, err, ErrNoUnusedColor)
	assert.Equal(t, RandomCandidates*3, src.i)
}

func TestFindUnusedColorIgnoresAlpha(t *testing.T) {
	buf := vttypes.NewPixelBuffer(1, 1)
	buf.Set(0, 0, vttypes.Color{R: 255, A: 0})
	c, err := FindUnusedColor(buf, nil)
	require.NoError(t, err)
	assert.Equal(t, vttypes.RGB(0, 255, 0), c)
}

func TestApplyIsIdempotent(t *testing.T) {
	buf := opaque(3, 1, vttypes.RGB(9, 9, 9))
	buf.Set(1, 0, vttypes.Color{R: 4, G: 5, B: 6, A: 0})
	key := vttypes.RGB(0, 0, 255)

	Apply(buf, key)
	assert.Equal(t, vttypes.Color{R: 0, G: 0, B: 255, A: 0}, buf.At(1, 0))
	assert.Equal(t, vttypes.RGB(9, 9, 9), buf.At(0, 0))

	once := buf.Clone()
	Apply(buf, key)
	assert.Equal(t, once.Pixels, buf.Pixels)
}

func TestKey(t *testing.T) {
	buf := vttypes.NewPixelBuffer(4, 4)
	buf.Set(0, 0, vttypes.RGB(255, 0, 0))
	key, err := Key(buf, NewRandomSource(1))
	require.NoError(t, err)
	assert.Equal(t, vttypes.RGB(0, 255, 0), key)
	assert.Equal(t, uint8(255), buf.At(1, 1).G)

	solid := opaque(4, 4, vttypes.RGB(1, 1, 1))
	key, err = Key(solid, nil)
	require.NoError(t, err)
	assert.True(t, key.IsZero())
}

package binding

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vectrace/config"
	"vectrace/image2rgba"
	"vectrace/path2svg"
)

func str(s string) *string { return &s }
func num(n int) *int       { return &n }

func blackPixels(n int) [][4]uint8 {
	px := make([][4]uint8, n)
	for i := range px {
		px[i] = [4]uint8{0, 0, 0, 255}
	}
	return px
}

func TestConvertPixelsBinary(t *testing.T) {
	doc, err := ConvertPixels(blackPixels(4), 2, 2, Options{ColorMode: str("bw"), FilterSpeckle: num(1)})
	require.NoError(t, err)

	info, err := path2svg.Inspect(doc)
	require.NoError(t, err)
	assert.Equal(t, 2, info.Width)
	assert.Equal(t, 2, info.Height)
	require.NotEmpty(t, info.Paths)
	assert.Equal(t, "#000000", info.Paths[0].Fill)
}

func TestConvertPixelsSpeckleAboveRegion(t *testing.T) {
	doc, err := ConvertPixels(blackPixels(4), 2, 2, Options{ColorMode: str("bw"), FilterSpeckle: num(3)})
	require.NoError(t, err)

	info, err := path2svg.Inspect(doc)
	require.NoError(t, err)
	assert.Equal(t, 2, info.Width)
	assert.Empty(t, info.Paths)
	assert.NotContains(t, doc, "<path")
}

func TestConvertPixelsErrors(t *testing.T) {
	_, err := ConvertPixels(blackPixels(3), 2, 2, Options{})
	assert.ErrorIs(t, err, image2rgba.ErrPixelCount)

	_, err = ConvertPixels(blackPixels(4), 2, 2, Options{FilterSpeckle: num(17)})
	require.Error(t, err)
	assert.True(t, config.IsValidationError(err))
	assert.Contains(t, err.Error(), "17")

	_, err = ConvertPixels(blackPixels(4), 2, 2, Options{Mode: str("bezier")})
	assert.True(t, config.IsValidationError(err))
}

func pngBytes(t *testing.T) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, 8, 6))
	for y := 0; y < 6; y++ {
		for x := 0; x < 8; x++ {
			c := color.NRGBA{R: 250, G: 250, B: 250, A: 255}
			if x >= 2 && x < 6 && y >= 1 && y < 5 {
				c = color.NRGBA{R: 20, G: 40, B: 200, A: 255}
			}
			img.SetNRGBA(x, y, c)
		}
	}
	var b bytes.Buffer
	require.NoError(t, png.Encode(&b, img))
	return b.Bytes()
}

func TestConvertBytes(t *testing.T) {
	for _, format := range []string{"", "png"} {
		doc, err := ConvertBytes(pngBytes(t), format, Options{Preset: str("poster"), Mode: str("polygon"), FilterSpeckle: num(1)})
		require.NoError(t, err)

		info, err := path2svg.Inspect(doc)
		require.NoError(t, err)
		assert.Equal(t, 8, info.Width)
		assert.Equal(t, 6, info.Height)
		require.Len(t, info.Paths, 2)
		assert.Equal(t, "#fafafa", info.Paths[0].Fill)
		assert.Equal(t, "#1428c8", info.Paths[1].Fill)
		assert.Equal(t, "translate(2,1)", info.Paths[1].Transform)
	}

	_, err := ConvertBytes(pngBytes(t), "heic", Options{})
	assert.ErrorIs(t, err, image2rgba.ErrUnsupportedFormat)
}

func TestConvertFile(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "in.png")
	out := filepath.Join(dir, "out.svg")
	require.NoError(t, os.WriteFile(in, pngBytes(t), 0o644))

	require.NoError(t, ConvertFile(in, out, Options{Preset: str("photo")}))

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "<?xml"))
	info, err := path2svg.Inspect(string(data))
	require.NoError(t, err)
	assert.Equal(t, 8, info.Width)
}

func TestConvertFileLeavesNoOutputOnFailure(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "out.svg")

	err := ConvertFile(filepath.Join(dir, "missing.png"), out, Options{})
	assert.Error(t, err)
	_, statErr := os.Stat(out)
	assert.ErrorIs(t, statErr, os.ErrNotExist)

	err = ConvertFile(filepath.Join(dir, "missing.png"), out, Options{ColorPrecision: num(0)})
	assert.True(t, config.IsValidationError(err))
}

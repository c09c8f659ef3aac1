package main

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vectrace/config"
	"vectrace/path2svg"
)

func writePNG(t *testing.T, dir string) string {
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
	path := filepath.Join(dir, "in.png")
	require.NoError(t, os.WriteFile(path, b.Bytes(), 0o644))
	return path
}

func run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	cmd := newRootCmd()
	cmd.SetArgs(append([]string{"--env", filepath.Join(t.TempDir(), "missing.env")}, args...))
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func TestConvertCommand(t *testing.T) {
	dir := t.TempDir()
	in := writePNG(t, dir)
	out := filepath.Join(dir, "out.svg")

	stdout, _, err := run(t, "-i", in, "-o", out, "--preset", "poster", "--mode", "polygon", "--filter_speckle", "1")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Conversion successful.")
	assert.Contains(t, stdout, "8x6, 2 paths")

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	info, err := path2svg.Inspect(string(data))
	require.NoError(t, err)
	require.Len(t, info.Paths, 2)
	assert.Equal(t, "#1428c8", info.Paths[1].Fill)
}

func TestConvertCommandWithProgress(t *testing.T) {
	dir := t.TempDir()
	in := writePNG(t, dir)
	out := filepath.Join(dir, "out.svg")

	stdout, stderr, err := run(t, "-i", in, "-o", out, "--progress", "--hierarchical", "cutout")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Conversion successful.")
	assert.Contains(t, stderr, "Converting")
	assert.FileExists(t, out)
}

func TestConvertCommandRejectsBeforeWork(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "out.svg")

	// 输入文件不存在, 但参数错误应先报出
	_, _, err := run(t, "-i", filepath.Join(dir, "missing.png"), "-o", out, "--filter_speckle", "17")
	require.Error(t, err)
	assert.True(t, config.IsValidationError(err))
	assert.Contains(t, err.Error(), "Filter speckle")
	assert.NoFileExists(t, out)

	_, _, err = run(t, "-i", filepath.Join(dir, "missing.png"), "-o", out)
	require.Error(t, err)
	assert.NoFileExists(t, out)

	_, _, err = run(t, "-o", out)
	assert.EqualError(t, err, "--input and --output are required")
}

func TestFlagsOverrideConfigFile(t *testing.T) {
	dir := t.TempDir()
	cfgFile := filepath.Join(dir, "vectrace.yaml")
	require.NoError(t, os.WriteFile(cfgFile, []byte("preset: photo\nfilter_speckle: 2\ncolor_precision: 5\n"), 0o644))

	cmd := newRootCmd()
	require.NoError(t, cmd.ParseFlags([]string{"--color_precision", "7", "--segment_length", "5.5", "--path_precision", "2"}))

	o, err := collectOverrides(cmd, cfgFile)
	require.NoError(t, err)
	cfg, err := o.Build()
	require.NoError(t, err)

	assert.Equal(t, 2, cfg.FilterSpeckle)
	assert.Equal(t, 7, cfg.ColorPrecision)
	assert.Equal(t, 48, cfg.LayerDifference)
	assert.Equal(t, 180, cfg.CornerThreshold)
	assert.Equal(t, 5.5, cfg.LengthThreshold)
	require.NotNil(t, cfg.PathPrecision)
	assert.Equal(t, uint(2), *cfg.PathPrecision)
}

func TestUnchangedFlagsKeepDefaults(t *testing.T) {
	cmd := newRootCmd()
	require.NoError(t, cmd.ParseFlags(nil))

	o, err := collectOverrides(cmd, "")
	require.NoError(t, err)
	cfg, err := o.Build()
	require.NoError(t, err)
	assert.Equal(t, config.Default(), cfg)
}

func TestConfigFileMissing(t *testing.T) {
	cmd := newRootCmd()
	_, err := collectOverrides(cmd, filepath.Join(t.TempDir(), "none.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

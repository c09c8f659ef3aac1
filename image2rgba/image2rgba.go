package image2rgba

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"strings"

	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
	"golang.org/x/image/webp"

	vttypes "vectrace/type"
)

var (
	// ErrUnsupportedFormat 无法识别或不支持的图像格式
	ErrUnsupportedFormat = errors.New("unsupported image format")
	// ErrPixelCount 像素数量与宽高不符
	ErrPixelCount = errors.New("pixel count does not match width * height")
)

var decoders = map[string]func(io.Reader) (image.Image, error){
	"png":  png.Decode,
	"jpeg": jpeg.Decode,
	"gif":  gif.Decode,
	"bmp":  bmp.Decode,
	"tiff": tiff.Decode,
	"webp": webp.Decode,
}

// NormalizeFormat 统一格式名, 例如 jpg -> jpeg
func NormalizeFormat(format string) string {
	f := strings.TrimPrefix(strings.ToLower(strings.TrimSpace(format)), ".")
	switch f {
	case "jpg":
		return "jpeg"
	case "tif":
		return "tiff"
	}
	return f
}

// DecodeBytes 解码内存中的图像. format 为空时根据内容识别格式
func DecodeBytes(data []byte, format string) (*vttypes.PixelBuffer, error) {
	var (
		img image.Image
		err error
	)
	if format == "" {
		img, _, err = image.Decode(bytes.NewReader(data))
		if errors.Is(err, image.ErrFormat) {
			return nil, fmt.Errorf("%w: cannot detect format", ErrUnsupportedFormat)
		}
	} else {
		decode, ok := decoders[NormalizeFormat(format)]
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
		}
		img, err = decode(bytes.NewReader(data))
	}
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}
	return vttypes.FromImage(img), nil
}

// DecodeFile 读取并解码图像文件. Go 无法识别的格式交给 ffmpeg 转码
func DecodeFile(ctx context.Context, path string) (*vttypes.PixelBuffer, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read input: %w", err)
	}
	buf, err := DecodeBytes(data, "")
	if !errors.Is(err, ErrUnsupportedFormat) {
		return buf, err
	}

	img, ffErr := decodeWithFFmpeg(ctx, path)
	if ffErr != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrUnsupportedFormat, path, ffErr)
	}
	return vttypes.FromImage(img), nil
}

// FromPixels 由扁平 RGBA 像素列表构造缓冲区
func FromPixels(pixels [][4]uint8, width, height int) (*vttypes.PixelBuffer, error) {
	if width < 0 || height < 0 {
		return nil, fmt.Errorf("invalid size %dx%d", width, height)
	}
	if len(pixels) != width*height {
		return nil, fmt.Errorf("%w: got %d pixels for %dx%d", ErrPixelCount, len(pixels), width, height)
	}
	buf := vttypes.NewPixelBuffer(width, height)
	for i, p := range pixels {
		copy(buf.Pixels[i*4:i*4+4], p[:])
	}
	return buf, nil
}

package image2rgba

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"image/png"
	"strings"

	ffmpeg "github.com/u2takey/ffmpeg-go"
)

// imageProbe 只关心图像流
type imageProbe struct {
	Streams []struct {
		CodecType string `json:"codec_type"`
		Width     int    `json:"width"`
		Height    int    `json:"height"`
	} `json:"streams"`
}

// probeSize 用 ffprobe 读取第一个视频流的尺寸
func probeSize(path string) (int, int, error) {
	probeStr, err := ffmpeg.Probe(path)
	if err != nil {
		return 0, 0, fmt.Errorf("ffprobe error: %w", err)
	}

	var probe imageProbe
	if err := json.Unmarshal([]byte(probeStr), &probe); err != nil {
		return 0, 0, fmt.Errorf("json unmarshal error: %w", err)
	}
	for _, stream := range probe.Streams {
		if stream.CodecType == "video" && stream.Width > 0 && stream.Height > 0 {
			return stream.Width, stream.Height, nil
		}
	}
	return 0, 0, errors.New("no image stream found")
}

// decodeWithFFmpeg 把第一帧转成 PNG 后解码
func decodeWithFFmpeg(ctx context.Context, path string) (image.Image, error) {
	w, h, err := probeSize(path)
	if err != nil {
		return nil, err
	}

	var out, stderr bytes.Buffer
	cmd := ffmpeg.Input(path).
		Output("pipe:1", ffmpeg.KwArgs{
			"format":   "image2pipe",
			"vcodec":   "png",
			"frames:v": "1",
		}).
		WithOutput(&out).
		WithErrorOutput(&stderr)
	cmd.Context = ctx

	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("ffmpeg: %w: %s", err, strings.TrimSpace(stderr.String()))
	}

	img, err := png.Decode(&out)
	if err != nil {
		return nil, fmt.Errorf("decode ffmpeg output: %w", err)
	}
	if b := img.Bounds(); b.Dx() != w || b.Dy() != h {
		return nil, fmt.Errorf("ffmpeg output is %dx%d, probe reported %dx%d", b.Dx(), b.Dy(), w, h)
	}
	return img, nil
}

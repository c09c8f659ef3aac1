// Package binding 供嵌入调用的入口: 按文件路径, 编码后的字节或扁平 RGBA 像素列表转换图像.
// 所有入口与命令行使用同一组可选参数, 在处理像素之前完成校验.
package binding

import (
	"context"

	"vectrace/config"
	"vectrace/image2rgba"
	"vectrace/path2svg"
	"vectrace/pipeline"
	vttypes "vectrace/type"
)

// Options 可选的转换参数, 未设置的字段取默认值或预设值
type Options = config.Overrides

// ConvertFile 转换 in 指向的图像并把 SVG 写入 out, 文档完整生成后才创建 out
func ConvertFile(in, out string, opts Options) error {
	cfg, err := opts.Build()
	if err != nil {
		return err
	}
	buf, err := image2rgba.DecodeFile(context.Background(), in)
	if err != nil {
		return err
	}
	result, err := pipeline.Convert(buf, cfg)
	if err != nil {
		return err
	}
	return path2svg.WriteFile(out, result)
}

// ConvertBytes 转换编码后的图像并返回 SVG 文本, format 为空时按内容识别格式
func ConvertBytes(data []byte, format string, opts Options) (string, error) {
	cfg, err := opts.Build()
	if err != nil {
		return "", err
	}
	buf, err := image2rgba.DecodeBytes(data, format)
	if err != nil {
		return "", err
	}
	return convert(buf, cfg)
}

// ConvertPixels 转换按行排列的 width*height 个 RGBA 像素, 返回 SVG 文本
func ConvertPixels(pixels [][4]uint8, width, height int, opts Options) (string, error) {
	cfg, err := opts.Build()
	if err != nil {
		return "", err
	}
	buf, err := image2rgba.FromPixels(pixels, width, height)
	if err != nil {
		return "", err
	}
	return convert(buf, cfg)
}

func convert(buf *vttypes.PixelBuffer, cfg config.UserConfig) (string, error) {
	result, err := pipeline.Convert(buf, cfg)
	if err != nil {
		return "", err
	}
	return path2svg.RenderString(result), nil
}

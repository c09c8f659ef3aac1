// Package config 面向用户的转换参数, 预设, 参数校验以及到内部单位的换算
package config

import (
	"fmt"
	"strings"

	"vectrace/mask2path"
)

// ColorMode 彩色聚类或阈值二值化
type ColorMode int

const (
	ColorModeColor ColorMode = iota
	ColorModeBinary
)

func (m ColorMode) String() string {
	switch m {
	case ColorModeColor:
		return "color"
	case ColorModeBinary:
		return "binary"
	default:
		return fmt.Sprintf("ColorMode(%d)", int(m))
	}
}

// Hierarchical 颜色层之间的关系, 仅用于彩色模式
type Hierarchical int

const (
	// Stacked 各层相互叠加
	Stacked Hierarchical = iota
	// Cutout 对合并结果再次聚类, 各层不重叠
	Cutout
)

func (h Hierarchical) String() string {
	switch h {
	case Stacked:
		return "stacked"
	case Cutout:
		return "cutout"
	default:
		return fmt.Sprintf("Hierarchical(%d)", int(h))
	}
}

// Preset 命名的参数组合
type Preset int

const (
	PresetBW Preset = iota
	PresetPoster
	PresetPhoto
)

func (p Preset) String() string {
	switch p {
	case PresetBW:
		return "bw"
	case PresetPoster:
		return "poster"
	case PresetPhoto:
		return "photo"
	default:
		return fmt.Sprintf("Preset(%d)", int(p))
	}
}

// UserConfig 用户单位下的配置: 像素, 位数, 角度
type UserConfig struct {
	ColorMode       ColorMode
	Hierarchical    Hierarchical
	Mode            mask2path.Mode
	FilterSpeckle   int     // [0,16] 像素
	ColorPrecision  int     // [1,8] 每通道有效位数
	LayerDifference int     // [0,255] 渐变步长
	CornerThreshold int     // [0,180] 度
	LengthThreshold float64 // [3.5,10]
	MaxIterations   int
	SpliceThreshold int   // [0,180] 度
	PathPrecision   *uint // nil 保留全部精度
}

// Uint 返回 v 的指针, 用于 PathPrecision 字面量
func Uint(v uint) *uint {
	return &v
}

// Default 未指定任何参数时的配置
func Default() UserConfig {
	return UserConfig{
		ColorMode:       ColorModeColor,
		Hierarchical:    Stacked,
		Mode:            mask2path.ModeSpline,
		FilterSpeckle:   4,
		ColorPrecision:  6,
		LayerDifference: 16,
		CornerThreshold: 60,
		LengthThreshold: 4.0,
		MaxIterations:   10,
		SpliceThreshold: 45,
		PathPrecision:   Uint(8),
	}
}

// FromPreset 预设 p 对应的完整配置
func FromPreset(p Preset) UserConfig {
	c := Default()
	switch p {
	case PresetBW:
		c.ColorMode = ColorModeBinary
	case PresetPoster:
		c.ColorPrecision = 8
	case PresetPhoto:
		c.FilterSpeckle = 10
		c.ColorPrecision = 8
		c.LayerDifference = 48
		c.CornerThreshold = 180
	}
	return c
}

// ParsePreset 解析 "bw", "poster" 或 "photo"
func ParsePreset(s string) (Preset, error) {
	switch strings.TrimSpace(s) {
	case "bw":
		return PresetBW, nil
	case "poster":
		return PresetPoster, nil
	case "photo":
		return PresetPhoto, nil
	}
	return 0, &ValidationError{Field: FieldPreset, Value: s, Reason: "must be one of bw, poster, photo"}
}

// ParseColorMode 接受 "color", 以及表示二值模式的 "bw"/"BW"/"binary"
func ParseColorMode(s string) (ColorMode, error) {
	switch strings.TrimSpace(s) {
	case "color":
		return ColorModeColor, nil
	case "bw", "BW", "binary":
		return ColorModeBinary, nil
	}
	return 0, &ValidationError{Field: FieldColorMode, Value: s, Reason: "must be color or bw"}
}

// ParseHierarchical 解析 "stacked" 或 "cutout"
func ParseHierarchical(s string) (Hierarchical, error) {
	switch strings.TrimSpace(s) {
	case "stacked":
		return Stacked, nil
	case "cutout":
		return Cutout, nil
	}
	return 0, &ValidationError{Field: FieldHierarchical, Value: s, Reason: "must be stacked or cutout"}
}

// ParseMode 解析曲线拟合模式, "pixel" 与 "none" 等价
func ParseMode(s string) (mask2path.Mode, error) {
	switch strings.TrimSpace(s) {
	case "pixel", "none":
		return mask2path.ModeNone, nil
	case "polygon":
		return mask2path.ModePolygon, nil
	case "spline":
		return mask2path.ModeSpline, nil
	}
	return 0, &ValidationError{Field: FieldMode, Value: s, Reason: "must be one of pixel, polygon, spline"}
}

package interactive

import (
	"encoding/json"
	"fmt"

	"vectrace/config"
)

// Params 前端传入的转换参数, 数值为用户单位(像素, 位数, 角度)
type Params struct {
	CanvasID        string  `json:"canvas_id"`
	SvgID           string  `json:"svg_id"`
	ClusteringMode  string  `json:"clustering_mode"` // color 或 binary
	Hierarchical    string  `json:"hierarchical"`    // stacked 或 cutout
	Mode            string  `json:"mode"`            // pixel, polygon 或 spline
	FilterSpeckle   int     `json:"filter_speckle"`
	ColorPrecision  int     `json:"color_precision"`
	LayerDifference int     `json:"layer_difference"`
	CornerThreshold int     `json:"corner_threshold"`
	LengthThreshold float64 `json:"length_threshold"`
	SpliceThreshold int     `json:"splice_threshold"`
	MaxIterations   int     `json:"max_iterations"`
	PathPrecision   *uint   `json:"path_precision"`
}

// DefaultParams 与命令行默认值一致
func DefaultParams() Params {
	c := config.Default()
	return Params{
		ClusteringMode:  "color",
		Hierarchical:    c.Hierarchical.String(),
		Mode:            c.Mode.String(),
		FilterSpeckle:   c.FilterSpeckle,
		ColorPrecision:  c.ColorPrecision,
		LayerDifference: c.LayerDifference,
		CornerThreshold: c.CornerThreshold,
		LengthThreshold: c.LengthThreshold,
		SpliceThreshold: c.SpliceThreshold,
		MaxIterations:   c.MaxIterations,
		PathPrecision:   c.PathPrecision,
	}
}

// ParseParams 解析 JSON, 缺省字段取默认值
func ParseParams(data []byte) (Params, error) {
	p := DefaultParams()
	if err := json.Unmarshal(data, &p); err != nil {
		return Params{}, fmt.Errorf("parse params: %w", err)
	}
	return p, nil
}

// UserConfig 转换并校验参数
func (p Params) UserConfig() (config.UserConfig, error) {
	colorMode, err := config.ParseColorMode(p.ClusteringMode)
	if err != nil {
		return config.UserConfig{}, err
	}
	hierarchical, err := config.ParseHierarchical(p.Hierarchical)
	if err != nil {
		return config.UserConfig{}, err
	}
	mode, err := config.ParseMode(p.Mode)
	if err != nil {
		return config.UserConfig{}, err
	}
	c := config.UserConfig{
		ColorMode:       colorMode,
		Hierarchical:    hierarchical,
		Mode:            mode,
		FilterSpeckle:   p.FilterSpeckle,
		ColorPrecision:  p.ColorPrecision,
		LayerDifference: p.LayerDifference,
		CornerThreshold: p.CornerThreshold,
		LengthThreshold: p.LengthThreshold,
		MaxIterations:   p.MaxIterations,
		SpliceThreshold: p.SpliceThreshold,
		PathPrecision:   p.PathPrecision,
	}
	if err := c.Validate(); err != nil {
		return config.UserConfig{}, err
	}
	return c, nil
}

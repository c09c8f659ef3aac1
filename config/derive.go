package config

import (
	"math"

	"vectrace/mask2path"
)

// Params 内部单位下的转换参数
type Params struct {
	ColorMode          ColorMode
	Hierarchical       Hierarchical
	Mode               mask2path.Mode
	FilterSpeckleArea  int // 像素²
	ColorPrecisionLoss int // 每通道舍弃的位数
	LayerDifference    int
	CornerThreshold    float64 // 弧度
	LengthThreshold    float64
	MaxIterations      int
	SpliceThreshold    float64 // 弧度
	PathPrecision      *uint
}

// Derive 把校验过的 UserConfig 换算为内部单位, 无副作用
func Derive(c UserConfig) Params {
	var precision *uint
	if c.PathPrecision != nil {
		precision = Uint(*c.PathPrecision)
	}
	return Params{
		ColorMode:          c.ColorMode,
		Hierarchical:       c.Hierarchical,
		Mode:               c.Mode,
		FilterSpeckleArea:  c.FilterSpeckle * c.FilterSpeckle,
		ColorPrecisionLoss: 8 - c.ColorPrecision,
		LayerDifference:    c.LayerDifference,
		CornerThreshold:    DegToRad(c.CornerThreshold),
		LengthThreshold:    c.LengthThreshold,
		MaxIterations:      c.MaxIterations,
		SpliceThreshold:    DegToRad(c.SpliceThreshold),
		PathPrecision:      precision,
	}
}

// DegToRad 角度转弧度
func DegToRad(deg int) float64 {
	return float64(deg) / 180 * math.Pi
}

// PathOptions mask2path 的拟合参数
func (p Params) PathOptions() mask2path.Options {
	return mask2path.Options{
		Mode:            p.Mode,
		CornerThreshold: p.CornerThreshold,
		LengthThreshold: p.LengthThreshold,
		MaxIterations:   p.MaxIterations,
		SpliceThreshold: p.SpliceThreshold,
	}
}

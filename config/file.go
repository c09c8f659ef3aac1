package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Overrides 稀疏的参数集合, nil 字段不覆盖原值.
// YAML 文件, 命令行参数和嵌入入口使用同一组名称.
type Overrides struct {
	Preset          *string  `yaml:"preset"`
	ColorMode       *string  `yaml:"colormode"`
	Hierarchical    *string  `yaml:"hierarchical"`
	Mode            *string  `yaml:"mode"`
	FilterSpeckle   *int     `yaml:"filter_speckle"`
	ColorPrecision  *int     `yaml:"color_precision"`
	GradientStep    *int     `yaml:"gradient_step"`
	CornerThreshold *int     `yaml:"corner_threshold"`
	SegmentLength   *float64 `yaml:"segment_length"`
	SpliceThreshold *int     `yaml:"splice_threshold"`
	MaxIterations   *int     `yaml:"max_iterations"`
	PathPrecision   *uint    `yaml:"path_precision"`
}

// Merge later 中已设置的字段覆盖 o
func (o Overrides) Merge(later Overrides) Overrides {
	if later.Preset != nil {
		o.Preset = later.Preset
	}
	if later.ColorMode != nil {
		o.ColorMode = later.ColorMode
	}
	if later.Hierarchical != nil {
		o.Hierarchical = later.Hierarchical
	}
	if later.Mode != nil {
		o.Mode = later.Mode
	}
	if later.FilterSpeckle != nil {
		o.FilterSpeckle = later.FilterSpeckle
	}
	if later.ColorPrecision != nil {
		o.ColorPrecision = later.ColorPrecision
	}
	if later.GradientStep != nil {
		o.GradientStep = later.GradientStep
	}
	if later.CornerThreshold != nil {
		o.CornerThreshold = later.CornerThreshold
	}
	if later.SegmentLength != nil {
		o.SegmentLength = later.SegmentLength
	}
	if later.SpliceThreshold != nil {
		o.SpliceThreshold = later.SpliceThreshold
	}
	if later.MaxIterations != nil {
		o.MaxIterations = later.MaxIterations
	}
	if later.PathPrecision != nil {
		o.PathPrecision = later.PathPrecision
	}
	return o
}

// Build 先取预设 (或默认值), 再应用显式字段, 返回校验后的 UserConfig
func (o Overrides) Build() (UserConfig, error) {
	c := Default()
	if o.Preset != nil {
		p, err := ParsePreset(*o.Preset)
		if err != nil {
			return UserConfig{}, err
		}
		c = FromPreset(p)
	}
	if o.ColorMode != nil {
		m, err := ParseColorMode(*o.ColorMode)
		if err != nil {
			return UserConfig{}, err
		}
		c.ColorMode = m
	}
	if o.Hierarchical != nil {
		h, err := ParseHierarchical(*o.Hierarchical)
		if err != nil {
			return UserConfig{}, err
		}
		c.Hierarchical = h
	}
	if o.Mode != nil {
		m, err := ParseMode(*o.Mode)
		if err != nil {
			return UserConfig{}, err
		}
		c.Mode = m
	}
	if o.FilterSpeckle != nil {
		c.FilterSpeckle = *o.FilterSpeckle
	}
	if o.ColorPrecision != nil {
		c.ColorPrecision = *o.ColorPrecision
	}
	if o.GradientStep != nil {
		c.LayerDifference = *o.GradientStep
	}
	if o.CornerThreshold != nil {
		c.CornerThreshold = *o.CornerThreshold
	}
	if o.SegmentLength != nil {
		c.LengthThreshold = *o.SegmentLength
	}
	if o.SpliceThreshold != nil {
		c.SpliceThreshold = *o.SpliceThreshold
	}
	if o.MaxIterations != nil {
		c.MaxIterations = *o.MaxIterations
	}
	if o.PathPrecision != nil {
		c.PathPrecision = Uint(*o.PathPrecision)
	}
	if err := c.Validate(); err != nil {
		return UserConfig{}, err
	}
	return c, nil
}

// LoadFile 从 YAML 文件读取参数
func LoadFile(path string) (Overrides, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Overrides{}, fmt.Errorf("read config %s: %w", path, err)
	}
	var o Overrides
	if err := yaml.Unmarshal(data, &o); err != nil {
		return Overrides{}, fmt.Errorf("parse config %s: %w", path, err)
	}
	return o, nil
}

// Env 从环境变量读取的进程设置
type Env struct {
	LogLevel string
	LogFile  string
	Addr     string
}

// 环境变量名
const (
	EnvLogLevel = "VECTRACE_LOG_LEVEL"
	EnvLogFile  = "VECTRACE_LOG_FILE"
	EnvAddr     = "VECTRACE_ADDR"
)

// LoadEnv 加载 dotenv 文件 (默认 ".env"), 不覆盖已有变量, 再读取 VECTRACE_* 变量.
// 文件不存在不算错误.
func LoadEnv(files ...string) (Env, error) {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Env{}, fmt.Errorf("load %s: %w", f, err)
		}
	}
	env := Env{
		LogLevel: os.Getenv(EnvLogLevel),
		LogFile:  os.Getenv(EnvLogFile),
		Addr:     os.Getenv(EnvAddr),
	}
	if env.LogLevel == "" {
		env.LogLevel = "info"
	}
	if env.Addr == "" {
		env.Addr = ":8080"
	}
	return env, nil
}

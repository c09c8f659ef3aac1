// Package interactive 按 JSON 参数分片驱动转换: 从指定画布读取像素,
// 每生成一条路径就推送到指定的 SVG 画面.
package interactive

import (
	"go.uber.org/zap"

	"vectrace/config"
	"vectrace/path2svg"
	"vectrace/pipeline"
	vttypes "vectrace/type"
)

// Converter 一次交互式转换, 只能在单个 goroutine 中驱动
type Converter struct {
	params  Params
	width   int
	height  int
	surface Surface
	pipe    *pipeline.Pipeline
	flushed int
	log     *zap.Logger
}

// Option Converter 的选项
type Option func(*options)

type options struct {
	log      *zap.Logger
	pipeline []pipeline.Option
}

// WithLogger 设置 Converter 及其流水线使用的日志
func WithLogger(log *zap.Logger) Option {
	return func(o *options) {
		o.log = log
	}
}

// WithPipelineOptions 传给流水线的额外选项
func WithPipelineOptions(opts ...pipeline.Option) Option {
	return func(o *options) {
		o.pipeline = append(o.pipeline, opts...)
	}
}

// New 校验参数并绑定画布和画面. 画布像素会被复制, 画布本身不会被修改.
func New(params Params, canvases CanvasSource, surfaces SurfaceSource, opts ...Option) (*Converter, error) {
	o := options{log: zap.NewNop()}
	for _, opt := range opts {
		opt(&o)
	}

	cfg, err := params.UserConfig()
	if err != nil {
		return nil, err
	}
	canvas, err := canvases.Canvas(params.CanvasID)
	if err != nil {
		return nil, err
	}
	surface, err := surfaces.Surface(params.SvgID)
	if err != nil {
		return nil, err
	}

	buf := canvas.Clone()
	popts := append([]pipeline.Option{
		pipeline.WithTimeSlicing(),
		pipeline.WithLogger(o.log),
	}, o.pipeline...)

	return &Converter{
		params:  params,
		width:   buf.Width,
		height:  buf.Height,
		surface: surface,
		pipe:    pipeline.New(buf, config.Derive(cfg), popts...),
		log:     o.log.With(zap.String("canvas", params.CanvasID)),
	}, nil
}

// NewFromJSON 解析 JSON 参数后调用 New
func NewFromJSON(data []byte, canvases CanvasSource, surfaces SurfaceSource, opts ...Option) (*Converter, error) {
	params, err := ParseParams(data)
	if err != nil {
		return nil, err
	}
	return New(params, canvases, surfaces, opts...)
}

// Initialize 启动流水线, 成功后重置画面
func (c *Converter) Initialize() error {
	if err := c.pipe.Initialize(); err != nil {
		return err
	}
	c.surface.Init(c.width, c.height)
	c.log.Debug("conversion started",
		zap.Int("width", c.width),
		zap.Int("height", c.height),
		zap.String("mode", c.params.Mode))
	return nil
}

// Step 推进一步并把新路径推送到画面, 返回是否完成
func (c *Converter) Step() (bool, error) {
	done, err := c.pipe.Step()
	if err != nil {
		return false, err
	}
	for _, e := range c.pipe.EntriesSince(c.flushed) {
		c.surface.AppendPath(path2svg.Element(e, c.params.PathPrecision))
		c.flushed++
	}
	return done, nil
}

// Progress 完成度 [0,100]
func (c *Converter) Progress() int {
	return c.pipe.Progress()
}

// Output 目前已生成的路径
func (c *Converter) Output() vttypes.Output {
	return c.pipe.Output()
}

func (c *Converter) Params() Params {
	return c.params
}

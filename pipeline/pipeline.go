// Package pipeline 把像素缓冲区转换为有序的填充路径列表.
// Pipeline 可以每次调用运行到底 (批处理), 也可以按有限步长推进 (分片), 两者输出相同.
package pipeline

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"vectrace/cluster"
	"vectrace/config"
	"vectrace/keying"
	vttypes "vectrace/type"
)

var (
	ErrNotInitialized     = errors.New("pipeline: step called before initialize")
	ErrAlreadyInitialized = errors.New("pipeline: already initialized")
	ErrFinished           = errors.New("pipeline: step called after completion")
)

// cutoutHierarchical cutout 第二遍的分层合并上限
const cutoutHierarchical = 64

// Pipeline 分阶段的转换, 不可并发使用
type Pipeline struct {
	buf    *vttypes.PixelBuffer
	params config.Params

	segmenter Segmenter
	random    keying.RandomSource
	log       *zap.Logger
	sliced    bool
	batchSize int

	key   vttypes.Color
	stage stage
	out   *Collector
}

// Option Pipeline 的选项
type Option func(*Pipeline)

// WithLogger 设置日志, 默认丢弃
func WithLogger(log *zap.Logger) Option {
	return func(p *Pipeline) {
		if log != nil {
			p.log = log
		}
	}
}

// WithSegmenter 替换分割引擎
func WithSegmenter(s Segmenter) Option {
	return func(p *Pipeline) {
		p.segmenter = s
	}
}

// WithRandomSource 随机候选键色的来源
func WithRandomSource(src keying.RandomSource) Option {
	return func(p *Pipeline) {
		p.random = src
	}
}

// WithTimeSlicing 每次 Step 只做有限工作: 一批分割或一个区域的路径
func WithTimeSlicing() Option {
	return func(p *Pipeline) {
		p.sliced = true
	}
}

// WithBatchSize 每步分割处理的像素数
func WithBatchSize(n int) Option {
	return func(p *Pipeline) {
		p.batchSize = n
	}
}

// New 创建流水线, 之后 buf 归流水线所有. 抠色会原地改写透明像素, 需要保留原图时请传入副本.
func New(buf *vttypes.PixelBuffer, params config.Params, opts ...Option) *Pipeline {
	p := &Pipeline{
		buf:       buf,
		params:    params,
		segmenter: Engine{},
		log:       zap.NewNop(),
		batchSize: cluster.DefaultBatchSize,
		stage:     uninitialized{},
		out:       NewCollector(buf.Width, buf.Height, params.PathPrecision),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Initialize 按需抠色并开始第一遍分割, 二值模式直接进入输出阶段
func (p *Pipeline) Initialize() error {
	if _, ok := p.stage.(uninitialized); !ok {
		return ErrAlreadyInitialized
	}
	if err := p.buf.Validate(); err != nil {
		return err
	}

	if p.params.ColorMode == config.ColorModeBinary {
		set := p.segmenter.SegmentBinary(p.buf)
		p.enter(&emitting{
			regions: set.Regions(),
			minArea: p.params.FilterSpeckleArea,
			binary:  true,
		})
		return nil
	}

	key, err := keying.Key(p.buf, p.random)
	if err != nil {
		return fmt.Errorf("key transparent pixels: %w", err)
	}
	p.key = key
	if !key.IsZero() {
		p.log.Debug("keyed transparent pixels", zap.String("key", key.Hex()))
	}

	p.enter(segmenting{job: p.segment(p.buf, p.firstPass())})
	return nil
}

func (p *Pipeline) firstPass() Tuning {
	return Tuning{
		Diagonal:     p.params.LayerDifference == 0,
		Hierarchical: cluster.HierarchicalMax,
		BatchSize:    p.batchSize,
		MinArea:      p.params.FilterSpeckleArea,
		MaxArea:      p.buf.Width * p.buf.Height,
		SameColorA:   p.params.ColorPrecisionLoss,
		SameColorB:   1,
		DeepenDiff:   p.params.LayerDifference,
		KeyColor:     p.key,
		KeepKey:      p.params.Hierarchical == config.Cutout,
	}
}

func (p *Pipeline) secondPass() Tuning {
	return Tuning{
		Diagonal:     false,
		Hierarchical: cutoutHierarchical,
		BatchSize:    p.batchSize,
		MinArea:      0,
		MaxArea:      p.buf.Width * p.buf.Height,
		SameColorA:   0,
		SameColorB:   1,
		DeepenDiff:   0,
		KeyColor:     p.key,
		KeepKey:      false,
	}
}

func (p *Pipeline) segment(buf *vttypes.PixelBuffer, t Tuning) Job {
	if p.sliced {
		return p.segmenter.SegmentIncremental(buf, t)
	}
	return finishedJob{set: p.segmenter.Segment(buf, t)}
}

func (p *Pipeline) enter(s stage) {
	p.stage = s
	fields := []zap.Field{zap.String("stage", s.name()), zap.Int("progress", p.Progress())}
	if e, ok := s.(*emitting); ok {
		fields = append(fields, zap.Int("regions", len(e.regions)))
	}
	p.log.Debug("pipeline stage", fields...)
}

// Step 推进流水线并返回是否完成, 批处理模式一次调用即运行到底
func (p *Pipeline) Step() (bool, error) {
	if !p.sliced {
		for {
			done, err := p.step()
			if err != nil || done {
				return done, err
			}
		}
	}
	return p.step()
}

func (p *Pipeline) step() (bool, error) {
	switch s := p.stage.(type) {
	case uninitialized:
		return false, ErrNotInitialized
	case finished:
		return false, ErrFinished
	case segmenting:
		if !s.job.Step() {
			return false, nil
		}
		set := s.job.Finish()
		if p.params.Hierarchical == config.Cutout {
			p.enter(resegmenting{job: p.segment(set.ColorImage(), p.secondPass())})
			return false, nil
		}
		p.enter(&emitting{regions: set.Regions(), minArea: p.params.FilterSpeckleArea})
		return false, nil
	case resegmenting:
		if !s.job.Step() {
			return false, nil
		}
		p.enter(&emitting{regions: s.job.Finish().Regions(), minArea: 0})
		return false, nil
	case *emitting:
		if s.cursor == len(s.regions) {
			p.enter(finished{})
			p.log.Info("conversion finished",
				zap.Int("width", p.buf.Width),
				zap.Int("height", p.buf.Height),
				zap.Int("paths", p.out.Len()))
			return true, nil
		}
		r := s.regions[len(s.regions)-1-s.cursor]
		s.cursor++
		if r.Size() < s.minArea {
			return false, nil
		}
		path, err := r.Path(p.params.PathOptions())
		if err != nil {
			return false, fmt.Errorf("fit region path: %w", err)
		}
		if !p.out.Append(path, r.Color()) {
			p.log.Debug("empty region path dropped", zap.Int("size", r.Size()))
		}
		return false, nil
	default:
		return false, fmt.Errorf("pipeline: unknown stage %T", s)
	}
}

// Progress 完成度 [0,100], 单调不减, Step 报告完成时为 100
func (p *Pipeline) Progress() int {
	switch s := p.stage.(type) {
	case segmenting:
		return s.job.Progress() / 2
	case resegmenting:
		return 50
	case *emitting:
		n := len(s.regions)
		if n == 0 {
			return 100
		}
		if s.binary {
			return 100 * s.cursor / n
		}
		return 50 + 50*s.cursor/n
	case finished:
		return 100
	default:
		return 0
	}
}

// Done 是否已完成
func (p *Pipeline) Done() bool {
	_, ok := p.stage.(finished)
	return ok
}

// Output 目前已输出的条目
func (p *Pipeline) Output() vttypes.Output {
	return p.out.Output()
}

// EntriesSince 前 n 条之后输出的条目, 不复制
func (p *Pipeline) EntriesSince(n int) []vttypes.Entry {
	return p.out.Since(n)
}

// Key 写入透明像素的键色, 未抠色时为 keying.NoKey
func (p *Pipeline) Key() vttypes.Color {
	return p.key
}

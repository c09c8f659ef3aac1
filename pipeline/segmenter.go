package pipeline

import (
	"vectrace/mask2path"
	vttypes "vectrace/type"
)

// Tuning 一遍分割的参数
type Tuning struct {
	Diagonal     bool
	Hierarchical int
	BatchSize    int
	MinArea      int
	MaxArea      int
	SameColorA   int
	SameColorB   int
	DeepenDiff   int
	KeyColor     vttypes.Color
	KeepKey      bool
}

// Region 分割结果中颜色一致的区域
type Region interface {
	Size() int
	Color() vttypes.Color
	Path(opts mask2path.Options) (vttypes.Path, error)
}

// RegionSet 一遍分割的结果
type RegionSet interface {
	// Regions 按引擎自然顺序排列的输出区域
	Regions() []Region
	// ColorImage 把合并结果绘制为新的缓冲区
	ColorImage() *vttypes.PixelBuffer
}

// Job 进行中的增量分割
type Job interface {
	// Step 做有限的工作, 返回是否完成
	Step() bool
	Progress() int
	// Finish 完成剩余工作并返回结果
	Finish() RegionSet
}

// Segmenter 流水线使用的分割引擎, Segment 与 SegmentIncremental 必须得到相同的 RegionSet
type Segmenter interface {
	Segment(buf *vttypes.PixelBuffer, t Tuning) RegionSet
	SegmentIncremental(buf *vttypes.PixelBuffer, t Tuning) Job
	// SegmentBinary 阈值化 buf, 把前景分组为黑色区域
	SegmentBinary(buf *vttypes.PixelBuffer) RegionSet
}

// finishedJob 把阻塞调用的结果包装成 Job
type finishedJob struct {
	set RegionSet
}

func (j finishedJob) Step() bool        { return true }
func (j finishedJob) Progress() int     { return 100 }
func (j finishedJob) Finish() RegionSet { return j.set }

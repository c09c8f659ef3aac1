package pipeline

// stage Pipeline 的状态, 每种状态只携带该状态下有效的数据
type stage interface {
	name() string
}

type uninitialized struct{}

type segmenting struct {
	job Job
}

type resegmenting struct {
	job Job
}

type emitting struct {
	regions []Region // 自然顺序, 从后往前输出
	cursor  int
	minArea int
	binary  bool
}

type finished struct{}

func (uninitialized) name() string { return "uninitialized" }
func (segmenting) name() string    { return "segmenting" }
func (resegmenting) name() string  { return "resegmenting" }
func (*emitting) name() string     { return "emitting" }
func (finished) name() string      { return "finished" }

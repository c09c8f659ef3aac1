package pipeline

import (
	"vectrace/cluster"
	"vectrace/mask2path"
	vttypes "vectrace/type"
)

// Engine 基于 cluster 包的 Segmenter
type Engine struct{}

var _ Segmenter = Engine{}

func (t Tuning) clusterConfig() cluster.Config {
	action := cluster.Discard
	if t.KeepKey {
		action = cluster.Keep
	}
	return cluster.Config{
		Diagonal:     t.Diagonal,
		Hierarchical: t.Hierarchical,
		BatchSize:    t.BatchSize,
		GoodMinArea:  t.MinArea,
		GoodMaxArea:  t.MaxArea,
		SameColorA:   t.SameColorA,
		SameColorB:   t.SameColorB,
		DeepenDiff:   t.DeepenDiff,
		KeyColor:     t.KeyColor,
		KeyingAction: action,
	}
}

func (Engine) Segment(buf *vttypes.PixelBuffer, t Tuning) RegionSet {
	return clusterSet{cluster.NewRunner(t.clusterConfig(), buf).Run()}
}

func (Engine) SegmentIncremental(buf *vttypes.PixelBuffer, t Tuning) Job {
	return &clusterJob{b: cluster.NewRunner(t.clusterConfig(), buf).Start()}
}

func (Engine) SegmentBinary(buf *vttypes.PixelBuffer) RegionSet {
	return clusterSet{cluster.Binary(buf, cluster.Threshold128)}
}

type clusterJob struct {
	b    *cluster.Builder
	done bool
}

func (j *clusterJob) Step() bool {
	if !j.done {
		j.done = j.b.Tick()
	}
	return j.done
}

func (j *clusterJob) Progress() int {
	return j.b.Progress()
}

func (j *clusterJob) Finish() RegionSet {
	for !j.Step() {
	}
	return clusterSet{j.b.Result()}
}

type clusterSet struct {
	cs *cluster.Clusters
}

func (s clusterSet) Regions() []Region {
	list := s.cs.OutputClusters()
	regions := make([]Region, len(list))
	for i, c := range list {
		regions[i] = clusterRegion{c}
	}
	return regions
}

func (s clusterSet) ColorImage() *vttypes.PixelBuffer {
	return s.cs.ToColorImage()
}

type clusterRegion struct {
	c *cluster.Cluster
}

func (r clusterRegion) Size() int            { return r.c.Size() }
func (r clusterRegion) Color() vttypes.Color { return r.c.Color() }

func (r clusterRegion) Path(opts mask2path.Options) (vttypes.Path, error) {
	path, err := r.c.Path(opts)
	if err != nil {
		return nil, err
	}
	return path, nil
}

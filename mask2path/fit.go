package mask2path

import (
	"fmt"
	"image"
)

// Fit 将单个区域的掩码转换为复合路径. 掩码中黑色像素属于区域,
// 输出坐标相对于掩码边界的左上角.
func Fit(mask *image.Gray, opts Options) (*CompoundPath, error) {
	path := &CompoundPath{Offset: mask.Bounds().Min}
	if mask.Bounds().Empty() {
		return path, nil
	}

	switch opts.Mode {
	case ModeNone:
		for _, loop := range outlines(mask) {
			if len(loop) >= 3 {
				path.Subpaths = append(path.Subpaths, polygonSubpath(toPoints(loop)))
			}
		}
	case ModePolygon:
		for _, loop := range outlines(mask) {
			if len(loop) >= 3 {
				pts := simplifyClosed(toPoints(loop), polygonTolerance)
				path.Subpaths = append(path.Subpaths, polygonSubpath(pts))
			}
		}
	case ModeSpline:
		subpaths, err := traceSpline(mask, opts)
		if err != nil {
			return nil, fmt.Errorf("trace spline: %w", err)
		}
		path.Subpaths = subpaths
	default:
		return nil, fmt.Errorf("unknown path mode %d", int(opts.Mode))
	}
	return path, nil
}

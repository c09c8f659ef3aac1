package pipeline

import (
	"vectrace/config"
	vttypes "vectrace/type"
)

// Convert 校验 cfg 后一次性转换 buf, 抠色可能修改 buf
func Convert(buf *vttypes.PixelBuffer, cfg config.UserConfig, opts ...Option) (vttypes.Output, error) {
	if err := cfg.Validate(); err != nil {
		return vttypes.Output{}, err
	}
	p := New(buf, config.Derive(cfg), opts...)
	if err := p.Initialize(); err != nil {
		return vttypes.Output{}, err
	}
	for {
		done, err := p.Step()
		if err != nil {
			return vttypes.Output{}, err
		}
		if done {
			return p.Output(), nil
		}
	}
}

package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"vectrace/config"
	"vectrace/image2rgba"
	"vectrace/logging"
	"vectrace/path2svg"
	"vectrace/pipeline"
	vttypes "vectrace/type"
)

// app 命令共享的状态
type app struct {
	env config.Env
	log *zap.Logger

	envFile  string
	logLevel string
	logFile  string
	logJSON  bool
}

func newRootCmd() *cobra.Command {
	a := &app{log: zap.NewNop()}
	var (
		input, output, cfgFile string
		showProgress           bool
	)

	root := &cobra.Command{
		Use:   "vectrace",
		Short: "将位图转换为 SVG 矢量图",
		Long: "vectrace 将 PNG/JPEG/GIF/BMP/TIFF/WebP 图像聚类为色块, 拟合路径, 输出 SVG 文档。\n" +
			"参数优先级: 默认值 < --preset < --config 文件 < 命令行参数。",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd)
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			_ = a.log.Sync()
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			if input == "" || output == "" {
				return errors.New("--input and --output are required")
			}
			overrides, err := collectOverrides(cmd, cfgFile)
			if err != nil {
				return err
			}
			cfg, err := overrides.Build()
			if err != nil {
				return err
			}
			info, err := a.convert(cmd, input, output, cfg, showProgress)
			if err != nil {
				return err
			}
			color.New(color.FgGreen).Fprintln(cmd.OutOrStdout(), "Conversion successful.")
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %dx%d, %d paths\n", output, info.Width, info.Height, len(info.Paths))
			return nil
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&a.envFile, "env", ".env", "dotenv 文件路径")
	pf.StringVar(&a.logLevel, "log-level", "", "日志级别 debug/info/warn/error (默认读取 "+config.EnvLogLevel+")")
	pf.StringVar(&a.logFile, "log-file", "", "日志文件路径, 自动轮转 (默认读取 "+config.EnvLogFile+")")
	pf.BoolVar(&a.logJSON, "log-json", false, "控制台输出 JSON 日志")

	f := root.Flags()
	f.StringVarP(&input, "input", "i", "", "输入图像路径")
	f.StringVarP(&output, "output", "o", "", "输出 SVG 路径")
	f.StringVarP(&cfgFile, "config", "c", "", "YAML 参数文件")
	f.BoolVar(&showProgress, "progress", false, "显示进度条")
	f.String("preset", "", "预设 bw/poster/photo")
	f.String("colormode", "", "颜色模式 color/bw")
	f.String("hierarchical", "", "分层方式 stacked/cutout")
	f.String("mode", "", "曲线拟合 pixel/polygon/spline")
	f.Int("filter_speckle", 0, "丢弃小于 N*N 像素的斑点 [0,16]")
	f.Int("color_precision", 0, "每通道有效位数 [1,8]")
	f.Int("gradient_step", 0, "分层之间的颜色差 [0,255]")
	f.Int("corner_threshold", 0, "角点最小角度, 单位度 [0,180]")
	f.Float64("segment_length", 0, "曲线细分的最大长度 [3.5,10]")
	f.Int("splice_threshold", 0, "样条拼接最小角度, 单位度 [0,180]")
	f.Int("max_iterations", 0, "曲线细分最大轮数")
	f.Uint("path_precision", 0, "路径坐标的小数位数")

	root.AddCommand(newServeCmd(a))
	return root
}

// setup 读取 .env 并构造日志
func (a *app) setup(cmd *cobra.Command) error {
	env, err := config.LoadEnv(a.envFile)
	if err != nil {
		return err
	}
	a.env = env
	level := a.logLevel
	if level == "" {
		level = env.LogLevel
	}
	file := a.logFile
	if file == "" {
		file = env.LogFile
	}
	log, err := logging.New(logging.Options{
		Level:   level,
		JSON:    a.logJSON,
		File:    file,
		Console: cmd.ErrOrStderr(),
	})
	if err != nil {
		return err
	}
	a.log = log
	return nil
}

// collectOverrides 合并配置文件和显式给出的命令行参数
func collectOverrides(cmd *cobra.Command, cfgFile string) (config.Overrides, error) {
	var base config.Overrides
	if cfgFile != "" {
		o, err := config.LoadFile(cfgFile)
		if err != nil {
			return config.Overrides{}, err
		}
		base = o
	}

	f := cmd.Flags()
	var o config.Overrides
	str := func(name string) *string {
		if !f.Changed(name) {
			return nil
		}
		v, _ := f.GetString(name)
		return &v
	}
	num := func(name string) *int {
		if !f.Changed(name) {
			return nil
		}
		v, _ := f.GetInt(name)
		return &v
	}
	o.Preset = str("preset")
	o.ColorMode = str("colormode")
	o.Hierarchical = str("hierarchical")
	o.Mode = str("mode")
	o.FilterSpeckle = num("filter_speckle")
	o.ColorPrecision = num("color_precision")
	o.GradientStep = num("gradient_step")
	o.CornerThreshold = num("corner_threshold")
	o.SpliceThreshold = num("splice_threshold")
	o.MaxIterations = num("max_iterations")
	if f.Changed("segment_length") {
		v, _ := f.GetFloat64("segment_length")
		o.SegmentLength = &v
	}
	if f.Changed("path_precision") {
		v, _ := f.GetUint("path_precision")
		o.PathPrecision = &v
	}
	return base.Merge(o), nil
}

// convert 解码, 转换, 写出, 再读回校验
func (a *app) convert(cmd *cobra.Command, input, output string, cfg config.UserConfig, showProgress bool) (path2svg.Info, error) {
	buf, err := image2rgba.DecodeFile(cmd.Context(), input)
	if err != nil {
		return path2svg.Info{}, err
	}
	a.log.Info("decoded input",
		zap.String("path", input),
		zap.Int("width", buf.Width),
		zap.Int("height", buf.Height),
		zap.Stringer("colormode", cfg.ColorMode),
		zap.Stringer("mode", cfg.Mode),
	)

	var out vttypes.Output
	if showProgress {
		out, err = a.convertWithProgress(cmd, buf, cfg)
	} else {
		out, err = pipeline.Convert(buf, cfg, pipeline.WithLogger(a.log))
	}
	if err != nil {
		return path2svg.Info{}, err
	}

	if err := path2svg.WriteFile(output, out); err != nil {
		return path2svg.Info{}, err
	}
	doc, err := os.ReadFile(output)
	if err != nil {
		return path2svg.Info{}, fmt.Errorf("read back %s: %w", output, err)
	}
	return path2svg.Inspect(string(doc))
}

// convertWithProgress 分片推进流水线并刷新进度条
func (a *app) convertWithProgress(cmd *cobra.Command, buf *vttypes.PixelBuffer, cfg config.UserConfig) (vttypes.Output, error) {
	p := pipeline.New(buf, config.Derive(cfg), pipeline.WithLogger(a.log), pipeline.WithTimeSlicing())
	if err := p.Initialize(); err != nil {
		return vttypes.Output{}, err
	}
	bar := newProgressBar(cmd.ErrOrStderr(), "Converting")
	for {
		done, err := p.Step()
		if err != nil {
			return vttypes.Output{}, err
		}
		_ = bar.Set(p.Progress())
		if done {
			break
		}
	}
	_ = bar.Finish()
	return p.Output(), nil
}

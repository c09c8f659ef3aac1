package main

import (
	"time"

	"github.com/spf13/cobra"

	"vectrace/server"
)

func newServeCmd(a *app) *cobra.Command {
	var (
		addr    string
		slice   time.Duration
		origins []string
	)
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "启动交互式转换服务",
		Long: "上传图像: POST /api/canvases\n" +
			"转换: GET /api/convert (WebSocket, 首条消息为 JSON 参数, 之后推送进度和路径)",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !cmd.Flags().Changed("addr") {
				addr = a.env.Addr
			}
			cfg := server.DefaultConfig()
			cfg.Addr = addr
			cfg.Slice = slice
			cfg.AllowedOrigins = origins
			cfg.Logger = a.log
			return server.New(cfg).ListenAndServe(cmd.Context())
		},
	}
	cmd.Flags().StringVar(&addr, "addr", ":8080", "监听地址 (默认读取 VECTRACE_ADDR)")
	cmd.Flags().StringSliceVar(&origins, "allow-origin", nil, "允许打开转换连接的其他来源, 例如 https://app.example.com; * 表示任意")
	cmd.Flags().DurationVar(&slice, "slice", server.DefaultConfig().Slice, "每次推送进度之间的计算时间")
	return cmd
}

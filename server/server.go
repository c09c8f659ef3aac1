// Package server 通过 HTTP 提供交互式转换. 图像先上传为画布,
// 再通过 WebSocket 转换, 转换按短时间片推进并推送进度和路径.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"vectrace/image2rgba"
	"vectrace/interactive"
	"vectrace/path2svg"
)

// Config 服务配置
type Config struct {
	Addr string
	// Slice 两次进度推送之间的计算时间
	Slice          time.Duration
	WriteWait      time.Duration
	MaxUploadBytes int64
	MaxParamsBytes int64
	// AllowedOrigins 允许打开转换连接的其他来源 (scheme://host[:port]).
	// 同主机来源始终允许, "*" 允许任意来源.
	AllowedOrigins []string
	Logger         *zap.Logger
}

// DefaultConfig 默认配置
func DefaultConfig() Config {
	return Config{
		Addr:           ":8080",
		Slice:          25 * time.Millisecond,
		WriteWait:      10 * time.Second,
		MaxUploadBytes: 32 << 20,
		MaxParamsBytes: 16 << 10,
		Logger:         zap.NewNop(),
	}
}

// Server 处理画布上传和转换
type Server struct {
	cfg      Config
	canvases *interactive.Canvases
	upgrader websocket.Upgrader
	log      *zap.Logger
	mux      *http.ServeMux
}

// New 创建 Server, cfg 的零值字段取默认值
func New(cfg Config) *Server {
	def := DefaultConfig()
	if cfg.Slice <= 0 {
		cfg.Slice = def.Slice
	}
	if cfg.WriteWait <= 0 {
		cfg.WriteWait = def.WriteWait
	}
	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = def.MaxUploadBytes
	}
	if cfg.MaxParamsBytes <= 0 {
		cfg.MaxParamsBytes = def.MaxParamsBytes
	}
	if cfg.Logger == nil {
		cfg.Logger = def.Logger
	}

	s := &Server{
		cfg:      cfg,
		canvases: interactive.NewCanvases(),
		log:      cfg.Logger,
		mux:      http.NewServeMux(),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: originChecker(cfg.AllowedOrigins),
		},
	}
	s.mux.HandleFunc("POST /api/canvases", s.handleUpload)
	s.mux.HandleFunc("GET /api/convert", s.handleConvert)
	return s
}

// originChecker 放行没有 Origin 头的请求, 同主机来源和列出的来源
func originChecker(allowed []string) func(r *http.Request) bool {
	set := make(map[string]bool, len(allowed))
	for _, o := range allowed {
		set[strings.ToLower(strings.TrimSuffix(o, "/"))] = true
	}
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" || set["*"] || set[strings.ToLower(origin)] {
			return true
		}
		u, err := url.Parse(origin)
		if err != nil {
			return false
		}
		return strings.EqualFold(u.Host, r.Host)
	}
}

// Handler HTTP 处理器
func (s *Server) Handler() http.Handler {
	return s.mux
}

// Canvases 画布存储
func (s *Server) Canvases() *interactive.Canvases {
	return s.canvases
}

// ListenAndServe 持续服务直到 ctx 取消
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.mux,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	s.log.Info("listening", zap.String("addr", s.cfg.Addr))
	if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			http.Error(w, "image too large", http.StatusRequestEntityTooLarge)
			return
		}
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	buf, err := image2rgba.DecodeBytes(data, r.URL.Query().Get("format"))
	if err != nil {
		s.log.Debug("upload rejected", zap.Error(err))
		http.Error(w, err.Error(), http.StatusUnsupportedMediaType)
		return
	}

	id := s.canvases.Add(buf)
	s.log.Info("canvas uploaded", zap.String("canvas", id), zap.Int("width", buf.Width), zap.Int("height", buf.Height))

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(UploadResponse{ID: id, Width: buf.Width, Height: buf.Height})
}

func (s *Server) handleConvert(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Debug("upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()
	conn.SetReadLimit(s.cfg.MaxParamsBytes)

	_, data, err := conn.ReadMessage()
	if err != nil {
		s.log.Debug("read params", zap.Error(err))
		return
	}
	params, err := interactive.ParseParams(data)
	if err != nil {
		s.send(conn, Message{Type: MessageError, Error: err.Error()})
		return
	}
	defer s.canvases.Remove(params.CanvasID)

	surface := &socketSurface{}
	conv, err := interactive.New(params, s.canvases, interactive.Surfaces{params.SvgID: surface},
		interactive.WithLogger(s.log))
	if err != nil {
		s.send(conn, Message{Type: MessageError, Error: err.Error()})
		return
	}
	if err := conv.Initialize(); err != nil {
		s.send(conn, Message{Type: MessageError, Error: err.Error()})
		return
	}

	ctx := r.Context()
	for {
		done, err := s.slice(conv)
		if err != nil {
			s.send(conn, Message{Type: MessageError, Error: err.Error()})
			return
		}
		for _, m := range surface.take() {
			if !s.send(conn, m) {
				return
			}
		}
		if !s.send(conn, Message{Type: MessageProgress, Progress: conv.Progress()}) {
			return
		}
		if done {
			s.send(conn, Message{Type: MessageDone, Progress: 100, SVG: path2svg.RenderString(conv.Output())})
			s.log.Info("conversion sent", zap.String("canvas", params.CanvasID), zap.Int("paths", len(conv.Output().Entries)))
			return
		}
		if ctx.Err() != nil {
			return
		}
	}
}

// slice 推进 conv 直到完成或时间片用完
func (s *Server) slice(conv *interactive.Converter) (bool, error) {
	deadline := time.Now().Add(s.cfg.Slice)
	for {
		done, err := conv.Step()
		if err != nil || done {
			return done, err
		}
		if !time.Now().Before(deadline) {
			return false, nil
		}
	}
}

func (s *Server) send(conn *websocket.Conn, m Message) bool {
	_ = conn.SetWriteDeadline(time.Now().Add(s.cfg.WriteWait))
	if err := conn.WriteJSON(m); err != nil {
		s.log.Debug("write failed", zap.String("type", m.Type), zap.Error(err))
		return false
	}
	return true
}

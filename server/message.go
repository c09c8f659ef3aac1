package server

import (
	"vectrace/path2svg"
)

// 转换连接上的消息类型
const (
	MessageInit     = "init"
	MessageProgress = "progress"
	MessagePath     = "path"
	MessageDone     = "done"
	MessageError    = "error"
)

// Message 服务端发往客户端的一帧, 只设置对应类型的字段
type Message struct {
	Type     string         `json:"type"`
	Width    int            `json:"width,omitempty"`
	Height   int            `json:"height,omitempty"`
	Progress int            `json:"progress"`
	Path     *path2svg.Path `json:"path,omitempty"`
	SVG      string         `json:"svg,omitempty"`
	Error    string         `json:"error,omitempty"`
}

// UploadResponse 上传画布的响应
type UploadResponse struct {
	ID     string `json:"id"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

// socketSurface 缓存画面更新, 直到下一次发送
type socketSurface struct {
	pending []Message
}

func (s *socketSurface) Init(width, height int) {
	s.pending = append(s.pending, Message{Type: MessageInit, Width: width, Height: height})
}

func (s *socketSurface) AppendPath(p path2svg.Path) {
	s.pending = append(s.pending, Message{Type: MessagePath, Path: &p})
}

func (s *socketSurface) take() []Message {
	out := s.pending
	s.pending = nil
	return out
}

package interactive

import (
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"vectrace/path2svg"
	vttypes "vectrace/type"
)

var (
	ErrUnknownCanvas  = errors.New("unknown canvas")
	ErrUnknownSurface = errors.New("unknown svg surface")
)

// CanvasSource 按 id 提供像素
type CanvasSource interface {
	Canvas(id string) (*vttypes.PixelBuffer, error)
}

// Surface 接收转换结果的 SVG 元素
type Surface interface {
	// Init 在开始转换时设置画布尺寸并清空旧内容
	Init(width, height int)
	AppendPath(p path2svg.Path)
}

// SurfaceSource 按 id 提供 Surface
type SurfaceSource interface {
	Surface(id string) (Surface, error)
}

// Canvases 内存中的画布仓库, 并发安全
type Canvases struct {
	mu sync.RWMutex
	m  map[string]*vttypes.PixelBuffer
}

func NewCanvases() *Canvases {
	return &Canvases{m: map[string]*vttypes.PixelBuffer{}}
}

// Add 保存画布并返回新 id
func (c *Canvases) Add(buf *vttypes.PixelBuffer) string {
	id := uuid.NewString()
	c.mu.Lock()
	c.m[id] = buf
	c.mu.Unlock()
	return id
}

func (c *Canvases) Canvas(id string) (*vttypes.PixelBuffer, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	buf, ok := c.m[id]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownCanvas, id)
	}
	return buf, nil
}

func (c *Canvases) Remove(id string) {
	c.mu.Lock()
	delete(c.m, id)
	c.mu.Unlock()
}

func (c *Canvases) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.m)
}

// Document 在内存中收集路径的 Surface
type Document struct {
	Width, Height int
	Paths         []path2svg.Path
}

func (d *Document) Init(width, height int) {
	d.Width, d.Height = width, height
	d.Paths = nil
}

func (d *Document) AppendPath(p path2svg.Path) {
	d.Paths = append(d.Paths, p)
}

// Surfaces 固定的 Surface 表
type Surfaces map[string]Surface

func (s Surfaces) Surface(id string) (Surface, error) {
	surface, ok := s[id]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownSurface, id)
	}
	return surface, nil
}

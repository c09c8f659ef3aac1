package path2svg

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strconv"

	svg "github.com/ajstarks/svgo"

	vttypes "vectrace/type"
)

// errWriter 记录第一次写入错误, svgo 本身不返回错误
type errWriter struct {
	w   io.Writer
	err error
}

func (e *errWriter) Write(p []byte) (int, error) {
	if e.err != nil {
		return 0, e.err
	}
	n, err := e.w.Write(p)
	e.err = err
	return n, err
}

// Render 将 Output 写成完整的 SVG 文档, path 按 Entries 顺序输出
func Render(w io.Writer, out vttypes.Output) error {
	ew := &errWriter{w: w}
	canvas := svg.New(ew)
	canvas.Startview(out.Width, out.Height, 0, 0, out.Width, out.Height)
	for _, e := range out.Entries {
		el := Element(e, out.PathPrecision)
		canvas.Path(el.D,
			fmt.Sprintf(`fill="%s"`, el.Fill),
			fmt.Sprintf(`transform="%s"`, el.Transform),
		)
	}
	canvas.End()
	return ew.err
}

// RenderString 渲染为字符串
func RenderString(out vttypes.Output) string {
	var buf bytes.Buffer
	// bytes.Buffer 不会返回写入错误
	_ = Render(&buf, out)
	return buf.String()
}

// Element 把一条 Entry 格式化为 <path> 的属性
func Element(e vttypes.Entry, precision *uint) Path {
	d, x, y := e.Path.SVG(precision)
	return Path{
		D:         d,
		Fill:      e.Color.Hex(),
		Transform: fmt.Sprintf("translate(%s,%s)", formatOffset(x), formatOffset(y)),
	}
}

func formatOffset(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// WriteFile 渲染完成后一次性写入文件, 失败时不会留下半个文件
func WriteFile(path string, out vttypes.Output) error {
	var buf bytes.Buffer
	if err := Render(&buf, out); err != nil {
		return err
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	return nil
}

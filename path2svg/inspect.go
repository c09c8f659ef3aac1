package path2svg

import (
	"encoding/xml"
	"fmt"
	"strconv"
	"strings"

	"github.com/rustyoz/svg"
)

// Path 读回的单个 <path> 元素
type Path struct {
	D         string `xml:"d,attr" json:"d"`
	Fill      string `xml:"fill,attr" json:"fill"`
	Transform string `xml:"transform,attr" json:"transform"`
}

// Info SVG 文档的摘要
type Info struct {
	Width   int
	Height  int
	ViewBox [4]float64
	Paths   []Path
}

// Inspect 解析 SVG 文档, 读取尺寸和所有 path
func Inspect(doc string) (Info, error) {
	var root struct {
		XMLName xml.Name `xml:"svg"`
		Width   string   `xml:"width,attr"`
		Height  string   `xml:"height,attr"`
		Paths   []Path   `xml:"path"`
	}
	if err := xml.Unmarshal([]byte(doc), &root); err != nil {
		return Info{}, fmt.Errorf("parse svg: %w", err)
	}

	info := Info{Paths: root.Paths}
	var err error
	if info.Width, err = strconv.Atoi(root.Width); err != nil {
		return Info{}, fmt.Errorf("svg width %q: %w", root.Width, err)
	}
	if info.Height, err = strconv.Atoi(root.Height); err != nil {
		return Info{}, fmt.Errorf("svg height %q: %w", root.Height, err)
	}

	parsed, err := svg.ParseSvg(doc, "vectrace", 1.0)
	if err != nil {
		return Info{}, fmt.Errorf("parse svg: %w", err)
	}
	if parsed.ViewBox != "" {
		// viewBox 为 4 个数
		fields := strings.Fields(strings.ReplaceAll(parsed.ViewBox, ",", " "))
		if len(fields) != 4 {
			return Info{}, fmt.Errorf("invalid viewBox %q", parsed.ViewBox)
		}
		for i, f := range fields {
			if info.ViewBox[i], err = strconv.ParseFloat(f, 64); err != nil {
				return Info{}, fmt.Errorf("invalid viewBox %q: %w", parsed.ViewBox, err)
			}
		}
	}
	return info, nil
}

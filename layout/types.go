package layout

// 该文件定义校样布局结果，供布局计算、渲染与调试 JSON 共用。
// 所有坐标与尺寸单位均为毫米，原点在页面左上角。

// Result 保存布局后的页面与文档元信息。
type Result struct {
	Pages []Page       `json:"pages"`
	Meta  DocumentMeta `json:"meta"`
}

// Page 记录页面尺寸与可以直接渲染的元素。
type Page struct {
	Kind   string     `json:"kind"`  // cover 或内页类型（title、story_right 等）
	Label  string     `json:"label"` // 人类可读的页面说明，例如 "p.5 story_right stop 1"
	Width  float64    `json:"width"`
	Height float64    `json:"height"`
	Rects  []Rect     `json:"rects,omitempty"`
	Lines  []Line     `json:"lines,omitempty"`
	Images []ImageBox `json:"images,omitempty"`
}

// Color 采用 0-255 的 RGB 数值。
type Color struct {
	R int `json:"r"`
	G int `json:"g"`
	B int `json:"b"`
}

// Rect 表示一个矩形（不包含圆角）。
type Rect struct {
	Name        string  `json:"name,omitempty"`
	X           float64 `json:"x"`
	Y           float64 `json:"y"`
	Width       float64 `json:"width"`
	Height      float64 `json:"height"`
	StrokeColor Color   `json:"strokeColor"`
	StrokeWidth float64 `json:"strokeWidth"`         // mm，<=0 时由渲染器给默认值
	FillColor   *Color  `json:"fillColor,omitempty"` // 为空表示不填充
}

// Line 表示一条线段。
type Line struct {
	Name  string  `json:"name,omitempty"`
	X1    float64 `json:"x1"`
	Y1    float64 `json:"y1"`
	X2    float64 `json:"x2"`
	Y2    float64 `json:"y2"`
	Color Color   `json:"color"`
	Width float64 `json:"width"`
}

// ImageBox 用于描述图片位置与尺寸。
type ImageBox struct {
	Path    string  `json:"path"`
	X       float64 `json:"x"`
	Y       float64 `json:"y"`
	Width   float64 `json:"width"`
	Height  float64 `json:"height"`
	Opacity float64 `json:"opacity"`
}

// DocumentMeta 保存 PDF 元信息。
type DocumentMeta struct {
	Title    string   `json:"title"`
	Author   string   `json:"author"`
	Subject  string   `json:"subject"`
	Creator  string   `json:"creator"`
	Keywords []string `json:"keywords"`
}

package canvasrenderer

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/tdewolff/canvas"
	"github.com/tdewolff/canvas/renderers/pdf"
	_ "golang.org/x/image/webp"

	"github.com/ByLCY/bookprint/layout"
	"github.com/ByLCY/bookprint/renderer"
)

const defaultStrokeWidth = 0.2

// Renderer draws proof layouts via github.com/tdewolff/canvas.
type Renderer struct {
	baseDir string

	// injected resources
	imageBlobs map[string][]byte

	imageMu    sync.Mutex
	imageCache map[string]image.Image
}

var _ renderer.Renderer = (*Renderer)(nil)

// Options configures the canvas renderer.
type Options struct {
	BaseDir string
	Images  map[string][]byte // built-in images accessible via built-in:<name>
}

// NewRenderer creates a canvas-based renderer rooted at baseDir for resolving photos.
func NewRenderer(baseDir string) *Renderer { return NewRendererWithOptions(Options{BaseDir: baseDir}) }

// NewRendererWithOptions creates a renderer with injected images and optional baseDir.
func NewRendererWithOptions(opts Options) *Renderer {
	r := &Renderer{
		baseDir:    opts.BaseDir,
		imageBlobs: map[string][]byte{},
		imageCache: map[string]image.Image{},
	}
	for name, blob := range opts.Images {
		if name == "" || len(blob) == 0 {
			continue
		}
		r.imageBlobs[name] = blob
	}
	return r
}

// Render renders the result into a PDF byte slice.
func (r *Renderer) Render(result *layout.Result) ([]byte, error) {
	if result == nil {
		return nil, fmt.Errorf("渲染结果为空")
	}
	if len(result.Pages) == 0 {
		return nil, fmt.Errorf("缺少可渲染的页面")
	}

	var buf bytes.Buffer
	writer := pdf.New(&buf, result.Pages[0].Width, result.Pages[0].Height, nil)
	r.applyMeta(writer, result.Meta)
	for i, page := range result.Pages {
		if i > 0 {
			writer.NewPage(page.Width, page.Height)
		}
		c := canvas.New(page.Width, page.Height)
		ctx := canvas.NewContext(c)
		ctx.SetCoordSystem(canvas.CartesianIV) // 使坐标与布局保持左上角为原点

		if err := r.drawPage(ctx, page); err != nil {
			return nil, fmt.Errorf("第 %d 页（%s）: %w", i+1, page.Label, err)
		}
		c.RenderTo(writer)
	}

	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("写入 PDF 失败: %w", err)
	}
	return buf.Bytes(), nil
}

func (r *Renderer) applyMeta(writer *pdf.PDF, meta layout.DocumentMeta) {
	if writer == nil {
		return
	}
	keywords := strings.Join(meta.Keywords, ", ")
	writer.SetInfo(meta.Title, meta.Subject, keywords, meta.Author, meta.Creator)
}

// drawPage 先画矩形（背景、面板），再画照片，最后画参考线，保证参考线始终可见。
func (r *Renderer) drawPage(ctx *canvas.Context, page layout.Page) error {
	if err := r.drawRects(ctx, page.Rects); err != nil {
		return err
	}
	if err := r.drawImages(ctx, page.Images); err != nil {
		return err
	}
	return r.drawLines(ctx, page.Lines)
}

func (r *Renderer) drawImages(ctx *canvas.Context, images []layout.ImageBox) error {
	for _, img := range images {
		if img.Path == "" {
			continue
		}
		imgData, err := r.loadImage(img.Path)
		if err != nil {
			return err
		}
		width := img.Width
		if width <= 0 {
			width = float64(imgData.Bounds().Dx()) / 4.0
		}
		dpmm := float64(imgData.Bounds().Dx()) / width
		if dpmm <= 0 {
			dpmm = 1
		}
		ctx.DrawImage(img.X, img.Y, imgData, canvas.DPMM(dpmm))
	}
	return nil
}

// loadImage resolves built-in:<name> blobs first, then paths relative to baseDir.
func (r *Renderer) loadImage(orig string) (image.Image, error) {
	r.imageMu.Lock()
	defer r.imageMu.Unlock()
	if cached, ok := r.imageCache[orig]; ok {
		return cached, nil
	}

	var (
		imgData image.Image
		err     error
	)
	if strings.HasPrefix(orig, "built-in:") || strings.HasPrefix(orig, "builtin:") {
		name := strings.TrimPrefix(strings.TrimPrefix(orig, "built-in:"), "builtin:")
		blob, ok := r.imageBlobs[name]
		if !ok {
			return nil, fmt.Errorf("找不到内置图片资源 built-in:%s", name)
		}
		imgData, _, err = image.Decode(bytes.NewReader(blob))
		if err != nil {
			return nil, fmt.Errorf("解码内置图片 built-in:%s 失败: %w", name, err)
		}
	} else {
		if r.baseDir == "" && !filepath.IsAbs(orig) {
			return nil, fmt.Errorf("未指定资源目录时不允许直接使用相对路径：%s", orig)
		}
		path := orig
		if !filepath.IsAbs(path) {
			path = filepath.Join(r.baseDir, path)
		}
		file, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("读取图片 %s 失败: %w", orig, err)
		}
		imgData, _, err = image.Decode(file)
		file.Close()
		if err != nil {
			return nil, fmt.Errorf("解码图片 %s 失败: %w", orig, err)
		}
	}
	r.imageCache[orig] = imgData
	return imgData, nil
}

// drawLines 绘制直线列表（毫米单位）
func (r *Renderer) drawLines(ctx *canvas.Context, lines []layout.Line) error {
	for _, ln := range lines {
		w := ln.Width
		if w <= 0 {
			w = defaultStrokeWidth
		}
		ctx.SetStrokeColor(colorFromLayout(ln.Color))
		ctx.SetStrokeWidth(w)
		p := &canvas.Path{}
		p.MoveTo(0, 0)
		p.LineTo(ln.X2-ln.X1, ln.Y2-ln.Y1)
		ctx.DrawPath(ln.X1, ln.Y1, p)
	}
	return nil
}

// drawRects 绘制矩形；StrokeWidth 为 0 且有填充色时只填充不描边。
func (r *Renderer) drawRects(ctx *canvas.Context, rects []layout.Rect) error {
	for _, rc := range rects {
		if rc.Width <= 0 || rc.Height <= 0 {
			continue
		}
		w := rc.StrokeWidth
		if rc.FillColor != nil {
			ctx.SetFillColor(colorFromLayout(*rc.FillColor))
		} else {
			ctx.SetFillColor(color.RGBA{0, 0, 0, 0})
			if w <= 0 {
				w = defaultStrokeWidth
			}
		}
		if w > 0 {
			ctx.SetStrokeColor(colorFromLayout(rc.StrokeColor))
			ctx.SetStrokeWidth(w)
		} else {
			ctx.SetStrokeColor(color.RGBA{})
		}
		ctx.DrawPath(rc.X, rc.Y, canvas.Rectangle(rc.Width, rc.Height))
	}
	return nil
}

func colorFromLayout(c layout.Color) color.Color {
	return canvas.RGBA(float64(c.R)/255.0, float64(c.G)/255.0, float64(c.B)/255.0, 1.0)
}

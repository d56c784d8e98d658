package layout

import (
	"fmt"

	"github.com/ByLCY/bookprint/printspec"
)

const (
	guideStrokeWidth = 0.25
	trimStrokeWidth  = 0.35
)

var (
	bleedColor  = Color{R: 255, G: 214, B: 214}
	wrapColor   = Color{R: 255, G: 240, B: 200}
	panelColor  = Color{R: 255, G: 255, B: 255}
	spineColor  = Color{R: 220, G: 230, B: 255}
	trimColor   = Color{R: 30, G: 30, B: 30}
	safetyColor = Color{R: 0, G: 160, B: 220}
	blankColor  = Color{R: 245, G: 245, B: 245}
)

// 每种内页类型的占位色，方便在校样中一眼区分页面用途。
var pageColors = map[printspec.PageType]Color{
	printspec.PageTitle:      {R: 255, G: 228, B: 181},
	printspec.PageDedication: {R: 230, G: 220, B: 255},
	printspec.PageStoryRight: {R: 200, G: 235, B: 200},
	printspec.PageStoryLeft:  {R: 220, G: 245, B: 220},
	printspec.PageEnd:        {R: 255, G: 200, B: 220},
	printspec.PageBlank:      blankColor,
}

func mm(inches float64) float64 { return printspec.Inches(inches).ToMM() }

func fill(c Color) *Color { return &c }

// BuildCover 生成封面展开图校样：出血区、包边区、封底/书脊/封面三块面板以及裁切线。
func BuildCover(f printspec.Format, pageCount int, opts BuildOptions) (*Result, error) {
	if pageCount < f.MinPages || pageCount > f.MaxPages {
		return nil, fmt.Errorf("layout: 页数 %d 超出 %d-%d 的可印刷范围", pageCount, f.MinPages, f.MaxPages)
	}
	cover := f.Cover(pageCount)
	width, height := mm(cover.Width), mm(cover.Height)
	bleed, wrap := mm(f.Bleed), mm(f.CoverWrap)

	page := Page{
		Kind:   "cover",
		Label:  fmt.Sprintf("cover %d pages, spine %.3fin", pageCount, cover.SpineWidth),
		Width:  width,
		Height: height,
	}
	page.Rects = append(page.Rects,
		Rect{Name: "bleed", X: 0, Y: 0, Width: width, Height: height, StrokeColor: bleedColor, FillColor: fill(bleedColor)},
		Rect{Name: "wrap", X: bleed, Y: bleed, Width: width - 2*bleed, Height: height - 2*bleed, StrokeColor: wrapColor, FillColor: fill(wrapColor)},
	)
	for _, p := range f.Panels(cover) {
		c := panelColor
		if p.Name == "spine" {
			c = spineColor
		}
		page.Rects = append(page.Rects, Rect{
			Name:        p.Name,
			X:           mm(p.X),
			Y:           mm(p.Y),
			Width:       mm(p.Width),
			Height:      mm(p.Height),
			StrokeColor: trimColor,
			StrokeWidth: trimStrokeWidth,
			FillColor:   fill(c),
		})
	}

	if opts.CoverImage != "" {
		front := mm(cover.FrontCoverX / f.PointsPerInch)
		page.Images = append(page.Images, ImageBox{
			Path:    opts.CoverImage,
			X:       front,
			Y:       bleed + wrap,
			Width:   mm(f.TrimWidth),
			Height:  mm(f.TrimHeight),
			Opacity: 1,
		})
	}

	if opts.Guides {
		// 折痕参考线：包边与成品区交界处
		for _, x := range []float64{bleed + wrap, width - bleed - wrap} {
			page.Lines = append(page.Lines, Line{X1: x, Y1: 0, X2: x, Y2: height, Color: safetyColor, Width: guideStrokeWidth})
		}
		for _, y := range []float64{bleed + wrap, height - bleed - wrap} {
			page.Lines = append(page.Lines, Line{X1: 0, Y1: y, X2: width, Y2: y, Color: safetyColor, Width: guideStrokeWidth})
		}
	}

	meta := opts.Meta
	if meta.Subject == "" {
		meta.Subject = "Cover template"
	}
	return &Result{Pages: []Page{page}, Meta: withCreator(meta)}, nil
}

// BuildInterior 为页面结构中的每一页生成一页含出血的校样。
func BuildInterior(f printspec.Format, pages []printspec.BookPage, opts BuildOptions) (*Result, error) {
	if len(pages) == 0 {
		return nil, fmt.Errorf("layout: 页面结构为空")
	}
	in := f.Interior()
	width, height := mm(in.Width), mm(in.Height)
	bleed := mm(f.Bleed)

	out := make([]Page, 0, len(pages))
	for i, bp := range pages {
		if bp.PageNumber != i+1 {
			return nil, fmt.Errorf("layout: 第 %d 页的页码为 %d，页码必须连续", i+1, bp.PageNumber)
		}
		page := Page{
			Kind:   string(bp.Type),
			Label:  pageLabel(bp),
			Width:  width,
			Height: height,
		}
		c, ok := pageColors[bp.Type]
		if !ok {
			c = blankColor
		}
		page.Rects = append(page.Rects, Rect{
			Name:      "placeholder",
			X:         mm(in.SafeX),
			Y:         mm(in.SafeY),
			Width:     mm(in.SafeWidth),
			Height:    mm(in.SafeHeight),
			FillColor: fill(c),
		})

		if bp.Type == printspec.PageStoryRight {
			if path := opts.Photos[bp.StopNumber]; path != "" {
				// 照片满版出血
				page.Images = append(page.Images, ImageBox{Path: path, X: 0, Y: 0, Width: width, Height: height, Opacity: 1})
			}
		}

		if opts.Guides {
			// 参考线用线段而不是矩形，渲染时压在满版照片之上
			page.Lines = append(page.Lines, outline("trim", bleed, bleed, width-2*bleed, height-2*bleed, trimColor, trimStrokeWidth)...)
			page.Lines = append(page.Lines, outline("safety", mm(in.SafeX), mm(in.SafeY), mm(in.SafeWidth), mm(in.SafeHeight), safetyColor, guideStrokeWidth)...)
		}
		out = append(out, page)
	}

	meta := opts.Meta
	if meta.Subject == "" {
		meta.Subject = "Interior proof"
	}
	return &Result{Pages: out, Meta: withCreator(meta)}, nil
}

// outline returns the four edges of a box as named lines.
func outline(name string, x, y, w, h float64, c Color, stroke float64) []Line {
	x2, y2 := x+w, y+h
	return []Line{
		{Name: name, X1: x, Y1: y, X2: x2, Y2: y, Color: c, Width: stroke},
		{Name: name, X1: x2, Y1: y, X2: x2, Y2: y2, Color: c, Width: stroke},
		{Name: name, X1: x2, Y1: y2, X2: x, Y2: y2, Color: c, Width: stroke},
		{Name: name, X1: x, Y1: y2, X2: x, Y2: y, Color: c, Width: stroke},
	}
}

func pageLabel(bp printspec.BookPage) string {
	side := "right"
	if bp.IsLeftPage {
		side = "left"
	}
	if bp.StopNumber > 0 {
		return fmt.Sprintf("p.%d %s stop %d (%s)", bp.PageNumber, bp.Type, bp.StopNumber, side)
	}
	return fmt.Sprintf("p.%d %s (%s)", bp.PageNumber, bp.Type, side)
}

func withCreator(meta DocumentMeta) DocumentMeta {
	if meta.Creator == "" {
		meta.Creator = "bookprint"
	}
	return meta
}

package printspec

// Cover 是封面展开图的尺寸。Width/Height/SpineWidth 单位为英寸，
// 各面板起点（BackCoverX 等）单位为 pt，供 PDF 合成时直接定位。
//
// 横向排布：出血 | 包边 | 封底 | 包边 | 书脊 | 包边 | 封面 | 包边 | 出血
type Cover struct {
	Width       float64 `json:"width"`
	Height      float64 `json:"height"`
	SpineWidth  float64 `json:"spineWidth"`
	WidthPx     int     `json:"widthPx"`
	HeightPx    int     `json:"heightPx"`
	WidthPts    float64 `json:"widthPts"`
	HeightPts   float64 `json:"heightPts"`
	BackCoverX  float64 `json:"backCoverX"`
	SpineX      float64 `json:"spineX"`
	FrontCoverX float64 `json:"frontCoverX"`
}

// CoverDimensions computes the hardcover wrap for pageCount printed pages
// in the default format.
func CoverDimensions(pageCount int) Cover {
	return HardcoverSquare.Cover(pageCount)
}

// Cover computes the cover wrap for pageCount printed pages.
func (f Format) Cover(pageCount int) Cover {
	spine := SpineWidth(pageCount)
	width := 2*f.Bleed + 4*f.CoverWrap + 2*f.TrimWidth + spine
	height := 2*f.Bleed + 2*f.CoverWrap + f.TrimHeight

	backX := f.Bleed + f.CoverWrap
	spineX := backX + f.TrimWidth + f.CoverWrap
	frontX := spineX + spine + f.CoverWrap

	return Cover{
		Width:       width,
		Height:      height,
		SpineWidth:  spine,
		WidthPx:     Inches(width).ToPX(f.DPI),
		HeightPx:    Inches(height).ToPX(f.DPI),
		WidthPts:    width * f.PointsPerInch,
		HeightPts:   height * f.PointsPerInch,
		BackCoverX:  backX * f.PointsPerInch,
		SpineX:      spineX * f.PointsPerInch,
		FrontCoverX: frontX * f.PointsPerInch,
	}
}

// Panel 是封面上的一块矩形区域（英寸）。
type Panel struct {
	Name   string  `json:"name"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Panels returns back cover, spine and front cover rectangles in inches,
// measured from the top-left of the full wrap.
func (f Format) Panels(c Cover) []Panel {
	top := f.Bleed + f.CoverWrap
	return []Panel{
		{Name: "back", X: c.BackCoverX / f.PointsPerInch, Y: top, Width: f.TrimWidth, Height: f.TrimHeight},
		{Name: "spine", X: c.SpineX / f.PointsPerInch, Y: top, Width: c.SpineWidth, Height: f.TrimHeight},
		{Name: "front", X: c.FrontCoverX / f.PointsPerInch, Y: top, Width: f.TrimWidth, Height: f.TrimHeight},
	}
}

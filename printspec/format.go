// Package printspec 计算精装方形绘本的印刷几何：书脊宽度、封面展开尺寸、
// 印刷页数、页面结构以及照片的印刷可用性。
//
// 所有函数均为纯函数，输入越界时回退到最小可用布局而不是返回错误。
package printspec

// Format 描述一种成书规格。长度单位均为英寸。
// 该值只读：通过 DefaultFormat 获取副本后再使用。
type Format struct {
	Name          string  `json:"name"`
	TrimWidth     float64 `json:"trimWidth"`
	TrimHeight    float64 `json:"trimHeight"`
	Bleed         float64 `json:"bleed"`
	SafetyMargin  float64 `json:"safetyMargin"`
	CoverWrap     float64 `json:"coverWrap"`
	DPI           int     `json:"dpi"`
	PointsPerInch float64 `json:"pointsPerInch"`
	MinPages      int     `json:"minPages"`
	MaxPages      int     `json:"maxPages"`
	PodPackageID  string  `json:"podPackageId"`
}

// HardcoverSquare 是 8.5"×8.5" 精装（casewrap）规格。
var HardcoverSquare = Format{
	Name:          "hardcover-8.5x8.5",
	TrimWidth:     8.5,
	TrimHeight:    8.5,
	Bleed:         0.125,
	SafetyMargin:  0.5,
	CoverWrap:     0.75,
	DPI:           300,
	PointsPerInch: PtPerInch,
	MinPages:      24,
	MaxPages:      800,
	PodPackageID:  "0850X0850FCPRECW080CW444GXX",
}

// DefaultFormat returns a copy of the only supported format.
func DefaultFormat() Format { return HardcoverSquare }

// LookupFormat resolves a format by name. The empty name maps to the default.
func LookupFormat(name string) (Format, bool) {
	switch name {
	case "", HardcoverSquare.Name, "hardcover-square":
		return HardcoverSquare, true
	}
	return Format{}, false
}

// Interior 描述含出血的内页尺寸以及安全区。
type Interior struct {
	Width     float64 `json:"width"`
	Height    float64 `json:"height"`
	WidthPx   int     `json:"widthPx"`
	HeightPx  int     `json:"heightPx"`
	WidthPts  float64 `json:"widthPts"`
	HeightPts float64 `json:"heightPts"`
	// 安全区相对整页（含出血）左上角的偏移与尺寸，单位英寸。
	SafeX      float64 `json:"safeX"`
	SafeY      float64 `json:"safeY"`
	SafeWidth  float64 `json:"safeWidth"`
	SafeHeight float64 `json:"safeHeight"`
}

// Interior returns the bleed-inclusive interior page geometry.
func (f Format) Interior() Interior {
	w := f.TrimWidth + 2*f.Bleed
	h := f.TrimHeight + 2*f.Bleed
	inset := f.Bleed + f.SafetyMargin
	return Interior{
		Width:      w,
		Height:     h,
		WidthPx:    Inches(w).ToPX(f.DPI),
		HeightPx:   Inches(h).ToPX(f.DPI),
		WidthPts:   w * f.PointsPerInch,
		HeightPts:  h * f.PointsPerInch,
		SafeX:      inset,
		SafeY:      inset,
		SafeWidth:  w - 2*inset,
		SafeHeight: h - 2*inset,
	}
}

// TargetPixels is the pixel size a full-bleed photo needs at the format DPI.
func (f Format) TargetPixels() (int, int) {
	in := f.Interior()
	return in.WidthPx, in.HeightPx
}

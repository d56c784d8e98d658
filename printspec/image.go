package printspec

import "math"

// ImageStatus 是照片的印刷可用性分档，阈值单调递减。
type ImageStatus string

const (
	StatusReady        ImageStatus = "ready"
	StatusAcceptable   ImageStatus = "acceptable"
	StatusNeedsUpscale ImageStatus = "needs_upscale"
	StatusTooSmall     ImageStatus = "too_small"
)

// Printable reports whether a photo in this tier may go to print, possibly
// after upscaling.
func (s ImageStatus) Printable() bool { return s != StatusTooSmall }

// NeedsUpscale reports whether the photo must be upscaled before print.
func (s ImageStatus) NeedsUpscale() bool { return s == StatusNeedsUpscale }

// Minimum short-edge pixel counts for the lower tiers.
const (
	acceptableMinPixels = 2000
	upscaleMinPixels    = 1000
)

var statusMessages = map[ImageStatus]string{
	StatusReady:        "Great quality! This photo is ready for print.",
	StatusAcceptable:   "Good quality. This photo will print well.",
	StatusNeedsUpscale: "This photo is a bit small. We'll enhance it before printing.",
	StatusTooSmall:     "This photo is too small to print clearly. Please upload a larger version.",
}

// Message returns the user-facing sentence for the tier.
func (s ImageStatus) Message() string { return statusMessages[s] }

// ImageAnalysis is the print-readiness verdict for one photo.
type ImageAnalysis struct {
	Width        int         `json:"width"`
	Height       int         `json:"height"`
	EffectiveDPI int         `json:"effectiveDpi"`
	Status       ImageStatus `json:"status"`
	Message      string      `json:"message"`
	TargetWidth  int         `json:"targetWidth"`
	TargetHeight int         `json:"targetHeight"`
	ScaleFactor  float64     `json:"scaleFactor"`
}

// AnalyzeImage classifies a photo against the default format.
func AnalyzeImage(width, height int) ImageAnalysis {
	return HardcoverSquare.AnalyzeImage(width, height)
}

// AnalyzeImage classifies a width×height photo. ScaleFactor is advisory: the
// smallest uniform scale that brings both axes up to the target size.
func (f Format) AnalyzeImage(width, height int) ImageAnalysis {
	tw, th := f.TargetPixels()
	res := ImageAnalysis{
		Width:        width,
		Height:       height,
		TargetWidth:  tw,
		TargetHeight: th,
	}
	if width <= 0 || height <= 0 {
		res.Status = StatusTooSmall
		res.Message = StatusTooSmall.Message()
		return res
	}

	res.EffectiveDPI = int(math.Round(float64(min(width, height)) / f.TrimWidth))
	res.Status = classify(width, height, tw, th)
	res.Message = res.Status.Message()
	if res.Status == StatusReady {
		res.ScaleFactor = 1
	} else {
		res.ScaleFactor = math.Max(float64(tw)/float64(width), float64(th)/float64(height))
	}
	return res
}

func classify(width, height, tw, th int) ImageStatus {
	switch {
	case width >= tw && height >= th:
		return StatusReady
	case width >= acceptableMinPixels && height >= acceptableMinPixels:
		return StatusAcceptable
	case width >= upscaleMinPixels && height >= upscaleMinPixels:
		return StatusNeedsUpscale
	default:
		return StatusTooSmall
	}
}

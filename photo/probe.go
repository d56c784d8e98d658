// Package photo reads pixel dimensions from uploaded photos without decoding
// the full image, and grades them for print.
package photo

import (
	"bufio"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"os"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/ByLCY/bookprint/printspec"
)

// sniffLen covers every signature mimetype needs for raster images.
const sniffLen = 3072

// ErrNotImage is returned when the payload is not a raster image we can read.
var ErrNotImage = errors.New("photo: not a supported image")

// Info describes a probed photo.
type Info struct {
	Path   string `json:"path,omitempty"`
	MIME   string `json:"mime"`
	Format string `json:"format"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

// Report pairs probe output with the print verdict.
type Report struct {
	Info     Info                    `json:"info"`
	Analysis printspec.ImageAnalysis `json:"analysis"`
}

// Probe sniffs the MIME type from magic bytes, then decodes only the image
// header to read its dimensions.
func Probe(r io.Reader) (Info, error) {
	br := bufio.NewReaderSize(r, sniffLen)
	head, err := br.Peek(sniffLen)
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, bufio.ErrBufferFull) {
		return Info{}, fmt.Errorf("read image header: %w", err)
	}
	mtype := mimetype.Detect(head)
	if !strings.HasPrefix(mtype.String(), "image/") {
		return Info{}, fmt.Errorf("%w: detected %s", ErrNotImage, mtype.String())
	}

	cfg, format, err := image.DecodeConfig(br)
	if err != nil {
		return Info{}, fmt.Errorf("%w: %s: %v", ErrNotImage, mtype.String(), err)
	}
	return Info{
		MIME:   mtype.String(),
		Format: format,
		Width:  cfg.Width,
		Height: cfg.Height,
	}, nil
}

// ProbeFile probes the photo at path.
func ProbeFile(path string) (Info, error) {
	f, err := os.Open(path)
	if err != nil {
		return Info{}, fmt.Errorf("open photo %s: %w", path, err)
	}
	defer f.Close()
	info, err := Probe(f)
	if err != nil {
		return Info{}, fmt.Errorf("probe %s: %w", path, err)
	}
	info.Path = path
	return info, nil
}

// Analyze probes r and grades it against format.
func Analyze(r io.Reader, format printspec.Format) (Report, error) {
	info, err := Probe(r)
	if err != nil {
		return Report{}, err
	}
	return Report{Info: info, Analysis: format.AnalyzeImage(info.Width, info.Height)}, nil
}

// AnalyzeFile probes the photo at path and grades it against format.
func AnalyzeFile(path string, format printspec.Format) (Report, error) {
	info, err := ProbeFile(path)
	if err != nil {
		return Report{}, err
	}
	return Report{Info: info, Analysis: format.AnalyzeImage(info.Width, info.Height)}, nil
}

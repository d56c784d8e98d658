package canvasrenderer

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/ByLCY/bookprint/layout"
	"github.com/ByLCY/bookprint/printspec"
	"github.com/ByLCY/bookprint/renderer"
)

func pngBlob(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 128, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return buf.Bytes()
}

func TestRenderCoverPDF(t *testing.T) {
	res, err := layout.BuildCover(printspec.DefaultFormat(), 24, layout.BuildOptions{
		Guides:     true,
		CoverImage: "built-in:cover",
		Meta:       layout.DocumentMeta{Title: "Our Trip", Author: "Sam"},
	})
	if err != nil {
		t.Fatalf("BuildCover: %v", err)
	}
	r := NewRendererWithOptions(Options{Images: map[string][]byte{"cover": pngBlob(t, 32, 32)}})
	data, err := r.Render(res)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if !bytes.HasPrefix(data, []byte("%PDF")) {
		t.Fatalf("output is not a PDF: %q", data[:min(len(data), 16)])
	}
}

func TestRenderInteriorFromDisk(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "stop1.png"), pngBlob(t, 16, 16), 0o644); err != nil {
		t.Fatalf("write photo: %v", err)
	}
	f := printspec.DefaultFormat()
	res, err := layout.BuildInterior(f, f.BookStructure(1), layout.BuildOptions{Photos: map[int]string{1: "stop1.png"}})
	if err != nil {
		t.Fatalf("BuildInterior: %v", err)
	}
	out := filepath.Join(dir, "proofs", "interior.pdf")
	if err := renderer.RenderFile(NewRenderer(dir), res, out); err != nil {
		t.Fatalf("RenderFile: %v", err)
	}
	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("read pdf: %v", err)
	}
	if !bytes.HasPrefix(data, []byte("%PDF")) {
		t.Fatalf("output is not a PDF")
	}
}

func TestRenderErrors(t *testing.T) {
	r := NewRenderer("")
	if _, err := r.Render(nil); err == nil {
		t.Fatalf("expected error for nil result")
	}
	if _, err := r.Render(&layout.Result{}); err == nil {
		t.Fatalf("expected error for empty result")
	}

	f := printspec.DefaultFormat()
	res, err := layout.BuildInterior(f, f.BookStructure(1), layout.BuildOptions{Photos: map[int]string{1: "missing.png"}})
	if err != nil {
		t.Fatalf("BuildInterior: %v", err)
	}
	// 未设置资源目录时相对路径会被拒绝
	if _, err := r.Render(res); err == nil {
		t.Fatalf("expected error for relative photo path without base dir")
	}
	if _, err := NewRenderer(t.TempDir()).Render(res); err == nil {
		t.Fatalf("expected error for missing photo")
	}
}

func TestLoadImageCaches(t *testing.T) {
	r := NewRendererWithOptions(Options{Images: map[string][]byte{"dot": pngBlob(t, 2, 2), "": {1}}})
	first, err := r.loadImage("builtin:dot")
	if err != nil {
		t.Fatalf("loadImage: %v", err)
	}
	second, err := r.loadImage("builtin:dot")
	if err != nil {
		t.Fatalf("loadImage: %v", err)
	}
	if first != second {
		t.Fatalf("expected cached image to be reused")
	}
	if _, err := r.loadImage("built-in:nope"); err == nil {
		t.Fatalf("expected error for unknown built-in image")
	}
}

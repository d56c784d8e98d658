package layout

import (
	"encoding/json"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/ByLCY/bookprint/printspec"
)

const eps = 1e-9

func findRect(t *testing.T, p Page, name string) Rect {
	t.Helper()
	for _, r := range p.Rects {
		if r.Name == name {
			return r
		}
	}
	t.Fatalf("page %q has no rect %q", p.Label, name)
	return Rect{}
}

func TestBuildCoverPanels(t *testing.T) {
	f := printspec.DefaultFormat()
	res, err := BuildCover(f, 24, BuildOptions{Guides: true, CoverImage: "cover.jpg"})
	if err != nil {
		t.Fatalf("BuildCover: %v", err)
	}
	if len(res.Pages) != 1 {
		t.Fatalf("expected one cover page, got %d", len(res.Pages))
	}
	page := res.Pages[0]
	// 20.5in × 10.25in
	if math.Abs(page.Width-520.7) > eps || math.Abs(page.Height-260.35) > eps {
		t.Fatalf("cover page = %gx%g mm", page.Width, page.Height)
	}

	back := findRect(t, page, "back")
	spine := findRect(t, page, "spine")
	front := findRect(t, page, "front")
	if math.Abs(back.X-0.875*25.4) > eps {
		t.Fatalf("back panel x = %g", back.X)
	}
	if math.Abs(spine.Width-0.25*25.4) > eps {
		t.Fatalf("spine width = %g", spine.Width)
	}
	// 封面右边缘 + 包边 + 出血 = 页面宽度
	if right := front.X + front.Width + (0.75+0.125)*25.4; math.Abs(right-page.Width) > 1e-6 {
		t.Fatalf("front panel ends at %g, page width %g", right, page.Width)
	}
	if len(page.Images) != 1 || page.Images[0].X != front.X {
		t.Fatalf("cover image should sit on the front panel: %+v", page.Images)
	}
	if len(page.Lines) != 4 {
		t.Fatalf("expected 4 fold guides, got %d", len(page.Lines))
	}
	if res.Meta.Creator != "bookprint" || res.Meta.Subject == "" {
		t.Fatalf("meta defaults not applied: %+v", res.Meta)
	}
}

func TestBuildCoverRejectsUnprintablePageCount(t *testing.T) {
	f := printspec.DefaultFormat()
	for _, n := range []int{0, 23, 801} {
		if _, err := BuildCover(f, n, BuildOptions{}); err == nil {
			t.Fatalf("BuildCover(%d) should fail", n)
		}
	}
}

func TestBuildInteriorPlacesPhotos(t *testing.T) {
	f := printspec.DefaultFormat()
	pages := f.BookStructure(10)
	res, err := BuildInterior(f, pages, BuildOptions{Photos: map[int]string{1: "a.jpg", 3: "c.jpg"}})
	if err != nil {
		t.Fatalf("BuildInterior: %v", err)
	}
	if len(res.Pages) != len(pages) {
		t.Fatalf("expected %d proof pages, got %d", len(pages), len(res.Pages))
	}
	withImages := 0
	for i, p := range res.Pages {
		if math.Abs(p.Width-8.75*25.4) > eps {
			t.Fatalf("page %d width = %g", i+1, p.Width)
		}
		if p.Kind != string(pages[i].Type) {
			t.Fatalf("page %d kind = %s, want %s", i+1, p.Kind, pages[i].Type)
		}
		if len(p.Images) > 0 {
			withImages++
			if pages[i].Type != printspec.PageStoryRight {
				t.Fatalf("photo placed on %s page", pages[i].Type)
			}
		}
	}
	if withImages != 2 {
		t.Fatalf("expected 2 pages with photos, got %d", withImages)
	}
	if res.Pages[2].Label != "p.3 story_right stop 1 (right)" {
		t.Fatalf("unexpected label %q", res.Pages[2].Label)
	}
}

func guideLines(p Page, name string) []Line {
	var out []Line
	for _, l := range p.Lines {
		if l.Name == name {
			out = append(out, l)
		}
	}
	return out
}

func TestBuildInteriorGuides(t *testing.T) {
	f := printspec.DefaultFormat()
	res, err := BuildInterior(f, f.BookStructure(0), BuildOptions{Guides: true})
	if err != nil {
		t.Fatalf("BuildInterior: %v", err)
	}
	trim := guideLines(res.Pages[0], "trim")
	if len(trim) != 4 {
		t.Fatalf("expected 4 trim lines, got %d", len(trim))
	}
	bleed := 0.125 * 25.4
	if top := trim[0]; math.Abs(top.X1-bleed) > 1e-6 || math.Abs(top.X2-top.X1-8.5*25.4) > 1e-6 {
		t.Fatalf("trim top edge = %+v", top)
	}
	safety := guideLines(res.Pages[0], "safety")
	if len(safety) != 4 {
		t.Fatalf("expected 4 safety lines, got %d", len(safety))
	}
	if math.Abs(safety[0].X1-0.625*25.4) > eps {
		t.Fatalf("safety x = %g", safety[0].X1)
	}
}

func TestBuildInteriorGuidesStayAbovePhotos(t *testing.T) {
	f := printspec.DefaultFormat()
	res, err := BuildInterior(f, f.BookStructure(3), BuildOptions{Guides: true, Photos: map[int]string{1: "a.jpg"}})
	if err != nil {
		t.Fatalf("BuildInterior: %v", err)
	}
	var p Page
	for _, candidate := range res.Pages {
		if len(candidate.Images) > 0 {
			p = candidate
		}
	}
	if len(p.Images) != 1 || p.Kind != string(printspec.PageStoryRight) {
		t.Fatalf("expected one full-bleed photo on a story_right page, got %+v", p)
	}
	for _, r := range p.Rects {
		if r.Name == "trim" || r.Name == "safety" {
			t.Fatalf("guide %q drawn as a rect, it would sit under the photo", r.Name)
		}
	}
	if len(guideLines(p, "trim")) != 4 || len(guideLines(p, "safety")) != 4 {
		t.Fatalf("photo page is missing guide lines: %+v", p.Lines)
	}
}

func TestBuildInteriorRejectsBrokenNumbering(t *testing.T) {
	f := printspec.DefaultFormat()
	pages := f.BookStructure(10)
	pages[3].PageNumber = 9
	if _, err := BuildInterior(f, pages, BuildOptions{}); err == nil {
		t.Fatalf("expected error for non-contiguous numbering")
	}
	if _, err := BuildInterior(f, nil, BuildOptions{}); err == nil {
		t.Fatalf("expected error for empty structure")
	}
}

func TestWriteDebugJSON(t *testing.T) {
	res, err := BuildCover(printspec.DefaultFormat(), 40, BuildOptions{})
	if err != nil {
		t.Fatalf("BuildCover: %v", err)
	}
	path := filepath.Join(t.TempDir(), "debug", "cover.json")
	if err := WriteDebugJSON(res, path); err != nil {
		t.Fatalf("WriteDebugJSON: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	var back Result
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("debug JSON invalid: %v", err)
	}
	if len(back.Pages) != 1 || back.Pages[0].Kind != "cover" {
		t.Fatalf("unexpected debug content: %+v", back.Pages)
	}
}

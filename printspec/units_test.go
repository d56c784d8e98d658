package printspec

import (
	"math"
	"testing"
)

// TestPtMmRoundTrip 验证 pt↔mm 换算的往返精度（允许极小的浮点误差）。
func TestPtMmRoundTrip(t *testing.T) {
	samples := []float64{0, 0.001, 1, 12, 14.4, 72, 96, 144, 1000}
	for _, pt := range samples {
		mm := pt * PtToMm
		back := mm * MmToPt
		if diff := math.Abs(back - pt); diff > 1e-9 {
			t.Fatalf("pt→mm→pt 往返误差过大: in=%gpt mm=%g back=%g diff=%g", pt, mm, back, diff)
		}
	}
}

func TestLengthConversions(t *testing.T) {
	if got := Inches(1).ToMM(); math.Abs(got-25.4) > 1e-9 {
		t.Fatalf("1in 转 mm 期望 25.4，实际 %g", got)
	}
	if got := Inches(8.5).ToPT(); got != 612 {
		t.Fatalf("8.5in 转 pt 期望 612，实际 %g", got)
	}
	if got := Inches(8.75).ToPX(300); got != 2625 {
		t.Fatalf("8.75in@300dpi 期望 2625px，实际 %d", got)
	}
	px := Length{Value: 2625, Unit: UnitPX}
	if got := px.To(UnitIN, 300); math.Abs(got-8.75) > 1e-9 {
		t.Fatalf("2625px@300dpi 期望 8.75in，实际 %g", got)
	}
	cm := Length{Value: 2.54, Unit: UnitCM}
	if got := cm.To(UnitIN, 0); math.Abs(got-1) > 1e-9 {
		t.Fatalf("2.54cm 期望 1in，实际 %g", got)
	}
}

func TestToPXRoundsUp(t *testing.T) {
	if got := Inches(1.001).ToPX(300); got != 301 {
		t.Fatalf("expected partial pixel to round up to 301, got %d", got)
	}
	// 10.25 * 300 在浮点下是精确值，不能被向上多取一个像素
	if got := Inches(10.25).ToPX(300); got != 3075 {
		t.Fatalf("expected 3075, got %d", got)
	}
}

func TestParseLength(t *testing.T) {
	cases := []struct {
		in   string
		want Length
	}{
		{"8.5in", Length{8.5, UnitIN}},
		{" 3MM ", Length{3, UnitMM}},
		{"2625px", Length{2625, UnitPX}},
		{"12pt", Length{12, UnitPT}},
		{"4", Length{4, UnitNone}},
		{"", Length{}},
	}
	for _, tc := range cases {
		got, err := ParseLength(tc.in)
		if err != nil {
			t.Fatalf("ParseLength(%q) error: %v", tc.in, err)
		}
		if got != tc.want {
			t.Fatalf("ParseLength(%q) = %+v, want %+v", tc.in, got, tc.want)
		}
	}
	if _, err := ParseLength("abcin"); err == nil {
		t.Fatalf("expected error for non-numeric length")
	}
}

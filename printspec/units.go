package printspec

import (
	"math"
	"strconv"
	"strings"
)

// This file defines unit-safe lengths used by the print geometry.

// Unit represents the unit a length was expressed in.
type Unit int

const (
	UnitNone Unit = iota // unit-less numbers like factors
	UnitMM               // millimeters
	UnitCM               // centimeters
	UnitIN               // inches
	UnitPT               // points
	UnitPX               // device pixels, needs a DPI
)

// Conversion constants between inches, mm and pt.
const (
	MmPerInch = 25.4
	PtPerInch = 72.0
	PtToMm    = MmPerInch / PtPerInch
	MmToPt    = PtPerInch / MmPerInch
)

// String returns a short suffix for a Unit value.
func (u Unit) String() string {
	switch u {
	case UnitMM:
		return "mm"
	case UnitCM:
		return "cm"
	case UnitIN:
		return "in"
	case UnitPT:
		return "pt"
	case UnitPX:
		return "px"
	default:
		return ""
	}
}

// Length preserves a numeric value with its unit.
type Length struct {
	Value float64 `json:"value"`
	Unit  Unit    `json:"unit"`
}

// Inches builds an inch length.
func Inches(v float64) Length { return Length{Value: v, Unit: UnitIN} }

func (l Length) IsZero() bool { return l.Value == 0 }

// inches normalises the length to inches. Pixels are resolved against dpi;
// unit-less values are taken as inches because every format constant is
// specified that way.
func (l Length) inches(dpi int) float64 {
	switch l.Unit {
	case UnitMM:
		return l.Value / MmPerInch
	case UnitCM:
		return l.Value * 10 / MmPerInch
	case UnitPT:
		return l.Value / PtPerInch
	case UnitPX:
		if dpi <= 0 {
			return 0
		}
		return l.Value / float64(dpi)
	default:
		return l.Value
	}
}

// To converts this length to target unit. dpi is only consulted when either
// side is UnitPX.
func (l Length) To(target Unit, dpi int) float64 {
	if l.Unit == target {
		return l.Value
	}
	in := l.inches(dpi)
	switch target {
	case UnitMM:
		return in * MmPerInch
	case UnitCM:
		return in * MmPerInch / 10
	case UnitPT:
		return in * PtPerInch
	case UnitPX:
		return in * float64(dpi)
	default:
		return in
	}
}

func (l Length) ToMM() float64 { return l.To(UnitMM, 0) }
func (l Length) ToPT() float64 { return l.To(UnitPT, 0) }

// ToPX converts to whole device pixels, rounding up so artwork never falls
// short of the requested physical size.
func (l Length) ToPX(dpi int) int {
	return int(math.Ceil(roundTiny(l.To(UnitPX, dpi))))
}

// roundTiny strips float noise such as 2624.9999999997 before ceil/floor.
func roundTiny(v float64) float64 {
	r := math.Round(v)
	if math.Abs(v-r) < 1e-9 {
		return r
	}
	return v
}

// ParseLength parses strings like "8.5in", "3mm" or "2625px".
// A missing suffix yields UnitNone.
func ParseLength(value string) (Length, error) {
	v := strings.ToLower(strings.TrimSpace(value))
	if v == "" {
		return Length{}, nil
	}
	unit := UnitNone
	num := v
	for _, suf := range []struct {
		s string
		u Unit
	}{{"mm", UnitMM}, {"cm", UnitCM}, {"in", UnitIN}, {"pt", UnitPT}, {"px", UnitPX}} {
		if strings.HasSuffix(v, suf.s) {
			unit = suf.u
			num = strings.TrimSpace(strings.TrimSuffix(v, suf.s))
			break
		}
	}
	f, err := strconv.ParseFloat(num, 64)
	if err != nil {
		return Length{}, err
	}
	return Length{Value: f, Unit: unit}, nil
}

package printspec

import "fmt"

// SpineWidthEntry maps an inclusive printed-page range to a spine width in inches.
type SpineWidthEntry struct {
	MinPages int     `json:"minPages"`
	MaxPages int     `json:"maxPages"`
	Width    float64 `json:"width"`
}

// SpineTable is the manufacturer casewrap spine table, sorted by page range.
var SpineTable = []SpineWidthEntry{
	{24, 84, 0.25},
	{85, 140, 0.5},
	{141, 168, 0.625},
	{169, 194, 0.688},
	{195, 222, 0.75},
	{223, 250, 0.813},
	{251, 278, 0.875},
	{279, 306, 0.938},
	{307, 334, 1.0},
	{335, 360, 1.063},
	{361, 388, 1.125},
	{389, 416, 1.188},
	{417, 444, 1.25},
	{445, 472, 1.313},
	{473, 500, 1.375},
	{501, 528, 1.438},
	{529, 556, 1.5},
	{557, 582, 1.563},
	{583, 610, 1.625},
	{611, 638, 1.688},
	{639, 666, 1.75},
	{667, 694, 1.813},
	{695, 722, 1.938},
	{723, 750, 2.0},
	{751, 778, 2.063},
	{779, 800, 2.125},
}

// SpineWidth returns the spine width for pageCount using SpineTable.
func SpineWidth(pageCount int) float64 {
	return lookupSpine(SpineTable, pageCount)
}

// lookupSpine 在有序区间表中二分查找；未命中时返回表中最小宽度。
func lookupSpine(table []SpineWidthEntry, pageCount int) float64 {
	lo, hi := 0, len(table)-1
	for lo <= hi {
		mid := (lo + hi) / 2
		e := table[mid]
		switch {
		case pageCount < e.MinPages:
			hi = mid - 1
		case pageCount > e.MaxPages:
			lo = mid + 1
		default:
			return e.Width
		}
	}
	return minSpineWidth(table)
}

func minSpineWidth(table []SpineWidthEntry) float64 {
	if len(table) == 0 {
		return 0
	}
	smallest := table[0].Width
	for _, e := range table[1:] {
		if e.Width < smallest {
			smallest = e.Width
		}
	}
	return smallest
}

// ValidateSpineTable reports the first ordering or coverage problem in table.
// Ranges must be contiguous, non-overlapping, non-decreasing in width and
// cover [minPages, maxPages] exactly.
func ValidateSpineTable(table []SpineWidthEntry, minPages, maxPages int) error {
	if len(table) == 0 {
		return fmt.Errorf("spine table is empty")
	}
	if table[0].MinPages != minPages {
		return fmt.Errorf("spine table starts at %d, want %d", table[0].MinPages, minPages)
	}
	for i, e := range table {
		if e.MinPages > e.MaxPages {
			return fmt.Errorf("spine row %d: min %d > max %d", i, e.MinPages, e.MaxPages)
		}
		if e.Width <= 0 {
			return fmt.Errorf("spine row %d: width %g must be positive", i, e.Width)
		}
		if i == 0 {
			continue
		}
		prev := table[i-1]
		if e.MinPages != prev.MaxPages+1 {
			return fmt.Errorf("spine row %d: range %d-%d does not follow %d-%d", i, e.MinPages, e.MaxPages, prev.MinPages, prev.MaxPages)
		}
		if e.Width < prev.Width {
			return fmt.Errorf("spine row %d: width %g narrower than previous %g", i, e.Width, prev.Width)
		}
	}
	if last := table[len(table)-1]; last.MaxPages != maxPages {
		return fmt.Errorf("spine table ends at %d, want %d", last.MaxPages, maxPages)
	}
	return nil
}

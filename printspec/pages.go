package printspec

// PageType 标识内页在成书中的用途。
type PageType string

const (
	PageTitle      PageType = "title"
	PageDedication PageType = "dedication"
	PageStoryLeft  PageType = "story_left"
	PageStoryRight PageType = "story_right"
	PageEnd        PageType = "end"
	PageBlank      PageType = "blank"
)

// IsStory reports whether the page carries stop content.
func (t PageType) IsStory() bool { return t == PageStoryLeft || t == PageStoryRight }

// BookPage 是页面结构中的一页。页码从 1 开始，奇数页为右页。
type BookPage struct {
	PageNumber int      `json:"pageNumber"`
	Type       PageType `json:"type"`
	StopNumber int      `json:"stopNumber,omitempty"`
	IsLeftPage bool     `json:"isLeftPage"`
}

// 前后附页分档：短书（≤ shortBookMaxStops 个 stop）用 4+4 补足到最少页数，
// 其余用 2+2。这些常量与印厂下单时的页数一一对应，不要改成公式。
const (
	shortBookMaxStops = 9
	shortBookMatter   = 4
	longBookMatter    = 2
	pagesPerStop      = 2
)

// FrontMatterPages returns the number of pages before the first stop.
func FrontMatterPages(stopCount int) int {
	if clampStops(stopCount) <= shortBookMaxStops {
		return shortBookMatter
	}
	return longBookMatter
}

// BackMatterPages returns the padding budget reserved after the last stop.
func BackMatterPages(stopCount int) int {
	return FrontMatterPages(stopCount)
}

// PrintedPageCount returns the physical page count for stopCount stops in
// the default format.
func PrintedPageCount(stopCount int) int {
	return HardcoverSquare.PrintedPageCount(stopCount)
}

// PrintedPageCount returns max(MinPages, front + 2*stops + back).
func (f Format) PrintedPageCount(stopCount int) int {
	stops := clampStops(stopCount)
	total := FrontMatterPages(stops) + pagesPerStop*stops + BackMatterPages(stops)
	return max(f.MinPages, total)
}

// BookStructure lays out every printed page for stopCount stops in the
// default format.
func BookStructure(stopCount int) []BookPage {
	return HardcoverSquare.BookStructure(stopCount)
}

// BookStructure 依次生成：标题页、献词页、（4 页前附时）两页空白、
// 每个 stop 的右页+左页、结束页，最后用空白页补足到 PrintedPageCount。
func (f Format) BookStructure(stopCount int) []BookPage {
	stops := clampStops(stopCount)
	total := f.PrintedPageCount(stops)
	pages := make([]BookPage, 0, total)

	add := func(t PageType, stop int) {
		n := len(pages) + 1
		pages = append(pages, BookPage{
			PageNumber: n,
			Type:       t,
			StopNumber: stop,
			IsLeftPage: n%2 == 0,
		})
	}

	add(PageTitle, 0)
	add(PageDedication, 0)
	for i := 2; i < FrontMatterPages(stops); i++ {
		add(PageBlank, 0)
	}
	for s := 1; s <= stops; s++ {
		add(PageStoryRight, s)
		add(PageStoryLeft, s)
	}
	add(PageEnd, 0)
	for len(pages) < total {
		add(PageBlank, 0)
	}
	return pages
}

// StoryPageCount counts story_left/story_right pages in a structure.
func StoryPageCount(pages []BookPage) int {
	n := 0
	for _, p := range pages {
		if p.Type.IsStory() {
			n++
		}
	}
	return n
}

// Spread 是装订后同时可见的一对页面。Left 或 Right 可能为空（首页、末页）。
type Spread struct {
	Left  *BookPage `json:"left,omitempty"`
	Right *BookPage `json:"right,omitempty"`
}

// Spreads groups a structure into facing pairs: page 1 sits alone on the
// right, then (2,3), (4,5)... and an even last page sits alone on the left.
func Spreads(pages []BookPage) []Spread {
	if len(pages) == 0 {
		return nil
	}
	spreads := make([]Spread, 0, len(pages)/2+1)
	spreads = append(spreads, Spread{Right: &pages[0]})
	for i := 1; i < len(pages); i += 2 {
		s := Spread{Left: &pages[i]}
		if i+1 < len(pages) {
			s.Right = &pages[i+1]
		}
		spreads = append(spreads, s)
	}
	return spreads
}

// MaxStops is the largest stop count whose printed page count still fits
// within MaxPages. Callers taking stop counts from outside should reject
// anything above it before building a structure.
func (f Format) MaxStops() int {
	n := (f.MaxPages - 2*longBookMatter) / pagesPerStop
	if n > shortBookMaxStops {
		return n
	}
	n = (f.MaxPages - 2*shortBookMatter) / pagesPerStop
	return max(0, min(n, shortBookMaxStops))
}

func clampStops(stopCount int) int {
	if stopCount < 0 {
		return 0
	}
	return stopCount
}

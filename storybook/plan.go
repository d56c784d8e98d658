// Package storybook turns a parsed book-plan document into a validated Plan
// and assembles the print manifest (page count, structure, cover geometry,
// photo checks and pricing) an order needs before it goes to print.
package storybook

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/ByLCY/bookprint/binding"
	"github.com/ByLCY/bookprint/dsl"
	"github.com/ByLCY/bookprint/printspec"
)

var (
	ErrUnknownProperty   = errors.New("storybook: unknown property")
	ErrDuplicateProperty = errors.New("storybook: duplicate property")
	ErrInvalidValue      = errors.New("storybook: invalid value")
	ErrUnknownFormat     = errors.New("storybook: unknown format")
	ErrNoStops           = errors.New("storybook: plan has no stops")
)

// Stop is one location of the trip; it becomes a two-page spread.
type Stop struct {
	Number  int    `json:"number"`
	Title   string `json:"title,omitempty"`
	Photo   string `json:"photo,omitempty"`
	Caption string `json:"caption,omitempty"`
	// Width/Height 为声明的照片像素尺寸，0 表示需要读取照片文件。
	Width  int `json:"width,omitempty"`
	Height int `json:"height,omitempty"`
}

// Plan is a validated book plan with all placeholders resolved.
type Plan struct {
	Title      string           `json:"title"`
	Author     string           `json:"author,omitempty"`
	Dedication string           `json:"dedication,omitempty"`
	CoverImage string           `json:"cover,omitempty"`
	Format     printspec.Format `json:"format"`
	Stops      []Stop           `json:"stops"`
	// Unresolved 收集数据中找不到的占位符路径，按出现顺序去重。
	Unresolved []string `json:"unresolved,omitempty"`
}

var bookKeys = map[string]bool{
	"author":     true,
	"dedication": true,
	"cover":      true,
	"format":     true,
	"stops":      true,
}

var stopKeys = map[string]bool{
	"photo":   true,
	"caption": true,
	"width":   true,
	"height":  true,
}

// FromDocument validates doc and interpolates its strings against data
// (decoded JSON order data, may be nil).
func FromDocument(doc *dsl.Document, data any) (*Plan, error) {
	if doc == nil {
		return nil, fmt.Errorf("storybook: document is nil")
	}
	b := &planBuilder{data: data, seen: map[string]bool{}}
	plan := &Plan{
		Title:  b.text(string(doc.Title)),
		Format: printspec.DefaultFormat(),
	}

	declaredStops := -1
	seen := map[string]bool{}
	for _, prop := range doc.Properties() {
		if !bookKeys[prop.Key] {
			return nil, fmt.Errorf("%w %q at %s", ErrUnknownProperty, prop.Key, prop.Pos)
		}
		if seen[prop.Key] {
			return nil, fmt.Errorf("%w %q at %s", ErrDuplicateProperty, prop.Key, prop.Pos)
		}
		seen[prop.Key] = true

		switch prop.Key {
		case "author":
			plan.Author = b.text(prop.Value.Text())
		case "dedication":
			plan.Dedication = b.text(prop.Value.Text())
		case "cover":
			plan.CoverImage = b.text(prop.Value.Text())
		case "format":
			f, ok := printspec.LookupFormat(b.text(prop.Value.Text()))
			if !ok {
				return nil, fmt.Errorf("%w %q at %s", ErrUnknownFormat, prop.Value.Text(), prop.Pos)
			}
			plan.Format = f
		case "stops":
			n, err := strconv.Atoi(prop.Value.Text())
			if err != nil || n < 0 || prop.Value.Kind() != "number" {
				return nil, fmt.Errorf("%w: stops must be a non-negative integer, got %q at %s", ErrInvalidValue, prop.Value.Text(), prop.Pos)
			}
			declaredStops = n
		}
	}

	for i, s := range doc.Stops() {
		stop, err := b.stop(i+1, s, plan.Format)
		if err != nil {
			return nil, err
		}
		plan.Stops = append(plan.Stops, stop)
	}

	if limit := plan.Format.MaxStops(); max(declaredStops, len(plan.Stops)) > limit {
		return nil, fmt.Errorf("%w: %d stops exceed the %d-stop limit of %s", ErrInvalidValue, max(declaredStops, len(plan.Stops)), limit, plan.Format.Name)
	}
	switch {
	case declaredStops >= 0 && declaredStops < len(plan.Stops):
		return nil, fmt.Errorf("%w: stops: %d but %d stop blocks declared", ErrInvalidValue, declaredStops, len(plan.Stops))
	case declaredStops > len(plan.Stops):
		// 只给出数量时补齐空白 stop，照片稍后上传
		for n := len(plan.Stops) + 1; n <= declaredStops; n++ {
			plan.Stops = append(plan.Stops, Stop{Number: n})
		}
	}
	if len(plan.Stops) == 0 {
		return nil, ErrNoStops
	}
	plan.Unresolved = b.unresolved
	return plan, nil
}

// StopCount returns the number of stops in the plan.
func (p *Plan) StopCount() int { return len(p.Stops) }

type planBuilder struct {
	data       any
	seen       map[string]bool
	unresolved []string
}

func (b *planBuilder) text(s string) string {
	for _, path := range binding.Unresolved(s, b.data) {
		if !b.seen[path] {
			b.seen[path] = true
			b.unresolved = append(b.unresolved, path)
		}
	}
	return binding.Interpolate(s, b.data)
}

func (b *planBuilder) stop(number int, s *dsl.Stop, f printspec.Format) (Stop, error) {
	stop := Stop{Number: number, Title: b.text(string(s.Title))}
	seen := map[string]bool{}
	for _, prop := range s.Properties {
		if !stopKeys[prop.Key] {
			return Stop{}, fmt.Errorf("%w %q in stop %d at %s", ErrUnknownProperty, prop.Key, number, prop.Pos)
		}
		if seen[prop.Key] {
			return Stop{}, fmt.Errorf("%w %q in stop %d at %s", ErrDuplicateProperty, prop.Key, number, prop.Pos)
		}
		seen[prop.Key] = true

		switch prop.Key {
		case "photo":
			stop.Photo = b.text(prop.Value.Text())
		case "caption":
			stop.Caption = b.text(prop.Value.Text())
		case "width", "height":
			px, err := pixels(prop.Value, f.DPI)
			if err != nil {
				return Stop{}, fmt.Errorf("%w: %s in stop %d at %s: %v", ErrInvalidValue, prop.Key, number, prop.Pos, err)
			}
			if prop.Key == "width" {
				stop.Width = px
			} else {
				stop.Height = px
			}
		}
	}
	if (stop.Width == 0) != (stop.Height == 0) {
		return Stop{}, fmt.Errorf("%w: stop %d declares only one of width/height", ErrInvalidValue, number)
	}
	return stop, nil
}

// pixels accepts a bare pixel count or a physical length converted at dpi.
func pixels(v *dsl.Value, dpi int) (int, error) {
	if v.Kind() != "number" {
		return 0, fmt.Errorf("expected a number, got %s %q", v.Kind(), v.Text())
	}
	l, err := printspec.ParseLength(v.Text())
	if err != nil {
		return 0, err
	}
	if l.Value <= 0 {
		return 0, fmt.Errorf("must be positive, got %q", v.Text())
	}
	switch l.Unit {
	case printspec.UnitNone, printspec.UnitPX:
		if l.Value != math.Trunc(l.Value) {
			return 0, fmt.Errorf("pixel count must be whole, got %q", v.Text())
		}
		return int(l.Value), nil
	default:
		return l.ToPX(dpi), nil
	}
}

// PhotoPaths maps stop numbers to their photo path, skipping stops without one.
func (p *Plan) PhotoPaths() map[int]string {
	out := make(map[int]string, len(p.Stops))
	for _, s := range p.Stops {
		if strings.TrimSpace(s.Photo) != "" {
			out[s.Number] = s.Photo
		}
	}
	return out
}

package storybook

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/ByLCY/bookprint/metrics"
	"github.com/ByLCY/bookprint/photo"
	"github.com/ByLCY/bookprint/printspec"
)

// Photo sources recorded on each PhotoCheck.
const (
	SourceDeclared = "declared" // width/height written in the plan
	SourceProbed   = "probed"   // read from the photo file header
	SourceMissing  = "missing"  // no photo yet, or it could not be read
)

// PhotoCheck is the print verdict for one stop photo (or the cover).
type PhotoCheck struct {
	Stop     int                      `json:"stop"` // 0 表示封面
	Path     string                   `json:"path,omitempty"`
	Source   string                   `json:"source"`
	MIME     string                   `json:"mime,omitempty"`
	Analysis *printspec.ImageAnalysis `json:"analysis,omitempty"`
	Error    string                   `json:"error,omitempty"`
}

// Manifest is everything print fulfilment needs to know about one book.
type Manifest struct {
	ID           string               `json:"id"`
	CreatedAt    time.Time            `json:"createdAt"`
	Title        string               `json:"title"`
	Author       string               `json:"author,omitempty"`
	Dedication   string               `json:"dedication,omitempty"`
	Format       printspec.Format     `json:"format"`
	StopCount    int                  `json:"stopCount"`
	PageCount    int                  `json:"pageCount"`
	FrontMatter  int                  `json:"frontMatterPages"`
	BackMatter   int                  `json:"backMatterPages"`
	Cover        printspec.Cover      `json:"cover"`
	Pages        []printspec.BookPage `json:"pages"`
	Photos       []PhotoCheck         `json:"photos"`
	CoverPhoto   *PhotoCheck          `json:"coverPhoto,omitempty"`
	Pricing      printspec.Pricing    `json:"pricing"`
	MarginCents  int64                `json:"estimatedMarginCents"`
	ReadyToPrint bool                 `json:"readyToPrint"`
	Warnings     []string             `json:"warnings,omitempty"`
}

// Options controls Assemble.
type Options struct {
	// BaseDir resolves relative photo paths; empty means the working directory.
	BaseDir string
	// Pricing overrides printspec.DefaultPricing when non-nil.
	Pricing *printspec.Pricing
	// Now is used for CreatedAt; defaults to time.Now.
	Now func() time.Time
}

// Assemble computes the print manifest for plan. Photos are probed from disk
// unless the plan declares their pixel size; unreadable photos become
// warnings and keep the manifest from being ready to print.
func Assemble(ctx context.Context, plan *Plan, opts Options) (*Manifest, error) {
	if plan == nil {
		return nil, fmt.Errorf("storybook: plan is nil")
	}
	if len(plan.Stops) == 0 {
		return nil, ErrNoStops
	}
	f := plan.Format
	stops := plan.StopCount()
	pageCount := f.PrintedPageCount(stops)
	if pageCount > f.MaxPages {
		return nil, fmt.Errorf("storybook: %d stops need %d pages, format %s allows at most %d", stops, pageCount, f.Name, f.MaxPages)
	}

	now := time.Now
	if opts.Now != nil {
		now = opts.Now
	}
	pricing := printspec.DefaultPricing
	if opts.Pricing != nil {
		pricing = *opts.Pricing
	}

	m := &Manifest{
		ID:          uuid.NewString(),
		CreatedAt:   now().UTC(),
		Title:       plan.Title,
		Author:      plan.Author,
		Dedication:  plan.Dedication,
		Format:      f,
		StopCount:   stops,
		PageCount:   pageCount,
		FrontMatter: printspec.FrontMatterPages(stops),
		BackMatter:  printspec.BackMatterPages(stops),
		Cover:       f.Cover(pageCount),
		Pages:       f.BookStructure(stops),
		Pricing:     pricing,
		MarginCents: pricing.EstimatedMarginCents(),
	}
	metrics.IncComputation("manifest")

	logger := log.With().Str("manifest", m.ID).Str("title", m.Title).Logger()
	logger.Info().Int("stops", stops).Int("pages", pageCount).Float64("spine_in", m.Cover.SpineWidth).Msg("assembling book manifest")

	for _, path := range plan.Unresolved {
		m.Warnings = append(m.Warnings, fmt.Sprintf("placeholder ${%s} has no value", path))
	}

	ready := true
	for _, stop := range plan.Stops {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		check := checkPhoto(f, opts.BaseDir, stop.Number, stop.Photo, stop.Width, stop.Height)
		if !check.printable() {
			ready = false
			m.Warnings = append(m.Warnings, check.warning())
			logger.Warn().Int("stop", stop.Number).Str("path", check.Path).Str("source", check.Source).Msg("stop photo not printable")
		}
		m.Photos = append(m.Photos, check)
	}

	if plan.CoverImage != "" {
		check := checkPhoto(f, opts.BaseDir, 0, plan.CoverImage, 0, 0)
		if !check.printable() {
			ready = false
			m.Warnings = append(m.Warnings, check.warning())
		}
		m.CoverPhoto = &check
	}

	m.ReadyToPrint = ready
	logger.Debug().Bool("ready", ready).Int("warnings", len(m.Warnings)).Msg("manifest assembled")
	return m, nil
}

func checkPhoto(f printspec.Format, baseDir string, stop int, path string, width, height int) PhotoCheck {
	check := PhotoCheck{Stop: stop, Path: path}
	switch {
	case width > 0 && height > 0:
		check.Source = SourceDeclared
		a := f.AnalyzeImage(width, height)
		check.Analysis = &a
	case path == "":
		check.Source = SourceMissing
		return check
	default:
		full := path
		if baseDir != "" && !filepath.IsAbs(full) {
			full = filepath.Join(baseDir, full)
		}
		report, err := photo.AnalyzeFile(full, f)
		if err != nil {
			check.Source = SourceMissing
			check.Error = err.Error()
			return check
		}
		check.Source = SourceProbed
		check.MIME = report.Info.MIME
		check.Analysis = &report.Analysis
	}
	metrics.IncImageAnalysis(string(check.Analysis.Status))
	return check
}

func (c PhotoCheck) printable() bool {
	return c.Analysis != nil && c.Analysis.Status.Printable()
}

func (c PhotoCheck) warning() string {
	subject := fmt.Sprintf("stop %d", c.Stop)
	if c.Stop == 0 {
		subject = "cover"
	}
	switch {
	case c.Error != "":
		return fmt.Sprintf("%s photo: %s", subject, c.Error)
	case c.Analysis == nil:
		return fmt.Sprintf("%s has no photo", subject)
	default:
		return fmt.Sprintf("%s photo %dx%d: %s", subject, c.Analysis.Width, c.Analysis.Height, c.Analysis.Message)
	}
}

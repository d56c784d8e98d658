package cmd

import (
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/ByLCY/bookprint/layout"
	"github.com/ByLCY/bookprint/metrics"
	"github.com/ByLCY/bookprint/printspec"
	"github.com/ByLCY/bookprint/renderer"
	canvasrenderer "github.com/ByLCY/bookprint/renderer/canvas"
)

func newSpineCmd(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "spine <pages>",
		Short: "Look up the spine width for a printed page count",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pages, err := parseIntArg("pages", args[0])
			if err != nil {
				return err
			}
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			f := cfg.PrintFormat()
			width := printspec.SpineWidth(pages)
			metrics.IncComputation("spine")
			if pages < f.MinPages || pages > f.MaxPages {
				log.Warn().Int("pages", pages).Msgf("page count outside printable range %d-%d", f.MinPages, f.MaxPages)
			}
			if ctx.jsonFlag {
				return writeJSON(cmd, map[string]any{"pageCount": pages, "spineWidth": width})
			}
			printKV(cmd, [][]string{
				{"Pages", itoa(pages)},
				{"Spine width", inches(width)},
			})
			return nil
		},
	}
}

func newCoverCmd(ctx *commandContext) *cobra.Command {
	var pdfPath string
	var guides bool

	cmd := &cobra.Command{
		Use:   "cover <pages>",
		Short: "Compute cover wrap dimensions, optionally writing a template PDF",
		Example: `  bookprint cover 24
  bookprint cover 120 --pdf cover-template.pdf`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pages, err := parseIntArg("pages", args[0])
			if err != nil {
				return err
			}
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			f := cfg.PrintFormat()
			c := f.Cover(pages)
			metrics.IncComputation("cover")

			if pdfPath != "" {
				res, err := layout.BuildCover(f, pages, layout.BuildOptions{
					Guides: guides,
					Meta:   layout.DocumentMeta{Title: fmt.Sprintf("Cover template, %d pages", pages)},
				})
				if err != nil {
					return err
				}
				if err := renderer.RenderFile(canvasrenderer.NewRenderer(""), res, pdfPath); err != nil {
					return err
				}
				metrics.IncProof("cover")
				log.Info().Str("path", pdfPath).Msg("cover template written")
			}

			if ctx.jsonFlag {
				return writeJSON(cmd, map[string]any{"pageCount": pages, "cover": c, "panels": f.Panels(c)})
			}
			printKV(cmd, [][]string{
				{"Pages", itoa(pages)},
				{"Spine width", inches(c.SpineWidth)},
				{"Width", inches(c.Width)},
				{"Height", inches(c.Height)},
				{"Pixels", fmt.Sprintf("%d × %d", c.WidthPx, c.HeightPx)},
				{"Points", fmt.Sprintf("%s × %s", points(c.WidthPts), points(c.HeightPts))},
				{"Back cover x", points(c.BackCoverX)},
				{"Spine x", points(c.SpineX)},
				{"Front cover x", points(c.FrontCoverX)},
			})
			return nil
		},
	}
	cmd.Flags().StringVar(&pdfPath, "pdf", "", "Write a cover template PDF to this path")
	cmd.Flags().BoolVar(&guides, "guides", true, "Draw fold guides on the template")
	return cmd
}

func newPagesCmd(ctx *commandContext) *cobra.Command {
	var structure bool

	cmd := &cobra.Command{
		Use:   "pages <stops>",
		Short: "Compute the printed page count (and structure) for a number of stops",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			stops, err := parseIntArg("stops", args[0])
			if err != nil {
				return err
			}
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			f := cfg.PrintFormat()
			if limit := f.MaxStops(); stops < 0 || stops > limit {
				return fmt.Errorf("stops must be between 0 and %d for %s, got %d", limit, f.Name, stops)
			}
			count := f.PrintedPageCount(stops)
			metrics.IncComputation("pages")

			var pages []printspec.BookPage
			if structure {
				pages = f.BookStructure(stops)
				metrics.IncComputation("structure")
			}

			if ctx.jsonFlag {
				out := map[string]any{
					"stopCount":        stops,
					"pageCount":        count,
					"frontMatterPages": printspec.FrontMatterPages(stops),
					"backMatterPages":  printspec.BackMatterPages(stops),
				}
				if structure {
					out["pages"] = pages
				}
				return writeJSON(cmd, out)
			}

			printKV(cmd, [][]string{
				{"Stops", itoa(stops)},
				{"Printed pages", itoa(count)},
				{"Front matter", itoa(printspec.FrontMatterPages(stops))},
				{"Back matter", itoa(printspec.BackMatterPages(stops))},
			})
			if structure {
				rows := make([][]string, 0, len(pages))
				for _, p := range pages {
					stop, side := "", "right"
					if p.StopNumber > 0 {
						stop = itoa(p.StopNumber)
					}
					if p.IsLeftPage {
						side = "left"
					}
					rows = append(rows, []string{itoa(p.PageNumber), string(p.Type), stop, side})
				}
				fmt.Fprintln(cmd.OutOrStdout(), renderTable(
					[]string{"Page", "Type", "Stop", "Side"}, rows,
					[]columnAlignment{alignRight, alignLeft, alignRight, alignLeft},
				))
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&structure, "structure", false, "Also list every page")
	return cmd
}

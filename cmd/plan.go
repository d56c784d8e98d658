package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/ByLCY/bookprint/dsl"
	"github.com/ByLCY/bookprint/layout"
	"github.com/ByLCY/bookprint/metrics"
	"github.com/ByLCY/bookprint/photo"
	"github.com/ByLCY/bookprint/renderer"
	canvasrenderer "github.com/ByLCY/bookprint/renderer/canvas"
	"github.com/ByLCY/bookprint/storybook"
)

func newPlanCmd(ctx *commandContext) *cobra.Command {
	var (
		dataPath string
		outDir   string
		proofs   bool
		guides   bool
		debug    bool
	)

	cmd := &cobra.Command{
		Use:   "plan <file.book>",
		Short: "Assemble a book plan into a print manifest and proof PDFs",
		Long: `Parses a book plan, fills ${...} placeholders from the order data,
computes page count, structure and cover geometry, checks every photo and
writes manifest.json (plus cover/interior proofs with --proofs) to the
output directory. Photo paths are relative to the plan file.`,
		Example: `  bookprint plan trip.book --data order.json --proofs`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			planPath := args[0]
			doc, err := dsl.ParseFile(planPath)
			if err != nil {
				return fmt.Errorf("parse plan: %w", err)
			}

			var data any
			if dataPath != "" {
				raw, err := os.ReadFile(dataPath)
				if err != nil {
					return fmt.Errorf("read order data: %w", err)
				}
				if err := json.Unmarshal(raw, &data); err != nil {
					return fmt.Errorf("parse order data %s: %w", dataPath, err)
				}
			}

			plan, err := storybook.FromDocument(doc, data)
			if err != nil {
				return err
			}
			baseDir := filepath.Dir(planPath)
			pricing := cfg.Pricing
			manifest, err := storybook.Assemble(cmd.Context(), plan, storybook.Options{BaseDir: baseDir, Pricing: &pricing})
			if err != nil {
				return err
			}

			dir := strings.TrimSpace(outDir)
			if dir == "" {
				dir = filepath.Join(cfg.Output.Dir, manifest.ID)
			}
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return fmt.Errorf("create output directory: %w", err)
			}
			raw, err := json.MarshalIndent(manifest, "", "  ")
			if err != nil {
				return err
			}
			if err := os.WriteFile(filepath.Join(dir, "manifest.json"), raw, 0o644); err != nil {
				return fmt.Errorf("write manifest: %w", err)
			}

			if proofs {
				if err := writeProofs(plan, manifest, baseDir, dir, guides, debug); err != nil {
					return err
				}
			}
			log.Info().Str("manifest", manifest.ID).Str("dir", dir).Bool("ready", manifest.ReadyToPrint).Msg("plan assembled")

			if ctx.jsonFlag {
				return writeJSON(cmd, manifest)
			}
			ready := "yes"
			if !manifest.ReadyToPrint {
				ready = "no"
			}
			printKV(cmd, [][]string{
				{"Manifest", manifest.ID},
				{"Title", manifest.Title},
				{"Stops", itoa(manifest.StopCount)},
				{"Printed pages", itoa(manifest.PageCount)},
				{"Spine width", inches(manifest.Cover.SpineWidth)},
				{"Cover", fmt.Sprintf("%s × %s", inches(manifest.Cover.Width), inches(manifest.Cover.Height))},
				{"Ready to print", ready},
				{"Output", dir},
			})
			for _, w := range manifest.Warnings {
				fmt.Fprintf(cmd.OutOrStdout(), "warning: %s\n", w)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&dataPath, "data", "", "JSON order data for ${...} placeholders")
	cmd.Flags().StringVarP(&outDir, "out", "o", "", "Output directory (default: <output.dir>/<manifest id>)")
	cmd.Flags().BoolVar(&proofs, "proofs", false, "Render cover.pdf and interior.pdf proofs")
	cmd.Flags().BoolVar(&guides, "guides", true, "Draw trim, safety and fold guides on proofs")
	cmd.Flags().BoolVar(&debug, "debug-layout", false, "Also write the proof layouts as JSON")
	return cmd
}

func writeProofs(plan *storybook.Plan, m *storybook.Manifest, baseDir, dir string, guides, debug bool) error {
	meta := layout.DocumentMeta{Title: m.Title, Author: m.Author, Keywords: []string{"storybook", m.ID}}
	r := canvasrenderer.NewRenderer(baseDir)

	// 声明了尺寸的照片也要放进校样；只有读不出来的才跳过
	photos := map[int]string{}
	for _, check := range m.Photos {
		if path := proofImage(baseDir, check); path != "" {
			photos[check.Stop] = path
		}
	}
	coverImage := ""
	if m.CoverPhoto != nil {
		coverImage = proofImage(baseDir, *m.CoverPhoto)
	}

	cover, err := layout.BuildCover(m.Format, m.PageCount, layout.BuildOptions{Guides: guides, CoverImage: coverImage, Meta: meta})
	if err != nil {
		return err
	}
	interior, err := layout.BuildInterior(m.Format, m.Pages, layout.BuildOptions{Guides: guides, Photos: photos, Meta: meta})
	if err != nil {
		return err
	}

	for name, res := range map[string]*layout.Result{"cover": cover, "interior": interior} {
		if err := renderer.RenderFile(r, res, filepath.Join(dir, name+".pdf")); err != nil {
			return fmt.Errorf("%s proof: %w", name, err)
		}
		metrics.IncProof(name)
		if debug {
			if err := layout.WriteDebugJSON(res, filepath.Join(dir, name+".layout.json")); err != nil {
				return fmt.Errorf("%s layout: %w", name, err)
			}
		}
	}
	return nil
}

// proofImage returns the photo path to place in a proof, or "" when the
// check has no file or the file cannot be decoded.
func proofImage(baseDir string, check storybook.PhotoCheck) string {
	switch {
	case check.Path == "" || check.Source == storybook.SourceMissing:
		return ""
	case check.Source == storybook.SourceProbed:
		return check.Path
	}
	full := check.Path
	if baseDir != "" && !filepath.IsAbs(full) {
		full = filepath.Join(baseDir, full)
	}
	if _, err := photo.ProbeFile(full); err != nil {
		log.Warn().Err(err).Int("stop", check.Stop).Str("path", check.Path).Msg("photo left out of proof")
		return ""
	}
	return check.Path
}

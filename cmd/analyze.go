package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/ByLCY/bookprint/metrics"
	"github.com/ByLCY/bookprint/photo"
	"github.com/ByLCY/bookprint/printspec"
)

type analyzeResult struct {
	Source    string                  `json:"source"`
	MIME      string                  `json:"mime,omitempty"`
	Analysis  printspec.ImageAnalysis `json:"analysis"`
	Printable bool                    `json:"printable"`
}

func newAnalyzeCmd(ctx *commandContext) *cobra.Command {
	var size string

	cmd := &cobra.Command{
		Use:   "analyze [photo...]",
		Short: "Check whether photos are large enough to print",
		Example: `  bookprint analyze beach.jpg zoo.png
  bookprint analyze --size 1800x1200`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if size == "" && len(args) == 0 {
				return fmt.Errorf("pass photo files or --size WIDTHxHEIGHT")
			}
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			f := cfg.PrintFormat()

			var results []analyzeResult
			if size != "" {
				w, h, err := parseSize(size)
				if err != nil {
					return err
				}
				results = append(results, newAnalyzeResult(size, "", f.AnalyzeImage(w, h)))
			}
			for _, path := range args {
				report, err := photo.AnalyzeFile(path, f)
				if err != nil {
					return err
				}
				results = append(results, newAnalyzeResult(path, report.Info.MIME, report.Analysis))
			}

			if ctx.jsonFlag {
				return writeJSON(cmd, results)
			}
			rows := make([][]string, 0, len(results))
			for _, r := range results {
				a := r.Analysis
				rows = append(rows, []string{
					r.Source,
					fmt.Sprintf("%d×%d", a.Width, a.Height),
					itoa(a.EffectiveDPI),
					string(a.Status),
					strconv.FormatFloat(a.ScaleFactor, 'f', 2, 64),
					a.Message,
				})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"Photo", "Size", "DPI", "Status", "Scale", "Message"}, rows,
				[]columnAlignment{alignLeft, alignRight, alignRight, alignLeft, alignRight, alignLeft},
			))
			return nil
		},
	}
	cmd.Flags().StringVar(&size, "size", "", "Analyze a WIDTHxHEIGHT pixel size without a file")
	return cmd
}

func newAnalyzeResult(source, mime string, a printspec.ImageAnalysis) analyzeResult {
	metrics.IncImageAnalysis(string(a.Status))
	log.Debug().Str("source", source).Str("status", string(a.Status)).Int("dpi", a.EffectiveDPI).Msg("photo analyzed")
	return analyzeResult{Source: source, MIME: mime, Analysis: a, Printable: a.Status.Printable()}
}

func parseSize(raw string) (int, int, error) {
	w, h, ok := strings.Cut(strings.ToLower(raw), "x")
	if !ok {
		return 0, 0, fmt.Errorf("size must look like 2625x2625, got %q", raw)
	}
	width, err := parseIntArg("width", strings.TrimSpace(w))
	if err != nil {
		return 0, 0, err
	}
	height, err := parseIntArg("height", strings.TrimSpace(h))
	if err != nil {
		return 0, 0, err
	}
	return width, height, nil
}

package cmd

import (
	"strings"
	"sync"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/ByLCY/bookprint/config"
	"github.com/ByLCY/bookprint/logging"
)

const skipConfigAnnotation = "skipConfigLoad"

type commandContext struct {
	configFlag string
	jsonFlag   bool

	configOnce sync.Once
	config     *config.Config
	configErr  error
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		cfg, _, _, err := config.Load(strings.TrimSpace(c.configFlag))
		if err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

// NewRootCmd builds the bookprint command tree.
func NewRootCmd() *cobra.Command {
	ctx := &commandContext{}

	cmd := &cobra.Command{
		Use:   "bookprint",
		Short: "Print geometry for 8.5\"×8.5\" hardcover photo storybooks",
		Long: `bookprint computes everything a print-on-demand order needs for a
hardcover trip storybook: spine width, cover wrap dimensions, printed page
count, page-by-page structure and photo print readiness.

It can also assemble a book plan into a print manifest with proof PDFs,
or serve the same calculations over a JSON HTTP API.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Load .env file if present (ignore errors)
			_ = godotenv.Load()
			if cmd.Annotations[skipConfigAnnotation] == "true" {
				return nil
			}
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			return logging.Init(logging.Options{
				Level:      cfg.Logging.Level,
				Format:     cfg.Logging.Format,
				File:       cfg.Logging.File,
				MaxSizeMB:  cfg.Logging.MaxSizeMB,
				MaxBackups: cfg.Logging.MaxBackups,
				MaxAgeDays: cfg.Logging.MaxAgeDays,
				Compress:   cfg.Logging.Compress,
			})
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	cmd.PersistentFlags().StringVarP(&ctx.configFlag, "config", "c", "", "Configuration file path")
	cmd.PersistentFlags().BoolVar(&ctx.jsonFlag, "json", false, "Print machine-readable JSON instead of tables")

	cmd.AddCommand(newSpineCmd(ctx))
	cmd.AddCommand(newCoverCmd(ctx))
	cmd.AddCommand(newPagesCmd(ctx))
	cmd.AddCommand(newAnalyzeCmd(ctx))
	cmd.AddCommand(newPlanCmd(ctx))
	cmd.AddCommand(newServeCmd(ctx))
	cmd.AddCommand(newConfigCmd(ctx))

	return cmd
}

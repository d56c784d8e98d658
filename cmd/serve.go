package cmd

import (
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/ByLCY/bookprint/server"
)

func newServeCmd(ctx *commandContext) *cobra.Command {
	var bind string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the print geometry JSON API",
		Long: `Starts the HTTP API (spine, cover, pages, structure, image analysis,
cover template PDFs, pricing) plus /healthcheck and Prometheus /metrics.`,
		Example: `  # Listen on the configured address
  bookprint serve

  # Listen on all interfaces
  bookprint serve --bind :8730`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			addr := cfg.Server.Bind
			if strings.TrimSpace(bind) != "" {
				addr = bind
			}
			srv := server.New(server.Options{
				Format:         cfg.PrintFormat(),
				Pricing:        cfg.Pricing,
				MaxUploadBytes: int64(cfg.Server.MaxUploadMB) << 20,
			})
			timeout := time.Duration(cfg.Server.ShutdownTimeoutSeconds) * time.Second
			return srv.ListenAndServe(cmd.Context(), addr, timeout)
		},
	}
	cmd.Flags().StringVar(&bind, "bind", "", "Listen address (overrides server.bind)")
	return cmd
}

package main

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/diagramlab/erd-codegen/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	Long: `Serve exposes the pipeline over HTTP:

  POST /api/parse      multipart image upload, returns the schema document
  POST /api/generate   schema document plus target stack, returns a download URL
  GET  /downloads/:name  fetch a generated project archive
  GET  /health         liveness check`,
	RunE: func(cmd *cobra.Command, args []string) error {
		pipeline, err := newPipeline()
		if err != nil {
			return err
		}
		generator, err := newGenerator()
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		srv := server.New(cfg.Server, pipeline, generator, logger)
		return srv.Run(ctx)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

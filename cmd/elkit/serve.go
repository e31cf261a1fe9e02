package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/vango-dev/elkit/internal/preview"
	"github.com/vango-dev/elkit/pkg/render"
)

func serveCmd(flags *globalFlags) *cobra.Command {
	var (
		port int
		host string
	)

	cmd := &cobra.Command{
		Use:   "serve <layout.json>",
		Short: "Serve a layout as a live page",
		Long: `Serve a layout as a live page.

Nodes posted to /nodes are appended to the page on the next frame
and pushed to open browsers. Prometheus metrics are served at
/metrics.

Examples:
  elkit serve page.json
  elkit serve page.json --port=8080
  curl -d '{"element": {"type": "p", "text": "hi"}}' localhost:3000/nodes`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := flags.loadConfig()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("port") {
				cfg.Server.Port = port
			}
			if host != "" {
				cfg.Server.Host = host
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			doc, err := readLayout(args[0])
			if err != nil {
				return err
			}

			srv, err := preview.New(preview.Options{
				Layout:    doc,
				Renderer:  render.NewRenderer(render.Config{Pretty: cfg.Render.Pretty, Indent: cfg.Render.Indent}),
				FPS:       cfg.Frame.FPS,
				Namespace: cfg.Metrics.Namespace,
				Logger:    flags.logger(),
			})
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			success("Serving %s", args[0])
			info("Local: %s", fmt.Sprintf("http://%s", cfg.Address()))
			return srv.ListenAndServe(ctx, cfg.Address())
		},
	}

	cmd.Flags().IntVarP(&port, "port", "p", 0, "Port to run on (default from elkit.json)")
	cmd.Flags().StringVarP(&host, "host", "H", "", "Host to bind to (default from elkit.json)")

	return cmd
}

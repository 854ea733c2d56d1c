package main

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/ashokshau/qrframe/internal/config"
	"github.com/ashokshau/qrframe/internal/server"
)

func newServeCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the frame loop and serve frames over HTTP",
		Long: `Run the frame loop and serve it over HTTP:

  GET /api/frame        latest frame as PNG
  GET /api/frame.svg    latest frame as SVG
  GET /api/frame/meta   latest frame number, text and symbol parameters
  GET /api/frames       frame log (?limit=N for the last N records)
  GET /api/qr           encode ?text= (&level, &format=png|svg|bmp, &border, &scale, &fg, &bg)
  GET /healthz`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("display") {
				// The HTTP surface replaces the terminal unless the file,
				// environment or flags ask for one.
				c.cfg.Display = config.DisplayNone
			}
			changed, flagCfg, logger, err := c.loadLoopConfig(cmd)
			if err != nil {
				return err
			}

			latest := &server.Latest{}
			l, err := newLoop(c.cfg, cmd.OutOrStdout(), logger, latest)
			if err != nil {
				return err
			}
			if c.cfg.Watch {
				if path := c.configPath(); path != "" && config.FileExists(path) {
					l.watch(path, flagCfg, changed)
				}
			}

			if c.cfg.LogLevel != "debug" {
				gin.SetMode(gin.ReleaseMode)
			}
			engine := server.NewEngine(server.New(latest, c.cfg.LogPath, c.cfg.Border), logger)
			serve := func(ctx context.Context) error {
				return server.Run(ctx, c.cfg.Listen, engine, logger)
			}
			return l.run(cmd.Context(), serve)
		},
	}
	addFrameFlags(cmd.Flags(), &c.cfg)
	cmd.Flags().StringVar(&c.cfg.Listen, "listen", c.cfg.Listen, "HTTP listen address")
	return cmd
}

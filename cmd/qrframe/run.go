package main

import (
	"github.com/spf13/cobra"

	"github.com/ashokshau/qrframe/internal/config"
)

func newRunCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the frame loop on the terminal or into a file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			changed, flagCfg, logger, err := c.loadLoopConfig(cmd)
			if err != nil {
				return err
			}

			l, err := newLoop(c.cfg, cmd.OutOrStdout(), logger)
			if err != nil {
				return err
			}
			if c.cfg.Watch {
				if path := c.configPath(); path != "" && config.FileExists(path) {
					l.watch(path, flagCfg, changed)
				}
			}
			return l.run(cmd.Context(), nil)
		},
	}
	addFrameFlags(cmd.Flags(), &c.cfg)
	return cmd
}

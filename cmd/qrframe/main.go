package main

import (
	"fmt"
	"os"
	"runtime"
	"runtime/debug"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	pflag "github.com/spf13/pflag"

	"github.com/ashokshau/qrframe/internal/config"
)

const longHelp = `
Generate a QR code every few milliseconds encoding the current time and a
frame counter, show it and append every frame to a JSON log.

Settings come from defaults, $HOME/.qrframe/config.toml, QRFRAME_*
environment variables and flags, in increasing order of precedence.
`

var exampleUsage = strings.TrimSpace(`
  qrframe run --max-frames 100 --start-delay 0
  qrframe run --revision 2 --display file --output frame.png
  qrframe serve --listen :8080
  qrframe encode "hello world" -o hello.svg
  qrframe decode hello.png
`)

func getVersion() string {
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" {
		return info.Main.Version
	}
	return "dev"
}

// cli holds the state shared by every command.
type cli struct {
	cfg     config.Config
	cfgPath string
}

func newRootCmd() *cobra.Command {
	c := &cli{cfg: config.DefaultConfig()}

	root := &cobra.Command{
		Use:     "qrframe",
		Short:   "Periodically encode a timestamp and frame counter into QR codes",
		Long:    strings.TrimSpace(longHelp),
		Example: exampleUsage,
		Version: fmt.Sprintf("%s %s/%s", getVersion(), runtime.GOOS, runtime.GOARCH),
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if c.cfg.NoColor {
				color.NoColor = true
			}
			_, err := config.SetupLogger(c.cfg)
			return err
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVar(&c.cfgPath, "config", "", "path to config file (default: $HOME/.qrframe/config.toml)")
	root.PersistentFlags().StringVar(&c.cfg.LogLevel, "log-level", c.cfg.LogLevel, "log level: debug, info, warn, error")
	root.PersistentFlags().BoolVar(&c.cfg.NoColor, "no-color", c.cfg.NoColor, "disable colored output")

	root.AddCommand(
		newRunCmd(c),
		newServeCmd(c),
		newEncodeCmd(),
		newDecodeCmd(),
	)
	return root
}

// changedFlags returns the names of the flags set on the command line.
func changedFlags(cmd *cobra.Command) map[string]bool {
	changed := map[string]bool{}
	cmd.Flags().Visit(func(f *pflag.Flag) { changed[f.Name] = true })
	return changed
}

// configPath returns the --config path or the default one.
func (c *cli) configPath() string {
	if c.cfgPath != "" {
		return c.cfgPath
	}
	return config.DefaultConfigPath()
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		log := config.Logger()
		log.Error().Err(err).Msg("qrframe")
		os.Exit(1)
	}
}

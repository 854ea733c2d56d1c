package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	pflag "github.com/spf13/pflag"

	"github.com/ashokshau/qrframe/internal/config"
	"github.com/ashokshau/qrframe/internal/display"
	"github.com/ashokshau/qrframe/internal/frame"
	"github.com/ashokshau/qrframe/internal/framelog"
)

func addFrameFlags(fs *pflag.FlagSet, cfg *config.Config) {
	fs.IntVar(&cfg.Revision, "revision", cfg.Revision, "preset: 1 (vector, low, 16ms, per-frame log) or 2 (raster, medium, 100ms, buffered log)")
	fs.StringVar(&cfg.Level, "level", cfg.Level, "error correction level: low, medium, quartile, high")
	fs.BoolVar(&cfg.Boost, "boost", cfg.Boost, "raise the error correction level when it fits the same version")
	fs.DurationVar(&cfg.Interval, "interval", cfg.Interval, "time between frames")
	fs.DurationVar(&cfg.StartDelay, "start-delay", cfg.StartDelay, "wait before the first frame")
	fs.StringVar(&cfg.Render, "render", cfg.Render, "render mode: vector or raster")
	fs.IntVar(&cfg.Border, "border", cfg.Border, fmt.Sprintf("quiet zone in modules (at most %d)", config.MaxBorder))
	fs.IntVar(&cfg.Scale, "scale", cfg.Scale, fmt.Sprintf("pixels per module in raster mode (at most %d)", config.MaxScale))
	fs.IntVar(&cfg.Side, "side", cfg.Side, fmt.Sprintf("image size in pixels in vector mode (at most %d)", config.MaxSide))
	fs.StringVar(&cfg.Prefix, "prefix", cfg.Prefix, "text before the timestamp")
	fs.StringVar(&cfg.Layout, "layout", cfg.Layout, "timestamp layout (Go time format)")
	fs.IntVar(&cfg.MaxFrames, "max-frames", cfg.MaxFrames, "stop after this many frames (0 = no limit)")
	fs.StringVar(&cfg.LogPath, "log-path", cfg.LogPath, "frame log path (default: $HOME/Documents/qr_data.json)")
	fs.StringVar(&cfg.LogMode, "log-mode", cfg.LogMode, "frame log writes: frame or buffered")
	fs.IntVar(&cfg.FlushEvery, "flush-every", cfg.FlushEvery, "buffered log flushes after this many frames")
	fs.StringVar(&cfg.Display, "display", cfg.Display, "display: terminal, file or none")
	fs.StringVar(&cfg.Output, "output", cfg.Output, "output file of the file display (.png, .bmp or .svg)")
	fs.BoolVar(&cfg.Watch, "watch", cfg.Watch, "reload level, render and interval when the config file changes")
}

// loop is a configured frame loop.
type loop struct {
	runner  *frame.Runner
	watcher *config.Watcher
	logger  zerolog.Logger
}

// loadLoopConfig layers file and environment over the flags of cmd and
// sets up logging.
func (c *cli) loadLoopConfig(cmd *cobra.Command) (map[string]bool, config.Config, zerolog.Logger, error) {
	changed := changedFlags(cmd)
	flagCfg := c.cfg

	if err := config.Load(&c.cfg, c.configPath(), changed); err != nil {
		return nil, flagCfg, zerolog.Nop(), err
	}
	logger, err := config.SetupLogger(c.cfg)
	if err != nil {
		return nil, flagCfg, logger, err
	}
	return changed, flagCfg, logger, nil
}

// newLoop builds the runner for cfg. Frames go to the configured display
// and to extra.
func newLoop(cfg config.Config, out io.Writer, logger zerolog.Logger, extra ...frame.Display) (*loop, error) {
	settings, err := cfg.Settings()
	if err != nil {
		return nil, err
	}

	var (
		displays display.Multi
		output   string
	)
	switch cfg.Display {
	case config.DisplayTerminal:
		opts := []display.TerminalOption{display.WithBorder(2), display.WithClear()}
		if cfg.NoColor {
			opts = append(opts, display.WithNoColor())
		}
		displays = append(displays, display.NewTerminal(out, opts...))
	case config.DisplayFile:
		fd, err := display.NewFile(cfg.Output, cfg.Border)
		if err != nil {
			return nil, err
		}
		displays = append(displays, fd)
		output = fd.Path()
	}
	displays = append(displays, extra...)

	fileLog := framelog.NewFileLog(cfg.LogPath, framelog.WithLogger(logger))
	var appender framelog.Appender = fileLog
	if cfg.LogMode == config.LogModeBuffered {
		appender = framelog.NewBuffered(appender, cfg.FlushEvery)
	}
	recorder := framelog.NewRecorder(appender)

	runner := frame.NewRunner(
		frame.TimestampSource{Prefix: cfg.Prefix, Layout: cfg.Layout},
		frame.WithSettings(settings),
		frame.WithDisplay(displays),
		frame.WithRecorder(recorder),
		frame.WithStartDelay(cfg.StartDelay),
		frame.WithMaxFrames(cfg.MaxFrames),
		frame.WithLogger(logger),
	)

	logger.Info().
		Int("revision", cfg.Revision).
		Str("log_path", fileLog.Path()).
		Str("log_mode", cfg.LogMode).
		Str("display", cfg.Display).
		Str("output", output).
		Str("run_id", recorder.RunID()).
		Msg("configuration")

	return &loop{runner: runner, logger: logger}, nil
}

// watch reloads the config file at path on change and applies the
// result to the runner. flagCfg and changed are the command line layer.
func (l *loop) watch(path string, flagCfg config.Config, changed map[string]bool) {
	load := func() (config.Config, error) {
		cfg := flagCfg
		err := config.Load(&cfg, path, changed)
		return cfg, err
	}
	apply := func(cfg config.Config) {
		s, err := cfg.Settings()
		if err != nil {
			l.logger.Warn().Err(err).Msg("ignoring reloaded config")
			return
		}
		l.runner.Update(s)
	}
	l.watcher = config.NewWatcher(path, load, apply, l.logger)
}

// run runs the loop, the watcher and server, when not nil, until the loop
// ends or a signal arrives. The first error wins.
func (l *loop) run(ctx context.Context, server func(context.Context) error) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		firstErr error
	)
	start := func(name string, fn func(context.Context) error) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			defer cancel()
			if err := fn(ctx); err != nil {
				mu.Lock()
				if firstErr == nil {
					firstErr = fmt.Errorf("%s: %w", name, err)
				}
				mu.Unlock()
			}
		}()
	}

	start("frame loop", l.runner.Run)
	if l.watcher != nil {
		start("config watcher", func(ctx context.Context) error {
			// A broken watcher only disables reloading.
			if err := l.watcher.Run(ctx); err != nil {
				l.logger.Warn().Err(err).Msg("config watcher stopped")
			}
			<-ctx.Done()
			return nil
		})
	}
	if server != nil {
		start("http server", server)
	}
	wg.Wait()
	return firstErr
}

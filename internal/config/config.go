// Package config holds qrframe's settings and the layers they come from:
// defaults, a TOML file, QRFRAME_* environment variables and flags.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/ashokshau/qrframe/internal/frame"
	"github.com/ashokshau/qrframe/qrcode"
)

// Log modes.
const (
	LogModeFrame    = "frame"
	LogModeBuffered = "buffered"
)

// Displays.
const (
	DisplayTerminal = "terminal"
	DisplayFile     = "file"
	DisplayNone     = "none"
)

// DefaultListen is the default HTTP listen address of serve.
const DefaultListen = "127.0.0.1:8080"

// Image size limits. A frame image is at most MaxSide pixels square.
const (
	MaxBorder = 64
	MaxScale  = 64
	MaxSide   = 4096
)

// Config holds qrframe configuration.
type Config struct {
	// Revision selects the preset the other settings start from: 1 is the
	// vector/LOW/16ms/per-frame setup, 2 the raster/MEDIUM/100ms/buffered one.
	Revision int

	Level      string
	Boost      bool
	Interval   time.Duration
	StartDelay time.Duration
	Render     string
	Border     int
	Scale      int
	Side       int

	Prefix    string
	Layout    string
	MaxFrames int

	LogPath    string
	LogMode    string
	FlushEvery int

	Display string
	Output  string
	Listen  string

	LogLevel string
	NoColor  bool
	Watch    bool
}

// DefaultConfig returns revision 1 defaults.
func DefaultConfig() Config {
	return Config{
		Revision:   1,
		Level:      "low",
		Interval:   16 * time.Millisecond,
		StartDelay: 5 * time.Second,
		Render:     "vector",
		Border:     qrcode.QuietZone,
		Scale:      20,
		Side:       600,
		Prefix:     frame.DefaultPrefix,
		Layout:     frame.DefaultLayout,
		LogMode:    LogModeFrame,
		FlushEvery: 10,
		Display:    DisplayTerminal,
		Listen:     DefaultListen,
		LogLevel:   "info",
	}
}

// ApplyRevision sets the settings that differ between revisions, leaving
// changed flags alone.
func ApplyRevision(cfg *Config, rev int, changed map[string]bool) error {
	s := newConfigSetter(changed)
	switch rev {
	case 1:
		s.setString("level", "low", &cfg.Level)
		s.setString("render", "vector", &cfg.Render)
		s.setDurationValue("interval", 16*time.Millisecond, &cfg.Interval)
		s.setString("log-mode", LogModeFrame, &cfg.LogMode)
	case 2:
		s.setString("level", "medium", &cfg.Level)
		s.setString("render", "raster", &cfg.Render)
		s.setDurationValue("interval", 100*time.Millisecond, &cfg.Interval)
		s.setString("log-mode", LogModeBuffered, &cfg.LogMode)
	default:
		return fmt.Errorf("unknown revision %d", rev)
	}
	cfg.Revision = rev
	return nil
}

// Validate checks the configuration for errors and sets derived defaults.
func (c *Config) Validate() error {
	if _, err := qrcode.ParseLevel(c.Level); err != nil {
		return err
	}
	if _, err := qrcode.ParseRenderMode(c.Render); err != nil {
		return err
	}
	if c.Interval <= 0 {
		return fmt.Errorf("interval must be positive")
	}
	if c.StartDelay < 0 {
		return fmt.Errorf("start delay must not be negative")
	}
	if c.Border < 0 || c.Border > MaxBorder {
		return fmt.Errorf("border must be between 0 and %d", MaxBorder)
	}
	if c.Scale <= 0 || c.Scale > MaxScale {
		return fmt.Errorf("scale must be between 1 and %d", MaxScale)
	}
	if c.Side <= 0 || c.Side > MaxSide {
		return fmt.Errorf("side must be between 1 and %d", MaxSide)
	}
	if c.MaxFrames < 0 {
		return fmt.Errorf("max frames must not be negative")
	}

	switch c.LogMode {
	case LogModeFrame, LogModeBuffered:
	default:
		return fmt.Errorf("unknown log mode %q", c.LogMode)
	}
	if c.FlushEvery <= 0 {
		return fmt.Errorf("flush every must be positive")
	}

	switch c.Display {
	case DisplayTerminal, DisplayNone:
	case DisplayFile:
		if c.Output == "" {
			return fmt.Errorf("file display needs an output path")
		}
	default:
		return fmt.Errorf("unknown display %q", c.Display)
	}

	if c.Layout == "" {
		c.Layout = frame.DefaultLayout
	}
	if c.LogPath == "" {
		c.LogPath = DefaultLogPath()
	}
	return nil
}

// Settings returns the runner settings the configuration describes.
func (c Config) Settings() (frame.Settings, error) {
	level, err := qrcode.ParseLevel(c.Level)
	if err != nil {
		return frame.Settings{}, err
	}
	mode, err := qrcode.ParseRenderMode(c.Render)
	if err != nil {
		return frame.Settings{}, err
	}
	render := qrcode.RenderOptions{Mode: mode, Border: c.Border, Scale: c.Scale}
	if mode == qrcode.RenderVector {
		render.Side = c.Side
	}
	return frame.Settings{Level: level, Boost: c.Boost, Render: render, Interval: c.Interval}, nil
}

// DefaultLogPath returns ~/Documents/qr_data.json, or ~/qr_data.json when
// there is no Documents folder.
func DefaultLogPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "qr_data.json"
	}
	docs := filepath.Join(home, "Documents")
	if fi, err := os.Stat(docs); err == nil && fi.IsDir() {
		return filepath.Join(docs, "qr_data.json")
	}
	return filepath.Join(home, "qr_data.json")
}

// Load layers the revision preset, the file at path and the environment
// over cfg, skipping anything set by a changed flag, and validates the
// result. A missing file is not an error.
func Load(cfg *Config, path string, changed map[string]bool) error {
	var fc FileConfig
	if path != "" && FileExists(path) {
		var err error
		if fc, err = LoadFileConfig(path); err != nil {
			return fmt.Errorf("load config: %w", err)
		}
	}

	rev := cfg.Revision
	if !changed["revision"] {
		if fc.Revision > 0 {
			rev = fc.Revision
		}
		if v := os.Getenv("QRFRAME_REVISION"); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil {
				return fmt.Errorf("parse revision: %w", err)
			}
			rev = n
		}
	}
	if err := ApplyRevision(cfg, rev, changed); err != nil {
		return err
	}

	if err := ApplyFileConfig(cfg, fc, changed); err != nil {
		return err
	}
	if err := ApplyEnvConfig(cfg, changed); err != nil {
		return err
	}
	return cfg.Validate()
}

// configSetter applies configuration values while respecting flag precedence.
// It only applies values if the corresponding flag hasn't been explicitly set.
type configSetter struct {
	changed map[string]bool
}

func newConfigSetter(changed map[string]bool) *configSetter {
	return &configSetter{changed: changed}
}

// setString sets a string value if not empty and flag not changed.
func (s *configSetter) setString(flag, value string, dst *string) {
	if value == "" || s.changed[flag] {
		return
	}
	*dst = value
}

// setInt sets an int value if positive and flag not changed.
func (s *configSetter) setInt(flag string, value int, dst *int) {
	if value <= 0 || s.changed[flag] {
		return
	}
	*dst = value
}

// setIntPtr sets an int value, zero included, if present and flag not changed.
func (s *configSetter) setIntPtr(flag string, value *int, dst *int) {
	if value == nil || s.changed[flag] {
		return
	}
	*dst = *value
}

// setDuration parses and sets a duration from string if valid and flag not changed.
func (s *configSetter) setDuration(flag, value string, dst *time.Duration) error {
	if value == "" || s.changed[flag] {
		return nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return fmt.Errorf("parse %s: %w", flag, err)
	}
	*dst = d
	return nil
}

func (s *configSetter) setDurationValue(flag string, value time.Duration, dst *time.Duration) {
	if s.changed[flag] {
		return
	}
	*dst = value
}

// setBool sets a bool value from a pointer if not nil and flag not changed.
func (s *configSetter) setBool(flag string, value *bool, dst *bool) {
	if value == nil || s.changed[flag] {
		return
	}
	*dst = *value
}

// setIntFromString parses a string to int and sets the destination.
// Zero is accepted so that border and max-frames can be cleared.
func (s *configSetter) setIntFromString(flag, value string, dst *int) error {
	if value == "" || s.changed[flag] {
		return nil
	}
	i, err := strconv.Atoi(value)
	if err != nil {
		return fmt.Errorf("parse %s: %w", flag, err)
	}
	*dst = i
	return nil
}

// setBoolFromString parses a string to bool and sets the destination.
// Accepts "true", "1" as true, anything else as false.
func (s *configSetter) setBoolFromString(flag, value string, dst *bool) {
	if value == "" || s.changed[flag] {
		return
	}
	*dst = value == "true" || value == "1"
}

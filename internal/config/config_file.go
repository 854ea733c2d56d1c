package config

import (
	"os"
	"path/filepath"

	toml "github.com/pelletier/go-toml/v2"
)

// FileConfig mirrors Config but uses strings for durations to make TOML friendly.
type FileConfig struct {
	Revision   int    `toml:"revision"`
	Level      string `toml:"level"`
	Interval   string `toml:"interval"`
	StartDelay string `toml:"start_delay"`
	Render     string `toml:"render"`
	Border     *int   `toml:"border"`
	Scale      int    `toml:"scale"`
	Side       int    `toml:"side"`
	Prefix     string `toml:"prefix"`
	Layout     string `toml:"layout"`
	MaxFrames  *int   `toml:"max_frames"`
	LogPath    string `toml:"log_path"`
	LogMode    string `toml:"log_mode"`
	FlushEvery int    `toml:"flush_every"`
	Display    string `toml:"display"`
	Output     string `toml:"output"`
	Listen     string `toml:"listen"`
	LogLevel   string `toml:"log_level"`
	Boost      *bool  `toml:"boost"`
	NoColor    *bool  `toml:"no_color"`
	Watch      *bool  `toml:"watch"`
}

// LoadFileConfig reads and parses a TOML config file from the given path.
func LoadFileConfig(path string) (FileConfig, error) {
	var fc FileConfig
	b, err := os.ReadFile(path)
	if err != nil {
		return fc, err
	}
	if err := toml.Unmarshal(b, &fc); err != nil {
		return fc, err
	}
	return fc, nil
}

// DefaultConfigPath returns ~/.qrframe/config.toml, or "" without a home
// directory.
func DefaultConfigPath() string {
	if h, err := os.UserHomeDir(); err == nil {
		return filepath.Join(h, ".qrframe", "config.toml")
	}
	return ""
}

// ApplyFileConfig applies configuration from a file to the Config struct.
// It respects flags that have been explicitly set (changed map).
func ApplyFileConfig(cfg *Config, fc FileConfig, changed map[string]bool) error {
	s := newConfigSetter(changed)

	s.setString("level", fc.Level, &cfg.Level)
	s.setString("render", fc.Render, &cfg.Render)
	s.setString("prefix", fc.Prefix, &cfg.Prefix)
	s.setString("layout", fc.Layout, &cfg.Layout)
	s.setString("log-path", fc.LogPath, &cfg.LogPath)
	s.setString("log-mode", fc.LogMode, &cfg.LogMode)
	s.setString("display", fc.Display, &cfg.Display)
	s.setString("output", fc.Output, &cfg.Output)
	s.setString("listen", fc.Listen, &cfg.Listen)
	s.setString("log-level", fc.LogLevel, &cfg.LogLevel)

	if err := s.setDuration("interval", fc.Interval, &cfg.Interval); err != nil {
		return err
	}
	if err := s.setDuration("start-delay", fc.StartDelay, &cfg.StartDelay); err != nil {
		return err
	}

	s.setIntPtr("border", fc.Border, &cfg.Border)
	s.setInt("scale", fc.Scale, &cfg.Scale)
	s.setInt("side", fc.Side, &cfg.Side)
	s.setIntPtr("max-frames", fc.MaxFrames, &cfg.MaxFrames)
	s.setInt("flush-every", fc.FlushEvery, &cfg.FlushEvery)

	s.setBool("boost", fc.Boost, &cfg.Boost)
	s.setBool("no-color", fc.NoColor, &cfg.NoColor)
	s.setBool("watch", fc.Watch, &cfg.Watch)

	return nil
}

// FileExists checks if a file exists at the given path.
func FileExists(p string) bool {
	_, err := os.Stat(p)
	return err == nil
}
